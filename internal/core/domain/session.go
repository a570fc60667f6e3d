package domain

import "time"

const (
	RoleAdministrator = "administrator"
	RoleOperator      = "operator"
	RoleClient        = "client"
)

// ProvisionalID marks a session persisted right after login, before the
// profile endpoint has resolved the real identity.
const ProvisionalID = "temp"

// Session is the client-side record of the currently authenticated identity.
// At most one session is held at a time; a new login replaces it wholesale.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Provisional reports whether the profile fetch has not yet replaced the
// placeholder identity recorded at login time.
func (s *Session) Provisional() bool {
	return s.ID == ProvisionalID
}

// KnownRole reports whether the session carries one of the closed role set.
func (s *Session) KnownRole() bool {
	switch s.Role {
	case RoleAdministrator, RoleOperator, RoleClient:
		return true
	}
	return false
}
