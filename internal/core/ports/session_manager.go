package ports

import (
	"context"

	"github.com/kedikian/admin-gateway/internal/core/domain"
)

// SessionManager is the single source of truth for "who is logged in".
type SessionManager interface {
	// Login authenticates against the backend token endpoint. A provisional
	// session is persisted as soon as the token is issued; the authoritative
	// profile replaces it when the profile endpoint answers.
	Login(ctx context.Context, username, password string) (*domain.Session, error)

	// Logout clears the credential store and the in-memory session.
	Logout(ctx context.Context) error

	// Invalidate is the 401 reaction path: same effect as Logout, but callers
	// treat the session as expired rather than explicitly ended.
	Invalidate(ctx context.Context)

	// Current returns a snapshot of the active session, or nil when anonymous.
	Current() *domain.Session

	IsAuthenticated() bool
	HasRole(role string) bool

	// Subscribe returns a channel receiving every session change (nil on
	// logout). The returned func unregisters the subscriber.
	Subscribe() (<-chan *domain.Session, func())
}
