package domain

import "time"

// Project mirrors the backend's project resource. The gateway treats it as an
// opaque payload apart from the identity used for cache keys.
type Project struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Active    bool      `json:"active"`
	Progress  int       `json:"progress"`
	Manager   string    `json:"manager"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectInput carries the mutable fields for create/update calls.
type ProjectInput struct {
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Active    bool      `json:"active"`
	Progress  int       `json:"progress"`
	Manager   string    `json:"manager"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}
