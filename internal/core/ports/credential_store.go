package ports

import (
	"context"

	"github.com/kedikian/admin-gateway/internal/core/domain"
)

// CredentialStore persists the current session across process restarts.
// It is the single piece of shared state read by every authorized request and
// written by login, logout, and 401 handling, so implementations must replace
// the stored value atomically (no reader may observe a half-written session).
type CredentialStore interface {
	// Load returns the stored session, or (nil, nil) when none is stored.
	// An unparseable entry is deleted and reported as domain.ErrCorruptCredentials.
	Load(ctx context.Context) (*domain.Session, error)

	// Save atomically replaces the stored session.
	Save(ctx context.Context, session *domain.Session) error

	// Clear removes the stored session. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
