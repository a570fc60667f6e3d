package ports

import (
	"context"

	"github.com/kedikian/admin-gateway/internal/core/domain"
)

// AuthClient talks to the backend's token and profile endpoints.
type AuthClient interface {
	// Token exchanges credentials for a bearer token. Both fields travel
	// base64-encoded in a form-urlencoded body (a backend encoding convention,
	// not a security measure).
	Token(ctx context.Context, username, password string) (string, error)

	// Profile fetches the authoritative session for the given token.
	Profile(ctx context.Context, token string) (*domain.Session, error)
}

// ProjectClient wraps the backend's project resource endpoints. All calls go
// through the authorized transport; none of them cache.
type ProjectClient interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id int) (*domain.Project, error)
	Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, id int, in domain.ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, id int) error
}
