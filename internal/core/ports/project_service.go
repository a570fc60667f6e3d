package ports

import (
	"context"

	"github.com/kedikian/admin-gateway/internal/core/domain"
)

// ProjectService serves project reads through the response cache and owns
// cache invalidation after every mutation.
type ProjectService interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id int) (*domain.Project, error)
	Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error)
	Update(ctx context.Context, id int, in domain.ProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, id int) error
}
