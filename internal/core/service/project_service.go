package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/kedikian/admin-gateway/internal/api/metrics"
	"github.com/kedikian/admin-gateway/internal/core/domain"
	"github.com/kedikian/admin-gateway/internal/core/ports"
	"github.com/kedikian/admin-gateway/internal/infrastructure/cache"
)

const projectListKey = "projects"

// ProjectService proxies project reads through the response cache and is the
// sole owner of its invalidation: every mutation drops the entries it could
// have staled.
type ProjectService struct {
	client    ports.ProjectClient
	listCache *cache.Cache[[]domain.Project]
	itemCache *cache.Cache[domain.Project]
	log       zerolog.Logger
}

func NewProjectService(client ports.ProjectClient, log zerolog.Logger, opts ...cache.Option) *ProjectService {
	return &ProjectService{
		client:    client,
		listCache: cache.New[[]domain.Project](opts...),
		itemCache: cache.New[domain.Project](opts...),
		log:       log,
	}
}

// List implements ports.ProjectService.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.listCache.Get(ctx, projectListKey, func(ctx context.Context) ([]domain.Project, error) {
		start := time.Now()
		projects, err := s.client.List(ctx)
		metrics.CacheFetchDuration.Observe(time.Since(start).Seconds())
		return projects, err
	})
}

// Get implements ports.ProjectService.
func (s *ProjectService) Get(ctx context.Context, id int) (*domain.Project, error) {
	project, err := s.itemCache.Get(ctx, itemKey(id), func(ctx context.Context) (domain.Project, error) {
		start := time.Now()
		p, err := s.client.Get(ctx, id)
		metrics.CacheFetchDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			return domain.Project{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Create implements ports.ProjectService.
func (s *ProjectService) Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	project, err := s.client.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.listCache.Invalidate(projectListKey)
	s.log.Debug().Int("project_id", project.ID).Msg("project created, collection cache invalidated")
	return project, nil
}

// Update implements ports.ProjectService.
func (s *ProjectService) Update(ctx context.Context, id int, in domain.ProjectInput) (*domain.Project, error) {
	project, err := s.client.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.listCache.Invalidate(projectListKey)
	s.itemCache.Invalidate(itemKey(id))
	return project, nil
}

// Delete implements ports.ProjectService.
func (s *ProjectService) Delete(ctx context.Context, id int) error {
	if err := s.client.Delete(ctx, id); err != nil {
		return err
	}
	s.listCache.Invalidate(projectListKey)
	s.itemCache.Invalidate(itemKey(id))
	return nil
}

func itemKey(id int) string {
	return "projects/" + strconv.Itoa(id)
}
