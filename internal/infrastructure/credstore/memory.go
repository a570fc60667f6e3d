package credstore

import (
	"context"
	"sync"

	"github.com/kedikian/admin-gateway/internal/core/domain"
)

// MemoryStore holds the session in process memory. Used for single-instance
// deployments and as the fake store in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	session *domain.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements ports.CredentialStore.
func (s *MemoryStore) Load(_ context.Context) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil, nil
	}
	clone := *s.session
	return &clone, nil
}

// Save implements ports.CredentialStore.
func (s *MemoryStore) Save(_ context.Context, session *domain.Session) error {
	clone := *session

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &clone
	return nil
}

// Clear implements ports.CredentialStore.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
