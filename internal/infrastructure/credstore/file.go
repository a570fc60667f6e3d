package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kedikian/admin-gateway/internal/core/domain"
)

// FileStore persists the session as a JSON file. Writes go through a
// temp-file-plus-rename so a crash mid-write never leaves a torn session on
// disk. A corrupted file is removed and reported as ErrCorruptCredentials.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load implements ports.CredentialStore.
func (s *FileStore) Load(_ context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("credstore: read %s: %w", s.path, err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		_ = os.Remove(s.path)
		return nil, domain.ErrCorruptCredentials
	}
	return &session, nil
}

// Save implements ports.CredentialStore.
func (s *FileStore) Save(_ context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("credstore: marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("credstore: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("credstore: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("credstore: write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("credstore: chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("credstore: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("credstore: replace %s: %w", s.path, err)
	}
	return nil
}

// Clear implements ports.CredentialStore.
func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("credstore: remove %s: %w", s.path, err)
	}
	return nil
}
