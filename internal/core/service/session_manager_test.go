package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kedikian/admin-gateway/internal/core/domain"
)

type stubStore struct {
	mu      sync.Mutex
	session *domain.Session
	corrupt bool
	saves   int
	clears  int
}

func (s *stubStore) Load(_ context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.corrupt {
		s.corrupt = false
		s.session = nil
		return nil, domain.ErrCorruptCredentials
	}
	if s.session == nil {
		return nil, nil
	}
	clone := *s.session
	return &clone, nil
}

func (s *stubStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *session
	s.session = &clone
	s.saves++
	return nil
}

func (s *stubStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	s.clears++
	return nil
}

func (s *stubStore) stored() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

type stubAuth struct {
	token      string
	tokenErr   error
	profile    *domain.Session
	profileErr error
}

func (a *stubAuth) Token(_ context.Context, username, password string) (string, error) {
	if a.tokenErr != nil {
		return "", a.tokenErr
	}
	return a.token, nil
}

func (a *stubAuth) Profile(_ context.Context, token string) (*domain.Session, error) {
	if a.profileErr != nil {
		return nil, a.profileErr
	}
	clone := *a.profile
	clone.Token = token
	return &clone, nil
}

func newManager(store *stubStore, auth *stubAuth) *SessionManager {
	return NewSessionManager(store, auth, zerolog.Nop())
}

func TestSessionManager_Login_EstablishedAfterProfile(t *testing.T) {
	store := &stubStore{}
	auth := &stubAuth{
		token:   "tok-1",
		profile: &domain.Session{ID: "7", Username: "alice", Role: domain.RoleOperator},
	}
	m := newManager(store, auth)

	session, err := m.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.ID != "7" || session.Role != domain.RoleOperator {
		t.Fatalf("expected resolved session, got %+v", session)
	}
	if session.Provisional() {
		t.Fatalf("resolved session still provisional")
	}
	if stored := store.stored(); stored == nil || stored.ID != "7" {
		t.Fatalf("resolved session not persisted: %+v", stored)
	}
	// Provisional session must have been persisted before the profile fetch.
	if store.saves != 2 {
		t.Fatalf("expected 2 saves (provisional + resolved), got %d", store.saves)
	}
}

func TestSessionManager_Login_KeepsProvisionalOnProfileFailure(t *testing.T) {
	store := &stubStore{}
	auth := &stubAuth{token: "tok-1", profileErr: errors.New("me endpoint down")}
	m := newManager(store, auth)

	session, err := m.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !session.Provisional() {
		t.Fatalf("expected provisional session, got id %q", session.ID)
	}
	if session.Username != "alice" || session.Role != domain.RoleAdministrator {
		t.Fatalf("unexpected provisional session: %+v", session)
	}
	if session.Token != "tok-1" {
		t.Fatalf("token not carried: %+v", session)
	}
	if !m.IsAuthenticated() {
		t.Fatalf("expected authenticated after provisional login")
	}
}

func TestSessionManager_Login_Rejected(t *testing.T) {
	store := &stubStore{}
	auth := &stubAuth{tokenErr: domain.ErrInvalidCredentials}
	m := newManager(store, auth)

	if _, err := m.Login(context.Background(), "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if m.IsAuthenticated() {
		t.Fatalf("rejected login must not authenticate")
	}
	if store.stored() != nil {
		t.Fatalf("rejected login must not persist a session")
	}
}

func TestSessionManager_SingleActiveSession(t *testing.T) {
	store := &stubStore{}
	auth := &stubAuth{
		token:   "tok-1",
		profile: &domain.Session{ID: "1", Username: "alice", Role: domain.RoleAdministrator},
	}
	m := newManager(store, auth)

	if _, err := m.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("first login: %v", err)
	}

	auth.token = "tok-2"
	auth.profile = &domain.Session{ID: "2", Username: "bob", Role: domain.RoleOperator}
	if _, err := m.Login(context.Background(), "bob", "secret"); err != nil {
		t.Fatalf("second login: %v", err)
	}

	current := m.Current()
	if current.Username != "bob" || current.Token != "tok-2" || current.ID != "2" {
		t.Fatalf("session mixes logins: %+v", current)
	}

	if err := m.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if m.Current() != nil || m.IsAuthenticated() {
		t.Fatalf("expected anonymous after logout")
	}
	if store.stored() != nil {
		t.Fatalf("logout must clear the store")
	}
}

func TestSessionManager_HydratesFromStore(t *testing.T) {
	store := &stubStore{session: &domain.Session{ID: "9", Username: "carol", Role: domain.RoleOperator, Token: "tok"}}
	m := newManager(store, &stubAuth{})

	if !m.IsAuthenticated() {
		t.Fatalf("expected session restored from storage")
	}
	if !m.HasRole(domain.RoleOperator) {
		t.Fatalf("restored session lost its role")
	}
}

func TestSessionManager_CorruptStorageRecovery(t *testing.T) {
	store := &stubStore{corrupt: true}
	m := newManager(store, &stubAuth{})

	if m.Current() != nil {
		t.Fatalf("corrupt storage must hydrate to anonymous")
	}
	if store.stored() != nil {
		t.Fatalf("corrupt entry must be gone")
	}
}

func TestSessionManager_Invalidate(t *testing.T) {
	store := &stubStore{}
	auth := &stubAuth{token: "tok", profileErr: errors.New("down")}
	m := newManager(store, auth)

	if _, err := m.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	m.Invalidate(context.Background())

	if m.IsAuthenticated() {
		t.Fatalf("expected anonymous after invalidation")
	}
	if store.stored() != nil {
		t.Fatalf("invalidation must clear the store")
	}
}

func TestSessionManager_SubscribeReceivesChanges(t *testing.T) {
	store := &stubStore{}
	auth := &stubAuth{token: "tok", profileErr: errors.New("down")}
	m := newManager(store, auth)

	ch, cancel := m.Subscribe()
	defer cancel()

	if _, err := m.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}

	select {
	case got := <-ch:
		if got == nil || got.Username != "alice" {
			t.Fatalf("unexpected update: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("no update received after login")
	}

	if err := m.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}

	select {
	case got := <-ch:
		if got != nil {
			t.Fatalf("expected nil update on logout, got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("no update received after logout")
	}
}

func TestSessionManager_HasRole(t *testing.T) {
	store := &stubStore{session: &domain.Session{ID: "1", Username: "alice", Role: domain.RoleAdministrator, Token: "tok"}}
	m := newManager(store, &stubAuth{})

	if !m.HasRole(domain.RoleAdministrator) {
		t.Fatalf("expected administrator role")
	}
	if m.HasRole(domain.RoleOperator) {
		t.Fatalf("unexpected operator role")
	}
}
