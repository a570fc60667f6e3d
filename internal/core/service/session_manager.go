package service

import (
	"context"
	"errors"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/kedikian/admin-gateway/internal/api/metrics"
	"github.com/kedikian/admin-gateway/internal/core/domain"
	"github.com/kedikian/admin-gateway/internal/core/ports"
)

// SessionManager owns the single active session. It hydrates from the
// credential store at construction, persists every mutation back to it, and
// fans out changes to subscribers.
//
// Valid transitions: Anonymous → Provisional (login succeeded, profile
// pending) → Established (profile settled), and any state → Anonymous on
// logout or a 401 from the backend. Nothing else.
type SessionManager struct {
	store ports.CredentialStore
	auth  ports.AuthClient
	log   zerolog.Logger

	mu      sync.RWMutex
	current *domain.Session
	subs    map[int]chan *domain.Session
	nextSub int
}

// NewSessionManager builds a manager hydrated from the credential store.
// A corrupted stored session is discarded (the store driver already removed
// it) and startup proceeds anonymous; hydration never fails the process.
func NewSessionManager(store ports.CredentialStore, auth ports.AuthClient, log zerolog.Logger) *SessionManager {
	m := &SessionManager{
		store: store,
		auth:  auth,
		log:   log,
		subs:  make(map[int]chan *domain.Session),
	}

	session, err := store.Load(context.Background())
	switch {
	case errors.Is(err, domain.ErrCorruptCredentials):
		metrics.SessionInvalidationsTotal.WithLabelValues("corrupt_storage").Inc()
		log.Warn().Msg("stored session unparseable, starting anonymous")
	case err != nil:
		log.Error().Err(err).Msg("credential store unavailable at startup, starting anonymous")
	case session != nil:
		m.current = session
		log.Info().Str("username", session.Username).Str("role", session.Role).Msg("session restored from storage")
	}
	return m
}

// Login implements ports.SessionManager.
func (m *SessionManager) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	token, err := m.auth.Token(ctx, username, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	// Persist a provisional session immediately so the profile fetch below
	// (and any request racing it) can already be authorized.
	provisional := &domain.Session{
		ID:       domain.ProvisionalID,
		Username: username,
		Role:     domain.RoleAdministrator,
		Token:    token,
	}
	enrichFromToken(provisional)

	if err := m.store.Save(ctx, provisional); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	m.replace(provisional)

	session := provisional
	if resolved, err := m.auth.Profile(ctx, token); err != nil {
		// Losing profile enrichment is non-fatal: the provisional session
		// stays usable.
		m.log.Warn().Err(err).Msg("profile fetch failed, keeping provisional session")
	} else {
		resolved.ExpiresAt = provisional.ExpiresAt
		if err := m.store.Save(ctx, resolved); err != nil {
			m.log.Error().Err(err).Msg("failed to persist resolved session, keeping provisional")
		} else {
			m.replace(resolved)
			session = resolved
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	m.log.Info().Str("username", session.Username).Str("role", session.Role).Bool("provisional", session.Provisional()).Msg("login succeeded")
	return m.Current(), nil
}

// Logout implements ports.SessionManager.
func (m *SessionManager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	m.replace(nil)
	m.log.Info().Msg("session ended")
	return nil
}

// Invalidate implements ports.SessionManager. Called by the authorizer after
// a 401; the store is already cleared by then, but clearing twice is safe.
func (m *SessionManager) Invalidate(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error().Err(err).Msg("failed to clear credential store on invalidation")
	}
	m.replace(nil)
	m.log.Warn().Msg("session invalidated by backend")
}

// Current implements ports.SessionManager.
func (m *SessionManager) Current() *domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil
	}
	clone := *m.current
	return &clone
}

// IsAuthenticated implements ports.SessionManager.
func (m *SessionManager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// HasRole implements ports.SessionManager.
func (m *SessionManager) HasRole(role string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil && m.current.Role == role
}

// Subscribe implements ports.SessionManager. The channel receives every
// session change, nil meaning logout. Slow subscribers drop updates rather
// than block the pipeline.
func (m *SessionManager) Subscribe() (<-chan *domain.Session, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan *domain.Session, 8)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// replace swaps the active session and notifies subscribers.
func (m *SessionManager) replace(session *domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = session
	for _, ch := range m.subs {
		var update *domain.Session
		if session != nil {
			clone := *session
			update = &clone
		}
		select {
		case ch <- update:
		default:
		}
	}
}

// enrichFromToken copies what an unverified claim parse can offer into the
// provisional session. The gateway never validates the token (it is opaque,
// issued and checked by the backend) but the expiry claim is useful for the
// session view.
func enrichFromToken(session *domain.Session) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(session.Token, claims); err != nil {
		return
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
}
