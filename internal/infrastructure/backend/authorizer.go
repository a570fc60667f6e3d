package backend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kedikian/admin-gateway/internal/api/metrics"
	"github.com/kedikian/admin-gateway/internal/core/ports"
)

const defaultTokenWait = 100 * time.Millisecond

// authPaths lists backend paths that never require a bearer token. Requests
// matching them bypass the credential store entirely.
var authPaths = []string{"/auth/login", "/auth/register", "/auth/refresh"}

// Authorizer is an http.RoundTripper that attaches the stored bearer token to
// every outgoing backend request and centralizes HTTP failure handling.
//
// Login writes the credential store in a different code path from the reads
// here, with no shared transactional boundary. When the store is empty the
// authorizer therefore waits once (tokenWait) and re-reads before giving up
// and sending the request bare. This is a race mitigation, not a retry
// policy: the request itself is sent exactly once.
type Authorizer struct {
	next  http.RoundTripper
	store ports.CredentialStore
	wait  time.Duration
	log   zerolog.Logger

	// onUnauthorized runs after a 401 response, once the store is cleared.
	onUnauthorized func()
}

// AuthorizerOption configures an Authorizer.
type AuthorizerOption func(*Authorizer)

// WithTokenWait overrides the bounded delay used when the store is empty.
func WithTokenWait(d time.Duration) AuthorizerOption {
	return func(a *Authorizer) { a.wait = d }
}

// WithOnUnauthorized registers the 401 reaction hook (session teardown).
func WithOnUnauthorized(fn func()) AuthorizerOption {
	return func(a *Authorizer) { a.onUnauthorized = fn }
}

// SetOnUnauthorized registers the 401 hook after construction. The session
// manager needs the authorized client to be built first, so the wiring is
// necessarily two-step.
func (a *Authorizer) SetOnUnauthorized(fn func()) {
	a.onUnauthorized = fn
}

// NewAuthorizer wraps next with bearer-token injection and 401 handling.
// A nil next falls back to http.DefaultTransport.
func NewAuthorizer(next http.RoundTripper, store ports.CredentialStore, log zerolog.Logger, opts ...AuthorizerOption) *Authorizer {
	if next == nil {
		next = http.DefaultTransport
	}
	a := &Authorizer{
		next:  next,
		store: store,
		wait:  defaultTokenWait,
		log:   log,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RoundTrip implements http.RoundTripper.
func (a *Authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	if isAuthPath(req.URL.Path) {
		return a.next.RoundTrip(req)
	}

	token := a.loadToken(req.Context())
	if token == "" {
		// Tolerate the login-write race: wait once, re-read once.
		select {
		case <-time.After(a.wait):
		case <-req.Context().Done():
			return nil, req.Context().Err()
		}
		token = a.loadToken(req.Context())
		if token != "" {
			metrics.TokenWaitsTotal.WithLabelValues("recovered").Inc()
		} else {
			metrics.TokenWaitsTotal.WithLabelValues("missing").Inc()
			a.log.Debug().Str("path", req.URL.Path).Msg("no bearer token available, forwarding unauthenticated")
		}
	}

	out := req.Clone(req.Context())
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.next.RoundTrip(out)
	if err != nil {
		// Connectivity problem, not an identity problem: surface unchanged.
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		a.log.Warn().Str("path", req.URL.Path).Msg("backend returned 401, invalidating session")
		metrics.SessionInvalidationsTotal.WithLabelValues("unauthorized").Inc()
		if clearErr := a.store.Clear(req.Context()); clearErr != nil {
			a.log.Error().Err(clearErr).Msg("failed to clear credential store after 401")
		}
		if a.onUnauthorized != nil {
			a.onUnauthorized()
		}
	}
	// 403 and every other status pass through untouched: insufficient
	// privilege is the caller's problem, not a session problem.

	return resp, nil
}

func (a *Authorizer) loadToken(ctx context.Context) string {
	session, err := a.store.Load(ctx)
	if err != nil || session == nil {
		return ""
	}
	return session.Token
}

func isAuthPath(path string) bool {
	for _, p := range authPaths {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}
