// Package guard implements navigation access control as pure decisions: a
// guard never redirects by side effect, it returns what should happen and the
// HTTP layer interprets it. That keeps the rules independently testable.
package guard

import (
	"net/url"

	"github.com/kedikian/admin-gateway/internal/core/domain"
	"github.com/kedikian/admin-gateway/internal/core/ports"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"

	// ReturnParam preserves the originally requested destination across a
	// forced redirect to login.
	ReturnParam = "returnUrl"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allowed bool
	Target  string
	Params  url.Values
}

// Allow lets the navigation proceed.
func Allow() Decision {
	return Decision{Allowed: true}
}

// RedirectTo denies the navigation and names the fallback destination.
func RedirectTo(target string, params url.Values) Decision {
	return Decision{Target: target, Params: params}
}

func redirectToLogin(requestedPath string) Decision {
	return RedirectTo(LoginPath, url.Values{ReturnParam: []string{requestedPath}})
}

// Authentication allows navigation iff a session exists; otherwise it sends
// the caller to login, carrying the requested path as the return target.
func Authentication(sessions ports.SessionManager, requestedPath string) Decision {
	if sessions.IsAuthenticated() {
		return Allow()
	}
	return redirectToLogin(requestedPath)
}

// Role enforces a per-route required-role annotation. An empty annotation
// admits any authenticated session. A mismatch with a recognized role is a
// uniform soft-redirect to the dashboard rather than an access-denied page:
// both administrators and operators land on the same default view. An
// unrecognized role, or no session at all, goes back to login.
func Role(sessions ports.SessionManager, required, requestedPath string) Decision {
	if required == "" {
		return Allow()
	}

	session := sessions.Current()
	if session == nil {
		return redirectToLogin(requestedPath)
	}
	if session.Role == required {
		return Allow()
	}

	switch session.Role {
	case domain.RoleAdministrator, domain.RoleOperator:
		return RedirectTo(DashboardPath, nil)
	default:
		return redirectToLogin(requestedPath)
	}
}
