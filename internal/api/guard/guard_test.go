package guard

import (
	"context"
	"testing"

	"github.com/kedikian/admin-gateway/internal/core/domain"
)

// fakeSessions satisfies ports.SessionManager with a fixed session.
type fakeSessions struct {
	session *domain.Session
}

func (f *fakeSessions) Login(context.Context, string, string) (*domain.Session, error) {
	panic("not used")
}
func (f *fakeSessions) Logout(context.Context) error { panic("not used") }
func (f *fakeSessions) Invalidate(context.Context)   { panic("not used") }

func (f *fakeSessions) Current() *domain.Session {
	if f.session == nil {
		return nil
	}
	clone := *f.session
	return &clone
}

func (f *fakeSessions) IsAuthenticated() bool { return f.session != nil }

func (f *fakeSessions) HasRole(role string) bool {
	return f.session != nil && f.session.Role == role
}

func (f *fakeSessions) Subscribe() (<-chan *domain.Session, func()) { panic("not used") }

func sessionWithRole(role string) *fakeSessions {
	return &fakeSessions{session: &domain.Session{ID: "1", Username: "u", Role: role, Token: "t"}}
}

func TestAuthentication_AllowsSession(t *testing.T) {
	d := Authentication(sessionWithRole(domain.RoleOperator), "/projects")
	if !d.Allowed {
		t.Fatalf("expected Allow, got redirect to %s", d.Target)
	}
}

func TestAuthentication_RedirectsAnonymousWithReturnTarget(t *testing.T) {
	d := Authentication(&fakeSessions{}, "/projects/4")
	if d.Allowed {
		t.Fatalf("expected redirect for anonymous caller")
	}
	if d.Target != LoginPath {
		t.Fatalf("expected redirect to %s, got %s", LoginPath, d.Target)
	}
	if got := d.Params.Get(ReturnParam); got != "/projects/4" {
		t.Fatalf("return target lost: %q", got)
	}
}

func TestRole_NoAnnotationAllowsAnyAuthenticated(t *testing.T) {
	d := Role(sessionWithRole(domain.RoleOperator), "", "/dashboard")
	if !d.Allowed {
		t.Fatalf("expected Allow when no role is required")
	}
}

func TestRole_MatchAllows(t *testing.T) {
	d := Role(sessionWithRole(domain.RoleAdministrator), domain.RoleAdministrator, "/projects")
	if !d.Allowed {
		t.Fatalf("expected Allow for matching role")
	}
}

func TestRole_MismatchSoftRedirectsToDashboard(t *testing.T) {
	// An operator hitting an administrator route lands on the dashboard, not
	// on an error page and not on the requested route.
	d := Role(sessionWithRole(domain.RoleOperator), domain.RoleAdministrator, "/projects")
	if d.Allowed {
		t.Fatalf("expected redirect for role mismatch")
	}
	if d.Target != DashboardPath {
		t.Fatalf("expected fallback to %s, got %s", DashboardPath, d.Target)
	}

	// Same fallback for an administrator hitting an operator route.
	d = Role(sessionWithRole(domain.RoleAdministrator), domain.RoleOperator, "/shifts")
	if d.Target != DashboardPath {
		t.Fatalf("expected fallback to %s, got %s", DashboardPath, d.Target)
	}
}

func TestRole_UnknownRoleGoesToLogin(t *testing.T) {
	d := Role(sessionWithRole("intruder"), domain.RoleAdministrator, "/projects")
	if d.Allowed || d.Target != LoginPath {
		t.Fatalf("expected redirect to login for unrecognized role, got %+v", d)
	}
}

func TestRole_AnonymousGoesToLoginWithReturnTarget(t *testing.T) {
	d := Role(&fakeSessions{}, domain.RoleAdministrator, "/projects")
	if d.Allowed || d.Target != LoginPath {
		t.Fatalf("expected redirect to login, got %+v", d)
	}
	if got := d.Params.Get(ReturnParam); got != "/projects" {
		t.Fatalf("return target lost: %q", got)
	}
}
