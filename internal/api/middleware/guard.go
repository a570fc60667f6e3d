package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kedikian/admin-gateway/internal/api/guard"
	"github.com/kedikian/admin-gateway/internal/core/ports"
)

// Authenticated gates a route group on an existing session. Guard decisions
// stay pure; this adapter only interprets them.
func Authenticated(sessions ports.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return apply(c, next, guard.Authentication(sessions, c.Request().URL.Path))
		}
	}
}

// RequireRole gates a route on the given required-role annotation. It assumes
// Authenticated already ran for routes that need it; an anonymous caller is
// still redirected to login.
func RequireRole(sessions ports.SessionManager, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return apply(c, next, guard.Role(sessions, role, c.Request().URL.Path))
		}
	}
}

func apply(c echo.Context, next echo.HandlerFunc, d guard.Decision) error {
	if d.Allowed {
		return next(c)
	}
	target := d.Target
	if len(d.Params) > 0 {
		target += "?" + d.Params.Encode()
	}
	return c.Redirect(http.StatusFound, target)
}
