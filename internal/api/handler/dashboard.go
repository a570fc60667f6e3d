package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Dashboard is the default landing view every guarded redirect falls back to.
// The SPA renders the actual content; the gateway only confirms the route is
// reachable for the session.
func Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"view": "dashboard",
	})
}
