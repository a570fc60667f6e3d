package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/kedikian/admin-gateway/internal/api/guard"
	"github.com/kedikian/admin-gateway/internal/api/handler"
	"github.com/kedikian/admin-gateway/internal/api/middleware"
	"github.com/kedikian/admin-gateway/internal/core/domain"
	"github.com/kedikian/admin-gateway/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// rdb may be nil when the credential store does not use Redis.
func NewRouter(sessions ports.SessionManager, projects ports.ProjectService, backendURL string, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("kedikian"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(sessions)
	projectHandler := handler.NewProjectHandler(projects)
	requireAuth := middleware.Authenticated(sessions)
	adminOnly := middleware.RequireRole(sessions, domain.RoleAdministrator)

	// --- Auth routes (no guard: these are the login entry points) ---
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)
	e.GET("/session", authHandler.Session)

	// --- Guarded views ---
	e.GET(guard.DashboardPath, handler.Dashboard, requireAuth)

	p := e.Group("/projects", requireAuth)
	p.GET("", projectHandler.List)
	p.GET("/:id", projectHandler.Get)
	p.POST("", projectHandler.Create, adminOnly)
	p.PUT("/:id", projectHandler.Update, adminOnly)
	p.DELETE("/:id", projectHandler.Delete, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(backendURL, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
