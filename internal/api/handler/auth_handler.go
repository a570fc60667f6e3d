package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kedikian/admin-gateway/internal/core/domain"
	"github.com/kedikian/admin-gateway/internal/core/ports"
)

type AuthHandler struct {
	sessions ports.SessionManager
}

func NewAuthHandler(sessions ports.SessionManager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// sessionView is the session as exposed to the UI. The bearer token stays
// inside the gateway.
type sessionView struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Role        string    `json:"role"`
	Provisional bool      `json:"provisional"`
	ExpiresAt   time.Time `json:"expires_at,omitzero"`
}

func viewOf(s *domain.Session) sessionView {
	return sessionView{
		ID:          s.ID,
		Username:    s.Username,
		Role:        s.Role,
		Provisional: s.Provisional(),
		ExpiresAt:   s.ExpiresAt,
	}
}

// Login authenticates against the backend and establishes the session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.sessions.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, viewOf(session))
}

// Logout ends the session and clears stored credentials.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Session returns the current session snapshot.
func (h *AuthHandler) Session(c echo.Context) error {
	session := h.sessions.Current()
	if session == nil {
		return domain.ErrNotAuthenticated
	}
	return c.JSON(http.StatusOK, viewOf(session))
}
