package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kedikian/admin-gateway/internal/core/domain"
	"github.com/kedikian/admin-gateway/internal/core/ports"
)

type ProjectHandler struct {
	projects ports.ProjectService
}

func NewProjectHandler(projects ports.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

type projectRequest struct {
	Name      string `json:"name" validate:"required"`
	Location  string `json:"location"`
	Active    bool   `json:"active"`
	Progress  int    `json:"progress" validate:"min=0,max=100"`
	Manager   string `json:"manager"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// List returns all projects, served from the response cache when warm.
func (h *ProjectHandler) List(c echo.Context) error {
	projects, err := h.projects.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projects)
}

// Get returns a single project by id.
func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}
	project, err := h.projects.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// Create adds a project and invalidates the collection cache.
func (h *ProjectHandler) Create(c echo.Context) error {
	in, err := bindProjectInput(c)
	if err != nil {
		return err
	}
	project, err := h.projects.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, project)
}

// Update replaces a project and invalidates its cache entries.
func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}
	in, err := bindProjectInput(c)
	if err != nil {
		return err
	}
	project, err := h.projects.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, project)
}

// Delete removes a project and invalidates its cache entries.
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := projectID(c)
	if err != nil {
		return err
	}
	if err := h.projects.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func projectID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid project id")
	}
	return id, nil
}

func bindProjectInput(c echo.Context) (domain.ProjectInput, error) {
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return domain.ProjectInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.ProjectInput{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := domain.ProjectInput{
		Name:     req.Name,
		Location: req.Location,
		Active:   req.Active,
		Progress: req.Progress,
		Manager:  req.Manager,
	}
	if req.StartDate != "" {
		t, err := parseDate(req.StartDate)
		if err != nil {
			return domain.ProjectInput{}, echo.NewHTTPError(http.StatusBadRequest, "start_date must be RFC 3339 or YYYY-MM-DD")
		}
		in.StartDate = t
	}
	if req.EndDate != "" {
		t, err := parseDate(req.EndDate)
		if err != nil {
			return domain.ProjectInput{}, echo.NewHTTPError(http.StatusBadRequest, "end_date must be RFC 3339 or YYYY-MM-DD")
		}
		in.EndDate = t
	}
	return in, nil
}

// parseDate accepts the two formats the admin UI sends.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
