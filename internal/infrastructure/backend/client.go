// Package backend implements the HTTP client side of the gateway: the bearer
// authorizer transport and thin typed wrappers over the Kedikian REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kedikian/admin-gateway/internal/core/domain"
)

const defaultRequestTimeout = 30 * time.Second

// Client calls the Kedikian backend. All requests except the auth endpoints
// travel through the Authorizer transport, which attaches the bearer token.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient builds a backend client. transport is typically an *Authorizer.
func NewClient(baseURL string, transport http.RoundTripper, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   defaultRequestTimeout,
			Transport: transport,
		},
		log: log,
	}
}

// tokenResponse is the wire shape of the backend token endpoint.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token implements ports.AuthClient. Credentials are submitted form-encoded
// with base64-encoded values, an encoding convention the backend expects,
// not a protection measure.
func (c *Client) Token(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", base64.StdEncoding.EncodeToString([]byte(username)))
	form.Set("password", base64.StdEncoding.EncodeToString([]byte(password)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("backend: build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
			return "", fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, readWireError(resp.Body))
		}
		return "", normalizeError(resp)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("backend: decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token", domain.ErrInvalidCredentials)
	}
	return tr.AccessToken, nil
}

// profileResponse is the wire shape of the /auth/me endpoint.
type profileResponse struct {
	ID       json.Number `json:"id"`
	Username string      `json:"username"`
	Role     string      `json:"role"`
}

// Profile implements ports.AuthClient. The caller passes the token explicitly
// because the profile fetch may run before the provisional session is
// observable through the credential store.
func (c *Client) Profile(ctx context.Context, token string) (*domain.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("backend: build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, normalizeError(resp)
	}

	var pr profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("backend: decode profile response: %w", err)
	}
	return &domain.Session{
		ID:       pr.ID.String(),
		Username: pr.Username,
		Role:     pr.Role,
		Token:    token,
	}, nil
}

// List implements ports.ProjectClient.
func (c *Client) List(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.getJSON(ctx, "/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Get implements ports.ProjectClient.
func (c *Client) Get(ctx context.Context, id int) (*domain.Project, error) {
	var project domain.Project
	if err := c.getJSON(ctx, "/projects/"+strconv.Itoa(id), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Create implements ports.ProjectClient.
func (c *Client) Create(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	var project domain.Project
	if err := c.sendJSON(ctx, http.MethodPost, "/projects", in, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Update implements ports.ProjectClient.
func (c *Client) Update(ctx context.Context, id int, in domain.ProjectInput) (*domain.Project, error) {
	var project domain.Project
	if err := c.sendJSON(ctx, http.MethodPut, "/projects/"+strconv.Itoa(id), in, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete implements ports.ProjectClient.
func (c *Client) Delete(ctx context.Context, id int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/projects/"+strconv.Itoa(id), nil)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return normalizeError(resp)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("backend: marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return normalizeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

// normalizeError folds an arbitrary backend error response into the closed
// error taxonomy, so downstream code never touches the wire shape.
func normalizeError(resp *http.Response) error {
	msg := readWireError(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrSessionExpired, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrAccessDenied, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrProjectNotFound, msg)
	default:
		return fmt.Errorf("backend: unexpected status %d: %s", resp.StatusCode, msg)
	}
}

// readWireError probes the usual spots backend error bodies hide a message
// in: "detail" (FastAPI-style), "message", then "error".
func readWireError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(body) == 0 {
		return "no error detail"
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, key := range []string{"detail", "message", "error"} {
			if v, ok := payload[key].(string); ok && v != "" {
				return v
			}
		}
	}
	return strings.TrimSpace(string(body))
}
