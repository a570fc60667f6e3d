package backend

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kedikian/admin-gateway/internal/core/domain"
)

func TestClient_Token_EncodesCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Fatalf("unexpected content type %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		wantUser := base64.StdEncoding.EncodeToString([]byte("alice"))
		wantPass := base64.StdEncoding.EncodeToString([]byte("s3cret"))
		if r.PostForm.Get("username") != wantUser {
			t.Fatalf("username not base64-encoded: %q", r.PostForm.Get("username"))
		}
		if r.PostForm.Get("password") != wantPass {
			t.Fatalf("password not base64-encoded: %q", r.PostForm.Get("password"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-xyz","token_type":"bearer"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, zerolog.Nop())
	token, err := c.Token(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if token != "tok-xyz" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestClient_Token_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"incorrect username or password"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, zerolog.Nop())
	_, err := c.Token(context.Background(), "alice", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestClient_Token_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", nil, zerolog.Nop())
	_, err := c.Token(context.Background(), "alice", "s3cret")
	if !errors.Is(err, domain.ErrBackendUnreachable) {
		t.Fatalf("expected ErrBackendUnreachable, got %v", err)
	}
}

func TestClient_Profile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Fatalf("unexpected auth header %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"username":"alice","role":"operator"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, zerolog.Nop())
	session, err := c.Profile(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if session.ID != "7" || session.Username != "alice" || session.Role != domain.RoleOperator {
		t.Fatalf("unexpected session %+v", session)
	}
	if session.Token != "tok" {
		t.Fatalf("token not carried through: %+v", session)
	}
}

func TestClient_Projects_CRUD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method + " " + r.URL.Path {
		case "GET /projects":
			w.Write([]byte(`[{"id":1,"name":"North Road"},{"id":2,"name":"Los Pinos"}]`))
		case "GET /projects/2":
			w.Write([]byte(`{"id":2,"name":"Los Pinos"}`))
		case "POST /projects":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":3,"name":"River South"}`))
		case "DELETE /projects/3":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, zerolog.Nop())
	ctx := context.Background()

	projects, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(projects) != 2 || projects[0].Name != "North Road" {
		t.Fatalf("unexpected projects %+v", projects)
	}

	project, err := c.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if project.ID != 2 {
		t.Fatalf("unexpected project %+v", project)
	}

	created, err := c.Create(ctx, domain.ProjectInput{Name: "River South"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 3 {
		t.Fatalf("unexpected created project %+v", created)
	}

	if err := c.Delete(ctx, 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestClient_NormalizesErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"expired", http.StatusUnauthorized, `{"detail":"token expired"}`, domain.ErrSessionExpired},
		{"denied", http.StatusForbidden, `{"message":"insufficient privilege"}`, domain.ErrAccessDenied},
		{"missing", http.StatusNotFound, `{"error":"no such project"}`, domain.ErrProjectNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, nil, zerolog.Nop())
			_, err := c.Get(context.Background(), 1)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestReadWireError(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{"detail":"fastapi style"}`, "fastapi style"},
		{`{"message":"spring style"}`, "spring style"},
		{`{"error":"envelope style"}`, "envelope style"},
		{`{"detail":"wins","message":"loses"}`, "wins"},
		{`plain text`, "plain text"},
		{``, "no error detail"},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			w.Write([]byte(tc.body))
		}))
		c := NewClient(srv.URL, nil, zerolog.Nop())
		_, err := c.Get(context.Background(), 1)
		srv.Close()
		if err == nil {
			t.Fatalf("expected error for body %q", tc.body)
		}
		if got := err.Error(); !strings.Contains(got, tc.want) {
			t.Fatalf("error %q does not contain %q", got, tc.want)
		}
	}
}
