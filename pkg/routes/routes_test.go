package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/storefront/pkg/config"
	"github.com/masteryyh/storefront/pkg/consts"
)

func newTestServer(t *testing.T, mutate func(cfg *config.ServerConfig)) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.ServerConfig{
		Port:   8080,
		Schema: consts.DefaultSchema,
		Seed:   true,
		DB: &config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "routes.db"),
		},
	}
	if mutate != nil {
		mutate(cfg)
	}

	engine, _, err := Setup(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to set up backend: %v", err)
	}
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, req *http.Request) (int, string) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestListEnvelope(t *testing.T) {
	srv := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/inft3050/Product?limit=3&sort=-Name", nil)
	status, body := do(t, req)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	if !strings.Contains(body, `"list":[`) || !strings.Contains(body, `"pageInfo":{`) {
		t.Fatalf("unexpected body: %s", body)
	}
	if !strings.Contains(body, `"totalRows":10`) || !strings.Contains(body, `"Name":"The Left Hand of Darkness"`) {
		t.Fatalf("unexpected page: %s", body)
	}
}

func TestErrorsArePlainText(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{path: "/api/inft3050/Product/999", status: http.StatusNotFound, body: "not found"},
		{path: "/api/inft3050/Product/abc", status: http.StatusBadRequest, body: "invalid params"},
		{path: "/api/inft3050/Product?where=(Nope,eq,1)", status: http.StatusBadRequest, body: "invalid where expression"},
		{path: "/api/inft3050/Product?limit=-1", status: http.StatusBadRequest, body: "invalid params"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+tt.path, nil)
			status, body := do(t, req)
			if status != tt.status || !strings.HasPrefix(body, tt.body) {
				t.Fatalf("expected %d %q, got %d %q", tt.status, tt.body, status, body)
			}
		})
	}
}

func TestCreateValidatesBody(t *testing.T) {
	srv := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/inft3050/Product", strings.NewReader(`{"Author":"nobody"}`))
	req.Header.Set("Content-Type", "application/json")
	status, body := do(t, req)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d: %s", status, body)
	}

	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/api/inft3050/Product", strings.NewReader(`{"Name":"Snow Crash","SubGenre":1}`))
	req.Header.Set("Content-Type", "application/json")
	status, body = do(t, req)
	if status != http.StatusCreated || !strings.Contains(body, `"ID":11`) {
		t.Fatalf("expected created product 11, got %d: %s", status, body)
	}
}

func TestGenreIsReadOnly(t *testing.T) {
	srv := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/inft3050/Genre", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	if status, body := do(t, req); status != http.StatusNotFound || body != "unknown resource" {
		t.Fatalf("expected 404 for unrouted write, got %d: %s", status, body)
	}
}

func TestRequireAuth(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.ServerConfig) {
		cfg.RequireAuth = true
	})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/inft3050/Product", nil)
	if status, _ := do(t, req); status != http.StatusOK {
		t.Fatalf("reads must stay public, got %d", status)
	}

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/inft3050/Product/1", nil)
	if status, body := do(t, req); status != http.StatusUnauthorized || body != "unauthorized" {
		t.Fatalf("expected 401, got %d %q", status, body)
	}

	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/login", strings.NewReader(`{"username":"admin","password":"admin123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	resp.Body.Close()
	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == consts.SessionCookie {
			session = c
		}
	}
	if resp.StatusCode != http.StatusOK || session == nil {
		t.Fatalf("expected session cookie, got %d %v", resp.StatusCode, resp.Cookies())
	}

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/inft3050/Product/1", nil)
	req.AddCookie(session)
	if status, body := do(t, req); status != http.StatusNoContent {
		t.Fatalf("expected 204 with session, got %d %q", status, body)
	}
}

func TestBasicAuth(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.ServerConfig) {
		cfg.Username = "dev"
		cfg.Password = "secret"
	})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/inft3050/Genre", nil)
	if status, _ := do(t, req); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", status)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/api/inft3050/Genre", nil)
	req.SetBasicAuth("dev", "secret")
	if status, body := do(t, req); status != http.StatusOK {
		t.Fatalf("expected 200 with credentials, got %d %q", status, body)
	}
}
