package dev

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lumen-dev/lumen/internal/config"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	tmpDir := t.TempDir()
	cfg := config.New()
	if err := cfg.SaveTo(filepath.Join(tmpDir, config.ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	return NewServer(ServerOptions{Config: cfg}), tmpDir
}

func TestServer_ModuleID(t *testing.T) {
	s, tmpDir := testServer(t)

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{filepath.Join(tmpDir, "src", "app.ts"), "src/app.ts", true},
		{filepath.Join(tmpDir, "index.ts"), "index.ts", true},
		{filepath.Join(filepath.Dir(tmpDir), "outside.ts"), "", false},
	}

	for _, tt := range tests {
		got, ok := s.moduleID(tt.path)
		if ok != tt.ok || got != tt.want {
			t.Errorf("moduleID(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestServer_BundleBeforeBuild(t *testing.T) {
	s, _ := testServer(t)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bundle.js", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestServer_ClientJS(t *testing.T) {
	s, _ := testServer(t)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_lumen/client.js", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "javascript") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Lumen") {
		t.Error("client script should define the Lumen global")
	}
}

func TestServer_DefaultHostPage(t *testing.T) {
	s, _ := testServer(t)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "/bundle.js") {
		t.Error("host page should load the bundle")
	}
	if !strings.Contains(body, "/_lumen/client.js") {
		t.Error("host page should load the client runtime")
	}
}

func TestServer_StaticIndexWins(t *testing.T) {
	s, tmpDir := testServer(t)

	staticDir := filepath.Join(tmpDir, "public")
	if err := os.MkdirAll(staticDir, 0755); err != nil {
		t.Fatal(err)
	}
	index := "<html><body>custom index</body></html>"
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte(index), 0644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(rec.Body.String(), "custom index") {
		t.Errorf("body = %q, want the static index", rec.Body.String())
	}
}

func TestServer_StaticFile(t *testing.T) {
	s, tmpDir := testServer(t)

	staticDir := filepath.Join(tmpDir, "public")
	if err := os.MkdirAll(staticDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(staticDir, "style.css"), []byte("body{}"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/style.css", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "body{}" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	s, _ := testServer(t)

	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestServer_GraphEmptyBeforeBuild(t *testing.T) {
	s, _ := testServer(t)

	if g := s.Graph(); g.Len() != 0 {
		t.Errorf("Len = %d, want 0", g.Len())
	}
	if b := s.Bundle(); b != nil {
		t.Errorf("Bundle = %v, want nil", b)
	}
}
