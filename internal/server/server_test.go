package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/bookmark/internal/config"
	"github.com/jackzampolin/bookmark/internal/server/endpoints"
	"github.com/jackzampolin/bookmark/internal/testutil"
)

const duneRecord = `{
	"key": "/books/OL1M",
	"title": "Dune",
	"publishers": ["Ace"],
	"publish_date": "2005",
	"table_of_contents": [
		{"level": 0, "title": "Book One"},
		{"level": 1, "title": "Chapter 1"},
		"Book Two"
	]
}`

func newTestConfig(t *testing.T, content string) *config.Manager {
	t.Helper()
	mgr, err := config.NewManager(testutil.WriteConfig(t, content))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	return mgr
}

func newTestServer(t *testing.T, cfgYAML string) *httptest.Server {
	t.Helper()
	srv, err := New(Config{
		ConfigManager: newTestConfig(t, cfgYAML),
		Logger:        testutil.QuietLogger(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("failed to decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestServer_Endpoints(t *testing.T) {
	upstream := testutil.FakeUpstream(t, map[string]string{"/isbn/9780441013593.json": duneRecord})
	ts := newTestServer(t, testutil.OpenLibraryOnly(upstream.URL))

	t.Run("health", func(t *testing.T) {
		var health endpoints.HealthResponse
		if code := getJSON(t, ts.URL+"/health", &health); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if health.Status != "ok" {
			t.Errorf("Status = %q", health.Status)
		}
		if len(health.Sources) != 1 || health.Sources[0] != "openlibrary" {
			t.Errorf("Sources = %v", health.Sources)
		}
	})

	t.Run("toc found", func(t *testing.T) {
		var resp endpoints.TOCResponse
		if code := getJSON(t, ts.URL+"/api/toc?isbn=9780441013593", &resp); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if resp.Source != "openlibrary" {
			t.Errorf("Source = %q", resp.Source)
		}
		want := []string{"- [ ] Book One", "- [ ] Chapter 1", "- [ ] Book Two"}
		if len(resp.Lines) != len(want) {
			t.Fatalf("Lines = %q", resp.Lines)
		}
		for i := range want {
			if resp.Lines[i] != want[i] {
				t.Errorf("Lines[%d] = %q, want %q", i, resp.Lines[i], want[i])
			}
		}
		if !strings.HasPrefix(resp.Markdown, "## Progress\n\n- [ ] Book One") {
			t.Errorf("Markdown = %q", resp.Markdown)
		}
		if resp.RequestID == "" {
			t.Error("RequestID is empty")
		}
	})

	t.Run("toc without identifiers", func(t *testing.T) {
		var resp endpoints.ErrorResponse
		if code := getJSON(t, ts.URL+"/api/toc", &resp); code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", code)
		}
		if resp.Error == "" {
			t.Error("missing error message")
		}
	})

	t.Run("toc not found keeps the trail", func(t *testing.T) {
		var resp endpoints.NotFoundResponse
		if code := getJSON(t, ts.URL+"/api/toc?isbn=0000000000", &resp); code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", code)
		}
		if len(resp.Attempts) != 1 || resp.Attempts[0].Status != "error" {
			t.Errorf("Attempts = %+v", resp.Attempts)
		}
		if resp.Guidance == "" {
			t.Error("missing guidance")
		}
	})

	t.Run("info renders frontmatter", func(t *testing.T) {
		var resp endpoints.InfoResponse
		if code := getJSON(t, ts.URL+"/api/info?isbn=9780441013593", &resp); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if resp.Metadata == nil || resp.Metadata.Title != "Dune" {
			t.Fatalf("Metadata = %+v", resp.Metadata)
		}
		if !strings.Contains(resp.Frontmatter, `title: "Dune"`) {
			t.Errorf("Frontmatter = %q", resp.Frontmatter)
		}
		if !strings.Contains(resp.Frontmatter, "status: reading") {
			t.Errorf("Frontmatter missing status: %q", resp.Frontmatter)
		}
	})

	t.Run("swagger", func(t *testing.T) {
		var spec map[string]any
		if code := getJSON(t, ts.URL+"/swagger.json", &spec); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		paths, ok := spec["paths"].(map[string]any)
		if !ok {
			t.Fatalf("paths missing: %v", spec)
		}
		for _, p := range []string{"/health", "/api/toc", "/api/info", "/api/progress"} {
			if _, ok := paths[p]; !ok {
				t.Errorf("path %s not documented", p)
			}
		}
	})
}

func TestServer_Progress(t *testing.T) {
	ts := newTestServer(t, testutil.OpenLibraryOnly("http://127.0.0.1:1"))

	post := func(t *testing.T, body endpoints.ProgressRequest, v any) int {
		t.Helper()
		data, _ := json.Marshal(body)
		resp, err := http.Post(ts.URL+"/api/progress", "application/json", bytes.NewReader(data))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		defer resp.Body.Close()
		if v != nil {
			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				t.Fatalf("decode: %v", err)
			}
		}
		return resp.StatusCode
	}

	t.Run("scores by pages with frontmatter total", func(t *testing.T) {
		note := "---\ntotal: 200\n---\n# Dune\n\n## Progress\n\n- [x] One [1-50]\n- [ ] Two [51-100]\n"
		var resp endpoints.ProgressResponse
		if code := post(t, endpoints.ProgressRequest{Markdown: note}, &resp); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if resp.Method != "pages" || resp.Progress != 25.0 {
			t.Errorf("Method = %s, Progress = %v", resp.Method, resp.Progress)
		}
		if resp.TotalPagesSource != "frontmatter" {
			t.Errorf("TotalPagesSource = %q", resp.TotalPagesSource)
		}
		if !strings.HasPrefix(resp.Summary, "Progress: 25.0% (by pages)") {
			t.Errorf("Summary = %q", resp.Summary)
		}
	})

	t.Run("missing section", func(t *testing.T) {
		var resp endpoints.ErrorResponse
		if code := post(t, endpoints.ProgressRequest{Markdown: "# Notes\n"}, &resp); code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", code)
		}
	})

	t.Run("empty section", func(t *testing.T) {
		note := "## Progress\n\nnothing yet\n"
		if code := post(t, endpoints.ProgressRequest{Markdown: note}, nil); code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", code)
		}
	})

	t.Run("custom heading", func(t *testing.T) {
		note := "## Прогресс\n\n- [x] Один\n- [ ] Два\n"
		var resp endpoints.ProgressResponse
		if code := post(t, endpoints.ProgressRequest{Markdown: note, Heading: "Прогресс"}, &resp); code != http.StatusOK {
			t.Fatalf("status = %d", code)
		}
		if resp.Progress != 50.0 {
			t.Errorf("Progress = %v", resp.Progress)
		}
	})

	t.Run("bad body", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/progress", "application/json", strings.NewReader("{"))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestServer_RequireInit(t *testing.T) {
	ts := newTestServer(t, `
sources:
  litres: {enabled: false}
  labirint: {enabled: false}
  openlibrary: {enabled: false}
  googlebooks: {enabled: false}
`)

	if code := getJSON(t, ts.URL+"/api/toc?isbn=1", nil); code != http.StatusServiceUnavailable {
		t.Errorf("toc status = %d, want 503", code)
	}
	if code := getJSON(t, ts.URL+"/health", nil); code != http.StatusOK {
		t.Errorf("health status = %d, want 200", code)
	}
}

func TestServer_New(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New() without config manager should fail")
	}

	srv, err := New(Config{ConfigManager: newTestConfig(t, ""), Logger: testutil.QuietLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if srv.Addr() != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", srv.Addr())
	}
	if got := srv.Registry().List(); len(got) != 4 {
		t.Errorf("default sources = %v", got)
	}
}

func TestServer_Lifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping lifecycle test in short mode")
	}

	cfg := testutil.NewServerConfig(t, "")
	mgr, err := config.NewManager(cfg.ConfigFile)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	srv, err := New(Config{
		Host:          cfg.Host,
		Port:          cfg.Port,
		ConfigManager: mgr,
		Logger:        cfg.Logger,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start(ctx)
	}()

	if err := testutil.WaitForServer(cfg.URL(), 10*time.Second); err != nil {
		cancel()
		t.Fatalf("server did not start: %v", err)
	}

	t.Run("health_endpoint", func(t *testing.T) {
		var health endpoints.HealthResponse
		if code := getJSON(t, cfg.URL()+"/health", &health); code != http.StatusOK {
			t.Errorf("health status = %d", code)
		}
		if len(health.Sources) != 4 {
			t.Errorf("Sources = %v", health.Sources)
		}
	})

	t.Run("is_running", func(t *testing.T) {
		if !srv.IsRunning() {
			t.Error("IsRunning() = false, want true")
		}
	})

	t.Run("second_start_fails", func(t *testing.T) {
		if err := srv.Start(ctx); err == nil {
			t.Error("Start() on a running server should fail")
		}
	})

	cancel()
	if err := testutil.WaitForShutdown(serverErr, 30*time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}
