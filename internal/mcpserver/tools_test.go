package mcpserver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jackzampolin/bookmark/internal/fetch"
	"github.com/jackzampolin/bookmark/internal/resolve"
	"github.com/jackzampolin/bookmark/internal/sources"
	"github.com/jackzampolin/bookmark/internal/testutil"
)

func newTestToolset(t *testing.T) *toolset {
	t.Helper()
	upstream := testutil.FakeUpstream(t, map[string]string{
		"/isbn/9780441013593.json": `{"key": "/books/OL1M", "title": "Dune", "table_of_contents": ["One", "Two"]}`,
	})

	reg := sources.NewRegistry()
	reg.Register(sources.NewOpenLibrary(fetch.NewHTTPFetcher(fetch.Config{}), upstream.URL))

	return &toolset{deps: Deps{Sources: reg, Logger: testutil.QuietLogger()}}
}

func TestFetchTOC(t *testing.T) {
	ts := newTestToolset(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		_, resp, err := ts.fetchTOC(ctx, nil, BookQuery{ISBN: "9780441013593"})
		if err != nil {
			t.Fatalf("fetchTOC() error = %v", err)
		}
		if resp.Source != "openlibrary" || len(resp.Chapters) != 2 {
			t.Errorf("resp = %+v", resp)
		}
		if resp.Markdown != "## Progress\n\n- [ ] One\n- [ ] Two" {
			t.Errorf("Markdown = %q", resp.Markdown)
		}
	})

	t.Run("not found carries guidance", func(t *testing.T) {
		_, _, err := ts.fetchTOC(ctx, nil, BookQuery{ISBN: "0000000000"})
		if !errors.Is(err, resolve.ErrNotFound) {
			t.Fatalf("error = %v, want ErrNotFound", err)
		}
		if !strings.Contains(err.Error(), "by hand") {
			t.Errorf("error lacks guidance: %v", err)
		}
	})

	t.Run("no identifiers", func(t *testing.T) {
		_, _, err := ts.fetchTOC(ctx, nil, BookQuery{})
		if !errors.Is(err, resolve.ErrNoIdentifiers) {
			t.Errorf("error = %v, want ErrNoIdentifiers", err)
		}
	})
}

func TestBookInfo(t *testing.T) {
	ts := newTestToolset(t)

	_, resp, err := ts.bookInfo(context.Background(), nil, BookQuery{ISBN: "9780441013593"})
	if err != nil {
		t.Fatalf("bookInfo() error = %v", err)
	}
	if resp.Metadata == nil || resp.Metadata.Title != "Dune" {
		t.Fatalf("Metadata = %+v", resp.Metadata)
	}
	if !strings.HasPrefix(resp.Frontmatter, "---\ntitle: \"Dune\"") {
		t.Errorf("Frontmatter = %q", resp.Frontmatter)
	}
}

func TestReadingProgress(t *testing.T) {
	ts := newTestToolset(t)
	ctx := context.Background()

	note := "## Progress\n\n- [x] One [w:3]\n- [ ] Two [w:1]\n"
	path := filepath.Join(t.TempDir(), "book.md")
	if err := os.WriteFile(path, []byte(note), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("from path", func(t *testing.T) {
		_, resp, err := ts.readingProgress(ctx, nil, ReadingProgressQuery{Path: path})
		if err != nil {
			t.Fatalf("readingProgress() error = %v", err)
		}
		if resp.Result.Method != "weight" || resp.Result.Progress != 75.0 {
			t.Errorf("Result = %+v", resp.Result)
		}
	})

	t.Run("inline markdown with explicit total", func(t *testing.T) {
		md := "## Progress\n\n- [x] One [1-10]\n"
		_, resp, err := ts.readingProgress(ctx, nil, ReadingProgressQuery{Markdown: md, TotalPages: 40})
		if err != nil {
			t.Fatalf("readingProgress() error = %v", err)
		}
		if resp.Result.Progress != 25.0 || resp.TotalPagesSource != "explicit" {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("missing input", func(t *testing.T) {
		if _, _, err := ts.readingProgress(ctx, nil, ReadingProgressQuery{}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := ts.readingProgress(ctx, nil, ReadingProgressQuery{Path: filepath.Join(t.TempDir(), "nope.md")})
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want not exist", err)
		}
	})
}

func TestServer_ListTools(t *testing.T) {
	ctx := context.Background()
	server := New(Deps{Sources: sources.NewRegistry()})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	res, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	got := map[string]bool{}
	for _, tool := range res.Tools {
		got[tool.Name] = true
	}
	for _, name := range []string{"fetch-toc", "book-info", "reading-progress"} {
		if !got[name] {
			t.Errorf("tool %s not registered", name)
		}
	}
}
