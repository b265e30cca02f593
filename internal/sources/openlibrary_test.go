package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackzampolin/bookmark/internal/fetch"
	"github.com/jackzampolin/bookmark/internal/types"
)

func newTestFetcher() fetch.Fetcher {
	return fetch.NewHTTPFetcher(fetch.Config{})
}

func TestOpenLibrary_Identify(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("title") {
		case "Dune":
			w.Write([]byte(`{"numFound":1,"docs":[{"key":"/works/OL893415W"}]}`))
		case "Broken":
			w.Write([]byte(`{"docs":"nope"}`))
		default:
			w.Write([]byte(`{"numFound":0,"docs":[]}`))
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ol := NewOpenLibrary(newTestFetcher(), srv.URL)
	ctx := context.Background()

	t.Run("isbn builds url without request", func(t *testing.T) {
		got, err := ol.Identify(ctx, types.Identifiers{ISBN: "9780441013593", Title: "Dune"})
		if err != nil {
			t.Fatalf("Identify() error = %v", err)
		}
		if want := srv.URL + "/isbn/9780441013593.json"; got != want {
			t.Errorf("Identify() = %q, want %q", got, want)
		}
	})

	t.Run("title resolves first search result", func(t *testing.T) {
		got, err := ol.Identify(ctx, types.Identifiers{Title: "Dune"})
		if err != nil {
			t.Fatalf("Identify() error = %v", err)
		}
		if want := srv.URL + "/works/OL893415W.json"; got != want {
			t.Errorf("Identify() = %q, want %q", got, want)
		}
	})

	t.Run("no search results", func(t *testing.T) {
		got, err := ol.Identify(ctx, types.Identifiers{Title: "Nothing"})
		if err != nil {
			t.Fatalf("Identify() error = %v", err)
		}
		if got != "" {
			t.Errorf("Identify() = %q, want empty", got)
		}
	})

	t.Run("malformed search is a parse error", func(t *testing.T) {
		_, err := ol.Identify(ctx, types.Identifiers{Title: "Broken"})
		if !errors.Is(err, ErrParse) {
			t.Errorf("error = %v, want ErrParse", err)
		}
	})

	t.Run("no identifiers", func(t *testing.T) {
		got, err := ol.Identify(ctx, types.Identifiers{LitresID: "1"})
		if err != nil || got != "" {
			t.Errorf("Identify() = %q, %v; want empty, nil", got, err)
		}
	})
}

func TestOpenLibrary_Extract(t *testing.T) {
	ol := NewOpenLibrary(nil, "https://ol.test")

	t.Run("mixed string and object entries", func(t *testing.T) {
		doc := `{
			"key": "/books/OL1M",
			"title": "Dune",
			"publishers": ["Ace"],
			"publish_date": "August 2005",
			"number_of_pages": 528,
			"isbn_13": ["9780441013593"],
			"table_of_contents": [
				{"level": 0, "title": "Book One"},
				"Book Two",
				{"level": 0, "title": ""},
				"",
				{"level": 0}
			]
		}`
		res := ol.Extract("", []byte(doc))
		if res.Status != StatusFound {
			t.Fatalf("Status = %v, want found (err %v)", res.Status, res.Err)
		}
		if len(res.Chapters) != 2 || res.Chapters[0].Title != "Book One" || res.Chapters[1].Title != "Book Two" {
			t.Errorf("Chapters = %+v", res.Chapters)
		}
		m := res.Metadata
		if m == nil || m.Title != "Dune" {
			t.Fatalf("Metadata = %+v", m)
		}
		if types.Deref(m.Publisher) != "Ace" || types.Deref(m.Year) != "2005" {
			t.Errorf("publisher/year = %q/%q", types.Deref(m.Publisher), types.Deref(m.Year))
		}
		if m.PageCount == nil || *m.PageCount != 528 {
			t.Errorf("PageCount = %v", m.PageCount)
		}
		if types.Deref(m.ISBN) != "9780441013593" {
			t.Errorf("ISBN = %q", types.Deref(m.ISBN))
		}
		if res.SourceURL != "https://ol.test/books/OL1M" {
			t.Errorf("SourceURL = %q", res.SourceURL)
		}
	})

	t.Run("record without toc keeps metadata", func(t *testing.T) {
		res := ol.Extract("", []byte(`{"title": "Dune"}`))
		if res.HasChapters() || !res.HasMetadata() {
			t.Errorf("HasChapters=%v HasMetadata=%v", res.HasChapters(), res.HasMetadata())
		}
	})

	t.Run("schema violation", func(t *testing.T) {
		res := ol.Extract("", []byte(`{"title": 42}`))
		if res.Status != StatusError || !errors.Is(res.Err, ErrParse) {
			t.Errorf("got %v / %v, want error with ErrParse", res.Status, res.Err)
		}
	})

	t.Run("not json", func(t *testing.T) {
		res := ol.Extract("", []byte(`<html>`))
		if res.Status != StatusError {
			t.Errorf("Status = %v, want error", res.Status)
		}
	})
}

func TestYearOf(t *testing.T) {
	tests := map[string]string{
		"2005":        "2005",
		"August 2005": "2005",
		"2005-08-01":  "2005",
		"c. 99":       "",
		"":            "",
	}
	for in, want := range tests {
		if got := yearOf(in); got != want {
			t.Errorf("yearOf(%q) = %q, want %q", in, got, want)
		}
	}
}
