package sources

import (
	"context"
	"errors"
	"testing"

	"github.com/jackzampolin/bookmark/internal/types"
)

const googleVolume = `{
  "kind": "books#volumes",
  "totalItems": 1,
  "items": [{
    "id": "B1hSG45JCX4C",
    "volumeInfo": {
      "title": "Dune",
      "authors": ["Frank Herbert", "Someone Else"],
      "publisher": "Penguin",
      "publishedDate": "2003-04-01",
      "pageCount": 604,
      "industryIdentifiers": [
        {"type": "OTHER", "identifier": "X"},
        {"type": "ISBN_13", "identifier": "9781101658055"}
      ],
      "imageLinks": {"thumbnail": "http://books.google.test/thumb"},
      "previewLink": "http://books.google.test/preview",
      "infoLink": "http://books.google.test/info"
    }
  }]
}`

func TestGoogleBooks_Identify(t *testing.T) {
	g := NewGoogleBooks(nil, "https://gb.test/")

	tests := []struct {
		name string
		ids  types.Identifiers
		want string
	}{
		{"isbn", types.Identifiers{ISBN: "978-1", Title: "ignored"}, "https://gb.test/books/v1/volumes?q=isbn%3A978-1"},
		{"title", types.Identifiers{Title: "Война и мир"}, "https://gb.test/books/v1/volumes?q=%D0%92%D0%BE%D0%B9%D0%BD%D0%B0+%D0%B8+%D0%BC%D0%B8%D1%80"},
		{"nothing", types.Identifiers{LitresID: "1"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Identify(context.Background(), tt.ids)
			if err != nil {
				t.Fatalf("Identify() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Identify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGoogleBooks_Extract(t *testing.T) {
	g := NewGoogleBooks(nil, "")

	t.Run("metadata and preview", func(t *testing.T) {
		res := g.Extract("", []byte(googleVolume))
		if !res.HasMetadata() {
			t.Fatalf("expected metadata, got %+v", res)
		}
		if res.HasChapters() {
			t.Errorf("google books must not contribute chapters")
		}
		m := res.Metadata
		checks := map[string][2]string{
			"author":    {types.Deref(m.Author), "Frank Herbert"},
			"cover":     {types.Deref(m.CoverURL), "http://books.google.test/thumb"},
			"isbn":      {types.Deref(m.ISBN), "9781101658055"},
			"publisher": {types.Deref(m.Publisher), "Penguin"},
			"year":      {types.Deref(m.Year), "2003"},
			"source_id": {types.Deref(m.SourceID), "B1hSG45JCX4C"},
		}
		for field, c := range checks {
			if c[0] != c[1] {
				t.Errorf("%s = %q, want %q", field, c[0], c[1])
			}
		}
		if m.PageCount == nil || *m.PageCount != 604 {
			t.Errorf("PageCount = %v", m.PageCount)
		}
		if res.PreviewURL != "http://books.google.test/preview" {
			t.Errorf("PreviewURL = %q", res.PreviewURL)
		}
	})

	t.Run("zero results", func(t *testing.T) {
		res := g.Extract("", []byte(`{"kind":"books#volumes","totalItems":0}`))
		if res.Status != StatusNotFound {
			t.Errorf("Status = %v, want not_found", res.Status)
		}
	})

	t.Run("missing totalItems", func(t *testing.T) {
		res := g.Extract("", []byte(`{"items":[]}`))
		if res.Status != StatusError || !errors.Is(res.Err, ErrParse) {
			t.Errorf("got %v / %v, want parse error", res.Status, res.Err)
		}
	})
}
