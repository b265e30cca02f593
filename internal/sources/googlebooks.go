package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackzampolin/bookmark/internal/fetch"
	"github.com/jackzampolin/bookmark/internal/types"
)

// DefaultGoogleBooksURL is the public Google Books API host.
const DefaultGoogleBooksURL = "https://www.googleapis.com"

// GoogleBooks queries the volumes endpoint. It is the metadata fallback
// and, in TOC mode, usually only contributes a preview link.
type GoogleBooks struct {
	base
	baseURL string
}

// NewGoogleBooks creates the adapter. An empty baseURL uses the public host.
func NewGoogleBooks(f fetch.Fetcher, baseURL string) *GoogleBooks {
	if baseURL == "" {
		baseURL = DefaultGoogleBooksURL
	}
	return &GoogleBooks{base: base{fetcher: f}, baseURL: strings.TrimRight(baseURL, "/")}
}

func (g *GoogleBooks) Name() string        { return "googlebooks" }
func (g *GoogleBooks) DisplayName() string { return "Google Books" }

// Identify builds the volumes query. ISBN wins over title.
func (g *GoogleBooks) Identify(_ context.Context, ids types.Identifiers) (string, error) {
	var q string
	switch {
	case strings.TrimSpace(ids.ISBN) != "":
		q = "isbn:" + strings.TrimSpace(ids.ISBN)
	case strings.TrimSpace(ids.Title) != "":
		q = strings.TrimSpace(ids.Title)
	default:
		return "", nil
	}
	return fmt.Sprintf("%s/books/v1/volumes?q=%s", g.baseURL, url.QueryEscape(q)), nil
}

// Extract reads the first volume. Google Books never contributes chapters;
// in TOC mode the chain only surfaces its preview link.
func (g *GoogleBooks) Extract(_ string, doc []byte) Result {
	resp, err := decodeValidated(gbVolumeSchema, doc)
	if err != nil {
		return Failed(err)
	}
	total, _ := resp["totalItems"].(float64)
	items, _ := resp["items"].([]any)
	if total <= 0 || len(items) == 0 {
		return NotFound()
	}
	item, _ := items[0].(map[string]any)
	info, _ := item["volumeInfo"].(map[string]any)

	meta := googleMetadata(info)
	if id, ok := item["id"].(string); ok && id != "" && meta != nil {
		meta.SourceID = types.StringPtr(id)
	}
	res := Found(nil, meta)
	preview, _ := info["previewLink"].(string)
	res.PreviewURL = preview
	if res.Status == StatusFound {
		if link, ok := info["infoLink"].(string); ok {
			res.SourceURL = link
		}
	}
	return res
}

func googleMetadata(info map[string]any) *types.BookMetadata {
	title, _ := info["title"].(string)
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	meta := &types.BookMetadata{Title: title}
	if authors, ok := info["authors"].([]any); ok && len(authors) > 0 {
		if a, ok := authors[0].(string); ok {
			meta.Author = types.StringPtr(a)
		}
	}
	if links, ok := info["imageLinks"].(map[string]any); ok {
		if thumb, ok := links["thumbnail"].(string); ok {
			meta.CoverURL = types.StringPtr(thumb)
		}
	}
	if n, ok := info["pageCount"].(float64); ok {
		meta.PageCount = types.IntPtr(int(n))
	}
	if ids, ok := info["industryIdentifiers"].([]any); ok {
		for _, raw := range ids {
			id, _ := raw.(map[string]any)
			kind, _ := id["type"].(string)
			if kind != "ISBN_13" && kind != "ISBN_10" {
				continue
			}
			if v, ok := id["identifier"].(string); ok && v != "" {
				meta.ISBN = types.StringPtr(v)
				break
			}
		}
	}
	if p, ok := info["publisher"].(string); ok {
		meta.Publisher = types.StringPtr(p)
	}
	if d, ok := info["publishedDate"].(string); ok && len(d) >= 4 {
		meta.Year = types.StringPtr(d[:4])
	}
	if link, ok := info["infoLink"].(string); ok {
		meta.SourceURL = types.StringPtr(link)
	}
	return meta
}
