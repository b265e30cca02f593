package sources

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackzampolin/bookmark/internal/fetch"
	"github.com/jackzampolin/bookmark/internal/types"
)

// DefaultOpenLibraryURL is the public Open Library host.
const DefaultOpenLibraryURL = "https://openlibrary.org"

// OpenLibrary resolves an ISBN directly or a title through the search
// endpoint, then reads table_of_contents from the edition/work record.
type OpenLibrary struct {
	base
	baseURL string
}

// NewOpenLibrary creates the adapter. An empty baseURL uses the public host.
func NewOpenLibrary(f fetch.Fetcher, baseURL string) *OpenLibrary {
	if baseURL == "" {
		baseURL = DefaultOpenLibraryURL
	}
	return &OpenLibrary{base: base{fetcher: f}, baseURL: strings.TrimRight(baseURL, "/")}
}

func (o *OpenLibrary) Name() string        { return "openlibrary" }
func (o *OpenLibrary) DisplayName() string { return "Open Library" }

// Identify returns the record URL. A title lookup costs one search request.
func (o *OpenLibrary) Identify(ctx context.Context, ids types.Identifiers) (string, error) {
	if isbn := strings.TrimSpace(ids.ISBN); isbn != "" {
		return fmt.Sprintf("%s/isbn/%s.json", o.baseURL, url.PathEscape(isbn)), nil
	}
	title := strings.TrimSpace(ids.Title)
	if title == "" {
		return "", nil
	}

	searchURL := fmt.Sprintf("%s/search.json?title=%s&limit=1", o.baseURL, url.QueryEscape(title))
	body, err := o.FetchRaw(ctx, searchURL)
	if err != nil {
		return "", fmt.Errorf("open library search: %w", err)
	}
	doc, err := decodeValidated(olSearchSchema, body)
	if err != nil {
		return "", fmt.Errorf("open library search: %w", err)
	}
	docs, _ := doc["docs"].([]any)
	if len(docs) == 0 {
		return "", nil
	}
	first, _ := docs[0].(map[string]any)
	key, _ := first["key"].(string)
	if key == "" {
		return "", nil
	}
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	return o.baseURL + key + ".json", nil
}

// Extract reads the TOC and bibliographic fields from a record.
func (o *OpenLibrary) Extract(_ string, doc []byte) Result {
	rec, err := decodeValidated(olRecordSchema, doc)
	if err != nil {
		return Failed(err)
	}

	chapters := flatEntries(tocStrings(rec["table_of_contents"]))
	res := Found(chapters, o.metadata(rec))
	if res.Status == StatusFound {
		if key, _ := rec["key"].(string); key != "" {
			res.SourceURL = o.baseURL + key
		}
	}
	return res
}

func (o *OpenLibrary) metadata(rec map[string]any) *types.BookMetadata {
	title, _ := rec["title"].(string)
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}
	meta := &types.BookMetadata{Title: title}
	if pubs, ok := rec["publishers"].([]any); ok && len(pubs) > 0 {
		if p, ok := pubs[0].(string); ok {
			meta.Publisher = types.StringPtr(p)
		}
	}
	if date, ok := rec["publish_date"].(string); ok {
		meta.Year = types.StringPtr(yearOf(date))
	}
	if n, ok := rec["number_of_pages"].(float64); ok {
		meta.PageCount = types.IntPtr(int(n))
	}
	for _, field := range []string{"isbn_13", "isbn_10"} {
		if list, ok := rec[field].([]any); ok && len(list) > 0 {
			if s, ok := list[0].(string); ok && s != "" {
				meta.ISBN = types.StringPtr(s)
				break
			}
		}
	}
	if key, ok := rec["key"].(string); ok && key != "" {
		meta.SourceID = types.StringPtr(key)
		meta.SourceURL = types.StringPtr(o.baseURL + key)
	}
	return meta
}

// yearOf pulls the first four-digit run out of a free-form date.
func yearOf(date string) string {
	digits := 0
	for i, r := range date {
		if r >= '0' && r <= '9' {
			digits++
			if digits == 4 {
				return date[i-3 : i+1]
			}
		} else {
			digits = 0
		}
	}
	return ""
}
