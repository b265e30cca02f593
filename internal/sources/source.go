// Package sources adapts external book services to the canonical chapter and
// metadata model. Every adapter exposes the same three capabilities
// (Identify, FetchRaw, Extract) so the resolution chain can treat them uniformly.
package sources

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackzampolin/bookmark/internal/fetch"
	"github.com/jackzampolin/bookmark/internal/types"
)

// ErrParse marks a response body that could not be understood.
var ErrParse = errors.New("malformed response")

// Status is the outcome of one adapter attempt.
type Status int

const (
	// StatusNotFound means the source answered but had nothing usable.
	StatusNotFound Status = iota
	// StatusFound means the source produced chapters and/or metadata.
	StatusFound
	// StatusError means the fetch or parse failed.
	StatusError
)

// String returns the status name used in logs and API responses.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusError:
		return "error"
	default:
		return "not_found"
	}
}

// Result is what an adapter hands back to the chain.
type Result struct {
	Status   Status
	Chapters []types.ChapterEntry
	Metadata *types.BookMetadata
	// SourceURL is a human-facing page for the book on this source.
	SourceURL string
	// PreviewURL is a link a human can follow when no structured data exists.
	PreviewURL string
	Err        error
}

// Found builds a successful result. It degrades to NotFound when both
// chapters and metadata are empty, so callers never need truthiness checks.
func Found(chapters []types.ChapterEntry, meta *types.BookMetadata) Result {
	if len(chapters) == 0 && (meta == nil || meta.Title == "") {
		return NotFound()
	}
	if meta != nil && meta.Title == "" {
		meta = nil
	}
	return Result{Status: StatusFound, Chapters: chapters, Metadata: meta}
}

// NotFound builds an empty result.
func NotFound() Result {
	return Result{Status: StatusNotFound}
}

// Failed builds an error result.
func Failed(err error) Result {
	return Result{Status: StatusError, Err: err}
}

// HasChapters reports whether the result carries a non-empty TOC.
func (r Result) HasChapters() bool {
	return r.Status == StatusFound && len(r.Chapters) > 0
}

// HasMetadata reports whether the result carries metadata with a title.
func (r Result) HasMetadata() bool {
	return r.Status == StatusFound && r.Metadata != nil && r.Metadata.Title != ""
}

// Source is a single external book service.
type Source interface {
	// Name returns the registry key (e.g. "litres").
	Name() string
	// DisplayName returns the name shown in diagnostics.
	DisplayName() string
	// Identify returns the URL to fetch for ids, or "" when the source
	// cannot use any of them. It may itself perform a search request.
	Identify(ctx context.Context, ids types.Identifiers) (string, error)
	// FetchRaw downloads the document at url.
	FetchRaw(ctx context.Context, url string) ([]byte, error)
	// Extract turns a fetched document into a Result. It never panics on
	// malformed input; parse failures come back as StatusError.
	Extract(url string, doc []byte) Result
}

// base carries the fetch capability shared by all adapters.
type base struct {
	fetcher fetch.Fetcher
}

func (b base) FetchRaw(ctx context.Context, url string) ([]byte, error) {
	if b.fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured")
	}
	return b.fetcher.Fetch(ctx, url)
}

// tocStrings normalizes a table_of_contents style array whose items are
// either plain strings or objects with a "title" field. Empty titles are skipped.
func tocStrings(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if v != "" {
				out = append(out, v)
			}
		case map[string]any:
			if title, ok := v["title"].(string); ok && title != "" {
				out = append(out, title)
			}
		}
	}
	return out
}

// flatEntries wraps plain titles as depth-1 chapter entries.
func flatEntries(titles []string) []types.ChapterEntry {
	if len(titles) == 0 {
		return nil
	}
	entries := make([]types.ChapterEntry, 0, len(titles))
	for _, t := range titles {
		entries = append(entries, types.ChapterEntry{Title: t, Depth: 1})
	}
	return entries
}
