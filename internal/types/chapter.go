// Package types provides shared types used across multiple packages.
// This package has no dependencies on other bookmark packages to avoid import cycles.
package types

import "strings"

// ChapterEntry is one line of a table of contents.
// Depth is relative nesting: 1 is a top-level chapter. The book title itself
// (depth 0 in some sources) never appears as an entry.
type ChapterEntry struct {
	Title string `json:"title" yaml:"title"`
	Depth int    `json:"depth" yaml:"depth"`
}

// Identifiers is the set of optional keys a book can be looked up by.
type Identifiers struct {
	LitresID  string `json:"litres_id,omitempty" yaml:"litres_id,omitempty"`
	ISBN      string `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	DirectURL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Empty reports whether no identifier is set.
func (ids Identifiers) Empty() bool {
	return strings.TrimSpace(ids.LitresID) == "" &&
		strings.TrimSpace(ids.ISBN) == "" &&
		strings.TrimSpace(ids.Title) == "" &&
		strings.TrimSpace(ids.DirectURL) == ""
}

// HasBibliographic reports whether an ISBN or title is available.
func (ids Identifiers) HasBibliographic() bool {
	return strings.TrimSpace(ids.ISBN) != "" || strings.TrimSpace(ids.Title) != ""
}
