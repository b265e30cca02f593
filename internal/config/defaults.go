package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// Entry is one configuration key with its default and a description.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// DefaultEntries lists every configuration key with its default value.
// Viper defaults are registered from this list leaf by leaf, so env vars
// and partial config files override single keys.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// HTTP
		{Key: "http.timeout", Value: d.HTTP.Timeout, Description: "Timeout for a single fetch, redirects included"},
		{Key: "http.user_agent", Value: d.HTTP.UserAgent, Description: "User-Agent header sent to every source"},

		// Resolution order
		{Key: "sources.toc_order", Value: d.Sources.TOCOrder, Description: "Sources tried for a table of contents, in order"},
		{Key: "sources.info_order", Value: d.Sources.InfoOrder, Description: "Sources tried for metadata, in order"},
		{Key: "sources.max_scraped_entries", Value: d.Sources.MaxScrapedEntries, Description: "Cap on headings scraped from a store page"},

		// Litres
		{Key: "sources.litres.enabled", Value: d.Sources.Litres.Enabled, Description: "Whether the Litres source is enabled"},
		{Key: "sources.litres.xml_url", Value: d.Sources.Litres.XMLURL, Description: "Litres TOC XML template ({shard}, {id})"},
		{Key: "sources.litres.cover_url", Value: d.Sources.Litres.CoverURL, Description: "Litres cover image template ({id})"},
		{Key: "sources.litres.page_url", Value: d.Sources.Litres.PageURL, Description: "Litres book page template ({id})"},

		// Other sources
		{Key: "sources.labirint.enabled", Value: d.Sources.Labirint.Enabled, Description: "Whether the Labirint source is enabled"},
		{Key: "sources.labirint.base_url", Value: d.Sources.Labirint.BaseURL, Description: "Labirint host"},
		{Key: "sources.openlibrary.enabled", Value: d.Sources.OpenLibrary.Enabled, Description: "Whether the Open Library source is enabled"},
		{Key: "sources.openlibrary.base_url", Value: d.Sources.OpenLibrary.BaseURL, Description: "Open Library host"},
		{Key: "sources.googlebooks.enabled", Value: d.Sources.GoogleBooks.Enabled, Description: "Whether the Google Books source is enabled"},
		{Key: "sources.googlebooks.base_url", Value: d.Sources.GoogleBooks.BaseURL, Description: "Google Books API host"},

		// Checklists
		{Key: "progress.heading", Value: d.Progress.Heading, Description: "Title of the section the progress scorer reads"},
		{Key: "checklist.heading", Value: d.Checklist.Heading, Description: "Heading line written above a rendered TOC checklist"},

		// Server and logging
		{Key: "server.host", Value: d.Server.Host, Description: "Address `bookmark serve` binds to"},
		{Key: "server.port", Value: d.Server.Port, Description: "Port `bookmark serve` listens on"},
		{Key: "log.level", Value: d.Log.Level, Description: "Log level: debug, info, warn, error"},
	}
}

// GetDefault returns the default entry for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}
