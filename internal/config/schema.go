package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/jackzampolin/bookmark/internal/fetch"
	"github.com/jackzampolin/bookmark/internal/progress"
	"github.com/jackzampolin/bookmark/internal/sources"
	"github.com/jackzampolin/bookmark/internal/toc"
)

// Config holds bookmark configuration.
// Stored at: ~/.bookmark/config.yaml
type Config struct {
	HTTP      HTTPCfg      `mapstructure:"http" yaml:"http"`
	Sources   SourcesCfg   `mapstructure:"sources" yaml:"sources"`
	Progress  ProgressCfg  `mapstructure:"progress" yaml:"progress"`
	Checklist ChecklistCfg `mapstructure:"checklist" yaml:"checklist"`
	Server    ServerCfg    `mapstructure:"server" yaml:"server"`
	Log       LogCfg       `mapstructure:"log" yaml:"log"`
}

// HTTPCfg configures outbound fetches.
type HTTPCfg struct {
	Timeout   string `mapstructure:"timeout" yaml:"timeout"` // Go duration, e.g. "15s"
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
}

// SourcesCfg configures the adapters and the order they are tried in.
type SourcesCfg struct {
	TOCOrder          []string    `mapstructure:"toc_order" yaml:"toc_order"`
	InfoOrder         []string    `mapstructure:"info_order" yaml:"info_order"`
	MaxScrapedEntries int         `mapstructure:"max_scraped_entries" yaml:"max_scraped_entries"`
	Litres            LitresCfg   `mapstructure:"litres" yaml:"litres"`
	Labirint          EndpointCfg `mapstructure:"labirint" yaml:"labirint"`
	OpenLibrary       EndpointCfg `mapstructure:"openlibrary" yaml:"openlibrary"`
	GoogleBooks       EndpointCfg `mapstructure:"googlebooks" yaml:"googlebooks"`
}

// LitresCfg holds the Litres URL templates ({shard} and {id} placeholders).
type LitresCfg struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	XMLURL   string `mapstructure:"xml_url" yaml:"xml_url"`
	CoverURL string `mapstructure:"cover_url" yaml:"cover_url"`
	PageURL  string `mapstructure:"page_url" yaml:"page_url"`
}

// EndpointCfg configures an adapter with a single base URL.
type EndpointCfg struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// ProgressCfg configures checklist parsing.
type ProgressCfg struct {
	Heading string `mapstructure:"heading" yaml:"heading"` // section title, without hashes
}

// ChecklistCfg configures checklist rendering.
type ChecklistCfg struct {
	Heading string `mapstructure:"heading" yaml:"heading"` // full heading line
}

// ServerCfg configures `bookmark serve`.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port string `mapstructure:"port" yaml:"port"`
}

// LogCfg configures logging.
type LogCfg struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPCfg{
			Timeout:   fetch.DefaultTimeout.String(),
			UserAgent: fetch.DefaultUserAgent,
		},
		Sources: SourcesCfg{
			TOCOrder:          []string{"litres", "labirint", "openlibrary", "googlebooks"},
			InfoOrder:         []string{"litres", "googlebooks", "openlibrary"},
			MaxScrapedEntries: sources.DefaultMaxScrapedEntries,
			Litres: LitresCfg{
				Enabled:  true,
				XMLURL:   sources.DefaultLitresXMLURL,
				CoverURL: sources.DefaultLitresCoverURL,
				PageURL:  sources.DefaultLitresPageURL,
			},
			Labirint:    EndpointCfg{Enabled: true, BaseURL: sources.DefaultLabirintURL},
			OpenLibrary: EndpointCfg{Enabled: true, BaseURL: sources.DefaultOpenLibraryURL},
			GoogleBooks: EndpointCfg{Enabled: true, BaseURL: sources.DefaultGoogleBooksURL},
		},
		Progress:  ProgressCfg{Heading: progress.DefaultHeading},
		Checklist: ChecklistCfg{Heading: toc.DefaultHeading},
		Server:    ServerCfg{Host: "127.0.0.1", Port: "8080"},
		Log:       LogCfg{Level: "info"},
	}
}

// HTTPTimeout parses the configured timeout, falling back to the default.
func (c *Config) HTTPTimeout() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.HTTP.Timeout))
	if err != nil || d <= 0 {
		return fetch.DefaultTimeout
	}
	return d
}

// FetchConfig converts the HTTP section for fetch.NewHTTPFetcher.
func (c *Config) FetchConfig(logger *slog.Logger) fetch.Config {
	return fetch.Config{
		Timeout:   c.HTTPTimeout(),
		UserAgent: c.HTTP.UserAgent,
		Logger:    logger,
	}
}

// ToRegistryConfig converts the sources section for sources.Build.
func (c *Config) ToRegistryConfig() sources.RegistryConfig {
	s := c.Sources
	return sources.RegistryConfig{
		Litres: sources.LitresConfig{
			Enabled:  s.Litres.Enabled,
			XMLURL:   s.Litres.XMLURL,
			CoverURL: s.Litres.CoverURL,
			PageURL:  s.Litres.PageURL,
		},
		Labirint:          sources.SourceConfig{Enabled: s.Labirint.Enabled, BaseURL: s.Labirint.BaseURL},
		OpenLibrary:       sources.SourceConfig{Enabled: s.OpenLibrary.Enabled, BaseURL: s.OpenLibrary.BaseURL},
		GoogleBooks:       sources.SourceConfig{Enabled: s.GoogleBooks.Enabled, BaseURL: s.GoogleBooks.BaseURL},
		MaxScrapedEntries: s.MaxScrapedEntries,
	}
}

// ParseLevel maps a level name to slog.Level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo
	}
	return level
}
