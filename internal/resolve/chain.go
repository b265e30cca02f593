// Package resolve runs sources in priority order until one of them
// produces a usable table of contents or metadata record.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jackzampolin/bookmark/internal/sources"
	"github.com/jackzampolin/bookmark/internal/toc"
	"github.com/jackzampolin/bookmark/internal/types"
)

// ErrNotFound is returned when every source has been tried without success.
var ErrNotFound = errors.New("nothing found in any source")

// ErrNoIdentifiers is returned when the caller supplies no identifiers at all.
var ErrNoIdentifiers = errors.New("provide a Litres ID, ISBN, title or URL")

// Mode selects what counts as success.
type Mode string

const (
	ModeTOC      Mode = "toc"
	ModeMetadata Mode = "metadata"
)

// Attempt records one source in the search trail.
type Attempt struct {
	Source   string `json:"source" yaml:"source"`
	URL      string `json:"url,omitempty" yaml:"url,omitempty"`
	Status   string `json:"status" yaml:"status"`
	Chapters int    `json:"chapters,omitempty" yaml:"chapters,omitempty"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Outcome is the result of a chain run. Source is the registry name of the
// source that answered.
type Outcome struct {
	RequestID  string               `json:"request_id" yaml:"request_id"`
	Source     string               `json:"source,omitempty" yaml:"source,omitempty"`
	SourceURL  string               `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	PreviewURL string               `json:"preview_url,omitempty" yaml:"preview_url,omitempty"`
	Chapters   []types.ChapterEntry `json:"chapters,omitempty" yaml:"chapters,omitempty"`
	Metadata   *types.BookMetadata  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Attempts   []Attempt            `json:"attempts" yaml:"attempts"`
}

// NotFoundError carries the search trail of a failed run.
type NotFoundError struct {
	Mode    Mode
	Outcome *Outcome
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Mode, ErrNotFound)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Guidance returns a human hint for what to try next.
func (e *NotFoundError) Guidance() string {
	if e.Outcome != nil && e.Outcome.PreviewURL != "" {
		return fmt.Sprintf("Check the preview manually: %s\nOr enter the contents by hand from the publisher's site.", e.Outcome.PreviewURL)
	}
	return "Enter the contents by hand or look them up on the publisher's site."
}

// Config configures a Chain.
type Config struct {
	Sources []sources.Source
	// Status receives the human-readable search trail. Nil discards it.
	Status io.Writer
	Logger *slog.Logger
}

// Chain tries sources strictly in order, one fetch per candidate URL.
type Chain struct {
	sources []sources.Source
	status  io.Writer
	logger  *slog.Logger
}

// NewChain creates a chain over cfg.Sources in the given order.
func NewChain(cfg Config) *Chain {
	if cfg.Status == nil {
		cfg.Status = io.Discard
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Chain{
		sources: cfg.Sources,
		status:  cfg.Status,
		logger:  cfg.Logger,
	}
}

// ResolveTOC returns the first non-empty table of contents.
func (c *Chain) ResolveTOC(ctx context.Context, ids types.Identifiers) (*Outcome, error) {
	return c.run(ctx, ModeTOC, ids)
}

// ResolveMetadata returns the first metadata record with a title.
func (c *Chain) ResolveMetadata(ctx context.Context, ids types.Identifiers) (*Outcome, error) {
	return c.run(ctx, ModeMetadata, ids)
}

func (c *Chain) run(ctx context.Context, mode Mode, ids types.Identifiers) (*Outcome, error) {
	if ids.Empty() {
		return nil, ErrNoIdentifiers
	}

	out := &Outcome{RequestID: uuid.NewString(), Attempts: []Attempt{}}
	logger := c.logger.With("request_id", out.RequestID, "mode", string(mode))

	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		res, attempt := c.try(ctx, src, ids)
		if attempt.Status == "skipped" {
			out.Attempts = append(out.Attempts, attempt)
			continue
		}

		if res.PreviewURL != "" && out.PreviewURL == "" {
			out.PreviewURL = res.PreviewURL
			c.statusf("Preview: %s", res.PreviewURL)
		}

		switch mode {
		case ModeTOC:
			if res.HasChapters() {
				res.Chapters = toc.Normalize(res.Chapters)
			}
			if res.HasChapters() {
				attempt.Status = sources.StatusFound.String()
				attempt.Chapters = len(res.Chapters)
				out.Attempts = append(out.Attempts, attempt)
				out.Source = src.Name()
				out.SourceURL = res.SourceURL
				out.Chapters = res.Chapters
				out.Metadata = res.Metadata
				c.statusf("Found in %s: %d entries", src.DisplayName(), len(res.Chapters))
				if res.SourceURL != "" {
					c.statusf("Source: %s", res.SourceURL)
				}
				logger.Info("toc resolved", "source", src.Name(), "chapters", len(res.Chapters))
				return out, nil
			}
		case ModeMetadata:
			if res.HasMetadata() {
				attempt.Status = sources.StatusFound.String()
				out.Attempts = append(out.Attempts, attempt)
				out.Source = src.Name()
				out.SourceURL = res.SourceURL
				out.Metadata = res.Metadata
				c.statusf("Found in %s", src.DisplayName())
				logger.Info("metadata resolved", "source", src.Name(), "title", res.Metadata.Title)
				return out, nil
			}
		}

		// Found-but-unusable for this mode falls through like any miss.
		if attempt.Status == sources.StatusFound.String() {
			attempt.Status = sources.StatusNotFound.String()
		}
		out.Attempts = append(out.Attempts, attempt)
		c.statusf("%s: %s", src.DisplayName(), describe(attempt))
		logger.Debug("source missed", "source", src.Name(), "status", attempt.Status, "error", attempt.Error)
	}

	logger.Info("resolution exhausted", "attempts", len(out.Attempts))
	return out, &NotFoundError{Mode: mode, Outcome: out}
}

// try runs one source. Every failure is folded into the returned Result.
func (c *Chain) try(ctx context.Context, src sources.Source, ids types.Identifiers) (sources.Result, Attempt) {
	attempt := Attempt{Source: src.Name()}

	url, err := src.Identify(ctx, ids)
	if err != nil {
		attempt.Status = sources.StatusError.String()
		attempt.Error = err.Error()
		return sources.Failed(err), attempt
	}
	if url == "" {
		attempt.Status = "skipped"
		return sources.NotFound(), attempt
	}

	attempt.URL = url
	c.statusf("Trying %s: %s", src.DisplayName(), url)

	doc, err := src.FetchRaw(ctx, url)
	if err != nil {
		attempt.Status = sources.StatusError.String()
		attempt.Error = err.Error()
		return sources.Failed(err), attempt
	}

	res := src.Extract(url, doc)
	attempt.Status = res.Status.String()
	if res.Err != nil {
		attempt.Error = res.Err.Error()
	}
	return res, attempt
}

func describe(a Attempt) string {
	if a.Error != "" {
		return "no data (" + a.Error + ")"
	}
	return "no data"
}

func (c *Chain) statusf(format string, args ...any) {
	fmt.Fprintf(c.status, format+"\n", args...)
}
