package resolve

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackzampolin/bookmark/internal/sources"
	"github.com/jackzampolin/bookmark/internal/types"
)

// fakeSource counts calls and returns a canned result.
type fakeSource struct {
	name        string
	url         string
	identifyErr error
	fetchErr    error
	result      sources.Result

	identifyCalls int
	fetchCalls    int
	extractCalls  int
}

func (f *fakeSource) Name() string        { return f.name }
func (f *fakeSource) DisplayName() string { return strings.ToUpper(f.name) }

func (f *fakeSource) Identify(context.Context, types.Identifiers) (string, error) {
	f.identifyCalls++
	return f.url, f.identifyErr
}

func (f *fakeSource) FetchRaw(context.Context, string) ([]byte, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return []byte("doc"), nil
}

func (f *fakeSource) Extract(string, []byte) sources.Result {
	f.extractCalls++
	return f.result
}

func chapters(titles ...string) []types.ChapterEntry {
	var out []types.ChapterEntry
	for _, t := range titles {
		out = append(out, types.ChapterEntry{Title: t, Depth: 1})
	}
	return out
}

var dune = types.Identifiers{ISBN: "9780441013593", Title: "Dune"}

func TestChain_ShortCircuits(t *testing.T) {
	first := &fakeSource{name: "a", url: "http://a", fetchErr: errors.New("timeout")}
	second := &fakeSource{name: "b", url: "http://b", result: sources.Found(chapters("One", "Two"), nil)}
	third := &fakeSource{name: "c", url: "http://c", result: sources.Found(chapters("Other"), nil)}

	var status bytes.Buffer
	chain := NewChain(Config{Sources: []sources.Source{first, second, third}, Status: &status})

	out, err := chain.ResolveTOC(context.Background(), dune)
	if err != nil {
		t.Fatalf("ResolveTOC() error = %v", err)
	}
	if out.Source != "b" || len(out.Chapters) != 2 {
		t.Errorf("got source %q with %d chapters", out.Source, len(out.Chapters))
	}
	if third.identifyCalls+third.fetchCalls+third.extractCalls != 0 {
		t.Errorf("source after success was invoked: %+v", third)
	}
	if first.fetchCalls != 1 || second.fetchCalls != 1 {
		t.Errorf("fetch calls = %d, %d; want one each", first.fetchCalls, second.fetchCalls)
	}
	if len(out.Attempts) != 2 || out.Attempts[0].Status != "error" || out.Attempts[1].Status != "found" {
		t.Errorf("attempts = %+v", out.Attempts)
	}
	if out.RequestID == "" {
		t.Error("missing request id")
	}

	trail := status.String()
	for _, want := range []string{"Trying A: http://a", "A: no data (timeout)", "Trying B: http://b", "Found in B: 2 entries"} {
		if !strings.Contains(trail, want) {
			t.Errorf("status trail missing %q:\n%s", want, trail)
		}
	}
}

func TestChain_EmptyListFallsThrough(t *testing.T) {
	empty := &fakeSource{name: "empty", url: "http://e", result: sources.Found(nil, nil)}
	blank := &fakeSource{name: "blank", url: "http://b", result: sources.Result{Status: sources.StatusFound, Chapters: chapters("  ", "\n")}}
	good := &fakeSource{name: "good", url: "http://g", result: sources.Found(chapters("Real"), nil)}

	chain := NewChain(Config{Sources: []sources.Source{empty, blank, good}})
	out, err := chain.ResolveTOC(context.Background(), dune)
	if err != nil {
		t.Fatalf("ResolveTOC() error = %v", err)
	}
	if out.Source != "good" {
		t.Errorf("Source = %q, want good", out.Source)
	}
	if out.Attempts[1].Status != "not_found" {
		t.Errorf("whitespace-only chapters should count as not found: %+v", out.Attempts[1])
	}
}

func TestChain_SkipsSourcesWithoutCandidate(t *testing.T) {
	skip := &fakeSource{name: "litres"}
	good := &fakeSource{name: "ol", url: "http://ol", result: sources.Found(chapters("X"), nil)}

	var status bytes.Buffer
	chain := NewChain(Config{Sources: []sources.Source{skip, good}, Status: &status})
	out, err := chain.ResolveTOC(context.Background(), dune)
	if err != nil {
		t.Fatalf("ResolveTOC() error = %v", err)
	}
	if skip.fetchCalls != 0 {
		t.Errorf("skipped source fetched %d times", skip.fetchCalls)
	}
	if out.Attempts[0].Status != "skipped" {
		t.Errorf("attempt[0] = %+v", out.Attempts[0])
	}
	if strings.Contains(status.String(), "LITRES") {
		t.Errorf("skipped source should not appear in status:\n%s", status.String())
	}
}

func TestChain_NotFoundCarriesPreview(t *testing.T) {
	ol := &fakeSource{name: "ol", url: "http://ol", result: sources.Failed(sources.ErrParse)}
	gb := &fakeSource{name: "gb", url: "http://gb", result: sources.Result{
		Status:     sources.StatusFound,
		Metadata:   &types.BookMetadata{Title: "Dune"},
		PreviewURL: "http://preview",
	}}
	searchFail := &fakeSource{name: "lab", identifyErr: errors.New("search down")}

	var status bytes.Buffer
	chain := NewChain(Config{Sources: []sources.Source{searchFail, ol, gb}, Status: &status})
	out, err := chain.ResolveTOC(context.Background(), dune)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error is not a *NotFoundError: %T", err)
	}
	if out.PreviewURL != "http://preview" || nf.Outcome.PreviewURL != "http://preview" {
		t.Errorf("PreviewURL = %q", out.PreviewURL)
	}
	if !strings.Contains(nf.Guidance(), "http://preview") {
		t.Errorf("Guidance() = %q", nf.Guidance())
	}
	if len(out.Attempts) != 3 {
		t.Errorf("attempts = %+v", out.Attempts)
	}
	if out.Attempts[2].Status != "not_found" {
		t.Errorf("metadata-only result in toc mode should be not_found: %+v", out.Attempts[2])
	}
	if !strings.Contains(status.String(), "Preview: http://preview") {
		t.Errorf("status missing preview:\n%s", status.String())
	}
}

func TestChain_ResolveMetadata(t *testing.T) {
	tocOnly := &fakeSource{name: "toc", url: "http://t", result: sources.Found(chapters("A"), nil)}
	meta := &fakeSource{name: "meta", url: "http://m", result: sources.Found(nil, &types.BookMetadata{Title: "Dune"})}

	chain := NewChain(Config{Sources: []sources.Source{tocOnly, meta}})
	out, err := chain.ResolveMetadata(context.Background(), dune)
	if err != nil {
		t.Fatalf("ResolveMetadata() error = %v", err)
	}
	if out.Metadata == nil || out.Metadata.Title != "Dune" || out.Source != "meta" {
		t.Errorf("outcome = %+v", out)
	}
}

func TestChain_NoIdentifiers(t *testing.T) {
	src := &fakeSource{name: "a", url: "http://a"}
	chain := NewChain(Config{Sources: []sources.Source{src}})
	if _, err := chain.ResolveTOC(context.Background(), types.Identifiers{Title: "  "}); !errors.Is(err, ErrNoIdentifiers) {
		t.Errorf("error = %v, want ErrNoIdentifiers", err)
	}
	if src.identifyCalls != 0 {
		t.Error("source invoked without identifiers")
	}
}

func TestChain_CancelledContext(t *testing.T) {
	src := &fakeSource{name: "a", url: "http://a"}
	chain := NewChain(Config{Sources: []sources.Source{src}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := chain.ResolveTOC(ctx, dune); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
