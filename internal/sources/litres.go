package sources

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackzampolin/bookmark/internal/fetch"
	"github.com/jackzampolin/bookmark/internal/types"
)

// Litres URL templates. {shard} is the second-to-last digit of the ID.
const (
	DefaultLitresXMLURL   = "https://cv{shard}.litres.ru/pub/c/cover/{id}.xml"
	DefaultLitresCoverURL = "https://cdn.litres.ru/pub/c/cover/{id}.jpg"
	DefaultLitresPageURL  = "https://www.litres.ru/book/-{id}/"
)

var (
	litresTocItem  = regexp.MustCompile(`<toc-item[^>]*deep="(\d+)"[^>]*>([^<]+)</toc-item>`)
	litresURLID    = regexp.MustCompile(`litres\.ru/.*-(\d+)/?(?:[?#].*)?$`)
	litresNumberID = regexp.MustCompile(`^\d+$`)
)

// LitresConfig configures the Litres adapter.
type LitresConfig struct {
	Enabled  bool
	XMLURL   string
	CoverURL string
	PageURL  string
}

// Litres reads the per-book XML Litres publishes next to its cover images.
// Records at deep="0" hold "Author. Title"; everything deeper is the TOC.
type Litres struct {
	base
	xmlURL   string
	coverURL string
	pageURL  string
}

// NewLitres creates the Litres adapter. Empty templates fall back to the public hosts.
func NewLitres(f fetch.Fetcher, cfg LitresConfig) *Litres {
	l := &Litres{
		base:     base{fetcher: f},
		xmlURL:   cfg.XMLURL,
		coverURL: cfg.CoverURL,
		pageURL:  cfg.PageURL,
	}
	if l.xmlURL == "" {
		l.xmlURL = DefaultLitresXMLURL
	}
	if l.coverURL == "" {
		l.coverURL = DefaultLitresCoverURL
	}
	if l.pageURL == "" {
		l.pageURL = DefaultLitresPageURL
	}
	return l
}

func (l *Litres) Name() string        { return "litres" }
func (l *Litres) DisplayName() string { return "Litres" }

// Identify derives the XML URL from a Litres ID, or from a Litres page URL.
func (l *Litres) Identify(_ context.Context, ids types.Identifiers) (string, error) {
	id := LitresIDFrom(ids)
	if id == "" {
		return "", nil
	}
	return expandID(l.xmlURL, id), nil
}

// LitresIDFrom returns the Litres ID carried by ids, if any.
func LitresIDFrom(ids types.Identifiers) string {
	if id := strings.TrimSpace(ids.LitresID); litresNumberID.MatchString(id) {
		return id
	}
	if m := litresURLID.FindStringSubmatch(strings.TrimSpace(ids.DirectURL)); m != nil {
		return m[1]
	}
	return ""
}

// Shard returns the host bucket digit for an ID.
func Shard(id string) string {
	if len(id) < 2 {
		return "0"
	}
	return id[len(id)-2 : len(id)-1]
}

func expandID(tmpl, id string) string {
	return strings.NewReplacer("{shard}", Shard(id), "{id}", id).Replace(tmpl)
}

// Extract parses the Litres XML document fetched from url.
func (l *Litres) Extract(url string, doc []byte) Result {
	text := string(doc)
	id := l.idFromXMLURL(url)

	var chapters []types.ChapterEntry
	var meta *types.BookMetadata
	// Chapters only count when the document actually has a <toc> element;
	// some books ship a title-only record.
	hasTOC := strings.Contains(text, "<toc>")

	for _, m := range litresTocItem.FindAllStringSubmatch(text, -1) {
		depth, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		title := strings.TrimSpace(html.UnescapeString(strings.TrimSpace(m[2])))
		if title == "" {
			continue
		}
		if depth == 0 {
			if meta == nil {
				meta = l.metadata(title, id)
			}
			continue
		}
		if hasTOC {
			chapters = append(chapters, types.ChapterEntry{Title: title, Depth: depth})
		}
	}

	res := Found(chapters, meta)
	if res.Status == StatusFound && id != "" {
		res.SourceURL = expandID(l.pageURL, id)
	}
	return res
}

// SplitAuthorTitle splits "Author. Title" on the first ". ".
func SplitAuthorTitle(full string) (author *string, title string) {
	a, t, ok := strings.Cut(full, ". ")
	if !ok {
		return nil, full
	}
	a, t = strings.TrimSpace(a), strings.TrimSpace(t)
	if t == "" {
		return nil, full
	}
	return types.StringPtr(a), t
}

func (l *Litres) metadata(full, id string) *types.BookMetadata {
	author, title := SplitAuthorTitle(full)
	meta := &types.BookMetadata{Title: title, Author: author}
	if id != "" {
		meta.CoverURL = types.StringPtr(expandID(l.coverURL, id))
		meta.SourceID = types.StringPtr(id)
		meta.SourceURL = types.StringPtr(expandID(l.pageURL, id))
	}
	return meta
}

// idFromXMLURL recovers the ID from a URL built by Identify.
func (l *Litres) idFromXMLURL(url string) string {
	prefix, suffix, ok := strings.Cut(l.xmlURL, "{id}")
	if !ok {
		return ""
	}
	// The shard placeholder sits in the prefix; match it loosely.
	re, err := regexp.Compile("^" + strings.ReplaceAll(regexp.QuoteMeta(prefix), regexp.QuoteMeta("{shard}"), `\d`) + `(\d+)` + regexp.QuoteMeta(suffix) + "$")
	if err != nil {
		return ""
	}
	if m := re.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}

// String implements fmt.Stringer for diagnostics.
func (l *Litres) String() string { return fmt.Sprintf("litres(%s)", l.xmlURL) }
