package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/jackzampolin/bookmark/internal/fetch"
	"github.com/jackzampolin/bookmark/internal/types"
)

const (
	// DefaultLabirintURL is the public Labirint host.
	DefaultLabirintURL = "https://www.labirint.ru"
	// DefaultMaxScrapedEntries caps heading-pattern matches from a scraped page.
	DefaultMaxScrapedEntries = 100
)

var (
	labirintBookLink = regexp.MustCompile(`href="(/books/\d+/)"`)
	labirintBookID   = regexp.MustCompile(`/books/(\d+)/`)
	// A JSON string literal whose content opens with a recognized heading.
	labirintTOCBlob = regexp.MustCompile(`"((?:Введение|Предисловие|Глава 1|Introduction|Preface|Chapter 1)(?:[^"\\]|\\.)*)"`)
	labirintBreak   = regexp.MustCompile(`(?i)<br\s*/?>`)
	labirintTag     = regexp.MustCompile(`<[^>]+>`)
	chapterHeading  = regexp.MustCompile(`(?i)^(?:\d+(?:\.\d+)*[.)]?\s|(?:введение|предисловие|заключение|послесловие|эпилог|приложение|глава|часть|раздел|introduction|preface|conclusion|afterword|epilogue|appendix|chapter|part|section)(?:[\s.:,\d]|$))`)
)

// Labirint searches the Labirint store and scrapes the TOC that the book
// page embeds as an escaped string inside a script block.
type Labirint struct {
	base
	baseURL    string
	maxEntries int
}

// NewLabirint creates the adapter. maxEntries <= 0 uses DefaultMaxScrapedEntries.
func NewLabirint(f fetch.Fetcher, baseURL string, maxEntries int) *Labirint {
	if baseURL == "" {
		baseURL = DefaultLabirintURL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxScrapedEntries
	}
	return &Labirint{
		base:       base{fetcher: f},
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxEntries: maxEntries,
	}
}

func (l *Labirint) Name() string        { return "labirint" }
func (l *Labirint) DisplayName() string { return "Labirint" }

// Identify accepts a Labirint book URL as-is; otherwise it searches by
// title (or ISBN) and takes the first book link on the results page.
func (l *Labirint) Identify(ctx context.Context, ids types.Identifiers) (string, error) {
	if direct := strings.TrimSpace(ids.DirectURL); direct != "" && l.owns(direct) {
		return direct, nil
	}

	query := strings.TrimSpace(ids.Title)
	if query == "" {
		query = strings.TrimSpace(ids.ISBN)
	}
	if query == "" {
		return "", nil
	}

	searchURL := fmt.Sprintf("%s/search/%s/", l.baseURL, url.PathEscape(query))
	body, err := l.FetchRaw(ctx, searchURL)
	if err != nil {
		return "", fmt.Errorf("labirint search: %w", err)
	}
	m := labirintBookLink.FindSubmatch(body)
	if m == nil {
		return "", nil
	}
	return l.baseURL + string(m[1]), nil
}

func (l *Labirint) owns(raw string) bool {
	if strings.HasPrefix(raw, l.baseURL) {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return strings.HasSuffix(u.Hostname(), "labirint.ru")
}

// Extract scrapes the book page.
func (l *Labirint) Extract(pageURL string, doc []byte) Result {
	chapters := ScrapeHeadings(doc, l.maxEntries)

	var meta *types.BookMetadata
	if title := scrapeTitle(doc); title != "" {
		meta = &types.BookMetadata{Title: title, SourceURL: types.StringPtr(pageURL)}
		if m := labirintBookID.FindStringSubmatch(pageURL); m != nil {
			meta.SourceID = types.StringPtr(m[1])
		}
	}

	res := Found(chapters, meta)
	if res.Status == StatusFound {
		res.SourceURL = pageURL
	}
	return res
}

// ScrapeHeadings finds the embedded TOC blob in doc and returns its
// chapter-heading lines, deduplicated in first-seen order and capped at limit.
func ScrapeHeadings(doc []byte, limit int) []types.ChapterEntry {
	if limit <= 0 {
		limit = DefaultMaxScrapedEntries
	}
	m := labirintTOCBlob.FindSubmatch(doc)
	if m == nil {
		return nil
	}
	text := decodeJSONString(m[1])
	text = labirintBreak.ReplaceAllString(text, "\n")
	text = labirintTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)

	seen := make(map[string]struct{})
	var out []types.ChapterEntry
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" || !chapterHeading.MatchString(line) {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, types.ChapterEntry{Title: line, Depth: 1})
		if len(out) >= limit {
			break
		}
	}
	return out
}

// decodeJSONString unescapes the body of a JSON string literal. Bodies that
// are not valid JSON get the common escapes replaced by hand.
func decodeJSONString(body []byte) string {
	quoted := make([]byte, 0, len(body)+2)
	quoted = append(quoted, '"')
	quoted = append(quoted, body...)
	quoted = append(quoted, '"')

	var s string
	if err := json.Unmarshal(quoted, &s); err == nil {
		return s
	}
	return strings.NewReplacer(
		`\u003c`, "<", `\u003e`, ">", `\u003C`, "<", `\u003E`, ">",
		`\/`, "/", `\"`, `"`, `\n`, "\n", `\r`, "", `\t`, " ",
	).Replace(string(body))
}

// scrapeTitle returns og:title, or the first <h1> text.
func scrapeTitle(doc []byte) string {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return ""
	}

	var ogTitle, h1 string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if ogTitle != "" {
			return
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				if attr(n, "property") == "og:title" {
					ogTitle = strings.TrimSpace(attr(n, "content"))
				}
			case "h1":
				if h1 == "" {
					h1 = strings.Join(strings.Fields(textOf(n)), " ")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	if ogTitle != "" {
		return ogTitle
	}
	return h1
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return b.String()
}
