// Package progress parses a reading checklist and turns it into a single
// completion percentage. Parsing and scoring are pure functions.
package progress

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// DefaultHeading is the title of the checklist section.
const DefaultHeading = "Progress"

var (
	// ErrSectionMissing means no heading matched.
	ErrSectionMissing = errors.New("progress section not found")
	// ErrEmptySection means the section has no checklist lines.
	ErrEmptySection = errors.New("progress section has no checklist items")
)

var (
	itemLine   = regexp.MustCompile(`^[\s>]*-\s*\[([ xX])\]\s*(.+)$`)
	weightTag  = regexp.MustCompile(`\s*\[w:(\d+)\]`)
	pagesTag   = regexp.MustCompile(`\s*\[(\d+)-(\d+)\]`)
	topHeading = regexp.MustCompile(`^#{1,2}\s`)
)

// PageRange is an inclusive page span. End is never below Start.
type PageRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Len returns the number of pages in the range.
func (p PageRange) Len() int { return p.End - p.Start + 1 }

// Item is one checklist line.
type Item struct {
	Title     string     `json:"title" yaml:"title"`
	Completed bool       `json:"completed" yaml:"completed"`
	Weight    *int       `json:"weight,omitempty" yaml:"weight,omitempty"`
	Pages     *PageRange `json:"pages,omitempty" yaml:"pages,omitempty"`
	// Indent counts leading whitespace characters; informational only.
	Indent int `json:"indent" yaml:"indent"`
}

// ParseSection extracts checklist items from the section titled heading.
// The section runs until the next level one or two heading.
func ParseSection(markdown, heading string) ([]Item, error) {
	if heading == "" {
		heading = DefaultHeading
	}
	heading = strings.TrimSpace(strings.TrimLeft(heading, "# "))

	lines := strings.Split(strings.ReplaceAll(markdown, "\r\n", "\n"), "\n")
	start := -1
	for i, line := range lines {
		if isHeading(line, heading) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, ErrSectionMissing
	}

	var items []Item
	for _, line := range lines[start:] {
		if topHeading.MatchString(line) {
			break
		}
		if item, ok := ParseLine(line); ok {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, ErrEmptySection
	}
	return items, nil
}

func isHeading(line, heading string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return false
	}
	text := strings.TrimLeft(trimmed, "#")
	if len(trimmed)-len(text) > 6 || (text != "" && !unicode.IsSpace(rune(text[0]))) {
		return false
	}
	return strings.TrimSpace(text) == heading
}

// ParseLine parses one checklist line. Lines that are not checkbox items
// report ok=false.
func ParseLine(line string) (Item, bool) {
	m := itemLine.FindStringSubmatch(line)
	if m == nil {
		return Item{}, false
	}

	item := Item{
		Completed: strings.EqualFold(m[1], "x"),
		Indent:    leadingSpace(line),
	}
	title := strings.TrimSpace(m[2])

	if loc := weightTag.FindStringSubmatchIndex(title); loc != nil {
		if w, err := strconv.Atoi(title[loc[2]:loc[3]]); err == nil {
			item.Weight = &w
		}
		title = title[:loc[0]] + title[loc[1]:]
	}
	if loc := pagesTag.FindStringSubmatchIndex(title); loc != nil {
		a, errA := strconv.Atoi(title[loc[2]:loc[3]])
		b, errB := strconv.Atoi(title[loc[4]:loc[5]])
		if errA == nil && errB == nil {
			if b < a {
				a, b = b, a
			}
			item.Pages = &PageRange{Start: a, End: b}
		}
		title = title[:loc[0]] + title[loc[1]:]
	}

	item.Title = strings.TrimSpace(title)
	return item, true
}

func leadingSpace(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}
