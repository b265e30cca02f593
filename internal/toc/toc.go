// Package toc normalizes chapter lists from any source into the canonical
// form and renders them as plain lines or a markdown checklist.
package toc

import (
	"regexp"
	"strings"

	"github.com/jackzampolin/bookmark/internal/types"
)

// DefaultHeading opens a rendered checklist.
const DefaultHeading = "## Progress"

// Indent is prepended once per depth level beyond the first.
const Indent = "  "

var checklistLine = regexp.MustCompile(`^(\s*)- \[[ xX]\] (.+)$`)

// Normalize collapses whitespace inside titles, drops entries that end up
// empty and floors depth at 1. Order is preserved.
func Normalize(entries []types.ChapterEntry) []types.ChapterEntry {
	out := make([]types.ChapterEntry, 0, len(entries))
	for _, e := range entries {
		title := CollapseSpace(e.Title)
		if title == "" {
			continue
		}
		depth := e.Depth
		if depth < 1 {
			depth = 1
		}
		out = append(out, types.ChapterEntry{Title: title, Depth: depth})
	}
	return out
}

// CollapseSpace replaces every run of whitespace with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func indentFor(depth int) string {
	if depth <= 1 {
		return ""
	}
	return strings.Repeat(Indent, depth-1)
}

// RenderLines renders each entry as an indented title.
func RenderLines(entries []types.ChapterEntry) []string {
	lines := make([]string, 0, len(entries))
	for _, e := range Normalize(entries) {
		lines = append(lines, indentFor(e.Depth)+e.Title)
	}
	return lines
}

// RenderMarkdown renders entries as an unchecked checklist under heading.
func RenderMarkdown(heading string, entries []types.ChapterEntry) string {
	if heading == "" {
		heading = DefaultHeading
	}
	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n\n")
	for i, e := range Normalize(entries) {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(indentFor(e.Depth))
		b.WriteString("- [ ] ")
		b.WriteString(e.Title)
	}
	return b.String()
}

// ChaptersFromChecklist reads a rendered checklist back into entries.
// Every two leading spaces add one depth level; tabs count as one level.
func ChaptersFromChecklist(markdown string) []types.ChapterEntry {
	var out []types.ChapterEntry
	for _, line := range strings.Split(markdown, "\n") {
		m := checklistLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		width := 0
		for _, r := range m[1] {
			if r == '\t' {
				width += len(Indent)
			} else {
				width++
			}
		}
		title := CollapseSpace(m[2])
		if title == "" {
			continue
		}
		out = append(out, types.ChapterEntry{Title: title, Depth: width/len(Indent) + 1})
	}
	return out
}
