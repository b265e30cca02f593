// Package frontmatter reads and writes the YAML block at the top of a
// markdown note.
package frontmatter

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/bookmark/internal/types"
)

const delimiter = "---"

// Split separates a leading frontmatter block from the body.
// ok is false when the document does not open with a delimiter line
// or the block is never closed.
func Split(doc string) (block, body string, ok bool) {
	doc = strings.TrimPrefix(doc, "\ufeff")
	lines := strings.SplitAfter(doc, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r\n") != delimiter {
		return "", doc, false
	}
	for i := 1; i < len(lines); i++ {
		switch strings.TrimRight(lines[i], " \t\r\n") {
		case delimiter, "...":
			return strings.Join(lines[1:i], ""), strings.Join(lines[i+1:], ""), true
		}
	}
	return "", doc, false
}

// Parse decodes the frontmatter of doc. A document without frontmatter
// yields a nil map and no error.
func Parse(doc string) (map[string]any, error) {
	block, _, ok := Split(doc)
	if !ok {
		return nil, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal([]byte(block), &fields); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	return fields, nil
}

// Int reads an integer field, accepting numeric strings.
func Int(fields map[string]any, key string) (int, bool) {
	switch v := fields[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

// Render produces a frontmatter block for a book note. Identifier keys are
// prefixed with the answering source (litresId, googlebooksUrl, ...).
func Render(meta *types.BookMetadata, source string) (string, error) {
	if meta == nil || meta.Title == "" {
		return "", fmt.Errorf("metadata has no title")
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
	}
	plain := func(v string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
	}
	flow := func(vs ...string) *yaml.Node {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
		for _, v := range vs {
			seq.Content = append(seq.Content, plain(v))
		}
		return seq
	}

	add("title", &yaml.Node{Kind: yaml.ScalarNode, Value: meta.Title, Style: yaml.DoubleQuotedStyle})
	if meta.Author != nil {
		add("author", flow(*meta.Author))
	}
	if meta.Publisher != nil {
		add("publisher", plain(*meta.Publisher))
	}
	if meta.Year != nil {
		add("publish", plain(*meta.Year))
	}
	if meta.PageCount != nil {
		add("total", plain(strconv.Itoa(*meta.PageCount)))
	}
	if meta.ISBN != nil {
		add("isbn", plain(*meta.ISBN))
	}
	if meta.CoverURL != nil {
		add("coverUrl", plain(*meta.CoverURL))
	}
	if source == "" {
		source = "source"
	}
	if meta.SourceID != nil {
		add(source+"Id", plain(*meta.SourceID))
	}
	if meta.SourceURL != nil {
		add(source+"Url", plain(*meta.SourceURL))
	}
	add("status", plain("reading"))
	add("tags", flow("own"))

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	buf.WriteString(delimiter)
	return buf.String(), nil
}
