package progress

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/jackzampolin/bookmark/internal/frontmatter"
)

// HintSource says where a total page count came from.
type HintSource string

const (
	HintNone        HintSource = ""
	HintExplicit    HintSource = "explicit"
	HintFrontmatter HintSource = "frontmatter"
	HintPDF         HintSource = "pdf"
)

var totalLine = regexp.MustCompile(`(?m)^total:\s*"?(\d+)"?\s*$`)

// FrontmatterTotal reads the "total" page count from the note's frontmatter.
// A block that is not valid YAML, e.g. an unquoted colon in the title, is
// scanned line by line for the total instead.
func FrontmatterTotal(markdown string) (int, bool) {
	fields, err := frontmatter.Parse(markdown)
	if err != nil {
		slog.Debug("frontmatter is not valid YAML, scanning for total", "error", err)
		return scanTotal(markdown)
	}
	if fields == nil {
		return 0, false
	}
	n, ok := frontmatter.Int(fields, "total")
	if !ok || n <= 0 {
		return 0, false
	}
	return n, true
}

func scanTotal(markdown string) (int, bool) {
	block, _, ok := frontmatter.Split(markdown)
	if !ok {
		return 0, false
	}
	m := totalLine.FindStringSubmatch(strings.ReplaceAll(block, "\r", ""))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// PDFPageCount returns the number of pages in a local PDF.
func PDFPageCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	return n, nil
}

// TotalPagesHint picks the page denominator: an explicit value wins, then
// the frontmatter, then the PDF. A zero result means no hint.
func TotalPagesHint(explicit int, markdown, pdfPath string) (int, HintSource, error) {
	if explicit > 0 {
		return explicit, HintExplicit, nil
	}
	if n, ok := FrontmatterTotal(markdown); ok {
		return n, HintFrontmatter, nil
	}
	if pdfPath != "" {
		n, err := PDFPageCount(pdfPath)
		if err != nil {
			return 0, HintNone, err
		}
		return n, HintPDF, nil
	}
	return 0, HintNone, nil
}
