package progress

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatHuman renders a short summary naming the method and its counts.
func FormatHuman(r Result) string {
	var b strings.Builder
	label := map[Method]string{
		MethodItems:  "by chapters",
		MethodWeight: "by volume",
		MethodPages:  "by pages",
	}[r.Method]
	fmt.Fprintf(&b, "Progress: %s%% (%s)\n", formatPercent(r.Progress), label)
	fmt.Fprintf(&b, "  Chapters: %d/%d", r.CompletedItems, r.TotalItems)

	switch r.Method {
	case MethodWeight:
		fmt.Fprintf(&b, "\n  Weight: %d/%d", deref(r.CompletedWeight), deref(r.TotalWeight))
	case MethodPages:
		fmt.Fprintf(&b, "\n  Pages: %d/%d", deref(r.CompletedPages), deref(r.TotalPages))
	}
	return b.String()
}

// formatPercent always shows one decimal place.
func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

func deref(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
