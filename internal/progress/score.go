package progress

import "math"

// Method names the unit a percentage was computed in.
type Method string

const (
	MethodItems  Method = "items"
	MethodWeight Method = "weight"
	MethodPages  Method = "pages"
)

// Result is the scorer output. Superseded variants stay populated.
type Result struct {
	TotalItems       int      `json:"total_items" yaml:"total_items"`
	CompletedItems   int      `json:"completed_items" yaml:"completed_items"`
	ProgressByItems  float64  `json:"progress_by_items" yaml:"progress_by_items"`
	ProgressByWeight *float64 `json:"progress_by_weight,omitempty" yaml:"progress_by_weight,omitempty"`
	ProgressByPages  *float64 `json:"progress_by_pages,omitempty" yaml:"progress_by_pages,omitempty"`
	TotalWeight      *int     `json:"total_weight,omitempty" yaml:"total_weight,omitempty"`
	CompletedWeight  *int     `json:"completed_weight,omitempty" yaml:"completed_weight,omitempty"`
	TotalPages       *int     `json:"total_pages,omitempty" yaml:"total_pages,omitempty"`
	CompletedPages   *int     `json:"completed_pages,omitempty" yaml:"completed_pages,omitempty"`
	Progress         float64  `json:"progress" yaml:"progress"`
	Method           Method   `json:"method" yaml:"method"`
}

// Score computes progress using pages, then weight, then item count,
// whichever is the highest available. totalPages <= 0 means no hint; the
// largest page seen is used instead.
func Score(items []Item, totalPages int) Result {
	if len(items) == 0 {
		return Result{Method: MethodItems}
	}

	res := Result{TotalItems: len(items)}
	for _, it := range items {
		if it.Completed {
			res.CompletedItems++
		}
	}
	res.ProgressByItems = percent(res.CompletedItems, res.TotalItems)
	res.Progress, res.Method = res.ProgressByItems, MethodItems

	var weighted bool
	var totalWeight, doneWeight int
	for _, it := range items {
		if it.Weight == nil {
			continue
		}
		weighted = true
		totalWeight += *it.Weight
		if it.Completed {
			doneWeight += *it.Weight
		}
	}
	if weighted && totalWeight > 0 {
		p := percent(doneWeight, totalWeight)
		res.ProgressByWeight = &p
		res.TotalWeight, res.CompletedWeight = &totalWeight, &doneWeight
		res.Progress, res.Method = p, MethodWeight
	}

	var paged bool
	var donePages, maxEnd int
	for _, it := range items {
		if it.Pages == nil {
			continue
		}
		paged = true
		if it.Pages.End > maxEnd {
			maxEnd = it.Pages.End
		}
		if it.Completed {
			donePages += it.Pages.Len()
		}
	}
	if paged {
		denom := totalPages
		if denom <= 0 {
			denom = maxEnd
		}
		if denom > 0 {
			p := percent(donePages, denom)
			res.ProgressByPages = &p
			res.TotalPages, res.CompletedPages = &denom, &donePages
			res.Progress, res.Method = p, MethodPages
		}
	}

	return res
}

// percent is capped at 100: overlapping page ranges or a short total hint
// can count more done than there is.
func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Min(100, math.Round(float64(part)/float64(whole)*1000)/10)
}
