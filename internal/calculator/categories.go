package calculator

import (
	"sort"
	"strings"

	"github.com/mmynk/ekkora/internal/models"
)

// CategoryTotal is the summed amount of one category label.
type CategoryTotal struct {
	Name  string
	Total float64
	Count int
}

// ByCategory sums entry amounts per category label, income and expense
// alike. Blank labels count as the fallback category. The result is sorted by
// total, largest first, then by name.
func ByCategory(entries []models.FinanceEntry) []CategoryTotal {
	totals := make(map[string]*CategoryTotal)
	for _, e := range entries {
		name := strings.TrimSpace(e.Category)
		if name == "" {
			name = models.FallbackCategory
		}
		ct, ok := totals[name]
		if !ok {
			ct = &CategoryTotal{Name: name}
			totals[name] = ct
		}
		ct.Total += e.Amount
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(totals))
	for _, ct := range totals {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopCategories returns the n largest categories of the entries dated
// within r.
func TopCategories(entries []models.FinanceEntry, r Range, n int) []CategoryTotal {
	out := ByCategory(InRange(entries, r))
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// OfType keeps entries of type t.
func OfType(entries []models.FinanceEntry, t models.EntryType) []models.FinanceEntry {
	var out []models.FinanceEntry
	for _, e := range entries {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
