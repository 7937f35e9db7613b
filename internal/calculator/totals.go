package calculator

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mmynk/ekkora/internal/models"
)

// Totals summarizes a set of entries.
type Totals struct {
	Income       float64
	Expense      float64
	Balance      float64
	IncomeCount  int
	ExpenseCount int
}

// ComputeTotals sums income and expense of the entries dated within r.
func ComputeTotals(entries []models.FinanceEntry, r Range) Totals {
	var t Totals
	for _, e := range entries {
		if !r.Contains(e.Date) {
			continue
		}
		if e.Type == models.Income {
			t.Income += e.Amount
			t.IncomeCount++
		} else {
			t.Expense += e.Amount
			t.ExpenseCount++
		}
	}
	t.Balance = t.Income - t.Expense
	return t
}

// MovingAverage7 returns the net amount of the seven calendar days ending at
// now, divided by seven. The window starts at midnight six days before now,
// in now's location, and ends at now.
func MovingAverage7(entries []models.FinanceEntry, now time.Time) float64 {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)

	var net float64
	for _, e := range entries {
		if e.Date.Before(start) || e.Date.After(now) {
			continue
		}
		net += e.Signed()
	}
	return net / 7
}

// GoalProgress returns income as a percentage of target, clamped to [0, 100].
// A non-positive target yields 0.
func GoalProgress(income, target float64) float64 {
	if target <= 0 {
		return 0
	}
	return math.Max(0, math.Min(100, income/target*100))
}

// Latest returns up to n entries, newest date first.
func Latest(entries []models.FinanceEntry, n int) []models.FinanceEntry {
	out := make([]models.FinanceEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Filter keeps entries whose type, category or note contains query,
// ignoring case. An empty query keeps everything.
func Filter(entries []models.FinanceEntry, query string) []models.FinanceEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}
	var out []models.FinanceEntry
	for _, e := range entries {
		hay := strings.ToLower(string(e.Type) + " " + e.Category + " " + e.Note)
		if strings.Contains(hay, query) {
			out = append(out, e)
		}
	}
	return out
}

// InRange keeps entries dated within r.
func InRange(entries []models.FinanceEntry, r Range) []models.FinanceEntry {
	var out []models.FinanceEntry
	for _, e := range entries {
		if r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}
