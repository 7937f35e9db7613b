package calculator

import "github.com/mmynk/ekkora/internal/models"

// DailyPoint is one day of the dashboard series.
type DailyPoint struct {
	// Day is YYYY-MM-DD.
	Day string
	// Label is the day of month, "01".."31".
	Label   string
	Income  float64
	Expense float64
	Net     float64
	// Balance is the running sum of Net from the first day of the range.
	Balance float64
}

// DailySeries buckets entries by day over r, filling days without entries
// with zeros. Entries outside r are ignored.
func DailySeries(entries []models.FinanceEntry, r Range) []DailyPoint {
	loc := r.From.Location()
	days := r.Days()
	points := make([]DailyPoint, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		key := d.Format(DateLayout)
		points[i] = DailyPoint{Day: key, Label: key[8:]}
		index[key] = i
	}

	for _, e := range entries {
		i, ok := index[DayKey(e.Date, loc)]
		if !ok {
			continue
		}
		if e.Type == models.Income {
			points[i].Income += e.Amount
		} else {
			points[i].Expense += e.Amount
		}
	}

	var balance float64
	for i := range points {
		points[i].Net = points[i].Income - points[i].Expense
		balance += points[i].Net
		points[i].Balance = balance
	}
	return points
}
