// Package report builds period reports over the finance ledger and exports
// them as CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mmynk/ekkora/internal/calculator"
	"github.com/mmynk/ekkora/internal/models"
)

// Report is the ledger summary of one period.
type Report struct {
	Range   calculator.Range
	Totals  calculator.Totals
	Income  []calculator.CategoryTotal
	Expense []calculator.CategoryTotal
	// Entries are the period's entries, newest first.
	Entries []models.FinanceEntry
}

// Build summarizes the entries that fall within r.
func Build(entries []models.FinanceEntry, r calculator.Range) *Report {
	in := calculator.InRange(entries, r)
	return &Report{
		Range:   r,
		Totals:  calculator.ComputeTotals(entries, r),
		Income:  calculator.ByCategory(calculator.OfType(in, models.Income)),
		Expense: calculator.ByCategory(calculator.OfType(in, models.Expense)),
		Entries: calculator.Latest(in, -1),
	}
}

var header = []string{"date", "type", "category", "note", "amount"}

// WriteCSV writes one row per entry followed by income, expense and balance
// footer rows. Amounts are signed and use a dot decimal separator.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	loc := r.Range.From.Location()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range r.Entries {
		row := []string{
			calculator.DayKey(e.Date, loc),
			string(e.Type),
			e.Category,
			e.Note,
			formatAmount(e.Signed()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write entry %s: %w", e.ID, err)
		}
	}

	footer := [][]string{
		{"", "", "", "total income", formatAmount(r.Totals.Income)},
		{"", "", "", "total expense", formatAmount(-r.Totals.Expense)},
		{"", "", "", "balance", formatAmount(r.Totals.Balance)},
	}
	if err := cw.WriteAll(footer); err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
