package workspace

import (
	"context"
	"time"

	"github.com/mmynk/ekkora/internal/calculator"
	"github.com/mmynk/ekkora/internal/docstore"
	"github.com/mmynk/ekkora/internal/models"
	"github.com/mmynk/ekkora/internal/money"
	"github.com/mmynk/ekkora/internal/report"
	"github.com/mmynk/ekkora/internal/storage"
)

const (
	topCategoryCount = 10
	latestEntryCount = 8
)

// Dashboard is the current month's summary of the ledger.
type Dashboard struct {
	Month         calculator.Range
	Totals        calculator.Totals
	Average7      float64
	Series        []calculator.DailyPoint
	TopCategories []calculator.CategoryTotal
	Latest        []models.FinanceEntry
	MonthlyTarget float64
	GoalProgress  float64
	Currency      string
	Labels        Labels
}

// Labels are the dashboard amounts formatted in the profile's currency.
type Labels struct {
	Income        string
	Expense       string
	Balance       string
	Average7      string
	MonthlyTarget string
}

// BuildDashboard summarizes the month containing now. entries may contain
// entries outside the month; they are ignored.
func BuildDashboard(entries []models.FinanceEntry, now time.Time, profile *models.UserProfile, f *money.Formatter) *Dashboard {
	month := calculator.MonthRange(now)
	in := calculator.InRange(entries, month)
	totals := calculator.ComputeTotals(entries, month)
	avg := calculator.MovingAverage7(in, now)

	var target float64
	if profile != nil {
		target = profile.MonthlyTarget
	}
	code := profile.CurrencyOrDefault()

	return &Dashboard{
		Month:         month,
		Totals:        totals,
		Average7:      avg,
		Series:        calculator.DailySeries(in, month),
		TopCategories: calculator.TopCategories(entries, month, topCategoryCount),
		Latest:        calculator.Latest(in, latestEntryCount),
		MonthlyTarget: target,
		GoalProgress:  calculator.GoalProgress(totals.Income, target),
		Currency:      money.Unit(code).String(),
		Labels: Labels{
			Income:        f.Format(totals.Income, code),
			Expense:       f.Format(totals.Expense, code),
			Balance:       f.Format(totals.Balance, code),
			Average7:      f.Format(avg, code),
			MonthlyTarget: f.Format(target, code),
		},
	}
}

// Dashboard computes the dashboard for the current month.
func (w *Workspace) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := w.today()
	month := calculator.MonthRange(now)
	entries, err := w.repo.ListEntries(ctx, w.sess.ChurchID(), month.From, month.To)
	if err != nil {
		return nil, err
	}
	return BuildDashboard(entries, now, w.sess.Profile, w.money), nil
}

// WatchDashboard attaches a live view that recomputes the dashboard on every
// change to the current month's entries.
func (w *Workspace) WatchDashboard(ctx context.Context, onChange func(*Dashboard, error)) (*View[*Dashboard], error) {
	month := w.CurrentMonth()
	q := storage.FinanceQuery(w.sess.ChurchID(), month.From, month.To)
	return watch(ctx, w, "dashboard", q, func(docs []*docstore.Document) (*Dashboard, error) {
		entries, err := storage.DecodeEntries(docs)
		if err != nil {
			return nil, err
		}
		return BuildDashboard(entries, w.today(), w.sess.Profile, w.money), nil
	}, onChange)
}

// Report summarizes the ledger over r.
func (w *Workspace) Report(ctx context.Context, r calculator.Range) (*report.Report, error) {
	entries, err := w.repo.ListEntries(ctx, w.sess.ChurchID(), r.From, r.To)
	if err != nil {
		return nil, err
	}
	return report.Build(entries, r), nil
}
