package models

import (
	"fmt"
	"time"
)

// EntryType distinguishes income from expense.
type EntryType string

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// ParseEntryType validates an entry type string.
func ParseEntryType(s string) (EntryType, error) {
	switch t := EntryType(s); t {
	case Income, Expense:
		return t, nil
	default:
		return "", fmt.Errorf("unknown entry type %q", s)
	}
}

// FinanceEntry is one ledger line, stored at churches/{churchId}/finance/{id}.
type FinanceEntry struct {
	ID string `doc:"-"`

	Type EntryType `doc:"type"`

	// Amount is always positive; Type carries the sign.
	Amount float64 `doc:"amount"`

	// Category is a category display name, or FallbackCategory.
	Category string `doc:"category"`

	Note string `doc:"note"`

	// Date is the calendar day of the entry (noon UTC), distinct from CreatedAt.
	Date time.Time `doc:"date"`

	CreatedByUID string    `doc:"createdByUid"`
	CreatedAt    time.Time `doc:"createdAt"`
	UpdatedAt    time.Time `doc:"updatedAt"`
}

// Signed returns the amount with the sign implied by the entry type.
func (e FinanceEntry) Signed() float64 {
	if e.Type == Income {
		return e.Amount
	}
	return -e.Amount
}
