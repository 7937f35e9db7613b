package models

import "time"

// DefaultCurrency is used when a profile has no currency preference.
const DefaultCurrency = "BRL"

// UserProfile is the per-identity document stored at users/{uid}.
// It is created lazily on the first resolved session and never deleted.
type UserProfile struct {
	// UID is shared with the identity provider's user ID.
	UID string `doc:"uid"`

	// Email is stored lower-cased.
	Email string `doc:"email"`

	DisplayName string `doc:"displayName"`

	// ChurchID is the tenant binding. Empty means unbound (stored as null).
	ChurchID string `doc:"churchId"`

	// MonthlyTarget is the income goal shown on the dashboard.
	MonthlyTarget float64 `doc:"monthlyTarget"`

	// Currency is an ISO 4217 code used for formatted labels.
	Currency string `doc:"currency"`

	CreatedAt time.Time `doc:"createdAt"`
	UpdatedAt time.Time `doc:"updatedAt"`
}

// Bound reports whether the profile is attached to a church.
func (u *UserProfile) Bound() bool {
	return u != nil && u.ChurchID != ""
}

// CurrencyOrDefault returns the preferred currency, falling back to BRL.
func (u *UserProfile) CurrencyOrDefault() string {
	if u == nil || u.Currency == "" {
		return DefaultCurrency
	}
	return u.Currency
}
