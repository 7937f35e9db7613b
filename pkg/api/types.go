// Package api defines the wire messages of the ekkora.v1 Connect services.
// Messages are encoded as JSON with camelCase field names. Calendar days are
// YYYY-MM-DD strings; instants are RFC 3339 timestamps.
package api

import "time"

// User is a signed-in identity.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// Profile is the per-identity settings document.
type Profile struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"displayName,omitempty"`
	ChurchID      string    `json:"churchId,omitempty"`
	MonthlyTarget float64   `json:"monthlyTarget"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"createdAt,omitzero"`
	UpdatedAt     time.Time `json:"updatedAt,omitzero"`
}

// Church is a tenant.
type Church struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	OwnerUID  string    `json:"ownerUid"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
	UpdatedBy string    `json:"updatedBy,omitempty"`
}

// Member is a church membership.
type Member struct {
	UID       string    `json:"uid"`
	ChurchID  string    `json:"churchId"`
	Role      string    `json:"role"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Invite is an offer of membership.
type Invite struct {
	Email         string    `json:"email"`
	ChurchID      string    `json:"churchId"`
	Role          string    `json:"role"`
	Status        string    `json:"status"`
	InvitedByUID  string    `json:"invitedByUid,omitempty"`
	AcceptedByUID string    `json:"acceptedByUid,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitzero"`
	AcceptedAt    time.Time `json:"acceptedAt,omitzero"`
}

// Entry is a ledger line.
type Entry struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Amount       float64   `json:"amount"`
	Category     string    `json:"category"`
	Note         string    `json:"note,omitempty"`
	Date         string    `json:"date"`
	CreatedByUID string    `json:"createdByUid,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}

// EntryInput is the editable content of a ledger line.
type EntryInput struct {
	Type     string  `json:"type"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Note     string  `json:"note,omitempty"`
	Date     string  `json:"date"`
}

// Category is an income or expense bucket.
type Category struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	CreatedByUID string    `json:"createdByUid,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
}

// Person is a registry record. Age is omitted when the birth date is unknown.
type Person struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	BirthDate   string    `json:"birthDate,omitempty"`
	Age         *int      `json:"age,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	BaptismDate string    `json:"baptismDate,omitempty"`
	Status      string    `json:"status"`
	Address     string    `json:"address,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// PersonInput is the editable content of a registry record.
type PersonInput struct {
	Name        string `json:"name"`
	BirthDate   string `json:"birthDate,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	BaptismDate string `json:"baptismDate,omitempty"`
	Status      string `json:"status,omitempty"`
	Address     string `json:"address,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// Totals summarizes a set of entries.
type Totals struct {
	Income       float64 `json:"income"`
	Expense      float64 `json:"expense"`
	Balance      float64 `json:"balance"`
	IncomeCount  int     `json:"incomeCount"`
	ExpenseCount int     `json:"expenseCount"`
}

// DailyPoint is one day of the dashboard series.
type DailyPoint struct {
	Day     string  `json:"day"`
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
	Balance float64 `json:"balance"`
}

// CategoryTotal is the summed amount of one category label.
type CategoryTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// DashboardLabels are amounts formatted in the caller's currency.
type DashboardLabels struct {
	Income        string `json:"income"`
	Expense       string `json:"expense"`
	Balance       string `json:"balance"`
	Average7      string `json:"average7"`
	MonthlyTarget string `json:"monthlyTarget"`
}

// Dashboard is the current month's summary.
type Dashboard struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	Totals        Totals          `json:"totals"`
	Average7      float64         `json:"average7"`
	Series        []DailyPoint    `json:"series"`
	TopCategories []CategoryTotal `json:"topCategories"`
	Latest        []Entry         `json:"latest"`
	MonthlyTarget float64         `json:"monthlyTarget"`
	GoalProgress  float64         `json:"goalProgress"`
	Currency      string          `json:"currency"`
	Labels        DashboardLabels `json:"labels"`
}
