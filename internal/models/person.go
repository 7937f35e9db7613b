package models

import "time"

// DefaultPersonStatus is applied when a person is saved without a status.
const DefaultPersonStatus = "ativo"

// Person is a congregation registry record, stored at
// churches/{churchId}/people/{id}. Dates are kept as YYYY-MM-DD strings the way
// they are entered.
type Person struct {
	ID string `doc:"-"`

	Name        string `doc:"name"`
	BirthDate   string `doc:"birthDate"`
	Phone       string `doc:"phone"`
	Email       string `doc:"email"`
	BaptismDate string `doc:"baptismDate"`
	Status      string `doc:"status"`
	Address     string `doc:"address"`
	Notes       string `doc:"notes"`

	CreatedByUID string    `doc:"createdByUid"`
	CreatedAt    time.Time `doc:"createdAt"`
	UpdatedAt    time.Time `doc:"updatedAt"`
}

// Age returns the person's age in whole years at now, or -1 when the birth
// date is missing, malformed, or implausible.
func (p Person) Age(now time.Time) int {
	if p.BirthDate == "" {
		return -1
	}
	birth, err := time.Parse("2006-01-02", p.BirthDate)
	if err != nil {
		return -1
	}
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	if age < 0 || age > 120 {
		return -1
	}
	return age
}
