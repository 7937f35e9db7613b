package models

import (
	"testing"
	"time"
)

func TestPersonAge(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthDate string
		want      int
	}{
		{name: "birthday passed", birthDate: "1990-01-10", want: 34},
		{name: "birthday today", birthDate: "1990-03-15", want: 34},
		{name: "birthday tomorrow", birthDate: "1990-03-16", want: 33},
		{name: "born this year", birthDate: "2024-01-01", want: 0},
		{name: "missing", birthDate: "", want: -1},
		{name: "malformed", birthDate: "15/03/1990", want: -1},
		{name: "future", birthDate: "2030-01-01", want: -1},
		{name: "implausible", birthDate: "1850-01-01", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Person{BirthDate: tt.birthDate}).Age(now); got != tt.want {
				t.Errorf("Age() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "treasurer", "viewer"} {
		if r, err := ParseRole(s); err != nil || string(r) != s {
			t.Errorf("ParseRole(%q) = %q, %v", s, r, err)
		}
	}
	for _, s := range []string{"", "Admin", "owner"} {
		if _, err := ParseRole(s); err == nil {
			t.Errorf("ParseRole(%q) expected error", s)
		}
	}
}

func TestSigned(t *testing.T) {
	if got := (FinanceEntry{Type: Income, Amount: 10}).Signed(); got != 10 {
		t.Errorf("income Signed() = %v, want 10", got)
	}
	if got := (FinanceEntry{Type: Expense, Amount: 10}).Signed(); got != -10 {
		t.Errorf("expense Signed() = %v, want -10", got)
	}
}

func TestProfileDefaults(t *testing.T) {
	var nilProfile *UserProfile
	if nilProfile.Bound() {
		t.Error("nil profile should not be bound")
	}
	if got := nilProfile.CurrencyOrDefault(); got != DefaultCurrency {
		t.Errorf("CurrencyOrDefault() = %q, want %q", got, DefaultCurrency)
	}
	p := &UserProfile{ChurchID: "c1", Currency: "USD"}
	if !p.Bound() || p.CurrencyOrDefault() != "USD" {
		t.Errorf("profile = %+v, want bound with USD", p)
	}
}

func TestInvitePending(t *testing.T) {
	var inv *Invite
	if inv.Pending() {
		t.Error("nil invite should not be pending")
	}
	if !(&Invite{Status: InvitePending}).Pending() {
		t.Error("pending invite should be pending")
	}
	if (&Invite{Status: InviteAccepted}).Pending() {
		t.Error("accepted invite should not be pending")
	}
}
