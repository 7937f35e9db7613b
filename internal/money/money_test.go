package money

import (
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		code     string
		contains []string
		prefix   string
	}{
		{"brl", 10, "BRL", []string{"R$", "10"}, "R$"},
		{"lower-case code", 10, "brl", []string{"R$"}, "R$"},
		{"unknown falls back to brl", 10, "XYZ1", []string{"R$"}, "R$"},
		{"negative", -5, "BRL", []string{"R$", "5"}, "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Default.Format(tt.amount, tt.code)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format(%v, %q) = %q, want it to contain %q", tt.amount, tt.code, got, want)
				}
			}
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("Format(%v, %q) = %q, want prefix %q", tt.amount, tt.code, got, tt.prefix)
			}
		})
	}
}

func TestFormatDiffersByCurrency(t *testing.T) {
	f := NewFormatter(language.AmericanEnglish)
	if f.Format(1, "USD") == f.Format(1, "EUR") {
		t.Error("USD and EUR should render different symbols")
	}
}

func TestValid(t *testing.T) {
	if !Valid("BRL") || !Valid("usd") {
		t.Error("expected BRL and USD to be valid")
	}
	if Valid("") || Valid("REAL") {
		t.Error("expected empty and unknown codes to be invalid")
	}
}
