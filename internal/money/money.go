// Package money renders amounts as localized currency labels.
package money

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mmynk/ekkora/internal/models"
)

// Formatter formats amounts for one display language.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter creates a formatter for tag.
func NewFormatter(tag language.Tag) *Formatter {
	return &Formatter{printer: message.NewPrinter(tag)}
}

// Default formats in Brazilian Portuguese.
var Default = NewFormatter(language.BrazilianPortuguese)

// Unit parses an ISO 4217 code, falling back to BRL for anything unknown.
func Unit(code string) currency.Unit {
	unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		fallback, _ := currency.ParseISO(models.DefaultCurrency)
		return fallback
	}
	return unit
}

// Valid reports whether code is a known ISO 4217 currency.
func Valid(code string) bool {
	_, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	return err == nil
}

// Format renders amount in the currency named by code, e.g. "R$ 1.234,50".
func (f *Formatter) Format(amount float64, code string) string {
	unit := Unit(code)
	symbol := f.printer.Sprint(currency.Symbol(unit))
	scale, _ := currency.Standard.Rounding(unit)

	verb := fmt.Sprintf("%%.%df", scale)
	number := f.printer.Sprintf(verb, math.Abs(amount))
	if amount < 0 && number != f.printer.Sprintf(verb, 0.0) {
		return "-" + symbol + " " + number
	}
	return symbol + " " + number
}
