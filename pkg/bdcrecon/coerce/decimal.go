// Package coerce converts loosely typed cells into exact amounts and
// date-only values, independently of locale punctuation.
package coerce

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
)

// currencySymbols are removed before parsing an amount.
var currencySymbols = []string{"€", "$", "£"}

// Decimal converts v to an exact decimal. Missing or unparsable input yields
// zero so that aggregations never abort.
func Decimal(v models.Value) decimal.Decimal {
	d, _ := ParseDecimal(v)
	return d
}

// ParseDecimal is Decimal with an ok flag that is false only when a non-blank
// value could not be parsed. Blank input is zero and ok.
func ParseDecimal(v models.Value) (decimal.Decimal, bool) {
	switch v.Kind {
	case models.KindBlank:
		return decimal.Zero, true
	case models.KindNumber:
		return v.Number, true
	case models.KindText:
		if strings.TrimSpace(v.Text) == "" {
			return decimal.Zero, true
		}
		return DecimalFromString(v.Text)
	}
	return decimal.Zero, false
}

// DecimalFromString parses amounts such as "1 234,56 €". Every kind of space
// (plain, non-breaking, narrow) and currency symbols are dropped and a decimal
// comma becomes a decimal point.
func DecimalFromString(s string) (decimal.Decimal, bool) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\u202f' {
			return -1
		}
		return r
	}, s)
	for _, sym := range currencySymbols {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
