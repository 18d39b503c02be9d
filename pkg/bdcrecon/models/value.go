// Package models defines data structures shared by the reconciliation pipeline.
package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the display form of every date-only value (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// ValueKind identifies which field of a Value carries data.
type ValueKind int

const (
	// KindBlank is an empty cell.
	KindBlank ValueKind = iota
	// KindText is a free-text cell.
	KindText
	// KindNumber is a native numeric cell held as an exact decimal.
	KindNumber
	// KindDate is a calendar date without time of day.
	KindDate
)

// Value is one spreadsheet cell: blank, text, exact number or date-only.
type Value struct {
	// Kind selects the meaningful field below.
	Kind ValueKind
	// Text is set for KindText.
	Text string
	// Number is set for KindNumber.
	Number decimal.Decimal
	// Date is set for KindDate, always at midnight UTC.
	Date time.Time
}

// Blank returns the empty value.
func Blank() Value {
	return Value{}
}

// Text returns a text value. An empty string yields Blank.
func Text(s string) Value {
	if s == "" {
		return Blank()
	}
	return Value{Kind: KindText, Text: s}
}

// Number returns an exact numeric value.
func Number(d decimal.Decimal) Value {
	return Value{Kind: KindNumber, Number: d}
}

// Date returns a date-only value; the time of day is dropped.
func Date(t time.Time) Value {
	y, m, d := t.Date()
	return Value{Kind: KindDate, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// IsBlank reports whether the cell is empty or whitespace only.
func (v Value) IsBlank() bool {
	switch v.Kind {
	case KindBlank:
		return true
	case KindText:
		return strings.TrimSpace(v.Text) == ""
	}
	return false
}

// IsDate reports whether the value is a date.
func (v Value) IsDate() bool {
	return v.Kind == KindDate
}

// String renders the value as text: dates as DD/MM/YYYY, numbers in exact
// fixed-point form, blank as "".
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return v.Number.String()
	case KindDate:
		return v.Date.Format(DateLayout)
	}
	return ""
}

// Trimmed is String with surrounding whitespace removed.
func (v Value) Trimmed() string {
	return strings.TrimSpace(v.String())
}

// Equal reports whether two values hold the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindText:
		return v.Text == o.Text
	case KindNumber:
		return v.Number.Equal(o.Number)
	case KindDate:
		return v.Date.Equal(o.Date)
	}
	return true
}

// MarshalJSON encodes blanks as null, numbers as JSON numbers and dates as
// ISO calendar dates.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		return json.Marshal(v.Text)
	case KindNumber:
		return []byte(v.Number.String()), nil
	case KindDate:
		return json.Marshal(v.Date.Format("2006-01-02"))
	}
	return []byte("null"), nil
}
