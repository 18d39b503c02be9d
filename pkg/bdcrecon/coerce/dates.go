package coerce

import (
	"regexp"
	"strings"
	"time"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
)

// dayFirstLayouts are tried in order; day comes before month for every
// slash, dash or dot separated form.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2-1-2006",
	"2-1-2006 15:04",
	"2-1-2006 15:04:05",
	"2.1.2006",
	"2.1.2006 15:04",
	"2.1.2006 15:04:05",
	"2006-1-2",
	"2006-1-2 15:04",
	"2006-1-2 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/1/2",
	"2006/1/2 15:04:05",
	"2/1/06",
	"2-1-06",
	"2.1.06",
}

// dateTimeTextRe matches text such as "01/03/2024 14:30" whose time part must
// be stripped before writing.
var dateTimeTextRe = regexp.MustCompile(`^\s*(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\s+\d{1,2}:\d{2}(:\d{2})?\s*$`)

// ParseDate parses s with day-before-month precedence and returns the
// calendar date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// DateOnly reduces v to a date-only value. Dates pass through, text is parsed
// day first. When v cannot be reduced it is returned unchanged with ok=false
// and the caller applies its own fallback.
func DateOnly(v models.Value) (models.Value, bool) {
	switch v.Kind {
	case models.KindDate:
		return v, true
	case models.KindText:
		if t, ok := ParseDate(v.Text); ok {
			return models.Date(t), true
		}
	}
	return v, false
}

// DateText formats v as DD/MM/YYYY, or returns it stringified and trimmed when
// it is not a date.
func DateText(v models.Value) string {
	if d, ok := DateOnly(v); ok {
		return d.Date.Format(models.DateLayout)
	}
	return v.Trimmed()
}

// IsDateTimeText reports whether s is a day-first date followed by a time of
// day.
func IsDateTimeText(s string) bool {
	return dateTimeTextRe.MatchString(s)
}
