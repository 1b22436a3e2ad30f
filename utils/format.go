package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatDate renders a date for people, e.g. "4 May 2026".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(time.Local).Format("2 January 2006")
}

// FormatDatePtr is FormatDate for optional dates.
func FormatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// FormatAmount renders money with thousands separators and two decimals.
func FormatAmount(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatNullAmount returns "-" for a missing amount.
func FormatNullAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return FormatAmount(d.Decimal)
}
