package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// DateOnly truncates t to midnight of its civil date, keeping the location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from "from" to "to".
// Positive when "to" is later. Each side is reduced to its own civil date
// first, so DST transitions and time of day never shift the result.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonthsPreservingDay adds n calendar months to t. When the target month is
// shorter than t's day-of-month the result is clamped to the target month's
// last day (Jan 31 + 1 month = Feb 28/29, never Mar 2/3).
func AddMonthsPreservingDay(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	year := y + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	target := time.Month(month + 1)
	if last := daysIn(year, target); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(year, target, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// AddOneMonthPreservingDay is AddMonthsPreservingDay(t, 1). It drives every
// customer's billing cycle.
func AddOneMonthPreservingDay(t time.Time) time.Time {
	return AddMonthsPreservingDay(t, 1)
}

// WholeMonthsBetween counts the complete calendar months elapsed from "from"
// to "to". A month is complete once "to" reaches the same day-of-month (or the
// clamped last day of a shorter month). Never negative.
func WholeMonthsBetween(from, to time.Time) int {
	from, to = DateOnly(from), DateOnly(to)
	if !to.After(from) {
		return 0
	}
	fy, fm, _ := from.Date()
	ty, tm, _ := to.Date()
	months := (ty-fy)*12 + int(tm-fm)
	if AddMonthsPreservingDay(from, months).After(to) {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// Initial returns the upper-cased first letter of s, or "X" when s has none.
func Initial(s string) string {
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsLetter(r) {
			return strings.ToUpper(string(r))
		}
	}
	return "X"
}

// PaymentCode renders the human readable payment code, e.g. PGJD-0001.
func PaymentCode(firstName, lastName string, sequence int) string {
	return fmt.Sprintf("PG%s%s-%04d", Initial(firstName), Initial(lastName), sequence)
}
