// Package listing holds the filter primitives shared by the order and
// transaction lists: search matching, date windows and order-preserving
// selection.
package listing

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the form date format, e.g. 2023-11-15.
const DateLayout = "2006-01-02"

// All is the "no filter" value for every select-style filter.
const All = "all"

type DateRange string

const (
	DateAll   DateRange = All
	DateToday DateRange = "today"
	DateWeek  DateRange = "week"
	DateMonth DateRange = "month"
)

func ParseDateRange(s string) (DateRange, error) {
	switch r := DateRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "", DateAll:
		return DateAll, nil
	case DateToday, DateWeek, DateMonth:
		return r, nil
	default:
		return "", fmt.Errorf("unknown date filter %q", s)
	}
}

// Match reports whether date (YYYY-MM-DD) falls into the range relative to now.
// today is the same calendar day, week the trailing seven days including today,
// month the same calendar month and year. Dates that do not parse only match All.
func (r DateRange) Match(date string, now time.Time) bool {
	if r == "" || r == DateAll {
		return true
	}
	d, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return false
	}
	y, m, day := now.Date()
	today := time.Date(y, m, day, 0, 0, 0, 0, now.Location())
	switch r {
	case DateToday:
		return d.Equal(today)
	case DateWeek:
		return !d.Before(today.AddDate(0, 0, -6))
	case DateMonth:
		return d.Year() == y && d.Month() == m
	}
	return false
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Today formats now as a form date.
func Today(now time.Time) string { return now.Format(DateLayout) }

// ContainsFold is a case-insensitive substring match; an empty term matches.
func ContainsFold(s, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}

// Equal matches want exactly unless it is empty or All.
func Equal(got, want string) bool {
	return want == "" || want == All || got == want
}

// Select returns the items kept by keep in their original relative order. The
// input slice is never modified.
func Select[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
