// Package wbtime converts between the timestamp format of the WB feedbacks
// API and the instants the rest of the app compares and displays.
//
// The API reports times as UTC strings, but every date shown to operators
// (and every age comparison against "now") follows the Moscow convention
// the vendor uses in its own UI: a constant +3h shift. The shift must be
// applied on every path or relative ordering of reviews breaks.
package wbtime

import (
	"time"
)

const (
	apiLayout     = "2006-01-02T15:04:05Z"
	displayLayout = "2006-01-02 15:04"

	vendorOffset = 3 * time.Hour

	workdayStartHour = 9
	workdayEndHour   = 21
)

// Parse decodes an API timestamp and applies the vendor offset.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(apiLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(vendorOffset), nil
}

// ToVendor shifts a real instant into the vendor's displayed frame.
// Any comparison or display involving a parsed API timestamp must shift
// the other operand through here, or the two sides sit 3h apart.
func ToVendor(t time.Time) time.Time {
	return t.Add(vendorOffset)
}

// Format renders an instant the way messages display it.
func Format(t time.Time) string {
	return t.Format(displayLayout)
}

// FormatAPIDate re-renders an API timestamp for display. Malformed input
// is returned as-is; a broken date must not suppress the notification
// that carries it.
func FormatAPIDate(s string) string {
	t, err := Parse(s)
	if err != nil {
		return s
	}
	return Format(t)
}

// WithinWorkingHours reports whether the (already shifted) instant falls
// inside the 9:00-21:00 window. Used by the optional overdue-alert gate.
func WithinWorkingHours(t time.Time) bool {
	start := time.Date(t.Year(), t.Month(), t.Day(), workdayStartHour, 0, 0, 0, t.Location())
	end := time.Date(t.Year(), t.Month(), t.Day(), workdayEndHour, 0, 0, 0, t.Location())
	return !t.Before(start) && !t.After(end)
}
