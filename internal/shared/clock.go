package shared

import (
	"fmt"
	"time"
)

// SyncTimezone is the fixed timezone used for the "created today" window.
//
// Contact creation timestamps are filtered against the start of the current
// calendar day in this zone, regardless of where the process runs.
const SyncTimezone = "Australia/Sydney"

// Location loads the fixed sync timezone.
func Location() (*time.Location, error) {
	loc, err := time.LoadLocation(SyncTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", SyncTimezone, err)
	}
	return loc, nil
}

// StartOfDay truncates t to midnight in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfToday returns the start of the current calendar day in the fixed
// sync timezone, expressed as a UTC instant.
func StartOfToday(now time.Time) (time.Time, error) {
	loc, err := Location()
	if err != nil {
		return time.Time{}, err
	}
	return StartOfDay(now.In(loc)).UTC(), nil
}
