package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/dialsync/internal/shared"
)

// Frequency controls when a scheduled trigger is allowed to run.
type Frequency string

const (
	FrequencyManual  Frequency = "manual"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// ParseFrequency parses a configured frequency value, case-insensitively.
func ParseFrequency(value string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(value))) {
	case FrequencyManual:
		return FrequencyManual, nil
	case FrequencyDaily:
		return FrequencyDaily, nil
	case FrequencyWeekly:
		return FrequencyWeekly, nil
	case FrequencyMonthly:
		return FrequencyMonthly, nil
	default:
		return "", fmt.Errorf("%w: unknown frequency %q", shared.ErrInvalidConfig, value)
	}
}

// ShouldRun reports whether a scheduled trigger at now qualifies under the
// configured frequency. The calendar checks use the fixed sync timezone, not
// the host's local time.
//
//   - manual: always runs (the operator asked for it)
//   - daily: always runs
//   - weekly: runs on Mondays
//   - monthly: runs on the first day of the month
//
// An unrecognized frequency never runs.
func ShouldRun(frequency Frequency, now time.Time) (bool, error) {
	loc, err := shared.Location()
	if err != nil {
		return false, err
	}
	local := now.In(loc)

	switch frequency {
	case FrequencyManual, FrequencyDaily:
		return true, nil
	case FrequencyWeekly:
		return local.Weekday() == time.Monday, nil
	case FrequencyMonthly:
		return local.Day() == 1, nil
	default:
		return false, nil
	}
}
