// Package calendar computes business-day cutoffs over weekends and holidays.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrNegativeBusinessDays is returned when a negative day count reaches the calculator.
var ErrNegativeBusinessDays = errors.New("business days must be non-negative")

// IsWeekend reports whether t falls on a Saturday or Sunday in its own location.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsBusinessDay reports whether t is neither a weekend nor a holiday.
func IsBusinessDay(t time.Time, holidays HolidaySet) bool {
	return !IsWeekend(t) && !holidays.Contains(t)
}

// ComputeCutoff walks back from reference one calendar day at a time and
// returns the instant reached once businessDays business days were stepped
// onto. Time of day is preserved unless the landing day has no such wall
// clock time (DST gap); dates are evaluated in reference's location.
//
// A zero count returns reference unchanged. Negative counts are rejected even
// though callers are expected to validate first.
func ComputeCutoff(reference time.Time, businessDays int, holidays HolidaySet) (time.Time, error) {
	if businessDays < 0 {
		return time.Time{}, fmt.Errorf("%w: got %d", ErrNegativeBusinessDays, businessDays)
	}

	// Candidates derive from reference; chained AddDate drifts after a DST gap.
	cutoff := reference
	for counted, back := 0, 0; counted < businessDays; {
		back++
		cutoff = reference.AddDate(0, 0, -back)
		if IsBusinessDay(cutoff, holidays) {
			counted++
		}
	}
	return cutoff, nil
}
