package calendar

import (
	"fmt"
	"sort"
	"time"
)

// Recurrence decides how a holiday date is matched against a calendar day.
type Recurrence string

const (
	// RecurrenceYearly matches month and day in every year.
	RecurrenceYearly Recurrence = "yearly"
	// RecurrenceFixed matches the exact calendar date only.
	RecurrenceFixed Recurrence = "fixed"
)

// Holiday is a single non-business date. Year is zero for yearly holidays.
type Holiday struct {
	Year  int
	Month time.Month
	Day   int
	Name  string
}

func (h Holiday) String() string {
	if h.Year == 0 {
		return fmt.Sprintf("%02d-%02d", int(h.Month), h.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", h.Year, int(h.Month), h.Day)
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

// HolidaySet is an immutable set of holidays. The zero value contains no
// holidays and is safe for concurrent reads, as is any constructed set.
type HolidaySet struct {
	recurrence Recurrence
	days       map[dayKey]Holiday
}

// NewHolidaySet builds a set under the given recurrence rule. Yearly sets
// ignore Holiday.Year; fixed sets require it.
func NewHolidaySet(recurrence Recurrence, holidays ...Holiday) (HolidaySet, error) {
	switch recurrence {
	case RecurrenceYearly, RecurrenceFixed:
	default:
		return HolidaySet{}, fmt.Errorf("unknown holiday recurrence %q", recurrence)
	}

	days := make(map[dayKey]Holiday, len(holidays))
	for _, h := range holidays {
		if recurrence == RecurrenceYearly {
			h.Year = 0
		} else if h.Year <= 0 {
			return HolidaySet{}, fmt.Errorf("holiday %q: fixed recurrence requires a year", h.Name)
		}
		if !validDate(h) {
			return HolidaySet{}, fmt.Errorf("holiday %q: invalid date %s", h.Name, h)
		}
		days[dayKey{year: h.Year, month: h.Month, day: h.Day}] = h
	}

	return HolidaySet{recurrence: recurrence, days: days}, nil
}

// DefaultHolidays returns New Year's Day and Christmas Day, recurring yearly.
func DefaultHolidays() HolidaySet {
	set, _ := NewHolidaySet(RecurrenceYearly,
		Holiday{Month: time.January, Day: 1, Name: "New Year's Day"},
		Holiday{Month: time.December, Day: 25, Name: "Christmas Day"},
	)
	return set
}

// Contains reports whether the calendar date of t, in t's location, is a holiday.
func (s HolidaySet) Contains(t time.Time) bool {
	if len(s.days) == 0 {
		return false
	}
	year, month, day := t.Date()
	if s.recurrence == RecurrenceYearly {
		year = 0
	}
	_, ok := s.days[dayKey{year: year, month: month, day: day}]
	return ok
}

// Recurrence returns the matching rule of the set.
func (s HolidaySet) Recurrence() Recurrence {
	if s.recurrence == "" {
		return RecurrenceYearly
	}
	return s.recurrence
}

// Len returns the number of holidays in the set.
func (s HolidaySet) Len() int {
	return len(s.days)
}

// Holidays returns the holidays in calendar order.
func (s HolidaySet) Holidays() []Holiday {
	out := make([]Holiday, 0, len(s.days))
	for _, h := range s.days {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Day < out[j].Day
	})
	return out
}

func validDate(h Holiday) bool {
	year := h.Year
	if year == 0 {
		year = 2000 // leap year, so 02-29 is accepted for yearly holidays
	}
	t := time.Date(year, h.Month, h.Day, 0, 0, 0, 0, time.UTC)
	return t.Month() == h.Month && t.Day() == h.Day
}
