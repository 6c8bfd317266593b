package calendar

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 14, 30, 0, 0, time.UTC)
}

func mustHolidays(t *testing.T, r Recurrence, holidays ...Holiday) HolidaySet {
	t.Helper()
	set, err := NewHolidaySet(r, holidays...)
	require.NoError(t, err)
	return set
}

func TestComputeCutoff_ZeroDaysReturnsReference(t *testing.T) {
	ref := date(2024, time.March, 18)

	got, err := ComputeCutoff(ref, 0, DefaultHolidays())

	require.NoError(t, err)
	assert.True(t, got.Equal(ref))
}

func TestComputeCutoff_NegativeDays(t *testing.T) {
	_, err := ComputeCutoff(date(2024, time.March, 18), -1, HolidaySet{})

	assert.ErrorIs(t, err, ErrNegativeBusinessDays)
}

func TestComputeCutoff_SkipsWeekendAndHoliday(t *testing.T) {
	monday := date(2024, time.March, 18)
	holidays := mustHolidays(t, RecurrenceFixed, Holiday{Year: 2024, Month: time.March, Day: 15, Name: "bridge day"})

	tests := []struct {
		name string
		days int
		want time.Time
	}{
		{name: "one day lands on thursday", days: 1, want: date(2024, time.March, 14)},
		{name: "two days lands on wednesday", days: 2, want: date(2024, time.March, 13)},
		{name: "three days lands on tuesday", days: 3, want: date(2024, time.March, 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeCutoff(monday, tt.days, holidays)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeCutoff_WeekendOnly(t *testing.T) {
	monday := date(2024, time.March, 18)

	got, err := ComputeCutoff(monday, 1, HolidaySet{})
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 15), got)

	got, err = ComputeCutoff(monday, 5, HolidaySet{})
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.March, 11), got)
}

func TestComputeCutoff_HolidayOnWeekendCountsOnce(t *testing.T) {
	// 2022-12-25 is a Sunday
	tuesday := date(2022, time.December, 27)

	withHoliday, err := ComputeCutoff(tuesday, 2, DefaultHolidays())
	require.NoError(t, err)
	weekendOnly, err := ComputeCutoff(tuesday, 2, HolidaySet{})
	require.NoError(t, err)

	assert.Equal(t, date(2022, time.December, 23), withHoliday)
	assert.Equal(t, weekendOnly, withHoliday)
}

func TestComputeCutoff_YearRollover(t *testing.T) {
	// 2024-01-01 is a Monday; the walk crosses into 2023
	ref := date(2024, time.January, 2)

	got, err := ComputeCutoff(ref, 1, DefaultHolidays())
	require.NoError(t, err)
	assert.Equal(t, date(2023, time.December, 29), got)

	// Christmas of the previous year is recognised under yearly recurrence
	got, err = ComputeCutoff(date(2023, time.December, 27), 2, DefaultHolidays())
	require.NoError(t, err)
	assert.Equal(t, date(2023, time.December, 22), got)
}

func TestComputeCutoff_FixedRecurrenceIgnoresOtherYears(t *testing.T) {
	only2024 := mustHolidays(t, RecurrenceFixed, Holiday{Year: 2024, Month: time.December, Day: 25, Name: "Christmas Day"})

	got, err := ComputeCutoff(date(2023, time.December, 27), 2, only2024)

	require.NoError(t, err)
	assert.Equal(t, date(2023, time.December, 25), got)
}

func TestComputeCutoff_PreservesLocationAndTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC Monday is still Sunday evening at UTC-5
	ref := time.Date(2024, time.March, 18, 2, 0, 0, 0, time.UTC).In(loc)

	got, err := ComputeCutoff(ref, 1, HolidaySet{})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 15, 21, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestComputeCutoff_AcrossDSTGap(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// 2024-03-10 02:30 does not exist in New York; the walk passes over it
	ref := time.Date(2024, time.March, 12, 2, 30, 0, 0, ny)

	got, err := ComputeCutoff(ref, 3, HolidaySet{})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 7, 2, 30, 0, 0, ny), got)
	assert.Equal(t, 2, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestComputeCutoff_AcrossDSTFallBack(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	ref := time.Date(2024, time.November, 5, 9, 0, 0, 0, ny)

	got, err := ComputeCutoff(ref, 2, HolidaySet{})

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.November, 1, 9, 0, 0, 0, ny), got)
}

func TestComputeCutoff_LargeCount(t *testing.T) {
	ref := date(2024, time.March, 18)

	got, err := ComputeCutoff(ref, 260, HolidaySet{})

	require.NoError(t, err)
	assert.Equal(t, ref.AddDate(0, 0, -364), got)
}

func TestComputeCutoff_CountsExactlyNBusinessDays(t *testing.T) {
	holidays := mustHolidays(t, RecurrenceYearly,
		Holiday{Month: time.January, Day: 1},
		Holiday{Month: time.July, Day: 4},
		Holiday{Month: time.December, Day: 25},
		Holiday{Month: time.December, Day: 26},
	)
	start := date(2023, time.December, 20)

	for offset := 0; offset < 21; offset++ {
		now := start.AddDate(0, 0, offset)
		for n := 0; n <= 15; n++ {
			cutoff, err := ComputeCutoff(now, n, holidays)
			require.NoError(t, err)
			require.False(t, cutoff.After(now))

			counted := 0
			for d := cutoff; d.Before(now); d = d.AddDate(0, 0, 1) {
				if IsBusinessDay(d, holidays) {
					counted++
				}
			}
			assert.Equal(t, n, counted, "now=%s n=%d cutoff=%s", now.Format(time.DateOnly), n, cutoff.Format(time.DateOnly))
		}
	}
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend(date(2024, time.March, 16)))
	assert.True(t, IsWeekend(date(2024, time.March, 17)))
	assert.False(t, IsWeekend(date(2024, time.March, 18)))
	assert.False(t, IsWeekend(date(2024, time.March, 15)))
}
