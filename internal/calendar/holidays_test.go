package calendar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHolidays(t *testing.T) {
	set := DefaultHolidays()

	assert.Equal(t, RecurrenceYearly, set.Recurrence())
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(date(1999, time.January, 1)))
	assert.True(t, set.Contains(date(2031, time.December, 25)))
	assert.False(t, set.Contains(date(2031, time.December, 24)))
}

func TestHolidaySet_ZeroValue(t *testing.T) {
	var set HolidaySet

	assert.False(t, set.Contains(date(2024, time.January, 1)))
	assert.Equal(t, RecurrenceYearly, set.Recurrence())
	assert.Empty(t, set.Holidays())
}

func TestNewHolidaySet_Rejects(t *testing.T) {
	_, err := NewHolidaySet("monthly")
	assert.Error(t, err)

	_, err = NewHolidaySet(RecurrenceFixed, Holiday{Month: time.May, Day: 1, Name: "no year"})
	assert.Error(t, err)

	_, err = NewHolidaySet(RecurrenceYearly, Holiday{Month: time.February, Day: 30})
	assert.Error(t, err)

	_, err = NewHolidaySet(RecurrenceFixed, Holiday{Year: 2023, Month: time.February, Day: 29})
	assert.Error(t, err)
}

func TestNewHolidaySet_YearlyAcceptsLeapDay(t *testing.T) {
	set, err := NewHolidaySet(RecurrenceYearly, Holiday{Year: 2023, Month: time.February, Day: 29})

	require.NoError(t, err)
	assert.True(t, set.Contains(date(2024, time.February, 29)))
	assert.Equal(t, "02-29", set.Holidays()[0].String())
}

func TestHolidaySet_HolidaysSorted(t *testing.T) {
	set, err := NewHolidaySet(RecurrenceFixed,
		Holiday{Year: 2025, Month: time.January, Day: 1},
		Holiday{Year: 2024, Month: time.December, Day: 25},
		Holiday{Year: 2024, Month: time.May, Day: 1},
	)
	require.NoError(t, err)

	got := set.Holidays()
	require.Len(t, got, 3)
	assert.Equal(t, "2024-05-01", got[0].String())
	assert.Equal(t, "2024-12-25", got[1].String())
	assert.Equal(t, "2025-01-01", got[2].String())
}

func TestParseHolidays(t *testing.T) {
	t.Run("yearly default", func(t *testing.T) {
		set, err := ParseHolidays([]byte(`
holidays:
  - date: "05-01"
    name: Labour Day
  - date: "12-26"
    name: Boxing Day
`))
		require.NoError(t, err)
		assert.Equal(t, RecurrenceYearly, set.Recurrence())
		assert.True(t, set.Contains(date(2030, time.May, 1)))
		assert.True(t, set.Contains(date(2030, time.December, 26)))
	})

	t.Run("fixed", func(t *testing.T) {
		set, err := ParseHolidays([]byte(`
recurrence: FIXED
holidays:
  - date: "2024-11-28"
    name: Thanksgiving
`))
		require.NoError(t, err)
		assert.Equal(t, RecurrenceFixed, set.Recurrence())
		assert.True(t, set.Contains(date(2024, time.November, 28)))
		assert.False(t, set.Contains(date(2025, time.November, 28)))
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := ParseHolidays([]byte(`
recurrence: fixed
holidays:
  - date: "11-28"
`))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := ParseHolidays([]byte("holidays: [unterminated"))
		assert.Error(t, err)
	})
}

func TestLoadHolidays(t *testing.T) {
	t.Run("empty path uses defaults", func(t *testing.T) {
		set, err := LoadHolidays("")
		require.NoError(t, err)
		assert.Equal(t, DefaultHolidays().Holidays(), set.Holidays())
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "holidays.yaml")
		require.NoError(t, os.WriteFile(path, []byte("holidays:\n  - date: \"07-04\"\n"), 0o600))

		set, err := LoadHolidays(path)
		require.NoError(t, err)
		assert.True(t, set.Contains(date(2024, time.July, 4)))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadHolidays(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
