package calendar

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	yearlyDateLayout = "01-02"
	fixedDateLayout  = "2006-01-02"
)

// holidayFile is the YAML layout of a holiday calendar:
//
//	recurrence: yearly
//	holidays:
//	  - date: "01-01"
//	    name: New Year's Day
type holidayFile struct {
	Recurrence Recurrence     `yaml:"recurrence"`
	Holidays   []holidayEntry `yaml:"holidays"`
}

type holidayEntry struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

// LoadHolidays reads a holiday calendar from path. An empty path yields DefaultHolidays.
func LoadHolidays(path string) (HolidaySet, error) {
	if path == "" {
		return DefaultHolidays(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return HolidaySet{}, fmt.Errorf("reading holiday calendar: %w", err)
	}

	set, err := ParseHolidays(data)
	if err != nil {
		return HolidaySet{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return set, nil
}

// ParseHolidays decodes a YAML holiday calendar. Recurrence defaults to yearly.
func ParseHolidays(data []byte) (HolidaySet, error) {
	var file holidayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return HolidaySet{}, err
	}

	recurrence := Recurrence(strings.ToLower(strings.TrimSpace(string(file.Recurrence))))
	if recurrence == "" {
		recurrence = RecurrenceYearly
	}

	layout := yearlyDateLayout
	if recurrence == RecurrenceFixed {
		layout = fixedDateLayout
	}

	holidays := make([]Holiday, 0, len(file.Holidays))
	for _, entry := range file.Holidays {
		d, err := time.Parse(layout, strings.TrimSpace(entry.Date))
		if err != nil {
			return HolidaySet{}, fmt.Errorf("holiday %q: date %q does not match %s", entry.Name, entry.Date, layout)
		}
		h := Holiday{Month: d.Month(), Day: d.Day(), Name: entry.Name}
		if recurrence == RecurrenceFixed {
			h.Year = d.Year()
		}
		holidays = append(holidays, h)
	}

	return NewHolidaySet(recurrence, holidays...)
}
