package services

import (
	"errors"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04:05"
	clockLayoutHHMM = "15:04"
)

var ErrInvalidClock = errors.New("invalid clock time")

// CalendarDate keeps the wall-clock date of value and drops everything else.
// Dates are stored as UTC midnight so range queries compare consistently.
func CalendarDate(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func LocalDate(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return CalendarDate(value.In(location))
}

func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, err
	}
	return CalendarDate(parsed), nil
}

// NormalizeClock accepts HH:MM or HH:MM:SS and returns HH:MM:SS.
func NormalizeClock(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range []string{ClockLayout, clockLayoutHHMM} {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.Format(ClockLayout), nil
		}
	}
	return "", ErrInvalidClock
}

func clockOffset(clock string) (time.Duration, bool) {
	normalized, err := NormalizeClock(clock)
	if err != nil {
		return 0, false
	}
	parsed, _ := time.Parse(ClockLayout, normalized)
	return time.Duration(parsed.Hour())*time.Hour +
		time.Duration(parsed.Minute())*time.Minute +
		time.Duration(parsed.Second())*time.Second, true
}
