package services

import (
	"time"

	"github.com/terraincognita07/worktrace/internal/models"
)

// Interval is a half-open wall-clock span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (interval Interval) Overlaps(other Interval) bool {
	return interval.Start.Before(other.End) && other.Start.Before(interval.End)
}

type OverlapPolicy struct {
	Allow bool
}

// EntryInterval places an entry on the timeline. Clock entries whose end is
// not after the start cross midnight. Duration-only entries start at 00:00.
// The second result is false when the entry has neither representation.
func EntryInterval(entry models.TimeEntry) (Interval, bool) {
	day := CalendarDate(entry.Date)
	if entry.HasClockTimes() {
		startOffset, okStart := clockOffset(*entry.Start)
		endOffset, okEnd := clockOffset(*entry.End)
		if okStart && okEnd {
			start := day.Add(startOffset)
			end := day.Add(endOffset)
			if !end.After(start) {
				end = end.AddDate(0, 0, 1)
			}
			return Interval{Start: start, End: end}, true
		}
	}
	if entry.DurationMinutes > 0 {
		return Interval{Start: day, End: day.Add(time.Duration(entry.DurationMinutes) * time.Minute)}, true
	}
	return Interval{}, false
}

// CandidateDates lists the calendar days an overlap scan has to look at: the
// day before (for entries crossing midnight into this one), the entry date and
// every day the interval spills into.
func CandidateDates(entry models.TimeEntry) []time.Time {
	day := CalendarDate(entry.Date)
	dates := []time.Time{day.AddDate(0, 0, -1), day}
	interval, ok := EntryInterval(entry)
	if !ok {
		return dates
	}
	last := CalendarDate(interval.End.Add(-time.Nanosecond))
	for cursor := day.AddDate(0, 0, 1); !cursor.After(last); cursor = cursor.AddDate(0, 0, 1) {
		dates = append(dates, cursor)
	}
	return dates
}

// ScanWindow returns the [from, to) date range covering CandidateDates.
func ScanWindow(entry models.TimeEntry) (time.Time, time.Time) {
	dates := CandidateDates(entry)
	return dates[0], dates[len(dates)-1].AddDate(0, 0, 1)
}

// CheckNoOverlap rejects candidate when it intersects an existing entry of the
// same user. Existing entries that cannot be placed on the timeline conflict
// whenever they sit on one of the candidate's own dates.
func CheckNoOverlap(candidate models.TimeEntry, existing []models.TimeEntry, policy OverlapPolicy) error {
	if policy.Allow {
		return nil
	}
	candidateInterval, ok := EntryInterval(candidate)
	if !ok {
		return fieldError("duration_minutes", "entry needs start and end times or a positive duration")
	}

	ownDates := make(map[time.Time]struct{})
	for _, day := range CandidateDates(candidate)[1:] {
		ownDates[day] = struct{}{}
	}

	for _, other := range existing {
		if other.UserID != candidate.UserID {
			continue
		}
		if candidate.ID != 0 && other.ID == candidate.ID {
			continue
		}
		otherInterval, ok := EntryInterval(other)
		if !ok {
			if _, onOwnDate := ownDates[CalendarDate(other.Date)]; onOwnDate {
				return conflictError("time entry overlaps an existing entry that has no usable interval")
			}
			continue
		}
		if candidateInterval.Overlaps(otherInterval) {
			return conflictError("time entry overlaps an existing entry")
		}
	}
	return nil
}

// NormalizeEntryTimes enforces the clock/duration invariant. With
// deriveDuration set, duration_minutes is recomputed from the clock times,
// rounding partial minutes up; otherwise the stored duration is kept, which
// preserves the paused-time accounting of entries produced by a timer.
func NormalizeEntryTimes(entry *models.TimeEntry, deriveDuration bool) error {
	entry.Date = CalendarDate(entry.Date)
	hasStart := entry.Start != nil && *entry.Start != ""
	hasEnd := entry.End != nil && *entry.End != ""

	switch {
	case hasStart && hasEnd:
		start, err := NormalizeClock(*entry.Start)
		if err != nil {
			return fieldError("start", "enter a valid time (HH:MM)")
		}
		end, err := NormalizeClock(*entry.End)
		if err != nil {
			return fieldError("end", "enter a valid time (HH:MM)")
		}
		if start == end {
			return fieldError("end", "end must differ from start")
		}
		entry.Start = &start
		entry.End = &end
		if deriveDuration {
			interval, _ := EntryInterval(*entry)
			entry.DurationMinutes = int((interval.End.Sub(interval.Start) + time.Minute - 1) / time.Minute)
		}
		if entry.DurationMinutes <= 0 {
			return fieldError("end", "entry must last at least one minute")
		}
	case hasStart || hasEnd:
		return fieldError("end", "start and end must be provided together")
	default:
		entry.Start = nil
		entry.End = nil
		if entry.DurationMinutes <= 0 {
			return fieldError("duration_minutes", "duration must be positive when no start and end are given")
		}
	}
	return nil
}
