package services

import (
	"strings"
	"time"
)

// ParseDateRange reads optional inclusive from/to dates from query input.
func ParseDateRange(rawFrom string, rawTo string) (*time.Time, *time.Time, error) {
	var from *time.Time
	if fromRaw := strings.TrimSpace(rawFrom); fromRaw != "" {
		parsed, err := ParseDate(fromRaw)
		if err != nil {
			return nil, nil, fieldError("from", "enter a valid date (YYYY-MM-DD)")
		}
		from = &parsed
	}

	var to *time.Time
	if toRaw := strings.TrimSpace(rawTo); toRaw != "" {
		parsed, err := ParseDate(toRaw)
		if err != nil {
			return nil, nil, fieldError("to", "enter a valid date (YYYY-MM-DD)")
		}
		to = &parsed
	}

	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fieldError("to", "to must not be before from")
	}
	return from, to, nil
}
