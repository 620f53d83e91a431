package controller

import (
	"errors"
	"strings"
	"time"
)

var errInvalidDate = errors.New("date must be YYYY-MM-DD or RFC 3339")

// parseDate accepts a calendar date or an RFC 3339 timestamp. Calendar dates
// are placed at midnight in loc, or at the last nanosecond of that day when
// endOfDay is set.
func parseDate(value string, loc *time.Location, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}

	day, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	if endOfDay {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return day, nil
}
