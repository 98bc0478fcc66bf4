package scheduler

import (
	"strconv"
	"strings"
	"time"
)

// fallbackInterval applies when a cron expression cannot be interpreted.
const fallbackInterval = time.Hour

// NextRun computes the next firing after now for a five-field cron
// expression (minute hour day-of-month month day-of-week). Only concrete
// minute and hour values are honored; the remaining fields select the
// advance interval when the candidate is in the past:
//
//	wildcard hour          -> next hour
//	constrained weekday    -> next week
//	constrained month day  -> next month
//	otherwise              -> next day
//
// Malformed expressions fall back to one hour from now.
func NextRun(expr string, loc *time.Location, now time.Time) time.Time {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return now.Add(fallbackInterval)
	}
	minuteField, hourField, domField, _, dowField := fields[0], fields[1], fields[2], fields[3], fields[4]

	local := now.In(loc)
	minute := fieldValue(minuteField, local.Minute())
	hour := fieldValue(hourField, local.Hour())

	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if next.After(now) {
		return next
	}

	switch {
	case hourField == "*":
		return next.Add(time.Hour)
	case dowField != "*":
		return next.AddDate(0, 0, 7)
	case domField != "*":
		return next.AddDate(0, 1, 0)
	default:
		return next.AddDate(0, 0, 1)
	}
}

// fieldValue parses a concrete cron field. Wildcards and anything
// unparseable keep the current value.
func fieldValue(field string, current int) int {
	if field == "*" {
		return current
	}
	v, err := strconv.Atoi(field)
	if err != nil {
		return current
	}
	return v
}
