package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	// Wednesday, June 10 2026.
	return time.Date(2026, 6, 10, hour, minute, 0, 0, time.UTC)
}

func TestNextRunDailySameDay(t *testing.T) {
	// 09:30 daily, asked at 09:00: fires later today.
	next := NextRun("30 9 * * *", time.UTC, at(9, 0))
	assert.Equal(t, at(9, 30), next)
}

func TestNextRunDailyNextDay(t *testing.T) {
	// 09:30 daily, asked at 10:00: fires tomorrow.
	next := NextRun("30 9 * * *", time.UTC, at(10, 0))
	assert.Equal(t, at(9, 30).AddDate(0, 0, 1), next)
}

func TestNextRunDailyExactBoundary(t *testing.T) {
	// Asked exactly at the firing minute: candidate is not after now,
	// so it advances a day.
	next := NextRun("30 9 * * *", time.UTC, at(9, 30))
	assert.Equal(t, at(9, 30).AddDate(0, 0, 1), next)
}

func TestNextRunHourly(t *testing.T) {
	// Minute 15 of every hour, asked at 10:20: fires at 11:15.
	next := NextRun("15 * * * *", time.UTC, at(10, 20))
	assert.Equal(t, at(11, 15), next)
}

func TestNextRunHourlyUpcomingMinute(t *testing.T) {
	next := NextRun("15 * * * *", time.UTC, at(10, 10))
	assert.Equal(t, at(10, 15), next)
}

func TestNextRunWeekly(t *testing.T) {
	// Constrained day-of-week advances by a week when past.
	next := NextRun("0 8 * * 1", time.UTC, at(9, 0))
	assert.Equal(t, at(8, 0).AddDate(0, 0, 7), next)
}

func TestNextRunMonthly(t *testing.T) {
	// Constrained day-of-month advances by a month when past.
	next := NextRun("0 8 15 * *", time.UTC, at(9, 0))
	assert.Equal(t, at(8, 0).AddDate(0, 1, 0), next)
}

func TestNextRunSecondsZeroed(t *testing.T) {
	now := time.Date(2026, 6, 10, 9, 0, 42, 999, time.UTC)
	next := NextRun("30 9 * * *", time.UTC, now)
	assert.Zero(t, next.Second())
	assert.Zero(t, next.Nanosecond())
}

func TestNextRunMalformedExpression(t *testing.T) {
	now := at(9, 0)
	for _, expr := range []string{"", "30 9", "30 9 * * * *", "not a cron"} {
		next := NextRun(expr, time.UTC, now)
		assert.Equal(t, now.Add(time.Hour), next, "expr %q", expr)
	}
}

func TestNextRunUnparseableFieldTreatedAsWildcard(t *testing.T) {
	// A junk minute field keeps the current minute, like "*".
	next := NextRun("x 9 * * *", time.UTC, at(8, 45))
	assert.Equal(t, at(9, 45), next)
}

func TestNextRunHonorsTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	// 09:30 local is 07:30 UTC; asked at 07:00 UTC it fires the same day.
	now := time.Date(2026, 6, 10, 7, 0, 0, 0, time.UTC)
	next := NextRun("30 9 * * *", loc, now)
	assert.Equal(t, time.Date(2026, 6, 10, 9, 30, 0, 0, loc).UTC(), next.UTC())
}
