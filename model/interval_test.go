package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseGroupByInterval(t *testing.T) {
	for _, raw := range []string{"minute", "hour", "day", "week"} {
		g, err := ParseGroupByInterval(raw)
		assert.NoError(t, err)
		assert.Equal(t, GroupByInterval(raw), g)
	}
	for _, raw := range []string{"", "second", "month", "Minute", "1h"} {
		_, err := ParseGroupByInterval(raw)
		assert.Error(t, err)
	}
}

func TestGroupByIntervalRendering(t *testing.T) {
	assert.Equal(t, "toStartOfMinute", GroupByIntervalMinute.CHTruncateFunc())
	assert.Equal(t, "toStartOfHour", GroupByIntervalHour.CHTruncateFunc())
	assert.Equal(t, "toStartOfDay", GroupByIntervalDay.CHTruncateFunc())
	assert.Equal(t, "toStartOfWeek", GroupByIntervalWeek.CHTruncateFunc())

	assert.Equal(t, "1 MINUTE", GroupByIntervalMinute.CHOffsetInterval())
	assert.Equal(t, "1 HOUR", GroupByIntervalHour.CHOffsetInterval())
	assert.Equal(t, "1 DAY", GroupByIntervalDay.CHOffsetInterval())
	assert.Equal(t, "1 WEEK", GroupByIntervalWeek.CHOffsetInterval())

	assert.Equal(t, "INTERVAL 1 MINUTE", GroupByIntervalMinute.CHStep())
	assert.Equal(t, "INTERVAL 1 WEEK", GroupByIntervalWeek.CHStep())
}

func TestGroupByIntervalStep(t *testing.T) {
	assert.Equal(t, time.Minute, GroupByIntervalMinute.Step())
	assert.Equal(t, time.Hour, GroupByIntervalHour.Step())
	assert.Equal(t, 24*time.Hour, GroupByIntervalDay.Step())
	assert.Equal(t, 7*24*time.Hour, GroupByIntervalWeek.Step())
}

func TestGroupByIntervalTruncate(t *testing.T) {
	ts := time.Date(2024, 5, 15, 13, 37, 42, 123456789, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 15, 13, 37, 0, 0, time.UTC), GroupByIntervalMinute.Truncate(ts))
	assert.Equal(t, time.Date(2024, 5, 15, 13, 0, 0, 0, time.UTC), GroupByIntervalHour.Truncate(ts))
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), GroupByIntervalDay.Truncate(ts))
	// 2024-05-15 is a Wednesday, its week begins on Sunday the 12th
	assert.Equal(t, time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), GroupByIntervalWeek.Truncate(ts))
}

func TestTruncateWeekOnSunday(t *testing.T) {
	sunday := time.Date(2024, 5, 12, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), GroupByIntervalWeek.Truncate(sunday))
}

func TestTruncateNormalizesZone(t *testing.T) {
	zone := time.FixedZone("UTC+3", 3*60*60)
	// 02:30 at UTC+3 is still the previous day in UTC
	ts := time.Date(2024, 5, 15, 2, 30, 0, 0, zone)
	assert.Equal(t, time.Date(2024, 5, 14, 0, 0, 0, 0, time.UTC), GroupByIntervalDay.Truncate(ts))
}

func TestTruncateIdempotent(t *testing.T) {
	ts := time.Date(2024, 5, 15, 13, 37, 42, 123456789, time.UTC)
	intervals := []GroupByInterval{
		GroupByIntervalMinute, GroupByIntervalHour, GroupByIntervalDay, GroupByIntervalWeek,
	}
	for _, g := range intervals {
		once := g.Truncate(ts)
		assert.Equal(t, once, g.Truncate(once))
		// a bucket start shifted by one step is still a bucket start
		assert.Equal(t, once.Add(g.Step()), g.Truncate(once.Add(g.Step())))
	}
}
