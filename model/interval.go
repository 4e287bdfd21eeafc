package model

import (
	"time"

	"github.com/pkg/errors"
)

// GroupByInterval is the bucket granularity of a metric series.
type GroupByInterval string

const (
	GroupByIntervalMinute GroupByInterval = "minute"
	GroupByIntervalHour   GroupByInterval = "hour"
	GroupByIntervalDay    GroupByInterval = "day"
	GroupByIntervalWeek   GroupByInterval = "week"
)

func ParseGroupByInterval(raw string) (GroupByInterval, error) {
	switch g := GroupByInterval(raw); g {
	case GroupByIntervalMinute, GroupByIntervalHour, GroupByIntervalDay, GroupByIntervalWeek:
		return g, nil
	}
	return "", errors.Errorf("unsupported groupByInterval: %s", raw)
}

// CHTruncateFunc is the ClickHouse function flooring a timestamp to the bucket start.
func (g GroupByInterval) CHTruncateFunc() string {
	switch g {
	case GroupByIntervalHour:
		return "toStartOfHour"
	case GroupByIntervalDay:
		return "toStartOfDay"
	case GroupByIntervalWeek:
		return "toStartOfWeek"
	default:
		return "toStartOfMinute"
	}
}

// CHOffsetInterval is one bucket worth of INTERVAL arguments, e.g. "1 HOUR".
func (g GroupByInterval) CHOffsetInterval() string {
	switch g {
	case GroupByIntervalHour:
		return "1 HOUR"
	case GroupByIntervalDay:
		return "1 DAY"
	case GroupByIntervalWeek:
		return "1 WEEK"
	default:
		return "1 MINUTE"
	}
}

// CHStep is the WITH FILL step expression.
func (g GroupByInterval) CHStep() string {
	return "INTERVAL " + g.CHOffsetInterval()
}

func (g GroupByInterval) Step() time.Duration {
	switch g {
	case GroupByIntervalHour:
		return time.Hour
	case GroupByIntervalDay:
		return 24 * time.Hour
	case GroupByIntervalWeek:
		return 7 * 24 * time.Hour
	default:
		return time.Minute
	}
}

// Truncate floors t to the bucket start in UTC, matching the store-side
// truncation functions. Weeks start on Sunday, as toStartOfWeek does.
func (g GroupByInterval) Truncate(t time.Time) time.Time {
	t = t.UTC()
	switch g {
	case GroupByIntervalHour:
		return t.Truncate(time.Hour)
	case GroupByIntervalDay:
		return t.Truncate(24 * time.Hour)
	case GroupByIntervalWeek:
		day := t.Truncate(24 * time.Hour)
		return day.AddDate(0, 0, -int(day.Weekday()))
	default:
		return t.Truncate(time.Minute)
	}
}
