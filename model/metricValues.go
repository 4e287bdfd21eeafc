package model

import "time"

// MetricTimeValue is one point of a gap-filled metric series. Buckets the
// store filled carry the zero value.
type MetricTimeValue[V int64 | float64] struct {
	Time  time.Time
	Value V
}

// TimeBounds holds the first and last observed span start instants of a
// project. A project without spans has no bounds at all, the service
// returns nil instead.
type TimeBounds struct {
	MinTime time.Time
	MaxTime time.Time
}
