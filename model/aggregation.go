package model

import (
	"github.com/pkg/errors"
)

// Aggregation reduces the per-trace values inside one time bucket.
type Aggregation string

const (
	AggregationSum           Aggregation = "sum"
	AggregationAvg           Aggregation = "avg"
	AggregationMin           Aggregation = "min"
	AggregationMax           Aggregation = "max"
	AggregationCountDistinct Aggregation = "count_distinct"
	AggregationP50           Aggregation = "p50"
	AggregationP90           Aggregation = "p90"
	AggregationP95           Aggregation = "p95"
	AggregationP99           Aggregation = "p99"
)

func ParseAggregation(raw string) (Aggregation, error) {
	switch a := Aggregation(raw); a {
	case AggregationSum, AggregationAvg, AggregationMin, AggregationMax,
		AggregationCountDistinct,
		AggregationP50, AggregationP90, AggregationP95, AggregationP99:
		return a, nil
	}
	return "", errors.Errorf("unsupported aggregation: %s", raw)
}

// Apply renders the reducer over a value column.
func (a Aggregation) Apply(column string) string {
	switch a {
	case AggregationAvg:
		return "AVG(" + column + ")"
	case AggregationMin:
		return "MIN(" + column + ")"
	case AggregationMax:
		return "MAX(" + column + ")"
	case AggregationCountDistinct:
		return "COUNT(DISTINCT " + column + ")"
	case AggregationP50:
		return "quantile(0.50)(" + column + ")"
	case AggregationP90:
		return "quantile(0.90)(" + column + ")"
	case AggregationP95:
		return "quantile(0.95)(" + column + ")"
	case AggregationP99:
		return "quantile(0.99)(" + column + ")"
	default:
		return "SUM(" + column + ")"
	}
}
