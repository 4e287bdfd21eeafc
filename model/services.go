package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ISpanMetricsService interface {
	TraceCountRelative(ctx context.Context, projectID uuid.UUID, interval GroupByInterval,
		pastHours int64) ([]MetricTimeValue[int64], error)
	TraceCountAbsolute(ctx context.Context, projectID uuid.UUID, interval GroupByInterval,
		start time.Time, end time.Time) ([]MetricTimeValue[int64], error)
	LatencyRelative(ctx context.Context, projectID uuid.UUID, interval GroupByInterval,
		aggregation Aggregation, pastHours int64) ([]MetricTimeValue[float64], error)
	LatencyAbsolute(ctx context.Context, projectID uuid.UUID, interval GroupByInterval,
		aggregation Aggregation, start time.Time, end time.Time) ([]MetricTimeValue[float64], error)
	TokenCountRelative(ctx context.Context, projectID uuid.UUID, interval GroupByInterval,
		aggregation Aggregation, pastHours int64) ([]MetricTimeValue[int64], error)
	TokenCountAbsolute(ctx context.Context, projectID uuid.UUID, interval GroupByInterval,
		aggregation Aggregation, start time.Time, end time.Time) ([]MetricTimeValue[int64], error)
	CostRelative(ctx context.Context, projectID uuid.UUID, interval GroupByInterval,
		aggregation Aggregation, pastHours int64) ([]MetricTimeValue[float64], error)
	CostAbsolute(ctx context.Context, projectID uuid.UUID, interval GroupByInterval,
		aggregation Aggregation, start time.Time, end time.Time) ([]MetricTimeValue[float64], error)
	TimeBounds(ctx context.Context, projectID uuid.UUID) (*TimeBounds, error)
}

type ServiceData struct {
	Session IDBRegistry
}

func (s *ServiceData) Ping() error {
	return s.Session.Ping()
}
