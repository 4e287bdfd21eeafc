package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/M-A-D-A-R-A/lmnr/model"
	custom_errors "github.com/M-A-D-A-R-A/lmnr/utils/errors"
)

const (
	traceCountReducer = "COUNT(DISTINCT(trace_id))"
	latencyScalar     = "toUnixTimestamp64Nano(MAX(end_time)) - toUnixTimestamp64Nano(MIN(start_time))"
	tokenScalar       = "SUM(total_tokens)"
	costScalar        = "SUM(total_cost)"
)

// SpanMetricsService builds per-trace aggregates over the spans table and
// reduces them into gap-filled, time-bucketed series. Every query derives a
// trace from its spans inside ClickHouse; a trace belongs to the bucket of
// its earliest span start.
type SpanMetricsService struct {
	model.ServiceData
}

func NewSpanMetricsService(data model.ServiceData) model.ISpanMetricsService {
	return &SpanMetricsService{ServiceData: data}
}

// seriesWindow is a rendered pair of row filter and fill range. Both sides
// of a relative window share one anchor instant, decided in Go, so the
// filter and the fill boundaries can never disagree about "now".
type seriesWindow struct {
	filter   string
	fillFrom string
	fillTo   string
}

func relativeWindow(interval model.GroupByInterval, now time.Time, pastHours int64) seriesWindow {
	anchor := fmt.Sprintf("fromUnixTimestamp(%d)", now.Unix())
	trunc := interval.CHTruncateFunc()
	offset := interval.CHOffsetInterval()
	return seriesWindow{
		filter:   fmt.Sprintf("time >= %s - INTERVAL %d HOUR", anchor, pastHours),
		fillFrom: fmt.Sprintf("%s(%s - INTERVAL %d HOUR + INTERVAL %s)", trunc, anchor, pastHours, offset),
		fillTo:   fmt.Sprintf("%s(%s + INTERVAL %s)", trunc, anchor, offset),
	}
}

func absoluteWindow(interval model.GroupByInterval, start time.Time, end time.Time) seriesWindow {
	trunc := interval.CHTruncateFunc()
	return seriesWindow{
		filter:   fmt.Sprintf("time >= fromUnixTimestamp(%d) AND time <= fromUnixTimestamp(%d)", start.Unix(), end.Unix()),
		fillFrom: fmt.Sprintf("%s(fromUnixTimestamp(%d))", trunc, start.Unix()),
		fillTo:   fmt.Sprintf("%s(fromUnixTimestamp(%d))", trunc, end.Unix()),
	}
}

func validateRelativeWindow(pastHours int64) error {
	if pastHours < 0 {
		return custom_errors.NewInvalidWindowError(
			fmt.Sprintf("pastHours must not be negative, got %d", pastHours))
	}
	return nil
}

func validateAbsoluteWindow(start time.Time, end time.Time) error {
	if start.After(end) {
		return custom_errors.NewInvalidWindowError(
			fmt.Sprintf("startTime %s is after endTime %s",
				start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339)))
	}
	return nil
}

// buildMetricSeriesQuery renders the one query shape every metric family
// shares. The traces CTE collapses spans into traces over the whole table,
// attributing each trace to the truncated instant of its earliest span;
// the outer select filters to one project and window, reduces per bucket
// and fills the gaps with zeroes store-side. An empty scalar means the
// family has no per-trace value column (trace count reduces trace_id
// directly).
func buildMetricSeriesQuery(table string, interval model.GroupByInterval, projectID uuid.UUID,
	scalar string, reducer string, w seriesWindow) string {
	scalarPart := ""
	if scalar != "" {
		scalarPart = ",\n            " + scalar + " as value"
	}
	return fmt.Sprintf(`
    WITH traces AS (
        SELECT
            trace_id,
            project_id,
            %s(MIN(start_time)) as time%s
        FROM %s
        GROUP BY project_id, trace_id
    )
    SELECT
        time,
        %s as value
    FROM traces
    WHERE
        project_id = '%s'
        AND %s
    GROUP BY
        time
    ORDER BY
        time
    WITH FILL
    FROM %s
    TO %s
    STEP %s`,
		interval.CHTruncateFunc(), scalarPart, table,
		reducer,
		projectID,
		w.filter,
		w.fillFrom,
		w.fillTo,
		interval.CHStep())
}

// queryMetricSeries runs one series query and scans the points in store
// order. Filled buckets arrive as zero values of V.
func queryMetricSeries[V int64 | float64](ctx context.Context, registry model.IDBRegistry,
	build func(table string) string) ([]model.MetricTimeValue[V], error) {
	db, err := registry.GetDB(ctx)
	if err != nil {
		return nil, custom_errors.NewBackingStoreError(err)
	}
	rows, err := db.Session.QueryCtx(ctx, build(getTableName(db, "spans")))
	if err != nil {
		return nil, custom_errors.NewBackingStoreError(err)
	}
	defer rows.Close()
	res := make([]model.MetricTimeValue[V], 0)
	for rows.Next() {
		var (
			t time.Time
			v V
		)
		if err := rows.Scan(&t, &v); err != nil {
			return nil, custom_errors.NewBackingStoreError(err)
		}
		res = append(res, model.MetricTimeValue[V]{Time: t.UTC(), Value: v})
	}
	if err := rows.Err(); err != nil {
		return nil, custom_errors.NewBackingStoreError(err)
	}
	return res, nil
}

func (sms *SpanMetricsService) TraceCountRelative(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, pastHours int64) ([]model.MetricTimeValue[int64], error) {
	if err := validateRelativeWindow(pastHours); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return queryMetricSeries[int64](ctx, sms.Session, func(table string) string {
		return buildMetricSeriesQuery(table, interval, projectID, "", traceCountReducer,
			relativeWindow(interval, now, pastHours))
	})
}

func (sms *SpanMetricsService) TraceCountAbsolute(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, start time.Time, end time.Time) ([]model.MetricTimeValue[int64], error) {
	if err := validateAbsoluteWindow(start, end); err != nil {
		return nil, err
	}
	return queryMetricSeries[int64](ctx, sms.Session, func(table string) string {
		return buildMetricSeriesQuery(table, interval, projectID, "", traceCountReducer,
			absoluteWindow(interval, start, end))
	})
}

func (sms *SpanMetricsService) LatencyRelative(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, aggregation model.Aggregation,
	pastHours int64) ([]model.MetricTimeValue[float64], error) {
	if err := validateRelativeWindow(pastHours); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	points, err := queryMetricSeries[float64](ctx, sms.Session, func(table string) string {
		return buildMetricSeriesQuery(table, interval, projectID, latencyScalar, aggregation.Apply("value"),
			relativeWindow(interval, now, pastHours))
	})
	if err != nil {
		return nil, err
	}
	return latencyNanosToSeconds(points), nil
}

func (sms *SpanMetricsService) LatencyAbsolute(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, aggregation model.Aggregation,
	start time.Time, end time.Time) ([]model.MetricTimeValue[float64], error) {
	if err := validateAbsoluteWindow(start, end); err != nil {
		return nil, err
	}
	points, err := queryMetricSeries[float64](ctx, sms.Session, func(table string) string {
		return buildMetricSeriesQuery(table, interval, projectID, latencyScalar, aggregation.Apply("value"),
			absoluteWindow(interval, start, end))
	})
	if err != nil {
		return nil, err
	}
	return latencyNanosToSeconds(points), nil
}

func (sms *SpanMetricsService) TokenCountRelative(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, aggregation model.Aggregation,
	pastHours int64) ([]model.MetricTimeValue[int64], error) {
	if err := validateRelativeWindow(pastHours); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return queryMetricSeries[int64](ctx, sms.Session, func(table string) string {
		return buildMetricSeriesQuery(table, interval, projectID, tokenScalar, aggregation.Apply("value"),
			relativeWindow(interval, now, pastHours))
	})
}

func (sms *SpanMetricsService) TokenCountAbsolute(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, aggregation model.Aggregation,
	start time.Time, end time.Time) ([]model.MetricTimeValue[int64], error) {
	if err := validateAbsoluteWindow(start, end); err != nil {
		return nil, err
	}
	return queryMetricSeries[int64](ctx, sms.Session, func(table string) string {
		return buildMetricSeriesQuery(table, interval, projectID, tokenScalar, aggregation.Apply("value"),
			absoluteWindow(interval, start, end))
	})
}

func (sms *SpanMetricsService) CostRelative(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, aggregation model.Aggregation,
	pastHours int64) ([]model.MetricTimeValue[float64], error) {
	if err := validateRelativeWindow(pastHours); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	points, err := queryMetricSeries[float64](ctx, sms.Session, func(table string) string {
		return buildMetricSeriesQuery(table, interval, projectID, costScalar, aggregation.Apply("value"),
			relativeWindow(interval, now, pastHours))
	})
	if err != nil {
		return nil, err
	}
	return stabilizeFloats(points), nil
}

func (sms *SpanMetricsService) CostAbsolute(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, aggregation model.Aggregation,
	start time.Time, end time.Time) ([]model.MetricTimeValue[float64], error) {
	if err := validateAbsoluteWindow(start, end); err != nil {
		return nil, err
	}
	points, err := queryMetricSeries[float64](ctx, sms.Session, func(table string) string {
		return buildMetricSeriesQuery(table, interval, projectID, costScalar, aggregation.Apply("value"),
			absoluteWindow(interval, start, end))
	})
	if err != nil {
		return nil, err
	}
	return stabilizeFloats(points), nil
}

// TimeBounds reports the first and last span start instants of a project.
// A project with no spans yields nil. ClickHouse aggregates an empty set
// to the epoch, that sentinel never collides with real data because spans
// are written after 1970.
func (sms *SpanMetricsService) TimeBounds(ctx context.Context, projectID uuid.UUID) (*model.TimeBounds, error) {
	db, err := sms.Session.GetDB(ctx)
	if err != nil {
		return nil, custom_errors.NewBackingStoreError(err)
	}
	query := fmt.Sprintf(`SELECT
            MIN(start_time) AS min_time,
            MAX(start_time) AS max_time
        FROM
            %s
        WHERE project_id = '%s'`, getTableName(db, "spans"), projectID)
	rows, err := db.Session.QueryCtx(ctx, query)
	if err != nil {
		return nil, custom_errors.NewBackingStoreError(err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, custom_errors.NewBackingStoreError(err)
		}
		return nil, nil
	}
	var bounds model.TimeBounds
	if err := rows.Scan(&bounds.MinTime, &bounds.MaxTime); err != nil {
		return nil, custom_errors.NewBackingStoreError(err)
	}
	if bounds.MinTime.Unix() == 0 {
		return nil, nil
	}
	bounds.MinTime = bounds.MinTime.UTC()
	bounds.MaxTime = bounds.MaxTime.UTC()
	return &bounds, nil
}

func latencyNanosToSeconds(points []model.MetricTimeValue[float64]) []model.MetricTimeValue[float64] {
	for i := range points {
		points[i].Value = roundSmallValuesToZero(points[i].Value / 1e9)
	}
	return points
}

func stabilizeFloats(points []model.MetricTimeValue[float64]) []model.MetricTimeValue[float64] {
	for i := range points {
		points[i].Value = roundSmallValuesToZero(points[i].Value)
	}
	return points
}
