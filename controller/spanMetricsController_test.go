package controllerv1

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	validator "gopkg.in/go-playground/validator.v9"

	"github.com/M-A-D-A-R-A/lmnr/config"
	"github.com/M-A-D-A-R-A/lmnr/model"
	custom_errors "github.com/M-A-D-A-R-A/lmnr/utils/errors"
)

const testProjectID = "20a5b757-43e0-4b6f-8907-05b2e8f09e6b"

type stubMetricsService struct {
	intPoints   []model.MetricTimeValue[int64]
	floatPoints []model.MetricTimeValue[float64]
	bounds      *model.TimeBounds
	err         error
}

func (s *stubMetricsService) TraceCountRelative(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, pastHours int64) ([]model.MetricTimeValue[int64], error) {
	return s.intPoints, s.err
}

func (s *stubMetricsService) TraceCountAbsolute(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, start time.Time, end time.Time) ([]model.MetricTimeValue[int64], error) {
	return s.intPoints, s.err
}

func (s *stubMetricsService) LatencyRelative(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, aggregation model.Aggregation,
	pastHours int64) ([]model.MetricTimeValue[float64], error) {
	return s.floatPoints, s.err
}

func (s *stubMetricsService) LatencyAbsolute(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, aggregation model.Aggregation,
	start time.Time, end time.Time) ([]model.MetricTimeValue[float64], error) {
	return s.floatPoints, s.err
}

func (s *stubMetricsService) TokenCountRelative(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, aggregation model.Aggregation,
	pastHours int64) ([]model.MetricTimeValue[int64], error) {
	return s.intPoints, s.err
}

func (s *stubMetricsService) TokenCountAbsolute(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, aggregation model.Aggregation,
	start time.Time, end time.Time) ([]model.MetricTimeValue[int64], error) {
	return s.intPoints, s.err
}

func (s *stubMetricsService) CostRelative(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, aggregation model.Aggregation,
	pastHours int64) ([]model.MetricTimeValue[float64], error) {
	return s.floatPoints, s.err
}

func (s *stubMetricsService) CostAbsolute(ctx context.Context, projectID uuid.UUID,
	interval model.GroupByInterval, aggregation model.Aggregation,
	start time.Time, end time.Time) ([]model.MetricTimeValue[float64], error) {
	return s.floatPoints, s.err
}

func (s *stubMetricsService) TimeBounds(ctx context.Context, projectID uuid.UUID) (*model.TimeBounds, error) {
	return s.bounds, s.err
}

func TestMetricSeriesPropsParsing(t *testing.T) {
	config.Validate = validator.New()

	r := httptest.NewRequest("GET",
		"/x?projectId="+testProjectID+"&groupByInterval=day&aggregation=avg", nil)
	props, err := parseMetricSeriesProps(r, true)
	assert.NoError(t, err)
	assert.Equal(t, uuid.MustParse(testProjectID), props.ProjectID)
	assert.Equal(t, model.GroupByIntervalDay, props.Interval)
	assert.Equal(t, model.AggregationAvg, props.Aggregation)

	// trace count has no aggregation parameter
	r = httptest.NewRequest("GET", "/x?projectId="+testProjectID+"&groupByInterval=minute", nil)
	_, err = parseMetricSeriesProps(r, false)
	assert.NoError(t, err)

	// the other families require one
	_, err = parseMetricSeriesProps(r, true)
	assert.Error(t, err)

	r = httptest.NewRequest("GET", "/x?groupByInterval=minute", nil)
	_, err = parseMetricSeriesProps(r, false)
	assert.Error(t, err)

	r = httptest.NewRequest("GET", "/x?projectId=not-a-uuid&groupByInterval=minute", nil)
	_, err = parseMetricSeriesProps(r, false)
	assert.Error(t, err)

	r = httptest.NewRequest("GET", "/x?projectId="+testProjectID+"&groupByInterval=fortnight", nil)
	_, err = parseMetricSeriesProps(r, false)
	assert.Error(t, err)
}

func TestTraceCountAbsoluteHandler(t *testing.T) {
	config.Validate = validator.New()
	base := time.Unix(1715731200, 0).UTC()
	svc := &stubMetricsService{
		intPoints: []model.MetricTimeValue[int64]{
			{Time: base, Value: 1},
			{Time: base.Add(time.Minute), Value: 0},
		},
	}
	ctrl := &SpanMetricsController{Service: svc}
	r := httptest.NewRequest("GET", "/api/v1/metrics/trace_count/absolute?projectId="+testProjectID+
		"&groupByInterval=minute&startTime=1715731200&endTime=1715731320", nil)
	w := httptest.NewRecorder()
	ctrl.TraceCountAbsolute(w, r)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `[{"time":1715731200,"value":1},{"time":1715731260,"value":0}]`, w.Body.String())
}

func TestLatencyRelativeHandler(t *testing.T) {
	config.Validate = validator.New()
	base := time.Unix(1715731200, 0).UTC()
	svc := &stubMetricsService{
		floatPoints: []model.MetricTimeValue[float64]{
			{Time: base, Value: 12.5},
			{Time: base.Add(time.Hour), Value: 0},
		},
	}
	ctrl := &SpanMetricsController{Service: svc}
	r := httptest.NewRequest("GET", "/api/v1/metrics/latency_seconds/relative?projectId="+testProjectID+
		"&groupByInterval=hour&aggregation=p90&pastHours=24", nil)
	w := httptest.NewRecorder()
	ctrl.LatencyRelative(w, r)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, `[{"time":1715731200,"value":12.5},{"time":1715734800,"value":0}]`, w.Body.String())
}

func TestRelativeHandlerRequiresPastHours(t *testing.T) {
	config.Validate = validator.New()
	ctrl := &SpanMetricsController{Service: &stubMetricsService{}}
	r := httptest.NewRequest("GET", "/api/v1/metrics/trace_count/relative?projectId="+testProjectID+
		"&groupByInterval=minute", nil)
	w := httptest.NewRecorder()
	ctrl.TraceCountRelative(w, r)
	assert.Equal(t, 400, w.Code)
}

func TestHandlerMapsServiceError(t *testing.T) {
	config.Validate = validator.New()
	svc := &stubMetricsService{err: custom_errors.NewBackingStoreError(fmt.Errorf("no route to host"))}
	ctrl := &SpanMetricsController{Service: svc}
	r := httptest.NewRequest("GET", "/api/v1/metrics/token_count/absolute?projectId="+testProjectID+
		"&groupByInterval=minute&aggregation=sum&startTime=1715731200&endTime=1715731320", nil)
	w := httptest.NewRecorder()
	ctrl.TokenCountAbsolute(w, r)
	assert.Equal(t, 502, w.Code)

	svc.err = custom_errors.NewInvalidWindowError("pastHours must not be negative, got -5")
	w = httptest.NewRecorder()
	ctrl.TokenCountAbsolute(w, r)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, `{"error":"pastHours must not be negative, got -5"}`, w.Body.String())
}

func TestTimeBoundsHandler(t *testing.T) {
	svc := &stubMetricsService{bounds: &model.TimeBounds{
		MinTime: time.Unix(1715731210, 0).UTC(),
		MaxTime: time.Unix(1715731220, 0).UTC(),
	}}
	ctrl := &SpanMetricsController{Service: svc}
	r := httptest.NewRequest("GET", "/api/v1/spans/time_bounds?projectId="+testProjectID, nil)
	w := httptest.NewRecorder()
	ctrl.TimeBounds(w, r)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, `{"minTime":1715731210,"maxTime":1715731220}`, w.Body.String())

	// no spans yet: an empty object, not an error
	ctrl = &SpanMetricsController{Service: &stubMetricsService{}}
	w = httptest.NewRecorder()
	ctrl.TimeBounds(w, r)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, `{}`, w.Body.String())

	r = httptest.NewRequest("GET", "/api/v1/spans/time_bounds", nil)
	w = httptest.NewRecorder()
	ctrl.TimeBounds(w, r)
	assert.Equal(t, 400, w.Code)
}

func TestWriteMetricSeriesEmpty(t *testing.T) {
	w := httptest.NewRecorder()
	writeMetricSeries(w, []model.MetricTimeValue[int64]{})
	assert.Equal(t, `[]`, w.Body.String())
}
