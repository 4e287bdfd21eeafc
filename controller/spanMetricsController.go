package controllerv1

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/schema"
	jsoniter "github.com/json-iterator/go"

	"github.com/M-A-D-A-R-A/lmnr/config"
	"github.com/M-A-D-A-R-A/lmnr/model"
)

type SpanMetricsController struct {
	Service model.ISpanMetricsService
}

type spanMetricsProps struct {
	ProjectID   uuid.UUID
	Interval    model.GroupByInterval
	Aggregation model.Aggregation
	Raw         struct {
		ProjectID       string `form:"projectId" validate:"required,uuid"`
		GroupByInterval string `form:"groupByInterval" validate:"required"`
		Aggregation     string `form:"aggregation" validate:"omitempty"`
	}
}

func parseMetricSeriesProps(r *http.Request, withAggregation bool) (spanMetricsProps, error) {
	res := spanMetricsProps{}
	dec := schema.NewDecoder()
	dec.SetAliasTag("form")
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&res.Raw, r.URL.Query())
	if err != nil {
		return res, err
	}
	if config.Validate != nil {
		if err := config.Validate.Struct(res.Raw); err != nil {
			return res, err
		}
	}
	if res.Raw.ProjectID == "" {
		return res, fmt.Errorf("projectId parameter is required")
	}
	res.ProjectID, err = uuid.Parse(res.Raw.ProjectID)
	if err != nil {
		return res, err
	}
	res.Interval, err = model.ParseGroupByInterval(res.Raw.GroupByInterval)
	if err != nil {
		return res, err
	}
	if withAggregation {
		res.Aggregation, err = model.ParseAggregation(res.Raw.Aggregation)
		if err != nil {
			return res, err
		}
	}
	return res, nil
}

func parseProjectID(r *http.Request) (uuid.UUID, error) {
	raw := r.URL.Query().Get("projectId")
	if raw == "" {
		return uuid.Nil, fmt.Errorf("projectId parameter is required")
	}
	return uuid.Parse(raw)
}

func writeMetricSeries[V int64 | float64](w http.ResponseWriter, points []model.MetricTimeValue[V]) {
	w.Header().Set("Content-Type", "application/json")

	json := jsoniter.ConfigFastest
	stream := json.BorrowStream(nil)
	defer json.ReturnStream(stream)

	stream.WriteArrayStart()
	for i, p := range points {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectStart()
		stream.WriteObjectField("time")
		stream.WriteInt64(p.Time.Unix())
		stream.WriteMore()
		stream.WriteObjectField("value")
		switch v := any(p.Value).(type) {
		case int64:
			stream.WriteInt64(v)
		case float64:
			stream.WriteFloat64(v)
		}
		stream.WriteObjectEnd()
	}
	stream.WriteArrayEnd()

	w.Write(stream.Buffer())
}

func writeTimeBounds(w http.ResponseWriter, bounds *model.TimeBounds) {
	w.Header().Set("Content-Type", "application/json")

	json := jsoniter.ConfigFastest
	stream := json.BorrowStream(nil)
	defer json.ReturnStream(stream)

	stream.WriteObjectStart()
	if bounds != nil {
		stream.WriteObjectField("minTime")
		stream.WriteInt64(bounds.MinTime.Unix())
		stream.WriteMore()
		stream.WriteObjectField("maxTime")
		stream.WriteInt64(bounds.MaxTime.Unix())
	}
	stream.WriteObjectEnd()

	w.Write(stream.Buffer())
}

func (smc *SpanMetricsController) TraceCountRelative(w http.ResponseWriter, r *http.Request) {
	defer tamePanic(w, r)
	props, err := parseMetricSeriesProps(r, false)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	pastHours, err := getRequiredI64(r, "pastHours", "", nil)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	points, err := smc.Service.TraceCountRelative(r.Context(), props.ProjectID, props.Interval, pastHours)
	if err != nil {
		writeServiceError(err, w)
		return
	}
	writeMetricSeries(w, points)
}

func (smc *SpanMetricsController) TraceCountAbsolute(w http.ResponseWriter, r *http.Request) {
	defer tamePanic(w, r)
	props, err := parseMetricSeriesProps(r, false)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	start, err := getRequiredTime(r, "startTime", nil)
	end, err := getRequiredTime(r, "endTime", err)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	points, err := smc.Service.TraceCountAbsolute(r.Context(), props.ProjectID, props.Interval, start, end)
	if err != nil {
		writeServiceError(err, w)
		return
	}
	writeMetricSeries(w, points)
}

func (smc *SpanMetricsController) LatencyRelative(w http.ResponseWriter, r *http.Request) {
	defer tamePanic(w, r)
	props, err := parseMetricSeriesProps(r, true)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	pastHours, err := getRequiredI64(r, "pastHours", "", nil)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	points, err := smc.Service.LatencyRelative(r.Context(), props.ProjectID, props.Interval,
		props.Aggregation, pastHours)
	if err != nil {
		writeServiceError(err, w)
		return
	}
	writeMetricSeries(w, points)
}

func (smc *SpanMetricsController) LatencyAbsolute(w http.ResponseWriter, r *http.Request) {
	defer tamePanic(w, r)
	props, err := parseMetricSeriesProps(r, true)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	start, err := getRequiredTime(r, "startTime", nil)
	end, err := getRequiredTime(r, "endTime", err)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	points, err := smc.Service.LatencyAbsolute(r.Context(), props.ProjectID, props.Interval,
		props.Aggregation, start, end)
	if err != nil {
		writeServiceError(err, w)
		return
	}
	writeMetricSeries(w, points)
}

func (smc *SpanMetricsController) TokenCountRelative(w http.ResponseWriter, r *http.Request) {
	defer tamePanic(w, r)
	props, err := parseMetricSeriesProps(r, true)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	pastHours, err := getRequiredI64(r, "pastHours", "", nil)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	points, err := smc.Service.TokenCountRelative(r.Context(), props.ProjectID, props.Interval,
		props.Aggregation, pastHours)
	if err != nil {
		writeServiceError(err, w)
		return
	}
	writeMetricSeries(w, points)
}

func (smc *SpanMetricsController) TokenCountAbsolute(w http.ResponseWriter, r *http.Request) {
	defer tamePanic(w, r)
	props, err := parseMetricSeriesProps(r, true)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	start, err := getRequiredTime(r, "startTime", nil)
	end, err := getRequiredTime(r, "endTime", err)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	points, err := smc.Service.TokenCountAbsolute(r.Context(), props.ProjectID, props.Interval,
		props.Aggregation, start, end)
	if err != nil {
		writeServiceError(err, w)
		return
	}
	writeMetricSeries(w, points)
}

func (smc *SpanMetricsController) CostRelative(w http.ResponseWriter, r *http.Request) {
	defer tamePanic(w, r)
	props, err := parseMetricSeriesProps(r, true)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	pastHours, err := getRequiredI64(r, "pastHours", "", nil)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	points, err := smc.Service.CostRelative(r.Context(), props.ProjectID, props.Interval,
		props.Aggregation, pastHours)
	if err != nil {
		writeServiceError(err, w)
		return
	}
	writeMetricSeries(w, points)
}

func (smc *SpanMetricsController) CostAbsolute(w http.ResponseWriter, r *http.Request) {
	defer tamePanic(w, r)
	props, err := parseMetricSeriesProps(r, true)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	start, err := getRequiredTime(r, "startTime", nil)
	end, err := getRequiredTime(r, "endTime", err)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	points, err := smc.Service.CostAbsolute(r.Context(), props.ProjectID, props.Interval,
		props.Aggregation, start, end)
	if err != nil {
		writeServiceError(err, w)
		return
	}
	writeMetricSeries(w, points)
}

func (smc *SpanMetricsController) TimeBounds(w http.ResponseWriter, r *http.Request) {
	defer tamePanic(w, r)
	projectID, err := parseProjectID(r)
	if err != nil {
		apiError(400, err.Error(), w)
		return
	}
	bounds, err := smc.Service.TimeBounds(r.Context(), projectID)
	if err != nil {
		writeServiceError(err, w)
		return
	}
	writeTimeBounds(w, bounds)
}
