package apirouterv1

import (
	"github.com/gorilla/mux"

	controllerv1 "github.com/M-A-D-A-R-A/lmnr/controller"
	"github.com/M-A-D-A-R-A/lmnr/model"
	"github.com/M-A-D-A-R-A/lmnr/service"
)

func RouteSpanMetrics(app *mux.Router, dataSession model.IDBRegistry) {
	metricsSvc := service.NewSpanMetricsService(model.ServiceData{
		Session: dataSession,
	})
	ctrl := &controllerv1.SpanMetricsController{
		Service: metricsSvc,
	}
	app.HandleFunc("/api/v1/metrics/trace_count/relative", ctrl.TraceCountRelative).Methods("GET")
	app.HandleFunc("/api/v1/metrics/trace_count/absolute", ctrl.TraceCountAbsolute).Methods("GET")
	app.HandleFunc("/api/v1/metrics/latency_seconds/relative", ctrl.LatencyRelative).Methods("GET")
	app.HandleFunc("/api/v1/metrics/latency_seconds/absolute", ctrl.LatencyAbsolute).Methods("GET")
	app.HandleFunc("/api/v1/metrics/token_count/relative", ctrl.TokenCountRelative).Methods("GET")
	app.HandleFunc("/api/v1/metrics/token_count/absolute", ctrl.TokenCountAbsolute).Methods("GET")
	app.HandleFunc("/api/v1/metrics/cost_usd/relative", ctrl.CostRelative).Methods("GET")
	app.HandleFunc("/api/v1/metrics/cost_usd/absolute", ctrl.CostAbsolute).Methods("GET")
	app.HandleFunc("/api/v1/spans/time_bounds", ctrl.TimeBounds).Methods("GET")
}
