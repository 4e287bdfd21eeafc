package commonroutes

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterCommonRoutes registers the liveness, config and telemetry routes.
func RegisterCommonRoutes(app *mux.Router, version string) {
	cc := &CommonController{Version: version}
	app.HandleFunc("/ready", cc.Ready).Methods("GET")
	app.HandleFunc("/config", cc.Config).Methods("GET")
	app.Handle("/metrics", promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			DisableCompression: true,
		}),
	)).Methods("GET")
	app.HandleFunc("/api/status/buildinfo", cc.BuildInfo).Methods("GET")
}
