package commonroutes

import (
	"encoding/json"
	"net/http"

	"github.com/M-A-D-A-R-A/lmnr/utils/logger"
	"github.com/M-A-D-A-R-A/lmnr/watchdog"
)

type CommonController struct {
	Version string
}

func (cc *CommonController) Ready(w http.ResponseWriter, r *http.Request) {
	err := watchdog.Check()
	if err != nil {
		w.WriteHeader(500)
		logger.Error(err.Error())
		w.Write([]byte("Internal Server Error"))
		return
	}
	w.WriteHeader(200)
	w.Write([]byte("OK"))
}

func (cc *CommonController) Config(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Not supported"))
}

func (cc *CommonController) BuildInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"version": cc.Version,
		"branch":  "main",
	})
}
