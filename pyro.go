package main

import (
	"os"

	"github.com/grafana/pyroscope-go"

	"github.com/M-A-D-A-R-A/lmnr/utils/logger"
)

// initPyro starts continuous profiling when PYROSCOPE_SERVER_ADDRESS is set.
func initPyro() {
	serverAddress := os.Getenv("PYROSCOPE_SERVER_ADDRESS")
	if serverAddress == "" {
		return
	}

	applicationName := os.Getenv("PYROSCOPE_APPLICATION_NAME")
	if applicationName == "" {
		applicationName = "lmnr-app-server"
	}

	_, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: applicationName,
		ServerAddress:   serverAddress,
		Logger:          pyroscope.StandardLogger,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
		},
	})
	if err != nil {
		logger.Error("failed to start pyroscope: ", err)
		return
	}
	logger.Info("pyroscope profiling started")
}
