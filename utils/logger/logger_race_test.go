package logger

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
)

func TestLoggerRaceCond(t *testing.T) {
	Logger.SetFormatter(&logrus.JSONFormatter{})
	qrynFmt := &qrynFormatter{
		formatter: Logger.Formatter,
		url:       "",
		app:       "lmnr",
		hostname:  "a",
		headers:   nil,
	}
	qrynFmt.Run()
	Logger.SetFormatter(qrynFmt)

	g := errgroup.Group{}
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 20000; j++ {
				Info("a", "B", fmt.Errorf("aaaa"))
				Error("broken pipe")
				Debug("c")
			}
			return nil
		})
	}
	assert.NoError(t, g.Wait())
}
