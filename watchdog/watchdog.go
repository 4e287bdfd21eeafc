package watchdog

import (
	"fmt"
	"sync"
	"time"

	retry "github.com/avast/retry-go"

	"github.com/M-A-D-A-R-A/lmnr/model"
	"github.com/M-A-D-A-R-A/lmnr/utils/logger"
)

const (
	checkInterval = time.Second * 5
	staleAfter    = time.Second * 30
	panicAfter    = 5
)

var (
	mtx           sync.Mutex
	lastGoodCheck = time.Now()
	failures      int
)

// Init starts the background ping loop over the shared session.
func Init(svc *model.ServiceData) {
	ticker := time.NewTicker(checkInterval)
	go func() {
		for range ticker.C {
			runCheck(svc)
		}
	}()
}

func runCheck(svc *model.ServiceData) {
	err := retry.Do(
		svc.Ping,
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.DelayType(retry.FixedDelay),
	)
	mtx.Lock()
	defer mtx.Unlock()
	if err == nil {
		failures = 0
		lastGoodCheck = time.Now()
		logger.Info("---- WATCHDOG CHECK OK ----")
		return
	}
	failures++
	logger.Info("---- WATCHDOG REPORT ----")
	logger.Error("database not responding for ", time.Since(lastGoodCheck))
	if failures > panicAfter {
		panic("WATCHDOG PANIC: database not responding")
	}
}

// Check backs the /ready probe.
func Check() error {
	mtx.Lock()
	defer mtx.Unlock()
	if time.Since(lastGoodCheck) < staleAfter {
		return nil
	}
	return fmt.Errorf("database not responding since %v", lastGoodCheck)
}
