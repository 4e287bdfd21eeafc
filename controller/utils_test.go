package controllerv1

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	custom_errors "github.com/M-A-D-A-R-A/lmnr/utils/errors"
)

func TestParseTimeSecOrRFC(t *testing.T) {
	def := time.Unix(1700000000, 0)

	ts, err := ParseTimeSecOrRFC("1715731200", time.Time{})
	assert.NoError(t, err)
	assert.Equal(t, int64(1715731200), ts.Unix())

	ts, err = ParseTimeSecOrRFC("2024-05-15T00:00:00Z", time.Time{})
	assert.NoError(t, err)
	assert.Equal(t, int64(1715731200), ts.Unix())

	ts, err = ParseTimeSecOrRFC("", def)
	assert.NoError(t, err)
	assert.Equal(t, def, ts)

	_, err = ParseTimeSecOrRFC("yesterday", time.Time{})
	assert.Error(t, err)

	// digits-and-dots input that is not a number is a parse error, not the epoch
	for _, raw := range []string{"1.2.3", "..", "1.."} {
		_, err = ParseTimeSecOrRFC(raw, time.Time{})
		assert.Error(t, err, raw)
	}
}

func TestGetRequiredTime(t *testing.T) {
	r := httptest.NewRequest("GET",
		"/api/v1/metrics/trace_count/absolute?startTime=1715731200&endTime=2024-05-15T01:00:00Z", nil)

	start, err := getRequiredTime(r, "startTime", nil)
	end, err := getRequiredTime(r, "endTime", err)
	assert.NoError(t, err)
	assert.Equal(t, int64(1715731200), start.Unix())
	assert.Equal(t, int64(1715734800), end.Unix())

	_, err = getRequiredTime(r, "missing", nil)
	assert.Error(t, err)

	// an error from an earlier parameter is carried through unchanged
	boom := fmt.Errorf("previous failure")
	_, err = getRequiredTime(r, "startTime", boom)
	assert.Equal(t, boom, err)
}

func TestGetRequiredI64(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/metrics/trace_count/relative?pastHours=24", nil)

	v, err := getRequiredI64(r, "pastHours", "", nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(24), v)

	v, err = getRequiredI64(r, "limit", "100", nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), v)

	_, err = getRequiredI64(r, "limit", "", nil)
	assert.Error(t, err)
}

func TestApiError(t *testing.T) {
	w := httptest.NewRecorder()
	apiError(400, "bad input", w)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, `{"error":"bad input"}`, w.Body.String())
}

func TestWriteServiceError(t *testing.T) {
	w := httptest.NewRecorder()
	writeServiceError(custom_errors.NewInvalidWindowError("startTime is after endTime"), w)
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, `{"error":"startTime is after endTime"}`, w.Body.String())

	w = httptest.NewRecorder()
	writeServiceError(custom_errors.NewBackingStoreError(fmt.Errorf("dial tcp: refused")), w)
	assert.Equal(t, 502, w.Code)

	w = httptest.NewRecorder()
	writeServiceError(fmt.Errorf("unexpected"), w)
	assert.Equal(t, 500, w.Code)
}
