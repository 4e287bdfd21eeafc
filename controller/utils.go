package controllerv1

import (
	"fmt"
	"net/http"
	"regexp"
	"runtime/debug"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	custom_errors "github.com/M-A-D-A-R-A/lmnr/utils/errors"
	"github.com/M-A-D-A-R-A/lmnr/utils/logger"
)

func getRequiredI64(ctx *http.Request, name string, def string, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	strRes := ctx.URL.Query().Get(name)
	if strRes == "" {
		strRes = def
	}
	if strRes == "" {
		return 0, fmt.Errorf("%s parameter is required", name)
	}
	iRes, err := strconv.ParseInt(strRes, 10, 64)
	return iRes, err
}

func getRequiredTime(ctx *http.Request, name string, err error) (time.Time, error) {
	if err != nil {
		return time.Time{}, err
	}
	strRes := ctx.URL.Query().Get(name)
	if strRes == "" {
		return time.Time{}, fmt.Errorf("%s parameter is required", name)
	}
	return ParseTimeSecOrRFC(strRes, time.Time{})
}

func ParseTimeSecOrRFC(raw string, def time.Time) (time.Time, error) {
	if raw == "" {
		return def, nil
	}
	if regexp.MustCompile("^[0-9.]+$").MatchString(raw) {
		t, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(int64(t), 0), nil
	}
	return time.Parse(time.RFC3339, raw)
}

func tamePanic(w http.ResponseWriter, r *http.Request) {
	if err := recover(); err != nil {
		logger.Error("panic:", err, " stack:", string(debug.Stack()))
		logger.Error("query: ", r.URL.String())
		w.WriteHeader(500)
		w.Write([]byte("Internal Server Error"))
		recover()
	}
}

func apiError(code int, msg string, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	json := jsoniter.ConfigFastest
	stream := json.BorrowStream(nil)
	defer json.ReturnStream(stream)

	stream.WriteObjectStart()
	stream.WriteObjectField("error")
	stream.WriteString(msg)
	stream.WriteObjectEnd()

	w.Write(stream.Buffer())
}

// writeServiceError maps coded service errors onto their HTTP status;
// anything uncoded is a 500.
func writeServiceError(err error, w http.ResponseWriter) {
	if coded, ok := custom_errors.Unwrap[custom_errors.ILmnrError](err); ok {
		if coded.GetCode() >= 500 {
			logger.Error(err.Error())
		}
		apiError(coded.GetCode(), coded.Error(), w)
		return
	}
	logger.Error(err.Error())
	apiError(500, err.Error(), w)
}
