package logger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// qrynFormatter tees every entry into a buffer that a background ticker
// ships to the Loki-style push endpoint named by LOG_SETTINGS.Qryn.
type qrynFormatter struct {
	mtx          sync.Mutex
	formatter    logrus.Formatter
	bufferToQryn []*logrus.Entry
	timer        *time.Ticker
	url          string
	app          string
	hostname     string
	headers      map[string]string
}

type qrynStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

func (q *qrynFormatter) Format(e *logrus.Entry) ([]byte, error) {
	q.mtx.Lock()
	q.bufferToQryn = append(q.bufferToQryn, e)
	q.mtx.Unlock()
	return q.formatter.Format(e)
}

func (q *qrynFormatter) Run() {
	q.timer = time.NewTicker(time.Second)
	go func() {
		for range q.timer.C {
			q.mtx.Lock()
			entries := q.bufferToQryn
			q.bufferToQryn = nil
			q.mtx.Unlock()
			if len(entries) == 0 {
				continue
			}
			q.push(q.payload(entries))
		}
	}()
}

// payload groups buffered entries into one stream per level.
func (q *qrynFormatter) payload(entries []*logrus.Entry) []byte {
	byLevel := map[logrus.Level]*qrynStream{}
	var streams []*qrynStream
	for _, e := range entries {
		s, ok := byLevel[e.Level]
		if !ok {
			labels := map[string]string{"app": q.app, "level": e.Level.String()}
			if q.hostname != "" {
				labels["hostname"] = q.hostname
			}
			s = &qrynStream{Stream: labels}
			byLevel[e.Level] = s
			streams = append(streams, s)
		}
		line, _ := q.formatter.Format(e)
		s.Values = append(s.Values,
			[]string{strconv.FormatInt(e.Time.UnixNano(), 10), string(line)})
	}
	body, _ := json.Marshal(map[string][]*qrynStream{"streams": streams})
	return body
}

func (q *qrynFormatter) push(body []byte) {
	go func() {
		req, err := http.NewRequest(http.MethodPost, q.url, bytes.NewReader(body))
		if err != nil {
			return
		}
		for k, v := range q.headers {
			req.Header.Set(k, v)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			resp.Body.Close()
		}
	}()
}
