package middleware

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
)

var gzipPool = sync.Pool{New: func() any {
	return gzip.NewWriter(io.Discard)
}}

func AcceptEncodingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		gzw := &gzipResponseWriter{ResponseWriter: w, code: http.StatusOK}
		defer gzw.Close()
		next.ServeHTTP(gzw, r)
	})
}

// gzipResponseWriter compresses 2xx bodies on the fly. Error responses pass
// through uncompressed so their plain-text bodies stay readable with curl.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz          *gzip.Writer
	code        int
	wroteHeader bool
}

func (gzw *gzipResponseWriter) WriteHeader(code int) {
	if gzw.wroteHeader {
		return
	}
	gzw.wroteHeader = true
	gzw.code = code
	if code/100 == 2 {
		gzw.Header().Set("Content-Encoding", "gzip")
		gzw.Header().Del("Content-Length")
	}
	gzw.ResponseWriter.WriteHeader(code)
}

func (gzw *gzipResponseWriter) Write(b []byte) (int, error) {
	if !gzw.wroteHeader {
		gzw.WriteHeader(http.StatusOK)
	}
	if gzw.code/100 != 2 {
		return gzw.ResponseWriter.Write(b)
	}
	if gzw.gz == nil {
		gzw.gz = gzipPool.Get().(*gzip.Writer)
		gzw.gz.Reset(gzw.ResponseWriter)
	}
	return gzw.gz.Write(b)
}

func (gzw *gzipResponseWriter) Close() {
	if gzw.gz == nil {
		return
	}
	gzw.gz.Close()
	gzipPool.Put(gzw.gz)
}

func (gzw *gzipResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := gzw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("ResponseWriter does not support Hijack")
	}
	return h.Hijack()
}
