package middleware

import (
	"log"
	"net/http"
	"time"
)

// Logging writes one line per request with the request ID assigned upstream,
// so log lines correlate with the X-Request-ID header clients see. Must be
// mounted after RequestID.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Printf("[HTTP] %s %s %d %s reqid=%s",
			r.Method, r.URL.Path, rec.status, time.Since(start), GetRequestID(r.Context()))
	})
}

// statusRecorder captures the status code written by the handler chain.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}
