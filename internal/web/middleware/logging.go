// Package middleware provides HTTP middleware for the validation server.
package middleware

import (
	"net/http"
	"time"

	"github.com/JonMunkholm/samplesheet/internal/logging"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Logger logs one structured line per request once the handler returns.
//
// Fields: method, path, status, bytes, duration_ms, ip, user_agent. The
// request_id comes from chi's RequestID middleware through logging.FromContext.
// Server errors log at error level and everything else at info.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		ip := r.RemoteAddr
		if parsed := ClientIP(r); parsed != nil {
			ip = parsed.String()
		}

		logger := logging.FromContext(r.Context())
		log := logger.Info
		if status >= http.StatusInternalServerError {
			log = logger.Error
		}
		log("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", ip,
			"user_agent", r.UserAgent(),
		)
	})
}
