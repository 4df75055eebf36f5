package middleware

import (
	"net/http"
	"time"

	"github.com/2beens/gymstats/pkg"

	log "github.com/sirupsen/logrus"
)

// LogRequest logs every request once it is served, with its status and the
// time it took. Server errors are logged at warn level.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			ip, _ := pkg.ReadUserIP(r)
			entry := log.WithFields(log.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"route":    routeTemplate(r),
				"status":   rw.statusCode,
				"duration": time.Since(start).String(),
				"ip":       ip,
				"ua":       r.Header.Get("User-Agent"),
			})
			if rw.statusCode >= http.StatusInternalServerError {
				entry.Warn("request failed")
				return
			}
			entry.Trace("request")
		})
	}
}
