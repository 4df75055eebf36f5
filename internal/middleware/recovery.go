package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/gymstats/internal/auth"
	"github.com/2beens/gymstats/internal/telemetry/metrics"
	"github.com/2beens/gymstats/pkg"

	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a handler panic into a 500 JSON error. Panics from a
// handler that already wrote its status are only logged.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			tw := &trackingWriter{ResponseWriter: w}
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				fields := log.Fields{
					"method": req.Method,
					"path":   req.URL.Path,
				}
				if userID, ok := auth.UserIDFromContext(req.Context()); ok {
					fields["user_id"] = userID.String()
				}
				log.WithFields(fields).Errorf("http: panic: %v\n%s", r, debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				if !tw.wroteHeader {
					pkg.WriteJSONError(tw, "internal error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(tw, req)
		})
	}
}

type trackingWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *trackingWriter) WriteHeader(statusCode int) {
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Flush keeps streaming responses (the MCP endpoint) working through the wrapper.
func (w *trackingWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
