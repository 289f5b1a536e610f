package middleware

import (
	"net/http"

	"github.com/frahmantamala/facility-management/pkg/logger"
	"github.com/google/uuid"
)

const TraceIDHeader = "X-Trace-ID"

// RequestID attaches a trace id to the request logger and echoes it back to the client.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.WithTraceID(r.Context(), traceID)
		w.Header().Set(TraceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
