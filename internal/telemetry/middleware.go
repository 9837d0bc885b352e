package telemetry

import (
	"net/http"
	"time"

	"github.com/authgate/authgate/internal/apictl"
)

// Middleware instruments the handler chain: one request count per call, a
// latency sample, and a reject count whenever the gate wrote a failure
// outcome. It must sit above the gate so it observes the outcome header.
func (m *GateMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		start := time.Now()

		m.RecordRequest(ctx, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)

		outcome := apictl.ResponseVerifiedType(w.Header().Get(apictl.HeaderResponseType))
		if outcome.Failure() {
			m.RecordReject(ctx, r.Method, r.URL.Path, string(outcome))
		}

		m.RecordDuration(ctx, r.Method, float64(time.Since(start).Milliseconds()))
	})
}
