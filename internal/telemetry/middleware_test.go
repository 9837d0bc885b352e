package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authgate/authgate/internal/apictl"
)

// Instruments are noops without an SDK installed; these tests pin that the
// middleware is transparent to the handler chain either way.

func TestMiddlewarePassesThrough(t *testing.T) {
	metrics, err := NewGateMetrics()
	require.NoError(t, err)

	invoked := false
	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		invoked = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/ping", nil))

	assert.True(t, invoked)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMiddlewareObservesRejectedRequests(t *testing.T) {
	metrics, err := NewGateMetrics()
	require.NoError(t, err)

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(apictl.HeaderResponseType, string(apictl.ResponseTokenExpired))
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/orders", nil))

	assert.Equal(t, string(apictl.ResponseTokenExpired), rec.Header().Get(apictl.HeaderResponseType))
}
