package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider("vaultactions")
	require.NoError(t, err)
	require.NotNil(t, provider)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	assert.NotNil(t, provider.MeterProvider())
	assert.NotNil(t, provider.Handler())
}

func TestProviderHandlerServesMetrics(t *testing.T) {
	provider, err := NewProvider("vaultactions")
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	business, err := NewBusinessMetrics(provider.MeterProvider(), "vaultactions")
	require.NoError(t, err)

	business.RecordOperation(context.Background(), "action", "bridger_call", "success")
	business.RecordDuration(context.Background(), "action", "bridger_call", 25*time.Millisecond, "success")

	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vaultactions_operations_total")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	m := NewNoOpBusinessMetrics()

	// Must not panic.
	m.RecordOperation(context.Background(), "authz", "authorize", "success")
	m.RecordDuration(context.Background(), "authz", "authorize", time.Second, "error")
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("vaultactions")
	require.NoError(t, err)
	defer func() { _ = provider.Shutdown(context.Background()) }()

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "vaultactions"))
	router.GET("/v1/actions/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/actions/abc", nil))
	require.Equal(t, http.StatusOK, w.Code)

	mw := httptest.NewRecorder()
	provider.Handler().ServeHTTP(mw, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, mw.Body.String(), "vaultactions_http_requests_total")
	assert.Contains(t, mw.Body.String(), "/v1/actions/:id")
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "unknown", sanitizePath(""))
	assert.Equal(t, "/v1/actions/:id/call", sanitizePath("/v1/actions/:id/call"))
}
