package router_test

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ezsplit/ezsplit-go/internal/config"
	"github.com/ezsplit/ezsplit-go/internal/models"
	"github.com/ezsplit/ezsplit-go/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	require.NoError(t, models.Connect(filepath.Join(t.TempDir(), "ezsplit.db")))
	t.Cleanup(func() { require.NoError(t, models.Close()) })

	r, teardown, err := router.Router(config.Load())
	require.NoError(t, err, "router could not be initialized")
	t.Cleanup(teardown)

	return r
}

func TestGinModeDefaultsToRelease(t *testing.T) {
	assert.Equal(t, gin.ReleaseMode, router.GinMode())

	t.Setenv("GIN_MODE", "debug")
	assert.Equal(t, gin.DebugMode, router.GinMode())
}

func TestMetricsEndpoint(t *testing.T) {
	r := testRouter(t)

	// Counters only show up once something was recorded.
	warmup := httptest.NewRecorder()
	warmupRequest, _ := http.NewRequest(http.MethodGet, "/session", nil)
	r.ServeHTTP(warmup, warmupRequest)

	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ezsplit_requests_total")
}

func TestMethodNotAllowed(t *testing.T) {
	r := testRouter(t)

	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(http.MethodPatch, "/session", nil)
	r.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestUnauthenticatedRequest(t *testing.T) {
	r := testRouter(t)

	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(http.MethodGet, "/groups", nil)
	r.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequestID(t *testing.T) {
	r := testRouter(t)

	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	r.ServeHTTP(recorder, request)

	assert.NotEmpty(t, recorder.Header().Get("X-Request-ID"))
}
