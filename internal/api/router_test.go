package api

import (
	"net/http/httptest"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/facegate/internal/config"
	"github.com/saturnino-fabrica-de-software/facegate/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/facegate/internal/repository"

	"log/slog"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	mockPool.ExpectQuery("SELECT name, embedding").
		WillReturnRows(pgxmock.NewRows([]string{"name", "embedding", "access_start", "access_end", "created_at", "updated_at"}))

	router := NewRouter(slog.New(slog.DiscardHandler), &Dependencies{
		Config: &config.Config{
			APIKey: "test-key",
			Zone:   "Main Gate",
		},
		IdentityRepo: repository.NewIdentityRepository(mockPool),
		Detector:     mock.New(),
	})
	router.Setup()
	t.Cleanup(func() { _ = router.Shutdown() })
	return router
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router := newTestRouter(t)

	resp, err := router.App().Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestRouter_ProtectedRoutesRequireAPIKey(t *testing.T) {
	router := newTestRouter(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{"GET", "/v1/identities"},
		{"POST", "/v1/registrations"},
		{"POST", "/v1/frames"},
		{"GET", "/v1/events"},
		{"GET", "/v1/stream"},
	} {
		resp, err := router.App().Test(httptest.NewRequest(route.method, route.path, nil))
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode, "%s %s", route.method, route.path)
	}
}

func TestRouter_EventsWithAPIKey(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/v1/events", nil)
	req.Header.Set("X-API-Key", "test-key")

	resp, err := router.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
