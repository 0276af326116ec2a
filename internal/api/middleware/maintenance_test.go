package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listoapp/listo-api/internal/config"
	"github.com/listoapp/listo-api/internal/schedule"
)

// gatedService builds a prod schedule gate pinned to the given instant.
func gatedService(at time.Time) *schedule.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := schedule.NewService(config.ScheduleConfig{Enabled: true, Timezone: "UTC"}, "prod", logger)
	return svc.WithTimeFunc(func() time.Time { return at })
}

func runMaintenance(t *testing.T, svc *schedule.Service, path string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	MaintenanceMiddleware(svc)(next).ServeHTTP(w, r)
	return w, called
}

func TestMaintenanceMiddleware_PassesDuringWorkHours(t *testing.T) {
	// Monday 12:00 UTC, inside the Mon-Fri 10:00-19:00 window.
	svc := gatedService(time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC))

	w, called := runMaintenance(t, svc, "/api/tasks")

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMaintenanceMiddleware_BlocksOutsideWorkHours(t *testing.T) {
	// Saturday, always closed.
	svc := gatedService(time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC))

	w, called := runMaintenance(t, svc, "/api/tasks")

	assert.False(t, called)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body maintenanceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "MAINTENANCE", body.Status)
	assert.Equal(t, "La aplicación está fuera del horario de servicio", body.Message)
	assert.Equal(t, "INACTIVO", body.ScheduleStatus)
	assert.Equal(t, "Lunes 10:00", body.NextStartTime)
}

func TestMaintenanceMiddleware_ExemptPathsStayReachable(t *testing.T) {
	svc := gatedService(time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC))

	for _, path := range []string{
		"/api/app-status",
		"/api/app-status/schedule",
		"/api/auth/login",
		"/api/auth/refresh",
		"/metrics",
	} {
		w, called := runMaintenance(t, svc, path)
		assert.True(t, called, "path %s should bypass the gate", path)
		assert.Equal(t, http.StatusOK, w.Code, "path %s", path)
	}
}

func TestMaintenanceMiddleware_NonExemptAPIRoutesAreGated(t *testing.T) {
	svc := gatedService(time.Date(2026, time.March, 8, 12, 0, 0, 0, time.UTC))

	for _, path := range []string{"/api/tasks", "/api/lists", "/api/users/me", "/api/notifications/preferences"} {
		w, called := runMaintenance(t, svc, path)
		assert.False(t, called, "path %s", path)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, "path %s", path)
	}
}

func TestMaintenanceMiddleware_DisabledGateNeverBlocks(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := schedule.NewService(config.ScheduleConfig{Enabled: false, Timezone: "UTC"}, "prod", logger)
	svc = svc.WithTimeFunc(func() time.Time {
		return time.Date(2026, time.March, 7, 3, 0, 0, 0, time.UTC)
	})

	w, called := runMaintenance(t, svc, "/api/tasks")

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}
