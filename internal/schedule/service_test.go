package schedule

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/listoapp/listo-api/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProdService(at time.Time) *Service {
	svc := NewService(config.ScheduleConfig{Enabled: true, Timezone: "UTC"}, "prod", discardLogger())
	return svc.WithTimeFunc(func() time.Time { return at })
}

// March 2nd 2026 is a Monday.
func weekdayAt(hour, minute int) time.Time {
	return time.Date(2026, time.March, 2, hour, minute, 0, 0, time.UTC)
}

func TestIsApplicationActive_WeekdayWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		at     time.Time
		active bool
	}{
		{"before opening", weekdayAt(9, 59), false},
		{"opening minute", weekdayAt(10, 0), true},
		{"midday", weekdayAt(14, 30), true},
		{"closing hour inclusive", weekdayAt(19, 0), true},
		{"just after closing", weekdayAt(19, 1), false},
		{"late night", weekdayAt(23, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.active, newProdService(tc.at).IsApplicationActive())
		})
	}
}

func TestIsApplicationActive_WeekendAlwaysInactive(t *testing.T) {
	t.Parallel()

	saturdayNoon := time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)
	sundayNoon := time.Date(2026, time.March, 8, 12, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{saturdayNoon, sundayNoon} {
		svc := newProdService(at)
		assert.False(t, svc.IsApplicationActive())
		assert.Equal(t, StatusInactive, svc.ScheduleStatus())
		assert.Equal(t, "Fin de semana - Cerrado", svc.CurrentSchedule())
		assert.Equal(t, "Lunes 10:00", svc.NextStartTime())
	}
}

func TestIsApplicationActive_DevProfileNeverGates(t *testing.T) {
	t.Parallel()

	saturdayNight := time.Date(2026, time.March, 7, 23, 0, 0, 0, time.UTC)
	svc := NewService(config.ScheduleConfig{Enabled: true, Timezone: "UTC"}, "dev", discardLogger()).
		WithTimeFunc(func() time.Time { return saturdayNight })

	assert.True(t, svc.IsApplicationActive())
	assert.Equal(t, StatusActive, svc.ScheduleStatus())
	assert.Equal(t, "Desarrollo local - Siempre activo", svc.CurrentSchedule())
}

func TestIsApplicationActive_DisabledGateIsAlwaysActive(t *testing.T) {
	t.Parallel()

	saturdayNight := time.Date(2026, time.March, 7, 23, 0, 0, 0, time.UTC)
	svc := NewService(config.ScheduleConfig{Enabled: false, Timezone: "UTC"}, "prod", discardLogger()).
		WithTimeFunc(func() time.Time { return saturdayNight })

	assert.True(t, svc.IsApplicationActive())
}

func TestCheckSchedule_TransitionAcrossClosing(t *testing.T) {
	t.Parallel()

	now := weekdayAt(18, 59)
	svc := newProdService(now)
	assert.True(t, svc.IsApplicationActive())

	now = weekdayAt(19, 1)
	svc.timeFunc = func() time.Time { return now }
	svc.CheckSchedule()

	assert.False(t, svc.IsApplicationActive())
	assert.Equal(t, StatusInactive, svc.ScheduleStatus())
	assert.Equal(t, "Mañana 10:00", svc.NextStartTime())
}

func TestCurrentSchedule_Descriptions(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Cerrado - Abre a las 10:00 (1h 30m)",
		newProdService(weekdayAt(8, 30)).CurrentSchedule())

	assert.Equal(t, "Activo hasta 19:00 (4h 30m)",
		newProdService(weekdayAt(14, 30)).CurrentSchedule())

	assert.Equal(t, "Cerrado - Abre mañana a las 10:00",
		newProdService(weekdayAt(20, 0)).CurrentSchedule())
}

func TestNextStartTime_FridayNightPointsToMonday(t *testing.T) {
	t.Parallel()

	// March 6th 2026 is a Friday.
	fridayNight := time.Date(2026, time.March, 6, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "Lunes 10:00", newProdService(fridayNight).NextStartTime())
}

func TestNewService_InvalidTimezoneFallsBackToUTC(t *testing.T) {
	t.Parallel()

	svc := NewService(config.ScheduleConfig{Enabled: true, Timezone: "Mars/Olympus"}, "prod", discardLogger()).
		WithTimeFunc(func() time.Time { return weekdayAt(12, 0) })

	assert.True(t, svc.IsApplicationActive())
}

func TestLastChecked(t *testing.T) {
	t.Parallel()

	at := weekdayAt(12, 0)
	svc := newProdService(at)
	assert.Equal(t, at, svc.LastChecked())
}
