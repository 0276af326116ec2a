// Package schedule implements the work-hours gate. In the prod profile the
// API only serves traffic Monday through Friday between 10:00 and 19:00 in
// the configured timezone; outside that window non-exempt requests get a
// 503 maintenance response.
package schedule

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/listoapp/listo-api/internal/config"
)

// Work window bounds, inclusive on both ends.
const (
	workStartHour = 10
	workEndHour   = 19
)

// Status values reported to clients.
const (
	StatusActive   = "ACTIVO"
	StatusInactive = "INACTIVO"
)

// state is the single structure the periodic check recomputes. Readers take
// the lock through the accessors; the check goroutine is the only writer.
type state struct {
	active      bool
	status      string
	schedule    string
	nextStart   string
	lastChecked time.Time
}

// Service owns the schedule state. Gating applies only when enabled in
// configuration and the profile is prod; otherwise the service reports
// always-active.
type Service struct {
	enabled bool
	prod    bool
	loc     *time.Location
	logger  *slog.Logger

	timeFunc func() time.Time

	mu sync.RWMutex
	st state
}

// NewService builds the schedule gate from configuration. An unknown
// timezone falls back to UTC with a warning rather than failing startup.
func NewService(cfg config.ScheduleConfig, profile string, logger *slog.Logger) *Service {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid schedule timezone, falling back to UTC", "timezone", cfg.Timezone, "error", err)
		loc = time.UTC
	}

	s := &Service{
		enabled:  cfg.Enabled,
		prod:     profile == "prod",
		loc:      loc,
		logger:   logger,
		timeFunc: time.Now,
	}
	s.CheckSchedule()
	return s
}

// WithTimeFunc overrides the clock. Test hook.
func (s *Service) WithTimeFunc(fn func() time.Time) *Service {
	s.timeFunc = fn
	s.CheckSchedule()
	return s
}

// gating reports whether work-hours gating applies at all.
func (s *Service) gating() bool {
	return s.enabled && s.prod
}

// CheckSchedule recomputes the schedule state. The scheduler calls this
// every 60 seconds; it is also invoked once at construction so the state is
// never empty.
func (s *Service) CheckSchedule() {
	now := s.timeFunc().In(s.loc)

	next := state{lastChecked: now}
	if !s.gating() {
		next.active = true
		next.status = StatusActive
		next.schedule = "Desarrollo local - Siempre activo"
		next.nextStart = "Siempre activo (desarrollo)"
	} else {
		next.active = isWorkTime(now)
		if next.active {
			next.status = StatusActive
		} else {
			next.status = StatusInactive
		}
		next.schedule = describeSchedule(now)
		next.nextStart = describeNextStart(now)
	}

	s.mu.Lock()
	changed := s.st.active != next.active || s.st.status == ""
	s.st = next
	s.mu.Unlock()

	if changed && s.gating() {
		if next.active {
			s.logger.Info("work hours started, application active")
		} else {
			s.logger.Info("work hours ended, application inactive")
		}
	}
}

// IsApplicationActive reports whether requests should be served right now.
func (s *Service) IsApplicationActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.active
}

// ScheduleStatus returns "ACTIVO" or "INACTIVO".
func (s *Service) ScheduleStatus() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.status
}

// CurrentSchedule returns a human readable description of the current
// window position.
func (s *Service) CurrentSchedule() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.schedule
}

// NextStartTime returns when the application next becomes active.
func (s *Service) NextStartTime() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.nextStart
}

// LastChecked returns the instant of the most recent recomputation.
func (s *Service) LastChecked() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.lastChecked
}

// isWorkTime reports whether t falls inside the Monday to Friday 10:00 to
// 19:00 window, endpoints included.
func isWorkTime(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	start := time.Date(t.Year(), t.Month(), t.Day(), workStartHour, 0, 0, 0, t.Location())
	end := time.Date(t.Year(), t.Month(), t.Day(), workEndHour, 0, 0, 0, t.Location())
	return !t.Before(start) && !t.After(end)
}

func describeSchedule(now time.Time) string {
	if isWorkTime(now) {
		end := time.Date(now.Year(), now.Month(), now.Day(), workEndHour, 0, 0, 0, now.Location())
		return fmt.Sprintf("Activo hasta %02d:00 (%s restante)", workEndHour, formatRemaining(end.Sub(now)))
	}

	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return "Fin de semana - Cerrado"
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), workStartHour, 0, 0, 0, now.Location())
	if now.Before(start) {
		return fmt.Sprintf("Cerrado - Abre a las %02d:00 (%s)", workStartHour, formatRemaining(start.Sub(now)))
	}
	return fmt.Sprintf("Cerrado - Abre mañana a las %02d:00", workStartHour)
}

func describeNextStart(now time.Time) string {
	end := time.Date(now.Year(), now.Month(), now.Day(), workEndHour, 0, 0, 0, now.Location())

	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return "Lunes 10:00"
	case time.Friday:
		if now.After(end) {
			return "Lunes 10:00"
		}
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), workStartHour, 0, 0, 0, now.Location())
	if now.Before(start) {
		return "Hoy 10:00"
	}
	return "Mañana 10:00"
}

func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
