package api

import (
	"net/http"

	"github.com/listoapp/listo-api/internal/api/shared"
	"github.com/listoapp/listo-api/internal/schedule"
)

// StatusHandler exposes the schedule gate read-only. These endpoints stay
// reachable during maintenance so clients can explain the downtime.
type StatusHandler struct {
	sched *schedule.Service
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(sched *schedule.Service) *StatusHandler {
	return &StatusHandler{sched: sched}
}

// Status handles GET /api/app-status. It reports the gate state plus the
// formatted schedule descriptions.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := "UP"
	if !h.sched.IsApplicationActive() {
		status = "MAINTENANCE"
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{
		Status:          status,
		ScheduleStatus:  h.sched.ScheduleStatus(),
		CurrentSchedule: h.sched.CurrentSchedule(),
		NextStartTime:   h.sched.NextStartTime(),
	})
}

// Health handles GET /api/app-status/health, a bare liveness probe.
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
