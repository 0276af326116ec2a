package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/listoapp/listo-api/internal/schedule"
)

// maintenanceExemptPrefixes lists the paths that stay reachable while the
// application is outside its work hours: status introspection, metrics
// scraping and the auth endpoints.
var maintenanceExemptPrefixes = []string{
	"/api/app-status",
	"/api/auth",
	"/metrics",
}

// maintenanceResponse is the 503 body served outside work hours.
type maintenanceResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	ScheduleStatus string `json:"scheduleStatus"`
	NextStartTime  string `json:"nextStartTime"`
}

// MaintenanceMiddleware rejects non-exempt requests with 503 while the
// schedule gate reports the application inactive.
func MaintenanceMiddleware(sched *schedule.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sched.IsApplicationActive() || isMaintenanceExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			resp := maintenanceResponse{
				Status:         "MAINTENANCE",
				Message:        "La aplicación está fuera del horario de servicio",
				ScheduleStatus: sched.ScheduleStatus(),
				NextStartTime:  sched.NextStartTime(),
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				slog.Error("failed to encode maintenance response", "error", err)
			}
		})
	}
}

func isMaintenanceExempt(path string) bool {
	for _, prefix := range maintenanceExemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
