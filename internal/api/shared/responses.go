package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/listoapp/listo-api/internal/redact"
)

// Application error codes grouped by family. Clients branch on these rather
// than on HTTP status alone.
const (
	CodeAuthenticationFailed = 1000
	CodeInvalidCredentials   = 1001
	CodeSessionExpired       = 1002

	CodeUnauthorizedAccess = 2000

	CodeValidationError = 3000
	CodeInvalidInput    = 3001
	CodeInvalidFormat   = 3003

	CodeResourceNotFound  = 4000
	CodeDuplicateResource = 4001

	CodeInternalError      = 9000
	CodeServiceUnavailable = 9001
)

// ErrorResponse is the standard error body. The errorCode field carries the
// application code family (1000 auth, 2000 authz, 3000 validation, 4000
// resource, 9000 system).
type ErrorResponse struct {
	Status    int       `json:"status"`
	ErrorCode int       `json:"errorCode"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	TraceID   string    `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes the standard error body.
func RespondWithError(w http.ResponseWriter, r *http.Request, status, errorCode int, message string) {
	RespondWithJSON(w, r, status, ErrorResponse{
		Status:    status,
		ErrorCode: errorCode,
		Message:   message,
		Timestamp: time.Now().UTC(),
		Path:      r.URL.Path,
		TraceID:   GetTraceID(r.Context()),
	})
}

// RespondWithErrorAndLog writes the standard error body and logs the
// underlying error, redacted, at a level chosen by the status code. The raw
// error never reaches the client.
func RespondWithErrorAndLog(w http.ResponseWriter, r *http.Request, status, errorCode int, message string, err error) {
	logAttrs := []slog.Attr{
		slog.String("trace_id", GetTraceID(r.Context())),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method),
		slog.Int("status_code", status),
		slog.Int("error_code", errorCode),
		slog.String("user_message", message),
	}
	if err != nil {
		logAttrs = append(logAttrs, slog.String("error", redact.Error(err)))
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response", logAttrs...)

	RespondWithError(w, r, status, errorCode, message)
}
