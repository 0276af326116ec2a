package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/listoapp/listo-api/internal/api/shared"
	"github.com/listoapp/listo-api/internal/service"
)

// PreferencesHandler handles notification preference reads and saves.
type PreferencesHandler struct {
	prefsService service.PreferencesService
	validator    *validator.Validate
}

// NewPreferencesHandler creates a new PreferencesHandler.
func NewPreferencesHandler(prefsService service.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{
		prefsService: prefsService,
		validator:    validator.New(),
	}
}

// Get handles GET /api/notifications/preferences. Users who never saved
// preferences get the disabled-everything default.
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	prefs, err := h.prefsService.GetPreferences(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewPreferencesResponse(prefs))
}

// Save handles POST /api/notifications/preferences. The whole record is
// replaced; saving twice never creates a second row.
func (h *PreferencesHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req PreferencesRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, SanitizeValidationError(err))
		return
	}

	prefs, err := h.prefsService.SavePreferences(r.Context(), userID, service.PreferencesInput{
		Email:                req.Email,
		DueDateReminder:      req.DueDateReminder,
		FollowUpReminder:     req.FollowUpReminder,
		DailySummary:         req.DailySummary,
		WeeklySummary:        req.WeeklySummary,
		WeekendNotifications: req.WeekendNotifications,
		DueDateReminderLead:  req.DueDateReminderLead,
		DailySummaryTime:     req.DailySummaryTime,
		WeeklySummaryTime:    req.WeeklySummaryTime,
		WeeklySummaryDay:     req.WeeklySummaryDay,
		MinPriority:          req.MinPriority,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewPreferencesResponse(prefs))
}
