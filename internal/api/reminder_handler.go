package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/listoapp/listo-api/internal/api/shared"
	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/reminder"
	"github.com/listoapp/listo-api/internal/service"
)

// ReminderHandler handles per-task reminder management. Task ownership is
// checked through the task service before touching reminders.
type ReminderHandler struct {
	taskService service.TaskService
	reminders   *reminder.TaskReminderService
	validator   *validator.Validate
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(taskService service.TaskService, reminders *reminder.TaskReminderService) *ReminderHandler {
	return &ReminderHandler{
		taskService: taskService,
		reminders:   reminders,
		validator:   validator.New(),
	}
}

// Create handles POST /api/tasks/{taskID}/reminders.
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "taskID")
	if !ok {
		return
	}

	var req CreateReminderRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, SanitizeValidationError(err))
		return
	}

	// Ownership gate: a foreign task reads as not found.
	if _, err := h.taskService.GetTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	rem, err := h.reminders.CreateReminder(r.Context(), taskID, req.ReminderTime, domain.ReminderType(req.ReminderType))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewReminderResponse(rem))
}

// List handles GET /api/tasks/{taskID}/reminders. Only unsent reminders are
// returned.
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "taskID")
	if !ok {
		return
	}

	if _, err := h.taskService.GetTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	rems, err := h.reminders.GetTaskReminders(r.Context(), taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	out := make([]ReminderResponse, 0, len(rems))
	for _, rem := range rems {
		out = append(out, NewReminderResponse(rem))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Delete handles DELETE /api/tasks/{taskID}/reminders/{reminderID}.
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "taskID")
	if !ok {
		return
	}

	reminderID, err := getPathUUID(r, "reminderID")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if _, err := h.taskService.GetTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.reminders.DeleteReminder(r.Context(), reminderID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
