package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/listoapp/listo-api/internal/api/shared"
	"github.com/listoapp/listo-api/internal/domain"
	"github.com/listoapp/listo-api/internal/service"
	"github.com/listoapp/listo-api/internal/store"
)

// TaskHandler handles task CRUD, filtering and search.
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
	}
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, SanitizeValidationError(err))
		return
	}

	priority := req.Priority
	if priority == 0 {
		priority = domain.PriorityMedium
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, req.Title, req.Description, priority, req.DueDate, req.ListID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// Get handles GET /api/tasks/{taskID}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "taskID")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// List handles GET /api/tasks. Query parameters narrow the result:
// completed=true|false, priority=1..3, list_id=<uuid>, q=<search text>.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// Update handles PUT /api/tasks/{taskID}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "taskID")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), userID, taskID, service.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		ClearDue:    req.ClearDue,
		ListID:      req.ListID,
		ClearList:   req.ClearList,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /api/tasks/{taskID}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathUUID(w, r, "taskID")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByDueDate handles GET /api/tasks/duedate. Both bounds are RFC 3339;
// either may be omitted.
func (h *TaskHandler) ListByDueDate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var filter store.TaskFilter
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("from", "must be an RFC 3339 timestamp", domain.ErrInvalidFormat), "")
			return
		}
		filter.DueFrom = &from
	}
	if v := q.Get("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("to", "must be an RFC 3339 timestamp", domain.ErrInvalidFormat), "")
			return
		}
		filter.DueTo = &to
	}
	if filter.DueFrom == nil && filter.DueTo == nil {
		HandleAPIError(w, r, domain.NewValidationError("from", "at least one bound is required", domain.ErrValidation), "")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// Search handles GET /api/tasks/search.
func (h *TaskHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	term := r.URL.Query().Get("q")
	if term == "" {
		HandleAPIError(w, r, domain.NewValidationError("q", "is required", domain.ErrValidation), "")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID, store.TaskFilter{Search: term})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// ListByPriority handles GET /api/tasks/priority/{priority}.
func (h *TaskHandler) ListByPriority(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	priority, err := strconv.Atoi(chi.URLParam(r, "priority"))
	if err != nil || priority < domain.PriorityHigh || priority > domain.PriorityLow {
		HandleAPIError(w, r, domain.ErrInvalidPriority, "")
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), userID, store.TaskFilter{Priority: &priority})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// parseTaskFilter builds the store filter from query parameters.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	var filter store.TaskFilter
	q := r.URL.Query()

	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return filter, domain.NewValidationError("completed", "must be true or false", domain.ErrValidation)
		}
		filter.Completed = &completed
	}

	if v := q.Get("priority"); v != "" {
		priority, err := strconv.Atoi(v)
		if err != nil || priority < domain.PriorityHigh || priority > domain.PriorityLow {
			return filter, domain.ErrInvalidPriority
		}
		filter.Priority = &priority
	}

	if v := q.Get("list_id"); v != "" {
		listID, err := uuid.Parse(v)
		if err != nil {
			return filter, domain.NewValidationError("list_id", "has invalid format", domain.ErrInvalidID)
		}
		filter.ListID = &listID
	}

	filter.Search = q.Get("q")
	return filter, nil
}
