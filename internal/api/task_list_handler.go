package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/listoapp/listo-api/internal/api/shared"
	"github.com/listoapp/listo-api/internal/service"
)

// TaskListHandler handles task list CRUD.
type TaskListHandler struct {
	listService service.TaskListService
	validator   *validator.Validate
}

// NewTaskListHandler creates a new TaskListHandler.
func NewTaskListHandler(listService service.TaskListService) *TaskListHandler {
	return &TaskListHandler{
		listService: listService,
		validator:   validator.New(),
	}
}

// Create handles POST /api/lists.
func (h *TaskListHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateListRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, SanitizeValidationError(err))
		return
	}

	list, err := h.listService.CreateList(r.Context(), userID, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewListResponse(list))
}

// Get handles GET /api/lists/{listID}.
func (h *TaskListHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := requireUserAndPathUUID(w, r, "listID")
	if !ok {
		return
	}

	list, err := h.listService.GetList(r.Context(), userID, listID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewListResponse(list))
}

// List handles GET /api/lists.
func (h *TaskListHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	lists, err := h.listService.ListLists(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	out := make([]ListResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, NewListResponse(l))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Update handles PUT /api/lists/{listID}.
func (h *TaskListHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := requireUserAndPathUUID(w, r, "listID")
	if !ok {
		return
	}

	var req CreateListRequest
	if err := DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, SanitizeValidationError(err))
		return
	}

	list, err := h.listService.UpdateList(r.Context(), userID, listID, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewListResponse(list))
}

// Delete handles DELETE /api/lists/{listID}.
func (h *TaskListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, listID, ok := requireUserAndPathUUID(w, r, "listID")
	if !ok {
		return
	}

	if err := h.listService.DeleteList(r.Context(), userID, listID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
