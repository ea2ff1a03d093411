package http

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/GophTodo/internal/middleware"
	"github.com/atinyakov/GophTodo/internal/models"
)

// TodoService defines the to-do operations required by the TodoHandler.
// Every call is scoped to the authenticated user.
type TodoService interface {
	List(ctx context.Context, userID int64) ([]models.Todo, error)
	Create(ctx context.Context, userID int64, t models.Todo) (models.Todo, error)
	Update(ctx context.Context, userID int64, t models.Todo) (models.Todo, error)
	// Delete removes ids and returns the remaining collection.
	Delete(ctx context.Context, userID int64, ids []int64) ([]models.Todo, error)
}

// TodoHandler handles HTTP requests for the user's to-do collection.
type TodoHandler struct {
	TodoService TodoService
	// Logger receives unexpected failures. May be nil.
	Logger *zap.Logger
}

func (h *TodoHandler) user(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id := middleware.GetUserIDFromContext(r.Context())
	if id == 0 {
		writeError(w, http.StatusUnauthorized, "unauthenticated")
		return 0, false
	}
	return id, true
}

// List handles GET /api/todos.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	todos, err := h.TodoService.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

// Create handles POST /api/todo/create and returns the stored item.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	var t models.Todo
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	created, err := h.TodoService.Create(r.Context(), userID, t)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// Update handles PUT /api/todo/update and returns the stored item.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	var t models.Todo
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	updated, err := h.TodoService.Update(r.Context(), userID, t)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/todo/delete with a {"ids": [...]} body and
// returns the remaining collection.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	var req models.IDs
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	remaining, err := h.TodoService.Delete(r.Context(), userID, req.IDs)
	if err != nil {
		writeServiceError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, remaining)
}
