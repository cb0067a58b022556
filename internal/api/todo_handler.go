package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/api/middleware"
	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
)

// todoNotFoundMessage is the body message for a well-formed id with no
// owned match. A todo owned by someone else gets this exact response
// too, so callers cannot probe for the existence of foreign records.
const todoNotFoundMessage = "todo not found"

// TodoHandler handles todo CRUD requests. Every operation is scoped to
// the authenticated caller's identity; the handler never queries by id
// alone.
type TodoHandler struct {
	todos store.TodoStore
}

// NewTodoHandler creates a new TodoHandler with the given dependencies.
func NewTodoHandler(todos store.TodoStore) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// Create handles POST /todos.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromRequest(r)
	if !ok {
		shared.RespondEmpty(w, http.StatusUnauthorized)
		return
	}

	var req CreateTodoRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	todo, err := domain.NewTodo(user.ID, req.Text)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.todos.Create(r.Context(), todo); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create todo", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, todo)
}

// List handles GET /todos, returning all todos owned by the caller.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromRequest(r)
	if !ok {
		shared.RespondEmpty(w, http.StatusUnauthorized)
		return
	}

	todos, err := h.todos.ListByOwner(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list todos", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TodoListEnvelope{Todos: todos})
}

// Get handles GET /todos/{id}.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromRequest(r)
	if !ok {
		shared.RespondEmpty(w, http.StatusUnauthorized)
		return
	}

	id, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	todo, err := h.todos.GetByID(r.Context(), id, user.ID)
	if err != nil {
		h.respondTodoError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TodoEnvelope{Todo: todo})
}

// Update handles PATCH /todos/{id}.
// The completion pair is always recomputed from the supplied boolean:
// completed=true stamps completedAt server-side, anything else forces
// completed=false and clears the timestamp.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromRequest(r)
	if !ok {
		shared.RespondEmpty(w, http.StatusUnauthorized)
		return
	}

	id, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	// An absent body is treated like {}: no text change, completion reset.
	var req UpdateTodoRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	todo, err := h.todos.GetByID(r.Context(), id, user.ID)
	if err != nil {
		h.respondTodoError(w, r, err)
		return
	}

	if req.Text != nil {
		if err := todo.SetText(*req.Text); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	completed := req.Completed != nil && *req.Completed
	todo.SetCompletion(completed, time.Now())

	if err := h.todos.Update(r.Context(), todo); err != nil {
		h.respondTodoError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TodoEnvelope{Todo: todo})
}

// Delete handles DELETE /todos/{id}, returning the deleted record.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromRequest(r)
	if !ok {
		shared.RespondEmpty(w, http.StatusUnauthorized)
		return
	}

	id, ok := parseTodoID(w, r)
	if !ok {
		return
	}

	todo, err := h.todos.Delete(r.Context(), id, user.ID)
	if err != nil {
		h.respondTodoError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, TodoEnvelope{Todo: todo})
}

// parseTodoID extracts and parses the {id} path parameter. A malformed
// id is answered with an empty-body 404, distinct from the descriptive
// body a well-formed miss gets.
func parseTodoID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondEmpty(w, http.StatusNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// respondTodoError maps store errors from owned-todo lookups onto the
// wire contract.
func (h *TodoHandler) respondTodoError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrTodoNotFound) {
		shared.RespondWithJSON(w, r, http.StatusNotFound,
			NotFoundResponse{Message: todoNotFoundMessage})
		return
	}

	shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
		"Todo operation failed", err)
}
