package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UserResponse defines the public view of a user. The password hash and
// session list never leave the server.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// CreateTodoRequest defines the payload for creating a todo.
type CreateTodoRequest struct {
	Text string `json:"text" validate:"required"`
}

// UpdateTodoRequest defines the payload for updating a todo. Only text
// and completed are accepted; any other field in the body is dropped by
// decoding. Completion is recomputed from the boolean on every update,
// so an absent or false flag clears completedAt.
type UpdateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// TodoEnvelope wraps a single todo, matching the {todo: ...} wire shape.
type TodoEnvelope struct {
	Todo *domain.Todo `json:"todo"`
}

// TodoListEnvelope wraps a todo list, matching the {todos: [...]} wire shape.
type TodoListEnvelope struct {
	Todos []*domain.Todo `json:"todos"`
}

// NotFoundResponse is the body for a well-formed id that matched no
// owned record. Malformed ids get an empty body instead.
type NotFoundResponse struct {
	Message string `json:"message"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
	}
}
