package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Todo represents a single todo item owned by a user.
// The owner is set at creation and never changes; every store operation
// on a todo is scoped by it.
type Todo struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"owner"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// NewTodo creates a new Todo owned by the given user. The text is
// trimmed and must be non-empty afterwards. New todos start incomplete.
func NewTodo(userID uuid.UUID, text string) (*Todo, error) {
	now := time.Now().UTC()
	todo := &Todo{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      strings.TrimSpace(text),
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := todo.Validate(); err != nil {
		return nil, err
	}

	return todo, nil
}

// Validate checks if the Todo has valid data.
// Returns an error if any field fails validation.
func (t *Todo) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrEmptyTodoOwner
	}

	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyTodoText
	}

	// Completion state and timestamp must agree.
	if t.Completed && t.CompletedAt == nil {
		return ErrCompletionState
	}
	if !t.Completed && t.CompletedAt != nil {
		return ErrCompletionState
	}

	return nil
}

// SetText replaces the todo's text, applying the same trimming and
// non-empty rule as creation.
func (t *Todo) SetText(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyTodoText
	}
	t.Text = trimmed
	return nil
}

// SetCompletion recomputes the completion pair from the supplied flag.
// Completing stamps CompletedAt with the given time; anything else
// clears it. Updates never merge prior completion state.
func (t *Todo) SetCompletion(completed bool, now time.Time) {
	if completed {
		completedAt := now.UTC()
		t.Completed = true
		t.CompletedAt = &completedAt
		return
	}

	t.Completed = false
	t.CompletedAt = nil
}
