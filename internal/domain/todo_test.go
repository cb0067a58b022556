package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTodo(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()

	t.Run("valid todo", func(t *testing.T) {
		t.Parallel()
		todo, err := NewTodo(ownerID, "buy milk")
		require.NoError(t, err)
		assert.Equal(t, ownerID, todo.UserID)
		assert.Equal(t, "buy milk", todo.Text)
		assert.False(t, todo.Completed)
		assert.Nil(t, todo.CompletedAt)
	})

	t.Run("text is trimmed", func(t *testing.T) {
		t.Parallel()
		todo, err := NewTodo(ownerID, "  buy milk  ")
		require.NoError(t, err)
		assert.Equal(t, "buy milk", todo.Text)
	})

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()
		_, err := NewTodo(ownerID, "")
		assert.ErrorIs(t, err, ErrEmptyTodoText)
	})

	t.Run("whitespace only text", func(t *testing.T) {
		t.Parallel()
		_, err := NewTodo(ownerID, "   \t ")
		assert.ErrorIs(t, err, ErrEmptyTodoText)
	})

	t.Run("missing owner", func(t *testing.T) {
		t.Parallel()
		_, err := NewTodo(uuid.Nil, "buy milk")
		assert.ErrorIs(t, err, ErrEmptyTodoOwner)
	})
}

func TestTodoSetCompletion(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("completing stamps the timestamp", func(t *testing.T) {
		t.Parallel()
		todo, err := NewTodo(uuid.New(), "buy milk")
		require.NoError(t, err)

		todo.SetCompletion(true, now)
		assert.True(t, todo.Completed)
		require.NotNil(t, todo.CompletedAt)
		assert.Equal(t, now, *todo.CompletedAt)
		assert.NoError(t, todo.Validate())
	})

	t.Run("clearing resets the timestamp regardless of prior state", func(t *testing.T) {
		t.Parallel()
		todo, err := NewTodo(uuid.New(), "buy milk")
		require.NoError(t, err)

		todo.SetCompletion(true, now)
		todo.SetCompletion(false, now.Add(time.Hour))
		assert.False(t, todo.Completed)
		assert.Nil(t, todo.CompletedAt)
		assert.NoError(t, todo.Validate())
	})

	t.Run("recompleting refreshes the timestamp", func(t *testing.T) {
		t.Parallel()
		todo, err := NewTodo(uuid.New(), "buy milk")
		require.NoError(t, err)

		todo.SetCompletion(true, now)
		later := now.Add(2 * time.Hour)
		todo.SetCompletion(true, later)
		require.NotNil(t, todo.CompletedAt)
		assert.Equal(t, later, *todo.CompletedAt)
	})
}

func TestTodoValidateCompletionInvariant(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	t.Run("completed without timestamp", func(t *testing.T) {
		t.Parallel()
		todo := &Todo{ID: uuid.New(), UserID: uuid.New(), Text: "x", Completed: true}
		assert.ErrorIs(t, todo.Validate(), ErrCompletionState)
	})

	t.Run("timestamp without completed", func(t *testing.T) {
		t.Parallel()
		todo := &Todo{ID: uuid.New(), UserID: uuid.New(), Text: "x", CompletedAt: &now}
		assert.ErrorIs(t, todo.Validate(), ErrCompletionState)
	})
}

func TestTodoSetText(t *testing.T) {
	t.Parallel()

	todo, err := NewTodo(uuid.New(), "buy milk")
	require.NoError(t, err)

	require.NoError(t, todo.SetText("  walk dog  "))
	assert.Equal(t, "walk dog", todo.Text)

	assert.ErrorIs(t, todo.SetText("   "), ErrEmptyTodoText)
	assert.Equal(t, "walk dog", todo.Text)
}
