package custom_error

import (
	"testing"

	"github.com/ubbbj/laptop-rental/pkg/metadata"

	"github.com/stretchr/testify/assert"
)

func TestWrapDBError(t *testing.T) {
	t.Run("maps 23505 to unique violation", func(t *testing.T) {
		err := WrapDBError("duplicate key value", "23505")

		_, ok := err.(*UniqueViolationError)
		assert.True(t, ok)
		assert.Contains(t, err.Error(), "23505")
	})

	t.Run("maps 23503 to foreign key violation", func(t *testing.T) {
		err := WrapDBError("laptops", "23503")

		_, ok := err.(*ForeignKeyViolationError)
		assert.True(t, ok)
	})

	t.Run("other codes stay uncategorized", func(t *testing.T) {
		err := WrapDBError("deadlock detected", "40P01")

		_, ok := err.(*UniqueViolationError)
		assert.False(t, ok)
		assert.Contains(t, err.Error(), "40P01")
	})
}

func TestStateConflictErrorMessage(t *testing.T) {
	err := &StateConflictError{
		Current:  metadata.StatePending,
		Expected: metadata.StateConfirmed,
	}

	assert.Equal(t, "illegal rental transition: laptop is pending, operation requires confirmed", err.Error())
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := &NotFoundError{Resource: "laptop", ID: 42}

	assert.Equal(t, "laptop with id 42 not found", err.Error())
}
