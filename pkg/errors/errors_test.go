package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrGenerationInProgress)

	got := FromError(wrapped)
	assert.Same(t, ErrGenerationInProgress, got)
	assert.True(t, HasCode(wrapped, "GENERATION_IN_PROGRESS"))
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("boom")

	got := FromError(cause)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.ErrorIs(t, got, cause)
	assert.Nil(t, FromError(nil))
}

func TestCloneDoesNotMutateShared(t *testing.T) {
	c := Clone(ErrValidation, "No classes found")

	assert.Equal(t, "No classes found", c.Message)
	assert.Equal(t, "validation failed", ErrValidation.Message)
	assert.Equal(t, ErrValidation.Status, c.Status)
	assert.False(t, HasCode(errors.New("x"), ErrValidation.Code))
}
