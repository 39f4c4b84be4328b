package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	cause := errors.New("quota exceeded")

	assert.Equal(t, "Failed to generate AI content: quota exceeded", AIService(cause).Error())
	assert.Equal(t, "No content generated", EmptyContent().Error())
	assert.Equal(t, "Title is required", InvalidRequest(MsgTitleRequired).Error())
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("assemble: %w", DeckCreation(cause))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindDeckCreation, KindOf(err))
	assert.True(t, Is(err, KindDeckCreation))
	assert.False(t, Is(err, KindAIService))
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{InvalidRequest(MsgTitleRequired), http.StatusBadRequest},
		{AIService(errors.New("x")), http.StatusInternalServerError},
		{EmptyContent(), http.StatusInternalServerError},
		{DeckCreation(errors.New("x")), http.StatusInternalServerError},
		{Download(errors.New("x")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), tt.err.Error())
	}
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindUnknown))
}

func TestRetryable(t *testing.T) {
	assert.True(t, AIService(errors.New("timeout")).Retryable())
	assert.False(t, EmptyContent().Retryable())
	assert.False(t, InvalidRequest("bad").Retryable())
}
