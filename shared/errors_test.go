package shared

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMatchesByCode(t *testing.T) {
	withData := ErrCooldownActive.WithData(map[string]interface{}{"retry_at": 10})

	assert.ErrorIs(t, withData, ErrCooldownActive)
	assert.NotErrorIs(t, withData, ErrDailyLimitReached)
	assert.Nil(t, ErrCooldownActive.Data, "WithData must not touch the sentinel")

	wrapped := fmt.Errorf("tip: %w", withData)
	assert.ErrorIs(t, wrapped, ErrCooldownActive)

	appErr, ok := GetAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, appErr.StatusCode)
	assert.Equal(t, map[string]interface{}{"retry_at": 10}, appErr.Data)

	_, ok = GetAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestNewBadRequestError(t *testing.T) {
	cause := errors.New("unexpected EOF")

	err := NewBadRequestError(cause, "")
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "Bad Request", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unexpected EOF")
}
