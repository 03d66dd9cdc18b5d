package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMatchesByKind(t *testing.T) {
	err := Conflict("email already registered, use login instead")
	require.ErrorIs(t, err, ErrConflict)
	require.NotErrorIs(t, err, ErrNotFound)

	wrapped := fmt.Errorf("request code: %w", err)
	require.ErrorIs(t, wrapped, ErrConflict)
	require.Equal(t, KindConflict, KindOf(wrapped))
	require.Equal(t, "email already registered, use login instead", MessageOf(wrapped, "x"))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage(cause)
	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, ErrStorage)
	require.Contains(t, err.Error(), "connection refused")
}

func TestKindOfPlainError(t *testing.T) {
	require.Equal(t, Kind(""), KindOf(errors.New("boom")))
	require.Equal(t, "fallback", MessageOf(errors.New("boom"), "fallback"))
}
