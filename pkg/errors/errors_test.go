package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	base := stderrors.New("connection refused")
	wrapped := Wrap(base, "failed to query stories")

	require.EqualError(t, wrapped, "failed to query stories: connection refused")
	require.True(t, Is(wrapped, base), "wrapping must preserve the chain")
	require.Nil(t, Wrap(nil, "nothing"), "wrapping nil stays nil")
}

func TestIsNotFound(t *testing.T) {
	err := Wrap(ErrNotFound, "story not found")

	require.True(t, IsNotFound(err))
	require.True(t, IsNotFound(Wrap(err, "outer")), "detection survives double wrapping")
	require.False(t, IsNotFound(stderrors.New("something else")))
}
