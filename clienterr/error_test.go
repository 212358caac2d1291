package clienterr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRuleErrorIs(t *testing.T) {
	err := Newf(ErrIncorrectTarget, "expected bits %d, got %d", 1, 2)
	require.True(t, errors.Is(err, New(ErrIncorrectTarget, "")))
	require.False(t, errors.Is(err, New(ErrTimeTooNew, "")))
}

func TestErrorCodeString(t *testing.T) {
	require.Equal(t, "ErrIncorrectTarget", ErrIncorrectTarget.String())
}
