package chainhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashStringRoundTripRejectsWrongLength(t *testing.T) {
	_, err := NewHashFromStr("abcd")
	require.Error(t, err)
}

func TestHashStringRoundTripRealVector(t *testing.T) {
	const blockOneHash = "00000000839a8e6886ab5951d76f411475428afc90947ee320161bbf18eb6048"
	h, err := NewHashFromStr(blockOneHash)
	require.NoError(t, err)
	require.Equal(t, blockOneHash, h.String())
}

func TestDoubleHashDeterministic(t *testing.T) {
	a := DoubleHashH([]byte("hello"))
	b := DoubleHashH([]byte("hello"))
	require.Equal(t, a, b)
	require.NotEqual(t, a, DoubleHashH([]byte("world")))
}

func TestIsEqualNilSafe(t *testing.T) {
	var h Hash
	require.False(t, h.IsEqual(nil))
}
