package u256

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompactRoundTrip(t *testing.T) {
	for _, bits := range []uint32{0x1d00ffff, 0x1e0fffff, 0x1f07ffff, 0x2007ffff, 0x1e03ffff} {
		target := TargetFromBits(bits)
		require.Equal(t, bits, TargetToBits(target), "round trip for %#x", bits)
	}
}

func TestWorkFromTargetOverrides(t *testing.T) {
	require.Equal(t, Max, WorkFromTarget(Zero))
	require.Equal(t, Max, WorkFromTarget(One))
	require.Equal(t, One, WorkFromTarget(Max))
}

func TestWorkFromTargetMonotonic(t *testing.T) {
	hard := TargetFromBits(0x1d00ffff)
	easy := TargetFromBits(0x1e03ffff)
	require.True(t, hard.LessThan(easy))
	require.True(t, WorkFromTarget(hard).GreaterThan(WorkFromTarget(easy)))
}
