package retarget

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/u256"
)

func extHeaderWithBitsTime(bits, time uint32, height uint64) header.ExtendedHeader {
	return header.ExtendedHeader{Bits: bits, Time: time, BlockHeight: height}
}

func TestCalculateNextWorkRequiredDigishieldOnSchedule(t *testing.T) {
	p := chainparams.DogecoinMainnet()
	prev := extHeaderWithBitsTime(0x1e0fffff, 1000, 200000)
	// actual == expected spacing: modulated == expected, target unchanged.
	firstTime := prev.Time - uint32(p.PowTargetSpacing)

	got, err := calculateNextWorkRequiredDigishield(p, &prev, firstTime)
	require.NoError(t, err)
	require.Equal(t, prev.Bits, got)
}

func TestCalculateNextWorkRequiredDigishieldClampsUpperSpan(t *testing.T) {
	p := chainparams.DogecoinMainnet()
	prev := extHeaderWithBitsTime(0x1e00ffff, 100000, 200000)
	// actual gap enormously larger than expected: modulated clamps to 3x expected.
	firstTime := prev.Time - uint32(p.PowTargetSpacing)*1000

	got, err := calculateNextWorkRequiredDigishield(p, &prev, firstTime)
	require.NoError(t, err)

	clampedTarget := u256.TargetFromBits(prev.Bits)
	clampedTarget, overflow := clampedTarget.OverflowingMulUint64(3)
	require.False(t, overflow)
	want := u256.TargetToBits(clampedTarget)
	require.Equal(t, want, got)
}
