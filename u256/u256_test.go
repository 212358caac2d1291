package u256

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringIsBigEndianHex(t *testing.T) {
	require.Equal(t, "0000000000000000000000000000000000000000000000000000000000000001", One.String())
	require.Equal(t, "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", Max.String())
	require.Len(t, FromUint64(42).String(), 64)
}

func TestInverseEdgeCases(t *testing.T) {
	require.Equal(t, Max, Zero.Inverse())
	require.Equal(t, One, Max.Inverse())
}

func TestInverseMonotonic(t *testing.T) {
	small := FromUint64(1)
	large := FromUint64(1 << 20)
	// a smaller target implies more work to satisfy it.
	require.True(t, small.Inverse().GreaterThan(large.Inverse()))
}

func TestSaturatingAdd(t *testing.T) {
	require.Equal(t, Max, Max.SaturatingAdd(One))
	require.Equal(t, FromUint64(3), FromUint64(1).SaturatingAdd(FromUint64(2)))
}

func TestDivRem(t *testing.T) {
	q, r := FromUint64(10).DivRem(FromUint64(3))
	require.Equal(t, FromUint64(3), q)
	require.Equal(t, FromUint64(1), r)
}

func TestDivRemByZeroSaturates(t *testing.T) {
	q, r := FromUint64(10).DivRem(Zero)
	require.Equal(t, Max, q)
	require.Equal(t, Zero, r)
}

func TestWrappingShiftRoundTrip(t *testing.T) {
	v := FromUint64(0xdeadbeef)
	shifted := v.WrappingShl(8).WrappingShr(8)
	require.Equal(t, v, shifted)
}

func TestBigEndianRoundTrip(t *testing.T) {
	var b [32]byte
	b[31] = 0xff
	b[30] = 0x01
	v := FromBigEndianBytes(b)
	require.Equal(t, b, v.ToBigEndianBytes())
}

func TestLittleEndianRoundTrip(t *testing.T) {
	var b [32]byte
	b[0] = 0xff
	b[1] = 0x01
	v := FromLittleEndianBytes(b)
	require.Equal(t, b, v.ToLittleEndianBytes())
}

func TestCmpAndBits(t *testing.T) {
	require.True(t, FromUint64(5).LessThan(FromUint64(6)))
	require.Equal(t, 0, Zero.Bits())
	require.Equal(t, 1, One.Bits())
	require.Equal(t, 256, Max.Bits())
}

func TestOverflowingMulUint64(t *testing.T) {
	r, overflow := FromUint64(10).OverflowingMulUint64(10)
	require.False(t, overflow)
	require.Equal(t, FromUint64(100), r)

	_, overflow = Max.OverflowingMulUint64(2)
	require.True(t, overflow)
}
