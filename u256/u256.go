// Package u256 implements fixed-width 256-bit unsigned integer arithmetic
// used for proof-of-work targets and accumulated chain work.
package u256

import (
	"encoding/binary"
	"encoding/hex"
)

// U256 is a 256-bit unsigned integer stored as four big-endian 64-bit
// limbs, most significant first (w[0] is the high word).
type U256 struct {
	w [4]uint64
}

var (
	Zero = U256{}
	One  = U256{w: [4]uint64{0, 0, 0, 1}}
	Max  = U256{w: [4]uint64{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}}
)

// FromBigEndianBytes builds a U256 from a 32-byte big-endian slice.
func FromBigEndianBytes(b [32]byte) U256 {
	var u U256
	u.w[0] = binary.BigEndian.Uint64(b[0:8])
	u.w[1] = binary.BigEndian.Uint64(b[8:16])
	u.w[2] = binary.BigEndian.Uint64(b[16:24])
	u.w[3] = binary.BigEndian.Uint64(b[24:32])
	return u
}

// FromLittleEndianBytes builds a U256 from a 32-byte little-endian slice.
func FromLittleEndianBytes(b [32]byte) U256 {
	var rev [32]byte
	for i := range b {
		rev[i] = b[31-i]
	}
	return FromBigEndianBytes(rev)
}

// FromUint64 widens a uint64 into a U256.
func FromUint64(v uint64) U256 {
	return U256{w: [4]uint64{0, 0, 0, v}}
}

// MustFromHex parses a 64-character big-endian hex string into a U256,
// panicking on malformed input. It exists for package-level consensus
// constants such as a chain's pow_limit, where the literal is fixed at
// compile time and a decode failure is a programmer error.
func MustFromHex(s string) U256 {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("u256: invalid hex literal: " + err.Error())
	}
	if len(b) != 32 {
		panic("u256: hex literal must decode to 32 bytes")
	}
	var arr [32]byte
	copy(arr[:], b)
	return FromBigEndianBytes(arr)
}

// ToBigEndianBytes renders the value as a 32-byte big-endian array.
func (u U256) ToBigEndianBytes() [32]byte {
	var b [32]byte
	binary.BigEndian.PutUint64(b[0:8], u.w[0])
	binary.BigEndian.PutUint64(b[8:16], u.w[1])
	binary.BigEndian.PutUint64(b[16:24], u.w[2])
	binary.BigEndian.PutUint64(b[24:32], u.w[3])
	return b
}

// ToLittleEndianBytes renders the value as a 32-byte little-endian array.
func (u U256) ToLittleEndianBytes() [32]byte {
	be := u.ToBigEndianBytes()
	var le [32]byte
	for i := range be {
		le[i] = be[31-i]
	}
	return le
}

// String renders u as big-endian hex, the same display convention
// chainhash.Hash uses for its own byte arrays.
func (u U256) String() string {
	b := u.ToBigEndianBytes()
	return hex.EncodeToString(b[:])
}

// IsZero reports whether u is the zero value.
func (u U256) IsZero() bool {
	return u.w[0] == 0 && u.w[1] == 0 && u.w[2] == 0 && u.w[3] == 0
}

// Cmp returns -1, 0 or 1 as u is less than, equal to, or greater than v.
func (u U256) Cmp(v U256) int {
	for i := 0; i < 4; i++ {
		if u.w[i] < v.w[i] {
			return -1
		}
		if u.w[i] > v.w[i] {
			return 1
		}
	}
	return 0
}

func (u U256) LessThan(v U256) bool    { return u.Cmp(v) < 0 }
func (u U256) LessOrEqual(v U256) bool { return u.Cmp(v) <= 0 }
func (u U256) GreaterThan(v U256) bool { return u.Cmp(v) > 0 }

// Bits returns the position of the highest set bit plus one (0 for zero).
func (u U256) Bits() int {
	for i := 0; i < 4; i++ {
		if u.w[i] != 0 {
			n := 64 - leadingZeros64(u.w[i])
			return (3-i)*64 + n
		}
	}
	return 0
}

func leadingZeros64(x uint64) int {
	n := 0
	for i := 63; i >= 0; i-- {
		if x&(1<<uint(i)) != 0 {
			break
		}
		n++
	}
	return n
}

// WrappingAdd adds two U256 values modulo 2^256.
func (u U256) WrappingAdd(v U256) U256 {
	sum, _ := u.OverflowingAdd(v)
	return sum
}

// OverflowingAdd adds two U256 values and reports whether the result
// overflowed 256 bits.
func (u U256) OverflowingAdd(v U256) (U256, bool) {
	var r U256
	var carry uint64
	for i := 3; i >= 0; i-- {
		s := u.w[i] + v.w[i] + carry
		carry = addCarry(u.w[i], v.w[i], carry)
		r.w[i] = s
	}
	return r, carry != 0
}

func addCarry(a, b, cin uint64) uint64 {
	s := a + cin
	c1 := uint64(0)
	if s < a {
		c1 = 1
	}
	s2 := s + b
	c2 := uint64(0)
	if s2 < s {
		c2 = 1
	}
	return c1 + c2
}

// SaturatingAdd adds two U256 values, clamping to Max on overflow.
func (u U256) SaturatingAdd(v U256) U256 {
	r, overflow := u.OverflowingAdd(v)
	if overflow {
		return Max
	}
	return r
}

// WrappingSub subtracts v from u modulo 2^256.
func (u U256) WrappingSub(v U256) U256 {
	r, _ := u.OverflowingSub(v)
	return r
}

// OverflowingSub subtracts v from u and reports whether it borrowed.
func (u U256) OverflowingSub(v U256) (U256, bool) {
	var r U256
	var borrow uint64
	for i := 3; i >= 0; i-- {
		d := u.w[i] - v.w[i] - borrow
		nb := uint64(0)
		if u.w[i] < v.w[i]+borrow || (borrow == 1 && v.w[i] == ^uint64(0)) {
			nb = 1
		}
		r.w[i] = d
		borrow = nb
	}
	return r, borrow != 0
}

// WrappingInc adds one to u modulo 2^256.
func (u U256) WrappingInc() U256 {
	return u.WrappingAdd(One)
}

// OverflowingMulUint64 multiplies u by a uint64 scalar and reports overflow.
func (u U256) OverflowingMulUint64(m uint64) (U256, bool) {
	var res [5]uint64 // res[0] most significant overflow limb
	var carry uint64
	for i := 3; i >= 0; i-- {
		hi, lo := mul64(u.w[i], m)
		lo += carry
		if lo < carry {
			hi++
		}
		res[i+1] = lo
		carry = hi
	}
	res[0] = carry
	var out U256
	copy(out.w[:], res[1:])
	return out, res[0] != 0
}

func mul64(a, b uint64) (hi, lo uint64) {
	const mask32 = 0xFFFFFFFF
	aLo, aHi := a&mask32, a>>32
	bLo, bHi := b&mask32, b>>32

	lo64 := aLo * bLo
	mid1 := aHi * bLo
	mid2 := aLo * bHi
	hi64 := aHi * bHi

	mid := mid1 + mid2
	if mid < mid1 {
		hi64 += 1 << 32
	}

	loResult := lo64 + (mid << 32)
	if loResult < lo64 {
		hi64++
	}
	hi64 += mid >> 32
	return hi64, loResult
}

// DivRem performs long division returning quotient and remainder. Division
// by zero returns (Max, Zero) mirroring the saturating convention used
// elsewhere in this package.
func (u U256) DivRem(d U256) (quotient, remainder U256) {
	if d.IsZero() {
		return Max, Zero
	}
	if u.LessThan(d) {
		return Zero, u
	}
	var quot U256
	var rem U256
	for bit := 255; bit >= 0; bit-- {
		rem = rem.shl1()
		if u.bitAt(bit) {
			rem.w[3] |= 1
		}
		if !rem.LessThan(d) {
			rem = rem.WrappingSub(d)
			quot.setBit(bit)
		}
	}
	return quot, rem
}

func (u U256) bitAt(bit int) bool {
	limb := 3 - bit/64
	off := uint(bit % 64)
	return (u.w[limb]>>off)&1 != 0
}

func (u *U256) setBit(bit int) {
	limb := 3 - bit/64
	off := uint(bit % 64)
	u.w[limb] |= 1 << off
}

func (u U256) shl1() U256 {
	var r U256
	var carry uint64
	for i := 3; i >= 0; i-- {
		nc := u.w[i] >> 63
		r.w[i] = (u.w[i] << 1) | carry
		carry = nc
	}
	return r
}

// WrappingShl shifts u left by n bits (0-255), discarding overflow bits.
func (u U256) WrappingShl(n uint) U256 {
	n %= 256
	r := u
	for i := uint(0); i < n; i++ {
		r = r.shl1()
	}
	return r
}

// WrappingShr shifts u right by n bits (0-255), filling with zeros.
func (u U256) WrappingShr(n uint) U256 {
	n %= 256
	r := u
	for i := uint(0); i < n; i++ {
		r = r.shr1()
	}
	return r
}

func (u U256) shr1() U256 {
	var r U256
	var carry uint64
	for i := 0; i < 4; i++ {
		nc := u.w[i] & 1
		r.w[i] = (u.w[i] >> 1) | (carry << 63)
		carry = nc
	}
	return r
}

// Inverse computes the "work from target" transform used to convert a
// difficulty target into the amount of expected work to produce a block
// at that target: (~t / (t + 1)) + 1, with the edge cases target == 0 and
// target == 1 mapping to Max and target == Max mapping to One (and
// saturating instead of wrapping).
func (u U256) Inverse() U256 {
	if u.IsZero() {
		return Max
	}
	if u == One {
		return Max
	}
	if u == Max {
		return One
	}
	notT := u.not()
	denom := u.WrappingInc()
	q, _ := notT.DivRem(denom)
	return q.WrappingInc()
}

func (u U256) not() U256 {
	var r U256
	for i := range u.w {
		r.w[i] = ^u.w[i]
	}
	return r
}
