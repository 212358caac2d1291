// Package equihash verifies Zcash's Equihash(200,9) proof-of-work
// solutions. It is adapted from the generalized-birthday-problem
// verifier in the EXCCoin/exccd equihash package: the solution-search
// half of that file (generateHashKeys/reduceHashKeys/findSolutions) is
// dropped since this client never mines, leaving only the validation
// path a light client needs.
package equihash

import (
	"encoding/binary"
	"errors"
	"hash"
	"math/big"
	"reflect"

	blake2b "github.com/minio/blake2b-simd"
)

// N and K fix the Equihash instance Zcash mines against: 2^K list
// elements drawn from N-bit blake2b digests.
const (
	N = 200
	K = 9

	wordSize = 32
	wordMask = (1 << wordSize) - 1
	byteMask = 0xFF

	defaultPrefix = "ZcashPoW"

	// CollisionBitLength is the number of bits compared at each of the K
	// collision-finding rounds.
	CollisionBitLength = N / (K + 1)

	// SolutionWidth is the packed byte length of a solution: 2^K indices
	// at CollisionBitLength+1 bits apiece.
	SolutionWidth = (1 << K) * (CollisionBitLength + 1) / 8
)

var (
	errBadArg           = errors.New("equihash: invalid argument")
	errKLarge           = errors.New("equihash: k should be less than n")
	errCollisionLen     = errors.New("equihash: collision length too big")
	errSmallBitLen      = errors.New("equihash: bitLen < 8")
	errSmallWordSize    = errors.New("equihash: wordSize < 7+bitLen")
	errBadOutLen        = errors.New("equihash: outLen != 8*outWidth*len(in)/bitLen")
	errDuplicateIndices = errors.New("equihash: duplicate indices")
	errPairWiseOrdering = errors.New("equihash: bad pair-wise ordering")
	errBadWord          = errors.New("equihash: bad word")
	errNullHash         = errors.New("equihash: empty hash")
	errEmptyIndices     = errors.New("equihash: empty indices")
	bigZero             = big.NewInt(0)
)

func person(n, k int) []byte {
	nb, kb := writeU32(uint32(n)), writeU32(uint32(k))
	return append([]byte(defaultPrefix), append(nb, kb...)...)
}

// newHash creates the personalized blake2b hash state Equihash(n,k)
// verification is built on.
func newHash(n, k int) (hash.Hash, error) {
	return blake2b.New(&blake2b.Config{
		Person: person(n, k),
		Size:   uint8((512 / n) * n / 8),
	})
}

func indicesPerHashOutput(n int) int {
	return 512 / n
}

// expandArray unpacks a bit-packed byte slice into one byte per bitLen-bit
// field (left-padded with bytePad zero bytes per field), the inverse of
// the solution-compaction step Zcash's solver applies before broadcasting
// a block.
func expandArray(in []byte, outLen, bitLen, bytePad int) ([]byte, error) {
	if bitLen < 8 {
		return nil, errSmallBitLen
	}
	if wordSize < 7+bitLen {
		return nil, errSmallWordSize
	}
	outWidth := (bitLen+7)/8 + bytePad
	if outLen != 8*outWidth*len(in)/bitLen {
		return nil, errBadOutLen
	}

	out, bitLenMask := make([]byte, outLen), (1<<uint(bitLen))-1
	accBits, accValue, j := 0, 0, 0
	for _, val := range in {
		accValue = (accValue<<8)&wordMask | int(val&0xFF)
		accBits += 8

		if accBits >= bitLen {
			accBits -= bitLen
			for x := bytePad; x < outWidth; x++ {
				a := accValue >> uint(accBits+8*(outWidth-x-1))
				b := (bitLenMask >> uint(8*(outWidth-x-1))) & byteMask
				out[j+x] = byte(a & b)
			}
			j += outWidth
		}
	}

	return out, nil
}

// DecodeSolution unpacks a Zcash block's minimal-encoding solution (the
// wire format ZcashHeader.Solution carries) into the 2^K index list
// ValidateSolution checks.
func DecodeSolution(minimal []byte) ([]int, error) {
	bitLen := CollisionBitLength + 1
	bytePad := 4 - (bitLen+7)/8
	outLen := 8 * 4 * len(minimal) / bitLen

	expanded, err := expandArray(minimal, outLen, bitLen, bytePad)
	if err != nil {
		return nil, err
	}

	indices := make([]int, len(expanded)/4)
	for i := range indices {
		indices[i] = int(binary.BigEndian.Uint32(expanded[i*4 : i*4+4]))
	}
	return indices, nil
}

func minInt(x, y int) int {
	if x <= y {
		return x
	}
	return y
}

func xor(a, b []byte) []byte {
	n := minInt(len(a), len(b))
	x := make([]byte, n)
	for i := 0; i < n; i++ {
		x[i] = a[i] ^ b[i]
	}
	return x
}

func hasDistinctIndices(a, b []int) bool {
	for _, av := range a {
		for _, bv := range b {
			if av == bv {
				return false
			}
		}
	}
	return true
}

func hasDuplicateIndices(indices []int) bool {
	if len(indices) <= 1 {
		return false
	}
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if seen[idx] {
			return true
		}
		seen[idx] = true
	}
	return false
}

func writeU32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func writeBytesToHash(h hash.Hash, b []byte) error {
	n, err := h.Write(b)
	if err != nil {
		return err
	}
	if n != len(b) {
		return errors.New("equihash: short hash write")
	}
	return nil
}

func writeU32ToHash(h hash.Hash, v uint32) error {
	return writeBytesToHash(h, writeU32(v))
}

// copyHash deep-copies a hash.Hash's internal state so a single
// personalized digest can be branched to derive every index's word
// without re-hashing the header each time.
func copyHash(src hash.Hash) hash.Hash {
	if src == nil {
		return nil
	}
	typ := reflect.TypeOf(src)
	val := reflect.ValueOf(src)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
		val = val.Elem()
	}
	elem := reflect.New(typ).Elem()
	elem.Set(val)
	return elem.Addr().Interface().(hash.Hash)
}

func generateWord(n int, h hash.Hash, idx int) (*big.Int, error) {
	if h == nil {
		return nil, errNullHash
	}

	bytesPerWord := n / 8
	wordsPerHash := indicesPerHashOutput(n)

	hidx := idx / wordsPerHash
	hrem := idx % wordsPerHash

	ctx1 := copyHash(h)
	if err := writeBytesToHash(ctx1, writeU32(uint32(hidx))); err != nil {
		return nil, err
	}
	digest := ctx1.Sum(nil)

	word := big.NewInt(0)
	for i := hrem * bytesPerWord; i < hrem*bytesPerWord+bytesPerWord; i++ {
		word = word.Lsh(word, 8)
		word = word.Or(word, big.NewInt(int64(digest[i])&0xFF))
	}
	return word, nil
}

func generateWords(n, k int, indices []int, h hash.Hash) ([]*big.Int, error) {
	if h == nil {
		return nil, errNullHash
	}
	if len(indices) == 0 {
		return nil, errEmptyIndices
	}
	words := make([]*big.Int, 1<<uint(k))
	for i := range words {
		word, err := generateWord(n, h, indices[i])
		if err != nil {
			return nil, err
		}
		words[i] = word
	}
	return words, nil
}

func validateEquihashParams(n, k int) error {
	if n < 2 {
		return errBadArg
	}
	if k < 3 {
		return errBadArg
	}
	if n%8 != 0 {
		return errBadArg
	}
	if n%(k+1) != 0 {
		return errBadArg
	}
	if k >= n {
		return errKLarge
	}
	if collisionLength(n, k)+1 >= 32 {
		return errCollisionLen
	}
	return nil
}

func collisionLength(n, k int) int {
	return n / (k + 1)
}

func validateSolutionIndices(k int, indices []int) error {
	solutionLen := 1 << uint(k)
	if len(indices) != solutionLen {
		return errBadArg
	}
	if hasDuplicateIndices(indices) {
		return errDuplicateIndices
	}
	return nil
}

func validateSolutionOrdering(k int, indices []int) error {
	solutionLen := 1 << uint(k)
	for s := 0; s < k; s++ {
		d := 1 << uint(s)
		for i := 0; i < solutionLen; i += 2 * d {
			if indices[i] >= indices[i+d] {
				return errPairWiseOrdering
			}
		}
	}
	return nil
}

func validateWords(n, k int, words []*big.Int) (bool, error) {
	solutionLen := 1 << uint(k)
	bitsPerStage := n / (k + 1)
	for s := 0; s < k; s++ {
		d := 1 << uint(s)
		for i := 0; i < solutionLen; i += 2 * d {
			w := words[i].Xor(words[i], words[i+d])
			if !isBigIntZero(w.Rsh(w, uint(n-(s+1)*bitsPerStage))) {
				return false, errBadWord
			}
			words[i] = w
		}
	}
	return isBigIntZero(words[0]), nil
}

func isBigIntZero(w *big.Int) bool {
	return w.Cmp(bigZero) == 0
}

// ValidateSolution reports whether solutionIndices is a valid
// Equihash(n,k) solution for header (the bytes the miner hashed, already
// including the nonce — everything but the solution itself).
func ValidateSolution(n, k int, header []byte, solutionIndices []int) (bool, error) {
	if err := validateEquihashParams(n, k); err != nil {
		return false, err
	}
	if len(header) == 0 {
		return false, errBadArg
	}
	if err := validateSolutionIndices(k, solutionIndices); err != nil {
		return false, err
	}
	if err := validateSolutionOrdering(k, solutionIndices); err != nil {
		return false, err
	}

	digest, err := newHash(n, k)
	if err != nil {
		return false, err
	}
	if err := writeBytesToHash(digest, header); err != nil {
		return false, err
	}

	words, err := generateWords(n, k, solutionIndices, digest)
	if err != nil {
		return false, err
	}
	return validateWords(n, k, words)
}

// ValidateBlockSolution decodes a block's packed 1344-byte minimal
// solution and validates it against the Equihash(200,9) instance, given
// the 140-byte input (header fields plus nonce) the miner searched over.
func ValidateBlockSolution(input []byte, solution []byte) (bool, error) {
	indices, err := DecodeSolution(solution)
	if err != nil {
		return false, err
	}
	return ValidateSolution(N, K, input, indices)
}
