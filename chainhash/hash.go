// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainhash provides the 32-byte hash type and the hashing
// primitives used to identify block headers across all supported chain
// families.
package chainhash

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// HashSize is the number of bytes in a hash.
const HashSize = 32

// Hash is a 32-byte array used to represent the double sha256 (or,
// for a chain's proof-of-work hash, scrypt) digest of data.
type Hash [HashSize]byte

// String returns the hash as a hex string with the bytes reversed, matching
// the conventional big-endian display order used by block explorers.
func (h Hash) String() string {
	var reversed Hash
	for i := 0; i < HashSize/2; i++ {
		reversed[i], reversed[HashSize-1-i] = h[HashSize-1-i], h[i]
	}
	return hex.EncodeToString(reversed[:])
}

// IsEqual returns whether h equals other, tolerating a nil other.
func (h *Hash) IsEqual(other *Hash) bool {
	if other == nil {
		return false
	}
	return *h == *other
}

// SetBytes copies the passed slice (which must be HashSize bytes) into h.
func (h *Hash) SetBytes(newHash []byte) error {
	if len(newHash) != HashSize {
		return fmt.Errorf("invalid hash length of %d, want %d", len(newHash), HashSize)
	}
	copy(h[:], newHash)
	return nil
}

// NewHash returns a new Hash from a byte slice.
func NewHash(newHash []byte) (*Hash, error) {
	var h Hash
	if err := h.SetBytes(newHash); err != nil {
		return nil, err
	}
	return &h, nil
}

// NewHashFromStr parses a reversed-byte-order hex string, as displayed by
// String, back into a Hash.
func NewHashFromStr(hexStr string) (*Hash, error) {
	if len(hexStr)%2 != 0 {
		hexStr = "0" + hexStr
	}
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, err
	}
	if len(b) != HashSize {
		return nil, fmt.Errorf("invalid hash string length of %d, want %d", len(b), HashSize)
	}
	var h Hash
	for i := 0; i < HashSize; i++ {
		h[i] = b[HashSize-1-i]
	}
	return &h, nil
}

// HashB computes the single sha256 hash of the given data.
func HashB(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

// DoubleHashB computes the double sha256 hash of the given data.
func DoubleHashB(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

// DoubleHashH computes the double sha256 hash of the given data and
// returns it as a Hash.
func DoubleHashH(b []byte) Hash {
	var h Hash
	copy(h[:], DoubleHashB(b))
	return h
}

// DoubleHashRaw invokes the passed writer callback and returns the double
// sha256 hash of everything it wrote, mirroring the teacher's pattern of
// hashing a header by replaying its wire encoding through a buffer.
func DoubleHashRaw(writer func(w io.Writer) error) Hash {
	var buf bytes.Buffer
	if err := writer(&buf); err != nil {
		return Hash{}
	}
	return DoubleHashH(buf.Bytes())
}

// Scrypt parameters for Litecoin/Dogecoin-family proof-of-work hashing:
// N=1024, r=1, p=1, 32-byte output.
const (
	scryptN      = 1024
	scryptR      = 1
	scryptP      = 1
	scryptKeyLen = 32
)

// ScryptRaw invokes the passed writer callback and returns the scrypt
// proof-of-work digest of everything it wrote. Panics are not expected:
// the fixed parameters above are always valid for scrypt.
func ScryptRaw(writer func(w io.Writer) error) Hash {
	var buf bytes.Buffer
	if err := writer(&buf); err != nil {
		return Hash{}
	}
	digest, err := scrypt.Key(buf.Bytes(), buf.Bytes(), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return Hash{}
	}
	var h Hash
	copy(h[:], digest)
	return h
}
