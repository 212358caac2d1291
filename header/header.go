// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package header defines the Bitcoin-family block header and its
// bit-exact 80-byte wire encoding, adapted from the teacher's
// wire.BlockHeader to this module's ChainKind-agnostic validator.
package header

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/chainlynx/lightclient/chainhash"
)

// Size is the serialized length of a Bitcoin-family header in bytes.
const Size = 80

// VersionAuxPow is the bit that marks a Dogecoin header as carrying an
// AuxPoW payload.
const VersionAuxPow int32 = 1 << 8

// Header is the common 80-byte header shared by Bitcoin, Litecoin and
// Dogecoin (sans any AuxPoW payload, which travels alongside it rather
// than inside it).
type Header struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Time       uint32
	Bits       uint32
	Nonce      uint32
}

// HasAuxPow reports whether the version field's AuxPoW bit is set.
func (h *Header) HasAuxPow() bool {
	return h.Version&VersionAuxPow != 0
}

// Serialize writes the 80-byte wire encoding of h to w: little-endian
// i32 version, 32-byte prev hash, 32-byte merkle root, u32 time, u32
// bits, u32 nonce.
func (h *Header) Serialize(w io.Writer) error {
	var buf [Size]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Version))
	copy(buf[4:36], h.PrevBlock[:])
	copy(buf[36:68], h.MerkleRoot[:])
	binary.LittleEndian.PutUint32(buf[68:72], h.Time)
	binary.LittleEndian.PutUint32(buf[72:76], h.Bits)
	binary.LittleEndian.PutUint32(buf[76:80], h.Nonce)
	_, err := w.Write(buf[:])
	return err
}

// Bytes returns the 80-byte wire encoding of h.
func (h *Header) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(Size)
	_ = h.Serialize(&buf)
	return buf.Bytes()
}

// Deserialize reads an 80-byte header from r.
func (h *Header) Deserialize(r io.Reader) error {
	var buf [Size]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return fmt.Errorf("header: short read: %w", err)
	}
	h.Version = int32(binary.LittleEndian.Uint32(buf[0:4]))
	copy(h.PrevBlock[:], buf[4:36])
	copy(h.MerkleRoot[:], buf[36:68])
	h.Time = binary.LittleEndian.Uint32(buf[68:72])
	h.Bits = binary.LittleEndian.Uint32(buf[72:76])
	h.Nonce = binary.LittleEndian.Uint32(buf[76:80])
	return nil
}

// FromBytes deserializes a header from its 80-byte wire form.
func FromBytes(b []byte) (Header, error) {
	var h Header
	if len(b) != Size {
		return h, fmt.Errorf("header: invalid length %d, want %d", len(b), Size)
	}
	err := h.Deserialize(bytes.NewReader(b))
	return h, err
}

// BlockHash is the block identifier: double-SHA-256 of the wire encoding.
func (h *Header) BlockHash() chainhash.Hash {
	return chainhash.DoubleHashRaw(h.Serialize)
}

// BlockHashPoW is the scrypt hash Litecoin and Dogecoin mine against,
// instead of BlockHash. Bitcoin and Zcash check proof-of-work against
// BlockHash itself; see chainparams.PowHash for the chain-aware choice
// between the two.
func (h *Header) BlockHashPoW() chainhash.Hash {
	return chainhash.ScryptRaw(h.Serialize)
}
