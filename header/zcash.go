package header

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/chainlynx/lightclient/chainhash"
)

// ZcashSolutionSize is the length in bytes of an Equihash(200,9) solution:
// 2^9 = 512 indices at 21 bits apiece, packed.
const ZcashSolutionSize = 1344

// ZcashHeaderFieldsSize is the length of the header fields preceding the
// solution (version, prev hash, merkle root, block commitments, time,
// bits, 32-byte nonce).
const ZcashHeaderFieldsSize = 4 + 32 + 32 + 32 + 4 + 4 + 32

// ZcashSolutionPrefix is the CompactSize encoding of ZcashSolutionSize
// (1344 = 0x540) spliced onto the wire between the nonce and the solution
// bytes.
var ZcashSolutionPrefix = [3]byte{0xfd, 0x40, 0x05}

// ZcashSize is the full wire length of a Zcash header: the base fields,
// the 3-byte CompactSize solution-length prefix, and the solution.
const ZcashSize = ZcashHeaderFieldsSize + 3 + ZcashSolutionSize

// ZcashHeader is Zcash's Equihash-secured block header.
type ZcashHeader struct {
	Version          int32
	PrevBlock        chainhash.Hash
	MerkleRoot       chainhash.Hash
	BlockCommitments chainhash.Hash
	Time             uint32
	Bits             uint32
	Nonce            [32]byte
	Solution         [ZcashSolutionSize]byte
}

// Serialize writes the full 1487-byte wire encoding, including the
// CompactSize prefix before the solution.
func (h *ZcashHeader) Serialize(w io.Writer) error {
	if err := h.serializeFields(w); err != nil {
		return err
	}
	if _, err := w.Write(ZcashSolutionPrefix[:]); err != nil {
		return err
	}
	_, err := w.Write(h.Solution[:])
	return err
}

func (h *ZcashHeader) serializeFields(w io.Writer) error {
	var buf [ZcashHeaderFieldsSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Version))
	copy(buf[4:36], h.PrevBlock[:])
	copy(buf[36:68], h.MerkleRoot[:])
	copy(buf[68:100], h.BlockCommitments[:])
	binary.LittleEndian.PutUint32(buf[100:104], h.Time)
	binary.LittleEndian.PutUint32(buf[104:108], h.Bits)
	copy(buf[108:140], h.Nonce[:])
	_, err := w.Write(buf[:])
	return err
}

// EquihashInput returns the 108-byte serialization used as the Equihash
// verification input: every field up to but excluding the nonce and
// solution.
func (h *ZcashHeader) EquihashInput() []byte {
	var buf [108]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Version))
	copy(buf[4:36], h.PrevBlock[:])
	copy(buf[36:68], h.MerkleRoot[:])
	copy(buf[68:100], h.BlockCommitments[:])
	binary.LittleEndian.PutUint32(buf[100:104], h.Time)
	binary.LittleEndian.PutUint32(buf[104:108], h.Bits)
	return buf[:]
}

// Bytes returns the full wire encoding.
func (h *ZcashHeader) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(ZcashSize)
	_ = h.Serialize(&buf)
	return buf.Bytes()
}

// Deserialize reads a full Zcash header, including its solution prefix,
// from r.
func (h *ZcashHeader) Deserialize(r io.Reader) error {
	var fields [ZcashHeaderFieldsSize]byte
	if _, err := io.ReadFull(r, fields[:]); err != nil {
		return fmt.Errorf("zcash header: short read on fields: %w", err)
	}
	h.Version = int32(binary.LittleEndian.Uint32(fields[0:4]))
	copy(h.PrevBlock[:], fields[4:36])
	copy(h.MerkleRoot[:], fields[36:68])
	copy(h.BlockCommitments[:], fields[68:100])
	h.Time = binary.LittleEndian.Uint32(fields[100:104])
	h.Bits = binary.LittleEndian.Uint32(fields[104:108])
	copy(h.Nonce[:], fields[108:140])

	var prefix [3]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return fmt.Errorf("zcash header: short read on solution prefix: %w", err)
	}
	if prefix != ZcashSolutionPrefix {
		return fmt.Errorf("zcash header: unexpected solution size prefix %x", prefix)
	}
	if _, err := io.ReadFull(r, h.Solution[:]); err != nil {
		return fmt.Errorf("zcash header: short read on solution: %w", err)
	}
	return nil
}

// ZcashFromBytes deserializes a Zcash header from its full wire form.
func ZcashFromBytes(b []byte) (ZcashHeader, error) {
	var h ZcashHeader
	if len(b) != ZcashSize {
		return h, fmt.Errorf("zcash header: invalid length %d, want %d", len(b), ZcashSize)
	}
	err := h.Deserialize(bytes.NewReader(b))
	return h, err
}

// BlockHash is double-SHA-256 of the full wire encoding; Zcash's
// proof-of-work hash is the same value (Equihash is checked separately
// against EquihashInput, not against the block hash).
func (h *ZcashHeader) BlockHash() chainhash.Hash {
	return chainhash.DoubleHashRaw(h.Serialize)
}
