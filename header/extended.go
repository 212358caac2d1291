package header

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/u256"
)

// ExtendedHeader is the record the chain store actually persists: the
// light header fields plus everything derived at acceptance time. For
// Zcash, LightHeader omits the nonce and solution (they are only needed
// transiently during validation), so only the fields common to every
// chain kind live here; the full Zcash fields are carried by the caller
// at submission time and discarded once validation succeeds.
type ExtendedHeader struct {
	Version      int32
	PrevHash     chainhash.Hash
	MerkleRoot   chainhash.Hash
	Time         uint32
	Bits         uint32
	Nonce        uint32 // zero/unused for Zcash, whose nonce is not retained

	BlockHash     chainhash.Hash
	ChainWork     u256.U256
	BlockHeight   uint64
	AuxParentHash *chainhash.Hash // set only for Dogecoin AuxPoW blocks
}

// LightHeader rebuilds the Bitcoin-family Header view of an ExtendedHeader.
func (e *ExtendedHeader) LightHeader() Header {
	return Header{
		Version:    e.Version,
		PrevBlock:  e.PrevHash,
		MerkleRoot: e.MerkleRoot,
		Time:       e.Time,
		Bits:       e.Bits,
		Nonce:      e.Nonce,
	}
}

// extendedHeaderFixedSize is the byte length of every ExtendedHeader field
// up to and including BlockHeight, before the optional AuxParentHash tail.
const extendedHeaderFixedSize = 4 + chainhash.HashSize*2 + 4 + 4 + 4 + chainhash.HashSize + 32 + 8

// Serialize writes the durable record form of e: this is the store's
// on-disk encoding, distinct from the wire Header.Serialize, since it
// carries derived fields (chain work, height) no network peer ever sends.
func (e *ExtendedHeader) Serialize(w io.Writer) error {
	var buf [extendedHeaderFixedSize]byte
	off := 0
	binary.LittleEndian.PutUint32(buf[off:], uint32(e.Version))
	off += 4
	copy(buf[off:], e.PrevHash[:])
	off += chainhash.HashSize
	copy(buf[off:], e.MerkleRoot[:])
	off += chainhash.HashSize
	binary.LittleEndian.PutUint32(buf[off:], e.Time)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], e.Bits)
	off += 4
	binary.LittleEndian.PutUint32(buf[off:], e.Nonce)
	off += 4
	copy(buf[off:], e.BlockHash[:])
	off += chainhash.HashSize
	workBytes := e.ChainWork.ToBigEndianBytes()
	copy(buf[off:], workBytes[:])
	off += 32
	binary.LittleEndian.PutUint64(buf[off:], e.BlockHeight)

	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	if e.AuxParentHash == nil {
		_, err := w.Write([]byte{0})
		return err
	}
	if _, err := w.Write([]byte{1}); err != nil {
		return err
	}
	_, err := w.Write(e.AuxParentHash[:])
	return err
}

// Bytes returns the durable record encoding of e.
func (e *ExtendedHeader) Bytes() []byte {
	var buf bytes.Buffer
	buf.Grow(extendedHeaderFixedSize + 1 + chainhash.HashSize)
	_ = e.Serialize(&buf)
	return buf.Bytes()
}

// Deserialize reads a durable record written by Serialize.
func (e *ExtendedHeader) Deserialize(r io.Reader) error {
	var buf [extendedHeaderFixedSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return fmt.Errorf("extended header: short read: %w", err)
	}
	off := 0
	e.Version = int32(binary.LittleEndian.Uint32(buf[off:]))
	off += 4
	copy(e.PrevHash[:], buf[off:])
	off += chainhash.HashSize
	copy(e.MerkleRoot[:], buf[off:])
	off += chainhash.HashSize
	e.Time = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	e.Bits = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	e.Nonce = binary.LittleEndian.Uint32(buf[off:])
	off += 4
	copy(e.BlockHash[:], buf[off:])
	off += chainhash.HashSize
	var workBytes [32]byte
	copy(workBytes[:], buf[off:off+32])
	e.ChainWork = u256.FromBigEndianBytes(workBytes)
	off += 32
	e.BlockHeight = binary.LittleEndian.Uint64(buf[off:])

	var hasAux [1]byte
	if _, err := io.ReadFull(r, hasAux[:]); err != nil {
		return fmt.Errorf("extended header: short read on aux flag: %w", err)
	}
	if hasAux[0] == 0 {
		e.AuxParentHash = nil
		return nil
	}
	var aux chainhash.Hash
	if _, err := io.ReadFull(r, aux[:]); err != nil {
		return fmt.Errorf("extended header: short read on aux parent hash: %w", err)
	}
	e.AuxParentHash = &aux
	return nil
}

// ExtendedHeaderFromBytes decodes a durable record written by Bytes.
func ExtendedHeaderFromBytes(b []byte) (ExtendedHeader, error) {
	var e ExtendedHeader
	err := e.Deserialize(bytes.NewReader(b))
	return e, err
}
