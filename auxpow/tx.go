package auxpow

import (
	"encoding/binary"
	"errors"
)

// firstInputScriptSig extracts the signature script of a raw parent-chain
// coinbase transaction's first input. Non-goals exclude script execution
// and full transaction semantics, so this parses only as much of the
// wire format as locating that one field requires: the version, the
// input count, and the first input's prevout and script. The first
// input's sequence, later inputs and every output are never decoded.
func firstInputScriptSig(raw []byte) ([]byte, error) {
	r := txReader{b: raw}

	if _, err := r.readBytes(4); err != nil { // version
		return nil, err
	}

	inputCount, err := r.readVarInt()
	if err != nil {
		return nil, err
	}
	if inputCount == 0 {
		return nil, errors.New("coinbase transaction has no inputs")
	}

	if _, err := r.readBytes(32 + 4); err != nil { // prevout hash + index
		return nil, err
	}

	scriptLen, err := r.readVarInt()
	if err != nil {
		return nil, err
	}
	script, err := r.readBytes(int(scriptLen))
	if err != nil {
		return nil, err
	}
	return script, nil
}

type txReader struct {
	b   []byte
	off int
}

func (r *txReader) readBytes(n int) ([]byte, error) {
	if n < 0 || r.off+n > len(r.b) {
		return nil, errors.New("short read parsing coinbase transaction")
	}
	out := r.b[r.off : r.off+n]
	r.off += n
	return out, nil
}

// readVarInt decodes Bitcoin's CompactSize integer encoding.
func (r *txReader) readVarInt() (uint64, error) {
	prefix, err := r.readBytes(1)
	if err != nil {
		return 0, err
	}
	switch prefix[0] {
	case 0xfd:
		b, err := r.readBytes(2)
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case 0xfe:
		b, err := r.readBytes(4)
		if err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(b)), nil
	case 0xff:
		b, err := r.readBytes(8)
		if err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint64(b), nil
	default:
		return uint64(prefix[0]), nil
	}
}
