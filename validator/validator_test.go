package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/u256"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

type mapSource struct {
	byHeight map[uint64]header.ExtendedHeader
	byHash   map[chainhash.Hash]header.ExtendedHeader
}

func newMapSource() *mapSource {
	return &mapSource{byHeight: map[uint64]header.ExtendedHeader{}, byHash: map[chainhash.Hash]header.ExtendedHeader{}}
}

func (m *mapSource) add(e header.ExtendedHeader) {
	m.byHeight[e.BlockHeight] = e
	m.byHash[e.BlockHash] = e
}

func (m *mapSource) HeaderByHash(hash chainhash.Hash) (header.ExtendedHeader, bool) {
	e, ok := m.byHash[hash]
	return e, ok
}

func (m *mapSource) HeaderByHeight(height uint64) (header.ExtendedHeader, bool) {
	e, ok := m.byHeight[height]
	return e, ok
}

func hashForHeight(height uint64) chainhash.Hash {
	var h chainhash.Hash
	h[0] = byte(height)
	h[1] = byte(height >> 8)
	return h
}

// mineToTarget bumps nonce until the header's block hash satisfies bits,
// so tests exercise the real proof-of-work comparison rather than
// stubbing it out. Bitcoin mainnet's easiest bits (0x1d00ffff) are cheap
// enough to satisfy within a handful of tries when everything else about
// the header is fixed.
func mineToTarget(t *testing.T, h *header.Header) {
	t.Helper()
	for nonce := uint32(0); nonce < 10_000_000; nonce++ {
		h.Nonce = nonce
		bh := h.BlockHash()
		target := u256.TargetFromBits(h.Bits)
		if !u256.FromLittleEndianBytes([32]byte(bh)).GreaterThan(target) {
			return
		}
	}
	t.Fatal("failed to mine a header satisfying the test target")
}

func buildChain(t *testing.T, src *mapSource, n int, bits uint32, startTime uint32) []header.ExtendedHeader {
	return buildChainVersion(t, src, n, bits, startTime, 1)
}

func buildChainVersion(t *testing.T, src *mapSource, n int, bits uint32, startTime uint32, version int32) []header.ExtendedHeader {
	t.Helper()
	chain := make([]header.ExtendedHeader, 0, n)
	var prevHash chainhash.Hash
	for i := 0; i < n; i++ {
		h := header.Header{
			Version:    version,
			PrevBlock:  prevHash,
			MerkleRoot: chainhash.Hash{},
			Time:       startTime + uint32(i)*600,
			Bits:       bits,
		}
		mineToTarget(t, &h)
		bh := h.BlockHash()
		ext := header.ExtendedHeader{
			Version:     h.Version,
			PrevHash:    h.PrevBlock,
			MerkleRoot:  h.MerkleRoot,
			Time:        h.Time,
			Bits:        h.Bits,
			Nonce:       h.Nonce,
			BlockHash:   bh,
			BlockHeight: uint64(i),
		}
		src.add(ext)
		chain = append(chain, ext)
		prevHash = bh
	}
	return chain
}

func TestCheckHeaderAcceptsValidNonRetargetHeader(t *testing.T) {
	p := chainparams.BitcoinMainnet()
	src := newMapSource()
	chain := buildChain(t, src, 12, p.PowLimitBits, 1231006505)
	prev := chain[len(chain)-1]

	candidate := header.Header{
		Version:   1,
		PrevBlock: prev.BlockHash,
		Time:      prev.Time + 600,
		Bits:      prev.Bits,
	}
	mineToTarget(t, &candidate)

	clock := fixedClock{t: time.Unix(int64(candidate.Time)+10, 0)}
	_, work, err := CheckHeader(p, clock, &candidate, &prev, src, chainhash.Hash{}, 0, nil)
	require.NoError(t, err)
	require.False(t, work.IsZero())
}

func TestCheckHeaderRejectsBadTarget(t *testing.T) {
	p := chainparams.BitcoinMainnet()
	src := newMapSource()
	chain := buildChain(t, src, 12, p.PowLimitBits, 1231006505)
	prev := chain[len(chain)-1]

	candidate := header.Header{
		Version:   1,
		PrevBlock: prev.BlockHash,
		Time:      prev.Time + 600,
		Bits:      0x1c00ffff, // wrong, stricter than required
	}

	clock := fixedClock{t: time.Unix(int64(candidate.Time)+10, 0)}
	_, _, err := CheckHeader(p, clock, &candidate, &prev, src, chainhash.Hash{}, 0, nil)
	require.Error(t, err)
}

// TestCheckHeaderRejectsStaleTimestamp exercises the median-time-past
// check, which is a Litecoin-only rule (bitcoin.rs and zcash.rs's
// check_pow have no timestamp check at all).
func TestCheckHeaderRejectsStaleTimestamp(t *testing.T) {
	p := chainparams.LitecoinMainnet()
	src := newMapSource()
	chain := buildChainVersion(t, src, 12, p.PowLimitBits, 1231006505, p.MinVersion)
	prev := chain[len(chain)-1]

	candidate := header.Header{
		Version:   p.MinVersion,
		PrevBlock: prev.BlockHash,
		Time:      chain[0].Time, // at or before median time past
		Bits:      prev.Bits,
	}

	clock := fixedClock{t: time.Unix(int64(prev.Time)+10, 0)}
	_, _, err := CheckHeader(p, clock, &candidate, &prev, src, chainhash.Hash{}, 0, nil)
	require.Error(t, err)
}

// TestCheckHeaderBitcoinIgnoresStaleTimestamp documents that Bitcoin (and,
// by the same rule, Dogecoin and Zcash) never run the median-time-past
// check that Litecoin does: a header with a timestamp at or before the
// median of its ancestors is otherwise perfectly valid.
func TestCheckHeaderBitcoinIgnoresStaleTimestamp(t *testing.T) {
	p := chainparams.BitcoinMainnet()
	src := newMapSource()
	chain := buildChain(t, src, 12, p.PowLimitBits, 1231006505)
	prev := chain[len(chain)-1]

	candidate := header.Header{
		Version:   1,
		PrevBlock: prev.BlockHash,
		Time:      chain[0].Time, // at or before median time past
		Bits:      prev.Bits,
	}
	mineToTarget(t, &candidate)

	clock := fixedClock{t: time.Unix(int64(prev.Time)+10, 0)}
	_, _, err := CheckHeader(p, clock, &candidate, &prev, src, chainhash.Hash{}, 0, nil)
	require.NoError(t, err)
}
