package retarget

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/header"
)

// fakeSource is a minimal in-memory Source keyed by height, for exercising
// retarget boundary logic without a full chain store.
type fakeSource struct {
	byHeight map[uint64]header.ExtendedHeader
	byHash   map[chainhash.Hash]header.ExtendedHeader
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		byHeight: map[uint64]header.ExtendedHeader{},
		byHash:   map[chainhash.Hash]header.ExtendedHeader{},
	}
}

func (f *fakeSource) add(e header.ExtendedHeader) {
	f.byHeight[e.BlockHeight] = e
	f.byHash[e.BlockHash] = e
}

func (f *fakeSource) HeaderByHash(hash chainhash.Hash) (header.ExtendedHeader, bool) {
	e, ok := f.byHash[hash]
	return e, ok
}

func (f *fakeSource) HeaderByHeight(height uint64) (header.ExtendedHeader, bool) {
	e, ok := f.byHeight[height]
	return e, ok
}

func hashForHeight(height uint64) chainhash.Hash {
	var h chainhash.Hash
	h[0] = byte(height)
	h[1] = byte(height >> 8)
	return h
}

func TestCalculateNextWorkRequiredProducesNonZeroBits(t *testing.T) {
	p := chainparams.BitcoinMainnet()
	prev := &header.ExtendedHeader{
		Time:        1288132853,
		Bits:        0x1a05db8b,
		BlockHeight: 2015,
	}
	got, err := CalculateNextWorkRequired(p, prev, 1231006505)
	require.NoError(t, err)
	require.NotZero(t, got)
}

func TestNextWorkRequiredBitcoinFamilyNonBoundaryKeepsBits(t *testing.T) {
	p := chainparams.BitcoinMainnet()
	src := newFakeSource()
	prev := header.ExtendedHeader{
		Time:        1231006505,
		Bits:        0x1d00ffff,
		BlockHeight: 100,
		BlockHash:   hashForHeight(100),
	}
	src.add(prev)

	h := &header.Header{Time: prev.Time + 600}
	got, err := NextWorkRequiredBitcoinFamily(p, h, &prev, src)
	require.NoError(t, err)
	require.Equal(t, prev.Bits, got)
}

func TestNextWorkRequiredBitcoinFamilyBoundaryRetargets(t *testing.T) {
	p := chainparams.BitcoinMainnet()
	src := newFakeSource()

	first := header.ExtendedHeader{
		Time:        1231006505,
		Bits:        0x1d00ffff,
		BlockHeight: 0,
		BlockHash:   hashForHeight(0),
	}
	src.add(first)

	prev := header.ExtendedHeader{
		Time:        first.Time + uint32(p.TargetTimespan), // exactly on schedule
		Bits:        0x1d00ffff,
		BlockHeight: uint64(p.RetargetInterval - 1),
		BlockHash:   hashForHeight(uint64(p.RetargetInterval - 1)),
	}
	src.add(prev)

	h := &header.Header{Time: prev.Time + 600}
	got, err := NextWorkRequiredBitcoinFamily(p, h, &prev, src)
	require.NoError(t, err)
	require.Equal(t, prev.Bits, got) // actual timespan equals target timespan exactly
}

func TestMedianTimePast(t *testing.T) {
	src := newFakeSource()
	var cur header.ExtendedHeader
	for i := uint64(0); i < chainparams.MedianTimeSpan; i++ {
		cur = header.ExtendedHeader{
			Time:        uint32(1000 + i*10),
			BlockHeight: i,
			BlockHash:   hashForHeight(i),
		}
		if i > 0 {
			cur.PrevHash = hashForHeight(i - 1)
		}
		src.add(cur)
	}

	mtp, err := MedianTimePast(src, &cur, chainparams.MedianTimeSpan)
	require.NoError(t, err)
	require.Equal(t, uint32(1000+5*10), mtp)
}
