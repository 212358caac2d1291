package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/merkle"
	"github.com/chainlynx/lightclient/u256"
)

func hashFromByte(b byte) chainhash.Hash {
	var h chainhash.Hash
	h[0] = b
	return h
}

func genesis() header.ExtendedHeader {
	return header.ExtendedHeader{
		BlockHash:   hashFromByte(1),
		ChainWork:   u256.FromUint64(1),
		BlockHeight: 0,
	}
}

func child(parentHash chainhash.Hash, parentHeight uint64, tag byte) (header.Header, chainhash.Hash) {
	h := header.Header{PrevBlock: parentHash, Time: uint32(parentHeight) + 1}
	hash := hashFromByte(tag)
	return h, hash
}

func TestInitGenesisAndExtendMainchain(t *testing.T) {
	s := New(NewMemStore(), "bitcoin", 0)
	require.NoError(t, s.InitGenesis(genesis()))

	light, hash := child(genesis().BlockHash, 0, 2)
	require.NoError(t, s.Accept(hash, light, u256.FromUint64(1), nil))

	tip, err := s.Tip()
	require.NoError(t, err)
	require.Equal(t, hash, tip.BlockHash)
	require.Equal(t, uint64(1), tip.BlockHeight)

	size, err := s.MainchainSize()
	require.NoError(t, err)
	require.Equal(t, uint64(2), size)
}

func TestAcceptDuplicateHeaderFails(t *testing.T) {
	s := New(NewMemStore(), "bitcoin", 0)
	require.NoError(t, s.InitGenesis(genesis()))

	light, hash := child(genesis().BlockHash, 0, 2)
	require.NoError(t, s.Accept(hash, light, u256.FromUint64(1), nil))
	require.Error(t, s.Accept(hash, light, u256.FromUint64(1), nil))
}

func TestAcceptUnknownParentFails(t *testing.T) {
	s := New(NewMemStore(), "bitcoin", 0)
	require.NoError(t, s.InitGenesis(genesis()))

	light, hash := child(hashFromByte(0xee), 0, 2)
	require.Error(t, s.Accept(hash, light, u256.FromUint64(1), nil))
}

func TestForkAndReorgPromotesHeavierBranch(t *testing.T) {
	s := New(NewMemStore(), "bitcoin", 0)
	require.NoError(t, s.InitGenesis(genesis()))

	// A: light branch, becomes tip first.
	aLight, aHash := child(genesis().BlockHash, 0, 2)
	require.NoError(t, s.Accept(aHash, aLight, u256.FromUint64(1), nil))

	// F1: fork off genesis, same work as A alone — not enough to overtake.
	f1Light, f1Hash := child(genesis().BlockHash, 0, 3)
	require.NoError(t, s.Accept(f1Hash, f1Light, u256.FromUint64(1), nil))

	tip, err := s.Tip()
	require.NoError(t, err)
	require.Equal(t, aHash, tip.BlockHash, "fork with equal work must not displace the current tip")

	// F2: extends F1 with enough work to overtake A.
	f2Light, f2Hash := child(f1Hash, 1, 4)
	require.NoError(t, s.Accept(f2Hash, f2Light, u256.FromUint64(10), nil))

	tip, err = s.Tip()
	require.NoError(t, err)
	require.Equal(t, f2Hash, tip.BlockHash)
	require.Equal(t, uint64(2), tip.BlockHeight)

	mainHash1, err := s.HashByHeight(1)
	require.NoError(t, err)
	require.Equal(t, f1Hash, mainHash1)

	// A is still stored, just no longer on the mainchain.
	_, err = s.HeightByHash(aHash)
	require.Error(t, err)
}

func TestRunMainchainGCPrunesBelowRetentionWindow(t *testing.T) {
	s := New(NewMemStore(), "bitcoin", 3)
	require.NoError(t, s.InitGenesis(genesis()))

	prevHash := genesis().BlockHash
	for i := uint64(0); i < 5; i++ {
		light, hash := child(prevHash, i, byte(10+i))
		require.NoError(t, s.Accept(hash, light, u256.FromUint64(1), nil))
		prevHash = hash
	}

	pruned, err := s.RunMainchainGC(100)
	require.NoError(t, err)
	require.Greater(t, pruned, uint64(0))

	_, err = s.HashByHeight(0)
	require.Error(t, err, "genesis should have been pruned outside the retention window")
}

func TestVerifyTransactionInclusion(t *testing.T) {
	s := New(NewMemStore(), "bitcoin", 0)

	leaves := make([]chainhash.Hash, 4)
	for i := range leaves {
		leaves[i] = hashFromByte(byte(0x10 + i))
	}
	h01 := merkle.ComputeHash(&leaves[0], &leaves[1])
	h23 := merkle.ComputeHash(&leaves[2], &leaves[3])
	root := merkle.ComputeHash(&h01, &h23)

	g := genesis()
	g.MerkleRoot = root
	require.NoError(t, s.InitGenesis(g))

	proof := merkle.ProofCalculator(leaves, 2)
	require.NoError(t, s.VerifyTransactionInclusion(g.BlockHash, leaves[2], 2, proof, 0))
	require.Error(t, s.VerifyTransactionInclusion(g.BlockHash, leaves[2], 2, proof, 1))
}
