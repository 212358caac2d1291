package client

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/merkle"
	"github.com/chainlynx/lightclient/store"
	"github.com/chainlynx/lightclient/u256"
)

// mineToTarget bumps nonce until the header's block hash satisfies bits,
// exercising the real proof-of-work comparison the same way
// validator_test.go does.
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

func newBitcoinClient(t *testing.T) (*Client, chainparams.Params) {
	t.Helper()
	p := chainparams.BitcoinMainnet()
	c := New(chainparams.Bitcoin, chainparams.Mainnet, store.NewMemStore(), 0, 0)
	return c, p
}

func TestInitAndSubmitBlocksBuildsMainchain(t *testing.T) {
	c, p := newBitcoinClient(t)

	genesis := header.Header{Version: 1, Time: 1231006505, Bits: p.PowLimitBits}
	mineToTarget(t, &genesis)
	genesisHash := genesis.BlockHash()

	require.NoError(t, c.Init(InitArgs{
		GenesisBlock:       genesis,
		GenesisBlockHash:   genesisHash,
		GenesisBlockHeight: 0,
		GenesisChainWork:   u256.WorkFromTarget(u256.TargetFromBits(genesis.Bits)),
	}))

	child := header.Header{Version: 1, PrevBlock: genesisHash, Time: genesis.Time + 600, Bits: p.PowLimitBits}
	mineToTarget(t, &child)

	require.NoError(t, c.SubmitBlocks([]BlockSubmission{{Header: child}}))

	tip, err := c.GetLastBlockHeader()
	require.NoError(t, err)
	require.Equal(t, child.BlockHash(), tip.BlockHash)
	require.Equal(t, uint64(1), tip.BlockHeight)

	hash, ok := c.GetBlockHashByHeight(1)
	require.True(t, ok)
	require.Equal(t, child.BlockHash(), hash)

	height, ok := c.GetHeightByBlockHash(genesisHash)
	require.True(t, ok)
	require.Equal(t, uint64(0), height)

	size, err := c.GetMainchainSize()
	require.NoError(t, err)
	require.Equal(t, uint64(2), size)

	hashes, err := c.GetLastNBlocksHashes(0, 10)
	require.NoError(t, err)
	require.Equal(t, []chainhash.Hash{tip.BlockHash, genesisHash}, hashes)
}

func TestSubmitBlocksRejectsBadProofOfWork(t *testing.T) {
	c, p := newBitcoinClient(t)

	genesis := header.Header{Version: 1, Time: 1231006505, Bits: p.PowLimitBits}
	mineToTarget(t, &genesis)
	genesisHash := genesis.BlockHash()
	require.NoError(t, c.Init(InitArgs{
		GenesisBlock:       genesis,
		GenesisBlockHash:   genesisHash,
		GenesisBlockHeight: 0,
		GenesisChainWork:   u256.WorkFromTarget(u256.TargetFromBits(genesis.Bits)),
	}))

	bad := header.Header{Version: 1, PrevBlock: genesisHash, Time: genesis.Time + 600, Bits: p.PowLimitBits, Nonce: 0}
	// Deliberately not mined: nonce 0 essentially never satisfies the target.
	err := c.SubmitBlocks([]BlockSubmission{{Header: bad}})
	require.Error(t, err)
}

func TestDuplicateSubmissionIsIdempotent(t *testing.T) {
	c, p := newBitcoinClient(t)

	genesis := header.Header{Version: 1, Time: 1231006505, Bits: p.PowLimitBits}
	mineToTarget(t, &genesis)
	genesisHash := genesis.BlockHash()
	require.NoError(t, c.Init(InitArgs{
		GenesisBlock:       genesis,
		GenesisBlockHash:   genesisHash,
		GenesisBlockHeight: 0,
		GenesisChainWork:   u256.WorkFromTarget(u256.TargetFromBits(genesis.Bits)),
	}))

	child := header.Header{Version: 1, PrevBlock: genesisHash, Time: genesis.Time + 600, Bits: p.PowLimitBits}
	mineToTarget(t, &child)

	require.NoError(t, c.SubmitBlocks([]BlockSubmission{{Header: child}}))
	require.NoError(t, c.SubmitBlocks([]BlockSubmission{{Header: child}}))

	size, err := c.GetMainchainSize()
	require.NoError(t, err)
	require.Equal(t, uint64(2), size, "resubmitting an already-accepted header must not double-count")
}

func TestVerifyTransactionInclusionThroughClient(t *testing.T) {
	c, p := newBitcoinClient(t)

	leaves := make([]chainhash.Hash, 2)
	leaves[0][0], leaves[1][0] = 0xaa, 0xbb
	root := merkle.ComputeHash(&leaves[0], &leaves[1])

	genesis := header.Header{Version: 1, Time: 1231006505, Bits: p.PowLimitBits, MerkleRoot: root}
	mineToTarget(t, &genesis)
	genesisHash := genesis.BlockHash()
	require.NoError(t, c.Init(InitArgs{
		GenesisBlock:       genesis,
		GenesisBlockHash:   genesisHash,
		GenesisBlockHeight: 0,
		GenesisChainWork:   u256.WorkFromTarget(u256.TargetFromBits(genesis.Bits)),
	}))

	proof := merkle.ProofCalculator(leaves, 1)
	ok, err := c.VerifyTransactionInclusion(ProofArgs{
		TxID:          leaves[1],
		TxBlockHash:   genesisHash,
		TxIndex:       1,
		MerkleProof:   proof,
		Confirmations: 0,
	})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = c.VerifyTransactionInclusion(ProofArgs{
		TxID:          leaves[1],
		TxBlockHash:   genesisHash,
		TxIndex:       1,
		MerkleProof:   proof,
		Confirmations: 5,
	})
	require.Error(t, err)
}
