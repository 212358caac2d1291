// Package client wires chainparams, validator, retarget and store
// together into the public entry points a relayer or wallet talks to:
// init, submit_blocks, run_mainchain_gc, and the view methods. It plays
// the role the teacher's blockchain.BlockChain type plays for btcd's
// RPC server — a single façade hiding the validator/store split.
package client

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chainlynx/lightclient/auxpow"
	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/clienterr"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/store"
	"github.com/chainlynx/lightclient/u256"
	"github.com/chainlynx/lightclient/validator"
)

// InitArgs bootstraps a Client's backing store, optionally submitting a
// batch of headers immediately after genesis so a relayer can
// bootstrap a store in one call (carried over from the Rust contract's
// InitArgs.submit_blocks).
type InitArgs struct {
	GenesisBlock       header.Header
	GenesisBlockHash   chainhash.Hash
	GenesisBlockHeight uint64
	GenesisChainWork   u256.U256

	// GenesisZcash is set instead of GenesisBlock when Kind is Zcash.
	GenesisZcash header.ZcashHeader

	// GCThreshold and Network mirror the Rust contract's InitArgs
	// fields for documentation purposes; both are actually supplied to
	// New before Init runs, since the chain kind/network/threshold pick
	// which chainparams.Params this Client validates against and must
	// be fixed before any header — including genesis — is processed.
	GCThreshold uint64
	Network     chainparams.Network

	// SubmitBlocks lets a relayer seed the store with a batch of
	// headers (Bitcoin-family or Zcash, matching the client's chain
	// kind) in the same call as init.
	SubmitBlocks []BlockSubmission
}

// BlockSubmission bundles one candidate header with whatever
// chain-specific side data its validation needs: a Zcash solution's
// nonce/indices, or a Dogecoin header's AuxPoW payload.
type BlockSubmission struct {
	Header header.Header

	// ZcashHeader is used instead of Header when the client tracks
	// the Zcash chain kind.
	ZcashHeader     header.ZcashHeader
	SolutionIndices []int

	// AuxPow is set only for a Dogecoin header with HasAuxPow().
	AuxPow *auxpow.AuxPow
}

// Client is the façade a caller drives: one Client tracks exactly one
// chain kind and network, matching the build-time feature-flag scope
// the original contract used, generalized to a runtime value here.
type Client struct {
	params      chainparams.Params
	zcashParams chainparams.ZcashParams
	chainID     int32 // Dogecoin merged-mining chain ID, unused otherwise

	store  *store.ChainStore
	clock  validator.Clock
	logger *zap.SugaredLogger
}

// New constructs a Client for the given chain kind/network over kv,
// before Init has been called.
func New(kind chainparams.ChainKind, network chainparams.Network, kv store.KVStore, gcThreshold uint64, dogecoinChainID int32) *Client {
	c := &Client{
		store:   store.New(kv, kind.String(), gcThreshold),
		clock:   validator.SystemClock{},
		chainID: dogecoinChainID,
		logger:  zap.NewNop().Sugar(),
	}
	if kind == chainparams.Zcash {
		c.zcashParams = chainparams.ForZcashNetwork(network)
	} else {
		c.params = chainparams.ForNetwork(kind, network)
	}
	return c
}

// SetLogger installs l as the client's and its store's logger.
func (c *Client) SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	c.logger = l
	c.store.SetLogger(l)
}

// Kind reports which chain family this client tracks.
func (c *Client) Kind() chainparams.ChainKind {
	if c.zcashParams != (chainparams.ZcashParams{}) {
		return chainparams.Zcash
	}
	return c.params.Kind
}

// Init seeds the backing store with the genesis header and, if
// args.SubmitBlocks is non-empty, submits that batch immediately.
func (c *Client) Init(args InitArgs) error {
	var genesis header.ExtendedHeader
	if c.Kind() == chainparams.Zcash {
		genesis = header.ExtendedHeader{
			Version:     args.GenesisZcash.Version,
			MerkleRoot:  args.GenesisZcash.MerkleRoot,
			Time:        args.GenesisZcash.Time,
			Bits:        args.GenesisZcash.Bits,
			BlockHash:   args.GenesisBlockHash,
			BlockHeight: args.GenesisBlockHeight,
			ChainWork:   args.GenesisChainWork,
		}
	} else {
		genesis = header.ExtendedHeader{
			Version:     args.GenesisBlock.Version,
			PrevHash:    args.GenesisBlock.PrevBlock,
			MerkleRoot:  args.GenesisBlock.MerkleRoot,
			Time:        args.GenesisBlock.Time,
			Bits:        args.GenesisBlock.Bits,
			Nonce:       args.GenesisBlock.Nonce,
			BlockHash:   args.GenesisBlockHash,
			BlockHeight: args.GenesisBlockHeight,
			ChainWork:   args.GenesisChainWork,
		}
	}

	if err := c.store.InitGenesis(genesis); err != nil {
		return err
	}
	c.logger.Infof("store initialized: chain=%s genesis=%s height=%d", c.Kind(), genesis.BlockHash, genesis.BlockHeight)

	for _, b := range args.SubmitBlocks {
		if err := c.submitOne(b); err != nil {
			return err
		}
	}
	return nil
}

// SubmitBlocks processes headers left to right, stopping at the first
// failure. The batch is not atomic: an error from SubmitBlocks leaves
// every earlier header in the batch already accepted, and nothing is
// rolled back.
func (c *Client) SubmitBlocks(blocks []BlockSubmission) error {
	for i, b := range blocks {
		if err := c.submitOne(b); err != nil {
			return fmt.Errorf("submit_blocks: header %d: %w", i, err)
		}
	}
	return nil
}

func (c *Client) submitOne(b BlockSubmission) error {
	if c.Kind() == chainparams.Zcash {
		return c.submitZcash(b)
	}
	return c.submitBitcoinFamily(b)
}

func (c *Client) submitBitcoinFamily(b BlockSubmission) error {
	h := b.Header
	hash := h.BlockHash()

	if _, ok := c.store.HeaderByHash(hash); ok {
		c.logger.Debugf("ignoring already-accepted header %s", hash)
		return nil
	}

	prevExt, ok := c.store.HeaderByHash(h.PrevBlock)
	if !ok {
		return clienterr.New(clienterr.ErrPrevBlockNotFound, "parent header not found")
	}

	var auxBlockHash chainhash.Hash
	if h.HasAuxPow() {
		auxBlockHash = hash
	}
	cand := &validator.Candidate{Header: h, AuxPow: b.AuxPow}

	computedHash, work, err := validator.CheckHeader(c.params, c.clock, &h, &prevExt, c.store, auxBlockHash, c.chainID, cand)
	if err != nil {
		return err
	}

	var auxParentHash *chainhash.Hash
	if b.AuxPow != nil {
		ph := b.AuxPow.ParentBlockHeader.BlockHash()
		auxParentHash = &ph
	}
	return c.store.Accept(computedHash, h, work, auxParentHash)
}

func (c *Client) submitZcash(b BlockSubmission) error {
	h := b.ZcashHeader
	hash := h.BlockHash()

	if _, ok := c.store.HeaderByHash(hash); ok {
		c.logger.Debugf("ignoring already-accepted header %s", hash)
		return nil
	}

	prevExt, ok := c.store.HeaderByHash(h.PrevBlock)
	if !ok {
		return clienterr.New(clienterr.ErrPrevBlockNotFound, "parent header not found")
	}

	computedHash, work, err := validator.CheckZcashHeader(c.zcashParams, &h, b.SolutionIndices, &prevExt, c.store)
	if err != nil {
		return err
	}

	light := header.Header{
		Version:    h.Version,
		PrevBlock:  h.PrevBlock,
		MerkleRoot: h.MerkleRoot,
		Time:       h.Time,
		Bits:       h.Bits,
	}
	return c.store.Accept(computedHash, light, work, nil)
}

// RunMainchainGC prunes mainchain history outside the retention window.
func (c *Client) RunMainchainGC(batchSize uint64) (uint64, error) {
	return c.store.RunMainchainGC(batchSize)
}

// GetLastBlockHeader returns the mainchain tip.
func (c *Client) GetLastBlockHeader() (header.ExtendedHeader, error) {
	return c.store.Tip()
}

// GetBlockHashByHeight returns the mainchain hash at height, if any.
func (c *Client) GetBlockHashByHeight(height uint64) (chainhash.Hash, bool) {
	hash, err := c.store.HashByHeight(height)
	if err != nil {
		return chainhash.Hash{}, false
	}
	return hash, true
}

// GetHeightByBlockHash returns the mainchain height a hash was accepted
// at, if the hash is known and currently on the mainchain.
func (c *Client) GetHeightByBlockHash(hash chainhash.Hash) (uint64, bool) {
	height, err := c.store.HeightByHash(hash)
	if err != nil {
		return 0, false
	}
	return height, true
}

// GetLastNBlocksHashes returns up to limit mainchain hashes, most recent
// first, starting skip blocks behind the tip.
func (c *Client) GetLastNBlocksHashes(skip, limit uint64) ([]chainhash.Hash, error) {
	tip, err := c.store.Tip()
	if err != nil {
		return nil, err
	}
	if skip > tip.BlockHeight {
		return nil, nil
	}
	all, err := c.store.LastNHashes(tip.BlockHeight + 1)
	if err != nil {
		return nil, err
	}
	if int(skip) >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if uint64(len(all)) > limit {
		all = all[:limit]
	}
	return all, nil
}

// GetMainchainSize returns the number of headers currently retained on
// the mainchain.
func (c *Client) GetMainchainSize() (uint64, error) {
	return c.store.MainchainSize()
}

// ProofArgs bundles a transaction-inclusion verification request.
type ProofArgs struct {
	TxID          chainhash.Hash
	TxBlockHash   chainhash.Hash
	TxIndex       uint64
	MerkleProof   []chainhash.Hash
	Confirmations uint64
}

// VerifyTransactionInclusion reports whether args proves tx_id's
// inclusion at tx_index in the block tx_block_blockhash, with at least
// confirmations confirmations on the active mainchain. A false result
// with an error explains which rule failed; a false result is never
// returned without one.
func (c *Client) VerifyTransactionInclusion(args ProofArgs) (bool, error) {
	err := c.store.VerifyTransactionInclusion(args.TxBlockHash, args.TxID, int(args.TxIndex), args.MerkleProof, args.Confirmations)
	if err != nil {
		return false, err
	}
	return true, nil
}
