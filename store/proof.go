package store

import (
	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/clienterr"
	"github.com/chainlynx/lightclient/merkle"
	"github.com/chainlynx/lightclient/metrics"
)

// VerifyTransactionInclusion checks that txHash is included at position
// txIndex in the block identified by blockHash via the supplied Merkle
// proof, and that the block has at least minConfirmations confirmations
// on the active mainchain — preventing an SPV client from trusting a
// proof anchored in a block that could still be reorganized away, or in
// a header that was never promoted to the mainchain at all.
func (s *ChainStore) VerifyTransactionInclusion(blockHash chainhash.Hash, txHash chainhash.Hash, txIndex int, proof []chainhash.Hash, minConfirmations uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blockExt, ok, err := s.kv.GetHeader(blockHash)
	if err != nil {
		return err
	}
	if !ok {
		metrics.InclusionProofsVerified.WithLabelValues("unknown_block").Inc()
		return clienterr.New(clienterr.ErrPrevBlockNotFound, "unknown block hash")
	}

	mainHash, ok, err := s.kv.GetMainchainHash(blockExt.BlockHeight)
	if err != nil {
		return err
	}
	if !ok || mainHash != blockHash {
		metrics.InclusionProofsVerified.WithLabelValues("not_on_mainchain").Inc()
		return clienterr.New(clienterr.ErrBlockNotOnMainchain, "block is not on the active mainchain")
	}

	tip, err := s.tipLocked()
	if err != nil {
		return err
	}
	confirmations := tip.BlockHeight - blockExt.BlockHeight
	if confirmations < minConfirmations {
		metrics.InclusionProofsVerified.WithLabelValues("insufficient_confirmations").Inc()
		return clienterr.Newf(clienterr.ErrInsufficientConfirmations,
			"block has %d confirmations, want at least %d", confirmations, minConfirmations)
	}

	if !merkle.VerifyProof(txHash, txIndex, proof, blockExt.MerkleRoot) {
		metrics.InclusionProofsVerified.WithLabelValues("bad_proof").Inc()
		return clienterr.New(clienterr.ErrInvalidMerkleProof, "merkle proof does not resolve to the block's merkle root")
	}

	metrics.InclusionProofsVerified.WithLabelValues("ok").Inc()
	return nil
}
