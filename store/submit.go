package store

import (
	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/clienterr"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/metrics"
	"github.com/chainlynx/lightclient/u256"
)

// Accept inserts a header whose proof-of-work, retarget and timestamp
// rules the caller has already validated, computing its placement and
// performing a reorg if the new branch now carries more work than the
// mainchain tip. blockHash and blockWork are the values the validator
// already computed, passed in rather than recomputed here; auxParentHash
// is non-nil only for a Dogecoin header carrying an AuxPoW payload.
func (s *ChainStore) Accept(blockHash chainhash.Hash, light header.Header, blockWork u256.U256, auxParentHash *chainhash.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok, err := s.kv.GetHeader(blockHash); err != nil {
		return err
	} else if ok {
		return clienterr.New(clienterr.ErrDuplicateHeader, "header already accepted")
	}

	prev, ok, err := s.kv.GetHeader(light.PrevBlock)
	if err != nil {
		return err
	}
	if !ok {
		return clienterr.New(clienterr.ErrPrevBlockNotFound, "parent header not found")
	}

	newExt := header.ExtendedHeader{
		Version:       light.Version,
		PrevHash:      light.PrevBlock,
		MerkleRoot:    light.MerkleRoot,
		Time:          light.Time,
		Bits:          light.Bits,
		Nonce:         light.Nonce,
		BlockHash:     blockHash,
		BlockHeight:   prev.BlockHeight + 1,
		ChainWork:     prev.ChainWork.SaturatingAdd(blockWork),
		AuxParentHash: auxParentHash,
	}

	if err := s.kv.PutHeader(newExt); err != nil {
		return err
	}

	tipHash, ok, err := s.kv.GetTip()
	if err != nil {
		return err
	}
	if !ok {
		return clienterr.New(clienterr.ErrPrevBlockNotFound, "store not initialized")
	}

	if light.PrevBlock == tipHash {
		if err := s.extendMainchain(newExt); err != nil {
			return err
		}
		metrics.HeadersAccepted.WithLabelValues(s.chainLabel, "mainchain").Inc()
		return nil
	}

	tip, ok, err := s.kv.GetHeader(tipHash)
	if err != nil {
		return err
	}
	if !ok {
		return clienterr.New(clienterr.ErrPrevBlockNotFound, "mainchain tip header missing")
	}

	if newExt.ChainWork.GreaterThan(tip.ChainWork) {
		if err := s.reorg(newExt); err != nil {
			return err
		}
		metrics.HeadersAccepted.WithLabelValues(s.chainLabel, "reorg").Inc()
		return nil
	}

	s.logger.Debugf("accepted fork header: chain=%s hash=%s height=%d", s.chainLabel, blockHash, newExt.BlockHeight)
	metrics.HeadersAccepted.WithLabelValues(s.chainLabel, "fork").Inc()
	return nil
}

// extendMainchain handles the common case: the new header's parent is the
// current tip, so it becomes the new tip outright.
func (s *ChainStore) extendMainchain(newExt header.ExtendedHeader) error {
	if err := s.kv.PutMainchainHash(newExt.BlockHeight, newExt.BlockHash); err != nil {
		return err
	}
	if err := s.kv.SetTip(newExt.BlockHash); err != nil {
		return err
	}
	size, err := s.kv.GetMainchainSize()
	if err != nil {
		return err
	}
	if err := s.kv.SetMainchainSize(size + 1); err != nil {
		return err
	}
	metrics.TipHeight.Set(float64(newExt.BlockHeight))
	metrics.MainchainSize.Set(float64(size + 1))
	return nil
}

// reorg promotes the branch ending at newTip to the mainchain: it walks
// parent pointers back to the fork point, rewrites mainchain height
// pointers for every height from the fork point to the new tip, and lets
// the now-displaced headers remain addressable only by hash (no
// per-header placement is stored, so no separate write is needed
// there).
func (s *ChainStore) reorg(newTip header.ExtendedHeader) error {
	var branch []header.ExtendedHeader
	cur := newTip
	for {
		mainHash, ok, err := s.kv.GetMainchainHash(cur.BlockHeight)
		if err != nil {
			return err
		}
		if ok && mainHash == cur.BlockHash {
			break
		}
		branch = append(branch, cur)
		parent, ok, err := s.kv.GetHeader(cur.PrevHash)
		if err != nil {
			return err
		}
		if !ok {
			return clienterr.New(clienterr.ErrPrevBlockNotFound, "reorg: ancestor missing while walking back to fork point")
		}
		cur = parent
	}
	forkHeight := cur.BlockHeight

	oldTipHash, _, err := s.kv.GetTip()
	if err != nil {
		return err
	}
	oldTip, ok, err := s.kv.GetHeader(oldTipHash)
	if err != nil {
		return err
	}
	if !ok {
		return clienterr.New(clienterr.ErrPrevBlockNotFound, "reorg: old tip header missing")
	}

	for h := forkHeight + 1; h <= oldTip.BlockHeight; h++ {
		if err := s.kv.DeleteMainchainHash(h); err != nil {
			return err
		}
	}

	for i := len(branch) - 1; i >= 0; i-- {
		b := branch[i]
		if err := s.kv.PutMainchainHash(b.BlockHeight, b.BlockHash); err != nil {
			return err
		}
	}

	if err := s.kv.SetTip(newTip.BlockHash); err != nil {
		return err
	}
	low, ok, err := s.kv.GetLowHeight()
	if err != nil {
		return err
	}
	if !ok {
		low = 0
	}
	if err := s.kv.SetMainchainSize(newTip.BlockHeight - low + 1); err != nil {
		return err
	}

	metrics.ReorgsTotal.Inc()
	metrics.ReorgDepth.Observe(float64(oldTip.BlockHeight - forkHeight))
	metrics.TipHeight.Set(float64(newTip.BlockHeight))
	s.logger.Infof("reorg promoted heavier branch: chain=%s new_tip=%s old_tip=%s fork_height=%d depth=%d",
		s.chainLabel, newTip.BlockHash, oldTip.BlockHash, forkHeight, oldTip.BlockHeight-forkHeight)
	return nil
}
