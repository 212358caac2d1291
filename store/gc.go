package store

import "github.com/chainlynx/lightclient/metrics"

// RunMainchainGC prunes mainchain entries and their backing header
// records below the retention window [tip_height - gcThreshold + 1,
// tip_height], bounded by batchSize removals per call. It is idempotent
// and safe to call from anyone, and never touches the active window.
func (s *ChainStore) RunMainchainGC(batchSize uint64) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tip, err := s.tipLocked()
	if err != nil {
		return 0, err
	}
	if tip.BlockHeight < s.gcThreshold {
		return 0, nil
	}
	retentionFloor := tip.BlockHeight - s.gcThreshold + 1

	low, ok, err := s.kv.GetLowHeight()
	if err != nil {
		return 0, err
	}
	if !ok {
		low = 0
	}

	pruned := uint64(0)
	height := low
	for height < retentionFloor && pruned < batchSize {
		hash, ok, err := s.kv.GetMainchainHash(height)
		if err != nil {
			return pruned, err
		}
		if ok {
			if err := s.kv.DeleteMainchainHash(height); err != nil {
				return pruned, err
			}
			if err := s.kv.DeleteHeader(hash); err != nil {
				return pruned, err
			}
		}
		height++
		pruned++
	}

	if err := s.kv.SetLowHeight(height); err != nil {
		return pruned, err
	}
	size, err := s.kv.GetMainchainSize()
	if err != nil {
		return pruned, err
	}
	if size >= pruned {
		size -= pruned
	} else {
		size = 0
	}
	if err := s.kv.SetMainchainSize(size); err != nil {
		return pruned, err
	}

	metrics.GCHeadersPruned.Add(float64(pruned))
	metrics.MainchainSize.Set(float64(size))
	if pruned > 0 {
		s.logger.Infof("pruned mainchain history: chain=%s pruned=%d new_low_height=%d", s.chainLabel, pruned, height)
	}
	return pruned, nil
}
