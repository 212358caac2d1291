package retarget

import (
	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/u256"
)

// MedianTimePast walks span ancestors backward from start (inclusive) and
// returns the median of their timestamps, matching the Bitcoin-family
// GetMedianTimePast rule used both for the stale-timestamp check and,
// within Zcash's averaging window, for its own damping calculation.
func MedianTimePast(src Source, start *header.ExtendedHeader, span int) (uint32, error) {
	times := make([]uint32, 0, span)
	cur := start
	for i := 0; i < span; i++ {
		times = append(times, cur.Time)
		if i == span-1 {
			break
		}
		p, err := parent(src, cur)
		if err != nil {
			return 0, err
		}
		cur = &p
	}

	for i := 1; i < len(times); i++ {
		for j := i; j > 0 && times[j-1] > times[j]; j-- {
			times[j-1], times[j] = times[j], times[j-1]
		}
	}
	return times[len(times)/2], nil
}

// NextWorkRequiredBitcoinFamily computes the nBits a candidate header h
// must satisfy, for the Bitcoin, Litecoin and pre-Digishield Dogecoin
// retarget rule: a fixed RetargetInterval-block window, recomputed only
// at interval boundaries, with an optional testnet min-difficulty
// shortcut in between.
func NextWorkRequiredBitcoinFamily(p chainparams.Params, h *header.Header, prevExt *header.ExtendedHeader, src Source) (uint32, error) {
	nextHeight := prevExt.BlockHeight + 1

	if nextHeight%uint64(p.RetargetInterval) != 0 {
		if !p.AllowMinDifficulty {
			return prevExt.Bits, nil
		}
		return minDifficultyBits(p, h, prevExt, src)
	}

	blocksToGoBack := p.RetargetInterval - 1
	if p.Kind == chainparams.Litecoin && nextHeight != uint64(p.RetargetInterval) {
		blocksToGoBack = p.RetargetInterval
	}

	goBackHeight := int64(prevExt.BlockHeight) - blocksToGoBack
	if goBackHeight < 0 {
		goBackHeight = 0
	}
	first, ok := src.HeaderByHeight(uint64(goBackHeight))
	if !ok {
		return 0, ErrMissingAncestor
	}

	bits, err := CalculateNextWorkRequired(p, prevExt, first.Time)
	if err == nil {
		logger.Debugf("retarget boundary crossed: chain=%s height=%d bits=%08x", p.Kind, nextHeight, bits)
	}
	return bits, err
}

// minDifficultyBits implements the testnet rule: if the candidate header
// arrives more than MinDifficultyGapBlocks spacings after the tip, it may
// claim the chain's easiest allowed target outright; otherwise the target
// is the most recent non-minimum-difficulty bits seen.
func minDifficultyBits(p chainparams.Params, h *header.Header, prevExt *header.ExtendedHeader, src Source) (uint32, error) {
	gap := p.MinDifficultyGapBlocks
	if gap == 0 {
		gap = 2
	}
	if int64(h.Time) > int64(prevExt.Time)+gap*p.PowTargetSpacing {
		return p.PowLimitBits, nil
	}

	cur := prevExt
	for cur.BlockHeight%uint64(p.RetargetInterval) != 0 && cur.Bits == p.PowLimitBits {
		parentHdr, err := parent(src, cur)
		if err != nil {
			return 0, err
		}
		cur = &parentHdr
	}
	return cur.Bits, nil
}

// CalculateNextWorkRequired retargets from the elapsed time between
// prevExt and firstTime (the block RetargetInterval-1/RetargetInterval
// blocks behind it), clamped to a factor of four either way, matching
// Bitcoin's CalculateNextWorkRequired. Litecoin additionally shifts the
// target down a bit before the multiply to avoid overflowing its wider
// pow_limit, shifting back up afterward.
func CalculateNextWorkRequired(p chainparams.Params, prevExt *header.ExtendedHeader, firstTime uint32) (uint32, error) {
	actualTimespan := int64(prevExt.Time) - int64(firstTime)

	minTimespan := p.TargetTimespan / 4
	maxTimespan := p.TargetTimespan * 4
	if actualTimespan < minTimespan {
		actualTimespan = minTimespan
	}
	if actualTimespan > maxTimespan {
		actualTimespan = maxTimespan
	}

	newTarget := u256.TargetFromBits(prevExt.Bits)
	powLimit := p.PowLimit

	shrunk := false
	if p.Kind == chainparams.Litecoin && newTarget.Bits() > powLimit.Bits()-1 {
		newTarget = newTarget.WrappingShr(1)
		shrunk = true
	}

	newTarget, overflowed := newTarget.OverflowingMulUint64(uint64(actualTimespan))
	if overflowed {
		return 0, errTargetOverflow
	}
	newTarget, _ = newTarget.DivRem(u256.FromUint64(uint64(p.TargetTimespan)))

	if shrunk {
		newTarget = newTarget.WrappingShl(1)
	}

	if newTarget.GreaterThan(powLimit) {
		newTarget = powLimit
	}

	return u256.TargetToBits(newTarget), nil
}
