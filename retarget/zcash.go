package retarget

import (
	"sort"

	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/u256"
)

// NextWorkRequiredZcash computes the nBits a candidate Zcash header must
// satisfy, per zcash/zcash's GetNextWorkRequired: a PowAveragingWindow-block
// sliding average of targets, retargeted every block, damped by comparing
// the median-time-past of the window's two ends rather than raw
// timestamps (to resist time-warp attacks).
func NextWorkRequiredZcash(zp chainparams.ZcashParams, h *header.Header, prevExt *header.ExtendedHeader, src Source) (uint32, error) {
	if zp.PowAllowMinDifficultyAfterHeight >= 0 && int64(prevExt.BlockHeight) >= zp.PowAllowMinDifficultyAfterHeight {
		if int64(h.Time) > int64(prevExt.Time)+zp.PowTargetSpacing*6 {
			return zp.PowLimitBits, nil
		}
	}

	const span = chainparams.MedianTimeSpan

	cur := prevExt
	totalTarget := u256.Zero
	medianTime := make([]uint32, 0, span)

	for i := int64(0); i < zp.PowAveragingWindow; i++ {
		if i < span {
			medianTime = append(medianTime, cur.Time)
		}

		sum, overflow := totalTarget.OverflowingAdd(u256.TargetFromBits(cur.Bits))
		if overflow {
			return 0, errTargetOverflow
		}
		totalTarget = sum

		p, err := parent(src, cur)
		if err != nil {
			return 0, err
		}
		cur = &p
	}
	lastMedianTime := medianOf(medianTime)

	medianTime = medianTime[:0]
	for i := 0; i < span; i++ {
		medianTime = append(medianTime, cur.Time)
		p, err := parent(src, cur)
		if err != nil {
			return 0, err
		}
		cur = &p
	}
	firstMedianTime := medianOf(medianTime)

	averageTarget, _ := totalTarget.DivRem(u256.FromUint64(uint64(zp.PowAveragingWindow)))

	return CalculateNextWorkRequiredZcash(zp, averageTarget, lastMedianTime, firstMedianTime)
}

func medianOf(times []uint32) uint32 {
	sorted := make([]uint32, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)/2]
}

// CalculateNextWorkRequiredZcash applies the Digishield-style damping and
// retarget math once the caller has the averaged target and the two
// median-time-past bookends of the averaging window, matching
// zcash_calculate_next_work_required exactly (including its pre-Blossom
// vs. post-Blossom behavior, which is entirely a function of the
// PowTargetSpacing embedded in zp).
func CalculateNextWorkRequiredZcash(zp chainparams.ZcashParams, averageTarget u256.U256, lastMedianTimePast, firstMedianTimePast uint32) (uint32, error) {
	averagingWindowTimespan := zp.AveragingWindowTimespan()
	minActualTimespan := zp.MinActualTimespan()
	maxActualTimespan := zp.MaxActualTimespan()

	actualTimespan := int64(lastMedianTimePast) - int64(firstMedianTimePast)
	actualTimespan = averagingWindowTimespan + (actualTimespan-averagingWindowTimespan)/4

	if actualTimespan < minActualTimespan {
		actualTimespan = minActualTimespan
	}
	if actualTimespan > maxActualTimespan {
		actualTimespan = maxActualTimespan
	}

	newTarget, _ := averageTarget.DivRem(u256.FromUint64(uint64(averagingWindowTimespan)))
	newTarget, overflowed := newTarget.OverflowingMulUint64(uint64(actualTimespan))
	if overflowed {
		return 0, errTargetOverflow
	}

	powLimit := zp.PowLimit
	if newTarget.GreaterThan(powLimit) {
		newTarget = powLimit
	}

	return u256.TargetToBits(newTarget), nil
}
