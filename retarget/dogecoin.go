package retarget

import (
	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/u256"
)

// NextWorkRequiredDogecoin dispatches Dogecoin's two retarget eras: the
// legacy one-block Bitcoin-style rule used before DogecoinDigishieldHeight,
// and the Digishield-lite modulated-time rule from that height on, which
// retargets every block against a damped version of the single-block gap
// rather than the raw gap itself.
func NextWorkRequiredDogecoin(p chainparams.Params, h *header.Header, prevExt *header.ExtendedHeader, src Source) (uint32, error) {
	nextHeight := prevExt.BlockHeight + 1
	if p.DogecoinDigishieldHeight <= 0 || int64(nextHeight) < p.DogecoinDigishieldHeight {
		return nextWorkRequiredDogecoinLegacy(p, prevExt, src)
	}

	first, err := parent(src, prevExt)
	if err != nil {
		return 0, err
	}

	return calculateNextWorkRequiredDigishield(p, prevExt, first.Time)
}

// nextWorkRequiredDogecoinLegacy covers the pre-Digishield era, which
// retargets every block against its immediate predecessor rather than
// over a multi-block window (RetargetInterval is 1 for Dogecoin, unlike
// every other chain family here, so reusing the windowed Bitcoin-family
// formula with "go back RetargetInterval-1 blocks" would degenerate to
// comparing a block's timestamp with itself). The math otherwise is the
// same modulated-time-free Bitcoin retarget, clamped to a factor of four.
func nextWorkRequiredDogecoinLegacy(p chainparams.Params, prevExt *header.ExtendedHeader, src Source) (uint32, error) {
	first, err := parent(src, prevExt)
	if err != nil {
		return 0, err
	}
	return CalculateNextWorkRequired(p, prevExt, first.Time)
}

// calculateNextWorkRequiredDigishield implements Dogecoin's modulated-time
// smoothing: the raw single-block time gap is damped toward the target
// spacing by a factor of eight before it ever reaches the Bitcoin-style
// retarget formula, and the damped span is clamped to [expected*3/4,
// expected*3] rather than Bitcoin's factor-of-four clamp.
func calculateNextWorkRequiredDigishield(p chainparams.Params, prevExt *header.ExtendedHeader, firstTime uint32) (uint32, error) {
	expected := p.PowTargetSpacing
	actual := int64(prevExt.Time) - int64(firstTime)

	modulated := expected + (actual-expected)/8
	minSpan := expected * 3 / 4
	maxSpan := expected * 3
	if modulated < minSpan {
		modulated = minSpan
	}
	if modulated > maxSpan {
		modulated = maxSpan
	}

	newTarget := u256.TargetFromBits(prevExt.Bits)
	powLimit := p.PowLimit

	newTarget, overflowed := newTarget.OverflowingMulUint64(uint64(modulated))
	if overflowed {
		return 0, errTargetOverflow
	}
	newTarget, _ = newTarget.DivRem(u256.FromUint64(uint64(expected)))

	if newTarget.GreaterThan(powLimit) {
		newTarget = powLimit
	}

	return u256.TargetToBits(newTarget), nil
}
