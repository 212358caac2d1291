// Package validator assembles the full per-chain-kind header acceptance
// rule: proof-of-work against the claimed target, the retarget rule for
// the chain family, (for Litecoin only) median-time-past and future-time
// bounds and the minimum version rule, and (for Zcash and Dogecoin) the
// chain-specific proof payload — Equihash solution or AuxPoW merged-mining
// proof.
package validator

import (
	"time"

	"go.uber.org/zap"

	"github.com/chainlynx/lightclient/auxpow"
	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/chainparams"
	"github.com/chainlynx/lightclient/clienterr"
	"github.com/chainlynx/lightclient/equihash"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/retarget"
	"github.com/chainlynx/lightclient/u256"
)

// logger is package-level rather than threaded through every call since
// CheckHeader/CheckZcashHeader are stateless funcs, not methods on a
// long-lived type, mirroring btcsuite's UseLogger(btclog.Logger)
// convention with a zap.SugaredLogger standing in for btclog.Logger.
var logger = zap.NewNop().Sugar()

// SetLogger installs l as the validator package's logger. Passing nil
// restores the no-op logger.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	logger = l
}

// Clock abstracts the wall-clock read the future-time check needs, so
// tests can supply a fixed instant instead of depending on real time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock, backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// Candidate bundles everything needed to validate one Bitcoin-family
// header submission beyond the light header fields themselves.
type Candidate struct {
	Header header.Header
	AuxPow *auxpow.AuxPow // set only when Header.HasAuxPow()
}

// CheckHeader validates a Bitcoin/Litecoin/Dogecoin-family header h
// against its already-accepted parent prevExt, using src to look up
// retarget ancestors. It returns the computed block hash and chain work
// delta on success.
func CheckHeader(p chainparams.Params, clock Clock, h *header.Header, prevExt *header.ExtendedHeader, src retarget.Source, auxBlockHash chainhash.Hash, chainID int32, cand *Candidate) (chainhash.Hash, u256.U256, error) {
	// The minimum-version gate and the median-time-past/future-time
	// checks are a Litecoin-only rule: neither bitcoin.rs's nor
	// zcash.rs's check_pow runs them, only litecoin.rs's does.
	if p.Kind == chainparams.Litecoin {
		if h.Version < p.MinVersion {
			return chainhash.Hash{}, u256.U256{}, clienterr.Newf(clienterr.ErrBadVersion,
				"header version %d below minimum %d", h.Version, p.MinVersion)
		}
		if err := checkTimestamp(clock, h, prevExt, src); err != nil {
			return chainhash.Hash{}, u256.U256{}, err
		}
	}

	var expectedBits uint32
	var err error
	switch p.Kind {
	case chainparams.Dogecoin:
		expectedBits, err = retarget.NextWorkRequiredDogecoin(p, h, prevExt, src)
	case chainparams.Litecoin, chainparams.Bitcoin:
		expectedBits, err = retarget.NextWorkRequiredBitcoinFamily(p, h, prevExt, src)
	default:
		return chainhash.Hash{}, u256.U256{}, clienterr.New(clienterr.ErrIncorrectTarget, "unsupported chain kind for bitcoin-family header")
	}
	if err != nil {
		return chainhash.Hash{}, u256.U256{}, err
	}
	if expectedBits != h.Bits {
		return chainhash.Hash{}, u256.U256{}, clienterr.Newf(clienterr.ErrIncorrectTarget,
			"incorrect target: expected bits %08x, got %08x", expectedBits, h.Bits)
	}

	powHash := p.Kind.PowHash(h)
	if err := checkProofOfWork(powHash, h.Bits); err != nil {
		logger.Warnf("header failed proof-of-work check: chain=%s bits=%08x err=%v", p.Kind, h.Bits, err)
		return chainhash.Hash{}, u256.U256{}, err
	}

	if p.Kind == chainparams.Dogecoin && h.HasAuxPow() {
		if cand == nil || cand.AuxPow == nil {
			return chainhash.Hash{}, u256.U256{}, clienterr.New(clienterr.ErrInvalidAuxPow, "auxpow version bit set but no proof submitted")
		}
		if err := cand.AuxPow.Check(auxBlockHash, chainID); err != nil {
			return chainhash.Hash{}, u256.U256{}, clienterr.Newf(clienterr.ErrInvalidAuxPow, "auxpow: %v", err)
		}
		parentPowHash := cand.AuxPow.ParentBlockHeader.BlockHashPoW()
		if err := checkProofOfWork(parentPowHash, h.Bits); err != nil {
			return chainhash.Hash{}, u256.U256{}, err
		}
	}

	work := u256.WorkFromTarget(u256.TargetFromBits(h.Bits))
	blockHash := h.BlockHash()
	logger.Debugf("header accepted: chain=%s hash=%s", p.Kind, blockHash)
	return blockHash, work, nil
}

// CheckZcashHeader validates a Zcash header against its parent, checking
// the averaging-window retarget rule, the Equihash solution and the PoW
// hash against the resulting target. Unlike Litecoin, zcash.rs's
// check_pow has no median-time-past, future-time or version check —
// only the bits-equality and Equihash checks.
func CheckZcashHeader(zp chainparams.ZcashParams, h *header.ZcashHeader, solutionIndices []int, prevExt *header.ExtendedHeader, src retarget.Source) (chainhash.Hash, u256.U256, error) {
	legacyHeader := &header.Header{Version: h.Version, Time: h.Time, Bits: h.Bits}
	expectedBits, err := retarget.NextWorkRequiredZcash(zp, legacyHeader, prevExt, src)
	if err != nil {
		return chainhash.Hash{}, u256.U256{}, err
	}
	if expectedBits != h.Bits {
		return chainhash.Hash{}, u256.U256{}, clienterr.Newf(clienterr.ErrIncorrectTarget,
			"incorrect target: expected bits %08x, got %08x", expectedBits, h.Bits)
	}

	equihashInput := append(h.EquihashInput(), h.Nonce[:]...)
	ok, err := equihash.ValidateSolution(equihash.N, equihash.K, equihashInput, solutionIndices)
	if err != nil || !ok {
		return chainhash.Hash{}, u256.U256{}, clienterr.Newf(clienterr.ErrInvalidEquihashSolution, "invalid equihash solution: %v", err)
	}

	blockHash := h.BlockHash()
	if err := checkProofOfWork(blockHash, h.Bits); err != nil {
		return chainhash.Hash{}, u256.U256{}, err
	}

	work := u256.WorkFromTarget(u256.TargetFromBits(h.Bits))
	return blockHash, work, nil
}

func checkTimestamp(clock Clock, h *header.Header, prevExt *header.ExtendedHeader, src retarget.Source) error {
	mtp, err := retarget.MedianTimePast(src, prevExt, chainparams.MedianTimeSpan)
	if err != nil {
		return err
	}
	if h.Time <= mtp {
		return clienterr.Newf(clienterr.ErrTimeTooOld, "header time %d not after median time past %d", h.Time, mtp)
	}
	if int64(h.Time) > clock.Now().Add(chainparams.MaxFutureBlockTimeLocal).Unix() {
		return clienterr.Newf(clienterr.ErrTimeTooNew, "header time %d too far in the future", h.Time)
	}
	return nil
}

// checkProofOfWork requires that powHash, read as a 256-bit little-endian
// integer, not exceed the target encoded by bits.
func checkProofOfWork(powHash chainhash.Hash, bits uint32) error {
	target := u256.TargetFromBits(bits)
	hashNum := u256.FromLittleEndianBytes([32]byte(powHash))
	if hashNum.GreaterThan(target) {
		return clienterr.Newf(clienterr.ErrInsufficientPoW, "hash %s does not satisfy target for bits %08x", powHash, bits)
	}
	return nil
}
