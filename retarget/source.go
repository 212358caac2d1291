// Package retarget implements the per-chain-family difficulty
// retargeting rules, grounded on the reference contract's
// bitcoin.rs/litecoin.rs/dogecoin.rs/zcash.rs (themselves ports of the
// upstream C++ pow.cpp of each project).
package retarget

import (
	"errors"

	"go.uber.org/zap"

	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/clienterr"
	"github.com/chainlynx/lightclient/header"
)

// logger is package-level for the same reason as validator's: these are
// stateless retarget funcs, not methods on a long-lived type. It mirrors
// btcsuite's UseLogger(btclog.Logger) convention, swapped for a
// zap.SugaredLogger so call sites read Debugf/Infof like the teacher's
// blockchain/difficulty.go log lines.
var logger = zap.NewNop().Sugar()

// SetLogger installs l as the retarget package's logger. Passing nil
// restores the no-op logger.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	logger = l
}

// ErrMissingAncestor is returned when a retarget calculation needs an
// ancestor header the store doesn't have — always a caller bug, since
// the chain store never admits a header whose parent is missing.
var ErrMissingAncestor = errors.New("retarget: missing ancestor header")

// errTargetOverflow is returned when a retarget multiplication would
// overflow the 256-bit target space — unreachable under real consensus
// parameters, but checked rather than assumed.
var errTargetOverflow = clienterr.New(clienterr.ErrTargetOverflow, "retarget: target overflow computing next work")

// Source is the read-only view into the chain store a retarget
// calculation needs: looking up a header by hash (to walk parent
// pointers) or by height (to find an interval boundary).
type Source interface {
	HeaderByHash(hash chainhash.Hash) (header.ExtendedHeader, bool)
	HeaderByHeight(height uint64) (header.ExtendedHeader, bool)
}

func parent(src Source, h *header.ExtendedHeader) (header.ExtendedHeader, error) {
	p, ok := src.HeaderByHash(h.PrevHash)
	if !ok {
		return header.ExtendedHeader{}, ErrMissingAncestor
	}
	return p, nil
}
