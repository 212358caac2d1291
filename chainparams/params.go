// Package chainparams describes the per-network, per-chain-family
// consensus parameters used by the retarget engine and header validator.
//
// Values are grounded on btc-types/src/network.rs from the reference
// contract this client's semantics were distilled from, combined with the
// chain-parameter shape used by chaincfg.Params in the teacher repo.
package chainparams

import (
	"time"

	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/u256"
)

// ChainKind selects one of the four supported header families. Unlike the
// original contract's compile-time feature flags, this is a runtime value
// so a single binary can track any of the four networks.
type ChainKind int

const (
	Bitcoin ChainKind = iota
	Litecoin
	Dogecoin
	Zcash
)

func (k ChainKind) String() string {
	switch k {
	case Bitcoin:
		return "bitcoin"
	case Litecoin:
		return "litecoin"
	case Dogecoin:
		return "dogecoin"
	case Zcash:
		return "zcash"
	default:
		return "unknown"
	}
}

// Network selects mainnet or testnet parameters for a given ChainKind.
type Network int

const (
	Mainnet Network = iota
	Testnet
)

// MedianTimeSpan is the number of ancestor timestamps folded into a
// median-time-past calculation, for both the Bitcoin family and the
// within-averaging-window computation Zcash performs.
const MedianTimeSpan = 11

// MaxFutureBlockTimeLocal bounds how far into the future (relative to the
// host wall clock) a header's timestamp may sit.
const MaxFutureBlockTimeLocal = 2 * time.Hour

// Params holds the Bitcoin/Litecoin/Dogecoin retarget parameters.
type Params struct {
	Kind ChainKind

	RetargetInterval int64
	TargetTimespan   int64 // seconds

	// PowLimitBits is the compact nBits encoding of the easiest
	// difficulty this chain allows, used for the testnet
	// min-difficulty rule and as the genesis/floor target in compact
	// form.
	PowLimitBits uint32

	// PowLimit is the same floor expressed as the literal 256-bit
	// target, distinct from PowLimitBits: retarget clamping compares
	// and clamps against this value directly rather than round-tripping
	// through the compact encoding, matching btc-types/network.rs's
	// separate pow_limit/proof_of_work_limit_bits fields.
	PowLimit u256.U256

	PowTargetSpacing       int64 // seconds
	AllowMinDifficulty     bool
	MinDifficultyGapBlocks int64 // multiple of spacing that triggers the testnet min-difficulty rule

	// DogecoinDigishieldHeight is the height at or after which Dogecoin
	// retargets every block using the modulated-time formula, rather than
	// the legacy fixed-interval rule. Zero for non-Dogecoin chains.
	DogecoinDigishieldHeight int64

	MinVersion int32
}

// ZcashParams holds the sliding-window Digishield parameters used only by
// the Zcash chain family.
type ZcashParams struct {
	PowLimitBits uint32
	// PowLimit is PowLimitBits' literal 256-bit target; see the field
	// comment on Params.PowLimit for why the two are kept distinct.
	PowLimit                        u256.U256
	PowAveragingWindow              int64
	PowTargetSpacing                int64 // seconds, post-Blossom
	PowMaxAdjustDownPercent          int64
	PowMaxAdjustUpPercent            int64
	PowAllowMinDifficultyAfterHeight int64 // -1 disables the rule
}

// Pow limit literals, taken from btc-types/src/network.rs's pow_limit
// fields (each distinct from that same chain's compact PowLimitBits
// encoding): Bitcoin's is 2^224-1, Litecoin/Dogecoin's is 2^236-1, and
// Zcash's mainnet/testnet limits are 2^243-1 and 2^251-1 respectively.
var (
	bitcoinPowLimit   = u256.MustFromHex("00000000ffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	litecoinPowLimit  = u256.MustFromHex("00000fffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	zcashMainPowLimit = u256.MustFromHex("0007ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	zcashTestPowLimit = u256.MustFromHex("07ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
)

// BitcoinMainnet matches btc-types/src/network.rs's get_bitcoin_config.
func BitcoinMainnet() Params {
	return Params{
		Kind:             Bitcoin,
		RetargetInterval: 2016,
		TargetTimespan:   2016 * 600,
		PowLimitBits:     0x1d00ffff,
		PowLimit:         bitcoinPowLimit,
		PowTargetSpacing: 600,
		MinVersion:       1,
	}
}

// BitcoinTestnet enables the min-difficulty rule on top of the mainnet
// parameters.
func BitcoinTestnet() Params {
	p := BitcoinMainnet()
	p.AllowMinDifficulty = true
	p.MinDifficultyGapBlocks = 2
	return p
}

// LitecoinMainnet matches get_litecoin_config.
func LitecoinMainnet() Params {
	return Params{
		Kind:             Litecoin,
		RetargetInterval: 2016,
		TargetTimespan:   2016 * 150,
		PowLimitBits:     0x1e0fffff,
		PowLimit:         litecoinPowLimit,
		PowTargetSpacing: 150,
		MinVersion:       4,
	}
}

func LitecoinTestnet() Params {
	p := LitecoinMainnet()
	p.AllowMinDifficulty = true
	p.MinDifficultyGapBlocks = 2
	return p
}

// DogecoinMainnet matches get_dogecoin_config: legacy one-block retarget
// prior to height 145000 is expressed as DogecoinDigishieldHeight — below
// it, RetargetInterval governs (effectively every block); from it on, the
// modulated-time Digishield-lite formula in package retarget applies.
func DogecoinMainnet() Params {
	return Params{
		Kind:                     Dogecoin,
		RetargetInterval:         1,
		TargetTimespan:           60,
		PowLimitBits:             0x1e0fffff,
		PowLimit:                 litecoinPowLimit,
		PowTargetSpacing:         60,
		DogecoinDigishieldHeight: 145000,
		MinVersion:               1,
	}
}

func DogecoinTestnet() Params {
	p := DogecoinMainnet()
	p.AllowMinDifficulty = true
	p.MinDifficultyGapBlocks = 2
	return p
}

// ZcashMainnet matches get_zcash_config.
func ZcashMainnet() ZcashParams {
	return ZcashParams{
		PowLimitBits:                     0x1f07ffff,
		PowLimit:                         zcashMainPowLimit,
		PowAveragingWindow:               17,
		PowTargetSpacing:                 75,
		PowMaxAdjustDownPercent:          32,
		PowMaxAdjustUpPercent:            16,
		PowAllowMinDifficultyAfterHeight: -1,
	}
}

func ZcashTestnet() ZcashParams {
	return ZcashParams{
		PowLimitBits:                     0x2007ffff,
		PowLimit:                         zcashTestPowLimit,
		PowAveragingWindow:               17,
		PowTargetSpacing:                 75,
		PowMaxAdjustDownPercent:          32,
		PowMaxAdjustUpPercent:            16,
		PowAllowMinDifficultyAfterHeight: 299187,
	}
}

// AveragingWindowTimespan returns the expected number of seconds the
// averaging window should span if blocks arrived exactly on schedule.
func (z ZcashParams) AveragingWindowTimespan() int64 {
	return z.PowAveragingWindow * z.PowTargetSpacing
}

// MinActualTimespan returns the lower damping clamp bound.
func (z ZcashParams) MinActualTimespan() int64 {
	return z.AveragingWindowTimespan() * (100 - z.PowMaxAdjustUpPercent) / 100
}

// MaxActualTimespan returns the upper damping clamp bound.
func (z ZcashParams) MaxActualTimespan() int64 {
	return z.AveragingWindowTimespan() * (100 + z.PowMaxAdjustDownPercent) / 100
}

// ForNetwork resolves the Bitcoin-family Params for a (kind, network) pair.
// Zcash is handled separately via ForZcashNetwork since it has a distinct
// parameter shape.
func ForNetwork(kind ChainKind, network Network) Params {
	switch kind {
	case Bitcoin:
		if network == Testnet {
			return BitcoinTestnet()
		}
		return BitcoinMainnet()
	case Litecoin:
		if network == Testnet {
			return LitecoinTestnet()
		}
		return LitecoinMainnet()
	case Dogecoin:
		if network == Testnet {
			return DogecoinTestnet()
		}
		return DogecoinMainnet()
	default:
		return Params{}
	}
}

// ForZcashNetwork resolves Zcash's parameter set for a network.
func ForZcashNetwork(network Network) ZcashParams {
	if network == Testnet {
		return ZcashTestnet()
	}
	return ZcashMainnet()
}

// UsesScryptPoW reports whether headers of this chain kind prove work
// against scrypt(header) rather than against the header's double-SHA-256
// block hash.
func (k ChainKind) UsesScryptPoW() bool {
	return k == Litecoin || k == Dogecoin
}

// PowHash returns the hash h's proof-of-work must satisfy for the given
// chain kind: scrypt(header) for Litecoin and Dogecoin, the ordinary
// double-SHA-256 block hash for Bitcoin (Zcash headers carry their own
// BlockHash method and never go through this helper).
func (k ChainKind) PowHash(h *header.Header) chainhash.Hash {
	if k.UsesScryptPoW() {
		return h.BlockHashPoW()
	}
	return h.BlockHash()
}
