// Package store implements the chain store and fork manager: it accepts
// headers in arbitrary order, tracks every fork by cumulative chain work,
// promotes the mainchain via reorg when a competing branch overtakes the
// tip, and prunes old mainchain history with a bounded garbage collector.
//
// The storage backend is abstracted behind KVStore so the same logic runs
// against an in-memory map (MemStore, used in tests and the simplest
// deployments) or a durable go.etcd.io/bbolt database (boltstore.Store).
package store

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/clienterr"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/metrics"
)

// Placement records whether a stored header is part of the active
// mainchain or sits on a fork that has not (or no longer) been promoted.
type Placement int

const (
	OnMainchain Placement = iota
	OnFork
)

// KVStore is the durable storage interface the chain store needs: header
// records keyed by hash, a height-indexed mainchain pointer table, and a
// handful of scalar fields. Implementations need not be transactional
// across calls — ChainStore serializes all mutating calls with its own
// mutex — but each individual method must be atomic.
type KVStore interface {
	GetHeader(hash chainhash.Hash) (header.ExtendedHeader, bool, error)
	PutHeader(h header.ExtendedHeader) error
	DeleteHeader(hash chainhash.Hash) error

	GetMainchainHash(height uint64) (chainhash.Hash, bool, error)
	PutMainchainHash(height uint64, hash chainhash.Hash) error
	DeleteMainchainHash(height uint64) error

	GetTip() (chainhash.Hash, bool, error)
	SetTip(hash chainhash.Hash) error

	GetMainchainSize() (uint64, error)
	SetMainchainSize(n uint64) error

	GetLowHeight() (uint64, bool, error)
	SetLowHeight(height uint64) error
}

// DefaultGCThreshold bounds how many mainchain blocks behind the tip the store
// retains before run_mainchain_gc is free to prune them.
const DefaultGCThreshold = 100000

// ChainStore is the fork-aware header store for a single chain kind. All
// exported methods acquire mu, matching the single-threaded, transactional
// execution model headers are specified against: each call runs to
// completion with no interleaving.
type ChainStore struct {
	mu          sync.Mutex
	kv          KVStore
	gcThreshold uint64
	chainLabel  string
	logger      *zap.SugaredLogger
}

// New constructs a ChainStore over kv, using the chain label (e.g.
// "bitcoin") for metric labels. It logs through a no-op logger until
// SetLogger installs a real one, mirroring how the teacher's generator
// takes an injected logger rather than reaching for a package-level
// global (the chain store, unlike validator/retarget, is a long-lived
// type so it holds its own logger field instead of a package var).
func New(kv KVStore, chainLabel string, gcThreshold uint64) *ChainStore {
	if gcThreshold == 0 {
		gcThreshold = DefaultGCThreshold
	}
	return &ChainStore{kv: kv, gcThreshold: gcThreshold, chainLabel: chainLabel, logger: zap.NewNop().Sugar()}
}

// SetLogger installs l as the store's logger. Passing nil restores the
// no-op logger.
func (s *ChainStore) SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	s.mu.Lock()
	s.logger = l
	s.mu.Unlock()
}

// InitGenesis seeds the store with the chain's genesis header at
// genesis.BlockHeight, which also becomes the lowest retained mainchain
// height. It fails if the store already has a tip.
func (s *ChainStore) InitGenesis(genesis header.ExtendedHeader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok, err := s.kv.GetTip(); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("store: already initialized")
	}

	if err := s.kv.PutHeader(genesis); err != nil {
		return err
	}
	if err := s.kv.PutMainchainHash(genesis.BlockHeight, genesis.BlockHash); err != nil {
		return err
	}
	if err := s.kv.SetTip(genesis.BlockHash); err != nil {
		return err
	}
	if err := s.kv.SetMainchainSize(1); err != nil {
		return err
	}
	if err := s.kv.SetLowHeight(genesis.BlockHeight); err != nil {
		return err
	}
	metrics.TipHeight.Set(float64(genesis.BlockHeight))
	metrics.MainchainSize.Set(1)
	return nil
}

// HeaderByHash satisfies retarget.Source by looking up any stored header,
// mainchain or fork, by hash.
func (s *ChainStore) HeaderByHash(hash chainhash.Hash) (header.ExtendedHeader, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok, err := s.kv.GetHeader(hash)
	if err != nil {
		return header.ExtendedHeader{}, false
	}
	return e, ok
}

// HeaderByHeight satisfies retarget.Source by looking up the mainchain
// header at height, per invariant 1 in the store's specification: height
// lookups only ever consult the mainchain index, never forks.
func (s *ChainStore) HeaderByHeight(height uint64) (header.ExtendedHeader, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headerByHeightLocked(height)
}

func (s *ChainStore) headerByHeightLocked(height uint64) (header.ExtendedHeader, bool) {
	hash, ok, err := s.kv.GetMainchainHash(height)
	if err != nil || !ok {
		return header.ExtendedHeader{}, false
	}
	e, ok, err := s.kv.GetHeader(hash)
	if err != nil {
		return header.ExtendedHeader{}, false
	}
	return e, ok
}

// Tip returns the current mainchain tip header.
func (s *ChainStore) Tip() (header.ExtendedHeader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tipLocked()
}

func (s *ChainStore) tipLocked() (header.ExtendedHeader, error) {
	tipHash, ok, err := s.kv.GetTip()
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	if !ok {
		return header.ExtendedHeader{}, fmt.Errorf("store: not initialized")
	}
	e, ok, err := s.kv.GetHeader(tipHash)
	if err != nil {
		return header.ExtendedHeader{}, err
	}
	if !ok {
		return header.ExtendedHeader{}, fmt.Errorf("store: tip header missing")
	}
	return e, nil
}

// MainchainSize returns the number of headers currently retained on the
// mainchain (which may lag behind tip height if the earliest heights have
// been pruned by GC).
func (s *ChainStore) MainchainSize() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.GetMainchainSize()
}

// HashByHeight returns the mainchain hash at height.
func (s *ChainStore) HashByHeight(height uint64) (chainhash.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, ok, err := s.kv.GetMainchainHash(height)
	if err != nil {
		return chainhash.Hash{}, err
	}
	if !ok {
		return chainhash.Hash{}, clienterr.Newf(clienterr.ErrBlockNotOnMainchain, "no mainchain header at height %d", height)
	}
	return hash, nil
}

// HeightByHash returns the height a header was accepted at, failing with
// ErrPrevBlockNotFound if the hash is unknown and ErrBlockNotOnMainchain
// if it is known only as a fork.
func (s *ChainStore) HeightByHash(hash chainhash.Hash) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok, err := s.kv.GetHeader(hash)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, clienterr.New(clienterr.ErrPrevBlockNotFound, "unknown block hash")
	}
	mainHash, ok, err := s.kv.GetMainchainHash(e.BlockHeight)
	if err != nil {
		return 0, err
	}
	if !ok || mainHash != hash {
		return 0, clienterr.New(clienterr.ErrBlockNotOnMainchain, "block is not on the active mainchain")
	}
	return e.BlockHeight, nil
}

// LastNHashes returns up to n mainchain hashes ending at the tip, most
// recent first.
func (s *ChainStore) LastNHashes(n uint64) ([]chainhash.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tip, err := s.tipLocked()
	if err != nil {
		return nil, err
	}
	out := make([]chainhash.Hash, 0, n)
	for i := uint64(0); i < n; i++ {
		if tip.BlockHeight < i {
			break
		}
		h, ok := s.headerByHeightLocked(tip.BlockHeight - i)
		if !ok {
			break
		}
		out = append(out, h.BlockHash)
	}
	return out, nil
}
