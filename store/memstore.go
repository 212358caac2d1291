package store

import (
	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/header"
)

// MemStore is an in-memory KVStore, used for tests and for deployments
// that don't need headers to survive a restart.
type MemStore struct {
	headers    map[chainhash.Hash]header.ExtendedHeader
	mainchain  map[uint64]chainhash.Hash
	tip        chainhash.Hash
	hasTip     bool
	size       uint64
	low        uint64
	hasLow     bool
}

// NewMemStore constructs an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		headers:   map[chainhash.Hash]header.ExtendedHeader{},
		mainchain: map[uint64]chainhash.Hash{},
	}
}

func (m *MemStore) GetHeader(hash chainhash.Hash) (header.ExtendedHeader, bool, error) {
	e, ok := m.headers[hash]
	return e, ok, nil
}

func (m *MemStore) PutHeader(h header.ExtendedHeader) error {
	m.headers[h.BlockHash] = h
	return nil
}

func (m *MemStore) DeleteHeader(hash chainhash.Hash) error {
	delete(m.headers, hash)
	return nil
}

func (m *MemStore) GetMainchainHash(height uint64) (chainhash.Hash, bool, error) {
	h, ok := m.mainchain[height]
	return h, ok, nil
}

func (m *MemStore) PutMainchainHash(height uint64, hash chainhash.Hash) error {
	m.mainchain[height] = hash
	return nil
}

func (m *MemStore) DeleteMainchainHash(height uint64) error {
	delete(m.mainchain, height)
	return nil
}

func (m *MemStore) GetTip() (chainhash.Hash, bool, error) {
	return m.tip, m.hasTip, nil
}

func (m *MemStore) SetTip(hash chainhash.Hash) error {
	m.tip = hash
	m.hasTip = true
	return nil
}

func (m *MemStore) GetMainchainSize() (uint64, error) {
	return m.size, nil
}

func (m *MemStore) SetMainchainSize(n uint64) error {
	m.size = n
	return nil
}

func (m *MemStore) GetLowHeight() (uint64, bool, error) {
	return m.low, m.hasLow, nil
}

func (m *MemStore) SetLowHeight(height uint64) error {
	m.low = height
	m.hasLow = true
	return nil
}
