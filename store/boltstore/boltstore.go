// Package boltstore is the durable store.KVStore implementation, backed
// by go.etcd.io/bbolt, grounded on the bucket-per-concern layout the
// reference node-store code uses (a headers bucket, a mainchain index
// bucket, and a scalars bucket for tip/size/low-height).
package boltstore

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/header"
)

var (
	headersBucket   = []byte("headers")
	mainchainBucket = []byte("mainchain")
	scalarsBucket   = []byte("scalars")
)

const (
	scalarTip    = "tip"
	scalarSize   = "mainchain_size"
	scalarLow    = "low_height"
)

// Store is a durable chain store backend over a single bbolt database
// file. One Store should be dedicated to one chain kind, the way the
// teacher's per-chain databases separate mainnet state by network.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a bbolt database at path and
// ensures its buckets exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{headersBucket, mainchainBucket, scalarsBucket} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("boltstore: init buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func heightKey(height uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], height)
	return b[:]
}

func (s *Store) GetHeader(hash chainhash.Hash) (header.ExtendedHeader, bool, error) {
	var e header.ExtendedHeader
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(headersBucket).Get(hash[:])
		if v == nil {
			return nil
		}
		decoded, err := header.ExtendedHeaderFromBytes(v)
		if err != nil {
			return err
		}
		e = decoded
		found = true
		return nil
	})
	return e, found, err
}

func (s *Store) PutHeader(h header.ExtendedHeader) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(headersBucket).Put(h.BlockHash[:], h.Bytes())
	})
}

func (s *Store) DeleteHeader(hash chainhash.Hash) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(headersBucket).Delete(hash[:])
	})
}

func (s *Store) GetMainchainHash(height uint64) (chainhash.Hash, bool, error) {
	var h chainhash.Hash
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(mainchainBucket).Get(heightKey(height))
		if v == nil {
			return nil
		}
		if err := h.SetBytes(v); err != nil {
			return err
		}
		found = true
		return nil
	})
	return h, found, err
}

func (s *Store) PutMainchainHash(height uint64, hash chainhash.Hash) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(mainchainBucket).Put(heightKey(height), hash[:])
	})
}

func (s *Store) DeleteMainchainHash(height uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(mainchainBucket).Delete(heightKey(height))
	})
}

func (s *Store) GetTip() (chainhash.Hash, bool, error) {
	var h chainhash.Hash
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(scalarsBucket).Get([]byte(scalarTip))
		if v == nil {
			return nil
		}
		if err := h.SetBytes(v); err != nil {
			return err
		}
		found = true
		return nil
	})
	return h, found, err
}

func (s *Store) SetTip(hash chainhash.Hash) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(scalarsBucket).Put([]byte(scalarTip), hash[:])
	})
}

func (s *Store) GetMainchainSize() (uint64, error) {
	var n uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(scalarsBucket).Get([]byte(scalarSize))
		if v != nil {
			n = binary.BigEndian.Uint64(v)
		}
		return nil
	})
	return n, err
}

func (s *Store) SetMainchainSize(n uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], n)
		return tx.Bucket(scalarsBucket).Put([]byte(scalarSize), b[:])
	})
}

func (s *Store) GetLowHeight() (uint64, bool, error) {
	var n uint64
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(scalarsBucket).Get([]byte(scalarLow))
		if v == nil {
			return nil
		}
		n = binary.BigEndian.Uint64(v)
		found = true
		return nil
	})
	return n, found, err
}

func (s *Store) SetLowHeight(height uint64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], height)
		return tx.Bucket(scalarsBucket).Put([]byte(scalarLow), b[:])
	})
}
