// Package auxpow verifies Dogecoin's merged-mining proof: a Litecoin
// block header plus a coinbase transaction that commits to the
// Dogecoin block hash through two Merkle branches. Ported from the
// teacher's wire.AuxPowHeader.Check, trimmed to validation only — this
// client never assembles or serializes an AuxPow payload, only checks
// one submitted alongside a Dogecoin header.
package auxpow

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/header"
)

// MaxChainBranchHashes bounds the chain Merkle branch length, matching
// the parent-chain consensus rule that rejects degenerate branches.
const MaxChainBranchHashes = 30

// MaxCoinbaseTxSize bounds the raw coinbase transaction accepted, to keep
// a hostile submitter from forcing an unbounded parse.
const MaxCoinbaseTxSize = 100000

// PchMergedMiningHeader is the marker that precedes the committed hash
// inside the coinbase scriptSig when a miner tags it explicitly.
var PchMergedMiningHeader = []byte{0xFA, 0xBE, 'm', 'm'}

// MerkleBranch is a sibling-hash path from a leaf to a Merkle root, with
// SideMask's bits telling DetermineRoot which side of each level the
// leaf falls on.
type MerkleBranch struct {
	Hashes   []chainhash.Hash
	SideMask uint32
}

// Size returns the branch depth.
func (mb *MerkleBranch) Size() uint32 {
	return uint32(len(mb.Hashes))
}

// DetermineRoot recomputes the Merkle root for component by climbing the
// branch, consuming one SideMask bit per level.
func (mb *MerkleBranch) DetermineRoot(component *chainhash.Hash) (chainhash.Hash, error) {
	if component == nil {
		return chainhash.Hash{}, errors.New("auxpow: nil component hash")
	}

	m := mb.SideMask
	h := *component
	var hbuf [chainhash.HashSize * 2]byte

	for i := range mb.Hashes {
		if m&1 != 0 {
			copy(hbuf[0:chainhash.HashSize], mb.Hashes[i][:])
			copy(hbuf[chainhash.HashSize:], h[:])
		} else {
			copy(hbuf[0:chainhash.HashSize], h[:])
			copy(hbuf[chainhash.HashSize:], mb.Hashes[i][:])
		}
		h = chainhash.DoubleHashH(hbuf[:])
		m >>= 1
	}

	return h, nil
}

// HasRoot reports whether component's branch resolves to root.
func (mb *MerkleBranch) HasRoot(component, root *chainhash.Hash) bool {
	r, err := mb.DetermineRoot(component)
	if err != nil {
		return false
	}
	return r.IsEqual(root)
}

// AuxPow is the merged-mining proof submitted alongside a Dogecoin
// header once its AuxPoW version bit is set: a raw parent-chain
// coinbase transaction, the two Merkle branches tying it to the parent
// block and to this chain's block hash, and the parent block header
// itself (a Litecoin header, scrypt-mined).
type AuxPow struct {
	CoinbaseTx        []byte
	CoinbaseBranch    MerkleBranch
	BlockChainBranch  MerkleBranch
	ParentBlockHeader header.Header
}

// Check validates the proof against auxBlockHash (this chain's own block
// hash) and chainID (this chain's registered merged-mining chain ID),
// exactly mirroring the teacher's AuxPowHeader.Check.
func (a *AuxPow) Check(auxBlockHash chainhash.Hash, chainID int32) error {
	if len(a.CoinbaseTx) > MaxCoinbaseTxSize {
		return errors.New("auxpow: coinbase transaction too large")
	}
	if a.CoinbaseBranch.SideMask != 0 {
		return errors.New("auxpow: is not a generate")
	}
	if a.BlockChainBranch.Size() > MaxChainBranchHashes {
		return errors.New("auxpow: chain merkle branch too long")
	}

	rootHash, err := a.BlockChainBranch.DetermineRoot(&auxBlockHash)
	if err != nil {
		return err
	}
	revRootHash := reverseHash(rootHash)

	coinbaseTxHash := chainhash.DoubleHashH(a.CoinbaseTx)
	if !a.CoinbaseBranch.HasRoot(&coinbaseTxHash, &a.ParentBlockHeader.MerkleRoot) {
		return errors.New("auxpow: parent block's merkle tree does not include auxpow coinbase")
	}

	script, err := firstInputScriptSig(a.CoinbaseTx)
	if err != nil {
		return fmt.Errorf("auxpow: %w", err)
	}

	hashPos := bytes.Index(script, revRootHash[:])
	if hashPos < 0 {
		return fmt.Errorf("auxpow: block hash %s not found in parent block's coinbase input", auxBlockHash)
	}

	headerPos := bytes.Index(script, PchMergedMiningHeader)
	if headerPos >= 0 {
		if bytes.Index(script[headerPos+1:], PchMergedMiningHeader) >= 0 {
			return errors.New("auxpow: multiple merged mining headers found in coinbase input")
		}
		if headerPos+len(PchMergedMiningHeader) != hashPos {
			return errors.New("auxpow: coinbase input has hash at wrong position")
		}
	} else if hashPos > 20 {
		return errors.New("auxpow: coinbase input must have header or hash starting within first 20 bytes")
	}

	paramsPos := hashPos + chainhash.HashSize
	if len(script)-paramsPos < 8 {
		return errors.New("auxpow: coinbase does not contain room for merge-mining params")
	}

	mSize := binary.LittleEndian.Uint32(script[paramsPos : paramsPos+4])
	if mSize != 1<<a.BlockChainBranch.Size() {
		return errors.New("auxpow: coinbase does not specify correct merkle branch size")
	}

	mNonce := binary.LittleEndian.Uint32(script[paramsPos+4 : paramsPos+8])
	expectedIndex := getExpectedIndex(mNonce, uint32(chainID), a.BlockChainBranch.Size())
	if a.BlockChainBranch.SideMask != expectedIndex {
		return fmt.Errorf("auxpow: wrong chain index, got %d want %d", a.BlockChainBranch.SideMask, expectedIndex)
	}

	return nil
}

// getExpectedIndex derives the deterministic merge-mining tree slot for
// a (nonce, chainID, branch-size) combination via the same bespoke LCG
// Dogecoin's reference miner uses, so two merged chains never collide on
// the same slot.
func getExpectedIndex(nonce, chainID, h uint32) uint32 {
	rand := nonce
	rand = rand*1103515245 + 12345
	rand += chainID
	rand = rand*1103515245 + 12345
	return rand % (1 << h)
}

func reverseHash(h chainhash.Hash) chainhash.Hash {
	var r chainhash.Hash
	for i := 0; i < chainhash.HashSize; i++ {
		r[i] = h[chainhash.HashSize-1-i]
	}
	return r
}
