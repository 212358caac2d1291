package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/chainlynx/lightclient/chainhash"
	"github.com/chainlynx/lightclient/header"
	"github.com/chainlynx/lightclient/u256"
)

// headerJSON is the on-disk/CLI-facing encoding for a Bitcoin-family
// header: hex strings for hashes, decimal for everything else. This is
// a CLI input boundary format, not the 80-byte wire encoding
// header.Header.Serialize produces.
type headerJSON struct {
	Version    int32  `json:"version"`
	PrevBlock  string `json:"prev_block"`
	MerkleRoot string `json:"merkle_root"`
	Time       uint32 `json:"time"`
	Bits       uint32 `json:"bits"`
	Nonce      uint32 `json:"nonce"`
}

func (h headerJSON) toHeader() (header.Header, error) {
	prev, err := chainhash.NewHashFromStr(h.PrevBlock)
	if err != nil {
		return header.Header{}, fmt.Errorf("prev_block: %w", err)
	}
	root, err := chainhash.NewHashFromStr(h.MerkleRoot)
	if err != nil {
		return header.Header{}, fmt.Errorf("merkle_root: %w", err)
	}
	return header.Header{
		Version:    h.Version,
		PrevBlock:  *prev,
		MerkleRoot: *root,
		Time:       h.Time,
		Bits:       h.Bits,
		Nonce:      h.Nonce,
	}, nil
}

// zcashHeaderJSON is the CLI-facing encoding for a Zcash header. Nonce
// and solution are hex-encoded byte blobs; solutionIndices is the
// already-decoded index list CheckZcashHeader expects, since decoding a
// raw Equihash solution blob into indices is out of scope for this CLI
// (equihash.DecodeSolution does that decoding; this CLI does not call it).
type zcashHeaderJSON struct {
	Version          int32  `json:"version"`
	PrevBlock        string `json:"prev_block"`
	MerkleRoot       string `json:"merkle_root"`
	BlockCommitments string `json:"block_commitments"`
	Time             uint32 `json:"time"`
	Bits             uint32 `json:"bits"`
	Nonce            string `json:"nonce"`
	Solution         string `json:"solution"`
	SolutionIndices  []int  `json:"solution_indices"`
}

func (h zcashHeaderJSON) toHeader() (header.ZcashHeader, error) {
	prev, err := chainhash.NewHashFromStr(h.PrevBlock)
	if err != nil {
		return header.ZcashHeader{}, fmt.Errorf("prev_block: %w", err)
	}
	root, err := chainhash.NewHashFromStr(h.MerkleRoot)
	if err != nil {
		return header.ZcashHeader{}, fmt.Errorf("merkle_root: %w", err)
	}
	nonceBytes, err := hex.DecodeString(h.Nonce)
	if err != nil {
		return header.ZcashHeader{}, fmt.Errorf("nonce: %w", err)
	}
	if len(nonceBytes) != 32 {
		return header.ZcashHeader{}, fmt.Errorf("nonce: want 32 bytes, got %d", len(nonceBytes))
	}
	solutionBytes, err := hex.DecodeString(h.Solution)
	if err != nil {
		return header.ZcashHeader{}, fmt.Errorf("solution: %w", err)
	}
	if len(solutionBytes) != header.ZcashSolutionSize {
		return header.ZcashHeader{}, fmt.Errorf("solution: want %d bytes, got %d", header.ZcashSolutionSize, len(solutionBytes))
	}
	var zh header.ZcashHeader
	zh.Version = h.Version
	zh.PrevBlock = *prev
	zh.MerkleRoot = *root
	zh.Time = h.Time
	zh.Bits = h.Bits
	copy(zh.Nonce[:], nonceBytes)
	copy(zh.Solution[:], solutionBytes)
	if h.BlockCommitments != "" {
		commitments, err := chainhash.NewHashFromStr(h.BlockCommitments)
		if err != nil {
			return header.ZcashHeader{}, fmt.Errorf("block_commitments: %w", err)
		}
		zh.BlockCommitments = *commitments
	}
	return zh, nil
}

// genesisJSON is the shape an operator writes once, by hand or by
// extracting from a full node, to seed a fresh store.
type genesisJSON struct {
	Header      *headerJSON      `json:"header,omitempty"`
	ZcashHeader *zcashHeaderJSON `json:"zcash_header,omitempty"`
	BlockHash   string           `json:"block_hash"`
	BlockHeight uint64           `json:"block_height"`
	Bits        uint32           `json:"bits"`
}

func readGenesisFile(path string) (genesisJSON, error) {
	var g genesisJSON
	raw, err := os.ReadFile(path)
	if err != nil {
		return g, fmt.Errorf("read genesis file: %w", err)
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return g, fmt.Errorf("decode genesis file: %w", err)
	}
	return g, nil
}

func (g genesisJSON) blockHash() (chainhash.Hash, error) {
	hash, err := chainhash.NewHashFromStr(g.BlockHash)
	if err != nil {
		return chainhash.Hash{}, fmt.Errorf("block_hash: %w", err)
	}
	return *hash, nil
}

// genesisChainWork derives the starting cumulative work from the
// genesis header's own bits field, the same u256.WorkFromTarget call
// client_test.go's fixtures use.
func (g genesisJSON) genesisChainWork() u256.U256 {
	return u256.WorkFromTarget(u256.TargetFromBits(g.Bits))
}

func readHeaderBatchFile(path string) ([]headerJSON, error) {
	var batch []headerJSON
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read headers file: %w", err)
	}
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("decode headers file: %w", err)
	}
	return batch, nil
}

func readZcashHeaderBatchFile(path string) ([]zcashHeaderJSON, error) {
	var batch []zcashHeaderJSON
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read headers file: %w", err)
	}
	if err := json.Unmarshal(raw, &batch); err != nil {
		return nil, fmt.Errorf("decode headers file: %w", err)
	}
	return batch, nil
}
