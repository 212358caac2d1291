// Package merkle builds and verifies the Merkle proofs used by SPV
// transaction-inclusion checks, grounded on the reference contract's
// merkle-tools crate rather than any code in the teacher repo (the
// teacher validates full blocks and never needs a standalone proof path).
package merkle

import "github.com/chainlynx/lightclient/chainhash"

// ComputeHash combines two node hashes the way Bitcoin-family chains do:
// double-SHA-256 of their concatenated raw bytes, first before second.
func ComputeHash(first, second *chainhash.Hash) chainhash.Hash {
	var buf [64]byte
	copy(buf[:32], first[:])
	copy(buf[32:], second[:])
	return chainhash.DoubleHashH(buf[:])
}

// ProofCalculator returns the sibling-hash proof for the leaf at
// transactionPosition within txHashes, walking up the tree one level at a
// time. A level with an odd number of nodes duplicates its last node,
// matching Bitcoin's Merkle-tree convention.
func ProofCalculator(txHashes []chainhash.Hash, transactionPosition int) []chainhash.Hash {
	pos := transactionPosition
	var proof []chainhash.Hash
	current := append([]chainhash.Hash(nil), txHashes...)

	for len(current) > 1 {
		if len(current)%2 == 1 {
			current = append(current, current[len(current)-1])
		}

		if pos%2 == 1 {
			proof = append(proof, current[pos-1])
		} else {
			proof = append(proof, current[pos+1])
		}

		next := make([]chainhash.Hash, 0, len(current)/2)
		for i := 0; i < len(current)-1; i += 2 {
			next = append(next, ComputeHash(&current[i], &current[i+1]))
		}
		current = next
		pos /= 2
	}

	return proof
}

// ComputeRootFromProof recomputes the Merkle root for a leaf hash given
// its position and sibling proof, climbing the tree the same way
// ProofCalculator descended it.
func ComputeRootFromProof(transactionHash chainhash.Hash, transactionPosition int, proof []chainhash.Hash) chainhash.Hash {
	current := transactionHash
	pos := transactionPosition

	for i := range proof {
		sibling := proof[i]
		if pos%2 == 0 {
			current = ComputeHash(&current, &sibling)
		} else {
			current = ComputeHash(&sibling, &current)
		}
		pos /= 2
	}

	return current
}

// VerifyProof reports whether transactionHash at transactionPosition,
// combined with proof, reproduces expectedRoot.
func VerifyProof(transactionHash chainhash.Hash, transactionPosition int, proof []chainhash.Hash, expectedRoot chainhash.Hash) bool {
	return ComputeRootFromProof(transactionHash, transactionPosition, proof).IsEqual(&expectedRoot)
}
