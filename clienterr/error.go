// Package clienterr defines the typed rule-violation errors this client
// returns from header and proof validation, in the same ErrorCode/RuleError
// shape the teacher's blockchain package uses for consensus failures.
package clienterr

import "fmt"

// ErrorCode identifies a specific consensus or verification rule that was
// violated.
type ErrorCode int

const (
	// ErrPrevBlockNotFound indicates a submitted header's parent is not
	// present in the chain store.
	ErrPrevBlockNotFound ErrorCode = iota

	// ErrDuplicateHeader indicates a header with this hash has already
	// been accepted.
	ErrDuplicateHeader

	// ErrIncorrectTarget indicates a header's bits field does not match
	// the value the retarget rule for its chain requires.
	ErrIncorrectTarget

	// ErrTargetOverflow indicates a retarget calculation would overflow
	// the 256-bit target space.
	ErrTargetOverflow

	// ErrInsufficientPoW indicates a header's hash does not satisfy its
	// own claimed target.
	ErrInsufficientPoW

	// ErrInvalidEquihashSolution indicates a Zcash header's Equihash
	// solution fails verification against its nonce and input.
	ErrInvalidEquihashSolution

	// ErrInvalidAuxPow indicates a Dogecoin header's merged-mining proof
	// fails the coinbase/chain Merkle branch check.
	ErrInvalidAuxPow

	// ErrTimeTooOld indicates a header's timestamp is not after the
	// median time past of its ancestors.
	ErrTimeTooOld

	// ErrTimeTooNew indicates a header's timestamp is too far ahead of
	// the host's wall clock.
	ErrTimeTooNew

	// ErrBadVersion indicates a header's version is below the minimum
	// this client accepts for its chain.
	ErrBadVersion

	// ErrInvalidLength indicates a serialized value had the wrong byte
	// length for its type.
	ErrInvalidLength

	// ErrIntParseError indicates a numeric field could not be decoded.
	ErrIntParseError

	// ErrInsufficientConfirmations indicates a Merkle-inclusion proof
	// was requested for a block that has not reached the required depth
	// below the current tip.
	ErrInsufficientConfirmations

	// ErrBlockNotOnMainchain indicates an operation referenced a block
	// hash the store holds only as a stale fork, not on the active
	// mainchain.
	ErrBlockNotOnMainchain

	// ErrInvalidMerkleProof indicates a submitted Merkle path does not
	// resolve to the block's merkle root.
	ErrInvalidMerkleProof
)

var errorCodeStrings = map[ErrorCode]string{
	ErrPrevBlockNotFound:         "ErrPrevBlockNotFound",
	ErrDuplicateHeader:           "ErrDuplicateHeader",
	ErrIncorrectTarget:           "ErrIncorrectTarget",
	ErrTargetOverflow:            "ErrTargetOverflow",
	ErrInsufficientPoW:           "ErrInsufficientPoW",
	ErrInvalidEquihashSolution:   "ErrInvalidEquihashSolution",
	ErrInvalidAuxPow:             "ErrInvalidAuxPow",
	ErrTimeTooOld:                "ErrTimeTooOld",
	ErrTimeTooNew:                "ErrTimeTooNew",
	ErrBadVersion:                "ErrBadVersion",
	ErrInvalidLength:             "ErrInvalidLength",
	ErrIntParseError:             "ErrIntParseError",
	ErrInsufficientConfirmations: "ErrInsufficientConfirmations",
	ErrBlockNotOnMainchain:       "ErrBlockNotOnMainchain",
	ErrInvalidMerkleProof:        "ErrInvalidMerkleProof",
}

// String returns the ErrorCode's symbolic name.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("ErrorCode(%d)", int(e))
}

// RuleError identifies a rule violation, along with a human-readable
// description of what failed.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface.
func (e RuleError) Error() string {
	return e.Description
}

// Is reports whether target is a RuleError with the same ErrorCode,
// so callers can use errors.Is(err, clienterr.RuleError{ErrorCode: ...}).
func (e RuleError) Is(target error) bool {
	other, ok := target.(RuleError)
	if !ok {
		return false
	}
	return e.ErrorCode == other.ErrorCode
}

// ruleError creates a RuleError with the given code and formatted
// description.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}

// New is the exported constructor other packages use to build a RuleError
// without reaching into this package's unexported helper.
func New(c ErrorCode, desc string) RuleError {
	return ruleError(c, desc)
}

// Newf builds a RuleError with a formatted description.
func Newf(c ErrorCode, format string, args ...any) RuleError {
	return ruleError(c, fmt.Sprintf(format, args...))
}
