package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when a request fails local validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAddress is returned when an account address is malformed
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidRoyalty is returned when a royalty is outside [0, 10000] basis points
	ErrInvalidRoyalty = errors.New("invalid royalty")

	// ErrInvalidSKU is returned when a sku is not positive or does not fit in 240 bits
	ErrInvalidSKU = errors.New("invalid sku")

	// ErrInvalidKind is returned when a token kind is neither CoA nor Rights
	ErrInvalidKind = errors.New("invalid token kind")

	// ErrInvalidAmount is returned when a rights amount is not positive
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidTokenID is returned when a token id cannot be parsed
	ErrInvalidTokenID = errors.New("invalid token id")

	// ErrTokenAlreadyExists is returned when attempting to mint a token that already exists
	ErrTokenAlreadyExists = errors.New("token already exists")

	// ErrTokenNotFound is returned when a token is not found
	ErrTokenNotFound = errors.New("token not found")

	// ErrLicenseAlreadyBound is returned when the license policy forbids rebinding
	ErrLicenseAlreadyBound = errors.New("license already bound")

	// ErrSubmissionFailed is returned when a transaction could not be submitted
	ErrSubmissionFailed = errors.New("transaction submission failed")

	// ErrInsufficientFunds is returned when the operator account cannot pay for gas
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTransactionReverted is returned when a confirmed transaction has a failed status
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrConfirmationTimeout is returned when a submitted transaction is not confirmed in time
	ErrConfirmationTimeout = errors.New("confirmation timeout")

	// ErrMintFailed is the kind of every failed mint operation
	ErrMintFailed = errors.New("mint failed")

	// ErrBindLicenseFailed is the kind of every failed license binding
	ErrBindLicenseFailed = errors.New("bind license failed")

	// ErrProvenanceFailed is the kind of every failed provenance note
	ErrProvenanceFailed = errors.New("record provenance failed")

	// ErrPinningFailed is returned when the pinning service rejects a request
	ErrPinningFailed = errors.New("pinning failed")
)

// OperationError describes a failed ledger operation.
// Kind is the operation-level error (ErrMintFailed, ErrConfirmationTimeout, ...)
// and Err the root cause. Both are visible to errors.Is.
type OperationError struct {
	Op     string
	Kind   error
	Err    error
	TxHash string
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Kind)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.TxHash != "" {
		msg = fmt.Sprintf("%s (tx %s)", msg, e.TxHash)
	}
	return msg
}

func (e *OperationError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewOperationError wraps cause under kind for the named operation
func NewOperationError(op string, kind, cause error, txHash string) *OperationError {
	return &OperationError{Op: op, Kind: kind, Err: cause, TxHash: txHash}
}
