package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a ledger error with a structured error code.
//
// Codes follow CRX-<AREA>-<NNNN>; the last three digits mirror the HTTP
// status the error maps to.
type DomainError struct {
	Code    string // Error code (e.g., "CRX-LEDG-4001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true // Only check if it's a DomainError
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Ledger errors (LEDG).
var (
	// ErrZeroTransfer indicates an operation was given a zero amount.
	ErrZeroTransfer = NewDomainError("CRX-LEDG-4001", "amount must be greater than zero")

	// ErrReceiverSameAsSender indicates a transfer to oneself.
	ErrReceiverSameAsSender = NewDomainError("CRX-LEDG-4002", "receiver is the sender")

	// ErrReservedAccount indicates a reserved identifier was used where a
	// real account is required.
	ErrReservedAccount = NewDomainError("CRX-LEDG-4003", "reserved account")

	// ErrAccountNotRegistered indicates the account has no profile.
	ErrAccountNotRegistered = NewDomainError("CRX-LEDG-4040", "account not registered")

	// ErrInsufficientFunds indicates the debited balance is too small.
	// Operations return it wrapped in *InsufficientFundsError.
	ErrInsufficientFunds = NewDomainError("CRX-LEDG-4220", "insufficient funds")

	// ErrAmountOverflow indicates a balance or supply would exceed 2^128-1.
	ErrAmountOverflow = NewDomainError("CRX-LEDG-4221", "amount overflow")
)

// Authority errors (AUTH).
var (
	// ErrNotTheMinter indicates the caller is not the minting authority.
	ErrNotTheMinter = NewDomainError("CRX-AUTH-4030", "caller is not the minting authority")

	// ErrMinterNotSet indicates no minting authority is recorded while
	// strict authority mode is on.
	ErrMinterNotSet = NewDomainError("CRX-AUTH-4031", "minting authority not set")
)

// System errors (SYS).
var (
	// ErrInternal indicates an internal server error.
	ErrInternal = NewDomainError("CRX-SYS-5000", "internal server error")

	// ErrStoreFailure indicates the ledger state could not be committed.
	ErrStoreFailure = NewDomainError("CRX-SYS-5001", "state store failure")

	// ErrServiceUnavailable indicates the service is not ready.
	ErrServiceUnavailable = NewDomainError("CRX-SYS-5030", "service unavailable")

	// ErrRateLimited indicates too many requests.
	ErrRateLimited = NewDomainError("CRX-SYS-4290", "too many requests")
)

// Argument errors (ARG).
var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("CRX-ARG-4000", "invalid argument")
)

// InsufficientFundsError carries the balance that was found too small.
type InsufficientFundsError struct {
	Balance Amount
}

// NewInsufficientFunds returns an error reporting balance.
func NewInsufficientFunds(balance Amount) *InsufficientFundsError {
	return &InsufficientFundsError{Balance: balance}
}

// Error implements the error interface.
func (e *InsufficientFundsError) Error() string {
	return ErrInsufficientFunds.WithDetails("balance " + e.Balance.String()).Error()
}

// Unwrap exposes ErrInsufficientFunds to errors.Is and errors.As.
func (e *InsufficientFundsError) Unwrap() error {
	return ErrInsufficientFunds
}
