// Package domain defines the core domain model of the CoreX ledger.
//
// Domain models are pure values without IO dependencies. This package
// contains:
//
//   - Amount: unsigned 128-bit token quantity with checked arithmetic
//   - LedgerState: the single persisted aggregate
//   - Transaction: immutable record of one balance-affecting event
//   - Profile: user-supplied account details
//   - Errors: ledger error definitions
//
// The account identifier lives in pkg/account.
package domain
