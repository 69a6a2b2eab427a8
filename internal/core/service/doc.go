// Package service provides the CoreX ledger service.
//
// LedgerService is the only writer of the ledger state. Every mutating
// operation follows the same sequence under a single mutex:
//
//  1. take the cached state from the StateStore
//  2. validate the request against it
//  3. mutate a private copy and append transaction records
//  4. persist the copy as one unit
//
// A failed step discards the copy, so the cached state never reflects a
// partial operation. Queries read the cached snapshot without locking.
//
// This package contains:
//
//   - Transfer, Mint, GrantFaucet, UpdateProfile: ledger mutations
//   - Register: onboarding and milestone airdrops
//   - Initialize: genesis seeding on first boot
//   - Queries: balances, metadata, profiles and transaction history
package service
