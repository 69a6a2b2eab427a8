// Package account provides the ledger account identifier.
//
// An ID is an opaque 32-byte value. It is comparable with == and can be
// used directly as a map key.
//
// Text Format:
//
//   - Base58 (Bitcoin alphabet) of version(1) ‖ payload(32) ‖ checksum(4)
//   - Checksum: first 4 bytes of SHA3-256(version ‖ payload)
//   - Version: 0x43
//
// Reserved Identifiers:
//
//   - None: the all-zero payload, recorded as the sender of minted and
//     airdropped amounts
//   - Anonymous: the unauthenticated caller
//
// Reserved identifiers are never registered and never hold a balance.
package account
