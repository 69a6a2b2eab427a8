// Package handler provides the HTTP handlers of the CoreX ledger API.
//
// Handlers adapt textual input to ledger operations:
//
//   - amounts travel as decimal strings; an unparsable amount becomes zero
//   - identifiers travel as base58 text; an unparsable identifier becomes
//     the caller
//
// Every JSON response uses the Response envelope. Domain errors are mapped
// to HTTP status codes by their error code.
package handler
