// Package connection provides the HTTP client used by corex-cli.
//
// Every request carries the caller identifier in the X-Caller-ID header.
// Responses are unwrapped from the server envelope; error envelopes become
// *APIError values.
package connection
