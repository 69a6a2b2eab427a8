// Package memory provides a process-local backend for the state store.
//
// Nothing survives a restart. It backs tests and ephemeral deployments.
package memory
