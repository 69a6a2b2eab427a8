// Package snapshot provides the file backend of the state store.
//
// Every save writes a new snapshot file; older files are kept up to the
// retention count for manual recovery and then pruned.
//
//	state-<unix-nanos>.snap
//	[magic:8 "CRXSNAP1"]
//	[HeaderLen:4][HeaderJSON:HeaderLen]
//	[DataLen:4][Data:DataLen]   (encoded ledger state)
//	[checksum:32 SHA-256 of all bytes above]
//
// Files are written to a temporary name, fsynced and renamed, so a crash
// leaves either the previous or the new snapshot in place.
//
// Only the newest snapshot is read back. A newest file that fails
// verification is reported as an error; the manager never silently rolls
// back to an older one.
package snapshot
