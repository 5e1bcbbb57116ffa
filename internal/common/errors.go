// Package common defines shared constants and sentinel errors used across
// the durable and local variants of the backup subsystem. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// ErrOwnerNotFound is returned by the snapshot builder when the teacher
	// account vanished between the request and the capture. Fatal, never retried.
	ErrOwnerNotFound = errors.New("owner not found")

	// ErrSnapshotNotFound covers both "no such archive entry" and "entry exists
	// but belongs to another teacher". The two cases are deliberately
	// indistinguishable to the caller.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrUnsupportedSnapshotVersion is returned when a snapshot document's
	// major format version differs from the reader's. Never auto-migrated.
	ErrUnsupportedSnapshotVersion = errors.New("unsupported snapshot version")

	// ErrOwnershipMismatch indicates a catalog/blob pairing whose embedded
	// owner does not match the calling teacher. Restore aborts before any write.
	ErrOwnershipMismatch = errors.New("snapshot ownership mismatch")

	// ErrStorage wraps adapter-level failures (object store, catalog) so the
	// caller knows a backup or restore did not complete.
	ErrStorage = errors.New("storage failure")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
