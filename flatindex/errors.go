package flatindex

import "errors"

// Sentinel errors returned by the index manager. Failures from the pager or
// buffer pool are wrapped with context and propagated as-is instead.
var (
	// ErrUnsupportedKeyType is returned by CreateIndex for any key type
	// other than TypeInt.
	ErrUnsupportedKeyType = errors.New("flatindex: only integer keys are supported")

	// ErrAllocation is returned when the resources behind a handle (the
	// buffer pool and its page cache) cannot be set up.
	ErrAllocation = errors.New("flatindex: index resources could not be allocated")

	// ErrKeyNotFound is returned by Find and Delete when no node holds
	// the key.
	ErrKeyNotFound = errors.New("flatindex: key not found")

	// ErrNoMoreEntries is returned by a scan that has moved past its last
	// key.
	ErrNoMoreEntries = errors.New("flatindex: no more entries")

	// ErrFileNotFound is returned by DropIndex when the backing file does
	// not exist.
	ErrFileNotFound = errors.New("flatindex: index file not found")
)
