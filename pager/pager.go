// Package pager reads and writes the fixed-size pages an index file is made
// of. OnDiskPager is the real implementation; InMemoryPager backs tests and
// benchmarks that do not want to touch the filesystem.
package pager

// PageSize is the size of every page in bytes. All reads and writes move
// exactly one page.
const PageSize = 4096

// Pager is the storage abstraction the buffer pool sits on top of. Pages are
// addressed by number, starting at 0. A page exists once the file covers it;
// EnsureCapacity grows the file with zeroed pages so callers can address a
// page before writing it.
type Pager interface {
	// ReadPage returns the PageSize bytes stored at pageNo.
	ReadPage(pageNo int64) ([]byte, error)

	// WritePage stores exactly PageSize bytes at pageNo, extending the
	// file if the write lands past the current end.
	WritePage(pageNo int64, data []byte) error

	// EnsureCapacity grows the file with zeroed pages until it holds at
	// least pages pages. It never shrinks.
	EnsureCapacity(pages int64) error

	// TotalPages reports how many pages the file currently holds.
	TotalPages() int64

	// Sync flushes pending writes to stable storage.
	Sync() error

	// Close releases the underlying resources. Closing twice is not an
	// error.
	Close() error
}
