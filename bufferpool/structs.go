package bufferpool

import (
	"sync"

	"go.uber.org/zap"

	"LeafDB/pager"
)

// ############################################# BUFFER POOL #############################################

// ReplacementPolicy selects which unpinned frame goes first when the pool is
// full.
type ReplacementPolicy string

const (
	// PolicyFIFO evicts the frame that entered the pool earliest.
	PolicyFIFO ReplacementPolicy = "fifo"
	// PolicyLRU evicts the frame that was fetched least recently.
	PolicyLRU ReplacementPolicy = "lru"
)

// Page is one pooled frame: an in-memory copy of a disk page with pin and
// dirty bookkeeping. Callers that fetched the frame may modify Data in place
// and hand the dirty flag back through UnpinPage; the frame stays resident at
// least as long as its pin count is above zero.
type Page struct {
	No       int64
	Data     []byte
	PinCount int32
	IsDirty  bool
}

// BufferPool caches page frames in memory with pin/unpin semantics and a
// configurable replacement policy. Frames evicted from the pool spill into a
// ristretto-backed PageCache, so a later fetch can often skip the disk read.
type BufferPool struct {
	frames   map[int64]*Page // pageNo -> frame
	order    []int64         // eviction order: oldest candidate first
	capacity int
	policy   ReplacementPolicy
	store    pager.Pager
	spill    *PageCache
	log      *zap.Logger
	hits     uint64
	misses   uint64
	mu       sync.Mutex
}

// Stats is a point-in-time snapshot of pool occupancy.
type Stats struct {
	ResidentPages int
	PinnedPages   int
	DirtyPages    int
	Capacity      int
	Hits          uint64
	Misses        uint64
}
