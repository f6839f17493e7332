package bufferpool

import (
	"github.com/dgraph-io/ristretto/v2"

	"LeafDB/pager"
)

// PageCache is the pool's second level: byte copies of clean pages that were
// evicted from the frame table, keyed by page number. A hit saves a disk
// read; a miss is normal, since ristretto decides admission and eviction on
// its own and the disk copy is always authoritative.
type PageCache struct {
	cache *ristretto.Cache[int64, []byte]
}

// NewPageCache builds a cache sized to hold roughly the given number of
// pages.
func NewPageCache(pages int) (*PageCache, error) {
	if pages < 1 {
		pages = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config[int64, []byte]{
		NumCounters: int64(pages) * 10,
		MaxCost:     int64(pages) * pager.PageSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &PageCache{cache: cache}, nil
}

// Set stores a copy of data under pageNo and waits for the write to settle,
// so an immediate re-fetch sees it.
func (pc *PageCache) Set(pageNo int64, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	pc.cache.Set(pageNo, cp, int64(len(cp)))
	pc.cache.Wait()
}

// Get returns a copy of the cached page bytes, if ristretto kept them.
func (pc *PageCache) Get(pageNo int64) ([]byte, bool) {
	data, ok := pc.cache.Get(pageNo)
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true
}

// Del drops pageNo from the cache.
func (pc *PageCache) Del(pageNo int64) {
	pc.cache.Del(pageNo)
}

// Close stops the cache's background goroutines.
func (pc *PageCache) Close() {
	pc.cache.Close()
}
