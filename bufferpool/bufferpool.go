package bufferpool

import (
	"fmt"

	"go.uber.org/zap"

	"LeafDB/pager"
)

/*
This file is the main file of the buffer pool.
The pool holds up to capacity page frames and decides evictions with either
FIFO or LRU ordering. Misses go to the second-level page cache first and to
the pager only after that; dirty frames are written back before leaving the
pool.

Pages are identified by page number within a single index file.
*/

// pool-to-spill size ratio for the second-level cache
const spillFactor = 4

// New creates a buffer pool of capacity frames over the given pager. An
// empty policy means FIFO. A nil logger disables debug events.
func New(store pager.Pager, capacity int, policy ReplacementPolicy, log *zap.Logger) (*BufferPool, error) {
	if store == nil {
		return nil, fmt.Errorf("pager is required")
	}
	if capacity < 1 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	switch policy {
	case "":
		policy = PolicyFIFO
	case PolicyFIFO, PolicyLRU:
	default:
		return nil, fmt.Errorf("unknown replacement policy %q", policy)
	}
	if log == nil {
		log = zap.NewNop()
	}

	spill, err := NewPageCache(capacity * spillFactor)
	if err != nil {
		return nil, fmt.Errorf("failed to build page cache: %w", err)
	}

	return &BufferPool{
		frames:   make(map[int64]*Page, capacity),
		order:    make([]int64, 0, capacity),
		capacity: capacity,
		policy:   policy,
		store:    store,
		spill:    spill,
		log:      log,
	}, nil
}

// FetchPage returns the frame for pageNo with its pin count incremented,
// loading it from the page cache or from disk on a miss. Fetching a page
// past the current end of the file grows the file with zeroed pages first,
// so callers can pin a page they are about to write.
func (bp *BufferPool) FetchPage(pageNo int64) (*Page, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if pg, exists := bp.frames[pageNo]; exists {
		bp.hits++
		bp.log.Debug("pool hit", zap.Int64("page", pageNo), zap.Int32("pins", pg.PinCount))
		bp.touch(pageNo)
		pg.PinCount++
		return pg, nil
	}
	bp.misses++

	data, cached := bp.spill.Get(pageNo)
	if cached {
		// The frame copy is authoritative while resident; drop the
		// cached copy so it cannot go stale behind our back.
		bp.spill.Del(pageNo)
		bp.log.Debug("page cache hit", zap.Int64("page", pageNo))
	} else {
		if pageNo >= bp.store.TotalPages() {
			if err := bp.store.EnsureCapacity(pageNo + 1); err != nil {
				return nil, fmt.Errorf("failed to extend file for page %d: %w", pageNo, err)
			}
		}
		var err error
		data, err = bp.store.ReadPage(pageNo)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %d from disk: %w", pageNo, err)
		}
		bp.log.Debug("pool miss", zap.Int64("page", pageNo))
	}

	pg := &Page{No: pageNo, Data: data, PinCount: 1}
	if err := bp.addFrame(pg); err != nil {
		return nil, fmt.Errorf("failed to add page to buffer pool: %w", err)
	}
	return pg, nil
}

// UnpinPage decrements the pin count for a page and records whether the
// caller modified it.
func (bp *BufferPool) UnpinPage(pageNo int64, isDirty bool) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	pg, exists := bp.frames[pageNo]
	if !exists {
		return fmt.Errorf("page %d not in buffer pool", pageNo)
	}

	if pg.PinCount > 0 {
		pg.PinCount--
	}
	if isDirty {
		pg.IsDirty = true
	}
	return nil
}

// FlushPage writes a specific page to disk if dirty.
func (bp *BufferPool) FlushPage(pageNo int64) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	pg, exists := bp.frames[pageNo]
	if !exists {
		return fmt.Errorf("page %d not in buffer pool", pageNo)
	}
	return bp.flushFrame(pg)
}

// FlushAll writes every dirty frame to disk. Frames stay resident and
// pinned counts are untouched.
func (bp *BufferPool) FlushAll() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.log.Debug("flush all", zap.Int("resident", len(bp.frames)))
	for _, pg := range bp.frames {
		if err := bp.flushFrame(pg); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown flushes every dirty frame, syncs the pager, and releases the
// pool's resources. The pool must not be used afterwards.
func (bp *BufferPool) Shutdown() error {
	if err := bp.FlushAll(); err != nil {
		return err
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	if err := bp.store.Sync(); err != nil {
		return fmt.Errorf("failed to sync on shutdown: %w", err)
	}
	bp.spill.Close()
	bp.frames = nil
	bp.order = nil
	return nil
}

// flushFrame writes one frame back if dirty. Assumes lock is already held.
func (bp *BufferPool) flushFrame(pg *Page) error {
	if !pg.IsDirty {
		return nil // Nothing to flush
	}
	if err := bp.store.WritePage(pg.No, pg.Data); err != nil {
		return fmt.Errorf("failed to flush page %d: %w", pg.No, err)
	}
	bp.log.Debug("flush", zap.Int64("page", pg.No))
	pg.IsDirty = false
	return nil
}

// addFrame adds a frame to the pool, evicting if necessary.
// Assumes lock is already held.
func (bp *BufferPool) addFrame(pg *Page) error {
	if len(bp.frames) >= bp.capacity {
		if err := bp.evict(); err != nil {
			return err
		}
	}
	bp.frames[pg.No] = pg
	bp.order = append(bp.order, pg.No)
	return nil
}

// evict removes the first unpinned frame in eviction order, writing it back
// first when dirty. The clean bytes spill into the page cache so a re-fetch
// can skip the disk. Assumes lock is already held.
func (bp *BufferPool) evict() error {
	for i := 0; i < len(bp.order); i++ {
		pageNo := bp.order[i]
		pg, exists := bp.frames[pageNo]

		if !exists {
			// Stale order entry, drop it
			bp.order = append(bp.order[:i], bp.order[i+1:]...)
			i--
			continue
		}

		// Skip pinned pages
		if pg.PinCount > 0 {
			continue
		}

		if pg.IsDirty {
			if err := bp.store.WritePage(pageNo, pg.Data); err != nil {
				return fmt.Errorf("failed to write page %d during eviction: %w", pageNo, err)
			}
			pg.IsDirty = false
		}
		bp.log.Debug("evict", zap.Int64("page", pageNo))
		bp.spill.Set(pageNo, pg.Data)

		delete(bp.frames, pageNo)
		bp.order = append(bp.order[:i], bp.order[i+1:]...)
		return nil
	}

	return fmt.Errorf("all pages are pinned, cannot evict")
}

// touch moves a page to the end of the eviction order. Only LRU reorders on
// access; FIFO keeps arrival order. Assumes lock is already held.
func (bp *BufferPool) touch(pageNo int64) {
	if bp.policy != PolicyLRU {
		return
	}
	for i, no := range bp.order {
		if no == pageNo {
			bp.order = append(bp.order[:i], bp.order[i+1:]...)
			break
		}
	}
	bp.order = append(bp.order, pageNo)
}
