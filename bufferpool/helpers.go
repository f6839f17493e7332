package bufferpool

import "fmt"

/*
This file holds helper functions for the buffer pool.
*/

// GetStats returns current buffer pool statistics.
func (bp *BufferPool) GetStats() Stats {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	stats := Stats{
		ResidentPages: len(bp.frames),
		Capacity:      bp.capacity,
		Hits:          bp.hits,
		Misses:        bp.misses,
	}
	for _, pg := range bp.frames {
		if pg.PinCount > 0 {
			stats.PinnedPages++
		}
		if pg.IsDirty {
			stats.DirtyPages++
		}
	}
	return stats
}

// Size returns the current number of frames in the buffer pool.
func (bp *BufferPool) Size() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.frames)
}

// Capacity returns the maximum number of frames the pool holds.
func (bp *BufferPool) Capacity() int {
	return bp.capacity
}

// MarkDirty marks a resident page as modified without going through
// UnpinPage.
func (bp *BufferPool) MarkDirty(pageNo int64) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	pg, exists := bp.frames[pageNo]
	if !exists {
		return fmt.Errorf("page %d not in buffer pool", pageNo)
	}
	pg.IsDirty = true
	return nil
}
