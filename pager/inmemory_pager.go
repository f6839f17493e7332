package pager

import (
	"fmt"
	"sync"
)

// InMemoryPager keeps pages in a map. Tests and benchmarks use it where a
// real file would only add noise.
type InMemoryPager struct {
	pages    map[int64][]byte
	numPages int64
	closed   bool
	mu       sync.RWMutex
}

func NewInMemoryPager() *InMemoryPager {
	return &InMemoryPager{
		pages: make(map[int64][]byte),
	}
}

func (p *InMemoryPager) ReadPage(pageNo int64) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, fmt.Errorf("pager is closed")
	}
	if pageNo >= p.numPages {
		return nil, fmt.Errorf("failed to read page %d: past end of file", pageNo)
	}

	// Return a copy so the caller cannot modify internal state directly
	// without calling WritePage.
	out := make([]byte, PageSize)
	copy(out, p.pages[pageNo])
	return out, nil
}

func (p *InMemoryPager) WritePage(pageNo int64, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("pager is closed")
	}
	if len(data) != PageSize {
		return fmt.Errorf("data size %d does not match page size %d", len(data), PageSize)
	}

	dest := make([]byte, PageSize)
	copy(dest, data)
	p.pages[pageNo] = dest
	if pageNo >= p.numPages {
		p.numPages = pageNo + 1
	}
	return nil
}

func (p *InMemoryPager) EnsureCapacity(pages int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("pager is closed")
	}

	for pageNo := p.numPages; pageNo < pages; pageNo++ {
		p.pages[pageNo] = make([]byte, PageSize)
	}
	if pages > p.numPages {
		p.numPages = pages
	}
	return nil
}

func (p *InMemoryPager) TotalPages() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.numPages
}

func (p *InMemoryPager) Sync() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return fmt.Errorf("pager is closed")
	}
	// In-memory sync is a no-op, but we should still check if we are closed.
	return nil
}

func (p *InMemoryPager) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	// This helps catch bugs where something keeps using the pager after
	// closing it.
	p.pages = nil
	p.closed = true
	return nil
}
