package pager

import (
	"fmt"
	"os"
	"sync"
)

// OnDiskPager implements the Pager interface over a single page file.
type OnDiskPager struct {
	file     *os.File
	filePath string
	numPages int64
	mu       sync.RWMutex
}

// CreateFile creates a new page file at path holding a single zeroed page
// (page 0, the header page). It fails if the file already exists.
func CreateFile(path string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create page file %s: %w", path, err)
	}

	empty := make([]byte, PageSize)
	if _, err := file.WriteAt(empty, 0); err != nil {
		file.Close()
		return fmt.Errorf("failed to initialize page file %s: %w", path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync page file %s: %w", path, err)
	}
	return file.Close()
}

// Open opens an existing page file. It never creates one; creation is
// CreateFile's job so that opening a missing file is a visible error.
func Open(path string) (*OnDiskPager, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open page file %s: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat page file: %w", err)
	}

	return &OnDiskPager{
		file:     file,
		filePath: path,
		numPages: stat.Size() / PageSize,
	}, nil
}

// Remove deletes the page file at path.
func Remove(path string) error {
	return os.Remove(path)
}

// ReadPage reads a 4KB page from disk at the given page number.
func (p *OnDiskPager) ReadPage(pageNo int64) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.file == nil {
		return nil, fmt.Errorf("pager file is closed")
	}

	page := make([]byte, PageSize)
	n, err := p.file.ReadAt(page, pageNo*PageSize)
	if err != nil && n == 0 {
		return nil, fmt.Errorf("failed to read page %d: %w", pageNo, err)
	}
	// A partial read at the end of the file keeps the rest of the buffer
	// zeroed, which is exactly what an unwritten page should look like.
	return page, nil
}

// WritePage writes a 4KB page to disk at the given page number.
func (p *OnDiskPager) WritePage(pageNo int64, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return fmt.Errorf("pager file is closed")
	}
	if len(data) != PageSize {
		return fmt.Errorf("data size %d does not match page size %d", len(data), PageSize)
	}

	if _, err := p.file.WriteAt(data, pageNo*PageSize); err != nil {
		return fmt.Errorf("failed to write page %d: %w", pageNo, err)
	}
	if pageNo >= p.numPages {
		p.numPages = pageNo + 1
	}
	return nil
}

// EnsureCapacity appends zeroed pages until the file holds at least pages
// pages.
func (p *OnDiskPager) EnsureCapacity(pages int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return fmt.Errorf("pager file is closed")
	}
	if pages <= p.numPages {
		return nil
	}

	empty := make([]byte, PageSize)
	for pageNo := p.numPages; pageNo < pages; pageNo++ {
		if _, err := p.file.WriteAt(empty, pageNo*PageSize); err != nil {
			return fmt.Errorf("failed to extend file to page %d: %w", pageNo, err)
		}
	}
	p.numPages = pages
	return nil
}

// TotalPages reports how many pages the file holds.
func (p *OnDiskPager) TotalPages() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.numPages
}

// Sync flushes all pending writes to disk.
func (p *OnDiskPager) Sync() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return fmt.Errorf("pager file is closed")
	}
	return p.file.Sync()
}

// Close syncs and closes the page file.
func (p *OnDiskPager) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return nil // Already closed
	}

	if err := p.file.Sync(); err != nil {
		p.file.Close()
		p.file = nil
		return fmt.Errorf("failed to sync before close: %w", err)
	}

	err := p.file.Close()
	p.file = nil // Mark as closed
	return err
}
