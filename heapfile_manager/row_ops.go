package heapfile

import (
	"fmt"
	"os"

	"LeafDB/pager"
)

// Open opens the heap file at path, creating it when it does not exist.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := pager.CreateFile(path); err != nil {
			return nil, fmt.Errorf("failed to create heap file: %w", err)
		}
	}
	store, err := pager.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open heap file: %w", err)
	}
	return &Store{store: store, path: path}, nil
}

// Path returns the location of the backing heap file.
func (s *Store) Path() string { return s.path }

// Append stores row on the lowest page with room and returns its pointer.
// The row bytes are copied into the page; callers may reuse the slice.
func (s *Store) Append(row []byte) (RowPointer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(row) > maxRowSize {
		return RowPointer{}, fmt.Errorf("row too large: %d bytes (max %d)", len(row), maxRowSize)
	}

	pageNo, page, err := s.findSuitablePage(len(row))
	if err != nil {
		return RowPointer{}, err
	}

	h := readHeader(page)
	copy(page[h.freePtr:int(h.freePtr)+len(row)], row)

	index := h.slotCount
	writeSlot(page, index, slot{offset: h.freePtr, length: uint16(len(row))})

	h.freePtr += uint16(len(row))
	h.rowCount++
	h.slotCount++
	if freeSpace(h) < slotSize+1 {
		h.full = true
	}
	writeHeader(page, h)

	if err := s.store.WritePage(pageNo, page); err != nil {
		return RowPointer{}, fmt.Errorf("failed to write heap page %d: %w", pageNo, err)
	}
	return RowPointer{Page: int32(pageNo), Slot: int32(index)}, nil
}

// Get returns a copy of the row ptr points at.
func (s *Store) Get(ptr RowPointer) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ptr.Page < 0 || int64(ptr.Page) >= s.store.TotalPages() {
		return nil, fmt.Errorf("heap page %d does not exist", ptr.Page)
	}
	page, err := s.store.ReadPage(int64(ptr.Page))
	if err != nil {
		return nil, fmt.Errorf("failed to read heap page %d: %w", ptr.Page, err)
	}

	sl, ok := readSlot(page, uint16(ptr.Slot))
	if !ok || sl.length == 0 {
		return nil, fmt.Errorf("no row at page %d slot %d", ptr.Page, ptr.Slot)
	}

	row := make([]byte, sl.length)
	copy(row, page[sl.offset:int(sl.offset)+int(sl.length)])
	return row, nil
}

// Delete clears the row's slot. The slot index stays allocated, so other
// pointers into the page keep working; the row bytes are reclaimed only if
// the page is ever rewritten.
func (s *Store) Delete(ptr RowPointer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ptr.Page < 0 || int64(ptr.Page) >= s.store.TotalPages() {
		return fmt.Errorf("heap page %d does not exist", ptr.Page)
	}
	page, err := s.store.ReadPage(int64(ptr.Page))
	if err != nil {
		return fmt.Errorf("failed to read heap page %d: %w", ptr.Page, err)
	}

	sl, ok := readSlot(page, uint16(ptr.Slot))
	if !ok || sl.length == 0 {
		return fmt.Errorf("no row at page %d slot %d", ptr.Page, ptr.Slot)
	}

	writeSlot(page, uint16(ptr.Slot), slot{})
	h := readHeader(page)
	h.rowCount--
	writeHeader(page, h)

	if err := s.store.WritePage(int64(ptr.Page), page); err != nil {
		return fmt.Errorf("failed to write heap page %d: %w", ptr.Page, err)
	}
	return nil
}

// findSuitablePage scans pages from the start for one with room, extending
// the file by one page when every existing page is too full.
func (s *Store) findSuitablePage(rowLen int) (int64, []byte, error) {
	total := s.store.TotalPages()
	for pageNo := int64(0); pageNo < total; pageNo++ {
		page, err := s.store.ReadPage(pageNo)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to read heap page %d: %w", pageNo, err)
		}
		h := readHeader(page)
		if h.full {
			continue
		}
		if freeSpace(h) >= rowLen+slotSize {
			return pageNo, page, nil
		}
	}

	if err := s.store.EnsureCapacity(total + 1); err != nil {
		return 0, nil, fmt.Errorf("failed to grow heap file: %w", err)
	}
	page, err := s.store.ReadPage(total)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read fresh heap page %d: %w", total, err)
	}
	return total, page, nil
}

// Sync flushes pending writes to disk.
func (s *Store) Sync() error {
	return s.store.Sync()
}

// Close flushes and closes the backing file.
func (s *Store) Close() error {
	if err := s.store.Sync(); err != nil {
		s.store.Close()
		return err
	}
	return s.store.Close()
}
