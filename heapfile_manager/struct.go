// Package heapfile stores variable-length rows in slotted 4KB pages. The
// index in flatindex maps keys to the (page, slot) pointers this package
// hands out, so together they make a tiny key-addressed record store.
package heapfile

import (
	"sync"

	"LeafDB/pager"
)

const (
	// pageHeaderSize is the fixed header at the start of every heap page.
	pageHeaderSize = 24
	// slotSize is one slot directory entry: row offset and row length,
	// two bytes each. The directory grows backward from the page end.
	slotSize = 4
	// maxRowSize leaves room for the header and at least one slot entry.
	maxRowSize = pager.PageSize - pageHeaderSize - slotSize
)

// pageHeader is the bookkeeping at the start of a heap page.
type pageHeader struct {
	freePtr   uint16 // next free byte in the data area
	rowCount  uint16 // live rows on the page
	slotCount uint16 // entries in the slot directory, including dead ones
	full      bool   // set once the page cannot take another minimal row
}

// slot is one slot directory entry. Length 0 marks a deleted row; the slot
// index stays allocated so existing pointers never shift.
type slot struct {
	offset uint16
	length uint16
}

// RowPointer names a row by the heap page holding it and its slot index.
// The int32 fields line up with the locators the index stores.
type RowPointer struct {
	Page int32
	Slot int32
}

// Store is one open heap file. Appends go to the lowest page with room;
// reads address pages directly through the pager.
type Store struct {
	store pager.Pager
	path  string
	mu    sync.Mutex
}
