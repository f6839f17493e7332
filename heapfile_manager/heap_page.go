package heapfile

import (
	"encoding/binary"

	"LeafDB/pager"
)

// Heap page layout, little-endian:
//
//	[0:2]   uint16  free pointer (next free byte in the data area)
//	[2:4]   uint16  live row count
//	[4:6]   uint16  slot directory size
//	[6]     1 byte  full flag
//	[7:24]  reserved
//
// Rows grow forward from byte 24; the slot directory grows backward from
// byte 4096, four bytes per entry (offset uint16, length uint16). A page
// fresh from the pager is all zeros, which readHeader normalizes into an
// empty page.

func writeHeader(page []byte, h pageHeader) {
	binary.LittleEndian.PutUint16(page[0:2], h.freePtr)
	binary.LittleEndian.PutUint16(page[2:4], h.rowCount)
	binary.LittleEndian.PutUint16(page[4:6], h.slotCount)
	if h.full {
		page[6] = 1
	} else {
		page[6] = 0
	}
}

func readHeader(page []byte) pageHeader {
	h := pageHeader{
		freePtr:   binary.LittleEndian.Uint16(page[0:2]),
		rowCount:  binary.LittleEndian.Uint16(page[2:4]),
		slotCount: binary.LittleEndian.Uint16(page[4:6]),
		full:      page[6] != 0,
	}
	if h.freePtr < pageHeaderSize {
		h.freePtr = pageHeaderSize
	}
	return h
}

func slotOffset(index uint16) int {
	return pager.PageSize - int(index+1)*slotSize
}

func readSlot(page []byte, index uint16) (slot, bool) {
	h := readHeader(page)
	if index >= h.slotCount {
		return slot{}, false
	}
	off := slotOffset(index)
	return slot{
		offset: binary.LittleEndian.Uint16(page[off : off+2]),
		length: binary.LittleEndian.Uint16(page[off+2 : off+4]),
	}, true
}

func writeSlot(page []byte, index uint16, s slot) {
	off := slotOffset(index)
	binary.LittleEndian.PutUint16(page[off:off+2], s.offset)
	binary.LittleEndian.PutUint16(page[off+2:off+4], s.length)
}

// freeSpace is what remains between the data area and the slot directory.
func freeSpace(h pageHeader) int {
	return pager.PageSize - int(h.freePtr) - int(h.slotCount)*slotSize
}
