// Package flatindex implements a disk-backed key index that maps integer
// keys to row locators in external storage. Nodes live one per page and hold
// up to two entries; inserts append at the tail, lookups scan pages in
// order, and deletes backfill the vacated slot from the tail so every
// non-tail node stays full. The layout never branches: the tree fields on
// each node (parent, leaf flag, chain link) are written but the structure
// stays a flat chain of leaves.
package flatindex

import (
	"go.uber.org/zap"

	"LeafDB/bufferpool"
	"LeafDB/pager"
)

// DataType enumerates key types callers can ask for. Only TypeInt is
// supported; the others exist so the request fails loudly instead of
// silently truncating keys.
type DataType int

const (
	TypeInt DataType = iota
	TypeString
	TypeFloat
	TypeBool
)

func (d DataType) String() string {
	switch d {
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// RowLocator points at a record in external storage: the page holding it and
// the slot within that page. The index stores and returns locators without
// ever interpreting them.
type RowLocator struct {
	Page int32
	Slot int32
}

// NilLocator marks an unused slot.
var NilLocator = RowLocator{Page: -1, Slot: -1}

const (
	// HeaderPage is page 0: it records the node key capacity and nothing
	// else. Node pages start right after it.
	HeaderPage = 0
	// FirstNodePage is the lowest node page number. Nodes are allocated
	// upward from here, one per page, with no gaps up to the tail.
	FirstNodePage = 1

	// unusedKey marks an empty key slot on a node page.
	unusedKey = int32(-1)
	// noParent is the parent field of every node in the flat layout.
	noParent = int32(-1)
)

// FlatIndex is the control block for one open index: the buffer pool it
// reads pages through plus the bookkeeping that insert, find, delete, and
// scan share. All state is per handle, so any number of indexes can be open
// at once; a single handle must only be used from one goroutine at a time.
type FlatIndex struct {
	name     string
	keyType  DataType
	pool     *bufferpool.BufferPool
	store    pager.Pager
	tailPage int64 // highest node page in use; 0 means the index is empty
	entries  int   // live entry count, maintained in memory only
	capacity int32 // per-node key limit recorded in the header page
	log      *zap.Logger
	closed   bool
}

// Name returns the path of the backing index file.
func (ix *FlatIndex) Name() string { return ix.name }

// KeyType returns the key type the index was created with. Only TypeInt
// indexes can be created, so this always reports TypeInt.
func (ix *FlatIndex) KeyType() DataType { return ix.keyType }

// Capacity returns the per-node key limit recorded in the header page.
func (ix *FlatIndex) Capacity() int { return int(ix.capacity) }

// EntryCount returns the number of live entries behind this handle.
func (ix *FlatIndex) EntryCount() int { return ix.entries }

// NodeCount returns the number of pages the index occupies, header page
// included: the tail page number plus one.
func (ix *FlatIndex) NodeCount() int { return int(ix.tailPage) + 1 }

// PoolStats exposes the buffer pool's occupancy counters for drivers.
func (ix *FlatIndex) PoolStats() bufferpool.Stats { return ix.pool.GetStats() }
