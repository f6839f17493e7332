package flatindex

import "encoding/binary"

// On-page layout of a node, little-endian at fixed offsets:
//
//	[0]       1 byte   occupied flag: both entry slots in use
//	[1:5]     int32    parent page (always -1 in the flat layout)
//	[5]       1 byte   leaf flag (always 1; doubles as an initialized marker)
//	[6:10]    int32    slot 1 locator page
//	[10:14]   int32    slot 1 locator slot
//	[14:18]   int32    slot 1 key (-1 = unused)
//	[18:22]   int32    slot 2 locator page
//	[22:26]   int32    slot 2 locator slot
//	[26:30]   int32    slot 2 key (-1 = unused)
//	[30:34]   int32    chain link page (reserved for leaf chaining)
//	[34:38]   int32    chain link slot
//
// The remaining page bytes are unused. The header page (page 0) holds a
// single int32 at offset 0: the node key capacity recorded at create time.
const (
	offOccupied  = 0
	offParent    = 1
	offLeaf      = 5
	offSlot1Page = 6
	offSlot1Slot = 10
	offKey1      = 14
	offSlot2Page = 18
	offSlot2Slot = 22
	offKey2      = 26
	offChainPage = 30
	offChainSlot = 34
)

// node is the decoded form of one node page.
type node struct {
	Occupied bool
	Parent   int32
	Leaf     bool
	Slot1    RowLocator
	Key1     int32
	Slot2    RowLocator
	Key2     int32
	Chain    RowLocator
}

// newLeafNode is the shape every fresh node page starts out in: one entry in
// slot 1, slot 2 empty, no parent and no chain.
func newLeafNode(key int32, loc RowLocator) node {
	return node{
		Parent: noParent,
		Leaf:   true,
		Slot1:  loc,
		Key1:   key,
		Slot2:  NilLocator,
		Key2:   unusedKey,
		Chain:  NilLocator,
	}
}

func putInt32(page []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(page[off:off+4], uint32(v))
}

func getInt32(page []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(page[off : off+4]))
}

func putFlag(page []byte, off int, v bool) {
	if v {
		page[off] = 1
	} else {
		page[off] = 0
	}
}

// encodeNode serializes n onto a 4KB page at the fixed offsets above.
func encodeNode(page []byte, n node) {
	putFlag(page, offOccupied, n.Occupied)
	putInt32(page, offParent, n.Parent)
	putFlag(page, offLeaf, n.Leaf)
	putInt32(page, offSlot1Page, n.Slot1.Page)
	putInt32(page, offSlot1Slot, n.Slot1.Slot)
	putInt32(page, offKey1, n.Key1)
	putInt32(page, offSlot2Page, n.Slot2.Page)
	putInt32(page, offSlot2Slot, n.Slot2.Slot)
	putInt32(page, offKey2, n.Key2)
	putInt32(page, offChainPage, n.Chain.Page)
	putInt32(page, offChainSlot, n.Chain.Slot)
}

// decodeNode deserializes the node stored on a 4KB page.
func decodeNode(page []byte) node {
	return node{
		Occupied: page[offOccupied] != 0,
		Parent:   getInt32(page, offParent),
		Leaf:     page[offLeaf] != 0,
		Slot1:    RowLocator{Page: getInt32(page, offSlot1Page), Slot: getInt32(page, offSlot1Slot)},
		Key1:     getInt32(page, offKey1),
		Slot2:    RowLocator{Page: getInt32(page, offSlot2Page), Slot: getInt32(page, offSlot2Slot)},
		Key2:     getInt32(page, offKey2),
		Chain:    RowLocator{Page: getInt32(page, offChainPage), Slot: getInt32(page, offChainSlot)},
	}
}

// writeHeader records the node key capacity on the header page.
func writeHeader(page []byte, capacity int32) {
	putInt32(page, 0, capacity)
}

// readHeader returns the node key capacity stored on the header page.
func readHeader(page []byte) int32 {
	return getInt32(page, 0)
}
