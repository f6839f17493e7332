package flatindex

import (
	"fmt"

	"go.uber.org/zap"
)

// Delete removes the first entry holding key, in the same page-then-slot
// order Find uses. The packing rule is: every node below the tail keeps both
// slots full, so when the match sits below the tail, the tail's last entry
// moves into the vacated slot. When the tail node empties, the tail page
// number drops by one; the page itself stays allocated in the file. There is
// no rollback: a storage failure after the tail entry was taken loses that
// entry.
func (ix *FlatIndex) Delete(key int32) error {
	foundPage, foundSlot, err := ix.locate(key)
	if err != nil {
		return err
	}

	if foundPage == ix.tailPage {
		if err := ix.clearTailSlot(foundSlot); err != nil {
			return err
		}
	} else {
		loc, borrowedKey, err := ix.takeFromTail()
		if err != nil {
			return err
		}
		if err := ix.fillSlot(foundPage, foundSlot, borrowedKey, loc); err != nil {
			return err
		}
	}

	ix.entries--
	ix.log.Debug("delete", zap.Int32("key", key), zap.Int64("tail", ix.tailPage))
	return nil
}

// locate scans node pages in ascending order for the first slot holding
// key. Slot 1 is checked before slot 2, matching Find.
func (ix *FlatIndex) locate(key int32) (int64, int, error) {
	for pageNo := int64(FirstNodePage); pageNo <= ix.tailPage; pageNo++ {
		page, err := ix.pool.FetchPage(pageNo)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to pin page %d: %w", pageNo, err)
		}
		n := decodeNode(page.Data)
		if err := ix.pool.UnpinPage(pageNo, false); err != nil {
			return 0, 0, err
		}

		if n.Key1 == key {
			return pageNo, 1, nil
		}
		if n.Key2 == key {
			return pageNo, 2, nil
		}
	}
	return 0, 0, fmt.Errorf("%w: %d", ErrKeyNotFound, key)
}

// clearTailSlot removes one entry from the tail node itself. Clearing
// slot 1 of a two-entry tail shifts slot 2 down so the node never holds a
// gap; clearing the only entry empties the node and the tail shrinks.
func (ix *FlatIndex) clearTailSlot(slot int) error {
	page, err := ix.pool.FetchPage(ix.tailPage)
	if err != nil {
		return fmt.Errorf("failed to pin tail page %d: %w", ix.tailPage, err)
	}
	n := decodeNode(page.Data)

	switch {
	case slot == 2:
		n.Slot2 = NilLocator
		n.Key2 = unusedKey
		n.Occupied = false
	case n.Occupied:
		n.Slot1 = n.Slot2
		n.Key1 = n.Key2
		n.Slot2 = NilLocator
		n.Key2 = unusedKey
		n.Occupied = false
	default:
		n.Slot1 = NilLocator
		n.Key1 = unusedKey
	}
	encodeNode(page.Data, n)
	if err := ix.pool.UnpinPage(ix.tailPage, true); err != nil {
		return err
	}

	if slot == 1 && !n.Occupied && n.Key1 == unusedKey {
		// The node is empty now. The page keeps its spot in the file;
		// the next insert at this position overwrites it.
		ix.tailPage--
	}
	return nil
}

// takeFromTail removes the tail node's last used entry and returns it. A
// two-entry tail gives up slot 2; a one-entry tail gives up slot 1 and the
// tail shrinks by one page.
func (ix *FlatIndex) takeFromTail() (RowLocator, int32, error) {
	page, err := ix.pool.FetchPage(ix.tailPage)
	if err != nil {
		return NilLocator, 0, fmt.Errorf("failed to pin tail page %d: %w", ix.tailPage, err)
	}
	n := decodeNode(page.Data)

	var loc RowLocator
	var key int32
	shrink := false

	if n.Occupied {
		loc, key = n.Slot2, n.Key2
		n.Slot2 = NilLocator
		n.Key2 = unusedKey
		n.Occupied = false
	} else {
		loc, key = n.Slot1, n.Key1
		n.Slot1 = NilLocator
		n.Key1 = unusedKey
		shrink = true
	}
	encodeNode(page.Data, n)
	if err := ix.pool.UnpinPage(ix.tailPage, true); err != nil {
		return NilLocator, 0, err
	}

	if shrink {
		ix.tailPage--
	}
	return loc, key, nil
}

// fillSlot writes the borrowed entry into the vacated slot.
func (ix *FlatIndex) fillSlot(pageNo int64, slot int, key int32, loc RowLocator) error {
	page, err := ix.pool.FetchPage(pageNo)
	if err != nil {
		return fmt.Errorf("failed to pin page %d: %w", pageNo, err)
	}
	n := decodeNode(page.Data)

	if slot == 1 {
		n.Slot1 = loc
		n.Key1 = key
	} else {
		n.Slot2 = loc
		n.Key2 = key
	}
	encodeNode(page.Data, n)
	return ix.pool.UnpinPage(pageNo, true)
}
