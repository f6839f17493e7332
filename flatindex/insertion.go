package flatindex

import (
	"fmt"

	"go.uber.org/zap"
)

// Insert stores the (key, locator) pair. The tail node takes the entry when
// its second slot is free; otherwise the next page up becomes the new tail
// with the entry in slot 1. Keys are not checked against existing entries:
// duplicates are stored, and Find resolves them to the first match in page
// order.
func (ix *FlatIndex) Insert(key int32, loc RowLocator) error {
	if ix.tailPage == 0 {
		// Very first entry: node pages start at page 1.
		if err := ix.writeFreshNode(FirstNodePage, key, loc); err != nil {
			return err
		}
		ix.tailPage = FirstNodePage
		ix.entries++
		ix.log.Debug("insert", zap.Int32("key", key), zap.Int64("tail", ix.tailPage))
		return nil
	}

	page, err := ix.pool.FetchPage(ix.tailPage)
	if err != nil {
		return fmt.Errorf("failed to pin tail page %d: %w", ix.tailPage, err)
	}
	n := decodeNode(page.Data)

	if n.Occupied {
		// Tail is full: release it and start the next page.
		if err := ix.pool.UnpinPage(ix.tailPage, false); err != nil {
			return err
		}
		next := ix.tailPage + 1
		if err := ix.writeFreshNode(next, key, loc); err != nil {
			return err
		}
		ix.tailPage = next
	} else {
		n.Slot2 = loc
		n.Key2 = key
		n.Occupied = true
		encodeNode(page.Data, n)
		if err := ix.pool.UnpinPage(ix.tailPage, true); err != nil {
			return err
		}
	}

	ix.entries++
	ix.log.Debug("insert", zap.Int32("key", key), zap.Int64("tail", ix.tailPage))
	return nil
}

// writeFreshNode pins pageNo and overwrites it with a new single-entry node.
// The pool grows the file when pageNo is past the end, so allocation and
// first write are one step.
func (ix *FlatIndex) writeFreshNode(pageNo int64, key int32, loc RowLocator) error {
	page, err := ix.pool.FetchPage(pageNo)
	if err != nil {
		return fmt.Errorf("failed to pin page %d: %w", pageNo, err)
	}
	encodeNode(page.Data, newLeafNode(key, loc))
	return ix.pool.UnpinPage(pageNo, true)
}
