package flatindex

import "fmt"

// Find returns the locator stored for key. Node pages are scanned in
// ascending order and slot 1 is checked before slot 2, so with duplicate
// keys the earliest insertion still resident in the lowest page wins.
func (ix *FlatIndex) Find(key int32) (RowLocator, error) {
	for pageNo := int64(FirstNodePage); pageNo <= ix.tailPage; pageNo++ {
		page, err := ix.pool.FetchPage(pageNo)
		if err != nil {
			return NilLocator, fmt.Errorf("failed to pin page %d: %w", pageNo, err)
		}
		n := decodeNode(page.Data)
		if err := ix.pool.UnpinPage(pageNo, false); err != nil {
			return NilLocator, err
		}

		if n.Key1 == key {
			return n.Slot1, nil
		}
		if n.Key2 == key {
			return n.Slot2, nil
		}
	}
	return NilLocator, fmt.Errorf("%w: %d", ErrKeyNotFound, key)
}
