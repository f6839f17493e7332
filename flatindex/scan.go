package flatindex

import (
	"fmt"

	"github.com/google/btree"
)

// scanItem orders the gathered keys. The arrival sequence breaks ties so
// duplicate keys survive the tree instead of replacing each other.
type scanItem struct {
	key int32
	seq int
}

func scanLess(a, b scanItem) bool {
	if a.key != b.key {
		return a.key < b.key
	}
	return a.seq < b.seq
}

// Scan walks every entry of an index in ascending key order. The key list is
// fixed at open time; each Next re-resolves its key through Find, so entries
// inserted or deleted after OpenScan shift what the remaining keys resolve
// to.
type Scan struct {
	ix     *FlatIndex
	keys   []int32
	cursor int
}

// OpenScan gathers every key currently in the index into a sorted list and
// returns a cursor positioned before the first one. With duplicate keys the
// list holds one entry per insertion, but Next resolves each of them to the
// first match in page order, so the same locator can come back more than
// once.
func (ix *FlatIndex) OpenScan() (*Scan, error) {
	tree := btree.NewG(8, scanLess)

	seq := 0
	for pageNo := int64(FirstNodePage); pageNo <= ix.tailPage; pageNo++ {
		page, err := ix.pool.FetchPage(pageNo)
		if err != nil {
			return nil, fmt.Errorf("failed to pin page %d: %w", pageNo, err)
		}
		n := decodeNode(page.Data)
		if err := ix.pool.UnpinPage(pageNo, false); err != nil {
			return nil, err
		}

		if n.Key1 != unusedKey {
			tree.ReplaceOrInsert(scanItem{key: n.Key1, seq: seq})
			seq++
		}
		if n.Occupied && n.Key2 != unusedKey {
			tree.ReplaceOrInsert(scanItem{key: n.Key2, seq: seq})
			seq++
		}
	}

	keys := make([]int32, 0, ix.entries)
	tree.Ascend(func(it scanItem) bool {
		keys = append(keys, it.key)
		return true
	})

	return &Scan{ix: ix, keys: keys}, nil
}

// Next returns the locator for the next key in ascending order, or
// ErrNoMoreEntries once the list is exhausted.
func (s *Scan) Next() (RowLocator, error) {
	if s.cursor >= len(s.keys) {
		return NilLocator, ErrNoMoreEntries
	}
	key := s.keys[s.cursor]
	loc, err := s.ix.Find(key)
	if err != nil {
		return NilLocator, fmt.Errorf("failed to resolve scanned key %d: %w", key, err)
	}
	s.cursor++
	return loc, nil
}

// Key reports the key the next call to Next will resolve. It is only valid
// while Next has not returned ErrNoMoreEntries.
func (s *Scan) Key() (int32, bool) {
	if s.cursor >= len(s.keys) {
		return 0, false
	}
	return s.keys[s.cursor], true
}

// Close releases the key list and rewinds the cursor. The scan must not be
// used afterwards.
func (s *Scan) Close() {
	s.keys = nil
	s.cursor = 0
}
