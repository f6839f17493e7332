// Index file inspection for debugging. Use InspectIndexFile(path) to print
// a human-readable dump of an index file that is not currently open.

package flatindex

import (
	"fmt"
	"io"
	"os"

	"LeafDB/pager"
)

// InspectIndexFile prints the structure of an index file to stdout.
func InspectIndexFile(indexPath string) error {
	return InspectIndexFileTo(os.Stdout, indexPath)
}

// InspectIndexFileTo writes a human-readable dump of the index file to w:
// page 0's capacity, then every physical node page with its occupancy flag,
// keys, and locators. Pages past a shrunk tail still show their last
// contents, since the file never gives pages back.
func InspectIndexFileTo(w io.Writer, indexPath string) error {
	store, err := pager.Open(indexPath)
	if err != nil {
		return err
	}
	defer store.Close()

	header, err := store.ReadPage(HeaderPage)
	if err != nil {
		return fmt.Errorf("read header page: %w", err)
	}

	p := func(format string, args ...interface{}) { fmt.Fprintf(w, format, args...) }

	p("Index file: %s\n", indexPath)
	p("  Page 0 (header): node key capacity = %d\n", readHeader(header))

	total := store.TotalPages()
	if total <= FirstNodePage {
		p("  (no node pages)\n")
		return nil
	}

	p("\n  Node pages:\n")
	for pageNo := int64(FirstNodePage); pageNo < total; pageNo++ {
		page, err := store.ReadPage(pageNo)
		if err != nil {
			p("  [page %d] read error: %v\n", pageNo, err)
			continue
		}
		n := decodeNode(page)
		p("  [page %d] occupied=%v\n", pageNo, n.Occupied)
		p("    slot1: %s\n", formatEntry(n.Key1, n.Slot1))
		p("    slot2: %s\n", formatEntry(n.Key2, n.Slot2))
	}
	return nil
}

// formatEntry shows one node slot: the key and the locator it maps to, or a
// marker when the slot is unused.
func formatEntry(key int32, loc RowLocator) string {
	if key == unusedKey {
		return "(unused)"
	}
	return fmt.Sprintf("%d -> (page=%d slot=%d)", key, loc.Page, loc.Slot)
}
