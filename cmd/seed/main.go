// Seed program: builds a small demo index plus its heap file under
// leafdb_data/. Run: go run ./cmd/seed
// Then inspect: go run ./cmd/inspect_idx leafdb_data/demo.idx
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"LeafDB/flatindex"
	heapfile "LeafDB/heapfile_manager"
)

const baseDir = "leafdb_data"

func main() {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	indexPath := filepath.Join(baseDir, "demo.idx")
	heapPath := filepath.Join(baseDir, "demo.heap")

	// Start fresh each run.
	os.Remove(indexPath)
	os.Remove(heapPath)

	if err := flatindex.CreateIndex(indexPath, flatindex.TypeInt, 2); err != nil {
		log.Fatalf("create index: %v", err)
	}
	ix, err := flatindex.OpenIndex(indexPath, flatindex.Options{})
	if err != nil {
		log.Fatalf("open index: %v", err)
	}
	defer ix.Close()

	heap, err := heapfile.Open(heapPath)
	if err != nil {
		log.Fatalf("open heap file: %v", err)
	}
	defer heap.Close()

	rows := []struct {
		key  int32
		body string
	}{
		{104, "privet oak, 4 Privet Drive"},
		{101, "whomping willow, castle grounds"},
		{103, "silver birch, north meadow"},
		{102, "red maple, east gate"},
		{105, "hollow elm, riverside"},
	}

	fmt.Println("Seeding demo index:")
	for _, r := range rows {
		ptr, err := heap.Append([]byte(r.body))
		if err != nil {
			log.Fatalf("append row: %v", err)
		}
		loc := flatindex.RowLocator{Page: ptr.Page, Slot: ptr.Slot}
		if err := ix.Insert(r.key, loc); err != nil {
			log.Fatalf("insert key %d: %v", r.key, err)
		}
		fmt.Printf("  %d -> (page=%d slot=%d) %q\n", r.key, loc.Page, loc.Slot, r.body)
	}

	fmt.Println("\nScan in key order:")
	scan, err := ix.OpenScan()
	if err != nil {
		log.Fatalf("open scan: %v", err)
	}
	defer scan.Close()
	for {
		key, ok := scan.Key()
		if !ok {
			break
		}
		loc, err := scan.Next()
		if err != nil {
			log.Fatalf("scan: %v", err)
		}
		row, err := heap.Get(heapfile.RowPointer{Page: loc.Page, Slot: loc.Slot})
		if err != nil {
			log.Fatalf("fetch row: %v", err)
		}
		fmt.Printf("  %d -> %q\n", key, row)
	}

	fmt.Printf("\nentries=%d pages incl. header=%d\n", ix.EntryCount(), ix.NodeCount())
	fmt.Printf("files: %s, %s\n", indexPath, heapPath)
}
