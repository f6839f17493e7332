// Inspect a flat index file (.idx).
// Usage: go run ./cmd/inspect_idx <path-to-.idx>
// Example: go run ./cmd/inspect_idx leafdb_data/demo.idx
package main

import (
	"fmt"
	"os"

	"LeafDB/flatindex"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <index.idx>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Example: %s leafdb_data/demo.idx\n", os.Args[0])
		os.Exit(1)
	}
	path := os.Args[1]
	if err := flatindex.InspectIndexFile(path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
