// benchmark times insert and point-lookup latency of the flat index against
// an in-memory B-tree, Pebble, and SQLite, then writes a CSV and a latency
// chart. The flat index scans pages linearly, so keep -n modest.
// Run: go run ./cmd/benchmark -n 2000
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"
)

type result struct {
	structure string
	operation string
	latencyNs int64
}

func main() {
	n := flag.Int("n", 2000, "number of keys per structure")
	csvPath := flag.String("csv", "benchmark_results.csv", "CSV output path")
	chartPath := flag.String("chart", "benchmark_lookup.png", "lookup latency chart path")
	flag.Parse()

	workDir, err := os.MkdirTemp("", "leafdb_bench")
	if err != nil {
		fmt.Fprintf(os.Stderr, "temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(workDir)

	// Distinct keys in shuffled order, shared by every candidate.
	keys := make([]int32, *n)
	for i, k := range rand.Perm(*n) {
		keys[i] = int32(k)
	}

	flat, err := newFlatCandidate(workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flatindex setup: %v\n", err)
		os.Exit(1)
	}
	peb, err := newPebbleCandidate(workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pebble setup: %v\n", err)
		os.Exit(1)
	}
	sqlt, err := newSQLiteCandidate(workDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sqlite setup: %v\n", err)
		os.Exit(1)
	}

	candidates := []candidate{flat, newBTreeCandidate(), peb, sqlt}

	var results []result
	for _, c := range candidates {
		fmt.Printf("Testing %s (n=%d)\n", c.Name(), *n)
		r, err := runSuite(c, keys)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", c.Name(), err)
			os.Exit(1)
		}
		results = append(results, r...)
		if err := c.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: close: %v\n", c.Name(), err)
		}
	}

	if err := writeCSV(*csvPath, *n, results); err != nil {
		fmt.Fprintf(os.Stderr, "write csv: %v\n", err)
		os.Exit(1)
	}
	if err := writeLookupChart(*chartPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "write chart: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Benchmark complete: %s, %s\n", *csvPath, *chartPath)
}

func runSuite(c candidate, keys []int32) ([]result, error) {
	start := time.Now()
	for _, k := range keys {
		if err := c.Insert(k); err != nil {
			return nil, fmt.Errorf("insert %d: %w", k, err)
		}
	}
	insertNs := time.Since(start).Nanoseconds() / int64(len(keys))

	start = time.Now()
	for _, k := range keys {
		if err := c.Lookup(k); err != nil {
			return nil, fmt.Errorf("lookup %d: %w", k, err)
		}
	}
	lookupNs := time.Since(start).Nanoseconds() / int64(len(keys))

	return []result{
		{structure: c.Name(), operation: "insert", latencyNs: insertNs},
		{structure: c.Name(), operation: "lookup", latencyNs: lookupNs},
	}, nil
}

func writeCSV(path string, n int, results []result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Structure", "Operation", "N", "LatencyNs"}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{r.structure, r.operation, strconv.Itoa(n), strconv.FormatInt(r.latencyNs, 10)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
