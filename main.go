// LeafDB interactive driver: a small REPL over one index file and the heap
// file its locators point into. Commands: insert, find, delete, scan, stats,
// help, exit.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"LeafDB/bufferpool"
	"LeafDB/config"
	"LeafDB/flatindex"
	heapfile "LeafDB/heapfile_manager"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := zap.NewNop()
	if cfg.Log.Debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatalf("build logger: %v", err)
		}
	}
	defer logger.Sync()

	if err := os.MkdirAll(cfg.Storage.Path, 0755); err != nil {
		log.Fatalf("mkdir %s: %v", cfg.Storage.Path, err)
	}
	indexPath := filepath.Join(cfg.Storage.Path, "main.idx")
	heapPath := filepath.Join(cfg.Storage.Path, "main.heap")

	if _, err := os.Stat(indexPath); os.IsNotExist(err) {
		if err := flatindex.CreateIndex(indexPath, flatindex.TypeInt, cfg.Storage.NodeCapacity); err != nil {
			log.Fatalf("create index: %v", err)
		}
	}
	ix, err := flatindex.OpenIndex(indexPath, flatindex.Options{
		PoolPages: cfg.Storage.PoolPages,
		Policy:    bufferpool.ReplacementPolicy(cfg.Storage.Policy),
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("open index: %v", err)
	}
	defer ix.Close()

	heap, err := heapfile.Open(heapPath)
	if err != nil {
		log.Fatalf("open heap file: %v", err)
	}
	defer heap.Close()

	fmt.Println("LeafDB. Type 'help' for commands.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("leafdb> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "insert":
			if len(fields) < 3 {
				fmt.Println("usage: insert <key> <text>")
				continue
			}
			key, err := parseKey(fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			row := strings.Join(fields[2:], " ")
			ptr, err := heap.Append([]byte(row))
			if err != nil {
				fmt.Printf("append row: %v\n", err)
				continue
			}
			loc := flatindex.RowLocator{Page: ptr.Page, Slot: ptr.Slot}
			if err := ix.Insert(key, loc); err != nil {
				fmt.Printf("insert key: %v\n", err)
				continue
			}
			fmt.Printf("stored %d -> (page=%d slot=%d)\n", key, loc.Page, loc.Slot)

		case "find":
			if len(fields) != 2 {
				fmt.Println("usage: find <key>")
				continue
			}
			key, err := parseKey(fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			loc, err := ix.Find(key)
			if errors.Is(err, flatindex.ErrKeyNotFound) {
				fmt.Printf("key %d not found\n", key)
				continue
			}
			if err != nil {
				fmt.Printf("find: %v\n", err)
				continue
			}
			row, err := heap.Get(heapfile.RowPointer{Page: loc.Page, Slot: loc.Slot})
			if err != nil {
				fmt.Printf("fetch row: %v\n", err)
				continue
			}
			fmt.Printf("%d -> (page=%d slot=%d) %q\n", key, loc.Page, loc.Slot, row)

		case "delete":
			if len(fields) != 2 {
				fmt.Println("usage: delete <key>")
				continue
			}
			key, err := parseKey(fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			loc, err := ix.Find(key)
			if errors.Is(err, flatindex.ErrKeyNotFound) {
				fmt.Printf("key %d not found\n", key)
				continue
			}
			if err != nil {
				fmt.Printf("find: %v\n", err)
				continue
			}
			if err := ix.Delete(key); err != nil {
				fmt.Printf("delete key: %v\n", err)
				continue
			}
			if err := heap.Delete(heapfile.RowPointer{Page: loc.Page, Slot: loc.Slot}); err != nil {
				fmt.Printf("delete row: %v\n", err)
				continue
			}
			fmt.Printf("deleted %d\n", key)

		case "scan":
			scan, err := ix.OpenScan()
			if err != nil {
				fmt.Printf("open scan: %v\n", err)
				continue
			}
			count := 0
			for {
				key, ok := scan.Key()
				if !ok {
					break
				}
				loc, err := scan.Next()
				if err != nil {
					fmt.Printf("scan: %v\n", err)
					break
				}
				row, err := heap.Get(heapfile.RowPointer{Page: loc.Page, Slot: loc.Slot})
				if err != nil {
					fmt.Printf("%d -> (page=%d slot=%d) <row unreadable: %v>\n", key, loc.Page, loc.Slot, err)
				} else {
					fmt.Printf("%d -> (page=%d slot=%d) %q\n", key, loc.Page, loc.Slot, row)
				}
				count++
			}
			scan.Close()
			fmt.Printf("%d entries\n", count)

		case "stats":
			fmt.Printf("index: %s\n", ix.Name())
			fmt.Printf("  key type: %s, node capacity: %d\n", ix.KeyType(), ix.Capacity())
			fmt.Printf("  entries: %d, pages incl. header: %d\n", ix.EntryCount(), ix.NodeCount())
			ps := ix.PoolStats()
			fmt.Printf("  pool: %d/%d resident, %d pinned, %d dirty, %d hits, %d misses\n",
				ps.ResidentPages, ps.Capacity, ps.PinnedPages, ps.DirtyPages, ps.Hits, ps.Misses)

		case "help":
			fmt.Println("commands:")
			fmt.Println("  insert <key> <text>   store a row and index it under key")
			fmt.Println("  find <key>            look up a key and print its row")
			fmt.Println("  delete <key>          remove a key and its row")
			fmt.Println("  scan                  print all entries in ascending key order")
			fmt.Println("  stats                 index and buffer pool counters")
			fmt.Println("  exit                  quit")

		case "exit", "quit":
			return

		default:
			fmt.Printf("unknown command %q (try 'help')\n", fields[0])
		}
	}
}

func parseKey(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad key %q: must be a 32-bit integer", s)
	}
	return int32(v), nil
}
