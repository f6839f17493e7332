package main

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/google/btree"
	_ "modernc.org/sqlite"

	"LeafDB/flatindex"
)

// candidate is the shape every benchmarked structure is wrapped into: insert
// a key, look it up, shut down.
type candidate interface {
	Name() string
	Insert(key int32) error
	Lookup(key int32) error
	Close() error
}

// ─── flatindex ────────────────────────────────────────────────────────────────

type flatCandidate struct {
	ix *flatindex.FlatIndex
}

func newFlatCandidate(dir string) (*flatCandidate, error) {
	path := filepath.Join(dir, "bench.idx")
	if err := flatindex.CreateIndex(path, flatindex.TypeInt, 2); err != nil {
		return nil, err
	}
	ix, err := flatindex.OpenIndex(path, flatindex.Options{PoolPages: 64})
	if err != nil {
		return nil, err
	}
	return &flatCandidate{ix: ix}, nil
}

func (c *flatCandidate) Name() string { return "flatindex" }

func (c *flatCandidate) Insert(key int32) error {
	return c.ix.Insert(key, flatindex.RowLocator{Page: key, Slot: 0})
}

func (c *flatCandidate) Lookup(key int32) error {
	_, err := c.ix.Find(key)
	return err
}

func (c *flatCandidate) Close() error { return c.ix.Close() }

// ─── google/btree (in-memory baseline) ────────────────────────────────────────

type kv struct {
	key int32
	loc flatindex.RowLocator
}

type btreeCandidate struct {
	tree *btree.BTreeG[kv]
}

func newBTreeCandidate() *btreeCandidate {
	return &btreeCandidate{
		tree: btree.NewG(32, func(a, b kv) bool { return a.key < b.key }),
	}
}

func (c *btreeCandidate) Name() string { return "btree" }

func (c *btreeCandidate) Insert(key int32) error {
	c.tree.ReplaceOrInsert(kv{key: key, loc: flatindex.RowLocator{Page: key, Slot: 0}})
	return nil
}

func (c *btreeCandidate) Lookup(key int32) error {
	if _, ok := c.tree.Get(kv{key: key}); !ok {
		return fmt.Errorf("btree: key %d not found", key)
	}
	return nil
}

func (c *btreeCandidate) Close() error { return nil }

// ─── pebble (LSM baseline) ────────────────────────────────────────────────────

type pebbleCandidate struct {
	db *pebble.DB
}

func newPebbleCandidate(dir string) (*pebbleCandidate, error) {
	opts := &pebble.Options{
		MemTableSize:          16 << 20,
		L0CompactionThreshold: 4,
	}
	db, err := pebble.Open(filepath.Join(dir, "pebble"), opts)
	if err != nil {
		return nil, fmt.Errorf("pebble: open: %w", err)
	}
	return &pebbleCandidate{db: db}, nil
}

func (c *pebbleCandidate) Name() string { return "pebble" }

// encodeKey is big-endian so byte order matches key order, which the LSM's
// sorted runs rely on.
func encodeKey(k int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(k))
	return b
}

func (c *pebbleCandidate) Insert(key int32) error {
	return c.db.Set(encodeKey(key), encodeKey(key), pebble.NoSync)
}

func (c *pebbleCandidate) Lookup(key int32) error {
	_, closer, err := c.db.Get(encodeKey(key))
	if err != nil {
		return fmt.Errorf("pebble: get: %w", err)
	}
	return closer.Close()
}

func (c *pebbleCandidate) Close() error { return c.db.Close() }

// ─── sqlite (B-tree-on-disk baseline) ─────────────────────────────────────────

type sqliteCandidate struct {
	db     *sql.DB
	insert *sql.Stmt
	lookup *sql.Stmt
}

func newSQLiteCandidate(dir string) (*sqliteCandidate, error) {
	db, err := sql.Open("sqlite", filepath.Join(dir, "bench.sqlite"))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS data (
		key INTEGER PRIMARY KEY,
		value BLOB
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: init table: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA synchronous = NORMAL;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: set pragma: %w", err)
	}

	insert, err := db.Prepare("INSERT OR REPLACE INTO data (key, value) VALUES (?, ?)")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	lookup, err := db.Prepare("SELECT value FROM data WHERE key = ?")
	if err != nil {
		insert.Close()
		db.Close()
		return nil, fmt.Errorf("sqlite: prepare lookup: %w", err)
	}
	return &sqliteCandidate{db: db, insert: insert, lookup: lookup}, nil
}

func (c *sqliteCandidate) Name() string { return "sqlite" }

func (c *sqliteCandidate) Insert(key int32) error {
	_, err := c.insert.Exec(int64(key), encodeKey(key))
	return err
}

func (c *sqliteCandidate) Lookup(key int32) error {
	var value []byte
	return c.lookup.QueryRow(int64(key)).Scan(&value)
}

func (c *sqliteCandidate) Close() error {
	c.insert.Close()
	c.lookup.Close()
	return c.db.Close()
}
