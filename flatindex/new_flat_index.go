package flatindex

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"LeafDB/bufferpool"
	"LeafDB/pager"
)

// Options tune how an index handle is opened. The zero value gives a 10 page
// pool with FIFO replacement and no logging.
type Options struct {
	PoolPages int
	Policy    bufferpool.ReplacementPolicy
	Logger    *zap.Logger
}

const defaultPoolPages = 10

// CreateIndex allocates the backing page file for a new index and records
// the node key capacity in header page 0. The key type is checked before
// anything touches the filesystem, so a rejected create leaves no file
// behind. The index starts empty; open it with OpenIndex to use it.
func CreateIndex(name string, keyType DataType, capacity int) error {
	if keyType != TypeInt {
		return fmt.Errorf("%w: got %s", ErrUnsupportedKeyType, keyType)
	}

	if err := pager.CreateFile(name); err != nil {
		return err
	}
	store, err := pager.Open(name)
	if err != nil {
		return err
	}
	defer store.Close()

	page := make([]byte, pager.PageSize)
	writeHeader(page, int32(capacity))
	if err := store.WritePage(HeaderPage, page); err != nil {
		return fmt.Errorf("failed to write index header: %w", err)
	}
	return nil
}

// OpenIndex opens an existing index file and builds its control block. The
// tail page and entry count always start at zero: that bookkeeping belongs
// to the handle, not the file, and a fresh handle starts from a blank slate.
func OpenIndex(name string, opts Options) (*FlatIndex, error) {
	store, err := pager.Open(name)
	if err != nil {
		return nil, err
	}

	poolPages := opts.PoolPages
	if poolPages <= 0 {
		poolPages = defaultPoolPages
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	pool, err := bufferpool.New(store, poolPages, opts.Policy, log)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("%w: %v", ErrAllocation, err)
	}

	ix := &FlatIndex{
		name:    name,
		keyType: TypeInt,
		pool:    pool,
		store:   store,
		log:     log,
	}

	// The capacity lives on the header page; read it through the pool so
	// the page sits hot for the first inserts.
	header, err := pool.FetchPage(HeaderPage)
	if err != nil {
		pool.Shutdown()
		store.Close()
		return nil, fmt.Errorf("failed to read index header: %w", err)
	}
	ix.capacity = readHeader(header.Data)
	if err := pool.UnpinPage(HeaderPage, false); err != nil {
		pool.Shutdown()
		store.Close()
		return nil, err
	}

	log.Debug("index opened",
		zap.String("name", name),
		zap.Int32("capacity", ix.capacity),
		zap.Int("pool_pages", poolPages))
	return ix, nil
}

// Close flushes everything the pool still holds and releases the handle.
// The handle must not be used afterwards; closing twice is a no-op.
func (ix *FlatIndex) Close() error {
	if ix.closed {
		return nil
	}
	ix.closed = true
	ix.tailPage = 0
	ix.entries = 0

	if err := ix.pool.Shutdown(); err != nil {
		ix.store.Close()
		return err
	}
	return ix.store.Close()
}

// DropIndex removes the backing file of an index that is not open.
func DropIndex(name string) error {
	if err := pager.Remove(name); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, name)
		}
		return err
	}
	return nil
}
