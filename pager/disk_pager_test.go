package pager

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// TestDiskPagerBasicOperations tests create, write, read, sync, and reopen
func TestDiskPagerBasicOperations(t *testing.T) {
	testDir := filepath.Join(os.TempDir(), "leafdb_pager_test")
	os.MkdirAll(testDir, 0755)
	defer os.RemoveAll(testDir)

	indexPath := filepath.Join(testDir, "test_index.idx")
	defer os.Remove(indexPath)

	// Test 1: Create the page file with its header page
	if err := CreateFile(indexPath); err != nil {
		t.Fatalf("Failed to create page file: %v", err)
	}

	pgr, err := Open(indexPath)
	if err != nil {
		t.Fatalf("Failed to open pager: %v", err)
	}
	defer pgr.Close()

	if got := pgr.TotalPages(); got != 1 {
		t.Errorf("Expected 1 page after create, got %d", got)
	}

	// Test 2: Grow the file and write a page
	if err := pgr.EnsureCapacity(3); err != nil {
		t.Fatalf("Failed to ensure capacity: %v", err)
	}
	if got := pgr.TotalPages(); got != 3 {
		t.Errorf("Expected 3 pages after ensure capacity, got %d", got)
	}

	testData := make([]byte, PageSize)
	copy(testData, []byte("Hello, Disk Pager!"))
	if err := pgr.WritePage(2, testData); err != nil {
		t.Fatalf("Failed to write page: %v", err)
	}

	// Test 3: Read the page back
	readData, err := pgr.ReadPage(2)
	if err != nil {
		t.Fatalf("Failed to read page: %v", err)
	}
	if !bytes.Equal(testData, readData) {
		t.Errorf("Data mismatch: expected %q, got %q", string(testData[:20]), string(readData[:20]))
	}

	// Test 4: A page grown but never written reads back zeroed
	emptyData, err := pgr.ReadPage(1)
	if err != nil {
		t.Fatalf("Failed to read empty page: %v", err)
	}
	if !bytes.Equal(emptyData, make([]byte, PageSize)) {
		t.Error("Expected unwritten page to read back zeroed")
	}

	// Test 5: Sync and reopen to check persistence
	if err := pgr.Sync(); err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}
	pgr.Close()

	reopened, err := Open(indexPath)
	if err != nil {
		t.Fatalf("Failed to reopen pager: %v", err)
	}
	defer reopened.Close()

	if got := reopened.TotalPages(); got != 3 {
		t.Errorf("Expected 3 pages after reopen, got %d", got)
	}
	persistedData, err := reopened.ReadPage(2)
	if err != nil {
		t.Fatalf("Failed to read persisted page: %v", err)
	}
	if !bytes.Equal(testData, persistedData) {
		t.Errorf("Data not persisted correctly: expected %q, got %q", string(testData[:20]), string(persistedData[:20]))
	}
}

// TestDiskPagerCreateSemantics tests that create and open stay distinct
func TestDiskPagerCreateSemantics(t *testing.T) {
	testDir := filepath.Join(os.TempDir(), "leafdb_pager_test")
	os.MkdirAll(testDir, 0755)
	defer os.RemoveAll(testDir)

	indexPath := filepath.Join(testDir, "test_create.idx")
	defer os.Remove(indexPath)

	// Opening a file that was never created must fail
	if _, err := Open(indexPath); err == nil {
		t.Error("Expected error when opening a missing page file")
	}

	if err := CreateFile(indexPath); err != nil {
		t.Fatalf("Failed to create page file: %v", err)
	}

	// Creating over an existing file must fail rather than truncate it
	if err := CreateFile(indexPath); err == nil {
		t.Error("Expected error when creating an existing page file")
	}

	// Remove then verify the file is gone
	if err := Remove(indexPath); err != nil {
		t.Fatalf("Failed to remove page file: %v", err)
	}
	if _, err := os.Stat(indexPath); !os.IsNotExist(err) {
		t.Error("Expected page file to be gone after remove")
	}
}

// TestDiskPagerPageSizeEnforcement tests that the pager enforces PageSize
func TestDiskPagerPageSizeEnforcement(t *testing.T) {
	testDir := filepath.Join(os.TempDir(), "leafdb_pager_test")
	os.MkdirAll(testDir, 0755)
	defer os.RemoveAll(testDir)

	indexPath := filepath.Join(testDir, "test_size.idx")
	defer os.Remove(indexPath)

	if err := CreateFile(indexPath); err != nil {
		t.Fatalf("Failed to create page file: %v", err)
	}
	pgr, err := Open(indexPath)
	if err != nil {
		t.Fatalf("Failed to open pager: %v", err)
	}
	defer pgr.Close()

	// Test: Writing data that's too small should fail
	smallData := make([]byte, PageSize-1)
	if err := pgr.WritePage(1, smallData); err == nil {
		t.Error("Expected error when writing data smaller than PageSize")
	}

	// Test: Writing data that's too large should fail
	largeData := make([]byte, PageSize+1)
	if err := pgr.WritePage(1, largeData); err == nil {
		t.Error("Expected error when writing data larger than PageSize")
	}

	// Test: Writing exactly PageSize should succeed and extend the file
	correctData := make([]byte, PageSize)
	copy(correctData, []byte("Correct size data"))
	if err := pgr.WritePage(1, correctData); err != nil {
		t.Errorf("Writing correct size data should succeed, got: %v", err)
	}
	if got := pgr.TotalPages(); got != 2 {
		t.Errorf("Expected 2 pages after writing page 1, got %d", got)
	}
}

// TestDiskPagerClosedOperations tests behavior after Close
func TestDiskPagerClosedOperations(t *testing.T) {
	testDir := filepath.Join(os.TempDir(), "leafdb_pager_test")
	os.MkdirAll(testDir, 0755)
	defer os.RemoveAll(testDir)

	indexPath := filepath.Join(testDir, "test_closed.idx")
	defer os.Remove(indexPath)

	if err := CreateFile(indexPath); err != nil {
		t.Fatalf("Failed to create page file: %v", err)
	}
	pgr, err := Open(indexPath)
	if err != nil {
		t.Fatalf("Failed to open pager: %v", err)
	}

	if err := pgr.Close(); err != nil {
		t.Fatalf("Failed to close pager: %v", err)
	}
	// Closing twice is fine
	if err := pgr.Close(); err != nil {
		t.Errorf("Second close should be a no-op, got: %v", err)
	}

	if _, err := pgr.ReadPage(0); err == nil {
		t.Error("Expected error reading from a closed pager")
	}
	if err := pgr.WritePage(0, make([]byte, PageSize)); err == nil {
		t.Error("Expected error writing to a closed pager")
	}
	if err := pgr.Sync(); err == nil {
		t.Error("Expected error syncing a closed pager")
	}
}
