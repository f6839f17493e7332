package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadDefaults tests the built-in defaults when no file exists
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("Expected an error for a named file that does not exist")
	}
	if cfg.Storage.PoolPages != 10 || cfg.Storage.Policy != "fifo" || cfg.Storage.NodeCapacity != 2 {
		t.Errorf("Expected defaults in returned config, got %+v", cfg.Storage)
	}
}

// TestLoadOverridesAndNormalizes tests YAML overlay plus out-of-range cleanup
func TestLoadOverridesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leafdb.yaml")
	body := `
storage:
  path: /tmp/leafdb_test
  pool_pages: 32
  policy: sieve
  node_capacity: -4
log:
  debug: true
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Storage.Path != "/tmp/leafdb_test" {
		t.Errorf("Expected path override, got %q", cfg.Storage.Path)
	}
	if cfg.Storage.PoolPages != 32 {
		t.Errorf("Expected pool_pages 32, got %d", cfg.Storage.PoolPages)
	}
	if cfg.Storage.Policy != "fifo" {
		t.Errorf("Expected unknown policy normalized to fifo, got %q", cfg.Storage.Policy)
	}
	if cfg.Storage.NodeCapacity != 2 {
		t.Errorf("Expected negative node_capacity normalized to 2, got %d", cfg.Storage.NodeCapacity)
	}
	if !cfg.Log.Debug {
		t.Error("Expected debug logging enabled")
	}
}
