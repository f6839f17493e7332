// Package config loads runtime settings for the LeafDB drivers from a YAML
// file, falling back to built-in defaults when no file is present.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	Path         string `yaml:"path"`          // directory holding index and heap files
	PoolPages    int    `yaml:"pool_pages"`    // buffer pool capacity in pages
	Policy       string `yaml:"policy"`        // frame replacement: fifo or lru
	NodeCapacity int    `yaml:"node_capacity"` // per-node key limit written at create time
}

type LogConfig struct {
	Debug bool `yaml:"debug"` // development logger with debug output
}

// Load reads configuration from configPath, or from the default search list
// (configs/leafdb.yaml, then leafdb.yaml) when configPath is empty. Missing
// files are not an error; the defaults apply.
func Load(configPath string) (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Path:         "leafdb_data",
			PoolPages:    10,
			Policy:       "fifo",
			NodeCapacity: 2,
		},
	}

	if configPath == "" {
		for _, p := range []string{"configs/leafdb.yaml", "leafdb.yaml"} {
			data, err := os.ReadFile(p)
			if err == nil {
				if err := yaml.Unmarshal(data, cfg); err != nil {
					return cfg, err
				}
				applyStorageDefaults(cfg)
				return cfg, nil
			}
		}
		applyStorageDefaults(cfg)
		return cfg, nil // no file found: use defaults
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return cfg, err
	}

	applyStorageDefaults(cfg)
	return cfg, nil
}

func applyStorageDefaults(cfg *Config) {
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "leafdb_data"
	}
	if cfg.Storage.PoolPages <= 0 {
		cfg.Storage.PoolPages = 10
	}
	if cfg.Storage.Policy != "fifo" && cfg.Storage.Policy != "lru" {
		cfg.Storage.Policy = "fifo"
	}
	if cfg.Storage.NodeCapacity <= 0 {
		cfg.Storage.NodeCapacity = 2
	}
}
