package config

import "fmt"

// StorageConfig selects the history backend.
type StorageConfig struct {
	// Backend selects the store type: "csv" or "memory".
	Backend string `json:"backend"`
	// Path is the history file location for file-backed stores.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *StorageConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "csv"
	}
	if c.Path == "" {
		c.Path = "hist_traffic.csv"
	}
}

// Validate checks mandatory fields.
func (c StorageConfig) Validate() error {
	if c.Backend != "csv" && c.Backend != "memory" {
		return fmt.Errorf("unknown storage backend %s", c.Backend)
	}
	if c.Backend == "csv" && c.Path == "" {
		return fmt.Errorf("storage path is required")
	}
	return nil
}
