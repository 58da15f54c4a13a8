package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/primitivedb/internal/storage"
)

// ValidBackends lists the accepted storage backends.
var ValidBackends = []string{storage.BackendJSON, storage.BackendSQLite, storage.BackendPostgres}

// ValidOutputFormats lists the accepted output modes.
var ValidOutputFormats = []string{"auto", "text", "markdown", "json", "csv"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(ValidBackends, c.Backend) {
		return fmt.Errorf("unknown backend %q (valid: %s)", c.Backend, strings.Join(ValidBackends, ", "))
	}
	if !slices.Contains(ValidOutputFormats, c.OutputFormat) {
		return fmt.Errorf("unknown output format %q (valid: %s)", c.OutputFormat, strings.Join(ValidOutputFormats, ", "))
	}

	switch c.Backend {
	case storage.BackendJSON:
		if c.MetadataPath == "" {
			return fmt.Errorf("metadata_path is required for the json backend")
		}
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for the json backend")
		}
	case storage.BackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite backend")
		}
	case storage.BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("postgres_dsn is required for the postgres backend")
		}
	}
	return nil
}
