// Package config provides configuration management for the primitivedb CLI.
//
// Values are layered with koanf: defaults, then primitivedb.yaml, then
// PRIMITIVEDB_* environment variables, then explicitly set flags.
package config

import (
	"github.com/leapstack-labs/primitivedb/internal/storage"
)

// Config holds all CLI configuration options.
type Config struct {
	Backend      string `koanf:"backend"`
	MetadataPath string `koanf:"metadata_path"`
	DataDir      string `koanf:"data_dir"`
	SQLitePath   string `koanf:"sqlite_path"`
	PostgresDSN  string `koanf:"postgres_dsn"`
	HistoryFile  string `koanf:"history_file"`
	OutputFormat string `koanf:"output"`
	Verbose      bool   `koanf:"verbose"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// StorageOptions converts the config into storage options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:      c.Backend,
		MetadataPath: c.MetadataPath,
		DataDir:      c.DataDir,
		SQLitePath:   c.SQLitePath,
		PostgresDSN:  c.PostgresDSN,
	}
}

// Default configuration values.
const (
	DefaultBackend      = storage.BackendJSON
	DefaultMetadataPath = storage.DefaultMetadataPath
	DefaultDataDir      = storage.DefaultDataDir
	DefaultSQLitePath   = storage.DefaultSQLitePath
	DefaultHistoryFile  = ".primitivedb/history"
	ExamplePostgresDSN  = "postgres://localhost:5432/primitivedb?sslmode=disable"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// ConfigFileNames are searched, in order, when --config is not given.
var ConfigFileNames = []string{"primitivedb.yaml", "primitivedb.yml"}

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "PRIMITIVEDB_"

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Backend:      DefaultBackend,
		MetadataPath: DefaultMetadataPath,
		DataDir:      DefaultDataDir,
		SQLitePath:   DefaultSQLitePath,
		HistoryFile:  DefaultHistoryFile,
		OutputFormat: DefaultOutput,
	}
}
