// Package storage persists the metadata catalog and table data.
//
// JSONStore keeps one pretty-printed JSON file per table next to a metadata
// file. SQLStore keeps the same JSON documents as rows in SQLite or
// PostgreSQL. Every backend returns an empty catalog or an empty table when
// nothing has been saved yet.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/primitivedb/pkg/core"
)

// Store is the persistence interface the engine writes through.
type Store interface {
	// LoadMetadata returns the catalog, or an empty one if none was saved.
	LoadMetadata(ctx context.Context) (*core.Metadata, error)
	// SaveMetadata overwrites the catalog.
	SaveMetadata(ctx context.Context, md *core.Metadata) error
	// LoadTable returns a table's records, or an empty slice if none were saved.
	LoadTable(ctx context.Context, table string) ([]core.Record, error)
	// SaveTable overwrites a table's records.
	SaveTable(ctx context.Context, table string, records []core.Record) error
	// DeleteTable removes a table's records. Missing data is not an error.
	DeleteTable(ctx context.Context, table string) error
	// Close releases any resources held by the store.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendJSON     = "json"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Options configures Open.
type Options struct {
	// Backend is "json" (default), "sqlite" or "postgres".
	Backend string
	// MetadataPath is the catalog file for the json backend.
	MetadataPath string
	// DataDir holds one <table>.json file per table for the json backend.
	DataDir string
	// SQLitePath is the database file for the sqlite backend (":memory:" allowed).
	SQLitePath string
	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Open creates the store selected by opts.Backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendJSON:
		return NewJSONStore(opts.MetadataPath, opts.DataDir, opts.Logger)
	case BackendSQLite:
		return OpenSQLiteStore(opts.SQLitePath, opts.Logger)
	case BackendPostgres:
		return OpenPostgresStore(opts.PostgresDSN, opts.Logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// encodeDocument renders v as 4-space indented JSON without HTML escaping.
func encodeDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeMetadata(data []byte) (*core.Metadata, error) {
	md := core.NewMetadata()
	if len(bytes.TrimSpace(data)) == 0 {
		return md, nil
	}
	if err := json.Unmarshal(data, md); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return md, nil
}

func decodeRecords(table string, data []byte) ([]core.Record, error) {
	records := []core.Record{}
	if len(bytes.TrimSpace(data)) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode table %q: %w", table, err)
	}
	if records == nil {
		records = []core.Record{}
	}
	return records, nil
}

func encodeRecords(records []core.Record) ([]byte, error) {
	if records == nil {
		records = []core.Record{}
	}
	return encodeDocument(records)
}
