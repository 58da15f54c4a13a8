package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/primitivedb/pkg/core"
)

// Default locations for the json backend.
const (
	DefaultMetadataPath = "db_meta.json"
	DefaultDataDir      = "data"
)

// JSONStore keeps the catalog in one file and each table in <dataDir>/<table>.json.
type JSONStore struct {
	metadataPath string
	dataDir      string
	logger       *slog.Logger
}

// NewJSONStore creates a file-backed store. Nothing is created on disk until
// the first save.
func NewJSONStore(metadataPath, dataDir string, logger *slog.Logger) (*JSONStore, error) {
	if metadataPath == "" {
		metadataPath = DefaultMetadataPath
	}
	if dataDir == "" {
		dataDir = DefaultDataDir
	}
	return &JSONStore{
		metadataPath: filepath.Clean(metadataPath),
		dataDir:      filepath.Clean(dataDir),
		logger:       loggerOrDiscard(logger),
	}, nil
}

// MetadataPath returns the catalog file path.
func (s *JSONStore) MetadataPath() string { return s.metadataPath }

// DataDir returns the table data directory.
func (s *JSONStore) DataDir() string { return s.dataDir }

// tablePath resolves a table's data file, refusing names that escape the data dir.
func (s *JSONStore) tablePath(table string) (string, error) {
	if table == "" {
		return "", fmt.Errorf("table name is required")
	}
	full := filepath.Join(s.dataDir, table+".json")
	if filepath.Dir(full) != s.dataDir || strings.ContainsAny(table, `/\`) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	return full, nil
}

// LoadMetadata implements Store.
func (s *JSONStore) LoadMetadata(_ context.Context) (*core.Metadata, error) {
	data, err := os.ReadFile(s.metadataPath)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("metadata file not found, starting empty", "path", s.metadataPath)
		return core.NewMetadata(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	return decodeMetadata(data)
}

// SaveMetadata implements Store.
func (s *JSONStore) SaveMetadata(_ context.Context, md *core.Metadata) error {
	if md == nil {
		md = core.NewMetadata()
	}
	data, err := encodeDocument(md)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := writeFile(s.metadataPath, data); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	s.logger.Debug("saved metadata", "path", s.metadataPath, "tables", md.Len())
	return nil
}

// LoadTable implements Store.
func (s *JSONStore) LoadTable(_ context.Context, table string) ([]core.Record, error) {
	path, err := s.tablePath(table)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q: %w", table, err)
	}
	return decodeRecords(table, data)
}

// SaveTable implements Store.
func (s *JSONStore) SaveTable(_ context.Context, table string, records []core.Record) error {
	path, err := s.tablePath(table)
	if err != nil {
		return err
	}
	data, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("failed to encode table %q: %w", table, err)
	}
	if err := writeFile(path, data); err != nil {
		return fmt.Errorf("failed to write table %q: %w", table, err)
	}
	s.logger.Debug("saved table", "table", table, "path", path, "records", len(records))
	return nil
}

// DeleteTable implements Store.
func (s *JSONStore) DeleteTable(_ context.Context, table string) error {
	path, err := s.tablePath(table)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete table %q: %w", table, err)
	}
	s.logger.Debug("deleted table data", "table", table, "path", path)
	return nil
}

// Close implements Store.
func (s *JSONStore) Close() error { return nil }

// writeFile replaces path via a temp file in the same directory so readers
// never see a half-written document.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
