package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/leapstack-labs/primitivedb/pkg/core"

	// database/sql drivers for the sqlite and postgres backends.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// DefaultSQLitePath is the database file used by the sqlite backend.
const DefaultSQLitePath = ".primitivedb/db.sqlite"

// sqlDialect holds what differs between the SQL backends.
type sqlDialect struct {
	name       string // goose dialect
	driver     string // database/sql driver
	migrations string // directory in the embedded migrations FS
	numbered   bool   // $1 placeholders instead of ?
}

var (
	sqliteDialect   = sqlDialect{name: "sqlite", driver: "sqlite", migrations: "migrations/sqlite"}
	postgresDialect = sqlDialect{name: "postgres", driver: "pgx", migrations: "migrations/postgres", numbered: true}
)

// rebind rewrites ? placeholders for dialects with numbered parameters.
func (d sqlDialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore keeps the catalog and each table as JSON documents in a SQL
// database: one row in db_metadata and one row per table in table_data.
type SQLStore struct {
	db      *sql.DB
	dialect sqlDialect
	logger  *slog.Logger
}

// NewSQLiteStore creates an unopened store for the sqlite backend.
func NewSQLiteStore(logger *slog.Logger) *SQLStore {
	return &SQLStore{dialect: sqliteDialect, logger: loggerOrDiscard(logger)}
}

// NewPostgresStore creates an unopened store for the postgres backend.
func NewPostgresStore(logger *slog.Logger) *SQLStore {
	return &SQLStore{dialect: postgresDialect, logger: loggerOrDiscard(logger)}
}

// OpenSQLiteStore opens path and brings the schema up to date.
func OpenSQLiteStore(path string, logger *slog.Logger) (*SQLStore, error) {
	return openAndMigrate(NewSQLiteStore(logger), path)
}

// OpenPostgresStore connects to dsn and brings the schema up to date.
func OpenPostgresStore(dsn string, logger *slog.Logger) (*SQLStore, error) {
	return openAndMigrate(NewPostgresStore(logger), dsn)
}

func openAndMigrate(s *SQLStore, target string) (*SQLStore, error) {
	if err := s.Open(target); err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Open connects to the database. For sqlite, target is a file path or
// ":memory:"; for postgres it is a connection string.
func (s *SQLStore) Open(target string) error {
	dsn, err := s.dsn(target)
	if err != nil {
		return err
	}

	db, err := sql.Open(s.dialect.driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", s.dialect.name, err)
	}
	if s.dialect == sqliteDialect {
		// a single connection keeps ":memory:" databases shared and matches
		// the single-writer model
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s database: %w", s.dialect.name, err)
	}

	s.db = db
	s.logger.Debug("opened sql store", "dialect", s.dialect.name)
	return nil
}

func (s *SQLStore) dsn(target string) (string, error) {
	if s.dialect != sqliteDialect {
		if target == "" {
			return "", fmt.Errorf("%s connection string is required", s.dialect.name)
		}
		return target, nil
	}

	if target == "" {
		target = DefaultSQLitePath
	}
	if target == ":memory:" {
		return target, nil
	}
	if dir := filepath.Dir(target); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return target + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLStore) ready() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	return nil
}

// LoadMetadata implements Store.
func (s *SQLStore) LoadMetadata(ctx context.Context) (*core.Metadata, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM db_metadata WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return core.NewMetadata(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}
	return decodeMetadata([]byte(body))
}

// SaveMetadata implements Store.
func (s *SQLStore) SaveMetadata(ctx context.Context, md *core.Metadata) error {
	if err := s.ready(); err != nil {
		return err
	}
	if md == nil {
		md = core.NewMetadata()
	}

	data, err := encodeDocument(md)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.dialect.rebind(`
		INSERT INTO db_metadata (id, body, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`), string(data))
	if err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	s.logger.Debug("saved metadata", "tables", md.Len())
	return nil
}

// LoadTable implements Store.
func (s *SQLStore) LoadTable(ctx context.Context, table string) ([]core.Record, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	var body string
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT body FROM table_data WHERE name = ?`), table).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load table %q: %w", table, err)
	}
	return decodeRecords(table, []byte(body))
}

// SaveTable implements Store.
func (s *SQLStore) SaveTable(ctx context.Context, table string, records []core.Record) error {
	if err := s.ready(); err != nil {
		return err
	}

	data, err := encodeRecords(records)
	if err != nil {
		return fmt.Errorf("failed to encode table %q: %w", table, err)
	}

	_, err = s.db.ExecContext(ctx, s.dialect.rebind(`
		INSERT INTO table_data (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`), table, string(data))
	if err != nil {
		return fmt.Errorf("failed to save table %q: %w", table, err)
	}
	s.logger.Debug("saved table", "table", table, "records", len(records))
	return nil
}

// DeleteTable implements Store.
func (s *SQLStore) DeleteTable(ctx context.Context, table string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM table_data WHERE name = ?`), table); err != nil {
		return fmt.Errorf("failed to delete table %q: %w", table, err)
	}
	s.logger.Debug("deleted table data", "table", table)
	return nil
}
