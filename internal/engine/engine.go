// Package engine provides the database facade.
// It resolves tables through the catalog, applies record operations and
// writes changes back through the store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/primitivedb/internal/catalog"
	"github.com/leapstack-labs/primitivedb/internal/records"
	"github.com/leapstack-labs/primitivedb/internal/storage"
	"github.com/leapstack-labs/primitivedb/pkg/core"
)

// Engine executes operations against one database. It is not safe for
// concurrent use; the store assumes a single writer.
type Engine struct {
	store    storage.Store
	metadata *core.Metadata

	// Structured logger
	logger *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Store is the persistence backend (required)
	Store storage.Store
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// TableInfo summarises a table.
type TableInfo struct {
	Name        string           `json:"name"`
	Columns     core.TableSchema `json:"columns"`
	RecordCount int              `json:"record_count"`
}

// New creates an engine and loads the catalog from the store.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("engine: store is required")
	}

	// Initialize logger (use discard handler if nil)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	md, err := cfg.Store.LoadMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}
	logger.Debug("engine initialized", "tables", md.Len())

	return &Engine{
		store:    cfg.Store,
		metadata: md,
		logger:   logger,
	}, nil
}

// Close releases the store.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")
	return e.store.Close()
}

// Metadata returns a copy of the current catalog.
func (e *Engine) Metadata() *core.Metadata {
	return e.metadata.Clone()
}

// ListTables returns the table names in creation order.
func (e *Engine) ListTables() []string {
	return catalog.ListTables(e.metadata)
}

// Columns returns the ordered schema of a table.
func (e *Engine) Columns(table string) (core.TableSchema, error) {
	return catalog.GetColumns(e.metadata, table)
}

// Schema returns a column name -> type mapping for a table.
func (e *Engine) Schema(table string) (map[string]core.ColumnType, error) {
	return catalog.GetSchema(e.metadata, table)
}

// CreateTable adds a table and persists the catalog.
func (e *Engine) CreateTable(ctx context.Context, table string, specs []string) (core.TableSchema, error) {
	md, err := catalog.CreateTable(e.metadata, table, specs)
	if err != nil {
		return nil, err
	}
	if err := e.store.SaveMetadata(ctx, md); err != nil {
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}
	e.metadata = md

	schema, _ := md.Get(table)
	e.logger.Info("table created", "table", table, "columns", schema.Strings())
	return schema, nil
}

// DropTable removes a table's data and then its catalog entry, so no data
// is left without a schema.
func (e *Engine) DropTable(ctx context.Context, table string) error {
	md, err := catalog.DropTable(e.metadata, table)
	if err != nil {
		return err
	}
	if err := e.store.DeleteTable(ctx, table); err != nil {
		return fmt.Errorf("failed to delete table data: %w", err)
	}
	if err := e.store.SaveMetadata(ctx, md); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}
	e.metadata = md

	e.logger.Info("table dropped", "table", table)
	return nil
}

// Info returns the columns and record count of a table.
func (e *Engine) Info(ctx context.Context, table string) (*TableInfo, error) {
	schema, data, err := e.load(ctx, table)
	if err != nil {
		return nil, err
	}
	return &TableInfo{Name: table, Columns: schema, RecordCount: len(data)}, nil
}

// infoConcurrency bounds the table loads InfoAll runs at once.
const infoConcurrency = 4

// InfoAll returns the info of every table in creation order. Tables are
// loaded concurrently; the first failure cancels the rest.
func (e *Engine) InfoAll(ctx context.Context) ([]*TableInfo, error) {
	names := e.ListTables()
	infos := make([]*TableInfo, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(infoConcurrency)
	for i, name := range names {
		g.Go(func() error {
			info, err := e.Info(gctx, name)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Insert validates and appends one record, returning its ID.
func (e *Engine) Insert(ctx context.Context, table string, values []core.Value) (int64, error) {
	schema, data, err := e.load(ctx, table)
	if err != nil {
		return 0, err
	}

	data, id, err := records.Insert(schema, data, values)
	if err != nil {
		return 0, err
	}
	if err := e.save(ctx, table, data); err != nil {
		return 0, err
	}

	e.logger.Info("record inserted", "table", table, "id", id)
	return id, nil
}

// Select returns the table's records matching where (all records if nil).
func (e *Engine) Select(ctx context.Context, table string, where core.Predicate) (core.TableSchema, []core.Record, error) {
	schema, data, err := e.load(ctx, table)
	if err != nil {
		return nil, nil, err
	}
	matched := records.Select(data, where)
	e.logger.Debug("select", "table", table, "where", where, "matched", len(matched))
	return schema, matched, nil
}

// Update applies set to records matching where. The table is only written
// when at least one record matched.
func (e *Engine) Update(ctx context.Context, table string, set core.Assignments, where core.Predicate) (int, error) {
	_, data, err := e.load(ctx, table)
	if err != nil {
		return 0, err
	}

	data, n := records.Update(data, set, where)
	if n > 0 {
		if err := e.save(ctx, table, data); err != nil {
			return 0, err
		}
	}

	e.logger.Info("records updated", "table", table, "count", n)
	return n, nil
}

// Delete removes records matching where. The table is only written when
// something was removed.
func (e *Engine) Delete(ctx context.Context, table string, where core.Predicate) (int, error) {
	_, data, err := e.load(ctx, table)
	if err != nil {
		return 0, err
	}

	data, n := records.Delete(data, where)
	if n > 0 {
		if err := e.save(ctx, table, data); err != nil {
			return 0, err
		}
	}

	e.logger.Info("records deleted", "table", table, "count", n)
	return n, nil
}

// load resolves a table's schema and reads its records.
func (e *Engine) load(ctx context.Context, table string) (core.TableSchema, []core.Record, error) {
	schema, err := catalog.GetColumns(e.metadata, table)
	if err != nil {
		return nil, nil, err
	}
	data, err := e.store.LoadTable(ctx, table)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load table data: %w", err)
	}
	return schema, data, nil
}

func (e *Engine) save(ctx context.Context, table string, data []core.Record) error {
	if err := e.store.SaveTable(ctx, table, data); err != nil {
		return fmt.Errorf("failed to save table data: %w", err)
	}
	return nil
}

// IsUserError reports whether err is one of the command-level errors
// (bad input rather than a storage failure).
func IsUserError(err error) bool {
	var (
		dup      *core.DuplicateTableError
		unknown  *core.UnknownTableError
		colFmt   *core.InvalidColumnFormatError
		typ      *core.UnsupportedTypeError
		arity    *core.ArityError
		mismatch *core.TypeMismatchError
		format   *core.FormatError
	)
	return errors.As(err, &dup) || errors.As(err, &unknown) || errors.As(err, &colFmt) ||
		errors.As(err, &typ) || errors.As(err, &arity) || errors.As(err, &mismatch) ||
		errors.As(err, &format)
}
