package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/primitivedb/internal/storage"
	"github.com/leapstack-labs/primitivedb/internal/testutil"
	"github.com/leapstack-labs/primitivedb/pkg/core"
)

// countingStore wraps a Store and counts writes, optionally failing them.
type countingStore struct {
	storage.Store
	tableSaves    int
	metadataSaves int
	deletes       int
	failSave      error
}

func (s *countingStore) SaveTable(ctx context.Context, table string, records []core.Record) error {
	s.tableSaves++
	if s.failSave != nil {
		return s.failSave
	}
	return s.Store.SaveTable(ctx, table, records)
}

func (s *countingStore) SaveMetadata(ctx context.Context, md *core.Metadata) error {
	s.metadataSaves++
	if s.failSave != nil {
		return s.failSave
	}
	return s.Store.SaveMetadata(ctx, md)
}

func (s *countingStore) DeleteTable(ctx context.Context, table string) error {
	s.deletes++
	return s.Store.DeleteTable(ctx, table)
}

func setupTestEngine(t *testing.T) (*Engine, *countingStore) {
	t.Helper()
	dir := t.TempDir()
	inner, err := storage.NewJSONStore(filepath.Join(dir, "db_meta.json"), filepath.Join(dir, "data"), nil)
	require.NoError(t, err)

	store := &countingStore{Store: inner}
	e, err := New(context.Background(), Config{Store: store, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e, store
}

func setupUsers(t *testing.T, e *Engine) {
	t.Helper()
	_, err := e.CreateTable(context.Background(), "users", []string{"name:str", "age:int", "active:bool"})
	require.NoError(t, err)
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.ErrorContains(t, err, "store is required")
}

func TestEngine_UsersScenario(t *testing.T) {
	ctx := context.Background()
	e, _ := setupTestEngine(t)
	setupUsers(t, e)

	id, err := e.Insert(ctx, "users", []core.Value{core.Str("Ann"), core.Str("30"), core.Str("yes")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, rows, err := e.Select(ctx, "users", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, core.Int(30).Equal(rows[0]["age"]))
	assert.True(t, core.Bool(true).Equal(rows[0]["active"]))

	n, err := e.Update(ctx, "users", core.Assignments{{Column: "age", Value: core.Int(31)}}, core.Predicate{"ID": core.Int(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, rows, err = e.Select(ctx, "users", core.Predicate{"ID": core.Int(1)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, core.Int(31).Equal(rows[0]["age"]))
	assert.Equal(t, int64(1), rows[0].ID())

	n, err = e.Delete(ctx, "users", core.Predicate{"active": core.Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	info, err := e.Info(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, 1, info.RecordCount)
	assert.Equal(t, []string{"ID", "name", "age", "active"}, info.Columns.Names())
}

func TestEngine_WritesOnlyOnChange(t *testing.T) {
	ctx := context.Background()
	e, store := setupTestEngine(t)
	setupUsers(t, e)

	_, err := e.Insert(ctx, "users", []core.Value{core.Str("Ann"), core.Int(30), core.Bool(true)})
	require.NoError(t, err)
	require.Equal(t, 1, store.tableSaves)

	_, err = e.Update(ctx, "users", core.Assignments{{Column: "age", Value: core.Int(1)}}, core.Predicate{"ID": core.Int(99)})
	require.NoError(t, err)
	_, err = e.Delete(ctx, "users", core.Predicate{"ID": core.Int(99)})
	require.NoError(t, err)
	assert.Equal(t, 1, store.tableSaves, "no-op update/delete must not write")

	_, err = e.Delete(ctx, "users", core.Predicate{"ID": core.Int(1)})
	require.NoError(t, err)
	assert.Equal(t, 2, store.tableSaves)
}

func TestEngine_FailedInsertDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	e, store := setupTestEngine(t)
	setupUsers(t, e)

	_, err := e.Insert(ctx, "users", []core.Value{core.Str("Ann"), core.Str("old"), core.Bool(true)})
	var mismatch *core.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)

	_, err = e.Insert(ctx, "users", []core.Value{core.Str("Ann")})
	var arity *core.ArityError
	require.ErrorAs(t, err, &arity)

	assert.Equal(t, 0, store.tableSaves)
}

func TestEngine_UnknownTable(t *testing.T) {
	ctx := context.Background()
	e, _ := setupTestEngine(t)

	var unknown *core.UnknownTableError
	_, err := e.Insert(ctx, "ghost", nil)
	assert.ErrorAs(t, err, &unknown)
	_, _, err = e.Select(ctx, "ghost", nil)
	assert.ErrorAs(t, err, &unknown)
	_, err = e.Update(ctx, "ghost", nil, nil)
	assert.ErrorAs(t, err, &unknown)
	_, err = e.Delete(ctx, "ghost", nil)
	assert.ErrorAs(t, err, &unknown)
	assert.ErrorAs(t, e.DropTable(ctx, "ghost"), &unknown)
	_, err = e.Info(ctx, "ghost")
	assert.ErrorAs(t, err, &unknown)
}

func TestEngine_DropRemovesData(t *testing.T) {
	ctx := context.Background()
	e, store := setupTestEngine(t)
	setupUsers(t, e)

	_, err := e.Insert(ctx, "users", []core.Value{core.Str("Ann"), core.Int(30), core.Bool(true)})
	require.NoError(t, err)

	require.NoError(t, e.DropTable(ctx, "users"))
	assert.Equal(t, 1, store.deletes)
	assert.Empty(t, e.ListTables())

	// recreating the table starts from a clean slate
	setupUsers(t, e)
	id, err := e.Insert(ctx, "users", []core.Value{core.Str("Bo"), core.Int(20), core.Bool(false)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestEngine_MetadataPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	open := func() *Engine {
		s, err := storage.NewJSONStore(filepath.Join(dir, "db_meta.json"), filepath.Join(dir, "data"), nil)
		require.NoError(t, err)
		e, err := New(ctx, Config{Store: s})
		require.NoError(t, err)
		return e
	}

	e := open()
	setupUsers(t, e)
	_, err := e.CreateTable(ctx, "orders", []string{"total:int"})
	require.NoError(t, err)
	_, err = e.Insert(ctx, "users", []core.Value{core.Str("Ann"), core.Int(30), core.Bool(true)})
	require.NoError(t, err)
	require.NoError(t, e.Close())

	e = open()
	assert.Equal(t, []string{"users", "orders"}, e.ListTables())
	_, rows, err := e.Select(ctx, "users", core.Predicate{"name": core.Str("Ann")})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestEngine_StoreFailureKeepsCatalog(t *testing.T) {
	ctx := context.Background()
	e, store := setupTestEngine(t)
	store.failSave = errors.New("read-only file system")

	_, err := e.CreateTable(ctx, "users", []string{"name:str"})
	require.ErrorContains(t, err, "read-only file system")
	assert.Empty(t, e.ListTables())
	assert.False(t, IsUserError(err))
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(&core.FormatError{Message: "x"}))
	assert.True(t, IsUserError(&core.UnknownTableError{Table: "t"}))
	assert.False(t, IsUserError(errors.New("disk full")))
}

// failingLoadStore fails LoadTable for one table.
type failingLoadStore struct {
	storage.Store
	table string
}

func (s *failingLoadStore) LoadTable(ctx context.Context, table string) ([]core.Record, error) {
	if table == s.table {
		return nil, errors.New("permission denied")
	}
	return s.Store.LoadTable(ctx, table)
}

func TestEngine_InfoAll(t *testing.T) {
	ctx := context.Background()
	e, _ := setupTestEngine(t)

	infos, err := e.InfoAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	setupUsers(t, e)
	_, err = e.CreateTable(ctx, "accounts", []string{"owner:str"})
	require.NoError(t, err)
	_, err = e.CreateTable(ctx, "audit", nil)
	require.NoError(t, err)
	_, err = e.Insert(ctx, "users", []core.Value{core.Str("Ann"), core.Int(30), core.Bool(true)})
	require.NoError(t, err)
	_, err = e.Insert(ctx, "users", []core.Value{core.Str("Bob"), core.Int(25), core.Bool(false)})
	require.NoError(t, err)

	infos, err = e.InfoAll(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 3)

	assert.Equal(t, "users", infos[0].Name)
	assert.Equal(t, 2, infos[0].RecordCount)
	assert.Equal(t, "accounts", infos[1].Name)
	assert.Equal(t, 0, infos[1].RecordCount)
	assert.Equal(t, "audit", infos[2].Name)
	assert.Equal(t, []string{"ID:int"}, infos[2].Columns.Strings())
}

func TestEngine_InfoAllPropagatesLoadFailure(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	inner, err := storage.NewJSONStore(filepath.Join(dir, "db_meta.json"), filepath.Join(dir, "data"), nil)
	require.NoError(t, err)

	e, err := New(ctx, Config{Store: &failingLoadStore{Store: inner, table: "accounts"}})
	require.NoError(t, err)
	setupUsers(t, e)
	_, err = e.CreateTable(ctx, "accounts", []string{"owner:str"})
	require.NoError(t, err)

	_, err = e.InfoAll(ctx)
	require.ErrorContains(t, err, "permission denied")
}
