package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/primitivedb/pkg/core"
	"github.com/leapstack-labs/primitivedb/pkg/parser"
)

// ResultKind says which fields of a Result are populated.
type ResultKind int

// Result kinds.
const (
	// ResultMessage carries only Message.
	ResultMessage ResultKind = iota
	// ResultRecords carries Columns and Records.
	ResultRecords
	// ResultTables carries Tables.
	ResultTables
	// ResultInfo carries Info.
	ResultInfo
)

// Result is the outcome of executing a statement.
type Result struct {
	Kind    ResultKind
	Verb    string
	Table   string
	Message string

	Columns core.TableSchema
	Records []core.Record
	Tables  []string
	Info    *TableInfo

	// ID is the assigned ID for inserts.
	ID int64
	// Count is the number of records affected by update or delete.
	Count int
}

// ExecuteString parses and executes a single command.
func (e *Engine) ExecuteString(ctx context.Context, input string) (*Result, error) {
	stmt, err := parser.ParseStatement(input)
	if err != nil {
		return nil, err
	}
	return e.Execute(ctx, stmt)
}

// Execute runs a parsed statement.
func (e *Engine) Execute(ctx context.Context, stmt parser.Statement) (*Result, error) {
	res := &Result{Verb: stmt.Verb(), Table: stmt.TableName()}
	e.logger.Debug("executing statement", "verb", res.Verb, "table", res.Table)

	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		schema, err := e.CreateTable(ctx, s.Table, s.Columns)
		if err != nil {
			return nil, err
		}
		res.Columns = schema
		res.Message = fmt.Sprintf("Table %q created with columns: %s.", s.Table, strings.Join(schema.Strings(), ", "))

	case *parser.DropTableStmt:
		if err := e.DropTable(ctx, s.Table); err != nil {
			return nil, err
		}
		res.Message = fmt.Sprintf("Table %q dropped.", s.Table)

	case *parser.ListTablesStmt:
		res.Kind = ResultTables
		res.Tables = e.ListTables()
		if len(res.Tables) == 0 {
			res.Message = "No tables."
		}

	case *parser.InfoStmt:
		info, err := e.Info(ctx, s.Table)
		if err != nil {
			return nil, err
		}
		res.Kind = ResultInfo
		res.Info = info
		res.Columns = info.Columns

	case *parser.InsertStmt:
		id, err := e.Insert(ctx, s.Table, s.Values)
		if err != nil {
			return nil, err
		}
		res.ID = id
		res.Message = fmt.Sprintf("Record with ID=%d inserted into %q.", id, s.Table)

	case *parser.SelectStmt:
		schema, rows, err := e.Select(ctx, s.Table, s.Where)
		if err != nil {
			return nil, err
		}
		res.Kind = ResultRecords
		res.Columns = schema
		res.Records = rows
		res.Count = len(rows)

	case *parser.UpdateStmt:
		n, err := e.Update(ctx, s.Table, s.Set, s.Where)
		if err != nil {
			return nil, err
		}
		res.Count = n
		res.Message = fmt.Sprintf("%d record(s) updated in %q.", n, s.Table)

	case *parser.DeleteStmt:
		n, err := e.Delete(ctx, s.Table, s.Where)
		if err != nil {
			return nil, err
		}
		res.Count = n
		res.Message = fmt.Sprintf("%d record(s) deleted from %q.", n, s.Table)

	default:
		return nil, fmt.Errorf("unsupported statement %T", stmt)
	}

	return res, nil
}
