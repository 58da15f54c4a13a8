// Package catalog manages table schemas: creating, dropping and resolving
// tables in the metadata catalog. Every operation is a pure transform; the
// caller decides when to persist.
package catalog

import (
	"strings"

	"github.com/leapstack-labs/primitivedb/pkg/core"
)

// CreateTable returns a copy of md with a new table whose schema is ID:int
// followed by specs in order. Each spec must be "name:type".
func CreateTable(md *core.Metadata, name string, specs []string) (*core.Metadata, error) {
	if md.Has(name) {
		return nil, &core.DuplicateTableError{Table: name}
	}

	schema := make(core.TableSchema, 0, len(specs)+1)
	schema = append(schema, core.ColumnDefinition{Name: core.IDColumn, Type: core.TypeInt})
	for _, spec := range specs {
		col, err := parseColumnSpec(spec)
		if err != nil {
			return nil, err
		}
		schema = append(schema, col)
	}

	out := md.Clone()
	out.Set(name, schema)
	return out, nil
}

// parseColumnSpec validates a user-supplied "name:type" spec.
func parseColumnSpec(spec string) (core.ColumnDefinition, error) {
	if strings.Count(spec, ":") != 1 {
		return core.ColumnDefinition{}, &core.InvalidColumnFormatError{Spec: spec}
	}
	return core.ParseColumnDefinition(spec)
}

// DropTable returns a copy of md without the named table.
func DropTable(md *core.Metadata, name string) (*core.Metadata, error) {
	if !md.Has(name) {
		return nil, &core.UnknownTableError{Table: name}
	}
	out := md.Clone()
	out.Delete(name)
	return out, nil
}

// ListTables returns every table name in creation order.
func ListTables(md *core.Metadata) []string {
	if md == nil {
		return nil
	}
	return md.Names()
}

// GetColumns returns the ordered schema of a table.
func GetColumns(md *core.Metadata, name string) (core.TableSchema, error) {
	schema, ok := md.Get(name)
	if !ok {
		return nil, &core.UnknownTableError{Table: name}
	}
	return schema, nil
}

// GetSchema returns a column name -> type mapping for a table.
func GetSchema(md *core.Metadata, name string) (map[string]core.ColumnType, error) {
	schema, err := GetColumns(md, name)
	if err != nil {
		return nil, err
	}
	return schema.Types(), nil
}
