package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/primitivedb/pkg/core"
)

var usersSchema = core.TableSchema{
	{Name: "ID", Type: core.TypeInt},
	{Name: "name", Type: core.TypeStr},
	{Name: "age", Type: core.TypeInt},
	{Name: "active", Type: core.TypeBool},
}

func insertAll(t *testing.T, rows ...[]core.Value) []core.Record {
	t.Helper()
	var data []core.Record
	for _, values := range rows {
		var err error
		data, _, err = Insert(usersSchema, data, values)
		require.NoError(t, err)
	}
	return data
}

func assertValue(t *testing.T, want, got core.Value) {
	t.Helper()
	assert.True(t, want.Equal(got), "got %#v, want %#v", got, want)
}

func TestInsert_CoercesAndAssignsID(t *testing.T) {
	data, id, err := Insert(usersSchema, nil, []core.Value{core.Str("Ann"), core.Str("30"), core.Str("yes")})
	require.NoError(t, err)

	assert.Equal(t, int64(1), id)
	require.Len(t, data, 1)
	rec := data[0]
	assertValue(t, core.Int(1), rec["ID"])
	assertValue(t, core.Str("Ann"), rec["name"])
	assertValue(t, core.Int(30), rec["age"])
	assertValue(t, core.Bool(true), rec["active"])
}

func TestInsert_SequentialIDsNotReused(t *testing.T) {
	row := []core.Value{core.Str("x"), core.Int(1), core.Bool(true)}
	data := insertAll(t, row, row, row)
	for i, r := range data {
		assert.Equal(t, int64(i+1), r.ID())
	}

	data, deleted := Delete(data, core.Predicate{"ID": core.Int(2)})
	require.Equal(t, 1, deleted)

	data, id, err := Insert(usersSchema, data, row)
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
	assert.Len(t, data, 3)
}

func TestInsert_Arity(t *testing.T) {
	_, _, err := Insert(usersSchema, nil, []core.Value{core.Str("Ann")})
	var e *core.ArityError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 3, e.Expected)
	assert.Equal(t, 1, e.Got)
}

func TestInsert_RejectsSchemaWithoutID(t *testing.T) {
	tests := []struct {
		name   string
		schema core.TableSchema
	}{
		{"empty", nil},
		{"missing ID", core.TableSchema{{Name: "name", Type: core.TypeStr}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, id, err := Insert(tt.schema, nil, nil)
			require.ErrorContains(t, err, "schema must start with the ID column")
			assert.Nil(t, out)
			assert.Zero(t, id)
		})
	}
}

func TestInsert_TypeMismatchLeavesDataUntouched(t *testing.T) {
	existing := insertAll(t, []core.Value{core.Str("Ann"), core.Int(30), core.Bool(true)})

	out, _, err := Insert(usersSchema, existing, []core.Value{core.Str("Bo"), core.Int(20), core.Str("maybe")})
	var e *core.TypeMismatchError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "active", e.Column)
	assert.Nil(t, out)
	assert.Len(t, existing, 1)
}

func TestCoerce(t *testing.T) {
	intCol := core.ColumnDefinition{Name: "n", Type: core.TypeInt}
	boolCol := core.ColumnDefinition{Name: "b", Type: core.TypeBool}
	strCol := core.ColumnDefinition{Name: "s", Type: core.TypeStr}

	tests := []struct {
		name    string
		col     core.ColumnDefinition
		in      core.Value
		want    core.Value
		wantErr bool
	}{
		{"int passthrough", intCol, core.Int(7), core.Int(7), false},
		{"int from string", intCol, core.Str(" 42 "), core.Int(42), false},
		{"int from integral float", intCol, core.Float(3), core.Int(3), false},
		{"int from fractional float truncates", intCol, core.Float(3.7), core.Int(3), false},
		{"int from negative fractional float truncates", intCol, core.Float(-3.7), core.Int(-3), false},
		{"int from out-of-range float", intCol, core.Float(1e19), core.Value{}, true},
		{"int from word", intCol, core.Str("abc"), core.Value{}, true},
		{"int from bool", intCol, core.Bool(true), core.Value{}, true},
		{"bool passthrough", boolCol, core.Bool(false), core.Bool(false), false},
		{"bool from yes", boolCol, core.Str("YES"), core.Bool(true), false},
		{"bool from 1 string", boolCol, core.Str("1"), core.Bool(true), false},
		{"bool from no", boolCol, core.Str("no"), core.Bool(false), false},
		{"bool from 0 string", boolCol, core.Str("0"), core.Bool(false), false},
		{"bool from other string", boolCol, core.Str("maybe"), core.Value{}, true},
		{"bool from int", boolCol, core.Int(1), core.Value{}, true},
		{"str passthrough", strCol, core.Str("hi"), core.Str("hi"), false},
		{"str from int", strCol, core.Int(5), core.Str("5"), false},
		{"str from bool", strCol, core.Bool(true), core.Str("true"), false},
		{"str from float", strCol, core.Float(2.5), core.Str("2.5"), false},
		{"str from integral float keeps decimal point", strCol, core.Float(3), core.Str("3.0"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.col, tt.in)
			if tt.wantErr {
				var e *core.TypeMismatchError
				require.ErrorAs(t, err, &e)
				assert.Equal(t, tt.col.Type, e.Expected)
				return
			}
			require.NoError(t, err)
			assertValue(t, tt.want, got)
		})
	}
}

func TestMatches_StrictTypes(t *testing.T) {
	rec := core.Record{"ID": core.Int(1), "code": core.Int(5)}

	assert.True(t, Matches(rec, core.Predicate{"code": core.Int(5)}))
	assert.False(t, Matches(rec, core.Predicate{"code": core.Str("5")}))
	assert.False(t, Matches(rec, core.Predicate{"code": core.Float(5)}))
	assert.False(t, Matches(rec, core.Predicate{"missing": core.Int(5)}))
	assert.True(t, Matches(rec, core.Predicate{}))
	assert.True(t, Matches(rec, nil))
}

func TestSelect(t *testing.T) {
	data := insertAll(t,
		[]core.Value{core.Str("Ann"), core.Int(30), core.Bool(true)},
		[]core.Value{core.Str("Bo"), core.Int(25), core.Bool(false)},
		[]core.Value{core.Str("Cy"), core.Int(30), core.Bool(true)},
	)

	assert.Equal(t, data, Select(data, nil))
	assert.Len(t, Select(data, core.Predicate{}), 3)
	assert.Empty(t, Select(data, core.Predicate{"nope": core.Int(1)}))

	got := Select(data, core.Predicate{"age": core.Int(30)})
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID())
	assert.Equal(t, int64(3), got[1].ID())
}

func TestUpdate(t *testing.T) {
	data := insertAll(t,
		[]core.Value{core.Str("Ann"), core.Int(30), core.Bool(true)},
		[]core.Value{core.Str("Bo"), core.Int(25), core.Bool(false)},
	)

	data, n := Update(data, core.Assignments{{Column: "age", Value: core.Int(31)}}, core.Predicate{"ID": core.Int(1)})
	assert.Equal(t, 1, n)
	assertValue(t, core.Int(31), data[0]["age"])
	assertValue(t, core.Int(1), data[0]["ID"])
	assertValue(t, core.Int(25), data[1]["age"])
}

func TestUpdate_NeverChangesIDOrAddsColumns(t *testing.T) {
	data := insertAll(t, []core.Value{core.Str("Ann"), core.Int(30), core.Bool(true)})

	set := core.Assignments{
		{Column: "ID", Value: core.Int(999)},
		{Column: "email", Value: core.Str("a@b.c")},
	}
	data, n := Update(data, set, core.Predicate{"ID": core.Int(1)})
	assert.Equal(t, 1, n)
	assert.Equal(t, int64(1), data[0].ID())
	_, has := data[0]["email"]
	assert.False(t, has)
}

func TestUpdate_NoMatch(t *testing.T) {
	data := insertAll(t, []core.Value{core.Str("Ann"), core.Int(30), core.Bool(true)})
	_, n := Update(data, core.Assignments{{Column: "age", Value: core.Int(1)}}, core.Predicate{"ID": core.Int(42)})
	assert.Equal(t, 0, n)
}

func TestDelete(t *testing.T) {
	data := insertAll(t,
		[]core.Value{core.Str("Ann"), core.Int(30), core.Bool(true)},
		[]core.Value{core.Str("Bo"), core.Int(25), core.Bool(true)},
	)

	kept, n := Delete(data, core.Predicate{"active": core.Bool(false)})
	assert.Equal(t, 0, n)
	assert.Equal(t, data, kept)

	kept, n = Delete(data, core.Predicate{"name": core.Str("Ann")})
	assert.Equal(t, 1, n)
	require.Len(t, kept, 1)
	assert.Equal(t, int64(2), kept[0].ID())
}
