package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/leapstack-labs/primitivedb/internal/engine"
	"github.com/leapstack-labs/primitivedb/pkg/core"
)

// EmptyMessage is printed instead of an empty table.
const EmptyMessage = "No data to display."

// orderedRow encodes a record as a JSON object in column order.
type orderedRow struct {
	columns []string
	record  core.Record
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range o.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		v, ok := o.record[col]
		if !ok || !v.IsValid() {
			buf.WriteString("null")
			continue
		}
		val, err := v.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RenderRecords lays records out under the schema's column headers.
func (r *Renderer) RenderRecords(schema core.TableSchema, records []core.Record) error {
	columns := schema.Names()
	mode := r.EffectiveMode()

	if mode == ModeJSON {
		rows := make([]orderedRow, len(records))
		for i, rec := range records {
			rows[i] = orderedRow{columns: columns, record: rec}
		}
		return r.writeJSON(rows)
	}

	if len(records) == 0 && mode != ModeCSV {
		r.Println(EmptyMessage)
		return nil
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		row := make([]string, len(columns))
		for j, col := range columns {
			row[j] = rec[col].String()
		}
		rows[i] = row
	}
	return r.renderGrid(columns, rows, mode)
}

// RenderTables prints table names.
func (r *Renderer) RenderTables(names []string) error {
	mode := r.EffectiveMode()
	switch mode {
	case ModeJSON:
		if names == nil {
			names = []string{}
		}
		return r.writeJSON(names)
	case ModeText:
		if len(names) == 0 {
			r.Muted("No tables.")
			return nil
		}
		for _, name := range names {
			r.Println("- " + name)
		}
		return nil
	}

	if len(names) == 0 && mode != ModeCSV {
		r.Println("No tables.")
		return nil
	}
	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name}
	}
	return r.renderGrid([]string{"table"}, rows, mode)
}

// RenderTableInfo prints a table's name, columns and record count.
func (r *Renderer) RenderTableInfo(info *engine.TableInfo) error {
	switch r.EffectiveMode() {
	case ModeJSON:
		return r.writeJSON(info)
	case ModeCSV:
		rows := make([][]string, len(info.Columns))
		for i, col := range info.Columns {
			rows[i] = []string{col.Name, string(col.Type)}
		}
		return r.renderGrid([]string{"column", "type"}, rows, ModeCSV)
	case ModeMarkdown:
		r.Println(FormatHeader(2, info.Name))
		r.Println()
		r.Println(FormatKeyValue("Columns", strings.Join(info.Columns.Strings(), ", ")))
		r.Println(FormatKeyValue("Records", fmt.Sprintf("%d", info.RecordCount)))
		return nil
	default:
		r.Printf("%s %s\n", r.styles.Bold.Render("Table:"), info.Name)
		r.Printf("%s %s\n", r.styles.Bold.Render("Columns:"), strings.Join(info.Columns.Strings(), ", "))
		r.Printf("%s %d\n", r.styles.Bold.Render("Records:"), info.RecordCount)
		return nil
	}
}

// RenderTableSummaries prints one row per table with its columns and
// record count.
func (r *Renderer) RenderTableSummaries(infos []*engine.TableInfo) error {
	mode := r.EffectiveMode()
	if mode == ModeJSON {
		if infos == nil {
			infos = []*engine.TableInfo{}
		}
		return r.writeJSON(infos)
	}

	if len(infos) == 0 && mode != ModeCSV {
		if mode == ModeText {
			r.Muted("No tables.")
		} else {
			r.Println("No tables.")
		}
		return nil
	}
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{info.Name, strings.Join(info.Columns.Strings(), ", "), strconv.Itoa(info.RecordCount)}
	}
	return r.renderGrid([]string{"table", "columns", "records"}, rows, mode)
}

// renderGrid writes a header and string rows. CSV goes through
// encoding/csv so fields are quoted per RFC 4180; go-pretty's CSV writer
// backslash-escapes commas instead.
func (r *Renderer) renderGrid(columns []string, rows [][]string, mode Mode) error {
	if mode == ModeCSV {
		w := csv.NewWriter(r.out)
		if err := w.Write(columns); err != nil {
			return err
		}
		if err := w.WriteAll(rows); err != nil {
			return err
		}
		return w.Error()
	}

	t := r.newTable(columns)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}
	if mode == ModeMarkdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	return nil
}

func (r *Renderer) newTable(columns []string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	if r.styled() {
		t.Style().Color.Header = text.Colors{text.Bold}
	}

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	t.AppendHeader(header)
	return t
}

func (r *Renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
