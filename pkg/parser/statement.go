package parser

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/primitivedb/pkg/core"
)

// Statement is a parsed command.
type Statement interface {
	// Verb returns the command keyword, e.g. "INSERT".
	Verb() string
	// TableName returns the target table, or "" for LIST TABLES.
	TableName() string
}

// CreateTableStmt is CREATE TABLE <name> (<col:type>, ...).
type CreateTableStmt struct {
	Table   string
	Columns []string
}

// DropTableStmt is DROP TABLE <name>.
type DropTableStmt struct {
	Table string
}

// ListTablesStmt is LIST TABLES.
type ListTablesStmt struct{}

// InfoStmt is INFO <name>.
type InfoStmt struct {
	Table string
}

// InsertStmt is INSERT INTO <name> VALUES (...).
type InsertStmt struct {
	Table  string
	Values []core.Value
}

// SelectStmt is SELECT FROM <name> [WHERE col = val].
type SelectStmt struct {
	Table string
	Where core.Predicate
}

// UpdateStmt is UPDATE <name> SET ... WHERE col = val.
type UpdateStmt struct {
	Table string
	Set   core.Assignments
	Where core.Predicate
}

// DeleteStmt is DELETE FROM <name> WHERE col = val.
type DeleteStmt struct {
	Table string
	Where core.Predicate
}

func (*CreateTableStmt) Verb() string { return "CREATE TABLE" }
func (*DropTableStmt) Verb() string   { return "DROP TABLE" }
func (*ListTablesStmt) Verb() string  { return "LIST TABLES" }
func (*InfoStmt) Verb() string        { return "INFO" }
func (*InsertStmt) Verb() string      { return "INSERT" }
func (*SelectStmt) Verb() string      { return "SELECT" }
func (*UpdateStmt) Verb() string      { return "UPDATE" }
func (*DeleteStmt) Verb() string      { return "DELETE" }

func (s *CreateTableStmt) TableName() string { return s.Table }
func (s *DropTableStmt) TableName() string   { return s.Table }
func (*ListTablesStmt) TableName() string    { return "" }
func (s *InfoStmt) TableName() string        { return s.Table }
func (s *InsertStmt) TableName() string      { return s.Table }
func (s *SelectStmt) TableName() string      { return s.Table }
func (s *UpdateStmt) TableName() string      { return s.Table }
func (s *DeleteStmt) TableName() string      { return s.Table }

// Usage strings, shown in format errors and shell help.
const (
	UsageCreate = "CREATE TABLE <name> (<column:type>, ...)"
	UsageDrop   = "DROP TABLE <name>"
	UsageList   = "LIST TABLES"
	UsageInfo   = "INFO <name>"
	UsageInsert = "INSERT INTO <name> VALUES (<value>, ...)"
	UsageSelect = "SELECT FROM <name> [WHERE <column> = <value>]"
	UsageUpdate = "UPDATE <name> SET <column> = <value>, ... WHERE <column> = <value>"
	UsageDelete = "DELETE FROM <name> WHERE <column> = <value>"
)

// Usages lists every command form in display order.
var Usages = []string{
	UsageCreate, UsageDrop, UsageList, UsageInfo,
	UsageInsert, UsageSelect, UsageUpdate, UsageDelete,
}

// Keywords are the leading words the parser dispatches on.
var Keywords = []string{"CREATE", "DROP", "LIST", "INFO", "INSERT", "SELECT", "UPDATE", "DELETE"}

var (
	createRe = regexp.MustCompile(`(?is)^CREATE\s+TABLE\s+(\w+)\s*(.*)$`)
	dropRe   = regexp.MustCompile(`(?i)^DROP\s+TABLE\s+(\w+)$`)
	listRe   = regexp.MustCompile(`(?i)^LIST\s+TABLES$`)
	infoRe   = regexp.MustCompile(`(?i)^INFO\s+(\w+)$`)
	insertRe = regexp.MustCompile(`(?is)^INSERT\s+INTO\s+(\w+)\s+VALUES\s*(.*)$`)
	selectRe = regexp.MustCompile(`(?is)^SELECT\s+(?:\*\s+)?FROM\s+(\w+)(?:\s+WHERE\s+(.+))?$`)
	updateRe = regexp.MustCompile(`(?is)^UPDATE\s+(\w+)\s+SET\s+(.+)$`)
	deleteRe = regexp.MustCompile(`(?is)^DELETE\s+FROM\s+(\w+)\s+WHERE\s+(.+)$`)
)

// ParseStatement parses a single command. Keywords are case-insensitive and
// a trailing semicolon is ignored.
func ParseStatement(input string) (Statement, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))
	if s == "" {
		return nil, &core.FormatError{Message: "empty command"}
	}

	keyword := strings.ToUpper(strings.Fields(s)[0])
	switch keyword {
	case "CREATE":
		return parseCreate(s)
	case "DROP":
		m := dropRe.FindStringSubmatch(s)
		if m == nil {
			return nil, syntaxError(UsageDrop)
		}
		return &DropTableStmt{Table: m[1]}, nil
	case "LIST":
		if !listRe.MatchString(s) {
			return nil, syntaxError(UsageList)
		}
		return &ListTablesStmt{}, nil
	case "INFO":
		m := infoRe.FindStringSubmatch(s)
		if m == nil {
			return nil, syntaxError(UsageInfo)
		}
		return &InfoStmt{Table: m[1]}, nil
	case "INSERT":
		return parseInsert(s)
	case "SELECT":
		return parseSelect(s)
	case "UPDATE":
		return parseUpdate(s)
	case "DELETE":
		return parseDelete(s)
	default:
		return nil, core.NewFormatError("unknown command %q", keyword)
	}
}

func syntaxError(usage string) *core.FormatError {
	return &core.FormatError{Message: "syntax error", Hint: usage}
}

func parseCreate(s string) (Statement, error) {
	m := createRe.FindStringSubmatch(s)
	if m == nil {
		return nil, syntaxError(UsageCreate)
	}

	body := strings.TrimSpace(m[2])
	if strings.HasPrefix(body, "(") {
		if !strings.HasSuffix(body, ")") {
			return nil, syntaxError(UsageCreate)
		}
		body = body[1 : len(body)-1]
	}

	columns := strings.FieldsFunc(body, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return &CreateTableStmt{Table: m[1], Columns: columns}, nil
}

func parseInsert(s string) (Statement, error) {
	m := insertRe.FindStringSubmatch(s)
	if m == nil {
		return nil, syntaxError(UsageInsert)
	}
	values, err := ParseValues(m[2])
	if err != nil {
		return nil, err
	}
	return &InsertStmt{Table: m[1], Values: values}, nil
}

func parseSelect(s string) (Statement, error) {
	m := selectRe.FindStringSubmatch(s)
	if m == nil {
		return nil, syntaxError(UsageSelect)
	}
	where, err := ParseWhereClause(m[2])
	if err != nil {
		return nil, err
	}
	return &SelectStmt{Table: m[1], Where: where}, nil
}

func parseUpdate(s string) (Statement, error) {
	m := updateRe.FindStringSubmatch(s)
	if m == nil {
		return nil, syntaxError(UsageUpdate)
	}
	setPart, wherePart, ok := cutWhere(m[2])
	if !ok {
		return nil, syntaxError(UsageUpdate)
	}
	set, err := ParseSetClause(setPart)
	if err != nil {
		return nil, err
	}
	where, err := ParseWhereClause(wherePart)
	if err != nil {
		return nil, err
	}
	return &UpdateStmt{Table: m[1], Set: set, Where: where}, nil
}

// cutWhere splits "<set> WHERE <cond>" at the first WHERE keyword that is
// outside quotes and surrounded by whitespace.
func cutWhere(s string) (before, after string, found bool) {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			continue
		case c == '"' || c == '\'':
			quote = c
			continue
		}
		if i == 0 || !isSpace(s[i-1]) || i+5 >= len(s) || !isSpace(s[i+5]) {
			continue
		}
		if strings.EqualFold(s[i:i+5], "WHERE") {
			before, after = strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+5:])
			if before == "" || after == "" {
				return "", "", false
			}
			return before, after, true
		}
	}
	return "", "", false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func parseDelete(s string) (Statement, error) {
	m := deleteRe.FindStringSubmatch(s)
	if m == nil {
		return nil, syntaxError(UsageDelete)
	}
	where, err := ParseWhereClause(m[2])
	if err != nil {
		return nil, err
	}
	return &DeleteStmt{Table: m[1], Where: where}, nil
}
