package schema

import "strings"

// ColumnRef names a (table, column) pair referenced by a foreign key.
type ColumnRef struct {
	Table  string
	Column string
}

type Column struct {
	Name        string
	Type        string
	Description string
	PrimaryKey  bool
	ForeignKey  bool
	References  *ColumnRef
}

type Table struct {
	Name        string
	Description string
	Columns     []Column

	byName map[string]int
}

// Column returns the column with the given name, matched case-insensitively.
func (t *Table) Column(name string) (*Column, bool) {
	idx, ok := t.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return &t.Columns[idx], true
}

func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Edge is a directed foreign-key relationship: a column in FromTable
// references a column in ToTable.
type Edge struct {
	FromTable  string
	FromColumn string
	ToTable    string
	ToColumn   string
}
