package schema

import (
	"strings"
	"sync"
)

// PrimaryKeyFunc decides whether a column acts as its table's primary key.
// Columns that are foreign keys are never offered to the func.
type PrimaryKeyFunc func(table *Table, col Column) bool

// DefaultPrimaryKey matches a column named exactly "id", or a column named
// after its table with an "_id" suffix and an integer-like type. A trailing
// "s" on the table name is ignored so that customers.customer_id matches.
func DefaultPrimaryKey(table *Table, col Column) bool {
	name := strings.ToLower(col.Name)
	if name == "id" {
		return true
	}

	if !strings.HasSuffix(name, "_id") || !isIntegerType(col.Type) {
		return false
	}

	tableName := strings.ToLower(table.Name)
	if name == tableName+"_id" {
		return true
	}
	if strings.HasSuffix(tableName, "s") && name == strings.TrimSuffix(tableName, "s")+"_id" {
		return true
	}
	return false
}

func isIntegerType(typeName string) bool {
	return strings.Contains(strings.ToLower(typeName), "int")
}

type Option func(*Graph)

func WithPrimaryKeyFunc(fn PrimaryKeyFunc) Option {
	return func(g *Graph) {
		g.isPrimaryKey = fn
	}
}

// Graph is the immutable in-memory schema model. It is built once per run
// and safe for concurrent readers without synchronization.
type Graph struct {
	tables map[string]*Table
	order  []string
	edges  []Edge

	isPrimaryKey PrimaryKeyFunc

	adjOnce   sync.Once
	adjacency map[string][]neighbor
}

// neighbor is one undirected expansion of a foreign-key edge, recorded from
// the viewpoint of the owning table of the adjacency list.
type neighbor struct {
	table       string // lowercase neighbor table name
	localColumn string
	peerColumn  string
	ownsKey     bool // true when the foreign key column lives on the local side
}

// Load builds a Graph from a schema document. It fails with *LoadError on an
// empty document, duplicated table or column names, or a foreign key whose
// target table or column is absent.
func Load(doc *Document, opts ...Option) (*Graph, error) {
	g := &Graph{
		tables:       make(map[string]*Table),
		isPrimaryKey: DefaultPrimaryKey,
	}
	for _, opt := range opts {
		opt(g)
	}

	if doc == nil || len(doc.Tables) == 0 {
		return nil, loadErrorf("schema document contains no tables")
	}

	for _, tableDoc := range doc.Tables {
		name := strings.TrimSpace(tableDoc.Name)
		if name == "" {
			return nil, loadErrorf("table without a name")
		}

		key := strings.ToLower(name)
		if _, exists := g.tables[key]; exists {
			return nil, loadErrorf("duplicate table name %q", name)
		}

		table := &Table{
			Name:        name,
			Description: tableDoc.Description,
			byName:      make(map[string]int),
		}

		for _, colDoc := range tableDoc.Columns {
			colName := strings.TrimSpace(colDoc.Name)
			if colName == "" {
				return nil, loadErrorf("table %q has a column without a name", name)
			}

			colKey := strings.ToLower(colName)
			if _, exists := table.byName[colKey]; exists {
				return nil, loadErrorf("duplicate column %q in table %q", colName, name)
			}

			table.byName[colKey] = len(table.Columns)
			table.Columns = append(table.Columns, Column{
				Name:        colName,
				Type:        colDoc.Type,
				Description: colDoc.Description,
			})
		}

		g.tables[key] = table
		g.order = append(g.order, key)
	}

	if err := g.resolveForeignKeys(doc); err != nil {
		return nil, err
	}

	for _, key := range g.order {
		table := g.tables[key]
		for i := range table.Columns {
			if table.Columns[i].ForeignKey {
				continue
			}
			if g.isPrimaryKey(table, table.Columns[i]) {
				table.Columns[i].PrimaryKey = true
			}
		}
	}

	return g, nil
}

// resolveForeignKeys reconciles column-level references and the table-level
// foreign_keys list into one deduplicated edge set, validating every target.
func (g *Graph) resolveForeignKeys(doc *Document) error {
	type fkTarget struct {
		table  string
		column string
	}
	declared := make(map[fkTarget]ColumnRef)

	record := func(tableName, columnName, refTable, refColumn string) error {
		table := g.tables[strings.ToLower(tableName)]
		col, ok := table.Column(columnName)
		if !ok {
			return loadErrorf("foreign key on %s.%s: column does not exist", tableName, columnName)
		}

		target, ok := g.tables[strings.ToLower(refTable)]
		if !ok {
			return loadErrorf("foreign key %s.%s references unknown table %q", tableName, columnName, refTable)
		}
		targetCol, ok := target.Column(refColumn)
		if !ok {
			return loadErrorf("foreign key %s.%s references unknown column %s.%s", tableName, columnName, refTable, refColumn)
		}

		key := fkTarget{table: strings.ToLower(tableName), column: strings.ToLower(columnName)}
		ref := ColumnRef{Table: target.Name, Column: targetCol.Name}
		if prev, seen := declared[key]; seen {
			if prev != ref {
				return loadErrorf("conflicting foreign key declarations for %s.%s", tableName, columnName)
			}
			return nil
		}
		declared[key] = ref

		col.ForeignKey = true
		col.References = &ref
		g.edges = append(g.edges, Edge{
			FromTable:  table.Name,
			FromColumn: col.Name,
			ToTable:    target.Name,
			ToColumn:   targetCol.Name,
		})
		return nil
	}

	for _, tableDoc := range doc.Tables {
		for _, colDoc := range tableDoc.Columns {
			if colDoc.References == nil {
				continue
			}
			if err := record(tableDoc.Name, colDoc.Name, colDoc.References.Table, colDoc.References.Column); err != nil {
				return err
			}
		}
		for _, fk := range tableDoc.ForeignKeys {
			if fk.Column == "" || fk.ReferencesTable == "" || fk.ReferencesColumn == "" {
				return loadErrorf("incomplete foreign key declaration in table %q", tableDoc.Name)
			}
			if err := record(tableDoc.Name, fk.Column, fk.ReferencesTable, fk.ReferencesColumn); err != nil {
				return err
			}
		}
	}

	return nil
}

// Table looks a table up by name, case-insensitively.
func (g *Graph) Table(name string) (*Table, bool) {
	table, ok := g.tables[strings.ToLower(strings.TrimSpace(name))]
	return table, ok
}

func (g *Graph) HasTable(name string) bool {
	_, ok := g.Table(name)
	return ok
}

// Column looks up a column by table and column name, case-insensitively.
func (g *Graph) Column(tableName, columnName string) (*Column, bool) {
	table, ok := g.Table(tableName)
	if !ok {
		return nil, false
	}
	return table.Column(columnName)
}

// Tables returns every table in declaration order.
func (g *Graph) Tables() []*Table {
	out := make([]*Table, 0, len(g.order))
	for _, key := range g.order {
		out = append(out, g.tables[key])
	}
	return out
}

// Edges returns the canonical directed foreign-key edge set.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// neighbors returns the undirected adjacency list for a table, built once on
// first use. For each table the neighbor order follows the table's
// column-declaration order, which fixes the BFS tie-break.
func (g *Graph) neighbors(tableKey string) []neighbor {
	g.adjOnce.Do(func() {
		g.adjacency = make(map[string][]neighbor)
		for _, key := range g.order {
			table := g.tables[key]
			for _, col := range table.Columns {
				for _, e := range g.edges {
					if strings.ToLower(e.FromTable) == key && strings.EqualFold(e.FromColumn, col.Name) {
						g.adjacency[key] = append(g.adjacency[key], neighbor{
							table:       strings.ToLower(e.ToTable),
							localColumn: e.FromColumn,
							peerColumn:  e.ToColumn,
							ownsKey:     true,
						})
					}
				}
				for _, e := range g.edges {
					if strings.ToLower(e.ToTable) == key && strings.EqualFold(e.ToColumn, col.Name) {
						g.adjacency[key] = append(g.adjacency[key], neighbor{
							table:       strings.ToLower(e.FromTable),
							localColumn: e.ToColumn,
							peerColumn:  e.FromColumn,
							ownsKey:     false,
						})
					}
				}
			}
		}
	})

	return g.adjacency[tableKey]
}
