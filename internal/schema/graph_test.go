package schema_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serhataydn/viewgen/internal/schema"
)

func shopDocument() *schema.Document {
	return &schema.Document{
		Tables: []schema.TableDoc{
			{
				Name:        "customers",
				Description: "Customer master data",
				Columns: []schema.ColumnDoc{
					{Name: "customer_id", Type: "integer", Description: "Unique customer identifier"},
					{Name: "name", Type: "text", Description: "Customer display name"},
					{Name: "region", Type: "text", Description: "Sales region"},
				},
			},
			{
				Name:        "orders",
				Description: "Orders placed by customers",
				Columns: []schema.ColumnDoc{
					{Name: "order_id", Type: "integer", Description: "Unique order identifier"},
					{Name: "customer_id", Type: "integer", Description: "Customer who placed the order",
						References: &schema.ReferenceDoc{Table: "customers", Column: "customer_id"}},
					{Name: "order_total", Type: "real", Description: "Total order amount"},
				},
			},
			{
				Name: "products",
				Columns: []schema.ColumnDoc{
					{Name: "product_id", Type: "integer", Description: "Unique product identifier"},
					{Name: "title", Type: "text", Description: "Product title"},
				},
			},
			{
				Name: "order_items",
				Columns: []schema.ColumnDoc{
					{Name: "item_id", Type: "integer"},
					{Name: "order_id", Type: "integer",
						References: &schema.ReferenceDoc{Table: "orders", Column: "order_id"}},
					{Name: "product_id", Type: "integer",
						References: &schema.ReferenceDoc{Table: "products", Column: "product_id"}},
				},
			},
			{
				Name: "regions",
				Columns: []schema.ColumnDoc{
					{Name: "region_id", Type: "integer"},
					{Name: "label", Type: "text"},
				},
			},
		},
	}
}

func TestLoadBuildsLookups(t *testing.T) {
	graph, err := schema.Load(shopDocument())
	require.NoError(t, err)

	require.Len(t, graph.Tables(), 5)

	table, ok := graph.Table("ORDERS")
	require.True(t, ok, "table lookup should be case-insensitive")
	assert.Equal(t, "orders", table.Name)

	col, ok := graph.Column("orders", "Customer_ID")
	require.True(t, ok, "column lookup should be case-insensitive")
	assert.True(t, col.ForeignKey)
	require.NotNil(t, col.References)
	assert.Equal(t, "customers", col.References.Table)
	assert.Equal(t, "customer_id", col.References.Column)
}

func TestLoadRejectsEmptySchema(t *testing.T) {
	_, err := schema.Load(&schema.Document{})
	require.Error(t, err)

	var loadErr *schema.LoadError
	require.ErrorAs(t, err, &loadErr)
}

func TestLoadRejectsDuplicateTable(t *testing.T) {
	doc := shopDocument()
	doc.Tables = append(doc.Tables, schema.TableDoc{
		Name:    "Customers",
		Columns: []schema.ColumnDoc{{Name: "id", Type: "integer"}},
	})

	_, err := schema.Load(doc)
	var loadErr *schema.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Msg, "duplicate table")
}

func TestLoadRejectsDuplicateColumn(t *testing.T) {
	doc := shopDocument()
	doc.Tables[0].Columns = append(doc.Tables[0].Columns, schema.ColumnDoc{Name: "NAME", Type: "text"})

	_, err := schema.Load(doc)
	var loadErr *schema.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Msg, "duplicate column")
}

func TestLoadRejectsDanglingForeignKey(t *testing.T) {
	doc := shopDocument()
	doc.Tables[1].Columns[1].References = &schema.ReferenceDoc{Table: "missing", Column: "id"}

	_, err := schema.Load(doc)
	var loadErr *schema.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Msg, "unknown table")

	doc = shopDocument()
	doc.Tables[1].Columns[1].References = &schema.ReferenceDoc{Table: "customers", Column: "missing"}

	_, err = schema.Load(doc)
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Msg, "unknown column")
}

func TestLoadReconcilesRedundantForeignKeys(t *testing.T) {
	doc := shopDocument()
	// Declared both inline on the column and in the table-level list.
	doc.Tables[1].ForeignKeys = []schema.ForeignKeyDoc{
		{Column: "customer_id", ReferencesTable: "customers", ReferencesColumn: "customer_id"},
	}

	graph, err := schema.Load(doc)
	require.NoError(t, err)

	count := 0
	for _, e := range graph.Edges() {
		if e.FromTable == "orders" && e.ToTable == "customers" {
			count++
		}
	}
	assert.Equal(t, 1, count, "redundant declarations should collapse into one edge")
}

func TestLoadRejectsConflictingForeignKeys(t *testing.T) {
	doc := shopDocument()
	doc.Tables[1].ForeignKeys = []schema.ForeignKeyDoc{
		{Column: "customer_id", ReferencesTable: "products", ReferencesColumn: "product_id"},
	}

	_, err := schema.Load(doc)
	var loadErr *schema.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Msg, "conflicting foreign key")
}

func TestDefaultPrimaryKeyHeuristic(t *testing.T) {
	graph, err := schema.Load(shopDocument())
	require.NoError(t, err)

	col, ok := graph.Column("customers", "customer_id")
	require.True(t, ok)
	assert.True(t, col.PrimaryKey, "customers.customer_id should match the <table>_id heuristic")

	col, ok = graph.Column("orders", "customer_id")
	require.True(t, ok)
	assert.False(t, col.PrimaryKey, "foreign key columns are never primary keys")

	col, ok = graph.Column("customers", "region")
	require.True(t, ok)
	assert.False(t, col.PrimaryKey)
}

func TestInjectedPrimaryKeyStrategy(t *testing.T) {
	exact := func(table *schema.Table, col schema.Column) bool {
		return col.Name == "label"
	}

	graph, err := schema.Load(shopDocument(), schema.WithPrimaryKeyFunc(exact))
	require.NoError(t, err)

	col, ok := graph.Column("regions", "label")
	require.True(t, ok)
	assert.True(t, col.PrimaryKey)

	col, ok = graph.Column("customers", "customer_id")
	require.True(t, ok)
	assert.False(t, col.PrimaryKey, "the default heuristic should be fully replaced")
}

func TestPromptContextListsKeys(t *testing.T) {
	graph, err := schema.Load(shopDocument())
	require.NoError(t, err)

	ctx := graph.PromptContext()
	assert.True(t, strings.HasPrefix(ctx, "Database Schema:"))
	assert.Contains(t, ctx, "Table: customers")
	assert.Contains(t, ctx, "[PRIMARY KEY]")
	assert.Contains(t, ctx, "[FK -> customers.customer_id]")
	assert.Contains(t, ctx, "Customer who placed the order")
}
