package semantic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serhataydn/viewgen/internal/schema"
	"github.com/serhataydn/viewgen/internal/semantic"
)

func loadPair(t *testing.T) (*schema.Table, *schema.Table) {
	t.Helper()

	graph, err := schema.Load(&schema.Document{
		Tables: []schema.TableDoc{
			{Name: "customers", Columns: []schema.ColumnDoc{
				{Name: "customer_id", Type: "integer", Description: "Unique customer identifier"},
				{Name: "region", Type: "text", Description: "Sales region of the customer"},
			}},
			{Name: "orders", Columns: []schema.ColumnDoc{
				{Name: "order_id", Type: "integer", Description: "Unique order identifier"},
				{Name: "customer_id", Type: "integer", Description: "Customer who placed the order"},
			}},
		},
	})
	require.NoError(t, err)

	customers, ok := graph.Table("customers")
	require.True(t, ok)
	orders, ok := graph.Table("orders")
	require.True(t, ok)
	return customers, orders
}

func TestTokenize(t *testing.T) {
	tokens := semantic.Tokenize("Customer_ID: unique per-customer key (v2)")

	assert.Contains(t, tokens, "customer")
	assert.Contains(t, tokens, "id")
	assert.Contains(t, tokens, "unique")
	assert.Contains(t, tokens, "v2")
	assert.NotContains(t, tokens, "a", "single-character tokens are dropped")
	assert.NotContains(t, tokens, "Customer", "tokens are lowercased")
}

func TestScoreSymmetric(t *testing.T) {
	customers, orders := loadPair(t)

	ab := semantic.Score(customers, orders)
	ba := semantic.Score(orders, customers)
	assert.Equal(t, ab, ba)
	assert.Greater(t, ab, 0.0, "the tables share customer/id/unique tokens")
	assert.Less(t, ab, 1.0)
}

func TestScoreSelfIsOne(t *testing.T) {
	customers, _ := loadPair(t)
	assert.Equal(t, 1.0, semantic.Score(customers, customers))
}

func TestScoreEmptyUnionIsZero(t *testing.T) {
	graph, err := schema.Load(&schema.Document{
		Tables: []schema.TableDoc{
			{Name: "x", Columns: []schema.ColumnDoc{{Name: "a", Type: "integer"}}},
			{Name: "y", Columns: []schema.ColumnDoc{{Name: "b", Type: "integer"}}},
		},
	})
	require.NoError(t, err)

	x, _ := graph.Table("x")
	y, _ := graph.Table("y")
	assert.Equal(t, 0.0, semantic.Score(x, y), "one-character names yield no tokens at all")
}
