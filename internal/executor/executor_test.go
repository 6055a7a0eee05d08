package executor_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serhataydn/viewgen/internal/config"
	"github.com/serhataydn/viewgen/internal/executor"
	"github.com/serhataydn/viewgen/internal/schema"
	"github.com/serhataydn/viewgen/pkg/logger"
)

func openMemory(t *testing.T) *executor.Executor {
	t.Helper()

	cfg := config.Default()
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = ":memory:"

	exec, err := executor.Open(cfg, logger.NewSilent())
	require.NoError(t, err)
	t.Cleanup(func() { exec.Close() })
	return exec
}

func TestGuardAcceptsViewStatements(t *testing.T) {
	assert.NoError(t, executor.Guard("CREATE VIEW v AS\nSELECT 1;"))
	assert.NoError(t, executor.Guard("  select * from customers  "))
}

func TestGuardRejectsWriteStatements(t *testing.T) {
	for _, stmt := range []string{
		"DROP TABLE customers",
		"DELETE FROM orders",
		"INSERT INTO orders VALUES (1)",
		"UPDATE customers SET status = 'x'",
		"",
	} {
		assert.Error(t, executor.Guard(stmt), "statement: %q", stmt)
	}
}

func TestGuardRejectsStatementStacking(t *testing.T) {
	err := executor.Guard("CREATE VIEW v AS SELECT 1; DROP TABLE customers;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple statements")
}

func TestOpenRejectsUnknownDatabaseType(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Type = "oracle"

	_, err := executor.Open(cfg, logger.NewSilent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestSeedApplySample(t *testing.T) {
	exec := openMemory(t)
	ctx := context.Background()

	require.NoError(t, exec.Seed(ctx))

	err := exec.Apply(ctx, `CREATE VIEW active_customers AS
SELECT customers.customer_name, customers.region
FROM customers
WHERE customers.status = 'Active';`)
	require.NoError(t, err)

	columns, rows, err := exec.Sample(ctx, "active_customers", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"customer_name", "region"}, columns)
	require.NotEmpty(t, rows)
	assert.Len(t, rows, 5)
	assert.Len(t, rows[0], 2)
}

func TestApplyRefusesUnsafeSQL(t *testing.T) {
	exec := openMemory(t)

	err := exec.Apply(context.Background(), "DROP TABLE customers")
	require.Error(t, err)
}

func TestSampleRejectsBadViewName(t *testing.T) {
	exec := openMemory(t)

	_, _, err := exec.Sample(context.Background(), `v"; DROP TABLE customers; --`, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid view name")
}

func TestWriteDemoSchemaRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo_schema.json")
	require.NoError(t, executor.WriteDemoSchema(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc schema.Document
	require.NoError(t, json.Unmarshal(data, &doc))

	graph, err := schema.Load(&doc)
	require.NoError(t, err)
	require.NotNil(t, graph)

	hops, err := graph.JoinPath("orders", "customers")
	require.NoError(t, err)
	require.Len(t, hops, 1)
	assert.Equal(t, "customer_id", hops[0].FromColumn)
}
