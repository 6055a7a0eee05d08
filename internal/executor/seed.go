package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/serhataydn/viewgen/internal/schema"
)

// Seed populates the database with a small deterministic customers/orders
// dataset for demos and local experimentation.
func (e *Executor) Seed(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id INTEGER PRIMARY KEY,
			customer_name TEXT NOT NULL,
			region TEXT NOT NULL,
			segment TEXT NOT NULL,
			credit_limit INTEGER NOT NULL,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id INTEGER PRIMARY KEY,
			customer_id INTEGER NOT NULL REFERENCES customers(customer_id),
			order_total REAL NOT NULL,
			quality TEXT NOT NULL,
			status TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := e.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create demo table: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(42))
	regions := []string{"North", "South", "East", "West", "Central"}
	segments := []string{"Enterprise", "SMB", "Startup", "Individual"}
	qualities := []string{"Premium", "Standard", "Basic"}
	statuses := []string{"Completed", "Pending", "Shipped", "Cancelled"}
	limits := []int{5000, 10000, 25000, 50000, 100000}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderID := 1
	for customerID := 1; customerID <= 100; customerID++ {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO customers (customer_id, customer_name, region, segment, credit_limit, status)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			customerID,
			fmt.Sprintf("Customer_%d", customerID),
			regions[rng.Intn(len(regions))],
			segments[rng.Intn(len(segments))],
			limits[rng.Intn(len(limits))],
			pick(rng, "Active", "Active", "Active", "Inactive"),
		)
		if err != nil {
			return fmt.Errorf("failed to insert demo customer: %w", err)
		}

		numOrders := 1 + rng.Intn(15)
		for i := 0; i < numOrders; i++ {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO orders (order_id, customer_id, order_total, quality, status)
				 VALUES (?, ?, ?, ?, ?)`,
				orderID,
				customerID,
				float64(10+rng.Intn(99000))/10.0,
				qualities[rng.Intn(len(qualities))],
				statuses[rng.Intn(len(statuses))],
			)
			if err != nil {
				return fmt.Errorf("failed to insert demo order: %w", err)
			}
			orderID++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit demo data: %w", err)
	}

	e.log.Infof("Seeded demo data: 100 customers, %d orders", orderID-1)
	return nil
}

func pick(rng *rand.Rand, options ...string) string {
	return options[rng.Intn(len(options))]
}

// DemoDocument describes the seeded demo tables in the schema document
// shape, so the same dataset can drive validation runs end to end.
func DemoDocument() *schema.Document {
	return &schema.Document{
		Tables: []schema.TableDoc{
			{
				Name:        "customers",
				Description: "Customer master data with region and segment",
				Columns: []schema.ColumnDoc{
					{Name: "customer_id", Type: "integer", Description: "Unique customer identifier"},
					{Name: "customer_name", Type: "text", Description: "Display name of the customer"},
					{Name: "region", Type: "text", Description: "Sales region of the customer"},
					{Name: "segment", Type: "text", Description: "Market segment of the customer"},
					{Name: "credit_limit", Type: "integer", Description: "Approved credit limit"},
					{Name: "status", Type: "text", Description: "Account status of the customer"},
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
					{Name: "quality", Type: "text", Description: "Quality tier of the order"},
					{Name: "status", Type: "text", Description: "Fulfillment status of the order"},
				},
			},
		},
	}
}

// WriteDemoSchema dumps the demo schema document as JSON for use with the
// validate and generate commands.
func WriteDemoSchema(path string) error {
	data, err := json.MarshalIndent(DemoDocument(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode demo schema: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write demo schema: %w", err)
	}
	return nil
}
