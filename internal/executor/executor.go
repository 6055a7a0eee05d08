// Package executor applies accepted view SQL to a live database. It is a
// thin collaborator around the validation core: the only statements it will
// run are the read-only CREATE VIEW/SELECT shapes the compiler emits.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/serhataydn/viewgen/internal/config"
	"github.com/serhataydn/viewgen/pkg/logger"
)

type Executor struct {
	db  *sql.DB
	log *logger.Logger
}

func Open(cfg *config.Config, log *logger.Logger) (*Executor, error) {
	var (
		db  *sql.DB
		err error
	)

	switch cfg.Database.Type {
	case "sqlite":
		path := cfg.Database.Path
		if path == "" {
			path = ":memory:"
		}
		db, err = sql.Open("sqlite3", path)
	case "postgres":
		db, err = sql.Open("postgres", cfg.GetConnectionString())
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}

	return &Executor{db: db, log: log}, nil
}

func (e *Executor) Close() error {
	return e.db.Close()
}

// Apply runs one accepted view statement after the read-only guard.
func (e *Executor) Apply(ctx context.Context, sqlText string) error {
	if err := Guard(sqlText); err != nil {
		return err
	}

	if _, err := e.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("failed to create view: %w", err)
	}
	return nil
}

// Sample reads up to limit rows from a created view for preview output.
func (e *Executor) Sample(ctx context.Context, viewName string, limit int) ([]string, [][]string, error) {
	if !isIdentifier(viewName) {
		return nil, nil, fmt.Errorf("invalid view name %q", viewName)
	}

	query := fmt.Sprintf(`SELECT * FROM "%s" LIMIT %d`, viewName, limit)
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query view %q: %w", viewName, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read view columns: %w", err)
	}

	var out [][]string
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan view row: %w", err)
		}

		row := make([]string, len(columns))
		for i, v := range values {
			if v.Valid {
				row[i] = v.String
			} else {
				row[i] = "NULL"
			}
		}
		out = append(out, row)
	}

	return columns, out, rows.Err()
}

// Guard rejects anything that is not a single read-only CREATE VIEW or
// SELECT statement.
func Guard(sqlText string) error {
	stmt := strings.TrimSpace(sqlText)
	stmt = strings.TrimSuffix(stmt, ";")
	if strings.Contains(stmt, ";") {
		return fmt.Errorf("refusing to execute multiple statements")
	}

	upper := strings.ToUpper(stmt)
	if !strings.HasPrefix(upper, "CREATE VIEW ") && !strings.HasPrefix(upper, "SELECT ") {
		return fmt.Errorf("refusing to execute non read-only statement")
	}

	return nil
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}
