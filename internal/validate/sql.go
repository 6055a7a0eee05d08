package validate

import (
	"fmt"
	"strings"

	"github.com/serhataydn/viewgen/internal/view"
)

// Compile renders a validated spec as a normalized CREATE VIEW statement.
// Joins appear in resolved order and selected expressions keep their
// original aliasing. The output is the only SQL shape the system ever
// emits.
func Compile(spec view.Spec) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("CREATE VIEW %s AS", spec.Name))
	parts = append(parts, "SELECT "+strings.Join(spec.Query.Select, ", "))
	parts = append(parts, "FROM "+spec.Query.From)

	for _, join := range spec.Query.Joins {
		parts = append(parts, fmt.Sprintf("%s JOIN %s ON %s", join.Type, join.Table, join.On))
	}

	if len(spec.Query.Where) > 0 {
		parts = append(parts, "WHERE "+strings.Join(spec.Query.Where, " AND "))
	}
	if len(spec.Query.GroupBy) > 0 {
		parts = append(parts, "GROUP BY "+strings.Join(spec.Query.GroupBy, ", "))
	}
	if len(spec.Query.Having) > 0 {
		parts = append(parts, "HAVING "+strings.Join(spec.Query.Having, " AND "))
	}
	if len(spec.Query.OrderBy) > 0 {
		parts = append(parts, "ORDER BY "+strings.Join(spec.Query.OrderBy, ", "))
	}

	return strings.Join(parts, "\n") + ";"
}
