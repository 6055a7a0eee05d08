package validate

import (
	"sort"
	"strings"

	"github.com/serhataydn/viewgen/internal/view"
)

// signatureOf builds the canonical signature of a view: the unordered set of
// participating table names paired with the lexicographically sorted list of
// selected expressions.
func signatureOf(spec view.Spec) string {
	tableSet := make(map[string]struct{})
	name, _ := view.SplitTableRef(spec.Query.From)
	tableSet[strings.ToLower(name)] = struct{}{}
	for _, join := range spec.Query.Joins {
		name, _ := view.SplitTableRef(join.Table)
		tableSet[strings.ToLower(name)] = struct{}{}
	}

	tables := make([]string, 0, len(tableSet))
	for table := range tableSet {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	selects := make([]string, len(spec.Query.Select))
	for i, expr := range spec.Query.Select {
		selects[i] = strings.ToLower(strings.TrimSpace(expr))
	}
	sort.Strings(selects)

	return strings.Join(tables, ",") + "||" + strings.Join(selects, ",")
}

// Deduplicate collapses structurally identical valid results in batch
// order: the first view with a given signature wins, later ones are flagged
// with a duplicate-of reference and a warning. Already-flagged results are
// skipped, making a second pass a no-op. Returns the number of newly
// removed duplicates.
func Deduplicate(results []*Result) int {
	seen := make(map[string]string)
	removed := 0

	for _, result := range results {
		if result == nil || !result.Valid || result.signature == "" {
			continue
		}
		if result.DuplicateOf != "" {
			seen[result.signature] = result.DuplicateOf
			continue
		}

		if keeper, dup := seen[result.signature]; dup {
			result.DuplicateOf = keeper
			result.Issues = append(result.Issues, warningIssue(KindDuplicateView, result.ViewName,
				"duplicate of view %q (same tables and selected expressions)", keeper))
			removed++
			continue
		}
		seen[result.signature] = result.ViewName
	}

	return removed
}
