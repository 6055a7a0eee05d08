package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	aggregateCallRe = regexp.MustCompile(`(?i)^\s*(count|sum|avg|min|max)\s*\((.*)\)\s*$`)
	aggregateUseRe  = regexp.MustCompile(`(?i)(?:^|[^a-z0-9_])(count|sum|avg|min|max)\s*\(`)
	dottedRefRe     = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\.([A-Za-z_][A-Za-z0-9_]*)`)
	identRe         = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	orderSuffixRe   = regexp.MustCompile(`(?i)\s+(ASC|DESC)\s*$`)
	aliasSplitRe    = regexp.MustCompile(`(?i)\s+AS\s+`)
)

// aggregateArg returns the inner argument of an aggregate-function call like
// COUNT(x) or SUM(t.c).
func aggregateArg(expr string) (string, bool) {
	m := aggregateCallRe.FindStringSubmatch(expr)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[2]), true
}

func isAggregate(expr string) bool {
	return aggregateCallRe.MatchString(expr)
}

// usesAggregate reports whether an aggregate call appears anywhere in a
// larger expression, such as a filter condition.
func usesAggregate(expr string) bool {
	return aggregateUseRe.MatchString(expr)
}

// splitAlias separates "expr AS alias" into its parts. A missing alias
// returns the expression unchanged.
func splitAlias(expr string) (core, alias string) {
	parts := aliasSplitRe.Split(expr, 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(expr), ""
}

// isLiteral accepts bare literals that need no schema resolution: *, numbers
// and quoted strings.
func isLiteral(expr string) bool {
	expr = strings.TrimSpace(expr)
	if expr == "*" {
		return true
	}
	if _, err := strconv.ParseFloat(expr, 64); err == nil {
		return true
	}
	if len(expr) >= 2 {
		if (expr[0] == '\'' && expr[len(expr)-1] == '\'') ||
			(expr[0] == '"' && expr[len(expr)-1] == '"') {
			return true
		}
	}
	return false
}

// splitRef parses a dotted table.column or bare column reference. A
// qualifier of "" means the reference was unqualified.
func splitRef(expr string) (qualifier, column string, ok bool) {
	expr = strings.TrimSpace(expr)

	if dot := strings.Index(expr, "."); dot >= 0 {
		qualifier = strings.TrimSpace(expr[:dot])
		column = strings.TrimSpace(expr[dot+1:])
		if column == "*" {
			return qualifier, column, identRe.MatchString(qualifier)
		}
		return qualifier, column, identRe.MatchString(qualifier) && identRe.MatchString(column)
	}

	if identRe.MatchString(expr) {
		return "", expr, true
	}
	return "", "", false
}

// conditionRefs extracts every dotted table.column reference from a filter
// or having condition.
func conditionRefs(condition string) [][2]string {
	var refs [][2]string
	for _, m := range dottedRefRe.FindAllStringSubmatch(condition, -1) {
		refs = append(refs, [2]string{m[1], m[2]})
	}
	return refs
}

// stripOrderSuffix removes a trailing ASC or DESC keyword.
func stripOrderSuffix(expr string) string {
	return strings.TrimSpace(orderSuffixRe.ReplaceAllString(expr, ""))
}
