package validate

import (
	"errors"
	"strings"

	"github.com/serhataydn/viewgen/internal/schema"
	"github.com/serhataydn/viewgen/internal/semantic"
	"github.com/serhataydn/viewgen/internal/view"
)

// Options carries the tunables of the compilability checker.
type Options struct {
	MinSemanticScore     float64
	DisableSemanticCheck bool
}

// Checker verifies that every clause of a candidate view resolves against
// the schema graph. It holds no mutable state and is safe for concurrent
// use.
type Checker struct {
	graph *schema.Graph
	opts  Options
}

func NewChecker(graph *schema.Graph, opts Options) *Checker {
	return &Checker{graph: graph, opts: opts}
}

// scope tracks the tables a view has brought into play, by name and alias,
// preserving introduction order for bare-column resolution.
type scope struct {
	byName  map[string]*schema.Table
	ordered []*schema.Table
}

func newScope() *scope {
	return &scope{byName: make(map[string]*schema.Table)}
}

func (s *scope) add(table *schema.Table, alias string) {
	s.byName[strings.ToLower(table.Name)] = table
	if alias != "" {
		s.byName[strings.ToLower(alias)] = table
	}
	s.ordered = append(s.ordered, table)
}

func (s *scope) lookup(qualifier string) (*schema.Table, bool) {
	table, ok := s.byName[strings.ToLower(qualifier)]
	return table, ok
}

// resolveColumn finds a bare column in any in-scope table, in introduction
// order.
func (s *scope) resolveColumn(column string) (*schema.Table, bool) {
	for _, table := range s.ordered {
		if table.HasColumn(column) {
			return table, true
		}
	}
	return nil, false
}

// Check runs the full clause-by-clause compilability check and, when no
// error was found, compiles the normalized SQL text.
func (c *Checker) Check(spec view.Spec) Result {
	result := Result{ViewName: spec.Name}

	baseName, baseAlias := view.SplitTableRef(spec.Query.From)
	baseTable, ok := c.graph.Table(baseName)
	if !ok {
		result.Issues = append(result.Issues, errorIssue(KindTableNotFound, baseName,
			"base table %q does not exist in schema", baseName))
		return result
	}

	sc := newScope()
	sc.add(baseTable, baseAlias)

	c.checkJoins(spec, baseTable, sc, &result)
	aliases := c.checkSelect(spec, sc, &result)
	c.checkConditions(spec.Query.Where, "WHERE", false, sc, &result)
	c.checkGroupBy(spec, sc, &result)
	c.checkConditions(spec.Query.Having, "HAVING", true, sc, &result)
	c.checkOrderBy(spec, aliases, sc, &result)

	result.Valid = result.ErrorCount() == 0
	if result.Valid {
		result.SQL = Compile(spec)
		result.signature = signatureOf(spec)
	}

	return result
}

// checkJoins resolves every join through the foreign-key graph, forming a
// chain: each join may connect to the base table or to any table a prior
// join introduced.
func (c *Checker) checkJoins(spec view.Spec, baseTable *schema.Table, sc *scope, result *Result) {
	anchors := []*schema.Table{baseTable}

	for i, join := range spec.Query.Joins {
		joinName, joinAlias := view.SplitTableRef(join.Table)
		joinTable, ok := c.graph.Table(joinName)
		if !ok {
			result.Issues = append(result.Issues, errorIssue(KindTableNotFound, joinName,
				"join #%d: table %q does not exist in schema", i+1, joinName))
			continue
		}
		sc.add(joinTable, joinAlias)

		connected := false
		for _, anchor := range anchors {
			if _, err := c.graph.JoinPath(anchor.Name, joinTable.Name); err == nil {
				connected = true
				break
			} else if !errors.As(err, new(*schema.NoPathError)) {
				break
			}
		}
		if !connected {
			result.Issues = append(result.Issues, errorIssue(KindNoJoinPath, joinTable.Name,
				"join #%d: no foreign key path exists between %q and %q", i+1, baseTable.Name, joinTable.Name))
		} else {
			c.checkJoinCondition(join.On, i+1, result)
		}

		if !c.opts.DisableSemanticCheck {
			score := semantic.Score(baseTable, joinTable)
			if result.SemanticScore == nil || score < *result.SemanticScore {
				s := score
				result.SemanticScore = &s
			}
			if score < c.opts.MinSemanticScore {
				result.Issues = append(result.Issues, warningIssue(KindSemanticRelevance, joinTable.Name,
					"join #%d: low semantic similarity (%.3f) between %q and %q",
					i+1, score, baseTable.Name, joinTable.Name))
			}
		}

		anchors = append(anchors, joinTable)
	}
}

// checkJoinCondition requires the ON clause to be a single equality; sides
// that are not qualified table.column references only draw a warning.
func (c *Checker) checkJoinCondition(on string, joinNum int, result *Result) {
	sides := strings.Split(on, "=")
	if len(sides) != 2 || strings.TrimSpace(sides[0]) == "" || strings.TrimSpace(sides[1]) == "" {
		result.Issues = append(result.Issues, errorIssue(KindParse, on,
			"join #%d: invalid join condition %q, expected 'table.column = table.column'", joinNum, on))
		return
	}

	for _, side := range sides {
		qualifier, _, ok := splitRef(strings.TrimSpace(side))
		if !ok || qualifier == "" {
			result.Issues = append(result.Issues, warningIssue(KindParse, on,
				"join #%d: join condition should use qualified table.column names", joinNum))
			return
		}
	}
}

// checkSelect resolves every selected expression and returns the set of
// output aliases for order-by resolution.
func (c *Checker) checkSelect(spec view.Spec, sc *scope, result *Result) map[string]struct{} {
	aliases := make(map[string]struct{})

	for _, expr := range spec.Query.Select {
		core, alias := splitAlias(expr)
		if alias != "" {
			aliases[strings.ToLower(alias)] = struct{}{}
		}

		if inner, ok := aggregateArg(core); ok {
			core = inner
		}
		c.resolveExpr(core, expr, "SELECT", sc, result)
	}

	return aliases
}

// resolveExpr resolves one table.column or bare column reference, reporting
// against the original expression text. Literals and * need no resolution.
func (c *Checker) resolveExpr(core, original, clause string, sc *scope, result *Result) {
	if isLiteral(core) {
		return
	}

	qualifier, column, ok := splitRef(core)
	if !ok {
		// Arbitrary expressions (arithmetic, function calls) are resolved by
		// their dotted references only.
		for _, ref := range conditionRefs(core) {
			c.resolveQualified(ref[0], ref[1], original, clause, sc, result)
		}
		return
	}

	if qualifier != "" {
		c.resolveQualified(qualifier, column, original, clause, sc, result)
		return
	}

	if _, found := sc.resolveColumn(column); !found {
		result.Issues = append(result.Issues, errorIssue(KindColumnNotFound, original,
			"%s: column %q does not exist in any joined table", clause, original))
	}
}

func (c *Checker) resolveQualified(qualifier, column, original, clause string, sc *scope, result *Result) {
	table, ok := sc.lookup(qualifier)
	if !ok {
		result.Issues = append(result.Issues, errorIssue(KindTableNotFound, original,
			"%s: unknown table reference %q in %q", clause, qualifier, original))
		return
	}
	if column == "*" {
		return
	}
	if !table.HasColumn(column) {
		result.Issues = append(result.Issues, errorIssue(KindColumnNotFound, original,
			"%s: column %q does not exist in table %q", clause, column, table.Name))
	}
}

// checkConditions resolves the dotted references of filter and having
// conditions. Aggregate calls are rejected in plain filter clauses.
func (c *Checker) checkConditions(conditions []string, clause string, allowAggregates bool, sc *scope, result *Result) {
	for _, condition := range conditions {
		if !allowAggregates && usesAggregate(condition) {
			result.Issues = append(result.Issues, errorIssue(KindAggregation, condition,
				"%s: aggregate function is not allowed in a %s clause", clause, clause))
			continue
		}

		for _, ref := range conditionRefs(condition) {
			c.resolveQualified(ref[0], ref[1], condition, clause, sc, result)
		}
	}
}

// checkGroupBy resolves group-by entries and enforces grouping consistency:
// once the view groups (or selects an aggregate), every plain selected
// column must appear in the group-by clause.
func (c *Checker) checkGroupBy(spec view.Spec, sc *scope, result *Result) {
	grouped := make(map[string]struct{})
	for _, entry := range spec.Query.GroupBy {
		c.resolveExpr(entry, entry, "GROUP BY", sc, result)

		normalized := strings.ToLower(strings.TrimSpace(entry))
		grouped[normalized] = struct{}{}
		if _, column, ok := splitRef(entry); ok && column != "" {
			grouped[strings.ToLower(column)] = struct{}{}
		}
	}

	groupingActive := len(spec.Query.GroupBy) > 0
	if !groupingActive {
		for _, expr := range spec.Query.Select {
			core, _ := splitAlias(expr)
			if isAggregate(core) {
				groupingActive = true
				break
			}
		}
	}
	if !groupingActive {
		return
	}

	for _, expr := range spec.Query.Select {
		core, _ := splitAlias(expr)
		if isAggregate(core) || isLiteral(core) {
			continue
		}

		normalized := strings.ToLower(strings.TrimSpace(core))
		if _, ok := grouped[normalized]; ok {
			continue
		}
		if _, column, ok := splitRef(core); ok && column != "" {
			if _, listed := grouped[strings.ToLower(column)]; listed {
				continue
			}
		}

		result.Issues = append(result.Issues, errorIssue(KindAggregation, expr,
			"non-aggregated column %q outside GROUP BY", core))
	}
}

// checkOrderBy accepts entries naming a selected output alias, an aggregate
// call, or any resolvable column reference.
func (c *Checker) checkOrderBy(spec view.Spec, aliases map[string]struct{}, sc *scope, result *Result) {
	for _, entry := range spec.Query.OrderBy {
		core := stripOrderSuffix(entry)

		if _, ok := aliases[strings.ToLower(core)]; ok {
			continue
		}
		if inner, ok := aggregateArg(core); ok {
			c.resolveExpr(inner, entry, "ORDER BY", sc, result)
			continue
		}

		qualifier, column, ok := splitRef(core)
		if !ok {
			result.Issues = append(result.Issues, errorIssue(KindColumnNotFound, entry,
				"ORDER BY: cannot resolve expression %q", entry))
			continue
		}
		if qualifier != "" {
			c.resolveQualified(qualifier, column, entry, "ORDER BY", sc, result)
			continue
		}
		if _, found := sc.resolveColumn(column); !found {
			result.Issues = append(result.Issues, errorIssue(KindColumnNotFound, entry,
				"ORDER BY: column %q does not exist in any joined table", entry))
		}
	}
}
