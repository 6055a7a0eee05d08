package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serhataydn/viewgen/internal/validate"
	"github.com/serhataydn/viewgen/internal/view"
)

func checkAll(t *testing.T, specs ...view.Spec) []*validate.Result {
	t.Helper()

	checker := newChecker(t)
	results := make([]*validate.Result, len(specs))
	for i, spec := range specs {
		r := checker.Check(spec)
		require.True(t, r.Valid, "fixture view %q must be valid", spec.Name)
		results[i] = &r
	}
	return results
}

func orderSummarySpec(name string, selects []string) view.Spec {
	return view.Spec{
		Name: name,
		Query: view.Query{
			Select: selects,
			From:   "customers",
			Joins:  []view.Join{{Type: "INNER", Table: "orders", On: "customers.customer_id = orders.customer_id"}},
		},
	}
}

func TestDeduplicateDropsSecondIdenticalView(t *testing.T) {
	results := checkAll(t,
		orderSummarySpec("first", []string{"customers.name", "orders.order_total"}),
		orderSummarySpec("second", []string{"orders.order_total", "customers.name"}),
	)

	removed := validate.Deduplicate(results)
	assert.Equal(t, 1, removed, "select order does not matter for the signature")

	assert.Empty(t, results[0].DuplicateOf)
	assert.Equal(t, "first", results[1].DuplicateOf)

	warned := false
	for _, issue := range results[1].Issues {
		if issue.Kind == validate.KindDuplicateView {
			assert.Equal(t, validate.SeverityWarning, issue.Severity)
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestDeduplicateKeepsDistinctSelects(t *testing.T) {
	results := checkAll(t,
		orderSummarySpec("a", []string{"customers.name"}),
		orderSummarySpec("b", []string{"customers.region"}),
	)

	assert.Equal(t, 0, validate.Deduplicate(results))
	assert.Empty(t, results[1].DuplicateOf)
}

func TestDeduplicateIsIdempotent(t *testing.T) {
	results := checkAll(t,
		orderSummarySpec("first", []string{"customers.name"}),
		orderSummarySpec("second", []string{"customers.name"}),
		orderSummarySpec("third", []string{"customers.name"}),
	)

	assert.Equal(t, 2, validate.Deduplicate(results))
	assert.Equal(t, 0, validate.Deduplicate(results), "a second pass removes nothing")
	assert.Equal(t, "first", results[1].DuplicateOf)
	assert.Equal(t, "first", results[2].DuplicateOf)
}

func TestDeduplicateIgnoresInvalidResults(t *testing.T) {
	checker := newChecker(t)

	valid := checker.Check(orderSummarySpec("ok", []string{"customers.name"}))
	invalid := checker.Check(view.Spec{
		Name:  "broken",
		Query: view.Query{Select: []string{"customers.name"}, From: "ghost"},
	})
	require.False(t, invalid.Valid)

	results := []*validate.Result{&valid, &invalid}
	assert.Equal(t, 0, validate.Deduplicate(results))
	assert.Empty(t, invalid.DuplicateOf)
}
