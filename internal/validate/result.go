package validate

// Result captures the outcome of validating one candidate view. Valid is
// true iff no error-severity issue was recorded; warnings never invalidate.
type Result struct {
	ViewName      string   `json:"view_name"`
	Valid         bool     `json:"is_valid"`
	Issues        []Issue  `json:"issues"`
	SemanticScore *float64 `json:"semantic_score,omitempty"`
	SQL           string   `json:"sql,omitempty"`
	DuplicateOf   string   `json:"duplicate_of,omitempty"`

	// signature keys structurally identical views for deduplication.
	// Populated only for valid results.
	signature string
}

// NewParseFailure wraps a candidate that never decoded into a proper spec
// as a single invalid result carrying a structural parse issue.
func NewParseFailure(viewName string, err error) *Result {
	return &Result{
		ViewName: viewName,
		Issues: []Issue{{
			Kind:       KindParse,
			Severity:   SeverityError,
			Message:    err.Error(),
			Identifier: viewName,
		}},
	}
}

func (r *Result) ErrorCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

func (r *Result) WarningCount() int {
	return len(r.Issues) - r.ErrorCount()
}
