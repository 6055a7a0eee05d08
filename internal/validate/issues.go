package validate

import "fmt"

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type IssueKind string

const (
	KindParse             IssueKind = "parse_error"
	KindTableNotFound     IssueKind = "table_not_found"
	KindColumnNotFound    IssueKind = "column_not_found"
	KindNoJoinPath        IssueKind = "no_join_path"
	KindAggregation       IssueKind = "aggregation_error"
	KindSemanticRelevance IssueKind = "semantic_relevance"
	KindDuplicateView     IssueKind = "duplicate_view"
)

// Issue is one finding against a candidate view. Only error-severity issues
// affect validity.
type Issue struct {
	Kind       IssueKind `json:"kind"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Identifier string    `json:"identifier,omitempty"`
}

func errorIssue(kind IssueKind, identifier, format string, args ...interface{}) Issue {
	return Issue{
		Kind:       kind,
		Severity:   SeverityError,
		Message:    fmt.Sprintf(format, args...),
		Identifier: identifier,
	}
}

func warningIssue(kind IssueKind, identifier, format string, args ...interface{}) Issue {
	return Issue{
		Kind:       kind,
		Severity:   SeverityWarning,
		Message:    fmt.Sprintf(format, args...),
		Identifier: identifier,
	}
}
