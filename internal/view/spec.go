// Package view models candidate view specifications. Candidates are
// machine-generated and untrusted: decoding is lenient and shape problems
// surface as per-candidate errors, never as batch failures.
package view

import (
	"encoding/json"
	"fmt"
	"strings"
)

var joinTypes = map[string]struct{}{
	"INNER": {},
	"LEFT":  {},
	"RIGHT": {},
	"FULL":  {},
	"CROSS": {},
}

type Join struct {
	Type  string `json:"type"`
	Table string `json:"table"`
	On    string `json:"on"`
}

type Query struct {
	Select  []string `json:"select"`
	From    string   `json:"from_table"`
	Joins   []Join   `json:"joins"`
	Where   []string `json:"where"`
	GroupBy []string `json:"group_by"`
	Having  []string `json:"having"`
	OrderBy []string `json:"order_by"`
}

// UnmarshalJSON accepts both "from_table" (canonical) and "from" as the base
// table key.
func (q *Query) UnmarshalJSON(data []byte) error {
	type alias Query
	aux := struct {
		*alias
		FromAlt string `json:"from"`
	}{alias: (*alias)(q)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if q.From == "" {
		q.From = aux.FromAlt
	}
	return nil
}

type Spec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Query       Query  `json:"query"`
}

// Normalize sanitizes the view name, upper-cases join kinds, and checks the
// required fields. It reports the first structural problem found.
func (s *Spec) Normalize() error {
	name, err := SanitizeName(s.Name)
	if err != nil {
		return err
	}
	s.Name = name

	if strings.TrimSpace(s.Query.From) == "" {
		return fmt.Errorf("view %q has no base table", s.Name)
	}
	if len(s.Query.Select) == 0 {
		return fmt.Errorf("view %q selects no expressions", s.Name)
	}

	for i := range s.Query.Joins {
		join := &s.Query.Joins[i]
		if strings.TrimSpace(join.Table) == "" {
			return fmt.Errorf("view %q join #%d has no table", s.Name, i+1)
		}

		kind := strings.ToUpper(strings.TrimSpace(join.Type))
		if kind == "" {
			kind = "INNER"
		}
		if _, ok := joinTypes[kind]; !ok {
			return fmt.Errorf("view %q join #%d has invalid join type %q", s.Name, i+1, join.Type)
		}
		join.Type = kind
	}

	return nil
}

// SanitizeName lowercases a view name, converts separators to underscores,
// and strips everything outside [a-z0-9_].
func SanitizeName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}

	clean := b.String()
	if strings.Trim(clean, "_") == "" {
		return "", fmt.Errorf("view name %q is empty after sanitization", name)
	}
	return clean, nil
}

// SplitTableRef splits a table spec like "customers", "customers c" or
// "customers AS c" into a table name and an optional alias.
func SplitTableRef(spec string) (name, alias string) {
	fields := strings.Fields(strings.TrimSpace(spec))
	if len(fields) == 0 {
		return "", ""
	}

	name = fields[0]
	if len(fields) > 1 {
		last := fields[len(fields)-1]
		if !strings.EqualFold(last, "AS") {
			alias = last
		}
	}
	return name, alias
}
