package schema

import (
	"fmt"
	"strings"
)

// PromptContext renders the schema as compact text suitable for embedding in
// a generation prompt: tables in declaration order, columns with types and
// descriptions, primary and foreign key markers.
func (g *Graph) PromptContext() string {
	var b strings.Builder
	b.WriteString("Database Schema:\n")

	for _, table := range g.Tables() {
		fmt.Fprintf(&b, "\nTable: %s\n", table.Name)
		if table.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", table.Description)
		}

		b.WriteString("Columns:\n")
		for _, col := range table.Columns {
			fmt.Fprintf(&b, "  - %s (%s)", col.Name, col.Type)
			if col.Description != "" {
				fmt.Fprintf(&b, ": %s", col.Description)
			}
			if col.PrimaryKey {
				b.WriteString(" [PRIMARY KEY]")
			} else if col.ForeignKey && col.References != nil {
				fmt.Fprintf(&b, " [FK -> %s.%s]", col.References.Table, col.References.Column)
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
