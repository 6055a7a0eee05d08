package llm

import "fmt"

const systemPrompt = `You are a database analyst that designs useful SQL views over a given schema.
Respond with a single JSON object and nothing else, in this exact shape:

{
  "views": [
    {
      "name": "view_name_in_snake_case",
      "description": "business purpose of the view",
      "query": {
        "select": ["table.column", "SUM(table.column) AS total"],
        "from_table": "base_table",
        "joins": [{"type": "INNER", "table": "other_table", "on": "base_table.col = other_table.col"}],
        "where": ["table.column = 'value'"],
        "group_by": ["table.column"],
        "having": ["SUM(table.column) > 0"],
        "order_by": ["total DESC"]
      }
    }
  ]
}

Rules:
- Only reference tables and columns that exist in the schema.
- Only join tables connected through foreign keys.
- When a select list mixes aggregates and plain columns, list the plain columns in group_by.
- Omit where, group_by, having and order_by when unused.`

func SystemPrompt() string {
	return systemPrompt
}

func UserPrompt(schemaContext string, numViews int) string {
	return fmt.Sprintf(`%s

Design %d distinct, business-relevant views over this schema. Prefer views that answer questions an analyst would actually ask.`,
		schemaContext, numViews)
}
