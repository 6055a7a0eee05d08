package schema

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the on-disk schema description. Foreign keys may appear inline
// on a column (references) or in the table-level foreign_keys list; the
// loader reconciles both into one canonical edge set.
type Document struct {
	Tables []TableDoc `json:"tables"`
}

type TableDoc struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Columns     []ColumnDoc     `json:"columns"`
	ForeignKeys []ForeignKeyDoc `json:"foreign_keys"`
}

type ColumnDoc struct {
	Name        string        `json:"name"`
	Type        string        `json:"type"`
	Description string        `json:"description"`
	References  *ReferenceDoc `json:"references"`
}

type ReferenceDoc struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

type ForeignKeyDoc struct {
	Column           string `json:"column"`
	ReferencesTable  string `json:"references_table"`
	ReferencesColumn string `json:"references_column"`
}

func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema document: %w", err)
	}
	return &doc, nil
}

func LoadFile(path string, opts ...Option) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}

	return Load(doc, opts...)
}
