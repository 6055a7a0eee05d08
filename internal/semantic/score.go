// Package semantic scores the relevance of joining two tables by comparing
// their metadata token sets. The score is advisory: callers turn low scores
// into warnings, never into errors.
package semantic

import (
	"strings"
	"unicode"

	"github.com/serhataydn/viewgen/internal/schema"
)

const minTokenLength = 2

// Tokenize splits text on non-alphanumeric boundaries into a set of
// lowercase tokens, keeping tokens of at least two characters. No stemming.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, word := range words {
		if len(word) >= minTokenLength {
			tokens[word] = struct{}{}
		}
	}

	return tokens
}

// TableTokens collects the token set of a table's column names and non-empty
// column descriptions.
func TableTokens(table *schema.Table) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, col := range table.Columns {
		for token := range Tokenize(col.Name) {
			tokens[token] = struct{}{}
		}
		if col.Description != "" {
			for token := range Tokenize(col.Description) {
				tokens[token] = struct{}{}
			}
		}
	}
	return tokens
}

// Score computes the Jaccard similarity of two tables' metadata token sets.
// Returns 0 when the union is empty. Symmetric by construction.
func Score(a, b *schema.Table) float64 {
	tokensA := TableTokens(a)
	tokensB := TableTokens(b)

	union := len(tokensA)
	intersection := 0
	for token := range tokensB {
		if _, ok := tokensA[token]; ok {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
