package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls a JSON document out of a completion that may wrap it in
// code fences or surrounding prose.
func ExtractJSON(text string) ([]byte, error) {
	text = strings.TrimSpace(text)

	if fenced := extractFenced(text); fenced != "" {
		text = fenced
	}

	if json.Valid([]byte(text)) {
		return []byte(text), nil
	}

	for _, pair := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(text, pair[0])
		end := strings.LastIndexByte(text, pair[1])
		if start >= 0 && end > start {
			candidate := text[start : end+1]
			if json.Valid([]byte(candidate)) {
				return []byte(candidate), nil
			}
		}
	}

	return nil, fmt.Errorf("completion contains no valid JSON document")
}

func extractFenced(text string) string {
	start := strings.Index(text, "```")
	if start < 0 {
		return ""
	}

	rest := text[start+3:]
	if newline := strings.IndexByte(rest, '\n'); newline >= 0 {
		// Skip a language tag like "json" on the fence line.
		rest = rest[newline+1:]
	}

	end := strings.Index(rest, "```")
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
