package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serhataydn/viewgen/internal/llm"
)

func TestExtractJSONBareDocument(t *testing.T) {
	raw, err := llm.ExtractJSON(`{"views": []}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"views": []}`, string(raw))
}

func TestExtractJSONFencedWithLanguageTag(t *testing.T) {
	raw, err := llm.ExtractJSON("Here are the views:\n```json\n{\"views\": [1, 2]}\n```\nDone.")
	require.NoError(t, err)
	assert.JSONEq(t, `{"views": [1, 2]}`, string(raw))
}

func TestExtractJSONFencedWithoutLanguageTag(t *testing.T) {
	raw, err := llm.ExtractJSON("```\n[{\"name\": \"v\"}]\n```")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name": "v"}]`, string(raw))
}

func TestExtractJSONEmbeddedObject(t *testing.T) {
	raw, err := llm.ExtractJSON(`Sure! The result is {"views": [{"name": "v"}]} as requested.`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"views": [{"name": "v"}]}`, string(raw))
}

func TestExtractJSONEmbeddedArray(t *testing.T) {
	raw, err := llm.ExtractJSON(`The list: [1, 2, 3]. Anything else?`)
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2, 3]`, string(raw))
}

func TestExtractJSONNoDocument(t *testing.T) {
	_, err := llm.ExtractJSON("I could not produce any views, sorry.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid JSON")
}

func TestExtractJSONTruncatedDocument(t *testing.T) {
	_, err := llm.ExtractJSON(`{"views": [{"name": "v"`)
	require.Error(t, err)
}
