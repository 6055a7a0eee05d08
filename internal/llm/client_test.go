package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serhataydn/viewgen/internal/config"
	"github.com/serhataydn/viewgen/internal/llm"
	"github.com/serhataydn/viewgen/internal/schema"
	"github.com/serhataydn/viewgen/pkg/logger"
)

func newOllamaClient(t *testing.T, baseURL string, maxRetries int) *llm.Client {
	t.Helper()

	cfg := &config.Config{}
	cfg.LLM.Provider = "ollama"
	cfg.LLM.BaseURL = baseURL
	cfg.LLM.Model = "test-model"
	cfg.LLM.Timeout = 5
	cfg.LLM.MaxRetries = maxRetries
	cfg.LLM.RetryBackoff = 0.01

	client, err := llm.NewClient(cfg, logger.NewSilent())
	require.NoError(t, err)
	return client
}

func ollamaCompletion(t *testing.T, w http.ResponseWriter, response string) {
	t.Helper()
	require.NoError(t, json.NewEncoder(w).Encode(map[string]string{"response": response}))
}

func TestGenerateRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusInternalServerError)
			return
		}
		ollamaCompletion(t, w, "recovered")
	}))
	defer srv.Close()

	client := newOllamaClient(t, srv.URL, 3)

	text, err := client.Generate(context.Background(), llm.Request{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateGivesUpAfterMaxRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newOllamaClient(t, srv.URL, 2)

	_, err := client.Generate(context.Background(), llm.Request{Prompt: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestGenerateHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newOllamaClient(t, srv.URL, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Generate(ctx, llm.Request{Prompt: "hello"})
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateViewsDecodesCompletion(t *testing.T) {
	completion := `{"views": [{
		"name": "customer orders",
		"query": {
			"select": ["customers.name"],
			"from_table": "customers"
		}
	}]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])
		assert.Equal(t, false, req["stream"])

		ollamaCompletion(t, w, "```json\n"+completion+"\n```")
	}))
	defer srv.Close()

	graph, err := schema.Load(&schema.Document{
		Tables: []schema.TableDoc{
			{Name: "customers", Columns: []schema.ColumnDoc{
				{Name: "customer_id", Type: "integer"},
				{Name: "name", Type: "text"},
			}},
		},
	})
	require.NoError(t, err)

	client := newOllamaClient(t, srv.URL, 1)

	candidates, err := client.GenerateViews(context.Background(), graph, 1)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.NoError(t, candidates[0].Err)
	assert.Equal(t, "customer_orders", candidates[0].Spec.Name)
}

func TestNewClientRejectsUnknownProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Provider = "carrier-pigeon"

	_, err := llm.NewClient(cfg, logger.NewSilent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported llm provider")
}
