package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestTestConnection(t *testing.T) {
	ctx := context.Background()
	const tags = `{"models":[{"name":"mistral:latest"},{"name":"nomic-embed-text:v1.5"},{"name":"llama3"}]}`

	t.Run("empty model", func(t *testing.T) {
		res := New("http://127.0.0.1:1", 0).TestConnection(ctx, "  ")
		assert.False(t, res.Success)
		assert.Equal(t, "Model name is empty.", res.Message)
	})

	t.Run("tagged model found", func(t *testing.T) {
		server := tagsServer(t, http.StatusOK, tags)

		res := New(server.URL, 0).TestConnection(ctx, "mistral")
		assert.True(t, res.Success)
		assert.Equal(t, "Ollama connection successful. Model 'mistral' found.", res.Message)
	})

	t.Run("exact name found", func(t *testing.T) {
		server := tagsServer(t, http.StatusOK, tags)

		assert.True(t, New(server.URL, 0).TestConnection(ctx, "llama3").Success)
		assert.True(t, New(server.URL, 0).TestConnection(ctx, "nomic-embed-text:v1.5").Success)
	})

	t.Run("model missing", func(t *testing.T) {
		server := tagsServer(t, http.StatusOK, tags)

		res := New(server.URL, 0).TestConnection(ctx, "mistra")
		assert.False(t, res.Success)
		assert.Equal(t, "Ollama test failed: Model 'mistra' not found in Ollama. Run 'ollama pull mistra' or 'ollama run mistra'.", res.Message)
	})

	t.Run("server error", func(t *testing.T) {
		server := tagsServer(t, http.StatusInternalServerError, ``)

		res := New(server.URL, 0).TestConnection(ctx, "mistral")
		assert.False(t, res.Success)
		assert.Equal(t, "Ollama test failed: Failed to reach Ollama server at "+server.URL+". Status: 500", res.Message)
	})

	t.Run("server down", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		res := New(url, 0).TestConnection(ctx, "mistral")
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "Ollama test failed: Failed to reach Ollama server at "+url)
	})

	t.Run("malformed body", func(t *testing.T) {
		server := tagsServer(t, http.StatusOK, `<html>`)

		res := New(server.URL, 0).TestConnection(ctx, "mistral")
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "Ollama test failed")
	})
}

func TestListModels(t *testing.T) {
	server := tagsServer(t, http.StatusOK, `{"models":[{"name":"a:1"},{"name":"b"}]}`)

	p := New(server.URL+"/", 0)
	assert.Equal(t, server.URL, p.BaseURL())

	names, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a:1", "b"}, names)
}

func TestHasModel(t *testing.T) {
	names := []string{"mistral:latest", "llama3"}

	assert.True(t, HasModel(names, "mistral"))
	assert.True(t, HasModel(names, "mistral:latest"))
	assert.True(t, HasModel(names, "llama3"))
	assert.False(t, HasModel(names, "mist"))
	assert.False(t, HasModel(names, "llama"))
	assert.False(t, HasModel(nil, "mistral"))
}
