package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatServer answers chat completions and hands each decoded request body to bodies.
func chatServer(t *testing.T, bodies chan<- map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		bodies <- body
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAICompatSendsZeroTemperature(t *testing.T) {
	bodies := make(chan map[string]any, 1)
	srv := chatServer(t, bodies)
	p := &OpenAICompatProvider{APIKey: "k", BaseURL: srv.URL}

	out, err := p.GenerateResponse(context.Background(), "hi", "", Options{Temperature: Temperature(0)})
	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	body := <-bodies
	temp, ok := body["temperature"]
	require.True(t, ok, "temperature missing from request")
	assert.InDelta(t, 0, temp, 1e-6)
}

func TestOpenAICompatForwardsTemperatureAndSystemPrompt(t *testing.T) {
	bodies := make(chan map[string]any, 1)
	srv := chatServer(t, bodies)
	p := &OpenAICompatProvider{APIKey: "k", BaseURL: srv.URL, Model: "m1"}

	_, err := p.GenerateResponse(context.Background(), "hi", "be brief", Options{Temperature: Temperature(0.7)})
	require.NoError(t, err)

	body := <-bodies
	assert.Equal(t, "m1", body["model"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-6)
	messages, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
}

func TestOpenAICompatOmitsTemperatureWhenUnset(t *testing.T) {
	bodies := make(chan map[string]any, 1)
	srv := chatServer(t, bodies)
	p := &OpenAICompatProvider{APIKey: "k", BaseURL: srv.URL}

	_, err := p.GenerateResponse(context.Background(), "hi", "", Options{})
	require.NoError(t, err)
	_, ok := (<-bodies)["temperature"]
	assert.False(t, ok)
}
