package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/aihttp"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewLLMService(LLMConfig{
		BaseURL:       server.URL,
		ClientOptions: []aihttp.Option{aihttp.WithMaxRetries(0)},
	})
}

func TestChat(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, DefaultLLMModel, req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"Paris"},"done":true}`))
	})

	answer, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "You are a helpful assistant."},
		{Role: driven.RoleUser, Content: "Capital of France?"},
	}, driven.ChatOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Paris", answer)
}

func TestChat_ForwardsOptions(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Options)
		assert.Equal(t, 10, req.Options.NumPredict)
		assert.Equal(t, []string{"STOP"}, req.Options.Stop)

		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"hi there"},"done":true}`))
	})

	out, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: driven.RoleUser, Content: "hello"}},
		driven.ChatOptions{MaxTokens: 10, Stop: []string{"STOP"}})
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)
}

func TestChat_ServerDown(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: driven.RoleUser, Content: "q"}}, driven.ChatOptions{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	})
	assert.NoError(t, svc.Ping(context.Background()))
}
