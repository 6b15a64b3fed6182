package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmoreau/argus-soc/internal/models"
)

func TestNewClientWithoutKey(t *testing.T) {
	assert.Nil(t, NewClient("", "gpt-4o-mini", "https://api.openai.com/v1"))
	assert.NotNil(t, NewClient("sk-test", "gpt-4o-mini", "https://api.openai.com/v1"))
}

func completionResponse(content string) chatResponse {
	return chatResponse{Choices: []chatChoice{{Message: chatMessage{Role: "assistant", Content: content}}}}
}

func TestCompleteSuccess(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(completionResponse("All clear."))
	}))
	defer srv.Close()

	c := NewClient("sk-test", "gpt-4o-mini", srv.URL)
	reply, err := c.Complete(context.Background(), "system context", nil, "status?")
	require.NoError(t, err)
	assert.Equal(t, "All clear.", reply)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "system context", captured.Messages[0].Content)
	assert.Equal(t, "user", captured.Messages[1].Role)
	assert.Equal(t, "status?", captured.Messages[1].Content)
	assert.Equal(t, "gpt-4o-mini", captured.Model)
}

func TestCompleteTruncatesHistory(t *testing.T) {
	var captured chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(completionResponse("ok"))
	}))
	defer srv.Close()

	var history []models.ChatMessage
	for i := 0; i < 15; i++ {
		role := models.ChatRoleUser
		if i%2 == 1 {
			role = models.ChatRoleAssistant
		}
		history = append(history, models.ChatMessage{Role: role, Content: "turn"})
	}

	c := NewClient("sk-test", "gpt-4o-mini", srv.URL)
	_, err := c.Complete(context.Background(), "ctx", history, "latest")
	require.NoError(t, err)

	// system + last 10 turns + new user message
	assert.Len(t, captured.Messages, 12)
	assert.Equal(t, "latest", captured.Messages[len(captured.Messages)-1].Content)
}

func TestCompleteRetriesThenFails(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(chatResponse{Error: &apiError{Message: "upstream overloaded"}})
	}))
	defer srv.Close()

	c := NewClient("sk-test", "gpt-4o-mini", srv.URL)
	_, err := c.Complete(context.Background(), "ctx", nil, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream overloaded")
	assert.Equal(t, maxAttempts, attempts)
}

func TestCompleteRecoversAfterTransientError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(completionResponse("recovered"))
	}))
	defer srv.Close()

	c := NewClient("sk-test", "gpt-4o-mini", srv.URL)
	reply, err := c.Complete(context.Background(), "ctx", nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, "recovered", reply)
	assert.Equal(t, 2, attempts)
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer srv.Close()

	c := NewClient("sk-test", "gpt-4o-mini", srv.URL)
	_, err := c.Complete(context.Background(), "ctx", nil, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty completion response")
}
