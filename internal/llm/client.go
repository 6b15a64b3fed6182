package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nmoreau/argus-soc/internal/models"
)

// historyLimit caps how many prior conversation turns are sent with a request.
const historyLimit = 10

const (
	maxAttempts  = 3
	retryBackoff = 500 * time.Millisecond
)

// Generator produces an assistant reply from conversation state. Implemented
// by Client; the chat service falls back to the local classifier when a
// Generator fails.
type Generator interface {
	Complete(ctx context.Context, systemContext string, history []models.ChatMessage, userMessage string) (string, error)
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a completions client. Returns nil when no API key is
// configured, in which case callers rely entirely on the local fallback.
func NewClient(apiKey, model, baseURL string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Complete sends the system context, up to the last ten conversation turns
// and the new user message, returning the generated reply. Transient failures
// are retried with exponential backoff before giving up.
func (c *Client) Complete(ctx context.Context, systemContext string, history []models.ChatMessage, userMessage string) (string, error) {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: "system", Content: systemContext})
	for _, turn := range history {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userMessage})

	body, err := json.Marshal(chatRequest{
		Model:     c.model,
		Messages:  messages,
		MaxTokens: 1200,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := retryBackoff << (attempt - 2)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			log.Warn().Int("attempt", attempt).Err(lastErr).Msg("Retrying completion request")
		}

		reply, err := c.send(ctx, body)
		if err == nil {
			return reply, nil
		}
		lastErr = err
	}
	return "", lastErr
}

func (c *Client) send(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp chatResponse
		if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Error != nil {
			return "", fmt.Errorf("completion API error: %s", errResp.Error.Message)
		}
		return "", fmt.Errorf("completion API error (status %d)", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return parsed.Choices[0].Message.Content, nil
}
