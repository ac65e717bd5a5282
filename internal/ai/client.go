// Package ai integrates the Groq chat-completions API used for ownership
// verification and semantic item matching. The capability is optional: every
// failure surfaces as ErrUnavailable and callers fall back to local scoring.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"campusconnect/backend/internal/config"
)

const groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"

// ErrUnavailable signals that AI assessment could not be obtained, whether
// because no credential is configured, the call timed out, the service
// errored, or the response could not be parsed. Callers must degrade to
// local-only scoring, never fail the claim.
var ErrUnavailable = errors.New("ai assessment unavailable")

// Client talks to the Groq inference API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Groq client. An empty apiKey yields an unconfigured
// client whose calls all return ErrUnavailable.
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: groqAPIURL,
		httpClient: &http.Client{
			Timeout: config.AICallTimeout,
		},
	}
}

// Configured reports whether a credential is available.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	Stream         bool            `json:"stream"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type chatOptions struct {
	temperature float64
	maxTokens   int
	jsonMode    bool
}

// chat performs one completion call and returns the assistant text.
func (c *Client) chat(ctx context.Context, messages []message, opts chatOptions) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("groq api key not configured: %w", ErrUnavailable)
	}

	if opts.maxTokens == 0 {
		opts.maxTokens = 1024
	}

	request := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: opts.temperature,
		MaxTokens:   opts.maxTokens,
	}
	if opts.jsonMode {
		request.ResponseFormat = &responseFormat{Type: "json_object"}
		// Groq requires the word "json" to appear in the prompt when the
		// json_object response format is requested.
		if !mentionsJSON(messages) && len(messages) > 0 && messages[0].Role == "system" {
			request.Messages = append([]message(nil), messages...)
			request.Messages[0].Content += "\nRespond in JSON format."
		}
	}

	jsonBody, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("groq request failed: %v: %w", err, ErrUnavailable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read groq response: %v: %w", err, ErrUnavailable)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq api error: status %d, body: %s: %w", resp.StatusCode, string(body), ErrUnavailable)
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal groq response: %v: %w", err, ErrUnavailable)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices: %w", ErrUnavailable)
	}

	return result.Choices[0].Message.Content, nil
}

func mentionsJSON(messages []message) bool {
	for _, m := range messages {
		if strings.Contains(strings.ToLower(m.Content), "json") {
			return true
		}
	}
	return false
}

// extractJSON pulls the outermost JSON object or array out of text that may
// wrap it in prose or code fences.
func extractJSON(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}

	var end int
	if text[start] == '{' {
		end = strings.LastIndex(text, "}")
	} else {
		end = strings.LastIndex(text, "]")
	}
	if end <= start {
		return ""
	}
	return text[start : end+1]
}

// Ping performs a minimal round trip to verify the credential and model.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.chat(ctx, []message{
		{Role: "system", Content: `Respond with exactly: {"status":"ok"}`},
		{Role: "user", Content: "ping"},
	}, chatOptions{maxTokens: 50, jsonMode: true})
	return err
}
