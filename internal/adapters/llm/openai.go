// Package llm provides CompletionClient implementations for the chat
// providers the bot can talk to.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PabloGalante/quip-agent/internal/domain"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAIDefaultModel   = "gpt-4"
	openAIDefaultTokens  = 400
)

// OpenAIClient calls an OpenAI-compatible chat completions endpoint. It
// works against api.openai.com as well as any server speaking the same
// wire format (proxies, local runtimes).
type OpenAIClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewOpenAIClient builds a client for the given credential. baseURL may be
// empty, in which case the public OpenAI endpoint is used.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	if baseURL == "" {
		baseURL = openAIDefaultBaseURL
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

type chatCompletionsRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens,omitempty"`
}

type chatChoice struct {
	Message domain.ChatMessage `json:"message"`
}

type chatCompletionsResponse struct {
	Choices []chatChoice `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *OpenAIClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: missing API key", domain.ErrCompletionFailed)
	}

	model := req.Model
	if model == "" {
		model = openAIDefaultModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = openAIDefaultTokens
	}

	payload, err := json.Marshal(chatCompletionsRequest{
		Model:       model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encoding request: %v", domain.ErrCompletionFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: building request: %v", domain.ErrCompletionFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", domain.ErrCompletionFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("%w: %s (status %d)", domain.ErrCompletionFailed, apiErr.Error.Message, resp.StatusCode)
		}
		return "", fmt.Errorf("%w: unexpected status %d", domain.ErrCompletionFailed, resp.StatusCode)
	}

	var completion chatCompletionsResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", domain.ErrCompletionFailed, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: response contained no choices", domain.ErrCompletionFailed)
	}

	return completion.Choices[0].Message.Content, nil
}
