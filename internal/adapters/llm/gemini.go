package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/quip-agent/internal/domain"
	"google.golang.org/genai"
)

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a CompletionClient backed by the Gemini API.
// The genai SDK picks up GEMINI_API_KEY / GOOGLE_API_KEY from the
// environment. modelName is the fallback used when a request does not
// name a model.
func NewGeminiClient(ctx context.Context, modelName string) (*GeminiClient, error) {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Complete implements domain.CompletionClient on top of Gemini. A leading
// system message becomes the model's system instruction; the rest of the
// transcript maps onto Gemini's user/model roles.
func (g *GeminiClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	messages := req.Messages

	var systemInstruction *genai.Content
	if len(messages) > 0 && messages[0].Role == domain.RoleSystem {
		// Per the official examples the instruction content carries
		// RoleUser, not a "system" role.
		systemInstruction = genai.NewContentFromText(messages[0].Content, genai.RoleUser)
		messages = messages[1:]
	}

	var contents []*genai.Content
	for _, m := range messages {
		var role genai.Role
		switch m.Role {
		case domain.RoleAssistant:
			role = genai.RoleModel
		default:
			role = genai.RoleUser
		}

		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	temp := float32(req.Temperature)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: systemInstruction,
		Temperature:       &temp,
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	model := req.Model
	if model == "" {
		model = g.modelName
	}

	res, err := g.client.Models.GenerateContent(ctx, model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: model returned empty text", domain.ErrCompletionFailed)
	}

	return text, nil
}
