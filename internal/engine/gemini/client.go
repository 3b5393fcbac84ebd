package gemini

import (
	"context"

	"google.golang.org/genai"

	"llmrouter/internal/engine"
	"llmrouter/internal/models"
)

// Client serves engine calls through the Gemini API. The engine name is
// used as the Gemini model identifier; the configured default applies
// when the profile name carries no model.
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &engine.ProviderError{
			Provider: "gemini",
			Code:     engine.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

func (c *Client) Generate(ctx context.Context, engineName string, prompt string, params models.GenerationParams) (string, error) {
	model := engineName
	if model == "" {
		model = c.config.DefaultModel
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", &engine.ProviderError{
			Provider: "gemini",
			Code:     engine.ErrCodeServiceDown,
			Message:  "Failed to generate response",
			Err:      err,
		}
	}

	if result == nil {
		return "", &engine.ProviderError{
			Provider: "gemini",
			Code:     engine.ErrCodeInvalidInput,
			Message:  "No response generated",
		}
	}

	text, err := result.Text()
	if err != nil {
		return "", &engine.ProviderError{
			Provider: "gemini",
			Code:     engine.ErrCodeInvalidInput,
			Message:  "Failed to extract response text",
			Err:      err,
		}
	}
	if text == "" {
		return "", &engine.ProviderError{
			Provider: "gemini",
			Code:     engine.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}

	return text, nil
}

func (c *Client) GetProviderName() string {
	return "gemini"
}
