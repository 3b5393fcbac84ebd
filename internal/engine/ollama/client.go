package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"llmrouter/internal/engine"
	"llmrouter/internal/models"
)

// Client talks to a local Ollama server. The engine name passed to
// Generate is the Ollama model tag (e.g. "dolphin-mistral:7b").
type Client struct {
	httpClient *http.Client
	config     *Config
}

func NewClient(config *Config) (*Client, error) {
	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
	}, nil
}

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *Client) Generate(ctx context.Context, engineName string, prompt string, params models.GenerationParams) (string, error) {
	options := make(map[string]interface{})
	if params.Temperature > 0 {
		options["temperature"] = params.Temperature
	}
	if params.MaxTokens > 0 {
		options["num_predict"] = params.MaxTokens
	}
	if params.TopP > 0 {
		options["top_p"] = params.TopP
	}

	body, err := json.Marshal(generateRequest{
		Model:   engineName,
		Prompt:  prompt,
		Stream:  false,
		Options: options,
	})
	if err != nil {
		return "", &engine.ProviderError{
			Provider: "ollama",
			Code:     engine.ErrCodeInvalidInput,
			Message:  "Failed to encode generate request",
			Err:      err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &engine.ProviderError{
			Provider: "ollama",
			Code:     engine.ErrCodeInvalidInput,
			Message:  "Failed to build generate request",
			Err:      err,
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &engine.ProviderError{
			Provider: "ollama",
			Code:     engine.ErrCodeServiceDown,
			Message:  "Failed to reach Ollama",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &engine.ProviderError{
			Provider: "ollama",
			Code:     engine.ErrCodeServiceDown,
			Message:  fmt.Sprintf("Ollama returned status %d: %s", resp.StatusCode, string(payload)),
		}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &engine.ProviderError{
			Provider: "ollama",
			Code:     engine.ErrCodeInvalidInput,
			Message:  "Failed to decode Ollama response",
			Err:      err,
		}
	}
	if out.Response == "" {
		return "", &engine.ProviderError{
			Provider: "ollama",
			Code:     engine.ErrCodeInvalidInput,
			Message:  "Empty response generated",
		}
	}

	return out.Response, nil
}

func (c *Client) GetProviderName() string {
	return "ollama"
}
