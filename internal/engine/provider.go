package engine

import (
	"context"

	"llmrouter/internal/models"
)

// Provider is the external generation capability. The dispatcher never
// calls it, it only decides which engine name to pass in; the chat
// handler owns the call and its timeout.
type Provider interface {
	Generate(ctx context.Context, engineName string, prompt string, params models.GenerationParams) (string, error)
	GetProviderName() string
}

// represents an error from an engine provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
// For current and future use across different providers
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
)
