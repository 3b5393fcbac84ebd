package ollama

import (
	"os"
	"strconv"
	"time"
)

// holds Ollama-specific configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

func NewConfig() (*Config, error) {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := 60 * time.Second
	if raw := os.Getenv("OLLAMA_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}

	return &Config{
		BaseURL: baseURL,
		Timeout: timeout,
	}, nil
}
