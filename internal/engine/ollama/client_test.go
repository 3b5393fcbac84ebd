package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"llmrouter/internal/engine"
	"llmrouter/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client, server
}

func TestGenerate(t *testing.T) {
	var got generateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "hola desde ollama", Done: true})
	})

	out, err := client.Generate(context.Background(), "dolphin-mistral:7b", "saluda", models.GenerationParams{
		Temperature: 0.7,
		MaxTokens:   128,
		TopP:        0.9,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if out != "hola desde ollama" {
		t.Fatalf("unexpected output: %q", out)
	}

	if got.Model != "dolphin-mistral:7b" || got.Prompt != "saluda" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.Stream {
		t.Fatal("streaming must be disabled")
	}
	if got.Options["temperature"] != 0.7 || got.Options["num_predict"] != 128.0 || got.Options["top_p"] != 0.9 {
		t.Fatalf("sampling options not forwarded: %+v", got.Options)
	}
}

func TestGenerateOmitsZeroOptions(t *testing.T) {
	var got generateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(generateResponse{Response: "ok", Done: true})
	})

	if _, err := client.Generate(context.Background(), "m", "p", models.GenerationParams{}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(got.Options) != 0 {
		t.Fatalf("zero params must not be sent: %+v", got.Options)
	}
}

func TestGenerateServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := client.Generate(context.Background(), "desconocido", "hola", models.GenerationParams{})
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	var provErr *engine.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if provErr.Code != engine.ErrCodeServiceDown {
		t.Fatalf("unexpected code: %s", provErr.Code)
	}
}

func TestGenerateEmptyResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Response: "", Done: true})
	})

	_, err := client.Generate(context.Background(), "m", "p", models.GenerationParams{})
	if err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestGenerateHonorsContextCancellation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background read and can
		// observe the client disconnect; otherwise r.Context() is never
		// cancelled and server.Close in t.Cleanup deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, "m", "p", models.GenerationParams{})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	var provErr *engine.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
}

func TestGetProviderName(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if client.GetProviderName() != "ollama" {
		t.Fatalf("unexpected provider name: %s", client.GetProviderName())
	}
}

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "")
	t.Setenv("OLLAMA_TIMEOUT_SECONDS", "")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}
	if cfg.BaseURL != "http://localhost:11434" {
		t.Fatalf("unexpected base url: %s", cfg.BaseURL)
	}
	if cfg.Timeout != 60*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Timeout)
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("OLLAMA_BASE_URL", "http://ollama.internal:11434")
	t.Setenv("OLLAMA_TIMEOUT_SECONDS", "5")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}
	if cfg.BaseURL != "http://ollama.internal:11434" {
		t.Fatalf("unexpected base url: %s", cfg.BaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.Timeout)
	}
}
