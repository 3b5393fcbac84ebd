package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"llmrouter/internal/dispatch"
	"llmrouter/internal/middleware"
	"llmrouter/internal/models"
	"llmrouter/internal/profiles"
)

func newRouteFixture(t *testing.T, set map[string]profiles.Profile) http.Handler {
	t.Helper()

	store, err := profiles.NewStore(profiles.NewMemoryStorage(set), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to build profile store: %v", err)
	}
	h := NewRouteHandler(dispatch.NewDispatcher(store, zap.NewNop()), zap.NewNop())
	return middleware.ValidateRequest[*models.RouteRequest]()(http.HandlerFunc(h.RouteHandler))
}

func TestRouteDryRunReturnsDecision(t *testing.T) {
	h := newRouteFixture(t, chatEngines())

	rec := postJSON(t, h, "/api/v1/route", models.RouteRequest{
		Message: "escribe una función de merge sort en python",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var decision dispatch.Decision
	if err := json.Unmarshal(rec.Body.Bytes(), &decision); err != nil {
		t.Fatalf("failed to decode decision: %v", err)
	}
	if decision.Status != dispatch.StatusOk {
		t.Fatalf("unexpected status: %s", decision.Status)
	}
	if decision.Engine != "dolphin-mistral:7b" {
		t.Fatalf("unexpected engine: %s", decision.Engine)
	}
	if decision.Reasoning == "" {
		t.Fatal("decision must carry reasoning")
	}
}

func TestRouteDryRunNoEngines(t *testing.T) {
	h := newRouteFixture(t, map[string]profiles.Profile{})

	rec := postJSON(t, h, "/api/v1/route", models.RouteRequest{Message: "hola que tal"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRouteDryRunMissingMessage(t *testing.T) {
	h := newRouteFixture(t, chatEngines())

	rec := postJSON(t, h, "/api/v1/route", models.RouteRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRouteDryRunImageOnly(t *testing.T) {
	h := newRouteFixture(t, map[string]profiles.Profile{
		"llava:7b": {Priority: 55, Capabilities: []string{profiles.CapVision}},
	})

	rec := postJSON(t, h, "/api/v1/route", models.RouteRequest{HasImage: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var decision dispatch.Decision
	if err := json.Unmarshal(rec.Body.Bytes(), &decision); err != nil {
		t.Fatalf("failed to decode decision: %v", err)
	}
	if decision.Engine != "llava:7b" {
		t.Fatalf("unexpected engine: %s", decision.Engine)
	}
}
