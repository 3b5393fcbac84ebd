package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"llmrouter/internal/feedback"
	"llmrouter/internal/middleware"
	"llmrouter/internal/models"
)

type feedbackFixture struct {
	submit      http.Handler
	performance http.HandlerFunc
	recent      http.HandlerFunc
	store       *feedback.Store
}

func newFeedbackFixture(t *testing.T) *feedbackFixture {
	t.Helper()

	chat := newChatFixture(t, chatEngines())
	analyzer := feedback.NewAnalyzer(chat.db, zap.NewNop())
	h := NewFeedbackHandler(chat.store, analyzer, zap.NewNop())

	return &feedbackFixture{
		submit:      middleware.ValidateRequest[*models.FeedbackRequest]()(http.HandlerFunc(h.SubmitFeedback)),
		performance: h.GetPerformance,
		recent:      h.GetRecent,
		store:       chat.store,
	}
}

func (f *feedbackFixture) recordGeneration(t *testing.T, engine string) uint {
	t.Helper()

	id, err := f.store.RecordGeneration(&models.Generation{
		RequestID:  fmt.Sprintf("req-%s-%d", engine, time.Now().UnixNano()),
		SessionID:  "session-1",
		Prompt:     "prompt",
		Response:   "respuesta",
		EngineName: engine,
	})
	if err != nil {
		t.Fatalf("RecordGeneration failed: %v", err)
	}
	return id
}

func postJSON(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmitFeedback(t *testing.T) {
	f := newFeedbackFixture(t)
	id := f.recordGeneration(t, "mixtral:8x7b")

	rec := postJSON(t, f.submit, "/api/v1/feedback", models.FeedbackRequest{
		MessageID: id,
		SessionID: "session-1",
		Rating:    5,
		Comment:   "muy útil",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["feedback_id"] == nil || resp["feedback_id"].(float64) == 0 {
		t.Fatalf("expected a feedback id, got %v", resp)
	}
}

func TestSubmitFeedbackInvalidRating(t *testing.T) {
	f := newFeedbackFixture(t)
	id := f.recordGeneration(t, "mixtral:8x7b")

	rec := postJSON(t, f.submit, "/api/v1/feedback", models.FeedbackRequest{
		MessageID: id,
		Rating:    9,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSubmitFeedbackUnknownMessage(t *testing.T) {
	f := newFeedbackFixture(t)

	rec := postJSON(t, f.submit, "/api/v1/feedback", models.FeedbackRequest{
		MessageID: 9999,
		Rating:    4,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "validation_error" {
		t.Fatalf("unexpected error code: %s", resp.Code)
	}
}

func TestGetPerformance(t *testing.T) {
	f := newFeedbackFixture(t)
	id := f.recordGeneration(t, "mixtral:8x7b")
	if rec := postJSON(t, f.submit, "/api/v1/feedback", models.FeedbackRequest{MessageID: id, Rating: 5}); rec.Code != http.StatusOK {
		t.Fatalf("feedback submission failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feedback/performance?days=30", nil)
	rec := httptest.NewRecorder()
	f.performance(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var report feedback.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if report.PeriodDays != 30 {
		t.Fatalf("days parameter ignored, got %d", report.PeriodDays)
	}
	if report.Summary.TotalFeedback != 1 {
		t.Fatalf("unexpected total feedback: %d", report.Summary.TotalFeedback)
	}
}

func TestGetRecent(t *testing.T) {
	f := newFeedbackFixture(t)
	for i := 0; i < 3; i++ {
		id := f.recordGeneration(t, "mixtral:8x7b")
		if rec := postJSON(t, f.submit, "/api/v1/feedback", models.FeedbackRequest{MessageID: id, Rating: 3}); rec.Code != http.StatusOK {
			t.Fatalf("feedback submission failed: %d", rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feedback/recent?limit=2", nil)
	rec := httptest.NewRecorder()
	f.recent(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var rows []feedback.RecentFeedback
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("failed to decode rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("limit ignored, got %d rows", len(rows))
	}
}
