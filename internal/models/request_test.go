package models

import (
	"errors"
	"testing"
)

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var resp *ErrorResponse
	if !errors.As(err, &resp) {
		t.Fatalf("expected ErrorResponse, got %T", err)
	}
	if resp.Code != code {
		t.Fatalf("error code = %s, want %s", resp.Code, code)
	}
}

func TestChatRequestValidate(t *testing.T) {
	valid := ChatRequest{Message: "escribe una función"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	empty := ChatRequest{Message: "   "}
	assertErrorCode(t, empty.Validate(), "missing_message")

	hot := ChatRequest{Message: "hola", Params: GenerationParams{Temperature: 2.5}}
	assertErrorCode(t, hot.Validate(), "invalid_temperature")

	negative := ChatRequest{Message: "hola", Params: GenerationParams{MaxTokens: -1}}
	assertErrorCode(t, negative.Validate(), "invalid_max_tokens")
}

func TestRouteRequestValidate(t *testing.T) {
	if err := (&RouteRequest{Message: "hola"}).Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
	// image-only requests are routable without text
	if err := (&RouteRequest{HasImage: true}).Validate(); err != nil {
		t.Fatalf("image-only request rejected: %v", err)
	}
	assertErrorCode(t, (&RouteRequest{}).Validate(), "missing_message")
}

func TestFeedbackRequestValidate(t *testing.T) {
	valid := FeedbackRequest{MessageID: 1, Rating: 4}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	assertErrorCode(t, (&FeedbackRequest{Rating: 4}).Validate(), "missing_message_id")
	assertErrorCode(t, (&FeedbackRequest{MessageID: 1, Rating: 0}).Validate(), "invalid_rating")
	assertErrorCode(t, (&FeedbackRequest{MessageID: 1, Rating: 6}).Validate(), "invalid_rating")
}

func TestOptimizeRequestValidate(t *testing.T) {
	if err := (&OptimizeRequest{}).Validate(); err != nil {
		t.Fatalf("zero-valued request rejected: %v", err)
	}
	assertErrorCode(t, (&OptimizeRequest{MaxChange: -1}).Validate(), "invalid_max_change")
	assertErrorCode(t, (&OptimizeRequest{MinFeedback: -1}).Validate(), "invalid_min_feedback")
}

func TestInvalidateRequestValidate(t *testing.T) {
	// empty body is the clear-everything request
	if err := (&InvalidateRequest{}).Validate(); err != nil {
		t.Fatalf("empty invalidate rejected: %v", err)
	}
}
