package models

import (
	"strings"
)

type ChatRequest struct {
	Message   string           `json:"message"`
	SessionID string           `json:"session_id"`
	HasImage  bool             `json:"has_image"`
	Params    GenerationParams `json:"params"`
	RequestID string           `json:"request_id"`
}

// implements the Validator interface
func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return &ErrorResponse{
			Code:    "missing_message",
			Message: "Message field is required",
		}
	}
	if r.Params.Temperature < 0 || r.Params.Temperature > 2 {
		return &ErrorResponse{
			Code:    "invalid_temperature",
			Message: "Temperature must be between 0 and 2",
		}
	}
	if r.Params.MaxTokens < 0 {
		return &ErrorResponse{
			Code:    "invalid_max_tokens",
			Message: "max_tokens must not be negative",
		}
	}
	return nil
}

type RouteRequest struct {
	Message  string `json:"message"`
	HasImage bool   `json:"has_image"`
}

func (r *RouteRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" && !r.HasImage {
		return &ErrorResponse{
			Code:    "missing_message",
			Message: "Message field is required",
		}
	}
	return nil
}

type FeedbackRequest struct {
	MessageID uint   `json:"message_id"`
	SessionID string `json:"session_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
}

func (r *FeedbackRequest) Validate() error {
	if r.MessageID == 0 {
		return &ErrorResponse{
			Code:    "missing_message_id",
			Message: "message_id is required",
		}
	}
	if r.Rating < MinRating || r.Rating > MaxRating {
		return &ErrorResponse{
			Code:    "invalid_rating",
			Message: "Rating must be between 1 and 5",
		}
	}
	return nil
}

type InvalidateRequest struct {
	EngineName    string `json:"engine_name,omitempty"`
	QueryContains string `json:"query_contains,omitempty"`
}

// no required fields, an empty body clears the whole cache
func (r *InvalidateRequest) Validate() error {
	return nil
}

type OptimizeRequest struct {
	MaxChange   int `json:"max_change"`
	MinFeedback int `json:"min_feedback"`
}

func (r *OptimizeRequest) Validate() error {
	if r.MaxChange < 0 {
		return &ErrorResponse{
			Code:    "invalid_max_change",
			Message: "max_change must not be negative",
		}
	}
	if r.MinFeedback < 0 {
		return &ErrorResponse{
			Code:    "invalid_min_feedback",
			Message: "min_feedback must not be negative",
		}
	}
	return nil
}
