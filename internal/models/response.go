package models

// chat completion served through the dispatcher
type ChatResponse struct {
	MessageID  uint             `json:"message_id"`
	RequestID  string           `json:"request_id"`
	EngineName string           `json:"engine_name"`
	Response   string           `json:"response"`
	Confidence int              `json:"confidence"`
	Reasoning  string           `json:"reasoning"`
	Cached     bool             `json:"cached"`
	Metadata   ResponseMetadata `json:"metadata"`
}

// additional information about the generation
type ResponseMetadata struct {
	ProcessingTime int    `json:"processing_time_ms"`
	Provider       string `json:"provider,omitempty"`
}

// returned when the dispatcher cannot pick an engine from the text alone
type ClarificationResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// uniform error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}
