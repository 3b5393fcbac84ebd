package models

import (
	"gorm.io/gorm"
)

// Generation is the ledger of engine responses. Feedback must reference a
// row here, which is how "unknown message" submissions get rejected.
type Generation struct {
	gorm.Model
	RequestID  string `gorm:"uniqueIndex;not null" json:"request_id"`
	SessionID  string `gorm:"index" json:"session_id"`
	Prompt     string `gorm:"type:text;not null" json:"prompt"`
	Response   string `gorm:"type:text;not null" json:"response"`
	EngineName string `gorm:"not null;index" json:"engine_name"`
	Confidence int    `gorm:"not null" json:"confidence"`
	Cached     bool   `gorm:"not null;default:false" json:"cached"`
}

// GenerationParams is the subset of sampling parameters that changes the
// produced text, and therefore participates in the cache key.
type GenerationParams struct {
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
}
