package models

import (
	"gorm.io/gorm"
)

// Feedback is a human rating of a previously generated response.
// Append-only: rows are aggregated by the analyzer but never mutated.
type Feedback struct {
	gorm.Model
	MessageID  uint   `gorm:"not null;index" json:"message_id"`
	SessionID  string `gorm:"index" json:"session_id"`
	Rating     int    `gorm:"not null" json:"rating"` // 1-5, 1=bad, 5=excellent
	Comment    string `gorm:"type:text" json:"comment"`
	EngineName string `gorm:"not null;index" json:"engine_name"`
}

// Rating bounds on the 1-5 scale. 3.0 is the neutral baseline the
// optimizer measures deltas against.
const (
	MinRating      = 1
	MaxRating      = 5
	NeutralRating  = 3.0
	GoodRatingFrom = 4
	BadRatingUpTo  = 2
)
