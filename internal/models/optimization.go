package models

import "gorm.io/gorm"

// OptimizationLog is the audit trail of priority adjustments: one row per
// engine per optimizer run that produced a nonzero change.
type OptimizationLog struct {
	gorm.Model
	EngineName   string  `gorm:"not null;index" json:"engine_name"`
	OldPriority  int     `gorm:"not null" json:"old_priority"`
	NewPriority  int     `gorm:"not null" json:"new_priority"`
	ChangeAmount int     `gorm:"not null" json:"change_amount"`
	Reason       string  `gorm:"not null" json:"reason"`
	AvgRating    float64 `json:"avg_rating"`
	SampleCount  int     `json:"sample_count"`
}
