package models

import "time"

// CacheEntry is one cached engine response, keyed by a deterministic hash
// of (normalized query, engine name, generation params). Upsert semantics:
// at most one row per key.
type CacheEntry struct {
	CacheKey     string    `gorm:"primaryKey" json:"cache_key"`
	Query        string    `gorm:"type:text;not null;index:idx_cache_query_engine" json:"query"`
	EngineName   string    `gorm:"not null;index;index:idx_cache_query_engine" json:"engine_name"`
	Response     string    `gorm:"type:text;not null" json:"response"`
	Metadata     string    `gorm:"type:text" json:"metadata"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `gorm:"index" json:"expires_at"`
	HitCount     int64     `gorm:"not null;default:0" json:"hit_count"`
	LastAccessed time.Time `json:"last_accessed"`
}

// CacheStats is the aggregate view the dashboard reads.
type CacheStats struct {
	TotalEntries   int64   `json:"total_entries"`
	ValidEntries   int64   `json:"valid_entries"`
	ExpiredEntries int64   `json:"expired_entries"`
	TotalHits      int64   `json:"total_hits"`
	HitRatePercent float64 `json:"hit_rate_percent"`
	SizeBytes      int64   `json:"size_bytes"`
	TopEngine      string  `json:"top_engine"`
	TTLDays        float64 `json:"ttl_days"`
}
