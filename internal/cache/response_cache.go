package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"llmrouter/internal/errs"
	"llmrouter/internal/models"
	"llmrouter/internal/utils"
)

// ResponseCache is the content-addressable store of engine responses.
// Lookups and stores never fail the request: storage problems degrade to
// a miss and corrupted payloads are deleted in place.
type ResponseCache struct {
	db     *gorm.DB
	ttl    time.Duration
	logger *zap.Logger
}

func NewResponseCache(db *gorm.DB, ttl time.Duration, logger *zap.Logger) *ResponseCache {
	return &ResponseCache{db: db, ttl: ttl, logger: logger}
}

// Filter narrows an invalidation. Zero value clears everything.
type Filter struct {
	EngineName    string
	QueryContains string
}

// Hit is a successful lookup, with the post-increment hit count.
type Hit struct {
	Response  string                 `json:"response"`
	Metadata  map[string]interface{} `json:"metadata"`
	CacheKey  string                 `json:"cache_key"`
	CreatedAt time.Time              `json:"created_at"`
	HitCount  int64                  `json:"hit_count"`
}

// payload is the serialized response body. Going through JSON gives the
// corruption check a real failure mode to detect.
type payload struct {
	Text string `json:"text"`
}

// Key derives the deterministic cache key: sha256 over the normalized
// query, the engine name and the sampling params that affect output.
// Identical inputs always map to the same key.
func Key(query, engineName string, params models.GenerationParams) string {
	keyData := struct {
		Query  string                  `json:"query"`
		Engine string                  `json:"engine"`
		Params models.GenerationParams `json:"params"`
	}{
		Query:  utils.NormalizeQuery(query),
		Engine: engineName,
		Params: params,
	}

	encoded, _ := json.Marshal(keyData)
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached response for (query, engine, params) if one
// exists and has not expired. A hit atomically increments hit_count and
// refreshes last_accessed; that side effect is part of the contract.
func (c *ResponseCache) Lookup(query, engineName string, params models.GenerationParams) (*Hit, bool) {
	key := Key(query, engineName, params)
	now := time.Now()

	var entry models.CacheEntry
	if err := c.db.Where("cache_key = ?", key).First(&entry).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.logger.Warn("cache lookup failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	if !now.Before(entry.ExpiresAt) {
		// stale entry: remove it and report a miss
		c.db.Where("cache_key = ?", key).Delete(&models.CacheEntry{})
		return nil, false
	}

	// atomic counter update, concurrent hits must not lose increments
	if err := c.db.Model(&models.CacheEntry{}).
		Where("cache_key = ?", key).
		Updates(map[string]interface{}{
			"hit_count":     gorm.Expr("hit_count + ?", 1),
			"last_accessed": now,
		}).Error; err != nil {
		c.logger.Warn("cache hit count update failed", zap.String("key", key), zap.Error(err))
	}

	var body payload
	if err := json.Unmarshal([]byte(entry.Response), &body); err != nil {
		// corrupted payload: delete and treat as a miss, never surface
		c.logger.Warn("corrupted cache entry deleted",
			zap.Error(&errs.SerializationError{Key: key, Err: err}))
		c.db.Where("cache_key = ?", key).Delete(&models.CacheEntry{})
		return nil, false
	}

	metadata := make(map[string]interface{})
	if entry.Metadata != "" {
		if err := json.Unmarshal([]byte(entry.Metadata), &metadata); err != nil {
			metadata = map[string]interface{}{}
		}
	}

	return &Hit{
		Response:  body.Text,
		Metadata:  metadata,
		CacheKey:  key,
		CreatedAt: entry.CreatedAt,
		HitCount:  entry.HitCount + 1,
	}, true
}

// Store upserts an entry for (query, engine, params). A second store
// under the same key replaces the previous entry outright, resetting the
// hit counter.
func (c *ResponseCache) Store(query, engineName string, params models.GenerationParams, response string, metadata map[string]interface{}) (string, error) {
	key := Key(query, engineName, params)
	now := time.Now()

	body, err := json.Marshal(payload{Text: response})
	if err != nil {
		return "", err
	}
	meta, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}

	entry := models.CacheEntry{
		CacheKey:     key,
		Query:        query,
		EngineName:   engineName,
		Response:     string(body),
		Metadata:     string(meta),
		CreatedAt:    now,
		ExpiresAt:    now.Add(c.ttl),
		HitCount:     0,
		LastAccessed: now,
	}

	if err := c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		UpdateAll: true,
	}).Create(&entry).Error; err != nil {
		return "", err
	}
	return key, nil
}

// Invalidate deletes entries matching the filter: by engine name, by
// query substring, or all entries when the filter is empty. Returns the
// number of deleted rows.
func (c *ResponseCache) Invalidate(filter Filter) (int64, error) {
	engineName := utils.NormalizeEngineName(filter.EngineName)

	query := c.db.Model(&models.CacheEntry{})
	switch {
	case engineName != "":
		query = query.Where("engine_name = ?", engineName)
	case filter.QueryContains != "":
		query = query.Where("query LIKE ?", "%"+filter.QueryContains+"%")
	default:
		query = query.Where("1 = 1")
	}

	result := query.Delete(&models.CacheEntry{})
	if result.Error != nil {
		return 0, result.Error
	}

	c.logger.Info("cache invalidated",
		zap.Int64("deleted", result.RowsAffected),
		zap.String("engine", engineName),
		zap.String("query_contains", filter.QueryContains))
	return result.RowsAffected, nil
}

// CleanupExpired removes entries past their TTL.
func (c *ResponseCache) CleanupExpired() (int64, error) {
	result := c.db.Where("expires_at <= ?", time.Now()).Delete(&models.CacheEntry{})
	return result.RowsAffected, result.Error
}

// Stats aggregates cache counters for dashboards.
func (c *ResponseCache) Stats() (*models.CacheStats, error) {
	now := time.Now()
	stats := &models.CacheStats{
		TTLDays: c.ttl.Hours() / 24,
	}

	if err := c.db.Model(&models.CacheEntry{}).Count(&stats.TotalEntries).Error; err != nil {
		return nil, err
	}
	if err := c.db.Model(&models.CacheEntry{}).
		Where("expires_at > ?", now).
		Count(&stats.ValidEntries).Error; err != nil {
		return nil, err
	}
	stats.ExpiredEntries = stats.TotalEntries - stats.ValidEntries

	var totals struct {
		Hits int64
		Size int64
	}
	if err := c.db.Model(&models.CacheEntry{}).
		Select("COALESCE(SUM(hit_count), 0) AS hits, COALESCE(SUM(LENGTH(response)), 0) AS size").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	stats.TotalHits = totals.Hits
	stats.SizeBytes = totals.Size

	if stats.TotalEntries > 0 {
		stats.HitRatePercent = float64(stats.TotalHits) / float64(stats.TotalEntries) * 100
	}

	var top struct {
		EngineName string
		Count      int64
	}
	err := c.db.Model(&models.CacheEntry{}).
		Select("engine_name, COUNT(*) AS count").
		Group("engine_name").
		Order("count DESC").
		Limit(1).
		Scan(&top).Error
	if err == nil {
		stats.TopEngine = top.EngineName
	}

	return stats, nil
}
