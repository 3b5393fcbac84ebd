package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"llmrouter/internal/cache"
	"llmrouter/internal/middleware"
	"llmrouter/internal/models"
	"llmrouter/internal/utils"
)

type CacheHandler struct {
	cache  *cache.ResponseCache
	logger *zap.Logger
}

func NewCacheHandler(responseCache *cache.ResponseCache, logger *zap.Logger) *CacheHandler {
	return &CacheHandler{cache: responseCache, logger: logger}
}

// GetStats handles GET /api/v1/cache/stats
func (ch *CacheHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := ch.cache.Stats()
	if err != nil {
		ch.logger.Error("failed to read cache stats", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "persistence_error",
			Message: "Failed to read cache stats",
		})
		return
	}

	utils.JSON(w, http.StatusOK, stats)
}

// Invalidate handles POST /api/v1/cache/invalidate. An empty body clears
// the whole cache; engine_name or query_contains narrow the deletion.
func (ch *CacheHandler) Invalidate(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.InvalidateRequest](r)

	deleted, err := ch.cache.Invalidate(cache.Filter{
		EngineName:    req.EngineName,
		QueryContains: req.QueryContains,
	})
	if err != nil {
		ch.logger.Error("cache invalidation failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "persistence_error",
			Message: "Failed to invalidate cache",
		})
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"deleted": deleted,
	})
}

// Cleanup handles POST /api/v1/cache/cleanup, removing expired entries.
func (ch *CacheHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	removed, err := ch.cache.CleanupExpired()
	if err != nil {
		ch.logger.Error("cache cleanup failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "persistence_error",
			Message: "Failed to clean up cache",
		})
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"removed": removed,
	})
}
