package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"llmrouter/internal/middleware"
	"llmrouter/internal/models"
	"llmrouter/internal/optimizer"
	"llmrouter/internal/utils"
)

// OptimizerHandler is the manual trigger surface. It calls the same
// Optimize function the scheduled job uses.
type OptimizerHandler struct {
	optimizer          *optimizer.Optimizer
	defaultMaxChange   int
	defaultMinFeedback int
	logger             *zap.Logger
}

func NewOptimizerHandler(opt *optimizer.Optimizer, defaultMaxChange, defaultMinFeedback int, logger *zap.Logger) *OptimizerHandler {
	return &OptimizerHandler{
		optimizer:          opt,
		defaultMaxChange:   defaultMaxChange,
		defaultMinFeedback: defaultMinFeedback,
		logger:             logger,
	}
}

// Optimize handles POST /api/v1/optimize. Zero-valued fields fall back
// to the configured defaults.
func (oh *OptimizerHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.OptimizeRequest](r)

	maxChange := req.MaxChange
	if maxChange == 0 {
		maxChange = oh.defaultMaxChange
	}
	minFeedback := req.MinFeedback
	if minFeedback == 0 {
		minFeedback = oh.defaultMinFeedback
	}

	result, err := oh.optimizer.Optimize(maxChange, minFeedback)
	if err != nil {
		oh.logger.Error("manual optimization failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, result)
		return
	}

	utils.JSON(w, http.StatusOK, result)
}

// GetHistory handles GET /api/v1/optimize/history
func (oh *OptimizerHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l > 0 {
			limit = l
		}
	}

	history, err := oh.optimizer.History(limit)
	if err != nil {
		oh.logger.Error("failed to load optimization history", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "persistence_error",
			Message: "Failed to load optimization history",
		})
		return
	}

	utils.JSON(w, http.StatusOK, history)
}
