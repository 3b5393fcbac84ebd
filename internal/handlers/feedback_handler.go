package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"llmrouter/internal/errs"
	"llmrouter/internal/feedback"
	"llmrouter/internal/middleware"
	"llmrouter/internal/models"
	"llmrouter/internal/utils"
)

type FeedbackHandler struct {
	store    *feedback.Store
	analyzer *feedback.Analyzer
	logger   *zap.Logger
}

func NewFeedbackHandler(store *feedback.Store, analyzer *feedback.Analyzer, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		store:    store,
		analyzer: analyzer,
		logger:   logger,
	}
}

// SubmitFeedback handles POST /api/v1/feedback
func (fh *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.FeedbackRequest](r)

	feedbackID, err := fh.store.RecordFeedback(req.MessageID, req.SessionID, req.Rating, req.Comment)
	if err != nil {
		var valErr *errs.ValidationError
		if errors.As(err, &valErr) {
			utils.WriteJSON(w, http.StatusBadRequest, models.ErrorResponse{
				Code:    "validation_error",
				Message: valErr.Error(),
			})
			return
		}
		fh.logger.Error("failed to submit feedback", zap.Error(err))
		utils.WriteJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "persistence_error",
			Message: "Failed to store feedback",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"feedback_id": feedbackID,
		"message_id":  req.MessageID,
		"rating":      req.Rating,
	})
}

// GetPerformance handles GET /api/v1/feedback/performance
// Query params:
// - days: trailing window to analyze (default: 7)
func (fh *FeedbackHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		if d, err := strconv.Atoi(raw); err == nil && d > 0 {
			days = d
		}
	}

	report, err := fh.analyzer.AnalyzePerformance(days)
	if err != nil {
		fh.logger.Error("failed to analyze performance", zap.Error(err))
		utils.WriteJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "analysis_error",
			Message: "Failed to analyze feedback",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, report)
}

// GetRecent handles GET /api/v1/feedback/recent
func (fh *FeedbackHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if l, err := strconv.Atoi(raw); err == nil && l > 0 {
			limit = l
		}
	}

	recent, err := fh.store.Recent(limit)
	if err != nil {
		fh.logger.Error("failed to load recent feedback", zap.Error(err))
		utils.WriteJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "persistence_error",
			Message: "Failed to load recent feedback",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, recent)
}
