package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"llmrouter/internal/dispatch"
	"llmrouter/internal/errs"
	"llmrouter/internal/middleware"
	"llmrouter/internal/models"
	"llmrouter/internal/utils"
)

// RouteHandler exposes the routing decision without invoking any engine,
// for dashboards and dry runs.
type RouteHandler struct {
	dispatcher *dispatch.Dispatcher
	logger     *zap.Logger
}

func NewRouteHandler(dispatcher *dispatch.Dispatcher, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{dispatcher: dispatcher, logger: logger}
}

func (h *RouteHandler) RouteHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.RouteRequest](r)

	decision, err := h.dispatcher.Route(req.Message, req.HasImage)
	if err != nil {
		var confErr *errs.ConfigurationError
		if errors.As(err, &confErr) {
			utils.JSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
				Code:    "no_engines",
				Message: "No engines are registered",
			})
			return
		}
		h.logger.Error("routing failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "routing_error",
			Message: "Failed to route request",
		})
		return
	}

	utils.JSON(w, http.StatusOK, decision)
}
