package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"llmrouter/internal/cache"
	"llmrouter/internal/dispatch"
	"llmrouter/internal/engine"
	"llmrouter/internal/errs"
	"llmrouter/internal/feedback"
	"llmrouter/internal/middleware"
	"llmrouter/internal/models"
	"llmrouter/internal/utils"
)

// ChatHandler runs the full request path: route, cache lookup, engine
// call on miss, cache store, ledger entry.
type ChatHandler struct {
	dispatcher *dispatch.Dispatcher
	cache      *cache.ResponseCache
	provider   engine.Provider
	store      *feedback.Store
	logger     *zap.Logger
}

func NewChatHandler(dispatcher *dispatch.Dispatcher, responseCache *cache.ResponseCache, provider engine.Provider, store *feedback.Store, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		dispatcher: dispatcher,
		cache:      responseCache,
		provider:   provider,
		store:      store,
		logger:     logger,
	}
}

func (h *ChatHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ChatRequest](r)
	req.RequestID = ensureRequestID(req.RequestID)

	decision, err := h.dispatcher.Route(req.Message, req.HasImage)
	if err != nil {
		var confErr *errs.ConfigurationError
		if errors.As(err, &confErr) {
			h.logger.Error("routing unavailable", zap.Error(err))
			utils.JSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
				Code:    "no_engines",
				Message: "No engines are registered",
			})
			return
		}
		h.logger.Error("routing failed", zap.Error(err), zap.String("request_id", req.RequestID))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "routing_error",
			Message: "Failed to route request",
		})
		return
	}

	if decision.Status == dispatch.StatusNeedsClarification {
		// no engine gets charged for this request
		utils.JSON(w, http.StatusOK, models.ClarificationResponse{
			Status:    string(decision.Status),
			Message:   decision.Clarification,
			RequestID: req.RequestID,
		})
		return
	}

	if hit, found := h.cache.Lookup(req.Message, decision.Engine, req.Params); found {
		h.respond(w, req, decision, hit.Response, true, 0)
		return
	}

	start := time.Now()
	response, servedBy, err := h.generateWithFallback(r, req, decision)
	if err != nil {
		h.logger.Error("engine call failed", zap.Error(err), zap.String("request_id", req.RequestID))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "engine_error",
			Message: "Failed to generate response",
		})
		return
	}
	processingTime := int(time.Since(start).Milliseconds())

	if servedBy != decision.Engine {
		decision.Engine = servedBy
	}

	if _, err := h.cache.Store(req.Message, servedBy, req.Params, response, map[string]interface{}{
		"processing_time_ms": processingTime,
		"provider":           h.provider.GetProviderName(),
	}); err != nil {
		// losing a cache entry must not fail the request
		h.logger.Warn("failed to cache response", zap.Error(err), zap.String("request_id", req.RequestID))
	}

	h.respond(w, req, decision, response, false, processingTime)
}

// generateWithFallback tries the winning engine first, then the ranked
// alternatives, so one unavailable backend does not fail the request.
func (h *ChatHandler) generateWithFallback(r *http.Request, req *models.ChatRequest, decision *dispatch.Decision) (string, string, error) {
	engines := []string{decision.Engine}
	for _, alt := range decision.Alternatives {
		engines = append(engines, alt.Engine)
	}

	var lastErr error
	for _, name := range engines {
		response, err := h.provider.Generate(r.Context(), name, req.Message, req.Params)
		if err == nil {
			return response, name, nil
		}
		lastErr = err
		h.logger.Warn("engine failed, trying alternative",
			zap.String("engine", name),
			zap.Error(err),
			zap.String("request_id", req.RequestID))
	}
	return "", "", lastErr
}

func (h *ChatHandler) respond(w http.ResponseWriter, req *models.ChatRequest, decision *dispatch.Decision, response string, cached bool, processingTime int) {
	gen := &models.Generation{
		RequestID:  req.RequestID,
		SessionID:  req.SessionID,
		Prompt:     req.Message,
		Response:   response,
		EngineName: decision.Engine,
		Confidence: decision.Confidence,
		Cached:     cached,
	}
	messageID, err := h.store.RecordGeneration(gen)
	if err != nil {
		// the ledger is what feedback references, so this one is fatal
		h.logger.Error("failed to record generation", zap.Error(err), zap.String("request_id", req.RequestID))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "persistence_error",
			Message: "Failed to record response",
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.ChatResponse{
		MessageID:  messageID,
		RequestID:  req.RequestID,
		EngineName: decision.Engine,
		Response:   response,
		Confidence: decision.Confidence,
		Reasoning:  decision.Reasoning,
		Cached:     cached,
		Metadata: models.ResponseMetadata{
			ProcessingTime: processingTime,
			Provider:       h.provider.GetProviderName(),
		},
	})
}

func generateRequestID() string {
	return uuid.New().String()
}

// ensureRequestID generates a request ID if one is not provided
func ensureRequestID(requestID string) string {
	if requestID == "" {
		return generateRequestID()
	}
	return requestID
}
