package routers

import (
	"llmrouter/internal/handlers"
	"llmrouter/internal/middleware"
	"llmrouter/internal/models"

	"github.com/go-chi/chi/v5"
)

func APIRoutes(router *chi.Mux, chatHandler *handlers.ChatHandler, routeHandler *handlers.RouteHandler, feedbackHandler *handlers.FeedbackHandler, cacheHandler *handlers.CacheHandler, optimizerHandler *handlers.OptimizerHandler) {
	router.Route("/api/v1", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.ChatRequest]()).Post("/chat", chatHandler.ChatHandler)
		r.With(middleware.ValidateRequest[*models.RouteRequest]()).Post("/route", routeHandler.RouteHandler)

		r.With(middleware.ValidateRequest[*models.FeedbackRequest]()).Post("/feedback", feedbackHandler.SubmitFeedback)
		r.Get("/feedback/performance", feedbackHandler.GetPerformance)
		r.Get("/feedback/recent", feedbackHandler.GetRecent)

		r.Get("/cache/stats", cacheHandler.GetStats)
		r.With(middleware.ValidateRequest[*models.InvalidateRequest]()).Post("/cache/invalidate", cacheHandler.Invalidate)
		r.Post("/cache/cleanup", cacheHandler.Cleanup)

		r.With(middleware.ValidateRequest[*models.OptimizeRequest]()).Post("/optimize", optimizerHandler.Optimize)
		r.Get("/optimize/history", optimizerHandler.GetHistory)
	})
}
