package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"llmrouter/internal/cache"
	"llmrouter/internal/config"
	"llmrouter/internal/dispatch"
	"llmrouter/internal/engine"
	_ "llmrouter/internal/engine/gemini"
	_ "llmrouter/internal/engine/ollama"
	"llmrouter/internal/feedback"
	"llmrouter/internal/handlers"
	"llmrouter/internal/jobs"
	"llmrouter/internal/models"
	"llmrouter/internal/optimizer"
	"llmrouter/internal/profiles"
	"llmrouter/internal/routers"
	"llmrouter/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func registerRoutes(router *chi.Mux, chatHandler *handlers.ChatHandler, routeHandler *handlers.RouteHandler, feedbackHandler *handlers.FeedbackHandler, cacheHandler *handlers.CacheHandler, optimizerHandler *handlers.OptimizerHandler, healthHandler *handlers.HealthHandler) {
	routers.HealthRoutes(router, healthHandler)
	routers.APIRoutes(router, chatHandler, routeHandler, feedbackHandler, cacheHandler, optimizerHandler)
}

// Helper functions for environment variables
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// initDatabase opens the store backing the cache, the generation ledger,
// the feedback records and the optimization log. Sqlite by default,
// postgres when DB_DRIVER says so.
func initDatabase() (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	switch getEnv("DB_DRIVER", "sqlite") {
	case "postgres":
		host := getEnv("POSTGRES_HOST", "localhost")
		user := getEnv("POSTGRES_USER", "postgres")
		password := getEnv("POSTGRES_PASSWORD", "postgres")
		dbname := getEnv("POSTGRES_DB", "postgres")
		port := getEnv("POSTGRES_PORT", "5432")
		sslmode := getEnv("POSTGRES_SSLMODE", "disable")

		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			host, user, password, dbname, port, sslmode)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		db, err = gorm.Open(sqlite.Open(getEnv("SQLITE_PATH", "data/llmrouter.db")), &gorm.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Generation{},
		&models.Feedback{},
		&models.CacheEntry{},
		&models.OptimizationLog{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// defaultProfiles seeds a fresh deployment with the standard local
// engine set.
func defaultProfiles() map[string]profiles.Profile {
	return map[string]profiles.Profile{
		"mixtral:8x7b": {
			Priority:     60,
			Capabilities: []string{profiles.CapReasoning},
		},
		"dolphin-mistral:7b": {
			Priority:     50,
			Capabilities: []string{profiles.CapCode, profiles.CapLightweight, profiles.CapGeneral},
		},
		"llava:7b": {
			Priority:     55,
			Capabilities: []string{profiles.CapVision},
		},
		"moondream:1.8b": {
			Priority:     30,
			Capabilities: []string{profiles.CapVision, profiles.CapLightweight},
		},
	}
}

func initProfileStore(cfg *config.Config, logger *zap.Logger) (*profiles.Store, error) {
	storage := profiles.NewFileStorage(cfg.ProfilesPath, cfg.BackupDir)

	if _, err := os.Stat(cfg.ProfilesPath); os.IsNotExist(err) {
		logger.Info("profiles file missing, seeding defaults", zap.String("path", cfg.ProfilesPath))
		if err := storage.Save(defaultProfiles()); err != nil {
			return nil, err
		}
	}

	return profiles.NewStore(storage, logger)
}

func main() {
	logger := utils.GetLogger()
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Configuration loaded",
		zap.String("provider", cfg.Provider),
		zap.String("profiles", cfg.ProfilesPath))

	profileStore, err := initProfileStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load engine profiles", zap.Error(err))
	}

	// engine provider based on configuration
	provider, err := engine.NewProvider(cfg.Provider)
	if err != nil {
		logger.Fatal("Failed to initialize engine provider", zap.Error(err))
	}

	db, err := initDatabase()
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	responseCache := cache.NewResponseCache(db, time.Duration(cfg.CacheTTLDays)*24*time.Hour, logger)
	feedbackStore := feedback.NewStore(db, logger)
	analyzer := feedback.NewAnalyzer(db, logger)
	dispatcher := dispatch.NewDispatcher(profileStore, logger)
	opt := optimizer.NewOptimizer(profileStore, analyzer, responseCache, db, cfg.FeedbackWindowDays, logger)

	optimizerJob := jobs.NewOptimizerJob(opt, &jobs.OptimizerJobConfig{
		Schedule:    cfg.OptimizeSchedule,
		Enabled:     cfg.OptimizeEnabled,
		MaxChange:   cfg.OptimizeMaxChange,
		MinFeedback: cfg.OptimizeMinFeedback,
	}, logger)
	if err := optimizerJob.Start(); err != nil {
		logger.Error("Failed to start optimizer job", zap.Error(err))
	}

	chatHandler := handlers.NewChatHandler(dispatcher, responseCache, provider, feedbackStore, logger)
	routeHandler := handlers.NewRouteHandler(dispatcher, logger)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackStore, analyzer, logger)
	cacheHandler := handlers.NewCacheHandler(responseCache, logger)
	optimizerHandler := handlers.NewOptimizerHandler(opt, cfg.OptimizeMaxChange, cfg.OptimizeMinFeedback, logger)
	healthHandler := handlers.NewHealthHandler(provider, profileStore, cfg)

	router := chi.NewRouter()

	// cors middleware
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{getEnv("DASHBOARD_ORIGIN", "http://localhost:5173")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, middleware.Timeout(90*time.Second))

	registerRoutes(router, chatHandler, routeHandler, feedbackHandler, cacheHandler, optimizerHandler, healthHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port

	// http server with timeouts; generation calls can take a while
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// starting server in a goroutine
	go func() {
		logger.Info("router service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// wait for interrupt signal to gracefully shutdown the server
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	<-shutdownChan

	logger.Info("router service shutting down...")

	optimizerJob.Stop()

	// graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("router service exited")
}
