package optimizer

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"llmrouter/internal/cache"
	"llmrouter/internal/feedback"
	"llmrouter/internal/models"
	"llmrouter/internal/profiles"
)

// Result statuses.
const (
	StatusOptimized = "optimized"
	StatusNoChanges = "no_changes"
	StatusNoData    = "no_data"
	StatusError     = "error"
)

// every 0.5 rating points above or below the 3.0 baseline moves priority
// by 10
const priorityPerRatingPoint = 20

// Change is one applied priority adjustment.
type Change struct {
	Engine      string `json:"engine"`
	OldPriority int    `json:"old_priority"`
	NewPriority int    `json:"new_priority"`
	Change      int    `json:"change"`
	Reason      string `json:"reason"`
}

// Result describes one optimizer run.
type Result struct {
	Status                string   `json:"status"`
	Message               string   `json:"message,omitempty"`
	Changes               []Change `json:"changes_applied"`
	TotalFeedbackAnalyzed int      `json:"total_feedback_analyzed"`
	BackupPath            string   `json:"backup_path,omitempty"`
	CacheInvalidated      int64    `json:"cache_entries_invalidated"`
}

// Optimizer closes the feedback loop: it reads the analyzer's trailing
// window, computes bounded priority deltas, persists them through the
// profile store (backup first, atomic write) and invalidates the
// response cache so stale routing outcomes are not replayed.
type Optimizer struct {
	profiles   *profiles.Store
	analyzer   *feedback.Analyzer
	cache      *cache.ResponseCache
	db         *gorm.DB
	windowDays int
	logger     *zap.Logger
}

func NewOptimizer(store *profiles.Store, analyzer *feedback.Analyzer, responseCache *cache.ResponseCache, db *gorm.DB, windowDays int, logger *zap.Logger) *Optimizer {
	return &Optimizer{
		profiles:   store,
		analyzer:   analyzer,
		cache:      responseCache,
		db:         db,
		windowDays: windowDays,
		logger:     logger,
	}
}

// Optimize runs one optimization pass. Both the scheduled job and the
// manual HTTP trigger call this same function.
func (o *Optimizer) Optimize(maxChange, minFeedback int) (*Result, error) {
	o.logger.Info("auto-optimize started",
		zap.Int("max_change", maxChange),
		zap.Int("min_feedback", minFeedback))

	report, err := o.analyzer.AnalyzePerformance(o.windowDays)
	if err != nil {
		return &Result{Status: StatusError, Message: err.Error(), Changes: []Change{}}, err
	}

	candidates := o.computeChanges(report, maxChange, minFeedback)
	if candidates == nil {
		o.logger.Warn("auto-optimize found no engine with enough feedback")
		return &Result{
			Status:  StatusNoData,
			Message: "no engine reached the minimum feedback count",
			Changes: []Change{},
		}, nil
	}

	if len(candidates) == 0 {
		o.logger.Info("auto-optimize found nothing to change",
			zap.Int("total_feedback", report.Summary.TotalFeedback))
		return &Result{
			Status:                StatusNoChanges,
			Message:               "no priority adjustments required",
			Changes:               []Change{},
			TotalFeedbackAnalyzed: report.Summary.TotalFeedback,
		}, nil
	}

	updates := make(map[string]int, len(candidates))
	for _, c := range candidates {
		updates[c.Engine] = c.NewPriority
	}

	backupPath, err := o.profiles.ApplyPriorities(updates)
	if err != nil {
		o.logger.Error("auto-optimize persistence failed", zap.Error(err))
		return &Result{Status: StatusError, Message: err.Error(), Changes: []Change{}}, err
	}

	for _, c := range candidates {
		stats := report.EnginePerformance[c.Engine]
		logEntry := models.OptimizationLog{
			EngineName:   c.Engine,
			OldPriority:  c.OldPriority,
			NewPriority:  c.NewPriority,
			ChangeAmount: c.Change,
			Reason:       c.Reason,
			AvgRating:    stats.AvgRating,
			SampleCount:  stats.Count,
		}
		if err := o.db.Create(&logEntry).Error; err != nil {
			o.logger.Error("failed to write optimization log entry",
				zap.String("engine", c.Engine), zap.Error(err))
		}
	}

	// any priority shift can change routing of previously cached queries
	invalidated, err := o.cache.Invalidate(cache.Filter{})
	if err != nil {
		o.logger.Error("cache invalidation after optimization failed", zap.Error(err))
	}

	o.logger.Info("auto-optimize completed",
		zap.Int("changes", len(candidates)),
		zap.String("backup", backupPath),
		zap.Int64("cache_invalidated", invalidated))

	return &Result{
		Status:                StatusOptimized,
		Changes:               candidates,
		TotalFeedbackAnalyzed: report.Summary.TotalFeedback,
		BackupPath:            backupPath,
		CacheInvalidated:      invalidated,
	}, nil
}

// computeChanges derives the bounded deltas. Returns nil when no engine
// met the minimum feedback count (distinct from an empty, nothing-to-do
// slice).
func (o *Optimizer) computeChanges(report *feedback.Report, maxChange, minFeedback int) []Change {
	current := o.profiles.Priorities()

	eligible := 0
	changes := []Change{}
	for engine, stats := range report.EnginePerformance {
		if stats.Count < minFeedback {
			continue
		}
		oldPriority, known := current[engine]
		if !known {
			o.logger.Warn("feedback for unregistered engine ignored", zap.String("engine", engine))
			continue
		}
		eligible++

		ratingDelta := stats.AvgRating - models.NeutralRating
		raw := int(ratingDelta * priorityPerRatingPoint)
		change := clampInt(raw, -maxChange, maxChange)

		newPriority := profiles.ClampPriority(oldPriority + change)
		if newPriority == oldPriority {
			continue
		}

		changes = append(changes, Change{
			Engine:      engine,
			OldPriority: oldPriority,
			NewPriority: newPriority,
			Change:      newPriority - oldPriority,
			Reason:      fmt.Sprintf("auto-optimization: rating %.1f over %d ratings", stats.AvgRating, stats.Count),
		})
	}

	if eligible == 0 {
		return nil
	}
	return changes
}

// History returns the most recent optimization log entries, newest first.
func (o *Optimizer) History(limit int) ([]models.OptimizationLog, error) {
	if limit <= 0 {
		limit = 50
	}

	var entries []models.OptimizationLog
	err := o.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load optimization history: %w", err)
	}
	return entries, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
