package jobs

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"llmrouter/internal/optimizer"
)

// OptimizerJob runs the auto-optimizer on a cron schedule. The manual
// trigger endpoint shares the same Optimize code path via RunManual.
type OptimizerJob struct {
	optimizer *optimizer.Optimizer
	config    *OptimizerJobConfig
	cron      *cron.Cron
	logger    *zap.Logger
}

// OptimizerJobConfig contains configuration for the scheduled job.
type OptimizerJobConfig struct {
	Schedule    string // cron schedule (e.g., "0 3 * * *" for 3 AM daily)
	Enabled     bool
	MaxChange   int // maximum priority delta per engine per run
	MinFeedback int // minimum ratings before an engine is optimized
}

func NewOptimizerJob(opt *optimizer.Optimizer, config *OptimizerJobConfig, logger *zap.Logger) *OptimizerJob {
	return &OptimizerJob{
		optimizer: opt,
		config:    config,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start begins the scheduled optimization job.
func (oj *OptimizerJob) Start() error {
	if !oj.config.Enabled {
		oj.logger.Info("auto-optimization disabled, skipping scheduler")
		return nil
	}

	oj.logger.Info("starting auto-optimizer", zap.String("schedule", oj.config.Schedule))

	_, err := oj.cron.AddFunc(oj.config.Schedule, func() {
		if _, err := oj.Run(); err != nil {
			// surfaced to the log only; the next tick retries
			oj.logger.Error("scheduled optimization failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule optimizer job: %w", err)
	}

	oj.cron.Start()
	oj.logger.Info("auto-optimizer started")
	return nil
}

// Stop stops the scheduled job. Safe to call when never started.
func (oj *OptimizerJob) Stop() {
	if oj.cron != nil {
		oj.cron.Stop()
		oj.logger.Info("auto-optimizer stopped")
	}
}

// Run performs a single optimization pass.
func (oj *OptimizerJob) Run() (*optimizer.Result, error) {
	result, err := oj.optimizer.Optimize(oj.config.MaxChange, oj.config.MinFeedback)
	if err != nil {
		return result, err
	}

	oj.logger.Info("optimization run finished",
		zap.String("status", result.Status),
		zap.Int("changes", len(result.Changes)))
	return result, nil
}

// RunManual runs an optimization on demand (for the manual trigger
// endpoint or operator tooling).
func (oj *OptimizerJob) RunManual() (*optimizer.Result, error) {
	return oj.Run()
}
