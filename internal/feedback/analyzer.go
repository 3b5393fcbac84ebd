package feedback

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"llmrouter/internal/models"
)

// below this many samples in the window the report carries an
// insufficient-data warning
const minReliableSamples = 10

// rating spread between best and worst engine that triggers a
// rebalancing suggestion
const ratingGapThreshold = 1.0

// EngineStats aggregates one engine's ratings over the trailing window.
type EngineStats struct {
	Count       int     `json:"count"`
	AvgRating   float64 `json:"avg_rating"`
	MinRating   int     `json:"min_rating"`
	MaxRating   int     `json:"max_rating"`
	GoodRatings int     `json:"good_ratings"`
	BadRatings  int     `json:"bad_ratings"`
	GoodPercent float64 `json:"good_percent"`
	BadPercent  float64 `json:"bad_percent"`
}

type Summary struct {
	TotalFeedback int    `json:"total_feedback"`
	BestEngine    string `json:"best_engine,omitempty"`
	WorstEngine   string `json:"worst_engine,omitempty"`
}

// Report is the analyzer's output for one trailing window.
type Report struct {
	PeriodDays        int                    `json:"period_days"`
	AnalyzedAt        time.Time              `json:"analyzed_at"`
	EnginePerformance map[string]EngineStats `json:"engine_performance"`
	Suggestions       []string               `json:"suggestions"`
	Summary           Summary                `json:"summary"`
}

// Analyzer derives per-engine statistics from the feedback ledger.
type Analyzer struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewAnalyzer(db *gorm.DB, logger *zap.Logger) *Analyzer {
	return &Analyzer{db: db, logger: logger}
}

// AnalyzePerformance aggregates every engine with at least one feedback
// record in the trailing window: counts, mean/min/max rating and
// good/bad ratios, plus qualitative suggestions.
func (a *Analyzer) AnalyzePerformance(windowDays int) (*Report, error) {
	cutoff := time.Now().AddDate(0, 0, -windowDays)

	var rows []struct {
		EngineName  string
		Count       int
		AvgRating   float64
		MinRating   int
		MaxRating   int
		GoodRatings int
		BadRatings  int
	}
	err := a.db.Model(&models.Feedback{}).
		Select(`engine_name,
			COUNT(*) AS count,
			AVG(rating) AS avg_rating,
			MIN(rating) AS min_rating,
			MAX(rating) AS max_rating,
			SUM(CASE WHEN rating >= ? THEN 1 ELSE 0 END) AS good_ratings,
			SUM(CASE WHEN rating <= ? THEN 1 ELSE 0 END) AS bad_ratings`,
			models.GoodRatingFrom, models.BadRatingUpTo).
		Where("created_at >= ?", cutoff).
		Group("engine_name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate feedback: %w", err)
	}

	report := &Report{
		PeriodDays:        windowDays,
		AnalyzedAt:        time.Now(),
		EnginePerformance: make(map[string]EngineStats, len(rows)),
	}

	for _, row := range rows {
		stats := EngineStats{
			Count:       row.Count,
			AvgRating:   math.Round(row.AvgRating*100) / 100,
			MinRating:   row.MinRating,
			MaxRating:   row.MaxRating,
			GoodRatings: row.GoodRatings,
			BadRatings:  row.BadRatings,
		}
		if row.Count > 0 {
			stats.GoodPercent = math.Round(float64(row.GoodRatings)/float64(row.Count)*1000) / 10
			stats.BadPercent = math.Round(float64(row.BadRatings)/float64(row.Count)*1000) / 10
		}
		report.EnginePerformance[row.EngineName] = stats
		report.Summary.TotalFeedback += row.Count
	}

	report.Summary.BestEngine, report.Summary.WorstEngine = bestAndWorst(report.EnginePerformance)
	report.Suggestions = suggestions(report)

	a.logger.Info("performance analyzed",
		zap.Int("window_days", windowDays),
		zap.Int("engines", len(rows)),
		zap.Int("total_feedback", report.Summary.TotalFeedback))
	return report, nil
}

func bestAndWorst(perf map[string]EngineStats) (best, worst string) {
	for name, stats := range perf {
		if best == "" || stats.AvgRating > perf[best].AvgRating ||
			(stats.AvgRating == perf[best].AvgRating && name < best) {
			best = name
		}
		if worst == "" || stats.AvgRating < perf[worst].AvgRating ||
			(stats.AvgRating == perf[worst].AvgRating && name < worst) {
			worst = name
		}
	}
	return best, worst
}

func suggestions(report *Report) []string {
	perf := report.EnginePerformance
	if len(perf) == 0 {
		return []string{"Not enough feedback to generate suggestions."}
	}

	var out []string
	best, worst := report.Summary.BestEngine, report.Summary.WorstEngine

	if perf[best].AvgRating > 4.0 {
		out = append(out, fmt.Sprintf("%s is performing excellently (rating %.2f)", best, perf[best].AvgRating))
	}
	if perf[worst].AvgRating < 3.0 {
		out = append(out, fmt.Sprintf("%s needs attention (rating %.2f)", worst, perf[worst].AvgRating))
	}
	if report.Summary.TotalFeedback < minReliableSamples {
		out = append(out, fmt.Sprintf("More feedback needed (minimum %d ratings) for a reliable analysis", minReliableSamples))
	}
	if len(perf) > 1 && perf[best].AvgRating-perf[worst].AvgRating > ratingGapThreshold {
		out = append(out, "Large quality gap between engines, consider rebalancing priorities")
	}
	return out
}
