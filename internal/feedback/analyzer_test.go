package feedback

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func seedRatings(t *testing.T, s *Store, engine string, ratings ...int) {
	t.Helper()

	for _, rating := range ratings {
		id := recordTestGeneration(t, s, engine, "prompt")
		if _, err := s.RecordFeedback(id, "session-1", rating, ""); err != nil {
			t.Fatalf("RecordFeedback failed: %v", err)
		}
	}
}

func TestAnalyzePerformanceAggregates(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db, zap.NewNop())
	a := NewAnalyzer(db, zap.NewNop())

	seedRatings(t, s, "mixtral:8x7b", 5, 4, 5, 4)
	seedRatings(t, s, "dolphin-mistral:7b", 2, 1, 3)

	report, err := a.AnalyzePerformance(7)
	if err != nil {
		t.Fatalf("AnalyzePerformance failed: %v", err)
	}

	mix, ok := report.EnginePerformance["mixtral:8x7b"]
	if !ok {
		t.Fatal("mixtral missing from report")
	}
	if mix.Count != 4 || mix.AvgRating != 4.5 || mix.MinRating != 4 || mix.MaxRating != 5 {
		t.Fatalf("unexpected mixtral stats: %+v", mix)
	}
	if mix.GoodRatings != 4 || mix.GoodPercent != 100 {
		t.Fatalf("good ratio wrong: %+v", mix)
	}

	dol := report.EnginePerformance["dolphin-mistral:7b"]
	if dol.Count != 3 || dol.BadRatings != 2 {
		t.Fatalf("unexpected dolphin stats: %+v", dol)
	}

	if report.Summary.TotalFeedback != 7 {
		t.Fatalf("total feedback = %d, want 7", report.Summary.TotalFeedback)
	}
	if report.Summary.BestEngine != "mixtral:8x7b" || report.Summary.WorstEngine != "dolphin-mistral:7b" {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
}

func TestAnalyzePerformanceEmptyLedger(t *testing.T) {
	a := NewAnalyzer(newTestDB(t), zap.NewNop())

	report, err := a.AnalyzePerformance(7)
	if err != nil {
		t.Fatalf("AnalyzePerformance failed: %v", err)
	}
	if len(report.EnginePerformance) != 0 {
		t.Fatalf("expected no engines, got %d", len(report.EnginePerformance))
	}
	if report.Summary.TotalFeedback != 0 {
		t.Fatalf("expected zero feedback, got %d", report.Summary.TotalFeedback)
	}
	if len(report.Suggestions) != 1 || !strings.Contains(report.Suggestions[0], "Not enough feedback") {
		t.Fatalf("unexpected suggestions: %v", report.Suggestions)
	}
}

func TestSuggestionsFlagExtremesAndGap(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db, zap.NewNop())
	a := NewAnalyzer(db, zap.NewNop())

	seedRatings(t, s, "excelente", 5, 5, 5)
	seedRatings(t, s, "flojo", 1, 2, 2)

	report, err := a.AnalyzePerformance(7)
	if err != nil {
		t.Fatalf("AnalyzePerformance failed: %v", err)
	}

	joined := strings.Join(report.Suggestions, "\n")
	if !strings.Contains(joined, "excelente is performing excellently") {
		t.Fatalf("missing excellence suggestion: %v", report.Suggestions)
	}
	if !strings.Contains(joined, "flojo needs attention") {
		t.Fatalf("missing attention suggestion: %v", report.Suggestions)
	}
	if !strings.Contains(joined, "More feedback needed") {
		t.Fatalf("missing sample-size warning: %v", report.Suggestions)
	}
	if !strings.Contains(joined, "rebalancing priorities") {
		t.Fatalf("missing gap suggestion: %v", report.Suggestions)
	}
}

func TestSuggestionsQuietWhenBalanced(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db, zap.NewNop())
	a := NewAnalyzer(db, zap.NewNop())

	// ten neutral ratings: enough samples, nothing remarkable
	seedRatings(t, s, "a", 3, 3, 3, 3, 3)
	seedRatings(t, s, "b", 3, 3, 3, 3, 3)

	report, err := a.AnalyzePerformance(7)
	if err != nil {
		t.Fatalf("AnalyzePerformance failed: %v", err)
	}
	if len(report.Suggestions) != 0 {
		t.Fatalf("expected no suggestions, got %v", report.Suggestions)
	}
}

func TestBestAndWorstTieBreaksByName(t *testing.T) {
	perf := map[string]EngineStats{
		"bravo": {AvgRating: 4.0},
		"alpha": {AvgRating: 4.0},
	}
	best, worst := bestAndWorst(perf)
	if best != "alpha" || worst != "alpha" {
		t.Fatalf("expected name tie-break, got best=%s worst=%s", best, worst)
	}
}
