package dispatch

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"llmrouter/internal/errs"
	"llmrouter/internal/profiles"
	"llmrouter/internal/signals"
)

type Status string

const (
	StatusOk                 Status = "ok"
	StatusNeedsClarification Status = "needs_clarification"
)

// confidence bounds: we always have some basis for the choice, so the
// floor sits at 50 rather than 0
const (
	minConfidence    = 50
	maxConfidence    = 100
	visionConfidence = 100
)

// phrases too vague to route on
var vaguePhrases = []string{"ayudame", "ayúdame", "ayuda", "help"}

const clarificationPrompt = "Could you give me more detail about what you need?"

// Alternative is a non-winning engine and the score it reached.
type Alternative struct {
	Engine string `json:"engine"`
	Score  int    `json:"score"`
}

// Decision is the dispatcher's output for one request. Created fresh per
// request and never persisted.
type Decision struct {
	Status        Status        `json:"status"`
	Engine        string        `json:"engine,omitempty"`
	Confidence    int           `json:"confidence"`
	Reasoning     string        `json:"reasoning,omitempty"`
	Alternatives  []Alternative `json:"alternatives,omitempty"`
	Clarification string        `json:"clarification,omitempty"`
}

// Dispatcher scores every registered engine against the request signals
// and picks a winner. It reads the profile store on every call, so
// optimizer updates take effect on the next request.
type Dispatcher struct {
	profiles *profiles.Store
	logger   *zap.Logger
}

func NewDispatcher(store *profiles.Store, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{profiles: store, logger: logger}
}

// Route decides which engine should serve the request. It degrades
// rather than fails: the only error is an empty profile store, which is
// a deployment problem the caller must surface.
func (d *Dispatcher) Route(text string, hasImage bool) (*Decision, error) {
	engines := d.profiles.All()
	if len(engines) == 0 {
		return nil, &errs.ConfigurationError{Message: "no engines registered"}
	}

	// image requests bypass text scoring entirely
	if hasImage {
		if decision := d.routeVision(engines); decision != nil {
			return decision, nil
		}
		// no vision-capable engine, fall through to text scoring
	}

	sig := signals.Extract(text)
	d.logger.Info("request signals",
		zap.String("message", truncate(text, 100)),
		zap.Strings("active", sig.Active()))

	if needsClarification(text, sig) {
		d.logger.Info("needs clarification", zap.String("message", truncate(text, 100)))
		return &Decision{
			Status:        StatusNeedsClarification,
			Clarification: clarificationPrompt,
		}, nil
	}

	scored := make([]Alternative, 0, len(engines))
	for _, engine := range engines {
		scored = append(scored, Alternative{
			Engine: engine.Name,
			Score:  scoreEngine(engine, sig),
		})
	}

	// score desc, ties by declared base priority, then stable name order
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		pi, _ := d.profiles.Get(scored[i].Engine)
		pj, _ := d.profiles.Get(scored[j].Engine)
		if pi.Priority != pj.Priority {
			return pi.Priority > pj.Priority
		}
		return scored[i].Engine < scored[j].Engine
	})

	winner := scored[0]
	alternatives := scored[1:]
	if len(alternatives) > 2 {
		alternatives = alternatives[:2]
	}

	decision := &Decision{
		Status:       StatusOk,
		Engine:       winner.Engine,
		Confidence:   confidence(winner.Score),
		Reasoning:    reasoning(sig),
		Alternatives: alternatives,
	}

	d.logger.Info("routing decision",
		zap.String("engine", decision.Engine),
		zap.Int("score", winner.Score),
		zap.Int("confidence", decision.Confidence))
	return decision, nil
}

// routeVision picks the highest-priority vision-capable engine, nil if
// none is registered.
func (d *Dispatcher) routeVision(engines []profiles.Profile) *Decision {
	var best *profiles.Profile
	for i := range engines {
		if !engines[i].HasCapability(profiles.CapVision) {
			continue
		}
		if best == nil || engines[i].Priority > best.Priority {
			best = &engines[i]
		}
	}
	if best == nil {
		return nil
	}

	d.logger.Info("routing image request", zap.String("engine", best.Name))
	return &Decision{
		Status:     StatusOk,
		Engine:     best.Name,
		Confidence: visionConfidence,
		Reasoning:  "image attached, routed to vision engine",
	}
}

func needsClarification(text string, sig signals.Signals) bool {
	m := strings.ToLower(text)
	for _, phrase := range vaguePhrases {
		if strings.Contains(m, phrase) {
			return true
		}
	}
	return sig.IsShort && !sig.HasQuestion && len(strings.Fields(text)) <= 1
}

// confidence is monotonic in the winner's score, floored at 50.
func confidence(score int) int {
	c := minConfidence + (score - 50)
	if c < minConfidence {
		return minConfidence
	}
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

func reasoning(sig signals.Signals) string {
	active := sig.Active()
	if len(active) == 0 {
		return "no signals detected"
	}
	return "detected signals: " + strings.Join(active, ", ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
