package dispatch

import (
	"llmrouter/internal/profiles"
	"llmrouter/internal/signals"
)

// Scoring constants, one internally consistent set. Magnitudes encode the
// tie-break policy: architecture concerns dominate code concerns, which
// dominate debug-only concerns.
const (
	architectureBonus   = 200
	architecturePenalty = -50

	strategyCodeBonus   = 150
	strategyCodePenalty = -30

	codeBonus           = 100
	codeOverkillPenalty = -20

	debugBonus           = 80
	debugOverkillPenalty = -10

	complexBonus   = 120
	complexPenalty = -30

	shortBonus            = 40
	shortVisionPenalty    = -50
	shortReasoningPenalty = -20
)

// rule is one entry of the precedence chain: a predicate over the request
// signals and a per-engine score adjustment. Rules are evaluated in slice
// order and only the first whose predicate holds adjusts scores.
type rule struct {
	name    string
	applies func(s signals.Signals) bool
	adjust  func(p profiles.Profile) int
}

// scoringRules is the fixed precedence chain. Keeping it as data makes
// the ordering testable rule by rule.
var scoringRules = []rule{
	{
		name:    "architecture",
		applies: func(s signals.Signals) bool { return s.MentionsArchitecture },
		adjust: func(p profiles.Profile) int {
			if p.HasCapability(profiles.CapReasoning) {
				return architectureBonus
			}
			if p.HasCapability(profiles.CapCode) {
				return architecturePenalty
			}
			return 0
		},
	},
	{
		name: "strategy_and_code",
		applies: func(s signals.Signals) bool {
			return s.MentionsStrategy && s.WantsCodeGeneration
		},
		adjust: func(p profiles.Profile) int {
			if p.HasCapability(profiles.CapReasoning) {
				return strategyCodeBonus
			}
			if p.HasCapability(profiles.CapCode) {
				return strategyCodePenalty
			}
			return 0
		},
	},
	{
		name: "code",
		applies: func(s signals.Signals) bool {
			return s.WantsCodeGeneration || s.MentionsCode
		},
		adjust: func(p profiles.Profile) int {
			if p.HasCapability(profiles.CapCode) {
				return codeBonus
			}
			// reasoning-heavy engines are overkill for plain code asks
			if p.HasCapability(profiles.CapReasoning) {
				return codeOverkillPenalty
			}
			return 0
		},
	},
	{
		name:    "debug",
		applies: func(s signals.Signals) bool { return s.MentionsDebug },
		adjust: func(p profiles.Profile) int {
			if p.HasCapability(profiles.CapCode) {
				return debugBonus
			}
			if p.HasCapability(profiles.CapReasoning) {
				return debugOverkillPenalty
			}
			return 0
		},
	},
	{
		name: "complex_analysis",
		applies: func(s signals.Signals) bool {
			return s.MentionsComplex && !s.MentionsCode
		},
		adjust: func(p profiles.Profile) int {
			if p.HasCapability(profiles.CapReasoning) {
				return complexBonus
			}
			if p.HasCapability(profiles.CapCode) {
				return complexPenalty
			}
			return 0
		},
	},
	{
		name: "short_or_question",
		applies: func(s signals.Signals) bool {
			return s.IsShort || s.HasQuestion
		},
		adjust: func(p profiles.Profile) int {
			if p.HasCapability(profiles.CapLightweight) || p.HasCapability(profiles.CapGeneral) {
				return shortBonus
			}
			if p.HasCapability(profiles.CapVision) {
				return shortVisionPenalty
			}
			if p.HasCapability(profiles.CapReasoning) {
				return shortReasoningPenalty
			}
			return 0
		},
	},
}

// scoreEngine computes one engine's score: base priority plus the
// adjustment of the first matching rule, base priority if none match.
func scoreEngine(p profiles.Profile, s signals.Signals) int {
	score := p.Priority
	for _, r := range scoringRules {
		if r.applies(s) {
			return score + r.adjust(p)
		}
	}
	return score
}
