package signals

import "strings"

// Signals is the set of facts the dispatcher scores against. Computed
// once per request, purely from the text; every field is always populated.
type Signals struct {
	HasQuestion          bool `json:"has_question"`
	IsShort              bool `json:"is_short"`
	MentionsArchitecture bool `json:"mentions_architecture"`
	MentionsCode         bool `json:"mentions_code"`
	MentionsDebug        bool `json:"mentions_debug"`
	WantsCodeGeneration  bool `json:"wants_code_generation"`
	MentionsStrategy     bool `json:"mentions_strategy"`
	MentionsComplex      bool `json:"mentions_complex"`
	MentionsImage        bool `json:"mentions_image"`
	MentionsDocs         bool `json:"mentions_docs"`
}

// token count at or below which a message counts as short
const shortMessageTokens = 2

// Keyword sets are bilingual (Spanish/English) to match real traffic.
// Several entries are stems on purpose ("arquitect" matches arquitectura,
// arquitecturas, architect...).
var architectureKeywords = []string{
	"arquitect", "architect", "microserv", "monolit", "escala", "scale",
	"usuarios", "trade-off", "tradeoffs", "trade offs", "diseño", "diseña",
}

var codeKeywords = []string{
	"codigo", "código", "code", "python", "javascript", "script",
	"programa", "función", "funcion", "debug", "debuggea", "depura",
	"error", "traceback", "stacktrace", "stack trace", "bug", "git",
	"bash", "snippet", "implementa", "implementar",
}

var debugKeywords = []string{
	"error", "exception", "typeerror", "traceback", "stacktrace",
	"stack trace", "bug", "depura", "debug", "debuggea", "arregla", "fix",
}

var codeGenerationNouns = []string{
	"funci", "function", "merge", "sort", "algoritm", "algorithm",
	"ejemplo", "ejemplos", "example",
}

var codeGenerationVerbs = []string{
	"escribe", "write", "genera", "generate", "implementa", "implementar",
	"implement", "dame", "crea", "create", "desarrolla", "programa",
	"optimiza", "optimizar", "optimize", "mejora", "mejorar",
}

var strategyKeywords = []string{
	"estrateg", "strategy", "detall", "plan", "roadmap", "detallada",
	"detallado",
}

var complexKeywords = []string{
	"analiz", "análisis", "analisis", "analy", "explica", "explain",
	"concepto", "conceptos", "riesg", "risk", "evaluar", "evaluación",
	"evaluacion", "complet", "profund", "resumen", "ejecutiv", "estrateg",
	"plan", "detall",
}

var imageKeywords = []string{"imagen", "image", "foto", "photo", "mira", "describe"}

var docsKeywords = []string{
	"document", "documenta", "documentación", "documentacion", "tutorial",
	"guía", "guia", "readme", "manual", "docs",
}

var interrogativeOpeners = []string{
	"qué", "que", "como", "cómo", "cuál", "cual", "what", "how", "which",
	"why", "when",
}

// Extract analyzes a message and derives routing signals. Deterministic
// and total: there is no error path and no state.
func Extract(text string) Signals {
	m := strings.ToLower(strings.TrimSpace(text))
	tokens := strings.Fields(m)

	mentionsCode := containsAny(m, codeKeywords)

	return Signals{
		HasQuestion:          strings.Contains(text, "?") || hasPrefixAny(m, interrogativeOpeners),
		IsShort:              len(tokens) <= shortMessageTokens,
		MentionsArchitecture: containsAny(m, architectureKeywords),
		MentionsCode:         mentionsCode,
		MentionsDebug:        containsAny(m, debugKeywords),
		// intent needs a verb AND a noun: a casual mention of "python"
		// alone must not look like a generation request
		WantsCodeGeneration: containsAny(m, codeGenerationVerbs) &&
			(containsAny(m, codeGenerationNouns) || mentionsCode),
		MentionsStrategy: containsAny(m, strategyKeywords),
		MentionsComplex:  containsAny(m, complexKeywords),
		MentionsImage:    containsAny(m, imageKeywords),
		MentionsDocs:     containsAny(m, docsKeywords),
	}
}

// Active lists the names of the signals that evaluated true, in a stable
// order. Used for the decision's human-readable reasoning only.
func (s Signals) Active() []string {
	var active []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"has_question", s.HasQuestion},
		{"is_short", s.IsShort},
		{"mentions_architecture", s.MentionsArchitecture},
		{"mentions_code", s.MentionsCode},
		{"mentions_debug", s.MentionsDebug},
		{"wants_code_generation", s.WantsCodeGeneration},
		{"mentions_strategy", s.MentionsStrategy},
		{"mentions_complex", s.MentionsComplex},
		{"mentions_image", s.MentionsImage},
		{"mentions_docs", s.MentionsDocs},
	} {
		if f.set {
			active = append(active, f.name)
		}
	}
	return active
}

func containsAny(m string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(m, k) {
			return true
		}
	}
	return false
}

func hasPrefixAny(m string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(m, p) {
			return true
		}
	}
	return false
}
