package suggest

// Engine runs all registered rules against an AnalysisContext and collects
// the resulting recommendations.
type Engine struct {
	rules []Rule
}

// NewEngine creates a new suggest engine with all built-in rules registered.
func NewEngine() *Engine {
	return &Engine{
		rules: []Rule{
			EngagementRecovery,
			PostingCadence,
			ReachVolatility,
			ThreadOpportunity,
			PostingWindow,
			ImpressionDecline,
			HashtagStrategy,
			FormatFocus,
		},
	}
}

// NewEngineWithRules creates an engine running only the given rules.
func NewEngineWithRules(rules ...Rule) *Engine {
	return &Engine{rules: rules}
}

// Run executes all registered rules against the given context and returns
// the collected recommendations ordered by priority. The result is never
// empty: when no rule fires it holds a single maintain-strategy entry.
func (e *Engine) Run(ctx *AnalysisContext) []Recommendation {
	var all []Recommendation
	for _, rule := range e.rules {
		results := rule(ctx)
		all = append(all, results...)
	}
	if len(all) == 0 {
		all = append(all, MaintainStrategy(ctx))
	}
	return RankRecommendations(all)
}

// BuildRecommendations runs the built-in rules against ctx.
func BuildRecommendations(ctx *AnalysisContext) []Recommendation {
	return NewEngine().Run(ctx)
}
