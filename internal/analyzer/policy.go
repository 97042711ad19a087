package analyzer

// Policy holds the tunable thresholds used by slot ranking and by the insight,
// recommendation and goal generators. The zero value is not useful; start
// from DefaultPolicy.
type Policy struct {
	// Slot ranking.
	SlotWeightDivisor float64 `mapstructure:"slot_weight_divisor" json:"slot_weight_divisor" validate:"gt=0"`
	SlotWeightMin     float64 `mapstructure:"slot_weight_min" json:"slot_weight_min" validate:"gte=0"`
	SlotWeightMax     float64 `mapstructure:"slot_weight_max" json:"slot_weight_max" validate:"gtefield=SlotWeightMin"`
	SlotRateBoost     float64 `mapstructure:"slot_rate_boost" json:"slot_rate_boost" validate:"gte=0"`
	SlotMinSample     float64 `mapstructure:"slot_min_sample" json:"slot_min_sample" validate:"gte=0"`
	SlotLimit         int     `mapstructure:"slot_limit" json:"slot_limit" validate:"gte=1"`

	// Engagement rate bands, in percent.
	EngagementStrong  float64 `mapstructure:"engagement_strong" json:"engagement_strong" validate:"gtefield=EngagementHealthy"`
	EngagementHealthy float64 `mapstructure:"engagement_healthy" json:"engagement_healthy" validate:"gte=0"`

	// MinTweetsPerDay is the posting cadence below which a warning fires.
	MinTweetsPerDay float64 `mapstructure:"min_tweets_per_day" json:"min_tweets_per_day" validate:"gte=0"`

	// VolatileNoReachShare is the no-reach share, in percent, at which reach
	// is considered volatile.
	VolatileNoReachShare float64 `mapstructure:"volatile_no_reach_share" json:"volatile_no_reach_share" validate:"gte=0,lte=100"`

	// Confidence bands by total tweet sample size.
	ConfidenceHigh   float64 `mapstructure:"confidence_high" json:"confidence_high" validate:"gtefield=ConfidenceMedium"`
	ConfidenceMedium float64 `mapstructure:"confidence_medium" json:"confidence_medium" validate:"gte=0"`

	MaxInsights int `mapstructure:"max_insights" json:"max_insights" validate:"gte=1"`

	// Goal heuristics.
	CadenceGoalFloor          float64 `mapstructure:"cadence_goal_floor" json:"cadence_goal_floor" validate:"gte=0"`
	CadenceGoalMultiplier     float64 `mapstructure:"cadence_goal_multiplier" json:"cadence_goal_multiplier" validate:"gte=1"`
	RateGoalFactor            float64 `mapstructure:"rate_goal_factor" json:"rate_goal_factor" validate:"gte=0"`
	RateGoalMinStep           float64 `mapstructure:"rate_goal_min_step" json:"rate_goal_min_step" validate:"gte=0"`
	RateGoalMaxStep           float64 `mapstructure:"rate_goal_max_step" json:"rate_goal_max_step" validate:"gtefield=RateGoalMinStep"`
	ImpressionsGoalMultiplier float64 `mapstructure:"impressions_goal_multiplier" json:"impressions_goal_multiplier" validate:"gte=1"`
	ImpressionsGoalMinStep    float64 `mapstructure:"impressions_goal_min_step" json:"impressions_goal_min_step" validate:"gte=0"`
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		SlotWeightDivisor: 5,
		SlotWeightMin:     0.35,
		SlotWeightMax:     1,
		SlotRateBoost:     2,
		SlotMinSample:     2,
		SlotLimit:         6,

		EngagementStrong:  3,
		EngagementHealthy: 1.5,

		MinTweetsPerDay:      1,
		VolatileNoReachShare: 35,

		ConfidenceHigh:   30,
		ConfidenceMedium: 10,

		MaxInsights: 6,

		CadenceGoalFloor:          1.2,
		CadenceGoalMultiplier:     1.2,
		RateGoalFactor:            0.35,
		RateGoalMinStep:           0.8,
		RateGoalMaxStep:           2.0,
		ImpressionsGoalMultiplier: 1.2,
		ImpressionsGoalMinStep:    100,
	}
}
