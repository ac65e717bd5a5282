package config

import "time"

const (
	// Local scoring point budget
	ColorPoints       = 25
	DescriptionPoints = 30
	BrandPoints       = 20
	FeaturePoints     = 25
	EngagementPoints  = 20
	EngagementPerAnswer = 5
	MinLocalMaxScore  = 100

	// Local risk tiers (percentage thresholds)
	LowRiskThreshold    = 70
	MediumRiskThreshold = 40

	// Check bonus penalties
	CriticalFailPenalty = 40
	MajorFailPenalty    = 20
	MinorFailPenalty    = 10
	CriticalWarnPenalty = 20
	MajorWarnPenalty    = 10
	MinorWarnPenalty    = 5

	// Score blending. Policy constants, not invariants. Tune with care.
	AIWeight         = 0.55
	LocalWeightWithAI = 0.30
	BonusWeightWithAI = 0.15
	LocalWeightNoAI  = 0.70
	BonusWeightNoAI  = 0.30

	// Decision policy
	AutoApproveScore   = 70
	AIPassThreshold    = 65
	AIWarnThreshold    = 35

	// Rule check thresholds
	FloodWindow        = 24 * time.Hour
	FloodFailCount     = 5
	FloodWarnCount     = 3
	HistoryFailCount   = 3
	MinAnsweredCount   = 2
	ShortAnswerLength  = 3
	MinDescriptionLen  = 5
	ShortDescriptionLen = 20

	// Matching
	LocalMatchFloor    = 50
	AIMatchFloor       = 25
	AIMatchKeepFloor   = 30
	MaxMatches         = 5
	CategoryMatchPoints = 30
	LocationMatchPoints = 25
	NameMatchPoints     = 25
	DescMatchPoints     = 20
	ClaimBlendAIWeight  = 0.6

	// Timeouts for external calls inside one verification run
	CheckQueryTimeout = 3 * time.Second
	AICallTimeout     = 20 * time.Second
)

// GenericAnswers are throwaway tokens that carry no identifying value.
var GenericAnswers = []string{"yes", "no", "idk", "none", "na", "n/a", "maybe"}
