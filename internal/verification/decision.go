package verification

import (
	"fmt"
	"math"
	"strings"

	"campusconnect/backend/internal/config"
)

// CheckBonus converts check outcomes into a 0-100 bonus. Starts from 100 and
// subtracts a per-severity penalty for every fail and warn, floored at 0.
func CheckBonus(checks []Check) int {
	bonus := 100
	for _, check := range checks {
		switch check.Status {
		case StatusFail:
			switch check.Severity {
			case SeverityCritical:
				bonus -= config.CriticalFailPenalty
			case SeverityMajor:
				bonus -= config.MajorFailPenalty
			default:
				bonus -= config.MinorFailPenalty
			}
		case StatusWarn:
			switch check.Severity {
			case SeverityCritical:
				bonus -= config.CriticalWarnPenalty
			case SeverityMajor:
				bonus -= config.MajorWarnPenalty
			default:
				bonus -= config.MinorWarnPenalty
			}
		}
	}
	if bonus < 0 {
		bonus = 0
	}
	return bonus
}

// DeriveRiskLevel derives the risk tier from check outcomes alone,
// independent of the overall score.
func DeriveRiskLevel(checks []Check) string {
	criticalFails, majorFails, warnings := tally(checks)

	switch {
	case len(criticalFails) > 0:
		return RiskCritical
	case len(majorFails) >= 2:
		return RiskHigh
	case len(majorFails) >= 1 || len(warnings) >= 3:
		return RiskMedium
	}
	return RiskLow
}

// Decide applies the decision policy to the finished check list, the local
// score percentage and the AI score (nil when AI was unavailable). It is
// deterministic: identical inputs always produce the identical decision,
// overall score and risk level.
func Decide(checks []Check, localScore int, aiScore *int) (decision string, overallScore int, riskLevel, summary string) {
	bonus := CheckBonus(checks)

	var overall float64
	if aiScore != nil {
		overall = float64(*aiScore)*config.AIWeight +
			float64(localScore)*config.LocalWeightWithAI +
			float64(bonus)*config.BonusWeightWithAI
	} else {
		overall = float64(localScore)*config.LocalWeightNoAI +
			float64(bonus)*config.BonusWeightNoAI
	}
	overallScore = int(math.Round(overall))
	if overallScore < 0 {
		overallScore = 0
	}
	if overallScore > 100 {
		overallScore = 100
	}

	criticalFails, majorFails, warnings := tally(checks)
	riskLevel = DeriveRiskLevel(checks)

	// Policy is evaluated in priority order; the first match wins.
	switch {
	case len(criticalFails) > 0:
		decision = DecisionAutoRejected
		summary = "Claim rejected: " + joinMessages(criticalFails)

	case len(majorFails) >= 2:
		decision = DecisionAutoRejected
		summary = fmt.Sprintf("Claim rejected due to multiple major issues: %s.", joinNames(majorFails))

	case riskLevel == RiskLow && overallScore >= config.AutoApproveScore && len(majorFails) == 0:
		decision = DecisionAutoApproved
		summary = fmt.Sprintf("Claim auto-approved with %d%% confidence. All verification checks passed.", overallScore)

	default:
		decision = DecisionPendingReview
		issues := joinNames(append(append([]Check(nil), majorFails...), warnings...))
		if issues == "" {
			issues = "moderate confidence"
		}
		summary = fmt.Sprintf("Claim requires admin review (%d%% score). Flagged: %s.", overallScore, issues)
	}

	return decision, overallScore, riskLevel, summary
}

func tally(checks []Check) (criticalFails, majorFails, warnings []Check) {
	for _, c := range checks {
		switch {
		case c.Status == StatusFail && c.Severity == SeverityCritical:
			criticalFails = append(criticalFails, c)
		case c.Status == StatusFail && c.Severity == SeverityMajor:
			majorFails = append(majorFails, c)
		case c.Status == StatusWarn:
			warnings = append(warnings, c)
		}
	}
	return criticalFails, majorFails, warnings
}

func joinMessages(checks []Check) string {
	parts := make([]string, len(checks))
	for i, c := range checks {
		parts[i] = c.Message
	}
	return strings.Join(parts, " | ")
}

func joinNames(checks []Check) string {
	parts := make([]string, len(checks))
	for i, c := range checks {
		parts[i] = c.Name
	}
	return strings.Join(parts, ", ")
}
