package verification

import (
	"fmt"
	"math"
	"strings"

	"campusconnect/backend/internal/config"
	"campusconnect/backend/internal/models"
	"campusconnect/backend/internal/similarity"
)

// CalculateLocalScore runs the category-aware heuristic over the claimant's
// security answers and free-text description. Signals with no answer do not
// count toward maxScore, so the percentage reflects only what was actually
// evaluated; the engagement signal and the floor of 100 always apply.
func CalculateLocalScore(item *models.Item, answers map[string]string, claimerDescription string) LocalScore {
	var breakdown []ScoreBreakdown
	totalScore := 0
	maxScore := 0

	itemDesc := strings.ToLower(item.Description)

	// Color signal: first answered key among the category aliases.
	if key := firstAnswered(answers, models.ColorAnswerKeys); key != "" {
		maxScore += config.ColorPoints
		match := similarity.Score(itemDesc, strings.ToLower(answers[key]))
		points := int(math.Round(match * config.ColorPoints))
		totalScore += points
		breakdown = append(breakdown, ScoreBreakdown{
			Category:  "Color Match",
			Points:    points,
			MaxPoints: config.ColorPoints,
			Details:   gradeDetail(points, "Color description matches well", "Partial color match", "Color did not match"),
		})
	}

	// Free-text description signal.
	if claimerDescription != "" {
		maxScore += config.DescriptionPoints
		match := similarity.Score(item.Description, claimerDescription)
		points := int(math.Round(match * config.DescriptionPoints))
		totalScore += points
		breakdown = append(breakdown, ScoreBreakdown{
			Category:  "Description Match",
			Points:    points,
			MaxPoints: config.DescriptionPoints,
			Details:   gradeDetail(points, "Detailed description matches", "Some details match", "Description differs"),
		})
	}

	// Brand signal: all-or-nothing substring check against the item text.
	if key := firstAnswered(answers, models.BrandAnswerKeys); key != "" {
		maxScore += config.BrandPoints
		brand := strings.ToLower(answers[key])
		found := strings.Contains(itemDesc, brand)
		if !found {
			for _, token := range strings.Fields(brand) {
				if strings.Contains(itemDesc, token) {
					found = true
					break
				}
			}
		}
		points := 0
		details := "Brand not verified"
		if found {
			points = config.BrandPoints
			details = "Brand matches"
		}
		totalScore += points
		breakdown = append(breakdown, ScoreBreakdown{
			Category:  "Brand Verification",
			Points:    points,
			MaxPoints: config.BrandPoints,
			Details:   details,
		})
	}

	// Unique feature / damage signal.
	if key := firstAnswered(answers, models.FeatureAnswerKeys); key != "" {
		maxScore += config.FeaturePoints
		match := similarity.Score(itemDesc, strings.ToLower(answers[key]))
		points := int(math.Round(match * config.FeaturePoints))
		totalScore += points
		breakdown = append(breakdown, ScoreBreakdown{
			Category:  "Unique Features",
			Points:    points,
			MaxPoints: config.FeaturePoints,
			Details:   gradeDetail(points, "Unique features verified", "Some features match", "Features unclear"),
		})
	}

	// Engagement signal: rewards answering questions at all.
	answeredCount := countAnswered(answers)
	maxScore += config.EngagementPoints
	engagementPoints := answeredCount * config.EngagementPerAnswer
	if engagementPoints > config.EngagementPoints {
		engagementPoints = config.EngagementPoints
	}
	totalScore += engagementPoints
	breakdown = append(breakdown, ScoreBreakdown{
		Category:  "Verification Effort",
		Points:    engagementPoints,
		MaxPoints: config.EngagementPoints,
		Details:   fmt.Sprintf("%d security questions answered", answeredCount),
	})

	if maxScore < config.MinLocalMaxScore {
		maxScore = config.MinLocalMaxScore
	}
	percentage := int(math.Round(float64(totalScore) / float64(maxScore) * 100))

	riskLevel := RiskForPercentage(percentage)

	return LocalScore{
		Score:      totalScore,
		MaxScore:   maxScore,
		Percentage: percentage,
		Breakdown:  breakdown,
		RiskLevel:  riskLevel,
	}
}

// firstAnswered returns the first key from keys that has a non-empty answer.
func firstAnswered(answers map[string]string, keys []string) string {
	for _, key := range keys {
		if strings.TrimSpace(answers[key]) != "" {
			return key
		}
	}
	return ""
}

func countAnswered(answers map[string]string) int {
	n := 0
	for _, a := range answers {
		if strings.TrimSpace(a) != "" {
			n++
		}
	}
	return n
}

// RiskForPercentage maps a 0-100 match percentage onto the standard risk
// tiers.
func RiskForPercentage(percentage int) string {
	switch {
	case percentage >= config.LowRiskThreshold:
		return RiskLow
	case percentage >= config.MediumRiskThreshold:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// gradeDetail picks a human message for a similarity-based signal, using the
// same >15 / >5 point cuts for every 25-30 point budget.
func gradeDetail(points int, good, partial, poor string) string {
	if points > 15 {
		return good
	}
	if points > 5 {
		return partial
	}
	return poor
}
