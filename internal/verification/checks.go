package verification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"campusconnect/backend/internal/config"
	"campusconnect/backend/internal/models"
)

// Check names are stable identifiers persisted with each claim.
const (
	CheckItemAvailability = "Item Availability"
	CheckDuplicateClaim   = "Duplicate Claim Detection"
	CheckSelfClaim        = "Self-Claim Detection"
	CheckRateLimit        = "Rate Limit Check"
	CheckCompetingClaims  = "Competing Claims"
	CheckUserHistory      = "User Claim History"
	CheckAnswerQuality    = "Answer Quality"
	CheckDescQuality      = "Description Quality"
	CheckProofOfOwnership = "Proof of Ownership"
	CheckAIAnalysis       = "AI Ownership Analysis"
	CheckAIRedFlags       = "AI Red Flags"
)

// ClaimStore is the read-only slice of the store the rule battery needs.
type ClaimStore interface {
	FindClaims(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, error)
	GetItemByID(ctx context.Context, id string) (*models.Item, error)
}

// Battery runs the nine legitimacy checks for one claim. The five
// store-backed checks degrade to a warn outcome when their query fails; they
// never abort the pipeline.
type Battery struct {
	Store ClaimStore
}

// --- Synchronous checks (no I/O) ---

// ItemAvailability fails when the item is already claimed and warns when a
// claim on it is pending review.
func ItemAvailability(item *models.Item) Check {
	switch item.Status {
	case models.ItemClaimed:
		return Check{
			Name:     CheckItemAvailability,
			Status:   StatusFail,
			Message:  "This item has already been claimed by someone else.",
			Severity: SeverityCritical,
		}
	case models.ItemPending:
		return Check{
			Name:     CheckItemAvailability,
			Status:   StatusWarn,
			Message:  "This item has a pending claim being reviewed.",
			Severity: SeverityMajor,
		}
	}
	return Check{
		Name:     CheckItemAvailability,
		Status:   StatusPass,
		Message:  "Item is available for claiming.",
		Severity: SeverityCritical,
	}
}

// AnswerQuality fails when fewer than two security questions were answered
// and warns when most of the answers are generic throwaways.
func AnswerQuality(answers map[string]string) Check {
	var answered []string
	for _, a := range answers {
		if strings.TrimSpace(a) != "" {
			answered = append(answered, strings.TrimSpace(a))
		}
	}

	if len(answered) < config.MinAnsweredCount {
		return Check{
			Name:     CheckAnswerQuality,
			Status:   StatusFail,
			Message:  fmt.Sprintf("Only %d security question(s) answered - insufficient for verification.", len(answered)),
			Severity: SeverityMajor,
		}
	}

	suspicious := 0
	totalLength := 0
	for _, a := range answered {
		totalLength += len(a)
		if len(a) < config.ShortAnswerLength || isGenericAnswer(a) {
			suspicious++
		}
	}

	if suspicious*2 > len(answered) {
		return Check{
			Name:     CheckAnswerQuality,
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%d of %d answers are very generic/short - possible guessing.", suspicious, len(answered)),
			Severity: SeverityMajor,
		}
	}

	avgLength := totalLength / len(answered)
	if avgLength > 15 {
		return Check{
			Name:     CheckAnswerQuality,
			Status:   StatusPass,
			Message:  fmt.Sprintf("%d detailed answers provided (avg %d chars) - good specificity.", len(answered), avgLength),
			Severity: SeverityMajor,
		}
	}
	return Check{
		Name:     CheckAnswerQuality,
		Status:   StatusPass,
		Message:  fmt.Sprintf("%d answers provided with moderate detail.", len(answered)),
		Severity: SeverityMajor,
	}
}

func isGenericAnswer(a string) bool {
	lowered := strings.ToLower(strings.TrimSpace(a))
	for _, g := range config.GenericAnswers {
		if lowered == g {
			return true
		}
	}
	return false
}

// DescriptionQuality never fails; it warns on missing or very short
// identification text.
func DescriptionQuality(description string) Check {
	desc := strings.TrimSpace(description)

	if len(desc) < config.MinDescriptionLen {
		return Check{
			Name:     CheckDescQuality,
			Status:   StatusWarn,
			Message:  "No meaningful identification description provided.",
			Severity: SeverityMinor,
		}
	}
	if len(desc) < config.ShortDescriptionLen {
		return Check{
			Name:     CheckDescQuality,
			Status:   StatusWarn,
			Message:  "Very short description - limited verification value.",
			Severity: SeverityMinor,
		}
	}
	if len(desc) >= 50 {
		return Check{
			Name:     CheckDescQuality,
			Status:   StatusPass,
			Message:  fmt.Sprintf("Detailed description provided (%d chars) - strong identification signal.", len(desc)),
			Severity: SeverityMinor,
		}
	}
	return Check{
		Name:     CheckDescQuality,
		Status:   StatusPass,
		Message:  fmt.Sprintf("Description provided (%d chars).", len(desc)),
		Severity: SeverityMinor,
	}
}

// ProofOfOwnership warns when no proof images were attached.
func ProofOfOwnership(proofImages []string) Check {
	switch {
	case len(proofImages) >= 2:
		return Check{
			Name:     CheckProofOfOwnership,
			Status:   StatusPass,
			Message:  fmt.Sprintf("%d proof image(s) uploaded - strong evidence.", len(proofImages)),
			Severity: SeverityMinor,
		}
	case len(proofImages) == 1:
		return Check{
			Name:     CheckProofOfOwnership,
			Status:   StatusPass,
			Message:  "1 proof image uploaded.",
			Severity: SeverityMinor,
		}
	}
	return Check{
		Name:     CheckProofOfOwnership,
		Status:   StatusWarn,
		Message:  "No proof images uploaded - consider requesting evidence.",
		Severity: SeverityMinor,
	}
}

// --- Store-backed checks ---

// DuplicateClaim fails when this email already has a claim on this item.
func (b *Battery) DuplicateClaim(ctx context.Context, input *ClaimSubmission) Check {
	claims, err := b.Store.FindClaims(ctx, models.ClaimFilter{
		ItemID:       input.ItemID,
		ClaimerEmail: input.ClaimerEmail,
	})
	if err != nil {
		return degraded(CheckDuplicateClaim, "Could not verify duplicate claims.", SeverityCritical)
	}

	if len(claims) > 0 {
		plural := ""
		if len(claims) > 1 {
			plural = "s"
		}
		return Check{
			Name:     CheckDuplicateClaim,
			Status:   StatusFail,
			Message:  fmt.Sprintf("This email has already submitted a claim for this item (%d existing claim%s).", len(claims), plural),
			Severity: SeverityCritical,
		}
	}
	return Check{
		Name:     CheckDuplicateClaim,
		Status:   StatusPass,
		Message:  "No previous claims from this email for this item.",
		Severity: SeverityCritical,
	}
}

// ClaimFlood rate-limits by trailing 24h claim count for this email.
func (b *Battery) ClaimFlood(ctx context.Context, input *ClaimSubmission) Check {
	claims, err := b.Store.FindClaims(ctx, models.ClaimFilter{ClaimerEmail: input.ClaimerEmail})
	if err != nil {
		return degraded(CheckRateLimit, "Could not verify claim rate.", SeverityMajor)
	}

	cutoff := time.Now().Add(-config.FloodWindow)
	recent := 0
	for _, c := range claims {
		if c.ClaimedAt.After(cutoff) {
			recent++
		}
	}

	switch {
	case recent >= config.FloodFailCount:
		return Check{
			Name:     CheckRateLimit,
			Status:   StatusFail,
			Message:  fmt.Sprintf("This user submitted %d claims in the last 24 hours - possible abuse.", recent),
			Severity: SeverityMajor,
		}
	case recent >= config.FloodWarnCount:
		return Check{
			Name:     CheckRateLimit,
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%d claims in 24 hours - above average activity.", recent),
			Severity: SeverityMajor,
		}
	}
	return Check{
		Name:     CheckRateLimit,
		Status:   StatusPass,
		Message:  fmt.Sprintf("%d claim(s) in the last 24 hours - normal activity.", recent),
		Severity: SeverityMajor,
	}
}

// CompetingClaims warns when other pending claims exist on the item. This is
// a best-effort read, not a transactional guard; simultaneous claims are
// resolved later by admin review.
func (b *Battery) CompetingClaims(ctx context.Context, input *ClaimSubmission) Check {
	claims, err := b.Store.FindClaims(ctx, models.ClaimFilter{
		ItemID: input.ItemID,
		Status: models.ClaimPending,
	})
	if err != nil {
		return degraded(CheckCompetingClaims, "Could not check competing claims.", SeverityMajor)
	}

	if len(claims) > 0 {
		return Check{
			Name:     CheckCompetingClaims,
			Status:   StatusWarn,
			Message:  fmt.Sprintf("%d other pending claim(s) exist for this item - requires manual review.", len(claims)),
			Severity: SeverityMajor,
		}
	}
	return Check{
		Name:     CheckCompetingClaims,
		Status:   StatusPass,
		Message:  "No other pending claims for this item.",
		Severity: SeverityMajor,
	}
}

// SelfClaim fails when the claimer is the person who reported the item,
// matched by user id or email. An unauthenticated claimer using a different
// email slips through; that gap is resolved at admin review, not here.
func (b *Battery) SelfClaim(ctx context.Context, input *ClaimSubmission) Check {
	item, err := b.Store.GetItemByID(ctx, input.ItemID)
	if err != nil {
		return degraded(CheckSelfClaim, "Could not verify self-claim status.", SeverityCritical)
	}

	if item != nil {
		if input.UserID != "" && item.CreatedBy == input.UserID {
			return Check{
				Name:     CheckSelfClaim,
				Status:   StatusFail,
				Message:  "The claimer is the same person who reported finding this item.",
				Severity: SeverityCritical,
			}
		}
		if item.CreatedByEmail != "" && strings.EqualFold(item.CreatedByEmail, input.ClaimerEmail) {
			return Check{
				Name:     CheckSelfClaim,
				Status:   StatusFail,
				Message:  "The claimer email matches the person who reported this item.",
				Severity: SeverityCritical,
			}
		}
	}
	return Check{
		Name:     CheckSelfClaim,
		Status:   StatusPass,
		Message:  "Claimer is not the item reporter.",
		Severity: SeverityCritical,
	}
}

// UserHistory flags claimers with previously rejected claims on any item.
func (b *Battery) UserHistory(ctx context.Context, input *ClaimSubmission) Check {
	claims, err := b.Store.FindClaims(ctx, models.ClaimFilter{
		ClaimerEmail: input.ClaimerEmail,
		Status:       models.ClaimRejected,
	})
	if err != nil {
		return degraded(CheckUserHistory, "Could not verify user claim history.", SeverityMajor)
	}

	switch {
	case len(claims) >= config.HistoryFailCount:
		return Check{
			Name:     CheckUserHistory,
			Status:   StatusFail,
			Message:  fmt.Sprintf("This user has %d previously rejected claims - repeated fraudulent behavior.", len(claims)),
			Severity: SeverityMajor,
		}
	case len(claims) >= 1:
		return Check{
			Name:     CheckUserHistory,
			Status:   StatusWarn,
			Message:  fmt.Sprintf("This user has %d previously rejected claim(s) - exercise caution.", len(claims)),
			Severity: SeverityMajor,
		}
	}
	return Check{
		Name:     CheckUserHistory,
		Status:   StatusPass,
		Message:  "No previously rejected claims from this user.",
		Severity: SeverityMajor,
	}
}

// degraded converts a failed store query into a warn outcome so a single
// flaky query never silently passes a check or sinks the whole pipeline.
func degraded(name, message, severity string) Check {
	return Check{Name: name, Status: StatusWarn, Message: message, Severity: severity}
}
