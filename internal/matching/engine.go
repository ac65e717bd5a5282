// Package matching suggests likely lost/found counterparts for a newly
// reported item and computes the blended claim-time match score. It prefers
// the AI matcher when configured and falls back to the local heuristic
// silently on any failure or empty result.
package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"campusconnect/backend/internal/ai"
	"campusconnect/backend/internal/config"
	"campusconnect/backend/internal/models"
	"campusconnect/backend/internal/similarity"
	"campusconnect/backend/internal/storage"
	"campusconnect/backend/internal/verification"
)

// AIMatcher is the optional semantic capability used for both candidate
// matching and claim previews. *ai.Client satisfies it.
type AIMatcher interface {
	Configured() bool
	BatchMatch(ctx context.Context, item ai.ItemSummary, candidates []ai.Candidate) ([]ai.MatchScore, error)
	VerifyClaim(ctx context.Context, item ai.ItemSummary, claim ai.ClaimContext) (*ai.Assessment, error)
}

// Match is one scored candidate for a reported item.
type Match struct {
	ItemID       string   `json:"itemId"`
	ItemName     string   `json:"itemName"`
	MatchScore   int      `json:"matchScore"`
	MatchReasons []string `json:"matchReasons"`
	AIPowered    bool     `json:"aiPowered"`
	AIReasoning  string   `json:"aiReasoning,omitempty"`
}

// Engine finds counterpart candidates and scores claims.
type Engine struct {
	Store storage.Storage
	AI    AIMatcher
}

// NewEngine creates a matching engine. matcher may be nil.
func NewEngine(store storage.Storage, matcher AIMatcher) *Engine {
	return &Engine{Store: store, AI: matcher}
}

// FindMatches returns up to five candidates from the opposite pool, best
// first. AI matching is tried first when available; the local heuristic is
// the fallback on error or empty result.
func (e *Engine) FindMatches(ctx context.Context, item *models.Item) ([]Match, error) {
	if e.AI != nil && e.AI.Configured() {
		matches, err := e.findAIMatches(ctx, item)
		if err != nil {
			log.Printf("WARN: AI matching failed for item %s, falling back to local: %v", item.ID, err)
		} else if len(matches) > 0 {
			return matches, nil
		}
	}
	return e.findLocalMatches(ctx, item)
}

func oppositeType(itemType string) string {
	if itemType == models.ItemLost {
		return models.ItemFound
	}
	return models.ItemLost
}

// matchText is the free text an item contributes to description comparison:
// its description plus any reporter-supplied keywords.
func matchText(it models.Item) string {
	if len(it.Keywords) == 0 {
		return it.Description
	}
	return it.Description + " " + strings.Join(it.Keywords, " ")
}

// findLocalMatches scores same-category available items of the opposite
// type: fixed points for category and location, similarity-scaled points for
// name and description. Candidates below the floor are discarded.
func (e *Engine) findLocalMatches(ctx context.Context, item *models.Item) ([]Match, error) {
	candidates, err := e.Store.ListItems(ctx, storage.ItemFilter{
		Type:     oppositeType(item.Type),
		Category: item.Category,
		Status:   models.ItemAvailable,
	})
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, candidate := range candidates {
		if candidate.ID == item.ID {
			continue
		}

		score := config.CategoryMatchPoints
		reasons := []string{"Same category"}

		if candidate.Location == item.Location {
			score += config.LocationMatchPoints
			reasons = append(reasons, "Same location")
		}

		if nameSim := similarity.Score(candidate.Name, item.Name); nameSim > 0.3 {
			score += int(math.Round(nameSim * config.NameMatchPoints))
			reasons = append(reasons, "Similar name")
		}

		if descSim := similarity.Score(matchText(candidate), matchText(*item)); descSim > 0.2 {
			score += int(math.Round(descSim * config.DescMatchPoints))
			reasons = append(reasons, "Similar description")
		}

		if score >= config.LocalMatchFloor {
			matches = append(matches, Match{
				ItemID:       candidate.ID,
				ItemName:     candidate.Name,
				MatchScore:   score,
				MatchReasons: reasons,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].MatchScore > matches[j].MatchScore })
	if len(matches) > config.MaxMatches {
		matches = matches[:config.MaxMatches]
	}
	return matches, nil
}

// findAIMatches offers the whole opposite pool to the model; the AI can
// surface cross-category semantic matches the local heuristic never sees.
func (e *Engine) findAIMatches(ctx context.Context, item *models.Item) ([]Match, error) {
	pool, err := e.Store.ListItems(ctx, storage.ItemFilter{
		Type:   oppositeType(item.Type),
		Status: models.ItemAvailable,
	})
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, nil
	}

	candidates := make([]ai.Candidate, 0, len(pool))
	names := make(map[string]string, len(pool))
	for _, c := range pool {
		if c.ID == item.ID {
			continue
		}
		candidates = append(candidates, ai.Candidate{
			ID:          c.ID,
			Name:        c.Name,
			Category:    c.Category,
			Location:    c.Location,
			Description: matchText(c),
		})
		names[c.ID] = c.Name
	}

	scores, err := e.AI.BatchMatch(ctx, ai.ItemSummary{
		Name:        item.Name,
		Category:    item.Category,
		Location:    item.Location,
		Description: matchText(*item),
		Type:        item.Type,
	}, candidates)
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, s := range scores {
		if s.Score < config.AIMatchKeepFloor {
			continue
		}
		name, ok := names[s.ID]
		if !ok {
			continue
		}
		matches = append(matches, Match{
			ItemID:       s.ID,
			ItemName:     name,
			MatchScore:   s.Score,
			MatchReasons: s.MatchedAttributes,
			AIPowered:    true,
			AIReasoning:  s.Reasoning,
		})
		if len(matches) == config.MaxMatches {
			break
		}
	}
	return matches, nil
}

// RunAutoMatching looks for counterparts of a freshly reported item,
// persists a notification for the reporter and publishes a match event.
// Called from a goroutine after item creation; failures are logged only.
func (e *Engine) RunAutoMatching(ctx context.Context, item *models.Item) []Match {
	matches, err := e.FindMatches(ctx, item)
	if err != nil {
		log.Printf("ERROR: Auto-matching failed for item %s: %v", item.ID, err)
		return nil
	}
	if len(matches) == 0 {
		return nil
	}

	top := matches[0]
	aiLabel := ""
	if top.AIPowered {
		aiLabel = " (AI-verified)"
	}
	plural := ""
	if len(matches) > 1 {
		plural = "es"
	}
	message := fmt.Sprintf("We found %d potential match%s for your %s %q! Top match: %q (%d%% match%s)",
		len(matches), plural, item.Type, item.Name, top.ItemName, top.MatchScore, aiLabel)

	if item.CreatedBy != "" {
		payload, _ := json.Marshal(matches)
		n := &models.Notification{
			Type:    models.NotificationMatch,
			UserID:  item.CreatedBy,
			ItemID:  item.ID,
			Message: message,
			Payload: string(payload),
		}
		if err := e.Store.SaveNotification(ctx, n); err != nil {
			log.Printf("ERROR: Failed to save match notification for item %s: %v", item.ID, err)
		}
	}

	event := models.Event{
		Type:         models.EventMatchFound,
		ItemID:       item.ID,
		ItemName:     item.Name,
		ItemCategory: item.Category,
		ItemLocation: item.Location,
		MatchCount:   len(matches),
		TopMatch:     top.ItemName,
		TopScore:     top.MatchScore,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	if err := e.Store.PublishEvent(ctx, event); err != nil {
		log.Printf("ERROR: Failed to publish match event for item %s: %v", item.ID, err)
	}

	log.Printf("INFO: Found %d matches for item %s (%s)", len(matches), item.ID, item.Name)
	return matches
}

// ClaimScore is the blended claim-time preview shown to a claimant before
// submission. It is advisory only; the verification pipeline makes the call.
type ClaimScore struct {
	Score      int                           `json:"score"`
	RiskLevel  string                        `json:"riskLevel"`
	Breakdown  []verification.ScoreBreakdown `json:"breakdown"`
	AIPowered  bool                          `json:"aiPowered"`
	AIInsights string                        `json:"aiInsights,omitempty"`
}

// ScoreClaim blends the local heuristic with the AI assessment when
// available. The risk tier is derived from the blended score, and a
// high-risk AI verdict can only tighten it, never relax it.
func (e *Engine) ScoreClaim(ctx context.Context, item *models.Item, answers map[string]string, description string) ClaimScore {
	local := verification.CalculateLocalScore(item, answers, description)

	result := ClaimScore{
		Score:     local.Percentage,
		RiskLevel: local.RiskLevel,
		Breakdown: local.Breakdown,
	}

	if e.AI == nil || !e.AI.Configured() {
		return result
	}

	assessment, err := e.AI.VerifyClaim(ctx, ai.ItemSummary{
		Name:        item.Name,
		Category:    item.Category,
		Description: item.Description,
		Location:    item.Location,
		Type:        item.Type,
	}, ai.ClaimContext{
		Description: description,
		Answers:     answers,
		Questions:   models.QuestionsFor(item.Category),
	})
	if err != nil {
		log.Printf("WARN: AI claim preview unavailable, using local score: %v", err)
		return result
	}

	blended := int(math.Round(config.ClaimBlendAIWeight*float64(assessment.VerificationScore) +
		(1-config.ClaimBlendAIWeight)*float64(local.Percentage)))

	// Risk follows the blended score; the AI verdict can only tighten it.
	risk := verification.RiskForPercentage(blended)
	if assessment.RiskLevel == verification.RiskHigh && risk != verification.RiskHigh {
		risk = verification.RiskMedium
	}

	for _, entry := range assessment.Breakdown {
		result.Breakdown = append(result.Breakdown, verification.ScoreBreakdown{
			Category:  "🤖 " + entry.Category,
			Points:    entry.Score,
			MaxPoints: entry.MaxScore,
			Details:   entry.AIInsight,
		})
	}

	result.Score = blended
	result.RiskLevel = risk
	result.AIPowered = true
	result.AIInsights = assessment.OverallAssessment
	return result
}
