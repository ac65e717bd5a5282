package verification

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"campusconnect/backend/internal/ai"
	"campusconnect/backend/internal/config"
	"campusconnect/backend/internal/models"
)

// AIAssessor is the optional ownership-analysis capability consumed by the
// pipeline. *ai.Client satisfies it.
type AIAssessor interface {
	Configured() bool
	VerifyClaim(ctx context.Context, item ai.ItemSummary, claim ai.ClaimContext) (*ai.Assessment, error)
}

// Service runs the full verification pipeline for one claim submission.
// A Service is stateless between runs; each run is a pure function of its
// input plus the store and AI responses it fetches.
type Service struct {
	Battery *Battery
	AI      AIAssessor
}

// NewService creates a verification service. assessor may be nil when AI
// verification is not configured.
func NewService(store ClaimStore, assessor AIAssessor) *Service {
	return &Service{
		Battery: &Battery{Store: store},
		AI:      assessor,
	}
}

// VerifyClaim runs the nine rule checks, the local heuristic scorer and,
// when configured, the AI assessment, then applies the decision policy.
// The only fatal path is failing to load the target item; every other
// degradation is absorbed into the result as data.
func (s *Service) VerifyClaim(ctx context.Context, input *ClaimSubmission) (*Result, error) {
	start := time.Now()

	if input.Item == nil {
		item, err := s.Battery.Store.GetItemByID(ctx, input.ItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to load item %s for verification: %w", input.ItemID, err)
		}
		if item == nil {
			return nil, fmt.Errorf("item %s not found", input.ItemID)
		}
		input.Item = item
	}

	// The five store-backed checks have no ordering dependency on each
	// other and fan out concurrently, each with its own query timeout.
	var (
		wg             sync.WaitGroup
		duplicateCheck Check
		selfCheck      Check
		floodCheck     Check
		competingCheck Check
		historyCheck   Check
	)

	runAsync := func(dst *Check, fn func(context.Context, *ClaimSubmission) Check) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, config.CheckQueryTimeout)
			defer cancel()
			*dst = fn(checkCtx, input)
		}()
	}

	runAsync(&duplicateCheck, s.Battery.DuplicateClaim)
	runAsync(&selfCheck, s.Battery.SelfClaim)
	runAsync(&floodCheck, s.Battery.ClaimFlood)
	runAsync(&competingCheck, s.Battery.CompetingClaims)
	runAsync(&historyCheck, s.Battery.UserHistory)

	// Synchronous checks run while the queries are in flight.
	availabilityCheck := ItemAvailability(input.Item)
	answerCheck := AnswerQuality(input.SecurityAnswers)
	descriptionCheck := DescriptionQuality(input.Description)
	proofCheck := ProofOfOwnership(input.ProofImages)

	// The decision engine needs all nine checks resolved; partial results
	// are not a valid input.
	wg.Wait()

	checks := []Check{
		availabilityCheck,
		duplicateCheck,
		selfCheck,
		floodCheck,
		competingCheck,
		historyCheck,
		answerCheck,
		descriptionCheck,
		proofCheck,
	}

	var assessment *ai.Assessment
	var aiScore *int
	if s.AI != nil && s.AI.Configured() {
		assessment, aiScore = s.runAIAssessment(ctx, input, &checks)
	}

	localScore := CalculateLocalScore(input.Item, input.SecurityAnswers, input.Description)

	decision, overallScore, riskLevel, summary := Decide(checks, localScore.Percentage, aiScore)

	return &Result{
		Decision:     decision,
		OverallScore: overallScore,
		RiskLevel:    riskLevel,
		Checks:       checks,
		AI:           assessment,
		LocalScore:   &localScore,
		Summary:      summary,
		Timestamp:    time.Now().UTC(),
		ProcessingMs: time.Since(start).Milliseconds(),
	}, nil
}

// runAIAssessment calls the assessor with a bounded timeout and converts the
// outcome into checks. A timeout or any other failure is identical to "not
// configured": the pipeline proceeds without an AI score.
func (s *Service) runAIAssessment(ctx context.Context, input *ClaimSubmission, checks *[]Check) (*ai.Assessment, *int) {
	aiCtx, cancel := context.WithTimeout(ctx, config.AICallTimeout)
	defer cancel()

	assessment, err := s.AI.VerifyClaim(aiCtx, ai.ItemSummary{
		Name:        input.Item.Name,
		Category:    input.Item.Category,
		Description: input.Item.Description,
		Location:    input.Item.Location,
		DateFound:   input.Item.DateFound,
	}, ai.ClaimContext{
		Description: input.Description,
		Answers:     input.SecurityAnswers,
		Questions:   models.QuestionsFor(input.Item.Category),
	})
	if err != nil {
		log.Printf("WARN: AI verification unavailable for item %s: %v", input.ItemID, err)
		*checks = append(*checks, Check{
			Name:     CheckAIAnalysis,
			Status:   StatusWarn,
			Message:  "AI verification unavailable - falling back to rule-based checks.",
			Severity: SeverityMinor,
		})
		return nil, nil
	}

	score := assessment.VerificationScore
	status := StatusFail
	switch {
	case score >= config.AIPassThreshold:
		status = StatusPass
	case score >= config.AIWarnThreshold:
		status = StatusWarn
	}
	*checks = append(*checks, Check{
		Name:     CheckAIAnalysis,
		Status:   status,
		Message:  assessment.OverallAssessment,
		Severity: SeverityMajor,
	})

	if len(assessment.RedFlags) > 0 {
		*checks = append(*checks, Check{
			Name:     CheckAIRedFlags,
			Status:   StatusWarn,
			Message:  strings.Join(assessment.RedFlags, "; "),
			Severity: SeverityMajor,
		})
	}

	return assessment, &score
}
