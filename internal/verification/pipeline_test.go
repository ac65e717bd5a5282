package verification_test

import (
	"context"
	"errors"
	"testing"

	"campusconnect/backend/internal/ai"
	"campusconnect/backend/internal/models"
	"campusconnect/backend/internal/verification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// strongSubmission is a claim every rule check passes: detailed answers, a
// matching description, proof images, a clean history.
func strongSubmission() *verification.ClaimSubmission {
	input := testSubmission()
	input.SecurityAnswers = map[string]string{
		"bagColor": "navy blue jansport backpack",
		"bagBrand": "jansport",
		"damage":   "torn front pocket and a red keychain",
	}
	input.Description = "Navy blue Jansport backpack with a torn front pocket and a red keychain"
	input.ProofImages = []string{"receipt.jpg", "photo.jpg"}
	return input
}

// expectCleanStore scripts every store-backed check to find nothing
// suspicious.
func expectCleanStore(store *MockClaimStore, input *verification.ClaimSubmission) {
	store.On("FindClaims", mock.Anything, models.ClaimFilter{
		ItemID:       input.ItemID,
		ClaimerEmail: input.ClaimerEmail,
	}).Return(nil, nil)
	store.On("FindClaims", mock.Anything, models.ClaimFilter{
		ClaimerEmail: input.ClaimerEmail,
	}).Return(nil, nil)
	store.On("FindClaims", mock.Anything, models.ClaimFilter{
		ItemID: input.ItemID,
		Status: models.ClaimPending,
	}).Return(nil, nil)
	store.On("FindClaims", mock.Anything, models.ClaimFilter{
		ClaimerEmail: input.ClaimerEmail,
		Status:       models.ClaimRejected,
	}).Return(nil, nil)
	store.On("GetItemByID", mock.Anything, input.ItemID).Return(testItem(), nil)
}

// TestPipelineStrongClaimAutoApproves runs the full pipeline without AI for
// a textbook legitimate claim.
func TestPipelineStrongClaimAutoApproves(t *testing.T) {
	store := new(MockClaimStore)
	input := strongSubmission()
	expectCleanStore(store, input)

	svc := verification.NewService(store, nil)
	result, err := svc.VerifyClaim(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, verification.DecisionAutoApproved, result.Decision)
	assert.Equal(t, verification.RiskLow, result.RiskLevel)
	assert.GreaterOrEqual(t, result.OverallScore, 70)
	assert.Len(t, result.Checks, 9)
	assert.Nil(t, result.AI)
	assert.NotNil(t, result.LocalScore)
	assert.Contains(t, result.Summary, "auto-approved")
}

// TestPipelineRunsAllNineChecksInOrder verifies the check list is complete
// and stable across runs.
func TestPipelineRunsAllNineChecksInOrder(t *testing.T) {
	store := new(MockClaimStore)
	input := strongSubmission()
	expectCleanStore(store, input)

	svc := verification.NewService(store, nil)
	result, err := svc.VerifyClaim(context.Background(), input)
	assert.NoError(t, err)

	wantOrder := []string{
		verification.CheckItemAvailability,
		verification.CheckDuplicateClaim,
		verification.CheckSelfClaim,
		verification.CheckRateLimit,
		verification.CheckCompetingClaims,
		verification.CheckUserHistory,
		verification.CheckAnswerQuality,
		verification.CheckDescQuality,
		verification.CheckProofOfOwnership,
	}
	var gotOrder []string
	for _, c := range result.Checks {
		gotOrder = append(gotOrder, c.Name)
	}
	assert.Equal(t, wantOrder, gotOrder)
}

// TestPipelineDuplicateClaimRejects verifies a duplicate claim is rejected
// outright even when everything else is clean.
func TestPipelineDuplicateClaimRejects(t *testing.T) {
	store := new(MockClaimStore)
	input := strongSubmission()

	store.On("FindClaims", mock.Anything, models.ClaimFilter{
		ItemID:       input.ItemID,
		ClaimerEmail: input.ClaimerEmail,
	}).Return([]models.Claim{{ID: "prior"}}, nil)
	store.On("FindClaims", mock.Anything, models.ClaimFilter{
		ClaimerEmail: input.ClaimerEmail,
	}).Return(nil, nil)
	store.On("FindClaims", mock.Anything, models.ClaimFilter{
		ItemID: input.ItemID,
		Status: models.ClaimPending,
	}).Return(nil, nil)
	store.On("FindClaims", mock.Anything, models.ClaimFilter{
		ClaimerEmail: input.ClaimerEmail,
		Status:       models.ClaimRejected,
	}).Return(nil, nil)
	store.On("GetItemByID", mock.Anything, input.ItemID).Return(testItem(), nil)

	svc := verification.NewService(store, nil)
	result, err := svc.VerifyClaim(context.Background(), input)

	assert.NoError(t, err)
	assert.Equal(t, verification.DecisionAutoRejected, result.Decision)
	assert.Equal(t, verification.RiskCritical, result.RiskLevel)
	assert.Contains(t, result.Summary, "already submitted a claim")
}

// TestPipelineLoadsItemWhenAbsent verifies the pipeline fetches the item
// itself when the caller only supplies the ID.
func TestPipelineLoadsItemWhenAbsent(t *testing.T) {
	store := new(MockClaimStore)
	input := strongSubmission()
	input.Item = nil
	expectCleanStore(store, input)

	svc := verification.NewService(store, nil)
	result, err := svc.VerifyClaim(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, input.Item)
	assert.Equal(t, verification.DecisionAutoApproved, result.Decision)
}

// TestPipelineUnknownItemIsFatal verifies a missing item is the one error
// the pipeline refuses to absorb.
func TestPipelineUnknownItemIsFatal(t *testing.T) {
	store := new(MockClaimStore)
	input := strongSubmission()
	input.Item = nil
	input.ItemID = "ghost"

	store.On("GetItemByID", mock.Anything, "ghost").Return(nil, nil)

	svc := verification.NewService(store, nil)
	result, err := svc.VerifyClaim(context.Background(), input)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "not found")
}

// TestPipelineAISuccessBlendsScore verifies a configured assessor
// contributes the AI analysis check and the three-way blended score.
func TestPipelineAISuccessBlendsScore(t *testing.T) {
	store := new(MockClaimStore)
	input := strongSubmission()
	expectCleanStore(store, input)

	assessor := new(MockAssessor)
	assessor.On("Configured").Return(true)
	assessor.On("VerifyClaim", mock.Anything, mock.Anything, mock.Anything).Return(&ai.Assessment{
		VerificationScore: 90,
		Confidence:        "high",
		RiskLevel:         "low",
		OverallAssessment: "Claimant demonstrates detailed knowledge of the item.",
	}, nil)

	svc := verification.NewService(store, assessor)
	result, err := svc.VerifyClaim(context.Background(), input)

	assert.NoError(t, err)
	assert.NotNil(t, result.AI)
	assert.Equal(t, 90, result.AI.VerificationScore)

	var aiCheck *verification.Check
	for i := range result.Checks {
		if result.Checks[i].Name == verification.CheckAIAnalysis {
			aiCheck = &result.Checks[i]
		}
	}
	assert.NotNil(t, aiCheck)
	assert.Equal(t, verification.StatusPass, aiCheck.Status)
	assert.Equal(t, verification.DecisionAutoApproved, result.Decision)
}

// TestPipelineAIRedFlagsAppendCheck verifies reported red flags surface as a
// dedicated warn check.
func TestPipelineAIRedFlagsAppendCheck(t *testing.T) {
	store := new(MockClaimStore)
	input := strongSubmission()
	expectCleanStore(store, input)

	assessor := new(MockAssessor)
	assessor.On("Configured").Return(true)
	assessor.On("VerifyClaim", mock.Anything, mock.Anything, mock.Anything).Return(&ai.Assessment{
		VerificationScore: 50,
		RiskLevel:         "medium",
		OverallAssessment: "Some inconsistencies in the answers.",
		RedFlags:          []string{"Color answer contradicts the description", "Generic damage answer"},
	}, nil)

	svc := verification.NewService(store, assessor)
	result, err := svc.VerifyClaim(context.Background(), input)
	assert.NoError(t, err)

	var flagCheck *verification.Check
	for i := range result.Checks {
		if result.Checks[i].Name == verification.CheckAIRedFlags {
			flagCheck = &result.Checks[i]
		}
	}
	assert.NotNil(t, flagCheck)
	assert.Equal(t, verification.StatusWarn, flagCheck.Status)
	assert.Contains(t, flagCheck.Message, "Color answer contradicts")
}

// TestPipelineAIFailureFallsBackToLocal verifies an unavailable assessor
// degrades to the local-only blend with a minor warn, and a strong claim is
// still auto-approved.
func TestPipelineAIFailureFallsBackToLocal(t *testing.T) {
	store := new(MockClaimStore)
	input := strongSubmission()
	expectCleanStore(store, input)

	assessor := new(MockAssessor)
	assessor.On("Configured").Return(true)
	assessor.On("VerifyClaim", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("groq: request timed out"))

	svc := verification.NewService(store, assessor)
	result, err := svc.VerifyClaim(context.Background(), input)

	assert.NoError(t, err)
	assert.Nil(t, result.AI)
	assert.Len(t, result.Checks, 10)

	fallback := result.Checks[9]
	assert.Equal(t, verification.CheckAIAnalysis, fallback.Name)
	assert.Equal(t, verification.StatusWarn, fallback.Status)
	assert.Equal(t, verification.SeverityMinor, fallback.Severity)

	// The minor warn costs only a small slice of the bonus; a strong claim
	// still clears the auto-approve bar on the local-only blend.
	assert.Equal(t, verification.DecisionAutoApproved, result.Decision)
}

// TestPipelineDegradedStoreNeverRejects verifies a flaky store produces
// warns, never fails, so a claim is escalated rather than rejected.
func TestPipelineDegradedStoreNeverRejects(t *testing.T) {
	store := new(MockClaimStore)
	input := strongSubmission()

	store.On("FindClaims", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
	store.On("GetItemByID", mock.Anything, input.ItemID).Return(nil, errors.New("db down"))

	svc := verification.NewService(store, nil)
	result, err := svc.VerifyClaim(context.Background(), input)

	assert.NoError(t, err)
	assert.NotEqual(t, verification.DecisionAutoRejected, result.Decision)
	for _, c := range result.Checks {
		assert.NotEqual(t, verification.StatusFail, c.Status, "check %s must not fail on a degraded store", c.Name)
	}
}
