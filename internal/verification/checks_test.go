package verification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusconnect/backend/internal/models"
	"campusconnect/backend/internal/verification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testSubmission() *verification.ClaimSubmission {
	item := testItem()
	return &verification.ClaimSubmission{
		ItemID:       item.ID,
		Item:         item,
		ClaimerName:  "Dana Claimer",
		ClaimerEmail: "dana@campus.edu",
		SecurityAnswers: map[string]string{
			"bagColor": "navy blue",
			"bagBrand": "jansport",
		},
		Description: "Navy blue Jansport with torn pocket",
	}
}

// TestItemAvailability covers the three item states.
func TestItemAvailability(t *testing.T) {
	tests := []struct {
		status       string
		wantStatus   string
		wantSeverity string
	}{
		{models.ItemAvailable, verification.StatusPass, verification.SeverityCritical},
		{models.ItemPending, verification.StatusWarn, verification.SeverityMajor},
		{models.ItemClaimed, verification.StatusFail, verification.SeverityCritical},
	}

	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			item := testItem()
			item.Status = tc.status
			check := verification.ItemAvailability(item)
			assert.Equal(t, verification.CheckItemAvailability, check.Name)
			assert.Equal(t, tc.wantStatus, check.Status)
			assert.Equal(t, tc.wantSeverity, check.Severity)
		})
	}
}

// TestAnswerQuality covers the fail, warn and pass branches.
func TestAnswerQuality(t *testing.T) {
	tests := []struct {
		name    string
		answers map[string]string
		want    string
	}{
		{"no answers", nil, verification.StatusFail},
		{"one answer", map[string]string{"a": "blue"}, verification.StatusFail},
		{"whitespace only does not count", map[string]string{"a": "  ", "b": "\t"}, verification.StatusFail},
		{"generic answers", map[string]string{"a": "yes", "b": "no", "c": "idk"}, verification.StatusWarn},
		{"short answers", map[string]string{"a": "ab", "b": "xy"}, verification.StatusWarn},
		{"moderate answers", map[string]string{"a": "navy blue", "b": "jansport"}, verification.StatusPass},
		{"detailed answers", map[string]string{
			"a": "navy blue with a faded strap",
			"b": "jansport superbreak model",
		}, verification.StatusPass},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			check := verification.AnswerQuality(tc.answers)
			assert.Equal(t, tc.want, check.Status)
			assert.Equal(t, verification.SeverityMajor, check.Severity)
		})
	}
}

// TestDescriptionQuality verifies the length tiers. The check never fails.
func TestDescriptionQuality(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"empty", "", verification.StatusWarn},
		{"whitespace", "    ", verification.StatusWarn},
		{"very short", "my bag", verification.StatusWarn},
		{"moderate", "navy blue backpack from the library", verification.StatusPass},
		{"detailed", "Navy blue Jansport backpack with a torn front pocket, red keychain and my initials inside", verification.StatusPass},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			check := verification.DescriptionQuality(tc.description)
			assert.Equal(t, tc.want, check.Status)
			assert.NotEqual(t, verification.StatusFail, check.Status)
		})
	}
}

// TestProofOfOwnership verifies image counts map to the expected outcome.
func TestProofOfOwnership(t *testing.T) {
	assert.Equal(t, verification.StatusWarn, verification.ProofOfOwnership(nil).Status)
	assert.Equal(t, verification.StatusPass, verification.ProofOfOwnership([]string{"a.jpg"}).Status)
	assert.Equal(t, verification.StatusPass, verification.ProofOfOwnership([]string{"a.jpg", "b.jpg"}).Status)
}

// TestDuplicateClaimFailsOnExisting verifies an existing claim from the same
// email on the same item is a critical fail.
func TestDuplicateClaimFailsOnExisting(t *testing.T) {
	store := new(MockClaimStore)
	battery := &verification.Battery{Store: store}
	input := testSubmission()

	store.On("FindClaims", mock.Anything, models.ClaimFilter{
		ItemID:       input.ItemID,
		ClaimerEmail: input.ClaimerEmail,
	}).Return([]models.Claim{{ID: "prior"}}, nil).Once()

	check := battery.DuplicateClaim(context.Background(), input)

	assert.Equal(t, verification.StatusFail, check.Status)
	assert.Equal(t, verification.SeverityCritical, check.Severity)
	store.AssertExpectations(t)
}

// TestDuplicateClaimDegradesOnError verifies a failed query degrades to a
// warn instead of passing or aborting.
func TestDuplicateClaimDegradesOnError(t *testing.T) {
	store := new(MockClaimStore)
	battery := &verification.Battery{Store: store}

	store.On("FindClaims", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused")).Once()

	check := battery.DuplicateClaim(context.Background(), testSubmission())

	assert.Equal(t, verification.StatusWarn, check.Status)
	assert.Equal(t, verification.SeverityCritical, check.Severity)
}

// TestClaimFloodThresholds verifies the 24h rate-limit tiers.
func TestClaimFloodThresholds(t *testing.T) {
	makeClaims := func(recent, stale int) []models.Claim {
		var claims []models.Claim
		for i := 0; i < recent; i++ {
			claims = append(claims, models.Claim{ClaimedAt: time.Now().Add(-time.Hour)})
		}
		for i := 0; i < stale; i++ {
			claims = append(claims, models.Claim{ClaimedAt: time.Now().Add(-48 * time.Hour)})
		}
		return claims
	}

	tests := []struct {
		name   string
		claims []models.Claim
		want   string
	}{
		{"quiet", makeClaims(1, 0), verification.StatusPass},
		{"warn at three", makeClaims(3, 0), verification.StatusWarn},
		{"fail at five", makeClaims(5, 0), verification.StatusFail},
		{"stale claims ignored", makeClaims(2, 10), verification.StatusPass},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := new(MockClaimStore)
			battery := &verification.Battery{Store: store}
			store.On("FindClaims", mock.Anything, mock.Anything).Return(tc.claims, nil).Once()

			check := battery.ClaimFlood(context.Background(), testSubmission())
			assert.Equal(t, tc.want, check.Status)
		})
	}
}

// TestCompetingClaimsWarns verifies other pending claims produce a warn, not
// a fail: simultaneous claims are settled by admin review.
func TestCompetingClaimsWarns(t *testing.T) {
	store := new(MockClaimStore)
	battery := &verification.Battery{Store: store}
	input := testSubmission()

	store.On("FindClaims", mock.Anything, models.ClaimFilter{
		ItemID: input.ItemID,
		Status: models.ClaimPending,
	}).Return([]models.Claim{{ID: "other"}}, nil).Once()

	check := battery.CompetingClaims(context.Background(), input)

	assert.Equal(t, verification.StatusWarn, check.Status)
	assert.Equal(t, verification.SeverityMajor, check.Severity)
}

// TestSelfClaimByEmail verifies reporter emails are matched
// case-insensitively.
func TestSelfClaimByEmail(t *testing.T) {
	store := new(MockClaimStore)
	battery := &verification.Battery{Store: store}
	input := testSubmission()
	input.ClaimerEmail = "Finder@Campus.EDU"

	item := testItem()
	item.CreatedByEmail = "finder@campus.edu"
	store.On("GetItemByID", mock.Anything, input.ItemID).Return(item, nil).Once()

	check := battery.SelfClaim(context.Background(), input)

	assert.Equal(t, verification.StatusFail, check.Status)
	assert.Equal(t, verification.SeverityCritical, check.Severity)
}

// TestSelfClaimByUserID verifies the authenticated-reporter path.
func TestSelfClaimByUserID(t *testing.T) {
	store := new(MockClaimStore)
	battery := &verification.Battery{Store: store}
	input := testSubmission()
	input.UserID = "user-42"

	item := testItem()
	item.CreatedBy = "user-42"
	store.On("GetItemByID", mock.Anything, input.ItemID).Return(item, nil).Once()

	check := battery.SelfClaim(context.Background(), input)
	assert.Equal(t, verification.StatusFail, check.Status)
}

// TestSelfClaimPassesForStranger verifies an unrelated claimer passes.
func TestSelfClaimPassesForStranger(t *testing.T) {
	store := new(MockClaimStore)
	battery := &verification.Battery{Store: store}
	input := testSubmission()

	item := testItem()
	item.CreatedBy = "someone-else"
	item.CreatedByEmail = "finder@campus.edu"
	store.On("GetItemByID", mock.Anything, input.ItemID).Return(item, nil).Once()

	check := battery.SelfClaim(context.Background(), input)
	assert.Equal(t, verification.StatusPass, check.Status)
}

// TestUserHistoryTiers verifies rejected-claim counts map to pass/warn/fail.
func TestUserHistoryTiers(t *testing.T) {
	makeRejected := func(n int) []models.Claim {
		var claims []models.Claim
		for i := 0; i < n; i++ {
			claims = append(claims, models.Claim{Status: models.ClaimRejected})
		}
		return claims
	}

	tests := []struct {
		name     string
		rejected int
		want     string
	}{
		{"clean history", 0, verification.StatusPass},
		{"one rejection", 1, verification.StatusWarn},
		{"serial offender", 3, verification.StatusFail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := new(MockClaimStore)
			battery := &verification.Battery{Store: store}
			store.On("FindClaims", mock.Anything, mock.Anything).Return(makeRejected(tc.rejected), nil).Once()

			check := battery.UserHistory(context.Background(), testSubmission())
			assert.Equal(t, tc.want, check.Status)
		})
	}
}
