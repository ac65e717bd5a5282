package verification_test

import (
	"context"

	"campusconnect/backend/internal/ai"
	"campusconnect/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockClaimStore is a testify mock of the verification.ClaimStore interface.
// It allows each test to script exactly what the store returns per check.
type MockClaimStore struct {
	mock.Mock
}

func (m *MockClaimStore) FindClaims(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Claim), args.Error(1)
}

func (m *MockClaimStore) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

// MockAssessor is a testify mock of the verification.AIAssessor interface.
type MockAssessor struct {
	mock.Mock
}

func (m *MockAssessor) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockAssessor) VerifyClaim(ctx context.Context, item ai.ItemSummary, claim ai.ClaimContext) (*ai.Assessment, error) {
	args := m.Called(ctx, item, claim)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.Assessment), args.Error(1)
}
