package matching_test

import (
	"context"

	"campusconnect/backend/internal/ai"
	"campusconnect/backend/internal/models"
	"campusconnect/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveItem(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStorage) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockStorage) ListItems(ctx context.Context, filter storage.ItemFilter) ([]models.Item, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockStorage) UpdateItemStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockStorage) SaveClaim(ctx context.Context, claim *models.Claim) error {
	args := m.Called(ctx, claim)
	return args.Error(0)
}

func (m *MockStorage) GetClaimByID(ctx context.Context, id string) (*models.Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claim), args.Error(1)
}

func (m *MockStorage) FindClaims(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Claim), args.Error(1)
}

func (m *MockStorage) UpdateClaimStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockStorage) SaveNotification(ctx context.Context, n *models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockStorage) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockStorage) PublishEvent(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockAIMatcher is a testify mock of the matching.AIMatcher interface.
type MockAIMatcher struct {
	mock.Mock
}

func (m *MockAIMatcher) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockAIMatcher) BatchMatch(ctx context.Context, item ai.ItemSummary, candidates []ai.Candidate) ([]ai.MatchScore, error) {
	args := m.Called(ctx, item, candidates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ai.MatchScore), args.Error(1)
}

func (m *MockAIMatcher) VerifyClaim(ctx context.Context, item ai.ItemSummary, claim ai.ClaimContext) (*ai.Assessment, error) {
	args := m.Called(ctx, item, claim)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ai.Assessment), args.Error(1)
}
