package storage

import (
	"context"
	"errors"
	"log"

	"campusconnect/backend/internal/models"

	"gorm.io/gorm"
)

// SaveItem creates or updates an item record.
func (s *Service) SaveItem(ctx context.Context, item *models.Item) error {
	if err := s.DB.WithContext(ctx).Save(item).Error; err != nil {
		log.Printf("ERROR: Failed to save item %s: %v", item.ID, err)
		return err
	}
	return nil
}

// GetItemByID returns the item or (nil, nil) when it does not exist.
func (s *Service) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get item %s: %v", id, err)
		return nil, err
	}
	return &item, nil
}

// ListItems returns items matching the filter, newest first.
func (s *Service) ListItems(ctx context.Context, filter ItemFilter) ([]models.Item, error) {
	q := s.DB.WithContext(ctx).Model(&models.Item{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Location != "" {
		q = q.Where("location = ?", filter.Location)
	}

	var items []models.Item
	if err := q.Order("created_at desc").Find(&items).Error; err != nil {
		log.Printf("ERROR: Failed to list items: %v", err)
		return nil, err
	}
	return items, nil
}

// UpdateItemStatus sets the item status. Transition legality is the
// caller's contract; the store only refuses to resurrect a claimed item.
func (s *Service) UpdateItemStatus(ctx context.Context, id, status string) error {
	q := s.DB.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id)
	if status != models.ItemClaimed {
		q = q.Where("status <> ?", models.ItemClaimed)
	}
	if err := q.Update("status", status).Error; err != nil {
		log.Printf("ERROR: Failed to update status of item %s: %v", id, err)
		return err
	}
	return nil
}

// SaveClaim inserts the claim record with its embedded verification verdict.
func (s *Service) SaveClaim(ctx context.Context, claim *models.Claim) error {
	if err := s.DB.WithContext(ctx).Create(claim).Error; err != nil {
		log.Printf("ERROR: Failed to save claim for item %s: %v", claim.ItemID, err)
		return err
	}
	return nil
}

// GetClaimByID returns the claim or (nil, nil) when it does not exist.
func (s *Service) GetClaimByID(ctx context.Context, id string) (*models.Claim, error) {
	var claim models.Claim
	err := s.DB.WithContext(ctx).Where("id = ?", id).First(&claim).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get claim %s: %v", id, err)
		return nil, err
	}
	return &claim, nil
}

// FindClaims returns claims matching the filter, newest first. Backs the
// duplicate, rate-limit, competing and history rule checks.
func (s *Service) FindClaims(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, error) {
	q := s.DB.WithContext(ctx).Model(&models.Claim{})
	if filter.ItemID != "" {
		q = q.Where("item_id = ?", filter.ItemID)
	}
	if filter.ClaimerEmail != "" {
		q = q.Where("LOWER(claimer_email) = LOWER(?)", filter.ClaimerEmail)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var claims []models.Claim
	if err := q.Order("claimed_at desc").Find(&claims).Error; err != nil {
		log.Printf("ERROR: Failed to find claims: %v", err)
		return nil, err
	}
	return claims, nil
}

// UpdateClaimStatus applies an admin decision to a claim record. The
// verification verdict columns stay untouched.
func (s *Service) UpdateClaimStatus(ctx context.Context, id, status string) error {
	result := s.DB.WithContext(ctx).Model(&models.Claim{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		log.Printf("ERROR: Failed to update status of claim %s: %v", id, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SaveNotification inserts an in-app notification record.
func (s *Service) SaveNotification(ctx context.Context, n *models.Notification) error {
	if err := s.DB.WithContext(ctx).Create(n).Error; err != nil {
		log.Printf("ERROR: Failed to save notification for user %s: %v", n.UserID, err)
		return err
	}
	return nil
}

// ListNotifications returns a user's notifications, newest first.
func (s *Service) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&notifications).Error
	if err != nil {
		log.Printf("ERROR: Failed to list notifications for user %s: %v", userID, err)
		return nil, err
	}
	return notifications, nil
}
