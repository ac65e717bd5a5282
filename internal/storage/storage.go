// Package storage persists items, claims and notifications in PostgreSQL
// and publishes outbound events on Redis Pub/Sub.
package storage

import (
	"context"
	"encoding/json"
	"log"

	"campusconnect/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ItemFilter narrows ListItems queries. Zero values are ignored.
type ItemFilter struct {
	Type     string
	Category string
	Status   string
	Location string
}

type Storage interface {
	SaveItem(ctx context.Context, item *models.Item) error
	GetItemByID(ctx context.Context, id string) (*models.Item, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]models.Item, error)
	UpdateItemStatus(ctx context.Context, id, status string) error

	SaveClaim(ctx context.Context, claim *models.Claim) error
	GetClaimByID(ctx context.Context, id string) (*models.Claim, error)
	FindClaims(ctx context.Context, filter models.ClaimFilter) ([]models.Claim, error)
	UpdateClaimStatus(ctx context.Context, id, status string) error

	SaveNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)

	PublishEvent(ctx context.Context, event models.Event) error
}

// Service implements Storage over GORM and go-redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// PublishEvent publishes an outbound event on the Redis event channel.
// Delivery is best effort; a nil Redis client makes this a no-op so the
// admin CLI can run without an event bus.
func (s *Service) PublishEvent(ctx context.Context, event models.Event) error {
	if s.Redis == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.Redis.Publish(ctx, models.EventChannel, string(payload)).Err(); err != nil {
		log.Printf("ERROR: Failed to publish %s event: %v", event.Type, err)
		return err
	}
	return nil
}

// SubscribeEvents subscribes to the outbound event channel. Used by the
// notifier and the admin live feed.
func (s *Service) SubscribeEvents(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, models.EventChannel)
}
