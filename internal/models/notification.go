package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types.
const (
	NotificationMatch    = "match"
	NotificationClaim    = "claim"
	NotificationDecision = "decision"
)

// Notification is an in-app message shown to a user, e.g. "we found 2
// potential matches for your lost item".
type Notification struct {
	ID      string `gorm:"primaryKey" json:"id"`
	Type    string `gorm:"type:text;not null" json:"type"`
	UserID  string `gorm:"type:text;not null;index" json:"userId"`
	ItemID  string `gorm:"type:text;index" json:"itemId,omitempty"`
	Message string `gorm:"type:text;not null" json:"message"`
	// Payload carries type-specific details (match list, decision) as JSON.
	Payload string `gorm:"type:text" json:"payload,omitempty"`
	Read    bool   `json:"read"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"createdAt"`
}

// BeforeCreate generates a new UUID for the notification if not yet set.
func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}
