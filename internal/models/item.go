package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Item statuses. A claim submission moves an available item to pending;
// an approval moves it to claimed, a rejection returns it to available.
// A claimed item is never moved again by the verification pipeline.
const (
	ItemAvailable = "available"
	ItemPending   = "pending"
	ItemClaimed   = "claimed"
)

// Item types: what kind of report created the record.
const (
	ItemFound = "found"
	ItemLost  = "lost"
)

// Item represents a reported lost or found item.
type Item struct {
	ID string `gorm:"primaryKey" json:"id"`
	// Name is the short title of the item, e.g. "MacBook Pro Charger".
	Name        string `gorm:"type:text;not null" json:"name"`
	Category    string `gorm:"type:text;not null;index" json:"category"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `gorm:"type:text;index" json:"location"`
	// DateFound is the reported date (YYYY-MM-DD) the item was found or lost.
	DateFound string `gorm:"type:text" json:"dateFound"`
	Image     string `gorm:"type:text" json:"image"`
	Status    string `gorm:"type:text;not null;index" json:"status"`
	Type      string `gorm:"type:text;not null;index" json:"type"`
	// Keywords are optional search hints supplied by the reporter.
	Keywords pq.StringArray `gorm:"type:text[]" json:"keywords,omitempty"`

	// Reporter identity; empty for anonymous reports.
	CreatedBy      string `gorm:"type:text;index" json:"createdBy,omitempty"`
	CreatedByEmail string `gorm:"type:text" json:"createdByEmail,omitempty"`

	CreatedAt int64 `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt int64 `gorm:"autoUpdateTime" json:"updatedAt"`
}

// BeforeCreate generates a new UUID for the item if the ID is not yet set.
func (i *Item) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	if i.Status == "" {
		i.Status = ItemAvailable
	}
	return
}
