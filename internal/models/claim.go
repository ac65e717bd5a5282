package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Claim statuses, mirrored from the pipeline decision on insert and
// updated by an admin override afterwards.
const (
	ClaimPending  = "pending"
	ClaimApproved = "approved"
	ClaimRejected = "rejected"
)

// Claim is a persisted ownership claim together with the verification
// verdict computed at submission time. The verdict columns are written once
// and never mutated; an admin override only changes Status.
type Claim struct {
	ID     string `gorm:"primaryKey" json:"id"`
	ItemID string `gorm:"type:text;not null;index" json:"itemId"`

	ClaimerName  string `gorm:"type:text;not null" json:"claimerName"`
	ClaimerEmail string `gorm:"type:text;not null;index" json:"claimerEmail"`
	ClaimerPhone string `gorm:"type:text" json:"claimerPhone,omitempty"`
	// Description is the claimant's free-text identification of the item.
	Description string `gorm:"type:text" json:"description"`
	// SecurityAnswers holds the question-id → answer map as JSON.
	SecurityAnswers string         `gorm:"type:text" json:"securityAnswers"`
	ProofImages     pq.StringArray `gorm:"type:text[]" json:"proofImages"`
	// UserID is empty for unauthenticated claimers.
	UserID string `gorm:"type:text;index" json:"userId,omitempty"`

	Status string `gorm:"type:text;not null;index" json:"status"`

	// Verification verdict, embedded at submission time.
	Decision     string `gorm:"type:text" json:"decision"`
	OverallScore int    `json:"overallScore"`
	RiskLevel    string `gorm:"type:text" json:"riskLevel"`
	ChecksJSON   string `gorm:"type:text" json:"-"`
	AIJSON       string `gorm:"type:text" json:"-"`
	Summary      string `gorm:"type:text" json:"summary"`
	ProcessingMs int64  `json:"processingMs"`

	ClaimedAt time.Time `gorm:"autoCreateTime;index" json:"claimedAt"`
}

// BeforeCreate generates a new UUID for the claim if the ID is not yet set.
func (c *Claim) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = ClaimPending
	}
	return
}

// ClaimFilter narrows FindClaims queries. Zero values are ignored.
type ClaimFilter struct {
	ItemID       string
	ClaimerEmail string
	Status       string
}
