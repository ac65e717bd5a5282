// Package verification implements the claim verification pipeline: the local
// heuristic scorer, the rule check battery and the decision engine that
// together decide whether an ownership claim is auto-approved, auto-rejected
// or escalated to an admin.
package verification

import (
	"time"

	"campusconnect/backend/internal/ai"
	"campusconnect/backend/internal/models"
)

// Check statuses.
const (
	StatusPass = "pass"
	StatusWarn = "warn"
	StatusFail = "fail"
)

// Check severities.
const (
	SeverityCritical = "critical"
	SeverityMajor    = "major"
	SeverityMinor    = "minor"
)

// Decisions.
const (
	DecisionAutoApproved  = "auto_approved"
	DecisionPendingReview = "pending_review"
	DecisionAutoRejected  = "auto_rejected"
)

// Risk levels.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// Check is one atomic legitimacy signal produced by the rule battery.
// Immutable once produced.
type Check struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ClaimSubmission is the per-request input to the pipeline. The caller must
// have validated that ClaimerName and ClaimerEmail are present before the
// pipeline runs.
type ClaimSubmission struct {
	ItemID          string
	Item            *models.Item
	ClaimerName     string
	ClaimerEmail    string
	ClaimerPhone    string
	Description     string
	SecurityAnswers map[string]string
	ProofImages     []string
	// UserID is empty for anonymous claimers.
	UserID string
}

// Result is the authoritative pipeline verdict. The decision is a pure
// function of Checks, OverallScore and RiskLevel; Timestamp and
// ProcessingMs are metadata only.
type Result struct {
	Decision     string         `json:"decision"`
	OverallScore int            `json:"overallScore"`
	RiskLevel    string         `json:"riskLevel"`
	Checks       []Check        `json:"checks"`
	AI           *ai.Assessment `json:"aiVerification,omitempty"`
	LocalScore   *LocalScore    `json:"localScore,omitempty"`
	Summary      string         `json:"summary"`
	Timestamp    time.Time      `json:"timestamp"`
	ProcessingMs int64          `json:"processingTimeMs"`
}

// ScoreBreakdown is one scored aspect of the local heuristic.
type ScoreBreakdown struct {
	Category  string `json:"category"`
	Points    int    `json:"points"`
	MaxPoints int    `json:"maxPoints"`
	Details   string `json:"details"`
}

// LocalScore is the output of the local heuristic scorer.
type LocalScore struct {
	Score      int              `json:"score"`
	MaxScore   int              `json:"maxScore"`
	Percentage int              `json:"percentage"`
	Breakdown  []ScoreBreakdown `json:"breakdown"`
	RiskLevel  string           `json:"riskLevel"`
}
