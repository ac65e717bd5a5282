package models

// Event types published on the Redis event channel.
const (
	EventItemReported  = "item_reported"
	EventClaimVerified = "claim_verified"
	EventMatchFound    = "match_found"
)

// EventChannel is the Redis Pub/Sub channel carrying outbound events.
// Verification correctness never depends on delivery; consumers (notifier,
// admin live feed) are strictly downstream.
const EventChannel = "campus_events"

// Event is the outbound message describing something the rest of the system
// may want to react to. Only the fields relevant to the event type are set.
type Event struct {
	Type string `json:"type"`

	ItemID       string `json:"item_id,omitempty"`
	ItemName     string `json:"item_name,omitempty"`
	ItemCategory string `json:"item_category,omitempty"`
	ItemLocation string `json:"item_location,omitempty"`

	ClaimID      string `json:"claim_id,omitempty"`
	ClaimerName  string `json:"claimer_name,omitempty"`
	ClaimerEmail string `json:"claimer_email,omitempty"`
	ClaimerPhone string `json:"claimer_phone,omitempty"`
	Description  string `json:"description,omitempty"`

	Decision     string `json:"decision,omitempty"`
	OverallScore int    `json:"overall_score,omitempty"`
	RiskLevel    string `json:"risk_level,omitempty"`
	Summary      string `json:"summary,omitempty"`

	MatchCount int    `json:"match_count,omitempty"`
	TopMatch   string `json:"top_match,omitempty"`
	TopScore   int    `json:"top_score,omitempty"`

	Timestamp string `json:"timestamp"`
}
