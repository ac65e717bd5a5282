package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"campusconnect/backend/internal/models"
)

// ItemSummary is the slice of an item the model needs for assessment.
type ItemSummary struct {
	Name        string
	Category    string
	Description string
	Location    string
	DateFound   string
	Type        string
}

// ClaimContext is the claimant-side input to an ownership assessment.
type ClaimContext struct {
	Description string
	Answers     map[string]string
	Questions   []models.SecurityQuestion
}

// BreakdownEntry is one scored aspect of the AI assessment.
type BreakdownEntry struct {
	Category  string `json:"category"`
	Score     int    `json:"score"`
	MaxScore  int    `json:"maxScore"`
	AIInsight string `json:"aiInsight"`
}

// Assessment is the structured verdict of the ownership analysis. Every
// field has a conservative default applied on receipt; the AI boundary is
// untrusted input.
type Assessment struct {
	VerificationScore  int              `json:"verificationScore"`
	Confidence         string           `json:"confidence"`
	RiskLevel          string           `json:"riskLevel"`
	Reasoning          string           `json:"reasoning"`
	Breakdown          []BreakdownEntry `json:"breakdown"`
	OverallAssessment  string           `json:"overallAssessment"`
	RedFlags           []string         `json:"redFlags"`
	PositiveIndicators []string         `json:"positiveIndicators"`
}

const verifySystemPrompt = `You are an AI ownership verification engine for Campus Connect. You must analyze a claim against a found item and determine the likelihood the claimant is the true owner.

Evaluation criteria:
1. **Specificity of answers** - Vague answers vs. precise details
2. **Consistency** - Do all answers paint a coherent picture of the same item?
3. **Knowledge depth** - Does the claimant know details not visible in photos?
4. **Red flags** - Generic answers, contradictions, answers that don't match the item type
5. **Positive indicators** - Unique details, serial numbers, specific damage descriptions

Return ONLY valid JSON:
{
  "verificationScore": <number 0-100>,
  "confidence": "<high|medium|low>",
  "riskLevel": "<low|medium|high>",
  "reasoning": "<detailed analysis>",
  "breakdown": [
    {
      "category": "<aspect being evaluated>",
      "score": <number>,
      "maxScore": <max points>,
      "aiInsight": "<specific insight about this aspect>"
    }
  ],
  "overallAssessment": "<1-2 sentence summary>",
  "redFlags": ["<any concerns>"],
  "positiveIndicators": ["<evidence supporting genuine ownership>"]
}`

// VerifyClaim asks the model to assess ownership likelihood. Any failure,
// including parse failure, returns an error wrapping ErrUnavailable.
func (c *Client) VerifyClaim(ctx context.Context, item ItemSummary, claim ClaimContext) (*Assessment, error) {
	var qa strings.Builder
	for i, q := range claim.Questions {
		answer := claim.Answers[q.ID]
		if answer == "" {
			answer = "(not answered)"
		}
		if i > 0 {
			qa.WriteString("\n\n")
		}
		fmt.Fprintf(&qa, "  Q: %s\n  A: %s", q.Question, answer)
	}

	description := claim.Description
	if description == "" {
		description = "(not provided)"
	}

	userPrompt := fmt.Sprintf(`**Found Item:**
- Name: %s
- Category: %s
- Description: %s
- Location: %s
- Date Found: %s

**Claimant's Identification Description:**
%s

**Security Question Answers:**
%s

Analyze this claim and assess ownership likelihood.`,
		item.Name, item.Category, item.Description, item.Location, item.DateFound,
		description, qa.String())

	raw, err := c.chat(ctx, []message{
		{Role: "system", Content: verifySystemPrompt},
		{Role: "user", Content: userPrompt},
	}, chatOptions{temperature: 0.2, maxTokens: 1200, jsonMode: true})
	if err != nil {
		return nil, err
	}

	var parsed Assessment
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		embedded := extractJSON(raw)
		if embedded == "" {
			return nil, fmt.Errorf("unparseable assessment response: %w", ErrUnavailable)
		}
		if err := json.Unmarshal([]byte(embedded), &parsed); err != nil {
			return nil, fmt.Errorf("unparseable assessment response: %v: %w", err, ErrUnavailable)
		}
	}

	applyDefaults(&parsed)
	return &parsed, nil
}

// applyDefaults clamps the score and fills conservative defaults for any
// field the model omitted.
func applyDefaults(a *Assessment) {
	if a.VerificationScore < 0 {
		a.VerificationScore = 0
	}
	if a.VerificationScore > 100 {
		a.VerificationScore = 100
	}
	if a.Confidence == "" {
		a.Confidence = "low"
	}
	if a.RiskLevel == "" {
		a.RiskLevel = "high"
	}
	if a.Reasoning == "" {
		a.Reasoning = "Unable to fully assess"
	}
	if a.OverallAssessment == "" {
		a.OverallAssessment = "Manual review recommended"
	}
	if a.Breakdown == nil {
		a.Breakdown = []BreakdownEntry{}
	}
	if a.RedFlags == nil {
		a.RedFlags = []string{}
	}
	if a.PositiveIndicators == nil {
		a.PositiveIndicators = []string{}
	}
}
