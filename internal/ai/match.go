package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"campusconnect/backend/internal/config"
)

// Candidate is one existing item offered to the model for matching.
type Candidate struct {
	ID          string
	Name        string
	Category    string
	Location    string
	Description string
}

// MatchScore is the model's score for one candidate.
type MatchScore struct {
	ID                string   `json:"id"`
	Score             int      `json:"score"`
	Reasoning         string   `json:"reasoning"`
	MatchedAttributes []string `json:"matchedAttributes"`
}

const batchMatchSystemPrompt = `You are an AI matchmaking engine for Campus Connect, a campus lost-and-found platform. You will receive a reported item and a list of candidate items. Score each candidate on how likely it is the SAME physical item.

Scoring criteria:
- **Name similarity** (0-25): Same item type? Synonyms? Abbreviations?
- **Description match** (0-30): Colors, brands, sizes, unique identifiers, damage
- **Location proximity** (0-20): Same building? Nearby? Items move on campus
- **Category fit** (0-15): Exact match or plausible cross-category
- **Contextual clues** (0-10): Any implicit evidence they're the same item

Return ONLY valid JSON array:
[
  {
    "id": "<candidate id>",
    "score": <number 0-100>,
    "reasoning": "<brief explanation>",
    "matchedAttributes": ["<matched feature 1>", "<matched feature 2>"]
  }
]

Sort by score descending. Only include candidates with score >= 25.`

// BatchMatch scores all candidates against the reported item in a single
// call. Results are filtered to the configured floor, sorted descending and
// capped at ten entries.
func (c *Client) BatchMatch(ctx context.Context, item ItemSummary, candidates []Candidate) ([]MatchScore, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var list strings.Builder
	for i, cand := range candidates {
		fmt.Fprintf(&list, "  %d. [ID: %s] %q | Category: %s | Location: %s | Desc: %s\n",
			i+1, cand.ID, cand.Name, cand.Category, cand.Location, cand.Description)
	}

	userPrompt := fmt.Sprintf(`**Reported %s item:**
- Name: %s
- Category: %s
- Location: %s
- Description: %s

**Candidate items to match against:**
%s
Score each candidate and return matches.`,
		strings.ToUpper(item.Type), item.Name, item.Category, item.Location, item.Description,
		list.String())

	raw, err := c.chat(ctx, []message{
		{Role: "system", Content: batchMatchSystemPrompt},
		{Role: "user", Content: userPrompt},
	}, chatOptions{temperature: 0.2, maxTokens: 1500, jsonMode: true})
	if err != nil {
		return nil, err
	}

	scores, err := parseMatchScores(raw)
	if err != nil {
		return nil, err
	}

	filtered := scores[:0]
	for _, m := range scores {
		if m.Score >= config.AIMatchFloor {
			filtered = append(filtered, m)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Score > filtered[j].Score })
	if len(filtered) > 10 {
		filtered = filtered[:10]
	}
	return filtered, nil
}

// parseMatchScores accepts either a bare JSON array or an object wrapping
// one under a well-known key, which some models produce in json mode.
func parseMatchScores(raw string) ([]MatchScore, error) {
	text := raw
	var scores []MatchScore
	if err := json.Unmarshal([]byte(text), &scores); err == nil {
		return scores, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
		if embedded := extractJSON(raw); embedded != "" {
			text = embedded
			if err := json.Unmarshal([]byte(text), &scores); err == nil {
				return scores, nil
			}
			if err := json.Unmarshal([]byte(text), &wrapped); err != nil {
				return nil, fmt.Errorf("unparseable match response: %w", ErrUnavailable)
			}
		} else {
			return nil, fmt.Errorf("unparseable match response: %w", ErrUnavailable)
		}
	}

	for _, key := range []string{"matches", "results", "candidates"} {
		if inner, ok := wrapped[key]; ok {
			if err := json.Unmarshal(inner, &scores); err == nil {
				return scores, nil
			}
		}
	}
	return nil, fmt.Errorf("unparseable match response: %w", ErrUnavailable)
}
