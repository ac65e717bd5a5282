// Package similarity provides the fuzzy string comparison primitive shared by
// the claim scorer and the item matcher. It blends word overlap with
// character-bigram overlap so partial and reworded descriptions still score.
package similarity

import "strings"

// Score returns a similarity value in [0,1] between two free-text strings.
// Word overlap with fuzzy containment contributes 60%, character-bigram Dice
// overlap contributes 40%. Empty or unusable input scores 0.
func Score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	wordsA := normalize(a)
	wordsB := normalize(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	matches := 0
	for _, w := range wordsA {
		if containsFuzzy(wordsB, w) {
			matches++
		}
	}
	longer := len(wordsA)
	if len(wordsB) > longer {
		longer = len(wordsB)
	}
	wordScore := float64(matches) / float64(longer)

	bigramScore := diceCoefficient(bigrams(strings.ToLower(a)), bigrams(strings.ToLower(b)))

	return wordScore*0.6 + bigramScore*0.4
}

// normalize lowercases, strips non-alphanumerics and drops words of length <= 2.
func normalize(s string) []string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '\t' || r == '\n' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}

	var words []string
	for _, w := range strings.Fields(sb.String()) {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}

// containsFuzzy reports whether word is a substring of, or contains, any
// entry of words. Containment catches plurals and compounds that exact
// equality would miss.
func containsFuzzy(words []string, word string) bool {
	for _, w := range words {
		if strings.Contains(w, word) || strings.Contains(word, w) {
			return true
		}
	}
	return false
}

// bigrams returns the set of character 2-grams of s with whitespace removed.
// Grams are rune pairs, so multibyte text compares at the character level.
func bigrams(s string) map[string]struct{} {
	cleaned := []rune(strings.Join(strings.Fields(s), ""))
	set := make(map[string]struct{})
	for i := 0; i+2 <= len(cleaned); i++ {
		set[string(cleaned[i:i+2])] = struct{}{}
	}
	return set
}

// diceCoefficient computes 2*|A∩B| / (|A|+|B|) for two bigram sets.
func diceCoefficient(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for bg := range a {
		if _, ok := b[bg]; ok {
			intersection++
		}
	}
	return float64(2*intersection) / float64(len(a)+len(b))
}
