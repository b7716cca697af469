package generation

import (
	"strings"
	"unicode/utf8"
)

// Score weights
const (
	lengthBandBonus     = 2.0
	lengthFallbackBonus = 1.0
	structuralBonus     = 3.0
	returnBonus         = 2.0
	commentBonus        = 1.0
	logicBonus          = 2.0
	penaltyCost         = 5.0
	overlapBonus        = 0.5
)

// Score assigns a non-negative heuristic quality score to extracted code.
// The heuristic is lexical and language-independent.
func Score(code, prompt string) float64 {
	var score float64

	switch n := utf8.RuneCountInString(code); {
	case n > 50 && n < 1000:
		score += lengthBandBonus
	case n > 30 && n < 1500:
		score += lengthFallbackBonus
	}

	if containsAny(code, StructuralMarkers) {
		score += structuralBonus
	}
	if containsAny(code, ReturnMarkers) {
		score += returnBonus
	}
	if containsAny(code, CommentMarkers) {
		score += commentBonus
	}
	if containsAny(code, LogicKeywords) {
		score += logicBonus
	}

	for _, p := range PenaltyPatterns {
		if strings.Contains(code, p) {
			score -= penaltyCost
		}
	}

	lowerCode := strings.ToLower(code)
	for _, word := range strings.Fields(strings.ToLower(prompt)) {
		if len(word) > 3 && strings.Contains(lowerCode, word) {
			score += overlapBonus
		}
	}

	if score < 0 {
		return 0
	}
	return score
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
