// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import "strings"

const (
	// MinArticles is the floor for the target article count.
	MinArticles = 3

	// MaxArticles is the ceiling for the auto-detected target article
	// count. An explicit override may go higher.
	MaxArticles = 6
)

// complexitySignals maps substring triggers to score increments. Each group
// contributes its weight once no matter how many of its markers appear.
var complexitySignals = []struct {
	markers []string
	weight  int
}{
	// Multi-part questions need multiple perspectives.
	{[]string{" and "}, 2},
	{[]string{" vs ", " versus "}, 3},
	// Comparisons need both sides.
	{[]string{"compare", "difference", "versus", "vs"}, 3},
	// Relationship questions need context from several articles.
	{[]string{"relationship", "connect", "relate", "impact", "affect", "influence", "cause"}, 2},
	// Analytical openers need comprehensive context.
	{[]string{"how does", "how do", "why", "explain"}, 2},
	{[]string{"history", "evolution", "development", "origin"}, 2},
	// Broad conceptual questions.
	{[]string{"overview", "summary", "introduction", "basics"}, 1},
	// Predictive questions need current state plus theories.
	{[]string{"future", "prediction", "will", "going to"}, 2},
}

// EstimateComplexity scores a question's complexity and maps it to the
// number of articles to retrieve, between MinArticles and MaxArticles.
// The function is pure and deterministic.
func EstimateComplexity(question string) int {
	lower := strings.ToLower(question)

	score := 0
	for _, sig := range complexitySignals {
		for _, marker := range sig.markers {
			if strings.Contains(lower, marker) {
				score += sig.weight
				break
			}
		}
	}

	// Long questions usually need more context.
	if len(strings.Fields(question)) > 12 {
		score++
	}

	switch {
	case score >= 6:
		return 6
	case score >= 4:
		return 5
	case score >= 2:
		return 4
	default:
		return MinArticles
	}
}
