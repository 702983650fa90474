// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders candidate articles with integer-weighted heuristics
// before the selection stage builds its bounded display list. The weights
// are deliberately simple rules, kept in one place so they can be tuned and
// tested in isolation.
package rank

import (
	"sort"
	"strings"

	"github.com/pdiddy/answer-engine/internal/query"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// MediaSuffixes are the disambiguation suffixes Wikipedia appends to titles
// of film and television works. A direct probe with one of these recovers
// the main article for a work whose bare name is an unrelated page.
var MediaSuffixes = []string{" (TV series)", " (film)", " (TV show)", " (television)"}

// Scoring weights. phraseMissPenalty is aggressive on purpose: once any
// candidate matches a focus phrase, non-matching candidates are pushed well
// below it. Tunable, not a guarantee.
const (
	mediaSuffixBonus    = 100
	listPrefixPenalty   = -50
	disambigPenalty     = -40
	phraseHitBonus      = 200
	phraseMissPenalty   = -90
	longAbstractBonus   = 20
	shortAbstractBonus  = 10
	keywordInAbstract   = 25
	shortTitleBonus     = 5
	keywordTitleBonus   = 80
	keywordTitlePenalty = -60
)

// TitleMatchesKeywords reports whether the title carries enough keyword
// overlap. With fewer than 3 keywords one hit suffices; with 3 or more, two
// hits are required, since ambiguity grows with the keyword count. An empty
// keyword list matches everything.
func TitleMatchesKeywords(title string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	normalizedTitle := query.Normalize(title)
	matches := 0
	for _, kw := range keywords {
		normalized := query.Normalize(kw)
		if normalized == "" {
			continue
		}
		if strings.Contains(normalizedTitle, normalized) {
			matches++
		}
	}
	if matches == 0 {
		return false
	}
	if len(keywords) >= 3 {
		return matches >= 2
	}
	return matches >= 1
}

// TitleMatchesPhrase reports whether any focus phrase matches the title.
// A phrase matches when its tokens appear in the title's token sequence in
// order, not necessarily contiguously, so "Star Trek - Next Generation"
// matches "Star Trek: The Next Generation".
func TitleMatchesPhrase(title string, phrases []string) bool {
	if len(phrases) == 0 {
		return false
	}
	titleTokens := query.Tokens(title)
	if len(titleTokens) == 0 {
		return false
	}
	for _, phrase := range phrases {
		phraseTokens := query.Tokens(phrase)
		if len(phraseTokens) == 0 {
			continue
		}
		if tokensInOrder(phraseTokens, titleTokens) {
			return true
		}
	}
	return false
}

// tokensInOrder scans needle through haystack with a forward-only cursor.
func tokensInOrder(needle, haystack []string) bool {
	pos := 0
	for _, tok := range needle {
		for pos < len(haystack) && haystack[pos] != tok {
			pos++
		}
		if pos == len(haystack) {
			return false
		}
		pos++
	}
	return true
}

// HasPhraseHit reports whether any candidate's title matches a focus phrase.
// The scorer needs this to decide whether the phrase penalty applies.
func HasPhraseHit(candidates []types.Candidate, phrases []string) bool {
	if len(phrases) == 0 {
		return false
	}
	for _, c := range candidates {
		if TitleMatchesPhrase(c.Title, phrases) {
			return true
		}
	}
	return false
}

// Score computes the composite heuristic score for one candidate.
// phraseHitExists must be HasPhraseHit over the whole candidate set: the
// phrase bonus and penalty only apply once at least one candidate matches.
func Score(c types.Candidate, keywords, phrases []string, phraseHitExists bool) int {
	title := strings.ToLower(c.Title)
	score := 0

	for _, suffix := range MediaSuffixes {
		if strings.Contains(title, strings.ToLower(suffix)) {
			score += mediaSuffixBonus
			break
		}
	}
	if strings.HasPrefix(title, "list of") || strings.HasPrefix(title, "lists of") {
		score += listPrefixPenalty
	}
	if strings.Contains(title, "disambiguation") || strings.Contains(title, "index of") {
		score += disambigPenalty
	}

	if phraseHitExists {
		if TitleMatchesPhrase(c.Title, phrases) {
			score += phraseHitBonus
		} else {
			score += phraseMissPenalty
		}
	}

	switch {
	case len(c.Abstract) > 200:
		score += longAbstractBonus
	case len(c.Abstract) > 100:
		score += shortAbstractBonus
	}
	if len(keywords) > 0 && c.Abstract != "" {
		abstractLower := strings.ToLower(c.Abstract)
		for _, kw := range keywords {
			if strings.Contains(abstractLower, kw) {
				score += keywordInAbstract
				break
			}
		}
	}

	if len(title) < 30 {
		score += shortTitleBonus
	}
	if len(keywords) > 0 {
		if TitleMatchesKeywords(c.Title, keywords) {
			score += keywordTitleBonus
		} else {
			score += keywordTitlePenalty
		}
	}

	return score
}

// SortByScore returns the candidates reordered by descending composite
// score. The sort is stable: ties keep their original retrieval order.
func SortByScore(candidates []types.Candidate, keywords, phrases []string) []types.Candidate {
	phraseHitExists := HasPhraseHit(candidates, phrases)

	sorted := make([]types.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Score(sorted[i], keywords, phrases, phraseHitExists) >
			Score(sorted[j], keywords, phrases, phraseHitExists)
	})
	return sorted
}
