// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query turns a natural-language question into search terms,
// primary keywords, and focus phrases, and estimates how many articles
// the question needs.
package query

import (
	"regexp"
	"strings"
)

// Filters holds the word lists used to separate question scaffolding from
// topical content. Both lists are language-level, not topic-level: neither
// may encode vocabulary from a specific domain, so the pipeline stays
// topic-agnostic.
type Filters struct {
	stopwords map[string]bool
	skipwords map[string]bool
}

// NewFilters builds a Filters value from explicit word lists. The lists are
// copied; the returned value is immutable.
func NewFilters(stopwords, skipwords []string) Filters {
	f := Filters{
		stopwords: make(map[string]bool, len(stopwords)),
		skipwords: make(map[string]bool, len(skipwords)),
	}
	for _, w := range stopwords {
		f.stopwords[w] = true
	}
	for _, w := range skipwords {
		f.skipwords[w] = true
	}
	return f
}

// IsStopword reports whether the lowercase word is question scaffolding
// (question words, auxiliaries, articles, prepositions).
func (f Filters) IsStopword(w string) bool { return f.stopwords[w] }

// IsSkipWord reports whether the lowercase word is a generic qualifier that
// makes a poor search term on its own.
func (f Filters) IsSkipWord(w string) bool { return f.skipwords[w] }

// IsBlacklisted reports whether the word is in either list. Keyword
// extraction filters against the union.
func (f Filters) IsBlacklisted(w string) bool { return f.stopwords[w] || f.skipwords[w] }

// SkipWords returns a copy of the skip-word list.
func (f Filters) SkipWords() []string {
	words := make([]string, 0, len(f.skipwords))
	for w := range f.skipwords {
		words = append(words, w)
	}
	return words
}

// DefaultFilters returns the canonical word lists.
func DefaultFilters() Filters {
	return NewFilters(defaultStopwords, defaultSkipWords)
}

// defaultStopwords covers question words, auxiliaries, articles,
// prepositions, pronouns, and conversational verbs.
var defaultStopwords = []string{
	"what", "when", "where", "who", "whom", "whose", "why", "which", "how",
	"is", "are", "was", "were", "am", "been", "being",
	"does", "do", "did", "done", "doing",
	"can", "could", "will", "would", "shall", "should", "may", "might", "must",
	"the", "a", "an", "and", "or", "but", "if", "then",
	"in", "on", "at", "to", "for", "of", "with", "by", "from", "about",
	"as", "into", "through", "during", "before", "after", "above", "below",
	"its", "it", "has", "have", "had", "having",
	"this", "that", "these", "those",
	"me", "you", "tell", "explain", "describe", "define",
	"cause", "causes", "caused",
	"become", "became", "get", "got", "make", "made", "take", "took",
}

// defaultSkipWords covers generic qualifiers and evaluative words that carry
// no topic on their own.
var defaultSkipWords = []string{
	"them", "some", "many", "much", "more", "most",
	"good", "best", "worst", "great", "awesome", "awful",
	"worth", "watch", "watching",
	"review", "reviews", "rating", "ratings",
	"people", "person", "thing", "things",
	"kind", "kinds", "sort", "sorts", "type", "types",
}

// tokenPattern matches lowercase alphanumeric runs.
var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Tokens returns the lowercase alphanumeric token sequence of text.
func Tokens(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Normalize returns text reduced to its lowercase alphanumeric tokens
// joined by single spaces. Both sides of every matching predicate in the
// pipeline normalize through this function.
func Normalize(text string) string {
	return strings.Join(Tokens(text), " ")
}
