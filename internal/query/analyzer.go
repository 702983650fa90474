// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxSearchTerms   = 5
	maxKeywords      = 6
	maxFocusPhrases  = 4
	maxProperNouns   = 3
	maxContentWords  = 5
	maxContentPairs  = 2
	minKeywordLength = 3
)

// Analyzer extracts search terms, primary keywords, and focus phrases from
// a question. All methods are pure functions of the question text and the
// injected filters: calling them twice yields identical output.
type Analyzer struct {
	filters Filters
}

// NewAnalyzer returns an Analyzer using the given word filters.
func NewAnalyzer(filters Filters) *Analyzer {
	return &Analyzer{filters: filters}
}

// quotedSpanPattern matches spans inside single or double quotes.
var quotedSpanPattern = regexp.MustCompile(`["']([^"']+)["']`)

// focusQuotePattern matches double-quoted or single-quoted spans separately,
// so a quote character of one kind may appear inside the other.
var focusQuotePattern = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)

// keywordTokenPattern matches lowercase word tokens, keeping apostrophes so
// possessives survive ("britain's").
var keywordTokenPattern = regexp.MustCompile(`[a-z0-9']+`)

// termSplitPattern splits a search term into keyword candidates.
var termSplitPattern = regexp.MustCompile(`[\s\-_/()]+`)

// SearchTerms extracts up to 5 article-title candidates from the question,
// in extraction-strategy priority order: quoted spans, proper-noun runs,
// capitalized content words, then content-word bigrams. Titles follow
// Wikipedia conventions (sentence case, no leading articles), which the
// Kiwix title search matches case-insensitively by prefix. If nothing is
// extracted the whole question is the sole term.
func (a *Analyzer) SearchTerms(question string) []string {
	var terms []string
	seen := func(t string) bool {
		for _, have := range terms {
			if have == t {
				return true
			}
		}
		return false
	}

	// Strategy 0: quoted spans (e.g. "The Expanse").
	for _, m := range quotedSpanPattern.FindAllStringSubmatch(question, -1) {
		span := strings.TrimSpace(m[1])
		if len(span) > 2 && !seen(span) {
			terms = append(terms, span)
		}
	}

	wordsOriginal := splitQuestionWords(question)
	properNouns := properNounRuns(wordsOriginal, a.filters)
	contentWords := a.contentWords(question)

	// Strategy 1: proper-noun runs as-is (e.g. "Albert Einstein").
	for i, noun := range properNouns {
		if i >= maxProperNouns {
			break
		}
		if !seen(noun) {
			terms = append(terms, noun)
		}
	}

	// Strategy 2: single content words, capitalized for title lookup.
	isProperNoun := func(t string) bool {
		for _, n := range properNouns {
			if n == t {
				return true
			}
		}
		return false
	}
	for i, word := range contentWords {
		if i >= maxContentWords {
			break
		}
		if a.filters.IsSkipWord(word) || len(word) < 4 {
			continue
		}
		title := capitalize(word)
		if !seen(title) && !isProperNoun(title) {
			terms = append(terms, title)
		}
	}

	// Strategy 3: adjacent content-word pairs.
	pairs := len(contentWords) - 1
	if pairs > maxContentPairs {
		pairs = maxContentPairs
	}
	for i := 0; i < pairs; i++ {
		if a.filters.IsSkipWord(contentWords[i]) || a.filters.IsSkipWord(contentWords[i+1]) {
			continue
		}
		phrase := capitalize(contentWords[i]) + " " + contentWords[i+1]
		if !seen(phrase) {
			terms = append(terms, phrase)
		}
	}

	if len(terms) == 0 {
		return []string{question}
	}
	if len(terms) > maxSearchTerms {
		terms = terms[:maxSearchTerms]
	}
	return terms
}

// PrimaryKeywords derives up to 6 lowercase topical keywords from the
// question: filtered question tokens, tokens re-split out of the search
// terms, and bigrams of adjacent qualifying tokens. Falls back to the first
// token of length >= 4 when every token is filtered away.
func (a *Analyzer) PrimaryKeywords(question string) []string {
	normalizedTokens := keywordTokenPattern.FindAllString(strings.ToLower(question), -1)

	var base []string
	addBase := func(tok string) {
		if len(tok) < minKeywordLength || a.filters.IsBlacklisted(tok) {
			return
		}
		for _, have := range base {
			if have == tok {
				return
			}
		}
		base = append(base, tok)
	}

	for _, tok := range normalizedTokens {
		addBase(tok)
	}
	for _, term := range a.SearchTerms(question) {
		for _, tok := range termSplitPattern.Split(strings.ToLower(term), -1) {
			addBase(strings.TrimSpace(tok))
		}
	}

	var keywords []string
	add := func(kw string) {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			return
		}
		for _, have := range keywords {
			if have == kw {
				return
			}
		}
		keywords = append(keywords, kw)
	}

	for _, tok := range base {
		add(tok)
	}
	for i := 0; i+1 < len(base); i++ {
		add(base[i] + " " + base[i+1])
	}

	if len(keywords) == 0 {
		for _, tok := range normalizedTokens {
			if len(tok) >= 4 {
				add(tok)
				break
			}
		}
	}
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}
	return keywords
}

// FocusPhrases returns up to 4 multi-word phrases the pipeline should treat
// as must-match topic anchors: quoted spans and multi-word search terms. A
// phrase qualifies only if it still has at least two tokens after
// normalization.
func (a *Analyzer) FocusPhrases(question string) []string {
	var phrases []string
	add := func(raw string) {
		raw = strings.TrimSpace(raw)
		if raw == "" || len(Tokens(raw)) < 2 {
			return
		}
		for _, have := range phrases {
			if have == raw {
				return
			}
		}
		phrases = append(phrases, raw)
	}

	for _, m := range focusQuotePattern.FindAllStringSubmatch(question, -1) {
		candidate := m[1]
		if candidate == "" {
			candidate = m[2]
		}
		add(candidate)
	}

	for _, term := range a.SearchTerms(question) {
		if strings.Contains(term, " ") {
			add(term)
		}
	}

	if len(phrases) > maxFocusPhrases {
		phrases = phrases[:maxFocusPhrases]
	}
	return phrases
}

// splitQuestionWords strips sentence punctuation and splits on whitespace.
func splitQuestionWords(question string) []string {
	replacer := strings.NewReplacer("?", "", ",", "", ".", "")
	return strings.Fields(replacer.Replace(question))
}

// properNounRuns captures maximal runs of consecutive capitalized words.
// A run starts at a capitalized non-stopword and greedily consumes every
// following capitalized word, so "Albert Einstein" comes out as one term.
func properNounRuns(words []string, filters Filters) []string {
	var runs []string
	for i := 0; i < len(words); {
		word := words[i]
		if !startsUpper(word) || filters.IsStopword(strings.ToLower(word)) {
			i++
			continue
		}
		run := []string{word}
		j := i + 1
		for j < len(words) && startsUpper(words[j]) {
			run = append(run, words[j])
			j++
		}
		runs = append(runs, strings.Join(run, " "))
		i = j
	}
	return runs
}

// contentWords returns lowercase non-stopword words longer than 3 chars,
// with surrounding punctuation trimmed.
func (a *Analyzer) contentWords(question string) []string {
	var words []string
	for _, w := range splitQuestionWords(strings.ToLower(question)) {
		stripped := strings.Trim(w, `?.,!:;'"`)
		if stripped == "" || a.filters.IsStopword(stripped) || len(w) <= 3 {
			continue
		}
		words = append(words, stripped)
	}
	return words
}

func startsUpper(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(word)
	return string(unicode.ToUpper(runes[0])) + string(runes[1:])
}
