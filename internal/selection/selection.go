// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package selection narrows ranked candidates down to the articles worth
// fetching in full. An AI classifier picks from a numbered display list;
// every failure path falls back to a deterministic rule filter that never
// returns empty when candidates exist.
package selection

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/answer-engine/internal/rank"
	"github.com/pdiddy/answer-engine/pkg/types"
)

const (
	// maxDisplayed caps the numbered list shown to the classifier.
	maxDisplayed = 30

	// maxDisplayedBare caps the title-only fallback list used when no
	// candidate has a usable abstract.
	maxDisplayedBare = 15

	// minDisplayAbstract is the shortest abstract worth previewing.
	minDisplayAbstract = 30

	// abstractPreviewChars truncates abstracts in the display list.
	abstractPreviewChars = 200

	// promptKeywords and promptPhrases cap the hints embedded in the
	// prompt header.
	promptKeywords = 4
	promptPhrases  = 2
)

var (
	numberPattern = regexp.MustCompile(`\d+`)
	yearPattern   = regexp.MustCompile(`\b(19|20)\d{2}\b`)
)

// Classifier answers a selection prompt with free text. Only the integer
// substrings of the reply are meaningful.
type Classifier interface {
	Classify(ctx context.Context, prompt string) (string, error)
}

// Selector picks the target number of articles from a candidate list.
type Selector struct {
	classifier Classifier
	out        io.Writer
}

// NewSelector builds a selector over the given classifier. Warnings about
// fallback paths go to w.
func NewSelector(classifier Classifier, w io.Writer) *Selector {
	return &Selector{classifier: classifier, out: w}
}

// Select returns up to target candidates. Candidate lists at or under the
// target pass through unchanged. Larger lists are score-sorted, shown to
// the classifier as a numbered list, and its numeric reply is mapped back
// to candidates; an empty or unparseable reply, or a classifier error,
// falls through to the rule filter. The result is never empty when
// candidates exist and target is positive.
func (s *Selector) Select(ctx context.Context, question string, candidates []types.Candidate, target int, keywords, phrases []string) []types.Candidate {
	if len(candidates) <= target {
		return candidates
	}

	ranked := rank.SortByScore(candidates, keywords, phrases)

	display, indexMap := buildDisplay(ranked)
	prompt := buildPrompt(question, display, target, keywords, phrases)

	reply, err := s.classifier.Classify(ctx, prompt)
	if err != nil {
		fmt.Fprintf(s.out, "warning: article selection failed: %v\n", err)
	} else if picked := mapReply(reply, indexMap, target); len(picked) > 0 {
		out := make([]types.Candidate, len(picked))
		for i, idx := range picked {
			out[i] = ranked[idx]
		}
		return out
	} else {
		fmt.Fprintf(s.out, "warning: selection reply had no usable numbers, using fallback\n")
	}

	return ruleFilter(ranked, target, keywords, phrases)
}

// buildDisplay renders the numbered candidate list and the map from
// display number back to index in ranked. Candidates with a substantial
// abstract get a preview; bare titles are shown unless they look like
// list pages. If nothing qualifies, the leading titles are listed as-is
// so the classifier always has something to choose from.
func buildDisplay(ranked []types.Candidate) (string, map[int]int) {
	var b strings.Builder
	indexMap := make(map[int]int)
	num := 1

	limit := len(ranked)
	if limit > maxDisplayed {
		limit = maxDisplayed
	}
	for i := 0; i < limit; i++ {
		c := ranked[i]
		switch {
		case len(c.Abstract) > minDisplayAbstract:
			preview := c.Abstract
			// Truncate on a rune boundary; abstracts carry accented
			// titles and names.
			if runes := []rune(preview); len(runes) > abstractPreviewChars {
				preview = string(runes[:abstractPreviewChars]) + "..."
			}
			fmt.Fprintf(&b, "%d. **%s**\n   %s\n\n", num, c.Title, preview)
		case !isListTitle(c.Title):
			fmt.Fprintf(&b, "%d. **%s**\n   (Main article)\n\n", num, c.Title)
		default:
			continue
		}
		indexMap[num] = i
		num++
	}

	if b.Len() == 0 {
		limit = len(ranked)
		if limit > maxDisplayedBare {
			limit = maxDisplayedBare
		}
		for i := 0; i < limit; i++ {
			fmt.Fprintf(&b, "%d. **%s**\n\n", i+1, ranked[i].Title)
			indexMap[i+1] = i
		}
	}
	return b.String(), indexMap
}

func buildPrompt(question, display string, target int, keywords, phrases []string) string {
	var header strings.Builder
	if len(keywords) > 0 {
		header.WriteString("Primary topic keywords: " + quoteJoin(keywords, promptKeywords) + "\n")
	}
	if len(phrases) > 0 {
		header.WriteString("Focus phrases: " + quoteJoin(phrases, promptPhrases) + "\n")
	}
	if header.Len() > 0 {
		header.WriteString("\n")
	}

	return fmt.Sprintf(`You are selecting Wikipedia articles to answer this question:

Question: %q

%sAvailable articles:
%s
Task: Select the %d MOST RELEVANT articles.

RULES:
1. ALWAYS select the main article about the question's primary topic
2. When keywords are provided above, every selected article MUST contain those keywords (or obvious singular/plural variants) in the title or abstract
3. When focus phrases are provided above, prioritize articles whose titles contain that exact phrase (punctuation differences are OK)
4. For TV shows, movies, books: select the main article about that specific work, and REJECT songs or unrelated topics with similar names
5. Match the question's intent: "Is X good?" or "Who is X?" wants the main article about X itself
6. REJECT lists, episodes, songs, year pages, and tangentially related topics that merely share a word

Output ONLY comma-separated numbers (example: 2,5,8):
`, question, header.String(), display, target)
}

// mapReply extracts every integer in the reply, maps it through indexMap,
// drops unknown numbers, dedupes preserving first-seen order, and
// truncates to target.
func mapReply(reply string, indexMap map[int]int, target int) []int {
	var (
		picked []int
		seen   = map[int]bool{}
	)
	for _, m := range numberPattern.FindAllString(reply, -1) {
		num, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		idx, ok := indexMap[num]
		if !ok || seen[idx] {
			continue
		}
		picked = append(picked, idx)
		seen[idx] = true
		if len(picked) == target {
			break
		}
	}
	return picked
}

// ruleFilter is the deterministic fallback: drop list pages, year pages,
// and disambiguation pages, then narrow by keywords (re-widening to the
// full list when that empties it) and by phrases (only when that leaves
// something). Returns the leading target candidates of whatever survives,
// or of the original list when every filter emptied it.
func ruleFilter(ranked []types.Candidate, target int, keywords, phrases []string) []types.Candidate {
	filtered := make([]types.Candidate, 0, len(ranked))
	for _, c := range ranked {
		title := strings.ToLower(c.Title)
		if isListTitle(c.Title) || yearPattern.MatchString(c.Title) || strings.Contains(title, "disambiguation") {
			continue
		}
		filtered = append(filtered, c)
	}

	if len(keywords) > 0 {
		if kw := keepMatching(filtered, keywords, rank.TitleMatchesKeywords); len(kw) > 0 {
			filtered = kw
		} else if kw := keepMatching(ranked, keywords, rank.TitleMatchesKeywords); len(kw) > 0 {
			filtered = kw
		}
	}
	if len(phrases) > 0 {
		if ph := keepMatching(filtered, phrases, rank.TitleMatchesPhrase); len(ph) > 0 {
			filtered = ph
		}
	}

	if len(filtered) == 0 {
		filtered = ranked
	}
	if len(filtered) > target {
		filtered = filtered[:target]
	}
	return filtered
}

func keepMatching(cs []types.Candidate, terms []string, match func(string, []string) bool) []types.Candidate {
	var out []types.Candidate
	for _, c := range cs {
		if match(c.Title, terms) {
			out = append(out, c)
		}
	}
	return out
}

func isListTitle(title string) bool {
	t := strings.ToLower(title)
	return strings.HasPrefix(t, "list of") || strings.HasPrefix(t, "lists of")
}

func quoteJoin(words []string, limit int) string {
	if len(words) > limit {
		words = words[:limit]
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = `"` + w + `"`
	}
	return strings.Join(quoted, ", ")
}
