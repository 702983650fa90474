// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble turns fetched article content into the context block
// and source list handed to the generation model.
package assemble

import (
	"fmt"
	"strings"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// ArticleCharLimit is the hard per-article ceiling enforced during
// content fetch. Combined with the paragraph budget it keeps total
// context volume near a constant envelope regardless of article count.
const ArticleCharLimit = 8000

// defaultParagraphs applies to article counts outside the budget table.
const defaultParagraphs = 15

// paragraphBudgets maps selected-article count to the per-article
// paragraph allowance. More articles means fewer paragraphs each.
var paragraphBudgets = map[int]int{
	3: 20,
	4: 15,
	5: 12,
	6: 10,
	7: 8,
}

// ParagraphBudget returns how many paragraphs to fetch per article when
// the given number of articles was selected.
func ParagraphBudget(selectedCount int) int {
	if n, ok := paragraphBudgets[selectedCount]; ok {
		return n
	}
	return defaultParagraphs
}

// BuildContext renders fetched articles as a numbered context block.
// Numbering is 1-based in fetch order; no filtering or reordering.
func BuildContext(contents []types.FetchedContent) string {
	parts := make([]string, len(contents))
	for i, c := range contents {
		parts[i] = fmt.Sprintf("[Article %d] **%s**:\n%s", i+1, c.Title, c.Content)
	}
	return strings.Join(parts, "\n\n")
}

// BuildSourceList renders the parallel citation list, one "[N] Title"
// line per article, numbered to match BuildContext.
func BuildSourceList(contents []types.FetchedContent) string {
	lines := make([]string, len(contents))
	for i, c := range contents {
		lines[i] = fmt.Sprintf("[%d] %s", i+1, c.Title)
	}
	return strings.Join(lines, "\n")
}
