// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"fmt"

	"github.com/pdiddy/answer-engine/internal/assemble"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// buildSynthesisPrompt renders the generation prompt: the question, the
// numbered source list, the assembled article contents, and the citation
// instructions the answer must follow.
func buildSynthesisPrompt(question string, contents []types.FetchedContent) string {
	return fmt.Sprintf(`You are an expert research analyst synthesizing information from multiple Wikipedia articles.

TASK: Answer the question by synthesizing information from ALL provided articles.

Question: %q

Available Articles:
%s

Article Contents:
%s

SYNTHESIS INSTRUCTIONS:
1. **Direct Verdict**: The first sentence must explicitly answer the question (e.g., "Yes, the film earned overwhelmingly positive reviews for... [1]"). Make the stance clear (yes/no/mixed) before adding context.
2. **Stay On-Task**: Only include details that help judge quality/relevance of the topic. Omit long cast lists or plot summaries unless they support the verdict.
3. **Comprehensiveness**: Integrate information from ALL articles to support the verdict.
4. **Coherence**: Create a logical narrative that links supporting evidence.
5. **Evidence**: Use concrete facts (awards, box office, critical reception) with citations.
6. **Perspectives**: Note differing viewpoints if present, and explain them.
7. **Structure**: Write in clear paragraphs; use lists only when essential.
8. **Accuracy**: Stay within the provided articles; do not invent data.
9. **Citations**: Add inline citations [1], [2], [3] after EVERY fact drawn from the articles.

CRITICAL - INLINE CITATIONS:
- Add [1], [2], or [3] immediately after each fact, quote, or claim from that article
- Multiple sources: use [1][2] or [1,2] if information appears in multiple articles
- Example: "Bill Murray was born in 1950 [1] and starred in Ghostbusters [1][3]."
- Every paragraph should have multiple citations showing source of information

FORMAT:
- Write natural paragraphs with inline citations only.
- Do NOT repeat the question.
- Do NOT add headings such as "References", "Sources", or "Bibliography"; inline citations are sufficient.
- End the answer immediately after the final paragraph (no trailing lists or sections).

Your synthesized answer with inline citations (stop after final paragraph):
`, question, assemble.BuildSourceList(contents), assemble.BuildContext(contents))
}
