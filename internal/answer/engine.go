// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package answer orchestrates the full question-answering pipeline:
// query analysis, retrieval, selection, content fetch, and synthesis.
package answer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/answer-engine/internal/assemble"
	"github.com/pdiddy/answer-engine/internal/query"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// abstractFetchLimit caps how many leading candidates get abstracts
// before selection. Abstracts cost one HTTP round-trip each.
const abstractFetchLimit = 30

// Retriever gathers candidate articles for the analyzed question.
type Retriever interface {
	Retrieve(ctx context.Context, terms, keywords, phrases []string) []types.Candidate
}

// Selector narrows candidates to the articles worth fetching in full.
type Selector interface {
	Select(ctx context.Context, question string, candidates []types.Candidate, target int, keywords, phrases []string) []types.Candidate
}

// ContentFetcher pulls abstracts and article bodies. *kiwix.Client
// satisfies it.
type ContentFetcher interface {
	Abstract(ctx context.Context, url string) string
	Article(ctx context.Context, url string, maxParagraphs, maxChars int) string
}

// Generator produces the synthesized answer.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ArticleCache stores fetched abstracts and bodies between runs.
// *cache.Store satisfies it; a nil cache disables caching.
type ArticleCache interface {
	Abstract(url string) (string, bool)
	Content(url string) (string, bool)
	PutAbstract(url, title, abstract string) error
	PutContent(url, title, content string) error
}

// Engine runs the pipeline end to end. All collaborators are injected;
// the engine itself holds no network state.
type Engine struct {
	analyzer  *query.Analyzer
	retriever Retriever
	selector  Selector
	fetcher   ContentFetcher
	generator Generator
	cache     ArticleCache
	out       io.Writer
}

// NewEngine wires the pipeline together. cache may be nil. Progress
// messages go to w.
func NewEngine(analyzer *query.Analyzer, retriever Retriever, selector Selector, fetcher ContentFetcher, generator Generator, cache ArticleCache, w io.Writer) *Engine {
	return &Engine{
		analyzer:  analyzer,
		retriever: retriever,
		selector:  selector,
		fetcher:   fetcher,
		generator: generator,
		cache:     cache,
		out:       w,
	}
}

// Answer runs the pipeline for one question. maxResults forces the
// article count; zero means estimate it from question complexity.
// Retrieval and fetch failures degrade to explanatory answers rather
// than errors; only generation failure is reported as an error inside
// the result.
func (e *Engine) Answer(ctx context.Context, question string, maxResults int) types.Result {
	start := time.Now()
	if maxResults <= 0 {
		maxResults = query.EstimateComplexity(question)
	}

	terms := e.analyzer.SearchTerms(question)
	keywords := e.analyzer.PrimaryKeywords(question)
	phrases := e.analyzer.FocusPhrases(question)
	fmt.Fprintf(e.out, "searching local Wikipedia for: %s\n", question)
	if len(keywords) > 0 {
		fmt.Fprintf(e.out, "  keywords: %s\n", strings.Join(keywords, ", "))
	}
	if len(phrases) > 0 {
		fmt.Fprintf(e.out, "  phrases: %s\n", strings.Join(phrases, ", "))
	}

	candidates := e.retriever.Retrieve(ctx, terms, keywords, phrases)
	if len(candidates) == 0 {
		return e.result(question, "No relevant Wikipedia articles found in the local archive.", nil, start)
	}
	fmt.Fprintf(e.out, "found %d candidate article(s)\n", len(candidates))

	e.enrichAbstracts(ctx, candidates)

	selected := e.selector.Select(ctx, question, candidates, maxResults, keywords, phrases)
	titles := make([]string, len(selected))
	for i, c := range selected {
		titles[i] = c.Title
	}
	fmt.Fprintf(e.out, "selected %d article(s): %s\n", len(selected), strings.Join(titles, ", "))

	budget := assemble.ParagraphBudget(len(selected))
	contents := e.fetchContents(ctx, selected, budget)
	if len(contents) == 0 {
		return e.result(question, noContentSuggestion(question), nil, start)
	}

	prompt := buildSynthesisPrompt(question, contents)
	fmt.Fprintf(e.out, "generating synthesis with %s\n", e.generator.Model())
	answer, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		fmt.Fprintf(e.out, "warning: generation failed: %v\n", err)
		answer = "Error generating answer. Please try again."
	}
	return e.result(question, answer, contents, start)
}

func (e *Engine) result(question, answer string, sources []types.FetchedContent, start time.Time) types.Result {
	return types.Result{
		Question: question,
		Answer:   answer,
		Sources:  sources,
		Model:    e.generator.Model(),
		Elapsed:  time.Since(start),
	}
}

// enrichAbstracts fills in abstracts for the leading candidates so the
// selection stage has something to rank on. Cache hits skip the fetch.
func (e *Engine) enrichAbstracts(ctx context.Context, candidates []types.Candidate) {
	limit := len(candidates)
	if limit > abstractFetchLimit {
		limit = abstractFetchLimit
	}
	for i := 0; i < limit; i++ {
		c := &candidates[i]
		if e.cache != nil {
			if abstract, ok := e.cache.Abstract(c.URL); ok {
				c.Abstract = abstract
				continue
			}
		}
		c.Abstract = e.fetcher.Abstract(ctx, c.URL)
		if e.cache != nil && c.Abstract != "" {
			if err := e.cache.PutAbstract(c.URL, c.Title, c.Abstract); err != nil {
				fmt.Fprintf(e.out, "warning: cache write failed: %v\n", err)
			}
		}
	}
}

// fetchContents pulls the full text of each selected article, skipping
// articles that yield nothing. Cache hits skip the fetch.
func (e *Engine) fetchContents(ctx context.Context, selected []types.Candidate, maxParagraphs int) []types.FetchedContent {
	var contents []types.FetchedContent
	for _, c := range selected {
		fmt.Fprintf(e.out, "  fetching: %s\n", c.Title)

		var body string
		if e.cache != nil {
			body, _ = e.cache.Content(c.URL)
		}
		if body == "" {
			body = e.fetcher.Article(ctx, c.URL, maxParagraphs, assemble.ArticleCharLimit)
			if e.cache != nil && body != "" {
				if err := e.cache.PutContent(c.URL, c.Title, body); err != nil {
					fmt.Fprintf(e.out, "warning: cache write failed: %v\n", err)
				}
			}
		}
		if body != "" {
			contents = append(contents, types.FetchedContent{Title: c.Title, URL: c.URL, Content: body})
		}
	}
	return contents
}

// noContentSuggestion explains an empty fetch. Questions built around an
// abbreviation usually fail because article titles spell the term out.
func noContentSuggestion(question string) string {
	var abbrevs []string
	for _, w := range strings.Fields(strings.NewReplacer("?", "", ".", "", ",", "").Replace(question)) {
		if len(w) >= 2 && len(w) <= 5 && w == strings.ToUpper(w) && strings.IndexFunc(w, isLetter) >= 0 {
			abbrevs = append(abbrevs, w)
			if len(abbrevs) == 3 {
				break
			}
		}
	}
	if len(abbrevs) > 0 {
		quoted := make([]string, len(abbrevs))
		for i, a := range abbrevs {
			quoted[i] = "'" + a + "'"
		}
		return fmt.Sprintf("Could not find article content. Your question contains abbreviation(s): %s.\n\nTip: Try spelling out the full term (e.g., 'What is an exchange-traded fund?' instead of 'What is an ETF?')", strings.Join(quoted, ", "))
	}
	return "Could not retrieve article content. Try rephrasing your question or using different search terms."
}

func isLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
