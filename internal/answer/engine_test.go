// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/answer-engine/internal/query"
	"github.com/pdiddy/answer-engine/pkg/types"
)

type fakeRetriever struct {
	candidates []types.Candidate
}

func (f *fakeRetriever) Retrieve(_ context.Context, _, _, _ []string) []types.Candidate {
	return f.candidates
}

type fakeSelector struct {
	target int
}

func (f *fakeSelector) Select(_ context.Context, _ string, candidates []types.Candidate, target int, _, _ []string) []types.Candidate {
	f.target = target
	if len(candidates) > target {
		candidates = candidates[:target]
	}
	return candidates
}

type fakeFetcher struct {
	abstracts map[string]string
	articles  map[string]string

	abstractCalls []string
	articleCalls  []string
}

func (f *fakeFetcher) Abstract(_ context.Context, url string) string {
	f.abstractCalls = append(f.abstractCalls, url)
	return f.abstracts[url]
}

func (f *fakeFetcher) Article(_ context.Context, url string, _, _ int) string {
	f.articleCalls = append(f.articleCalls, url)
	return f.articles[url]
}

type fakeGenerator struct {
	answer string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

func (f *fakeGenerator) Model() string { return "test-model:1b" }

type memCache struct {
	abstracts map[string]string
	contents  map[string]string
}

func newMemCache() *memCache {
	return &memCache{abstracts: map[string]string{}, contents: map[string]string{}}
}

func (m *memCache) Abstract(url string) (string, bool) {
	v, ok := m.abstracts[url]
	return v, ok && v != ""
}

func (m *memCache) Content(url string) (string, bool) {
	v, ok := m.contents[url]
	return v, ok && v != ""
}

func (m *memCache) PutAbstract(url, _, abstract string) error {
	m.abstracts[url] = abstract
	return nil
}

func (m *memCache) PutContent(url, _, content string) error {
	m.contents[url] = content
	return nil
}

func candAt(n int) []types.Candidate {
	out := make([]types.Candidate, n)
	for i := range out {
		out[i] = types.Candidate{
			Title: fmt.Sprintf("Article %d", i),
			URL:   fmt.Sprintf("http://kiwix/A/Article_%d", i),
		}
	}
	return out
}

func newTestEngine(r Retriever, s Selector, f ContentFetcher, g Generator, c ArticleCache) *Engine {
	return NewEngine(query.NewAnalyzer(query.DefaultFilters()), r, s, f, g, c, io.Discard)
}

func TestAnswerNoCandidates(t *testing.T) {
	gen := &fakeGenerator{}
	e := newTestEngine(&fakeRetriever{}, &fakeSelector{}, &fakeFetcher{}, gen, nil)

	got := e.Answer(context.Background(), "What is photosynthesis?", 0)
	if !strings.Contains(got.Answer, "No relevant Wikipedia articles") {
		t.Errorf("answer = %q", got.Answer)
	}
	if len(got.Sources) != 0 {
		t.Error("sources should be empty")
	}
	if gen.prompt != "" {
		t.Error("generator consulted with no candidates")
	}
}

func TestAnswerHappyPath(t *testing.T) {
	cands := candAt(2)
	fetcher := &fakeFetcher{
		abstracts: map[string]string{cands[0].URL: "An abstract."},
		articles: map[string]string{
			cands[0].URL: "Body zero.",
			cands[1].URL: "Body one.",
		},
	}
	gen := &fakeGenerator{answer: "Synthesized [1][2]."}
	e := newTestEngine(&fakeRetriever{candidates: cands}, &fakeSelector{}, fetcher, gen, nil)

	got := e.Answer(context.Background(), "What is photosynthesis?", 2)
	if got.Answer != "Synthesized [1][2]." {
		t.Errorf("answer = %q", got.Answer)
	}
	if len(got.Sources) != 2 {
		t.Fatalf("sources = %d, want 2", len(got.Sources))
	}
	if got.Model != "test-model:1b" {
		t.Errorf("model = %q", got.Model)
	}
	if !strings.Contains(gen.prompt, "[Article 1] **Article 0**") {
		t.Errorf("prompt missing context block:\n%s", gen.prompt)
	}
	if !strings.Contains(gen.prompt, "[1] Article 0") {
		t.Errorf("prompt missing source list:\n%s", gen.prompt)
	}
}

func TestAnswerUsesComplexityWhenUnset(t *testing.T) {
	sel := &fakeSelector{}
	fetcher := &fakeFetcher{articles: map[string]string{}}
	e := newTestEngine(&fakeRetriever{candidates: candAt(10)}, sel, fetcher, &fakeGenerator{}, nil)

	e.Answer(context.Background(), "What is photosynthesis?", 0)
	if sel.target != query.MinArticles {
		t.Errorf("target = %d, want %d for a simple question", sel.target, query.MinArticles)
	}

	e.Answer(context.Background(), "What is photosynthesis?", 6)
	if sel.target != 6 {
		t.Errorf("explicit target = %d, want 6", sel.target)
	}
}

func TestAnswerAbstractEnrichmentCapped(t *testing.T) {
	fetcher := &fakeFetcher{abstracts: map[string]string{}, articles: map[string]string{}}
	e := newTestEngine(&fakeRetriever{candidates: candAt(40)}, &fakeSelector{}, fetcher, &fakeGenerator{}, nil)

	e.Answer(context.Background(), "q", 3)
	if len(fetcher.abstractCalls) != abstractFetchLimit {
		t.Errorf("abstract fetches = %d, want %d", len(fetcher.abstractCalls), abstractFetchLimit)
	}
}

func TestAnswerCacheSkipsFetches(t *testing.T) {
	cands := candAt(1)
	cache := newMemCache()
	cache.abstracts[cands[0].URL] = "Cached abstract."
	cache.contents[cands[0].URL] = "Cached body."

	fetcher := &fakeFetcher{}
	gen := &fakeGenerator{answer: "ok"}
	e := newTestEngine(&fakeRetriever{candidates: candAt(5)}, &fakeSelector{}, fetcher, gen, cache)

	got := e.Answer(context.Background(), "q", 1)
	if len(got.Sources) != 1 || got.Sources[0].Content != "Cached body." {
		t.Fatalf("sources = %+v", got.Sources)
	}
	for _, u := range fetcher.articleCalls {
		if u == cands[0].URL {
			t.Error("cached article was fetched anyway")
		}
	}
	for _, u := range fetcher.abstractCalls {
		if u == cands[0].URL {
			t.Error("cached abstract was fetched anyway")
		}
	}
}

func TestAnswerPopulatesCache(t *testing.T) {
	cands := candAt(1)
	cache := newMemCache()
	fetcher := &fakeFetcher{
		abstracts: map[string]string{cands[0].URL: "Fresh abstract."},
		articles:  map[string]string{cands[0].URL: "Fresh body."},
	}
	e := newTestEngine(&fakeRetriever{candidates: cands}, &fakeSelector{}, fetcher, &fakeGenerator{answer: "ok"}, cache)

	e.Answer(context.Background(), "q", 1)
	if cache.abstracts[cands[0].URL] != "Fresh abstract." {
		t.Error("abstract not cached")
	}
	if cache.contents[cands[0].URL] != "Fresh body." {
		t.Error("content not cached")
	}
}

func TestAnswerGenerationFailure(t *testing.T) {
	cands := candAt(1)
	fetcher := &fakeFetcher{articles: map[string]string{cands[0].URL: "Body."}}
	gen := &fakeGenerator{err: errors.New("model crashed")}
	e := newTestEngine(&fakeRetriever{candidates: cands}, &fakeSelector{}, fetcher, gen, nil)

	got := e.Answer(context.Background(), "q", 1)
	if !strings.Contains(got.Answer, "Error generating answer") {
		t.Errorf("answer = %q", got.Answer)
	}
	if len(got.Sources) != 1 {
		t.Error("sources should still carry the fetched articles")
	}
}

func TestAnswerNoContent(t *testing.T) {
	e := newTestEngine(&fakeRetriever{candidates: candAt(2)}, &fakeSelector{}, &fakeFetcher{}, &fakeGenerator{}, nil)

	got := e.Answer(context.Background(), "What is an ETF?", 2)
	if !strings.Contains(got.Answer, "'ETF'") {
		t.Errorf("abbreviation hint missing: %q", got.Answer)
	}

	got = e.Answer(context.Background(), "What is photosynthesis?", 2)
	if !strings.Contains(got.Answer, "rephrasing") {
		t.Errorf("generic suggestion missing: %q", got.Answer)
	}
}

func TestNoContentSuggestionLimitsAbbreviations(t *testing.T) {
	got := noContentSuggestion("Compare NASA, ESA, JAXA, and ISRO budgets?")
	for _, want := range []string{"'NASA'", "'ESA'", "'JAXA'"} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %s in %q", want, got)
		}
	}
	if strings.Contains(got, "ISRO") {
		t.Error("more than three abbreviations shown")
	}
}

func TestSaveResult(t *testing.T) {
	r := types.Result{Question: "q", Answer: "a", Model: "m"}

	yamlPath := filepath.Join(t.TempDir(), "result.yaml")
	if err := SaveResult(yamlPath, r); err != nil {
		t.Fatalf("SaveResult yaml: %v", err)
	}
	data, err := os.ReadFile(yamlPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "question: q") {
		t.Errorf("yaml output = %q", data)
	}

	jsonPath := filepath.Join(t.TempDir(), "result.json")
	if err := SaveResult(jsonPath, r); err != nil {
		t.Fatalf("SaveResult json: %v", err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"question": "q"`) {
		t.Errorf("json output = %q", data)
	}
}
