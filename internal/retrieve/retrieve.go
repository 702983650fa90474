// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve gathers candidate articles for a question by fanning
// search terms out to the Kiwix backend and probing for exact-title hits.
// Retrieval is best-effort: a failed probe contributes zero results and
// the pipeline moves on.
package retrieve

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/answer-engine/internal/rank"
	"github.com/pdiddy/answer-engine/pkg/types"
)

const (
	// maxCandidates caps the accumulated result list across all search
	// terms.
	maxCandidates = 100

	// directProbeTerms is how many of the leading search terms get
	// direct-lookup probes in addition to full-text search.
	directProbeTerms = 3
)

// Searcher is the backend surface the retriever needs. *kiwix.Client
// satisfies it; tests supply fakes.
type Searcher interface {
	Search(ctx context.Context, pattern string, pageSize int) ([]types.Candidate, error)
	DirectLookup(ctx context.Context, title string) (types.Candidate, bool)
}

// Retriever accumulates candidates from per-term searches and direct
// probes, deduplicates them by title, and orders them so high-confidence
// hits come first.
type Retriever struct {
	backend Searcher
	cfg     types.RetrievalConfig
	out     io.Writer
}

// NewRetriever builds a retriever over the given backend. Progress and
// warning messages go to w.
func NewRetriever(backend Searcher, cfg types.RetrievalConfig, w io.Writer) *Retriever {
	cfg.ApplyDefaults()
	return &Retriever{backend: backend, cfg: cfg, out: w}
}

// Retrieve runs one search per term, merges the results with
// case-insensitive title dedup under a global cap, inserts direct-lookup
// hits for the leading terms at the front, and finally partitions the
// list so keyword-matching then phrase-matching titles come first. The
// partitions are stable and drop nothing.
func (r *Retriever) Retrieve(ctx context.Context, terms, keywords, phrases []string) []types.Candidate {
	var (
		candidates []types.Candidate
		seen       = map[string]bool{}
	)
	add := func(c types.Candidate, front bool) {
		key := strings.ToLower(c.Title)
		if seen[key] {
			return
		}
		seen[key] = true
		if front {
			candidates = append([]types.Candidate{c}, candidates...)
		} else {
			candidates = append(candidates, c)
		}
	}

	for _, term := range terms {
		if len(candidates) >= maxCandidates {
			break
		}
		results, err := r.backend.Search(ctx, term, r.cfg.PerTermResults)
		if err != nil {
			fmt.Fprintf(r.out, "warning: search %q failed: %v\n", term, err)
			continue
		}
		for _, c := range results {
			if len(candidates) >= maxCandidates {
				break
			}
			add(c, false)
		}
	}

	// Direct hits are highest-confidence and must outrank search hits.
	// Terms are probed exactly as extracted: the analyzer already emits
	// them in Wikipedia sentence case, and the article path is
	// case-sensitive.
	probeTerms := terms
	if len(probeTerms) > directProbeTerms {
		probeTerms = probeTerms[:directProbeTerms]
	}

	// Media-suffixed variants first, so a question about a show lands on
	// the show article rather than an unrelated plain title.
	for _, term := range probeTerms {
		for _, suffix := range rank.MediaSuffixes {
			if c, ok := r.backend.DirectLookup(ctx, term+suffix); ok {
				add(c, true)
				break
			}
		}
	}

	// Plain titles probed independently: both "The Expanse (TV series)"
	// and "The Expanse" may enter the candidate set.
	for _, term := range probeTerms {
		if c, ok := r.backend.DirectLookup(ctx, term); ok {
			add(c, true)
		}
	}

	candidates = partition(candidates, func(c types.Candidate) bool {
		return rank.TitleMatchesKeywords(c.Title, keywords)
	})
	if len(phrases) > 0 {
		candidates = partition(candidates, func(c types.Candidate) bool {
			return rank.TitleMatchesPhrase(c.Title, phrases)
		})
	}
	return candidates
}

// partition reorders matches before non-matches, preserving relative
// order within each group.
func partition(cs []types.Candidate, match func(types.Candidate) bool) []types.Candidate {
	matched := make([]types.Candidate, 0, len(cs))
	var rest []types.Candidate
	for _, c := range cs {
		if match(c) {
			matched = append(matched, c)
		} else {
			rest = append(rest, c)
		}
	}
	return append(matched, rest...)
}
