// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the answer-engine pipeline.
package types

import "time"

// Candidate represents a Wikipedia article surfaced by a search probe or a
// direct lookup. Candidates are identified by their lowercased title; the
// same title never appears twice in one retrieval run.
type Candidate struct {
	// Title is the article title as shown on the search results page.
	Title string `json:"title" yaml:"title"`

	// URL is the absolute article URL on the Kiwix server.
	URL string `json:"url" yaml:"url"`

	// Abstract is the article's first meaningful paragraph. It is empty
	// until the selection stage fetches it.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`
}

// FetchedContent holds the budgeted body text of a selected article. It is
// produced by the content fetch stage and consumed by the context assembler.
type FetchedContent struct {
	// Title is the article title.
	Title string `json:"title" yaml:"title"`

	// URL is the absolute article URL.
	URL string `json:"url" yaml:"url"`

	// Content is the extracted paragraph text, bounded by the paragraph
	// budget and the per-article character ceiling.
	Content string `json:"content" yaml:"content"`
}

// Result is the outcome of answering one question.
type Result struct {
	// Question is the user's question verbatim.
	Question string `json:"question" yaml:"question"`

	// Answer is the synthesized answer with inline citations, or a
	// user-facing diagnostic when the pipeline found nothing usable.
	Answer string `json:"answer" yaml:"answer"`

	// Sources lists the articles the answer was synthesized from, in
	// citation order.
	Sources []FetchedContent `json:"sources" yaml:"sources"`

	// Model is the generation model that produced the answer.
	Model string `json:"model" yaml:"model"`

	// Elapsed is the total wall-clock time spent answering.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}
