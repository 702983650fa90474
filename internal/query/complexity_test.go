// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import "testing"

func TestEstimateComplexity(t *testing.T) {
	tests := []struct {
		name     string
		question string
		min, max int
	}{
		{"simple factual", "What is photosynthesis?", 3, 3},
		{"multi-part", "What causes earthquakes and can we predict them?", 4, 6},
		{"comparison", "Compare mitochondria and chloroplasts", 5, 6},
		{"long analytical", "How does climate change impact ocean ecosystems and what are the long-term consequences?", 5, 6},
		{"historical", "Explain the history of the Roman Empire", 4, 6},
		{"versus", "Python vs Ruby for web development", 5, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateComplexity(tt.question)
			if got < tt.min || got > tt.max {
				t.Errorf("EstimateComplexity(%q) = %d, want in [%d,%d]", tt.question, got, tt.min, tt.max)
			}
		})
	}
}

func TestEstimateComplexityBounds(t *testing.T) {
	questions := []string{
		"",
		"Hi",
		"Compare and explain the history, evolution, impact and future of everything versus anything and why it will relate to the overview of basics",
	}
	for _, q := range questions {
		got := EstimateComplexity(q)
		if got < MinArticles || got > MaxArticles {
			t.Errorf("EstimateComplexity(%q) = %d, out of [%d,%d]", q, got, MinArticles, MaxArticles)
		}
	}
}

func TestEstimateComplexityDeterministic(t *testing.T) {
	q := "How does gravity affect time and why does it relate to relativity?"
	first := EstimateComplexity(q)
	for i := 0; i < 5; i++ {
		if got := EstimateComplexity(q); got != first {
			t.Fatalf("EstimateComplexity not deterministic: %d vs %d", got, first)
		}
	}
}
