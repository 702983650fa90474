// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"testing"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// --- keyword matching ---

func TestTitleMatchesKeywords(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		keywords []string
		want     bool
	}{
		{
			"multiple hits with three keywords",
			"Star Trek: The Next Generation",
			[]string{"star", "trek", "generation"},
			true,
		},
		{
			"single hit not enough with three keywords",
			"List of Britain's Next Top Model contestants",
			[]string{"star", "trek", "generation"},
			false,
		},
		{
			"one hit suffices with two keywords",
			"Earthquake",
			[]string{"earthquake", "prediction"},
			true,
		},
		{
			"no hits",
			"Photosynthesis",
			[]string{"earthquake", "prediction"},
			false,
		},
		{
			"empty keywords match everything",
			"Anything",
			nil,
			true,
		},
		{
			"punctuation normalized on both sides",
			"Mother-of-pearl",
			[]string{"mother of pearl"},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleMatchesKeywords(tt.title, tt.keywords); got != tt.want {
				t.Errorf("TitleMatchesKeywords(%q, %v) = %v, want %v", tt.title, tt.keywords, got, tt.want)
			}
		})
	}
}

// --- phrase matching ---

func TestTitleMatchesPhrase(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		phrases []string
		want    bool
	}{
		{
			"in-order subsequence across punctuation",
			"Star Trek: The Next Generation",
			[]string{"Star Trek - Next Generation"},
			true,
		},
		{
			"different work does not match",
			"Star Trek: Voyager",
			[]string{"Star Trek - Next Generation"},
			false,
		},
		{
			"order matters",
			"Generation Next: Star Trek",
			[]string{"Star Trek Generation"},
			false,
		},
		{
			"no phrases",
			"Earthquake",
			nil,
			false,
		},
		{
			"empty title",
			"",
			[]string{"some phrase"},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TitleMatchesPhrase(tt.title, tt.phrases); got != tt.want {
				t.Errorf("TitleMatchesPhrase(%q, %v) = %v, want %v", tt.title, tt.phrases, got, tt.want)
			}
		})
	}
}

// --- composite scoring ---

func TestScoreRewardsMediaSuffix(t *testing.T) {
	plain := types.Candidate{Title: "The Expanse"}
	media := types.Candidate{Title: "The Expanse (TV series)"}

	if Score(media, nil, nil, false) <= Score(plain, nil, nil, false) {
		t.Error("media-disambiguated title should outscore the bare title")
	}
}

func TestScorePenalizesListsAndDisambiguation(t *testing.T) {
	main := types.Candidate{Title: "Earthquake"}
	list := types.Candidate{Title: "List of earthquakes in 2021"}
	disambig := types.Candidate{Title: "Mercury (disambiguation)"}

	if Score(list, nil, nil, false) >= Score(main, nil, nil, false) {
		t.Error("list page should score below the main article")
	}
	if Score(disambig, nil, nil, false) >= Score(main, nil, nil, false) {
		t.Error("disambiguation page should score below the main article")
	}
}

func TestScorePhrasePreference(t *testing.T) {
	phrases := []string{"Star Trek - Next Generation"}
	hit := types.Candidate{Title: "Star Trek: The Next Generation"}
	miss := types.Candidate{Title: "Star Trek: Voyager"}

	candidates := []types.Candidate{miss, hit}
	exists := HasPhraseHit(candidates, phrases)
	if !exists {
		t.Fatal("HasPhraseHit = false, want true")
	}

	if Score(hit, nil, phrases, exists)-Score(miss, nil, phrases, exists) < phraseHitBonus {
		t.Error("phrase hit should be separated from the miss by at least the phrase bonus")
	}

	// Without any hit in the set, no phrase adjustment applies.
	if Score(miss, nil, phrases, false) != Score(types.Candidate{Title: miss.Title}, nil, nil, false) {
		t.Error("phrase penalty applied although no candidate matches")
	}
}

func TestScoreAbstractSignals(t *testing.T) {
	long := types.Candidate{Title: "A", Abstract: string(make([]byte, 250))}
	short := types.Candidate{Title: "A", Abstract: string(make([]byte, 150))}
	none := types.Candidate{Title: "A"}

	if Score(long, nil, nil, false) <= Score(short, nil, nil, false) {
		t.Error("long abstract should outscore short abstract")
	}
	if Score(short, nil, nil, false) <= Score(none, nil, nil, false) {
		t.Error("short abstract should outscore missing abstract")
	}
}

func TestScoreKeywordInAbstract(t *testing.T) {
	keywords := []string{"expanse"}
	with := types.Candidate{Title: "The Expanse", Abstract: "The Expanse is a science fiction series."}
	without := types.Candidate{Title: "The Expanse", Abstract: "An unrelated abstract."}

	if Score(with, keywords, nil, false) <= Score(without, keywords, nil, false) {
		t.Error("keyword in abstract should add to the score")
	}
}

func TestSortByScoreStable(t *testing.T) {
	// Identical candidates with equal scores keep retrieval order.
	candidates := []types.Candidate{
		{Title: "Alpha", URL: "u1"},
		{Title: "Gamma", URL: "u2"},
		{Title: "Delta", URL: "u3"},
	}

	sorted := SortByScore(candidates, nil, nil)
	if len(sorted) != 3 {
		t.Fatalf("len(sorted) = %d, want 3", len(sorted))
	}
	for i, c := range candidates {
		if sorted[i].URL != c.URL {
			t.Errorf("tie order changed: sorted[%d] = %q, want %q", i, sorted[i].URL, c.URL)
		}
	}
}

func TestSortByScorePutsMainArticleFirst(t *testing.T) {
	keywords := []string{"earthquake"}
	candidates := []types.Candidate{
		{Title: "List of earthquakes in California"},
		{Title: "Earthquake (disambiguation)"},
		{Title: "Earthquake"},
	}

	sorted := SortByScore(candidates, keywords, nil)
	if sorted[0].Title != "Earthquake" {
		t.Errorf("sorted[0] = %q, want the main article first", sorted[0].Title)
	}
}
