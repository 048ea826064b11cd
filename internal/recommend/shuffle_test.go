package recommend

import (
	"testing"

	"github.com/moodpick/moodpick-backend/internal/types"
)

func rankedCandidates(n int) []*Candidate {
	out := make([]*Candidate, n)
	for i := 0; i < n; i++ {
		out[i] = &Candidate{
			Movie:      &types.Movie{ID: int64(i + 1)},
			FinalScore: float64(n - i), // descending
		}
	}
	return out
}

func TestShuffleReturnsExactlyN(t *testing.T) {
	var ds DiversityShuffler
	got := ds.Shuffle(rankedCandidates(30), 5, NewSeededRand(1))
	if len(got) != 5 {
		t.Fatalf("len=%d, want 5", len(got))
	}
}

func TestShuffleDrawsOnlyFromTopZone(t *testing.T) {
	var ds DiversityShuffler
	n := 5
	candidates := rankedCandidates(100)
	got := ds.Shuffle(candidates, n, NewSeededRand(7))

	// Members of the top 3N ranked slice are the only legal picks.
	zone := make(map[int64]struct{}, 3*n)
	for _, c := range candidates[:3*n] {
		zone[c.Movie.ID] = struct{}{}
	}
	for _, c := range got {
		if _, ok := zone[c.Movie.ID]; !ok {
			t.Fatalf("movie %d returned from outside the top %d", c.Movie.ID, 3*n)
		}
	}
}

func TestShuffleNoDuplicates(t *testing.T) {
	var ds DiversityShuffler
	got := ds.Shuffle(rankedCandidates(30), 10, NewSeededRand(3))
	seen := make(map[int64]struct{}, len(got))
	for _, c := range got {
		if _, ok := seen[c.Movie.ID]; ok {
			t.Fatalf("movie %d returned twice", c.Movie.ID)
		}
		seen[c.Movie.ID] = struct{}{}
	}
}

func TestShuffleShortInput(t *testing.T) {
	var ds DiversityShuffler
	got := ds.Shuffle(rankedCandidates(3), 10, NewSeededRand(1))
	if len(got) != 3 {
		t.Fatalf("len=%d, want all 3 candidates", len(got))
	}
}

func TestShuffleZeroN(t *testing.T) {
	var ds DiversityShuffler
	if got := ds.Shuffle(rankedCandidates(10), 0, NewSeededRand(1)); got != nil {
		t.Fatalf("expected nil, got %d candidates", len(got))
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	var ds DiversityShuffler
	candidates := rankedCandidates(30)
	before := make([]int64, len(candidates))
	for i, c := range candidates {
		before[i] = c.Movie.ID
	}
	ds.Shuffle(candidates, 5, NewSeededRand(9))
	for i, c := range candidates {
		if c.Movie.ID != before[i] {
			t.Fatalf("input slice mutated at index %d", i)
		}
	}
}

func TestShuffleDeterministicForSeed(t *testing.T) {
	var ds DiversityShuffler
	a := ds.Shuffle(rankedCandidates(30), 5, NewSeededRand(11))
	b := ds.Shuffle(rankedCandidates(30), 5, NewSeededRand(11))
	for i := range a {
		if a[i].Movie.ID != b[i].Movie.ID {
			t.Fatalf("same seed diverged at index %d: %d vs %d", i, a[i].Movie.ID, b[i].Movie.ID)
		}
	}
}
