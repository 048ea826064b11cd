package recommend

import (
	"context"
	"sync"

	"github.com/moodpick/moodpick-backend/internal/types"
)

const maxScoringWorkers = 6

// ScoreCandidatesParallel fans live-model scoring out over a bounded worker
// pool and collects kept candidates until keepQuota is reached. Once the quota
// fills, no further movies are submitted and outstanding work is abandoned:
// workers finish their current movie and their results are discarded.
func (se *ScoringEngine) ScoreCandidatesParallel(ctx context.Context, movies []*types.Movie, requested []string, emotionThreshold, minSimilarity float64, keepQuota int) []*Candidate {
	if len(movies) == 0 || keepQuota <= 0 {
		return nil
	}

	workers := len(movies)
	if workers > maxScoringWorkers {
		workers = maxScoringWorkers
	}

	jobs := make(chan *types.Movie)
	// Buffered to the full pool so workers never block on a departed collector.
	results := make(chan *Candidate, len(movies))
	stop := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for movie := range jobs {
				results <- se.scoreOne(movie, requested, emotionThreshold, minSimilarity)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, movie := range movies {
			select {
			case jobs <- movie:
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	kept := make([]*Candidate, 0, keepQuota)
	for cand := range results {
		if cand == nil {
			continue
		}
		kept = append(kept, cand)
		if len(kept) >= keepQuota {
			close(stop)
			break
		}
	}
	return kept
}

// scoreOne isolates per-candidate failures: a panicking classifier drops the
// candidate without taking the request down.
func (se *ScoringEngine) scoreOne(movie *types.Movie, requested []string, emotionThreshold, minSimilarity float64) (cand *Candidate) {
	defer func() {
		if r := recover(); r != nil {
			se.log.Warn("Candidate scoring failed, dropping candidate", "movie_id", movie.ID, "panic", r)
			cand = nil
		}
	}()
	return se.ScoreWithModel(movie, requested, emotionThreshold, minSimilarity)
}
