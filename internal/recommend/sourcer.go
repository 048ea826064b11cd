package recommend

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/types"
)

const (
	popularShare = 0.3
	randomShare  = 0.5
	recentShare  = 0.2

	// Each strategy over-fetches its target; downstream dedup and the scoring
	// quota trim the excess.
	overFetchFactor = 4

	// Query-parameter limit for NOT IN exclusion lists. Older history beyond
	// the cap leaks back into candidacy; accepted approximation.
	maxExcludeIDs = 1000
)

// CandidateSourcer builds the supplementary movie pool scored by the model
// path when database-tagged candidates cannot fill the request.
type CandidateSourcer struct {
	log     *logger.Logger
	catalog CatalogStore
}

func NewCandidateSourcer(log *logger.Logger, catalog CatalogStore) *CandidateSourcer {
	return &CandidateSourcer{log: log.With("service", "CandidateSourcer"), catalog: catalog}
}

// BuildPool runs the popular, random and recent sourcing strategies
// concurrently, deduplicates the union by movie id and shuffles it.
func (cs *CandidateSourcer) BuildPool(ctx context.Context, requested []string, maxRecommendations int, excludeIDs []int64, rng Rand) ([]*types.Movie, error) {
	if maxRecommendations <= 0 {
		return nil, nil
	}
	preferred := PreferredGenres(requested)
	exclude := capExcludeIDs(excludeIDs)

	popTarget := shareOf(maxRecommendations, popularShare)
	randTarget := shareOf(maxRecommendations, randomShare)
	recentTarget := shareOf(maxRecommendations, recentShare)

	var pools [3][]*types.Movie
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		movies, err := cs.fetchStrategy(gctx, OrderPopular, popTarget*overFetchFactor, preferred, exclude)
		pools[0] = movies
		return err
	})
	g.Go(func() error {
		movies, err := cs.fetchStrategy(gctx, OrderRandom, randTarget*overFetchFactor, preferred, exclude)
		pools[1] = movies
		return err
	})
	g.Go(func() error {
		movies, err := cs.fetchStrategy(gctx, OrderRecent, recentTarget*overFetchFactor, preferred, exclude)
		pools[2] = movies
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Shuffle the deterministic orderings so the same top-N does not dominate
	// every request. The random strategy is already unordered.
	rng.Shuffle(len(pools[0]), func(i, j int) { pools[0][i], pools[0][j] = pools[0][j], pools[0][i] })
	rng.Shuffle(len(pools[2]), func(i, j int) { pools[2][i], pools[2][j] = pools[2][j], pools[2][i] })

	seen := make(map[int64]struct{})
	var merged []*types.Movie
	for _, pool := range pools {
		for _, movie := range pool {
			if movie == nil {
				continue
			}
			if _, ok := seen[movie.ID]; ok {
				continue
			}
			seen[movie.ID] = struct{}{}
			merged = append(merged, movie)
		}
	}
	rng.Shuffle(len(merged), func(i, j int) { merged[i], merged[j] = merged[j], merged[i] })

	cs.log.Debug("Candidate pool built",
		"popular", len(pools[0]), "random", len(pools[1]), "recent", len(pools[2]), "merged", len(merged))
	return merged, nil
}

// fetchStrategy fills one strategy's quota: genre-preferred movies first, then
// a fallback query without the genre restriction when the preferred slice
// comes up short.
func (cs *CandidateSourcer) fetchStrategy(ctx context.Context, order string, limit int, preferred []string, excludeIDs []int64) ([]*types.Movie, error) {
	if limit <= 0 {
		return nil, nil
	}
	movies, err := cs.catalog.CandidatePool(ctx, excludeIDs, preferred, order, limit)
	if err != nil {
		return nil, err
	}
	if len(movies) >= limit || len(preferred) == 0 {
		return movies, nil
	}

	fallbackExclude := make([]int64, 0, len(excludeIDs)+len(movies))
	fallbackExclude = append(fallbackExclude, excludeIDs...)
	for _, m := range movies {
		fallbackExclude = append(fallbackExclude, m.ID)
	}
	rest, err := cs.catalog.CandidatePool(ctx, capExcludeIDs(fallbackExclude), nil, order, limit-len(movies))
	if err != nil {
		return nil, err
	}
	return append(movies, rest...), nil
}

func shareOf(total int, share float64) int {
	n := int(math.Ceil(float64(total) * share))
	if n < 1 {
		n = 1
	}
	return n
}

func capExcludeIDs(ids []int64) []int64 {
	if len(ids) <= maxExcludeIDs {
		return ids
	}
	return ids[:maxExcludeIDs]
}
