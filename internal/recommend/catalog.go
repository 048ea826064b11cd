package recommend

import (
	"context"

	"github.com/google/uuid"

	"github.com/moodpick/moodpick-backend/internal/types"
)

// Candidate sourcing orderings.
const (
	OrderPopular = "popular"
	OrderRandom  = "random"
	OrderRecent  = "recent"
)

// TaggedMovie pairs a movie with its durable emotion tags.
type TaggedMovie struct {
	Movie    *types.Movie
	Emotions []string
}

// CatalogStore is the read boundary toward the movie catalog and per-user
// interaction history.
type CatalogStore interface {
	// TaggedMovies returns movies carrying at least one of the requested
	// emotion tags, with each movie's full tag set.
	TaggedMovies(ctx context.Context, emotions []string) ([]TaggedMovie, error)
	// CandidatePool returns overview-bearing movies outside excludeIDs,
	// optionally restricted to a genre list, in the given ordering.
	CandidatePool(ctx context.Context, excludeIDs []int64, genres []string, order string, limit int) ([]*types.Movie, error)
	// UserHistoryMovieIDs returns the user's interacted movie ids for the
	// given kinds, most recent first, capped at limit.
	UserHistoryMovieIDs(ctx context.Context, userID uuid.UUID, kinds []string, limit int) ([]int64, error)
}
