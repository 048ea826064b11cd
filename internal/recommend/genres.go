package recommend

import "strings"

// emotionGenres maps each mood to the movie genres that tend to serve it.
// Used both to bias candidate sourcing and for the genre-match score bonus.
var emotionGenres = map[string][]string{
	"happy":     {"Comedy", "Animation", "Family", "Musical"},
	"sad":       {"Drama", "Romance", "War"},
	"stressed":  {"Comedy", "Animation", "Family"},
	"motivated": {"Biography", "Sport", "Action", "Adventure"},
	"romantic":  {"Romance", "Drama", "Comedy"},
	"excited":   {"Action", "Thriller", "Adventure", "Sci-Fi"},
	"nostalgic": {"Drama", "History", "War", "Western"},
	"relaxed":   {"Comedy", "Animation", "Family", "Fantasy"},
}

// PreferredGenres unions the genre lists of the requested emotions, preserving
// first-seen order.
func PreferredGenres(emotions []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range emotions {
		for _, g := range emotionGenres[strings.ToLower(strings.TrimSpace(e))] {
			if _, ok := seen[g]; ok {
				continue
			}
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	return out
}

// genreMatchBonus grants 0.05 per preferred genre present in the movie's
// comma-joined genre string, capped at 0.15.
func genreMatchBonus(movieGenres string, preferred []string) float64 {
	if movieGenres == "" || len(preferred) == 0 {
		return 0
	}
	haystack := strings.ToLower(movieGenres)
	bonus := 0.0
	for _, g := range preferred {
		if strings.Contains(haystack, strings.ToLower(g)) {
			bonus += 0.05
			if bonus >= 0.15 {
				return 0.15
			}
		}
	}
	return bonus
}

// SplitGenres turns the stored comma-joined genre string into a trimmed list.
func SplitGenres(movieGenres string) []string {
	if strings.TrimSpace(movieGenres) == "" {
		return nil
	}
	parts := strings.Split(movieGenres, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
