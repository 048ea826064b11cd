package recommend

// DiversityShuffler re-shuffles the top-ranked slice so repeated identical
// requests do not surface an identical ordering. Scores still cluster near the
// top; strict sort order is intentionally traded for freshness.
type DiversityShuffler struct{}

// Shuffle permutes the top 3N candidates in three independent contiguous
// groups, re-permutes the first min(2N, zone) entries, leaves the tail in
// place and truncates to n.
func (DiversityShuffler) Shuffle(candidates []*Candidate, n int, rng Rand) []*Candidate {
	if n <= 0 || len(candidates) == 0 {
		return nil
	}

	zone := 3 * n
	if zone > len(candidates) {
		zone = len(candidates)
	}

	out := make([]*Candidate, len(candidates))
	copy(out, candidates)

	top := out[:zone]
	groupSize := zone / 3
	if groupSize > 0 {
		for g := 0; g < 3; g++ {
			start := g * groupSize
			end := start + groupSize
			if g == 2 {
				end = zone
			}
			group := top[start:end]
			rng.Shuffle(len(group), func(i, j int) { group[i], group[j] = group[j], group[i] })
		}
	}

	extra := 2 * n
	if extra > zone {
		extra = zone
	}
	head := top[:extra]
	rng.Shuffle(len(head), func(i, j int) { head[i], head[j] = head[j], head[i] })

	if n > len(out) {
		n = len(out)
	}
	return out[:n]
}
