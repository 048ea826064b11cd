package recommend

import (
	"encoding/binary"
	"hash/fnv"
	"sort"

	"github.com/moodpick/moodpick-backend/internal/emotion"
	"github.com/moodpick/moodpick-backend/internal/logger"
	"github.com/moodpick/moodpick-backend/internal/types"
)

// Candidate provenance values.
const (
	SourceDatabase = "database"
	SourceModel    = "model"
)

// Inference is the slice of the emotion service the scoring engine needs.
type Inference interface {
	Predict(text string, autoThreshold bool, customThreshold float64) emotion.Prediction
	IsReady() bool
}

// EmotionScore is one entry of a candidate's per-emotion score breakdown.
type EmotionScore struct {
	Emotion string  `json:"emotion"`
	Score   float64 `json:"score"`
}

// Candidate is the per-request working record for one scored movie. It is
// created and discarded within a single recommendation request.
type Candidate struct {
	Movie         *types.Movie
	Similarity    float64
	Predicted     []string
	Matched       []string
	EmotionScores []EmotionScore
	Source        string
	Confidence    float64
	FinalScore    float64
}

// ScoringEngine computes per-movie similarity against a set of requested
// emotions and blends all scoring signals into a final rank.
type ScoringEngine struct {
	log       *logger.Logger
	inference Inference
}

func NewScoringEngine(log *logger.Logger, inference Inference) *ScoringEngine {
	return &ScoringEngine{log: log.With("service", "ScoringEngine"), inference: inference}
}

// ScoreTagged is the fast path for movies that already carry trusted emotion
// tags. Every stored tag counts as full confidence; a small random bonus keeps
// equally tagged movies from tying exactly.
func (se *ScoringEngine) ScoreTagged(movie *types.Movie, tags []string, requested []string, rng Rand) *Candidate {
	if movie == nil || len(requested) == 0 {
		return nil
	}
	tagSet := toSet(tags)
	reqSet := toSet(requested)

	inter := 0
	for t := range tagSet {
		if _, ok := reqSet[t]; ok {
			inter++
		}
	}
	union := len(tagSet) + len(reqSet) - inter

	jaccard := 0.0
	if union > 0 {
		jaccard = float64(inter) / float64(union)
	}
	probWeighted := float64(inter) / float64(len(reqSet))

	similarity := 0.7*probWeighted + 0.3*jaccard
	similarity += 0.02 + rng.Float64()*0.06
	if similarity > 1.0 {
		similarity = 1.0
	}

	matched := make([]string, 0, inter)
	scores := make([]EmotionScore, 0, inter)
	for _, t := range tags {
		if _, ok := reqSet[t]; ok {
			matched = append(matched, t)
			scores = append(scores, EmotionScore{Emotion: t, Score: 1.0})
		}
	}

	return &Candidate{
		Movie:         movie,
		Similarity:    similarity,
		Predicted:     append([]string(nil), tags...),
		Matched:       matched,
		EmotionScores: scores,
		Source:        SourceDatabase,
		Confidence:    0.9,
	}
}

// ScoreWithModel is the fallback path for untagged movies: it runs live
// inference over the synopsis and keeps the candidate only when similarity
// clears minSimilarity. Returns nil for discarded candidates.
func (se *ScoringEngine) ScoreWithModel(movie *types.Movie, requested []string, emotionThreshold, minSimilarity float64) *Candidate {
	if movie == nil || len(requested) == 0 || !se.inference.IsReady() {
		return nil
	}

	pred := se.inference.Predict(movie.Overview, false, emotionThreshold)
	predSet := toSet(pred.Accepted)
	reqSet := toSet(requested)

	inter := 0
	var probSum float64
	for p := range predSet {
		if _, ok := reqSet[p]; ok {
			inter++
			probSum += pred.Probabilities[p]
		}
	}
	union := len(predSet) + len(reqSet) - inter

	jaccard := 0.0
	if union > 0 && len(predSet) > 0 {
		jaccard = float64(inter) / float64(union)
	}
	probWeighted := probSum / float64(len(reqSet))

	similarity := 0.7*probWeighted + 0.3*jaccard
	if similarity < minSimilarity {
		return nil
	}

	confidence := 0.0
	matched := make([]string, 0, inter)
	for _, p := range pred.Accepted {
		if _, ok := reqSet[p]; ok {
			matched = append(matched, p)
		}
	}
	if len(matched) > 0 {
		confidence = probSum / float64(len(matched))
	}

	scores := make([]EmotionScore, 0, len(pred.Accepted))
	for _, p := range pred.Accepted {
		if prob := pred.Probabilities[p]; prob > 0 {
			scores = append(scores, EmotionScore{Emotion: p, Score: prob})
		}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	return &Candidate{
		Movie:         movie,
		Similarity:    similarity,
		Predicted:     append([]string(nil), pred.Accepted...),
		Matched:       matched,
		EmotionScores: scores,
		Source:        SourceModel,
		Confidence:    confidence,
	}
}

// FinalizeScores applies the uniform final blend to every kept candidate. The
// diversity factor is drawn once and shared; the per-movie noise varies per
// request through requestSeed but is deterministic given (movie, seed).
func (se *ScoringEngine) FinalizeScores(candidates []*Candidate, requested []string, rng Rand, requestSeed int64) {
	preferred := PreferredGenres(requested)
	diversityFactor := rng.Float64()*0.1 - 0.05

	for _, cand := range candidates {
		if cand == nil || cand.Movie == nil {
			continue
		}
		ratingBonus := (cand.Movie.VoteAverage - 5.0) / 20.0
		genreBonus := genreMatchBonus(cand.Movie.Genre, preferred)
		databaseBonus := 0.0
		if cand.Source == SourceDatabase {
			databaseBonus = 0.02
		}
		cand.FinalScore = cand.Similarity +
			ratingBonus +
			0.3*cand.Confidence +
			genreBonus +
			databaseBonus +
			diversityFactor +
			movieNoise(cand.Movie.ID, requestSeed)
	}
}

// movieNoise hashes (movieID, requestSeed) into [0, 0.1).
func movieNoise(movieID, requestSeed int64) float64 {
	h := fnv.New64a()
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(movieID))
	binary.LittleEndian.PutUint64(buf[8:], uint64(requestSeed))
	_, _ = h.Write(buf[:])
	return float64(h.Sum64()>>11) / float64(uint64(1)<<53) * 0.1
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it != "" {
			set[it] = struct{}{}
		}
	}
	return set
}
