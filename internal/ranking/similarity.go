package ranking

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/spigell/talent-matcher/internal/talent"
)

var (
	ErrDimensionMismatch = errors.New("vector dimensions differ")
	ErrVectorCount       = errors.New("vector count does not match candidate count")
)

// Scored is a candidate with the score it was ranked by.
type Scored struct {
	*talent.Candidate
	Score float64 `json:"score"`
}

// CosineSimilarity returns dot(a, b) / (|a| * |b|). A zero-norm vector has
// similarity 0 with everything.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0, nil
	}
	return sim, nil
}

// Rank scores every candidate against the query vector and sorts the result by
// score, highest first. vectors[i] belongs to candidates[i]. Equal scores keep
// the input order.
func Rank(query []float64, candidates []*talent.Candidate, vectors [][]float64) ([]Scored, error) {
	if len(candidates) != len(vectors) {
		return nil, fmt.Errorf("%w: %d candidates, %d vectors", ErrVectorCount, len(candidates), len(vectors))
	}

	scored := make([]Scored, 0, len(candidates))
	for i, candidate := range candidates {
		sim, err := CosineSimilarity(query, vectors[i])
		if err != nil {
			return nil, fmt.Errorf("candidate %q: %w", candidate.ID, err)
		}
		scored = append(scored, Scored{Candidate: candidate, Score: sim})
	}

	sortByScore(scored)
	return scored, nil
}

func sortByScore(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}
