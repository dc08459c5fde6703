package ranking

import (
	"math"
	"sort"
)

// DefaultRelevanceThreshold is the score a candidate must exceed to count as relevant.
const DefaultRelevanceThreshold = 0.7

type Metrics struct {
	Precision float64 `json:"precision"`
	NDCG      float64 `json:"ndcg"`
}

// Judgment is the relevance information of one ranked position.
type Judgment struct {
	Gain     float64
	Relevant bool
	// Judged is false for positions without a judgment. They keep their rank
	// but add nothing to the sums.
	Judged bool
}

// Compute derives precision and NDCG from judgments listed in ranked order.
// Both the score based and the feedback based metrics go through here.
func Compute(judgments []Judgment) Metrics {
	var judged, relevant int
	var actual float64
	gains := make([]float64, 0, len(judgments))

	for i, j := range judgments {
		if !j.Judged {
			continue
		}
		judged++
		if j.Relevant {
			relevant++
		}
		gains = append(gains, j.Gain)
		actual += discounted(j.Gain, i)
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(gains)))
	var ideal float64
	for i, gain := range gains {
		ideal += discounted(gain, i)
	}

	var m Metrics
	if judged > 0 {
		m.Precision = float64(relevant) / float64(judged)
	}
	if ideal > 0 {
		m.NDCG = actual / ideal
	}
	return m
}

func discounted(gain float64, rank int) float64 {
	return gain / math.Log2(float64(rank)+2)
}

// ScoreMetrics treats every ranked candidate as judged, with its score as gain
// and relevance meaning score > threshold.
func ScoreMetrics(ranked []Scored, threshold float64) Metrics {
	judgments := make([]Judgment, len(ranked))
	for i, s := range ranked {
		judgments[i] = Judgment{Gain: s.Score, Relevant: s.Score > threshold, Judged: true}
	}
	return Compute(judgments)
}

// FeedbackMetrics uses human relevance judgments keyed by candidate id. The
// second return value is false when none of the ranked candidates has one yet.
// Judgments for ids outside the ranking are ignored.
func FeedbackMetrics(ranked []Scored, feedback map[string]bool) (Metrics, bool) {
	judgments := make([]Judgment, len(ranked))
	labeled := false
	for i, s := range ranked {
		relevant, ok := feedback[s.ID]
		if !ok {
			continue
		}
		labeled = true
		gain := 0.0
		if relevant {
			gain = 1
		}
		judgments[i] = Judgment{Gain: gain, Relevant: relevant, Judged: true}
	}
	if !labeled {
		return Metrics{}, false
	}
	return Compute(judgments), true
}

// CountRelevant returns how many candidates score above threshold.
func CountRelevant(ranked []Scored, threshold float64) int {
	n := 0
	for _, s := range ranked {
		if s.Score > threshold {
			n++
		}
	}
	return n
}
