package ranking

import (
	"math"
	"testing"

	"github.com/spigell/talent-matcher/internal/talent"
)

func scored(pairs ...any) []Scored {
	out := make([]Scored, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, Scored{
			Candidate: &talent.Candidate{ID: pairs[i].(string)},
			Score:     pairs[i+1].(float64),
		})
	}
	return out
}

func TestScoreMetricsExample(t *testing.T) {
	ranked := scored("A", 0.9, "B", 0.75, "C", 0.5)

	m := ScoreMetrics(ranked, DefaultRelevanceThreshold)

	if math.Abs(m.Precision-2.0/3.0) > tolerance {
		t.Fatalf("expected precision 2/3, got %v", m.Precision)
	}
	if math.Abs(m.NDCG-1) > tolerance {
		t.Fatalf("expected ndcg 1, got %v", m.NDCG)
	}
}

func TestScoreMetricsThresholdIsStrict(t *testing.T) {
	m := ScoreMetrics(scored("A", 0.7, "B", 0.70000001), DefaultRelevanceThreshold)
	if m.Precision != 0.5 {
		t.Fatalf("score exactly at threshold must not count, precision=%v", m.Precision)
	}
}

func TestScoreMetricsDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		ranked []Scored
	}{
		{name: "empty", ranked: nil},
		{name: "all zero", ranked: scored("A", 0.0, "B", 0.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ScoreMetrics(tt.ranked, DefaultRelevanceThreshold)
			if m.NDCG != 0 || m.Precision != 0 {
				t.Fatalf("expected zero metrics, got %+v", m)
			}
		})
	}
}

func TestScoreMetricsUnsortedInput(t *testing.T) {
	// Literal formula: the actual order is used as given.
	ranked := scored("A", 0.2, "B", 1.0)
	m := ScoreMetrics(ranked, DefaultRelevanceThreshold)

	ideal := 1.0/math.Log2(2) + 0.2/math.Log2(3)
	actual := 0.2/math.Log2(2) + 1.0/math.Log2(3)
	if math.Abs(m.NDCG-actual/ideal) > tolerance {
		t.Fatalf("expected ndcg %v, got %v", actual/ideal, m.NDCG)
	}
	if m.NDCG <= 0 || m.NDCG >= 1 {
		t.Fatalf("ndcg out of (0,1): %v", m.NDCG)
	}
}

func TestScoreMetricsNDCGInRange(t *testing.T) {
	sets := [][]Scored{
		scored("a", 0.1, "b", 0.9, "c", 0.4),
		scored("a", 0.0, "b", 0.0, "c", 0.3),
		scored("a", 0.5),
	}
	for _, set := range sets {
		m := ScoreMetrics(set, DefaultRelevanceThreshold)
		if m.NDCG < 0 || m.NDCG > 1+tolerance {
			t.Fatalf("ndcg out of range: %v", m.NDCG)
		}
	}
}

func TestFeedbackMetrics(t *testing.T) {
	ranked := scored("A", 0.9, "B", 0.75, "C", 0.5)

	m, ok := FeedbackMetrics(ranked, map[string]bool{"A": true, "B": false})
	if !ok {
		t.Fatal("expected metrics to be available")
	}
	if m.Precision != 0.5 {
		t.Fatalf("expected precision 1/2, got %v", m.Precision)
	}
	// actual = 1/log2(2) + 0/log2(3); ideal = 1/log2(2) + 0/log2(3).
	if math.Abs(m.NDCG-1) > tolerance {
		t.Fatalf("expected ndcg 1, got %v", m.NDCG)
	}
}

func TestFeedbackMetricsUnjudgedPositionsKeepRank(t *testing.T) {
	ranked := scored("A", 0.9, "B", 0.75, "C", 0.5)

	m, ok := FeedbackMetrics(ranked, map[string]bool{"C": true})
	if !ok {
		t.Fatal("expected metrics to be available")
	}
	// C sits at position 2: actual = 1/log2(4); ideal = 1/log2(2).
	expected := (1 / math.Log2(4)) / (1 / math.Log2(2))
	if math.Abs(m.NDCG-expected) > tolerance {
		t.Fatalf("expected ndcg %v, got %v", expected, m.NDCG)
	}
	if m.Precision != 1 {
		t.Fatalf("expected precision 1, got %v", m.Precision)
	}
}

func TestFeedbackMetricsAllIrrelevant(t *testing.T) {
	m, ok := FeedbackMetrics(scored("A", 0.9), map[string]bool{"A": false})
	if !ok {
		t.Fatal("expected metrics to be available")
	}
	if m.Precision != 0 || m.NDCG != 0 {
		t.Fatalf("expected zero metrics, got %+v", m)
	}
}

func TestFeedbackMetricsWithoutFeedback(t *testing.T) {
	if _, ok := FeedbackMetrics(scored("A", 0.9), nil); ok {
		t.Fatal("expected no metrics without feedback")
	}
	if _, ok := FeedbackMetrics(scored("A", 0.9), map[string]bool{"Z": true}); ok {
		t.Fatal("expected feedback on unknown ids to be ignored")
	}
}

func TestScoreAndFeedbackShareFormula(t *testing.T) {
	// Binary scores through the score path must match the same judgments
	// through the feedback path.
	ranked := scored("A", 1.0, "B", 0.0, "C", 1.0)
	byScore := ScoreMetrics(ranked, 0.5)
	byFeedback, _ := FeedbackMetrics(ranked, map[string]bool{"A": true, "B": false, "C": true})

	if math.Abs(byScore.NDCG-byFeedback.NDCG) > tolerance || byScore.Precision != byFeedback.Precision {
		t.Fatalf("paths diverged: score=%+v feedback=%+v", byScore, byFeedback)
	}
}

func TestCountRelevant(t *testing.T) {
	if got := CountRelevant(scored("A", 0.9, "B", 0.7, "C", 0.71), DefaultRelevanceThreshold); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}
