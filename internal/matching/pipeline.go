package matching

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/filtering"
	"github.com/spigell/talent-matcher/internal/ranking"
	"github.com/spigell/talent-matcher/internal/store"
	"github.com/spigell/talent-matcher/internal/talent"
	"github.com/spigell/talent-matcher/internal/utils"
)

const maxLogLength = 80

// Ranker orders filtered candidates against a job description.
type Ranker interface {
	Rank(ctx context.Context, jobDescription string, candidates []*talent.Candidate) ranking.Outcome
}

// Options configure how a Pipeline judges relevance.
type Options struct {
	// RelevanceThreshold is the score a candidate must exceed to count as
	// relevant. Nil selects ranking.DefaultRelevanceThreshold.
	RelevanceThreshold *float64
}

// Pipeline answers matching requests: store lookup, post-store filters,
// ranking, metrics and analysis.
type Pipeline struct {
	store     store.Store
	ranker    Ranker
	threshold float64
	logger    *zap.Logger
}

func NewPipeline(st store.Store, ranker Ranker, opts Options, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	threshold := ranking.DefaultRelevanceThreshold
	if opts.RelevanceThreshold != nil {
		threshold = *opts.RelevanceThreshold
	}

	return &Pipeline{store: st, ranker: ranker, threshold: threshold, logger: logger}
}

// Threshold returns the relevance threshold used for score metrics.
func (p *Pipeline) Threshold() float64 {
	return p.threshold
}

// Match runs a request. Only store failures are returned as errors; embedding
// problems are absorbed by the ranker.
func (p *Pipeline) Match(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	log := p.logger.With(zap.String("job_description", utils.TruncateForLog(req.JobDescription, maxLogLength)))

	found, err := p.store.Find(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("find candidates: %w", err)
	}

	if len(found) == 0 {
		log.Info("no candidates in store", zap.Strings("required_skills", req.RequiredSkills))
		return empty(ranking.AnalysisNoCandidates), nil
	}

	steps := filtering.Build(req.Criteria())
	log.Debug("filters prepared", zap.Any("steps", filtering.Describe(steps)))

	filtered, err := filtering.Run(ctx, log, steps, found)
	if err != nil {
		return nil, fmt.Errorf("filter candidates: %w", err)
	}

	if len(filtered) == 0 {
		log.Info("no candidates left after filters", zap.Int("found", len(found)))
		return empty(ranking.AnalysisNoFilterMatches), nil
	}

	outcome := p.ranker.Rank(ctx, req.JobDescription, filtered)
	ranked := outcome.Candidates
	if ranked == nil {
		ranked = []ranking.Scored{}
	}

	relevant := ranking.CountRelevant(ranked, p.threshold)
	result := &Result{
		Candidates: ranked,
		Metrics:    ranking.ScoreMetrics(ranked, p.threshold),
		Analysis:   ranking.Analysis(len(ranked), relevant),
		Method:     outcome.Method,
	}

	log.Info("request matched",
		zap.Int("found", len(found)),
		zap.Int("ranked", len(ranked)),
		zap.Int("relevant", relevant),
		zap.String("method", string(outcome.Method)),
		zap.Float64("precision", result.Metrics.Precision),
		zap.Float64("ndcg", result.Metrics.NDCG),
		zap.Duration("took", time.Since(started)),
	)

	return result, nil
}

func empty(analysis string) *Result {
	return &Result{
		Candidates: []ranking.Scored{},
		Metrics:    ranking.Metrics{},
		Analysis:   analysis,
	}
}
