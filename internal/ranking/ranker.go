package ranking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/talent-matcher/internal/embedding"
	"github.com/spigell/talent-matcher/internal/logger"
	"github.com/spigell/talent-matcher/internal/talent"
	"github.com/spigell/talent-matcher/internal/utils"
)

const (
	DefaultFallbackStrength = 0.5
	maxLogLength            = 120
)

// Method tells how a ranking was produced.
type Method string

const (
	MethodSemantic Method = "semantic"
	MethodFallback Method = "profile_strength"
)

// Options tune the fallback ordering and the embedding deadline.
type Options struct {
	// FallbackStrength is the score of candidates without a profile strength
	// when the embedding step fails. Nil selects DefaultFallbackStrength.
	FallbackStrength *float64
	// Timeout bounds both embedding calls. Zero means no extra deadline.
	Timeout time.Duration
}

// Outcome is the result of one ranking operation. Err holds the embedding
// failure that caused a fallback; it is informational only.
type Outcome struct {
	Candidates []Scored
	Method     Method
	Err        error
}

// Ranker orders candidates by semantic similarity to a job description and
// degrades to profile strength ordering when embeddings are unavailable.
type Ranker struct {
	embedder embedding.Embedder
	opts     Options
	logger   *zap.Logger
}

func NewRanker(embedder embedding.Embedder, opts Options, logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{embedder: embedder, opts: opts, logger: logger}
}

// Rank never fails: any problem in the embedding step switches to the
// fallback ordering.
func (r *Ranker) Rank(ctx context.Context, jobDescription string, candidates []*talent.Candidate) Outcome {
	if len(candidates) == 0 {
		return Outcome{Candidates: []Scored{}, Method: MethodSemantic}
	}

	scored, err := r.semantic(ctx, jobDescription, candidates)
	if err == nil {
		return Outcome{Candidates: scored, Method: MethodSemantic}
	}

	r.logger.Warn("semantic ranking failed, falling back to profile strength",
		zap.Error(err),
		zap.Int("candidates", len(candidates)),
		zap.String("job_description", utils.TruncateForLog(jobDescription, maxLogLength)),
	)

	return Outcome{
		Candidates: RankByProfileStrength(candidates, r.fallbackStrength()),
		Method:     MethodFallback,
		Err:        err,
	}
}

func (r *Ranker) semantic(ctx context.Context, jobDescription string, candidates []*talent.Candidate) ([]Scored, error) {
	if r.embedder == nil {
		return nil, errors.New("embedding provider is not configured")
	}

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	texts := make([]string, len(candidates))
	for i, candidate := range candidates {
		texts[i] = talent.ProfileText(candidate)
	}

	var jobVectors, candidateVectors [][]float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobVectors, err = r.embedder.Embed(gctx, []string{jobDescription}, embedding.ModeQuery)
		if err != nil {
			return fmt.Errorf("embed job description: %w", err)
		}
		return embedding.CheckBatch([]string{jobDescription}, jobVectors)
	})
	g.Go(func() error {
		var err error
		candidateVectors, err = r.embedder.Embed(gctx, texts, embedding.ModeDocument)
		if err != nil {
			return fmt.Errorf("embed candidate profiles: %w", err)
		}
		return embedding.CheckBatch(texts, candidateVectors)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fields := logger.CommonFields(r.embedder.Provider(), r.embedder.Model())
	r.logger.Debug("embeddings received", append(fields,
		zap.Int("dimensions", len(jobVectors[0])),
		zap.Int("candidates", len(candidateVectors)),
	)...)

	return Rank(jobVectors[0], candidates, candidateVectors)
}

func (r *Ranker) fallbackStrength() float64 {
	if r.opts.FallbackStrength == nil {
		return DefaultFallbackStrength
	}
	return *r.opts.FallbackStrength
}

// RankByProfileStrength scores candidates with their profile strength, or with
// defaultStrength when it is absent, highest first and stable on ties.
func RankByProfileStrength(candidates []*talent.Candidate, defaultStrength float64) []Scored {
	scored := make([]Scored, 0, len(candidates))
	for _, candidate := range candidates {
		score := defaultStrength
		if candidate.ProfileStrength != nil {
			score = *candidate.ProfileStrength
		}
		scored = append(scored, Scored{Candidate: candidate, Score: score})
	}

	sortByScore(scored)
	return scored
}
