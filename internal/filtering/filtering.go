package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/talent"
)

// Filter represents a single filtering step applied to candidates returned by the store.
type Filter interface {
	Name() string
	IsEnabled() bool

	Apply(ctx context.Context, candidates []*talent.Candidate) ([]*talent.Candidate, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Criteria holds the request values consumed by the filters.
// Empty values disable the matching step.
type Criteria struct {
	JobTypes         []string
	DesiredRoles     []string
	Industries       []string
	RemotePreference string
	Education        string
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string
	Enabled bool
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

// Build returns the filter steps for the criteria in their evaluation order.
func Build(c Criteria) []Filter {
	return []Filter{
		NewJobTypes(c.JobTypes),
		NewDesiredRoles(c.DesiredRoles),
		NewIndustries(c.Industries),
		NewRemotePreference(c.RemotePreference),
		NewEducation(c.Education),
	}
}

// Run executes the supplied filters sequentially and returns the candidates left.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, candidates []*talent.Candidate) ([]*talent.Candidate, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			logger.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		next, info, err := step.Apply(ctx, candidates)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)

		candidates = next
	}

	return candidates, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

// keep returns the candidates accepted by the predicate along with step counters.
// The input slice is not modified.
func keep(candidates []*talent.Candidate, accept func(*talent.Candidate) bool) ([]*talent.Candidate, Step) {
	left := make([]*talent.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate != nil && accept(candidate) {
			left = append(left, candidate)
		}
	}

	return left, Step{Initial: len(candidates), Dropped: len(candidates) - len(left), Left: len(left)}
}
