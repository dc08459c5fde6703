package filtering

import (
	"context"
	"strings"

	"github.com/spigell/talent-matcher/internal/talent"
)

// overlapFilter keeps candidates sharing at least one exact value with the wanted list.
type overlapFilter struct {
	name   string
	wanted map[string]struct{}
	values []string
	field  func(*talent.Candidate) []string
}

func newOverlap(name string, wanted []string, field func(*talent.Candidate) []string) *overlapFilter {
	f := &overlapFilter{name: name, field: field, wanted: make(map[string]struct{}, len(wanted))}
	for _, value := range wanted {
		if _, ok := f.wanted[value]; ok {
			continue
		}
		f.wanted[value] = struct{}{}
		f.values = append(f.values, value)
	}
	return f
}

// NewJobTypes creates a filter on the candidate's acceptable job types.
func NewJobTypes(wanted []string) Filter {
	return newOverlap("job_types", wanted, func(c *talent.Candidate) []string { return c.JobTypes })
}

// NewDesiredRoles creates a filter on the roles the candidate is looking for.
func NewDesiredRoles(wanted []string) Filter {
	return newOverlap("desired_roles", wanted, func(c *talent.Candidate) []string { return c.DesiredRoles })
}

// NewIndustries creates a filter on the industries the candidate worked in.
func NewIndustries(wanted []string) Filter {
	return newOverlap("industries", wanted, func(c *talent.Candidate) []string { return c.Industries })
}

func (f *overlapFilter) Name() string { return f.name }

func (f *overlapFilter) IsEnabled() bool { return len(f.wanted) > 0 }

func (f *overlapFilter) Apply(_ context.Context, candidates []*talent.Candidate) ([]*talent.Candidate, Step, error) {
	left, step := keep(candidates, func(c *talent.Candidate) bool {
		for _, value := range f.field(c) {
			if _, ok := f.wanted[value]; ok {
				return true
			}
		}
		return false
	})
	return left, step, nil
}

func (f *overlapFilter) Status() Status {
	details := map[string]string{}
	if len(f.values) > 0 {
		details["values"] = strings.Join(f.values, ",")
	}
	return Status{Name: f.name, Enabled: f.IsEnabled(), Details: details}
}
