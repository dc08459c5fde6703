package filtering

import (
	"context"
	"strings"

	"github.com/spigell/talent-matcher/internal/talent"
)

type remotePreferenceFilter struct {
	preference string
}

// NewRemotePreference creates a filter keeping candidates whose remote preference equals the given one.
func NewRemotePreference(preference string) Filter {
	return &remotePreferenceFilter{preference: preference}
}

func (f *remotePreferenceFilter) Name() string { return "remote_preference" }

func (f *remotePreferenceFilter) IsEnabled() bool { return f.preference != "" }

func (f *remotePreferenceFilter) Apply(_ context.Context, candidates []*talent.Candidate) ([]*talent.Candidate, Step, error) {
	left, step := keep(candidates, func(c *talent.Candidate) bool {
		return c.RemotePreference != nil && *c.RemotePreference == f.preference
	})
	return left, step, nil
}

func (f *remotePreferenceFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Details: map[string]string{"preference": f.preference}}
}

type educationFilter struct {
	degree string
}

// NewEducation creates a filter keeping candidates holding a degree that starts with the given prefix.
func NewEducation(degree string) Filter {
	return &educationFilter{degree: degree}
}

func (f *educationFilter) Name() string { return "education" }

func (f *educationFilter) IsEnabled() bool { return f.degree != "" }

func (f *educationFilter) Apply(_ context.Context, candidates []*talent.Candidate) ([]*talent.Candidate, Step, error) {
	left, step := keep(candidates, func(c *talent.Candidate) bool {
		for _, edu := range c.Education {
			if strings.HasPrefix(edu.Degree, f.degree) {
				return true
			}
		}
		return false
	})
	return left, step, nil
}

func (f *educationFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Details: map[string]string{"degree": f.degree}}
}
