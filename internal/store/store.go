package store

import (
	"context"
	"strings"

	"github.com/spigell/talent-matcher/internal/talent"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Store returns the candidates satisfying the structural predicates of a query.
type Store interface {
	Find(ctx context.Context, q Query) ([]*talent.Candidate, error)
}

// Query holds the predicates evaluated by the record store.
// Zero values and nil pointers leave the matching predicate out.
type Query struct {
	// RequiredSkills must all be present in the candidate skills, compared exactly.
	RequiredSkills []string
	VerifiedOnly   bool
	// Location is matched as a case-insensitive substring.
	Location       string
	SeniorityLevel string
	MinYears       *int
	MaxYears       *int
	// MinSalary is compared with the lower end of the expected salary range,
	// MaxSalary with the upper end.
	MinSalary *float64
	MaxSalary *float64
	Currency  string
}

// Match reports whether the candidate satisfies every predicate of the query.
// Candidates missing a value required by a bound do not match.
func (q Query) Match(c *talent.Candidate) bool {
	if c == nil {
		return false
	}

	if !containsAll(c.Skills, q.RequiredSkills) {
		return false
	}

	if q.VerifiedOnly && (c.IsVerified == nil || !*c.IsVerified) {
		return false
	}

	if q.Location != "" {
		if c.Location == nil || !strings.Contains(strings.ToLower(*c.Location), strings.ToLower(q.Location)) {
			return false
		}
	}

	if q.SeniorityLevel != "" && (c.SeniorityLevel == nil || *c.SeniorityLevel != q.SeniorityLevel) {
		return false
	}

	if q.MinYears != nil && (c.YearsOfExperience == nil || *c.YearsOfExperience < *q.MinYears) {
		return false
	}

	if q.MaxYears != nil && (c.YearsOfExperience == nil || *c.YearsOfExperience > *q.MaxYears) {
		return false
	}

	salary := c.SalaryExpectationRange

	if q.MinSalary != nil && (salary == nil || salary.Min == nil || *salary.Min < *q.MinSalary) {
		return false
	}

	if q.MaxSalary != nil && (salary == nil || salary.Max == nil || *salary.Max > *q.MaxSalary) {
		return false
	}

	if q.Currency != "" && (salary == nil || salary.Currency != q.Currency) {
		return false
	}

	return true
}

func containsAll(have, want []string) bool {
	if len(want) == 0 {
		return true
	}

	set := make(map[string]struct{}, len(have))
	for _, v := range have {
		set[v] = struct{}{}
	}

	for _, v := range want {
		if _, ok := set[v]; !ok {
			return false
		}
	}
	return true
}
