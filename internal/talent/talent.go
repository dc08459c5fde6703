package talent

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Candidate is a single talent profile as kept by the record store.
// Optional fields are pointers or nil slices; nil means the value is absent.
type Candidate struct {
	ID                     string           `json:"id" mapstructure:"id"`
	FullName               string           `json:"full_name" mapstructure:"full_name"`
	Email                  *string          `json:"email" mapstructure:"email"`
	Location               *string          `json:"location" mapstructure:"location"`
	Headline               *string          `json:"headline" mapstructure:"headline"`
	Summary                *string          `json:"summary" mapstructure:"summary"`
	YearsOfExperience      *int             `json:"years_of_experience" mapstructure:"years_of_experience"`
	CurrentTitle           *string          `json:"current_title" mapstructure:"current_title"`
	CurrentCompany         *string          `json:"current_company" mapstructure:"current_company"`
	Skills                 []string         `json:"skills" mapstructure:"skills"`
	Industries             []string         `json:"industries" mapstructure:"industries"`
	SeniorityLevel         *string          `json:"seniority_level" mapstructure:"seniority_level"`
	Education              []Education      `json:"education" mapstructure:"education"`
	WorkExperience         []map[string]any `json:"work_experience" mapstructure:"work_experience"`
	Achievements           []string         `json:"achievements" mapstructure:"achievements"`
	RemotePreference       *string          `json:"remote_preference" mapstructure:"remote_preference"`
	JobTypes               []string         `json:"job_types" mapstructure:"job_types"`
	DesiredRoles           []string         `json:"desired_roles" mapstructure:"desired_roles"`
	DesiredIndustries      []string         `json:"desired_industries" mapstructure:"desired_industries"`
	SalaryExpectationRange *SalaryRange     `json:"salary_expectation_range" mapstructure:"salary_expectation_range"`
	ProfileStrength        *float64         `json:"profile_strength" mapstructure:"profile_strength"`
	LinkedInURL            *string          `json:"linkedin_url" mapstructure:"linkedin_url"`
	GithubURL              *string          `json:"github_url" mapstructure:"github_url"`
	PortfolioURL           *string          `json:"portfolio_url" mapstructure:"portfolio_url"`
	IsVerified             *bool            `json:"is_verified" mapstructure:"is_verified"`
}

type Education struct {
	Year   int    `json:"year" mapstructure:"year"`
	Degree string `json:"degree" mapstructure:"degree"`
	School string `json:"school" mapstructure:"school"`
}

type SalaryRange struct {
	Min      *float64 `json:"min,omitempty" mapstructure:"min"`
	Max      *float64 `json:"max,omitempty" mapstructure:"max"`
	Currency string   `json:"currency,omitempty" mapstructure:"currency"`
}

// ProfileText composes the text embedded for the candidate: headline, summary,
// current title and skills joined by ", ", in this order, skipping absent parts.
func ProfileText(c *Candidate) string {
	if c == nil {
		return ""
	}

	parts := make([]string, 0, 4)
	for _, field := range []*string{c.Headline, c.Summary, c.CurrentTitle} {
		if field != nil && *field != "" {
			parts = append(parts, *field)
		}
	}

	if skills := strings.Join(c.Skills, ", "); skills != "" {
		parts = append(parts, skills)
	}

	return strings.Join(parts, " ")
}

// Candidates is an ordered set of candidates.
type Candidates struct {
	Items []*Candidate
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) IDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, candidate := range c.Items {
		ids = append(ids, candidate.ID)
	}
	return ids
}

// Validate checks that every candidate has a non-empty id unique within the set.
func (c *Candidates) Validate() error {
	seen := make(map[string]struct{}, len(c.Items))
	for idx, candidate := range c.Items {
		if candidate == nil {
			return fmt.Errorf("candidate #%d is nil", idx)
		}
		if strings.TrimSpace(candidate.ID) == "" {
			return fmt.Errorf("candidate #%d has empty id", idx)
		}
		if _, ok := seen[candidate.ID]; ok {
			return fmt.Errorf("duplicate candidate id %q", candidate.ID)
		}
		seen[candidate.ID] = struct{}{}
	}
	return nil
}

// LoadFile reads a JSON array of candidates. An empty file yields an empty set.
func LoadFile(path string) (*Candidates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return &Candidates{}, nil
	}

	var items []*Candidate
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode candidates from %q: %w", path, err)
	}

	candidates := &Candidates{Items: items}
	if err := candidates.Validate(); err != nil {
		return nil, fmt.Errorf("candidates file %q: %w", path, err)
	}

	return candidates, nil
}

func (c *Candidates) ToFile(path string) error {
	if path == "" {
		return errors.New("path is required")
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(c.Items)
}
