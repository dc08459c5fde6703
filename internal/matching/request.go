package matching

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spigell/talent-matcher/internal/filtering"
	"github.com/spigell/talent-matcher/internal/ranking"
	"github.com/spigell/talent-matcher/internal/store"
)

// Request is the body of a talent matching call. Optional fields left empty
// or nil do not constrain the search.
type Request struct {
	JobDescription string   `json:"jobDescription" binding:"required"`
	RequiredSkills []string `json:"requiredSkills" binding:"required"`

	Location        string `json:"location,omitempty"`
	ExperienceLevel string `json:"experienceLevel,omitempty"`
	Currency        string `json:"currency,omitempty"`
	// Education is a degree prefix, e.g. "BSc".
	Education        string   `json:"education,omitempty"`
	JobTypes         []string `json:"jobTypes,omitempty"`
	DesiredRoles     []string `json:"desiredRoles,omitempty"`
	Industries       []string `json:"industries,omitempty"`
	RemotePreference string   `json:"remotePreference,omitempty"`

	MinYearsOfExperience *int     `json:"minYearsOfExperience,omitempty" binding:"omitempty,min=0"`
	MaxYearsOfExperience *int     `json:"maxYearsOfExperience,omitempty" binding:"omitempty,min=0"`
	MinSalary            *float64 `json:"minSalary,omitempty" binding:"omitempty,min=0"`
	MaxSalary            *float64 `json:"maxSalary,omitempty" binding:"omitempty,min=0"`
	IsVerifiedOnly       bool     `json:"isVerifiedOnly,omitempty"`
}

// Result is the answer to a Request. Candidates is never nil.
type Result struct {
	Candidates []ranking.Scored `json:"candidates"`
	Metrics    ranking.Metrics  `json:"metrics"`
	Analysis   string           `json:"analysis"`
	Method     ranking.Method   `json:"method,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(FieldName)
	return v
}

// FieldName reports a struct field by its JSON name in validation errors.
func FieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// Validate applies the same rules as the HTTP binding. The error is a
// validator.ValidationErrors when a field rule fails.
func (r Request) Validate() error {
	return validate.Struct(r)
}

// Query returns the structural predicates evaluated by the record store.
func (r Request) Query() store.Query {
	return store.Query{
		RequiredSkills: r.RequiredSkills,
		VerifiedOnly:   r.IsVerifiedOnly,
		Location:       r.Location,
		SeniorityLevel: r.ExperienceLevel,
		MinYears:       r.MinYearsOfExperience,
		MaxYears:       r.MaxYearsOfExperience,
		MinSalary:      r.MinSalary,
		MaxSalary:      r.MaxSalary,
		Currency:       r.Currency,
	}
}

// Criteria returns the values consumed by the post-store filters.
func (r Request) Criteria() filtering.Criteria {
	return filtering.Criteria{
		JobTypes:         r.JobTypes,
		DesiredRoles:     r.DesiredRoles,
		Industries:       r.Industries,
		RemotePreference: r.RemotePreference,
		Education:        r.Education,
	}
}
