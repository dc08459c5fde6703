package filtering

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/talent-matcher/internal/talent"
)

func strPtr(s string) *string { return &s }

func fixture() []*talent.Candidate {
	return []*talent.Candidate{
		{
			ID:               "a",
			JobTypes:         []string{"full-time"},
			DesiredRoles:     []string{"Backend Engineer"},
			Industries:       []string{"fintech"},
			RemotePreference: strPtr("remote"),
			Education:        []talent.Education{{Degree: "BSc Computer Science"}},
		},
		{
			ID:               "b",
			JobTypes:         []string{"contract", "part-time"},
			DesiredRoles:     []string{"Data Engineer"},
			Industries:       []string{"health", "fintech"},
			RemotePreference: strPtr("hybrid"),
			Education:        []talent.Education{{Degree: "MSc Data Science"}, {Degree: "BSc Math"}},
		},
		{
			ID: "c",
		},
	}
}

func ids(candidates []*talent.Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.ID)
	}
	return out
}

func TestFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		filter  Filter
		want    []string
		enabled bool
	}{
		{name: "job types overlap", filter: NewJobTypes([]string{"part-time", "internship"}), want: []string{"b"}, enabled: true},
		{name: "desired roles exact", filter: NewDesiredRoles([]string{"backend engineer"}), want: []string{}, enabled: true},
		{name: "desired roles", filter: NewDesiredRoles([]string{"Backend Engineer"}), want: []string{"a"}, enabled: true},
		{name: "industries", filter: NewIndustries([]string{"fintech"}), want: []string{"a", "b"}, enabled: true},
		{name: "remote preference", filter: NewRemotePreference("hybrid"), want: []string{"b"}, enabled: true},
		{name: "education prefix", filter: NewEducation("BSc"), want: []string{"a", "b"}, enabled: true},
		{name: "education prefix is case sensitive", filter: NewEducation("bsc"), want: []string{}, enabled: true},
		{name: "empty job types disabled", filter: NewJobTypes(nil), enabled: false},
		{name: "empty remote disabled", filter: NewRemotePreference(""), enabled: false},
		{name: "empty education disabled", filter: NewEducation(""), enabled: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.filter.IsEnabled(); got != tt.enabled {
				t.Fatalf("IsEnabled() = %v, want %v", got, tt.enabled)
			}
			if !tt.enabled {
				return
			}

			input := fixture()
			left, step, err := tt.filter.Apply(context.Background(), input)
			if err != nil {
				t.Fatalf("Apply returned error: %v", err)
			}

			if got := ids(left); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("left = %v, want %v", got, tt.want)
			}
			if step.Initial != 3 || step.Left != len(tt.want) || step.Dropped != 3-len(tt.want) {
				t.Fatalf("unexpected step %+v", step)
			}
			if len(input) != 3 {
				t.Fatalf("input slice modified: %d", len(input))
			}
		})
	}
}

func TestRunAppliesEnabledStepsInOrder(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	steps := Build(Criteria{
		Industries: []string{"fintech"},
		Education:  "MSc",
	})

	left, err := Run(context.Background(), zap.New(core), steps, fixture())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if got := ids(left); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("left = %v, want [b]", got)
	}

	applied := logs.FilterMessage("filter step").All()
	if len(applied) != 2 {
		t.Fatalf("expected 2 applied steps, got %d", len(applied))
	}
	if applied[0].ContextMap()["name"] != "industries" || applied[1].ContextMap()["name"] != "education" {
		t.Fatalf("unexpected step order: %v, %v", applied[0].ContextMap(), applied[1].ContextMap())
	}
	if applied[1].ContextMap()["dropped"] != int64(1) {
		t.Fatalf("expected education to drop 1, got %v", applied[1].ContextMap()["dropped"])
	}

	if disabled := logs.FilterMessage("filter disabled").Len(); disabled != 3 {
		t.Fatalf("expected 3 disabled steps, got %d", disabled)
	}
}

func TestRunWithoutCriteriaKeepsEverything(t *testing.T) {
	left, err := Run(context.Background(), nil, Build(Criteria{}), fixture())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(left) != 3 {
		t.Fatalf("expected all candidates, got %d", len(left))
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, nil, Build(Criteria{JobTypes: []string{"full-time"}}), fixture())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	statuses := Describe(Build(Criteria{JobTypes: []string{"a", "b", "a"}, RemotePreference: "remote"}))
	if len(statuses) != 5 {
		t.Fatalf("expected 5 statuses, got %d", len(statuses))
	}

	if statuses[0].Name != "job_types" || !statuses[0].Enabled || statuses[0].Details["values"] != "a,b" {
		t.Fatalf("unexpected job types status %+v", statuses[0])
	}
	if statuses[1].Enabled {
		t.Fatalf("desired roles should be disabled")
	}
	if statuses[3].Details["preference"] != "remote" {
		t.Fatalf("unexpected remote status %+v", statuses[3])
	}
}
