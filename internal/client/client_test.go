package client

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spigell/talent-matcher/internal/api"
	"github.com/spigell/talent-matcher/internal/matching"
	"github.com/spigell/talent-matcher/internal/ranking"
)

func TestFindMatches(t *testing.T) {
	var got matching.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != api.MatchPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"id":"a","full_name":"Ada","score":0.9}],"metrics":{"precision":1,"ndcg":1},"analysis":"ok","method":"semantic"}`)
	}))
	defer srv.Close()

	res, err := New(srv.URL+"/", nil).FindMatches(context.Background(), matching.Request{
		JobDescription: "Go developer",
		RequiredSkills: []string{"Go"},
	})
	if err != nil {
		t.Fatalf("FindMatches returned error: %v", err)
	}

	if got.JobDescription != "Go developer" || len(got.RequiredSkills) != 1 {
		t.Fatalf("request not sent: %+v", got)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].ID != "a" || res.Candidates[0].Score != 0.9 {
		t.Fatalf("unexpected candidates %+v", res.Candidates)
	}
	if res.Metrics != (ranking.Metrics{Precision: 1, NDCG: 1}) || res.Method != ranking.MethodSemantic {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestFindMatchesGzip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept-Encoding") != "gzip" {
			t.Errorf("unexpected accept encoding %q", r.Header.Get("Accept-Encoding"))
		}
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = io.WriteString(gz, `{"candidates":null,"metrics":{"precision":0,"ndcg":0},"analysis":"none"}`)
		_ = gz.Close()
	}))
	defer srv.Close()

	res, err := New(srv.URL, nil).FindMatches(context.Background(), matching.Request{JobDescription: "x", RequiredSkills: []string{}})
	if err != nil {
		t.Fatalf("FindMatches returned error: %v", err)
	}
	if res.Candidates == nil || len(res.Candidates) != 0 {
		t.Fatalf("expected empty non-nil candidates, got %#v", res.Candidates)
	}
	if res.Analysis != "none" {
		t.Fatalf("unexpected analysis %q", res.Analysis)
	}
}

func TestFindMatchesAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		details []string
	}{
		{
			name:    "validation",
			status:  http.StatusBadRequest,
			body:    `{"error":"Invalid request","details":["jobDescription is required"]}`,
			message: "Invalid request",
			details: []string{"jobDescription is required"},
		},
		{
			name:    "server",
			status:  http.StatusInternalServerError,
			body:    `{"error":"Failed to process request"}`,
			message: "Failed to process request",
		},
		{
			name:    "non json",
			status:  http.StatusBadGateway,
			body:    `upstream down`,
			message: "502 Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL, nil).FindMatches(context.Background(), matching.Request{})

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.message {
				t.Fatalf("unexpected error %+v", apiErr)
			}
			if strings.Join(apiErr.Details, "|") != strings.Join(tt.details, "|") {
				t.Fatalf("details = %v, want %v", apiErr.Details, tt.details)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != api.HealthPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"status":"healthy"}`)
	}))
	defer srv.Close()

	if err := New(srv.URL, nil).Health(context.Background()); err != nil {
		t.Fatalf("Health returned error: %v", err)
	}

	srv.Close()
	if err := New(srv.URL, nil).Health(context.Background()); err == nil {
		t.Fatalf("expected error for closed server")
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Status: 400, Message: "Invalid request", Details: []string{"a", "b"}}
	if err.Error() != "talent matching api: status 400: Invalid request (a; b)" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
