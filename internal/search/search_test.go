package search

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseJobsJSON(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		count int
	}{
		{
			name:  "bare array",
			raw:   `[{"title": "Writer", "url": "https://a.example/1"}]`,
			count: 1,
		},
		{
			name:  "fenced json",
			raw:   "```json\n[{\"title\": \"Writer\", \"url\": \"https://a.example/1\"}]\n```",
			count: 1,
		},
		{
			name:  "fenced without language tag",
			raw:   "```\n[{\"title\": \"Writer\", \"url\": \"https://a.example/1\"}]\n```",
			count: 1,
		},
		{
			name:  "surrounding prose",
			raw:   "Here are the results:\n[{\"title\": \"Writer\", \"url\": \"https://a.example/1\"}]\nLet me know if you need more.",
			count: 1,
		},
		{
			name:  "empty array",
			raw:   "[]",
			count: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := parseJobsJSON(tt.raw)
			if err != nil {
				t.Fatalf("parseJobsJSON: %v", err)
			}
			if len(jobs) != tt.count {
				t.Errorf("expected %d jobs, got %d", tt.count, len(jobs))
			}
		})
	}
}

func TestParseJobsJSONRejectsNonArray(t *testing.T) {
	if _, err := parseJobsJSON("no JSON here at all"); err == nil {
		t.Error("expected an error for non-JSON text")
	}
}

func newSearchServer(t *testing.T, outputText string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		resp := map[string]any{
			"output": []map[string]any{
				{"type": "web_search_call"},
				{
					"type": "message",
					"content": []map[string]any{
						{"type": "output_text", "text": outputText},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPostings(t *testing.T) {
	results := `[
		{"title": "Acme hiring Writer in Seattle, WA", "url": "https://acme.example/jobs/1",
		 "description": "Write the docs.", "posted_date": "2026-08-27", "source": "acme.example", "feed": "Web Search"},
		{"title": "Missing URL", "url": "", "description": "dropped"},
		{"title": "Sparse", "url": "https://b.example/2"}
	]`
	server := newSearchServer(t, results)

	s := NewSource(server.URL, "test-key", "gpt-4o-mini",
		[]string{"Technical Writer"}, []string{"acme.example"}, server.Client(), testLogger())

	postings, err := s.Postings(context.Background())
	if err != nil {
		t.Fatalf("Postings: %v", err)
	}

	if len(postings) != 2 {
		t.Fatalf("expected 2 postings (empty URL dropped), got %d", len(postings))
	}
	if postings[0].URL != "https://acme.example/jobs/1" {
		t.Errorf("unexpected first url %q", postings[0].URL)
	}
	if postings[0].Source != "acme.example" {
		t.Errorf("expected source passed through, got %q", postings[0].Source)
	}
	// Missing source/feed default to the search provenance.
	if postings[1].Source != "Web Search" || postings[1].Feed != "Web Search" {
		t.Errorf("expected Web Search defaults, got source=%q feed=%q", postings[1].Source, postings[1].Feed)
	}
}

func TestPostingsSendsDomainFilter(t *testing.T) {
	var gotReq responsesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"output": [{"type": "message", "content": [{"type": "output_text", "text": "[]"}]}]}`)
	}))
	defer server.Close()

	s := NewSource(server.URL, "test-key", "gpt-4o-mini",
		[]string{"Technical Writer", "Content Designer"},
		[]string{"acme.example", "globex.example"}, server.Client(), testLogger())

	if _, err := s.Postings(context.Background()); err != nil {
		t.Fatalf("Postings: %v", err)
	}

	if len(gotReq.Tools) != 1 || gotReq.Tools[0].Type != "web_search" {
		t.Fatalf("expected a web_search tool, got %+v", gotReq.Tools)
	}
	if len(gotReq.Tools[0].Filters.AllowedDomains) != 2 {
		t.Errorf("expected both domains allowed, got %v", gotReq.Tools[0].Filters.AllowedDomains)
	}
	if !strings.Contains(gotReq.Input, "Technical Writer, Content Designer") {
		t.Errorf("expected roles in query, got %q", gotReq.Input)
	}
}

func TestPostingsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"error": {"message": "quota exceeded", "type": "rate_limit"}}`)
	}))
	defer server.Close()

	s := NewSource(server.URL, "test-key", "gpt-4o-mini",
		[]string{"Writer"}, []string{"acme.example"}, server.Client(), testLogger())

	_, err := s.Postings(context.Background())
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("expected API error surfaced, got %v", err)
	}
}
