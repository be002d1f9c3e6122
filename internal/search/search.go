// Package search finds job postings with an LLM web search across a fixed
// set of job-board domains.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/averyk/jobscout/internal/model"
)

const jsonInstructions = `
Return ONLY a valid JSON array (no markdown, no preamble). Each element:
{
  "title": "Company hiring [Job Title] in [Location]",
  "url": "direct URL to the job posting",
  "description": "Full description: responsibilities, qualifications, compensation if listed",
  "posted_date": "YYYY-MM-DD",
  "source": "the job board domain",
  "feed": "Web Search"
}
If no results found, return an empty array: []`

// Source runs a daily web search for matching roles via the OpenAI responses
// API with the web_search tool. It has no cutoff semantics: every run returns
// the full results for its query window, and upsert idempotency absorbs the
// overlap.
type Source struct {
	baseURL string
	apiKey  string
	model   string
	roles   []string
	domains []string
	client  *http.Client
	logger  *slog.Logger
}

// NewSource creates a web-search posting source.
func NewSource(baseURL, apiKey, llmModel string, roles, domains []string, client *http.Client, logger *slog.Logger) *Source {
	return &Source{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   llmModel,
		roles:   roles,
		domains: domains,
		client:  client,
		logger:  logger,
	}
}

// Postings searches for jobs posted in the last 24 hours.
func (s *Source) Postings(ctx context.Context) ([]model.Posting, error) {
	query := fmt.Sprintf(`Search %s for job postings published within the last 24 hours.

Find all postings matching these roles: %s

Preferences:
- Remote, hybrid, or Seattle/Bellevue/Redmond/Kirkland area
- Exclude pure staffing agencies
%s`, strings.Join(s.domains, " and "), strings.Join(s.roles, ", "), jsonInstructions)

	raw, err := s.runSearch(ctx, query)
	if err != nil {
		return nil, err
	}

	jobs, err := parseJobsJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing search results: %w", err)
	}

	postings := make([]model.Posting, 0, len(jobs))
	for _, j := range jobs {
		if j.URL == "" {
			continue
		}
		source := j.Source
		if source == "" {
			source = "Web Search"
		}
		feed := j.Feed
		if feed == "" {
			feed = "Web Search"
		}
		postings = append(postings, model.Posting{
			Title:       j.Title,
			URL:         j.URL,
			Description: j.Description,
			PostedDate:  j.PostedDate,
			Source:      source,
			Feed:        feed,
		})
	}

	s.logger.Info("web search complete", "results", len(postings))
	return postings, nil
}

// responsesRequest mirrors the OpenAI /v1/responses request body.
type responsesRequest struct {
	Model string         `json:"model"`
	Tools []responsesTool `json:"tools"`
	Input string         `json:"input"`
}

type responsesTool struct {
	Type    string          `json:"type"`
	Filters responsesFilter `json:"filters"`
}

type responsesFilter struct {
	AllowedDomains []string `json:"allowed_domains"`
}

// responsesResponse mirrors the relevant fields of the responses API reply.
type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// runSearch sends the query and returns the concatenated text output.
func (s *Source) runSearch(ctx context.Context, query string) (string, error) {
	reqBody := responsesRequest{
		Model: s.model,
		Tools: []responsesTool{{
			Type:    "web_search",
			Filters: responsesFilter{AllowedDomains: s.domains},
		}},
		Input: query,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal search request: %w", err)
	}

	url := s.baseURL + "/responses"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &model.HTTPError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("search request"),
		}
	}

	var searchResp responsesResponse
	if err := json.Unmarshal(respBytes, &searchResp); err != nil {
		return "", fmt.Errorf("parse search response: %w", err)
	}

	if searchResp.Error != nil {
		return "", fmt.Errorf("search error (%s): %s", searchResp.Error.Type, searchResp.Error.Message)
	}

	var parts []string
	for _, item := range searchResp.Output {
		if item.Type != "message" {
			continue
		}
		for _, content := range item.Content {
			if content.Type == "output_text" || content.Type == "text" {
				parts = append(parts, content.Text)
			}
		}
	}
	return strings.Join(parts, "\n"), nil
}

// searchJob is one element of the JSON array the search prompt asks for.
type searchJob struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	PostedDate  string `json:"posted_date"`
	Source      string `json:"source"`
	Feed        string `json:"feed"`
}

// parseJobsJSON extracts a JSON array from raw LLM text output, tolerating
// markdown code fences and surrounding prose.
func parseJobsJSON(raw string) ([]searchJob, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	// Find the outermost JSON array.
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start != -1 && end != -1 && start < end {
		text = text[start : end+1]
	}

	var jobs []searchJob
	if err := json.Unmarshal([]byte(text), &jobs); err != nil {
		return nil, fmt.Errorf("unmarshal search jobs: %w", err)
	}
	return jobs, nil
}
