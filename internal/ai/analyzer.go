package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/averyk/jobscout/internal/model"
)

// LLMAnalyzer implements model.Analyzer using an LLM.
type LLMAnalyzer struct {
	provider LLMProvider
	tmpl     *template.Template
	logger   *slog.Logger
}

// NewLLMAnalyzer creates an analyzer that classifies jobs via the given
// provider.
func NewLLMAnalyzer(provider LLMProvider, tmpl *template.Template, logger *slog.Logger) *LLMAnalyzer {
	return &LLMAnalyzer{
		provider: provider,
		tmpl:     tmpl,
		logger:   logger,
	}
}

// Analyze classifies a job's location, type, and pay. It always returns a
// well-formed Analysis: any failure (prompt render, network, malformed
// output) degrades to the safe default so a single bad job never aborts a
// batch.
func (a *LLMAnalyzer) Analyze(ctx context.Context, job model.Job) model.Analysis {
	description := job.Description
	if description == "" {
		description = "No description provided"
	}
	source := job.Source
	if source == "" {
		source = "Unknown"
	}

	var promptBuf bytes.Buffer
	err := a.tmpl.Execute(&promptBuf, struct {
		Title       string
		Description string
		Source      string
	}{job.Title, description, source})
	if err != nil {
		return a.failed(job, fmt.Errorf("render prompt: %w", err))
	}

	raw, err := a.provider.Complete(ctx, promptBuf.String())
	if err != nil {
		return a.failed(job, fmt.Errorf("llm complete: %w", err))
	}

	analysis, err := parseAnalysis(raw, job.Title)
	if err != nil {
		return a.failed(job, fmt.Errorf("parse analysis: %w", err))
	}
	return analysis
}

func (a *LLMAnalyzer) failed(job model.Job, err error) model.Analysis {
	a.logger.Warn("job analysis failed, using safe default",
		"job_id", job.ID,
		"error", err,
	)
	return SafeDefault(job, fmt.Sprintf("Analysis failed: %v", err))
}

// SafeDefault is the degraded analysis used when classification cannot run:
// keep the job for manual review, touch nothing else.
func SafeDefault(job model.Job, reasoning string) model.Analysis {
	return model.Analysis{
		LocationLabel:     model.LabelReview,
		LocationReasoning: reasoning,
		JobType:           "Not specified",
		PayRange:          model.NotSpecified,
		ContractDuration:  model.NotSpecified,
		TitleCleaned:      job.Title,
	}
}

// rawAnalysis is the JSON shape returned by the LLM (matches
// jobAnalysisSchema).
type rawAnalysis struct {
	LocationLabel     string `json:"location_label"`
	LocationReasoning string `json:"location_reasoning"`
	JobType           string `json:"job_type"`
	PayRange          string `json:"pay_range"`
	ContractDuration  string `json:"contract_duration"`
	TitleCleaned      string `json:"title_cleaned"`
}

// parseAnalysis deserializes the LLM response and validates the enum fields.
// A label outside the contract is treated the same as malformed JSON.
func parseAnalysis(raw, originalTitle string) (model.Analysis, error) {
	var ra rawAnalysis
	if err := json.Unmarshal([]byte(raw), &ra); err != nil {
		return model.Analysis{}, fmt.Errorf("unmarshal analysis JSON: %w", err)
	}

	switch ra.LocationLabel {
	case model.LabelSeattle, model.LabelRemote, model.LabelReview, model.LabelDelete:
	default:
		return model.Analysis{}, fmt.Errorf("unexpected location_label %q", ra.LocationLabel)
	}

	switch ra.JobType {
	case "Full-time", "Contract", "Part-time", "Not specified":
	default:
		return model.Analysis{}, fmt.Errorf("unexpected job_type %q", ra.JobType)
	}

	if ra.PayRange == "" {
		ra.PayRange = model.NotSpecified
	}
	if ra.ContractDuration == "" {
		ra.ContractDuration = model.NotSpecified
	}
	if ra.TitleCleaned == "" {
		ra.TitleCleaned = originalTitle
	}

	return model.Analysis{
		LocationLabel:     ra.LocationLabel,
		LocationReasoning: ra.LocationReasoning,
		JobType:           ra.JobType,
		PayRange:          ra.PayRange,
		ContractDuration:  ra.ContractDuration,
		TitleCleaned:      ra.TitleCleaned,
	}, nil
}
