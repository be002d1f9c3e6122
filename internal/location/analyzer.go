package location

import (
	"context"

	"github.com/averyk/jobscout/internal/model"
	"github.com/averyk/jobscout/internal/normalize"
)

// RuleAnalyzer classifies jobs with the pattern rules alone, for runs without
// LLM credentials. Extraction fields it cannot produce stay at their
// sentinels; postings the rules say nothing about go to review.
type RuleAnalyzer struct {
	rules *Classifier
}

// NewRuleAnalyzer returns a RuleAnalyzer over the given classifier.
func NewRuleAnalyzer(rules *Classifier) *RuleAnalyzer {
	return &RuleAnalyzer{rules: rules}
}

// Analyze returns the rule-based analysis for the job.
func (a *RuleAnalyzer) Analyze(_ context.Context, job model.Job) model.Analysis {
	label := a.rules.Label(job.Title, job.Description)
	reasoning := "matched location rules"
	if label == "" {
		label = model.LabelReview
		reasoning = "no location rule matched"
	}

	return model.Analysis{
		LocationLabel:     label,
		LocationReasoning: reasoning,
		JobType:           "Not specified",
		PayRange:          model.NotSpecified,
		ContractDuration:  model.NotSpecified,
		TitleCleaned:      normalize.Title(job.Title),
	}
}
