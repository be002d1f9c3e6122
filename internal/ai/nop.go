package ai

import (
	"context"

	"github.com/averyk/jobscout/internal/model"
)

// NopAnalyzer returns the safe default for every job without any LLM calls.
type NopAnalyzer struct{}

// NewNopAnalyzer returns a NopAnalyzer.
func NewNopAnalyzer() *NopAnalyzer {
	return &NopAnalyzer{}
}

// Analyze returns the safe-default analysis.
func (n *NopAnalyzer) Analyze(_ context.Context, job model.Job) model.Analysis {
	return SafeDefault(job, "analysis disabled")
}
