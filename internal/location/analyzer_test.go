package location

import (
	"context"
	"testing"

	"github.com/averyk/jobscout/internal/model"
)

func TestRuleAnalyzer(t *testing.T) {
	a := NewRuleAnalyzer(NewClassifier(nil))

	tests := []struct {
		name      string
		job       model.Job
		wantLabel string
	}{
		{
			name:      "metro title",
			job:       model.Job{Title: "Writer in Bellevue, WA"},
			wantLabel: model.LabelSeattle,
		},
		{
			name:      "remote description",
			job:       model.Job{Title: "Writer", Description: "This is a fully remote position."},
			wantLabel: model.LabelRemote,
		},
		{
			name:      "no rule match goes to review",
			job:       model.Job{Title: "Writer", Description: "Onsite work."},
			wantLabel: model.LabelReview,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := a.Analyze(context.Background(), tt.job)
			if analysis.LocationLabel != tt.wantLabel {
				t.Errorf("expected label %q, got %q", tt.wantLabel, analysis.LocationLabel)
			}
			if analysis.PayRange != model.NotSpecified || analysis.ContractDuration != model.NotSpecified {
				t.Errorf("expected sentinels for extraction fields, got %q / %q", analysis.PayRange, analysis.ContractDuration)
			}
			if analysis.JobType != "Not specified" {
				t.Errorf("expected job type Not specified, got %q", analysis.JobType)
			}
		})
	}
}

func TestRuleAnalyzerCleansTitle(t *testing.T) {
	a := NewRuleAnalyzer(NewClassifier(nil))

	analysis := a.Analyze(context.Background(), model.Job{Title: "Writer in Bellevue, WA - Acme"})
	if analysis.TitleCleaned != "Writer" {
		t.Errorf("expected stripped title, got %q", analysis.TitleCleaned)
	}
}
