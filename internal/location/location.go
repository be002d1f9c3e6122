// Package location infers Seattle-metro / remote / unknown from posting text
// with pattern matching. It is the rule-based fallback and validation layer
// next to the LLM classifier, which stays authoritative for ambiguous cases.
package location

import (
	"regexp"
	"strings"

	"github.com/averyk/jobscout/internal/model"
)

// DefaultMetroCities is the canonical Seattle-metro acceptance list. There is
// exactly one copy of this list; every consumer gets it injected through
// NewClassifier.
var DefaultMetroCities = []string{
	"Seattle", "Bellevue", "Redmond", "Kirkland", "Bothell",
	"Renton", "Kent", "Federal Way", "Sammamish", "Issaquah",
}

// Positive patterns: any match says the description describes remote work.
var remotePositiveRe = regexp.MustCompile(
	`(?i)(?:fully\s+remote|location\s*:\s*remote|role\s+(?:type|is)\s*:\s*remote|` +
		`remote\s+(?:position|role|work|opportunity|\()|` +
		`\bremote\b.*\bUSA\b|\bUSA\b.*\bremote\b|` +
		`(?:100%|completely|entirely)\s+remote|` +
		`listed\s+as\s+remote|` +
		`\bremote\s+if\s+located)`)

// Negative patterns: any match defeats a positive ("remote sensing" jobs are
// not remote jobs).
var remoteNegativeRe = regexp.MustCompile(
	`(?i)not\s+(?:a\s+)?remote|not\s+offer\s+remote|remote\s+(?:operations?|assistance|sensing|control)`)

var remoteWordRe = regexp.MustCompile(`(?i)\bremote\b`)

// Classifier matches posting text against a fixed metro-city list and the
// remote pattern sets.
type Classifier struct {
	metroRe *regexp.Regexp
}

// NewClassifier builds a classifier for the given metro cities. An empty list
// falls back to DefaultMetroCities.
func NewClassifier(metroCities []string) *Classifier {
	if len(metroCities) == 0 {
		metroCities = DefaultMetroCities
	}

	quoted := make([]string, len(metroCities))
	for i, city := range metroCities {
		quoted[i] = regexp.QuoteMeta(city)
	}
	// City immediately followed by ", WA". Requiring the state code means
	// "Kent, OH" never matches; the cost is that a metro title omitting the
	// state code is missed, which the LLM pass resolves.
	metroRe := regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `),\s?WA\b`)

	return &Classifier{metroRe: metroRe}
}

// IsInMetro reports whether the title names a metro city followed by ", WA".
func (c *Classifier) IsInMetro(title string) bool {
	return c.metroRe.MatchString(title)
}

// IsUSWide reports whether the title is a country-wide listing; those may be
// remote, so they are kept for review rather than matched as metro.
func (c *Classifier) IsUSWide(title string) bool {
	return strings.HasSuffix(title, "in United States")
}

// IsTrulyRemote reports whether the posting describes genuinely remote work.
// A title containing the whole word "remote" with no negative match
// short-circuits the description check; otherwise the description must match
// a positive pattern and no negative pattern.
func (c *Classifier) IsTrulyRemote(description, title string) bool {
	if title != "" && remoteWordRe.MatchString(title) && !remoteNegativeRe.MatchString(title) {
		return true
	}
	if description == "" {
		return false
	}
	return remotePositiveRe.MatchString(description) && !remoteNegativeRe.MatchString(description)
}

// Label returns the rule-based location label for a posting, or "" when the
// rules say nothing (neither metro, remote, nor US-wide).
func (c *Classifier) Label(title, description string) string {
	switch {
	case c.IsInMetro(title):
		return model.LabelSeattle
	case c.IsTrulyRemote(description, title):
		return model.LabelRemote
	case c.IsUSWide(title):
		return model.LabelReview
	default:
		return ""
	}
}
