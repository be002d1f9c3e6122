// Package normalize holds the pure text transforms used across the pipeline:
// title normalization for duplicate clustering and HTML-to-text cleanup for
// feed descriptions.
package normalize

import (
	"html"
	"regexp"
	"strings"
)

// Trailing location annotations, stripped in order. Feed titles arrive as
// "Acme hiring Writer in Bellevue, WA - Jobs" or "Writer (Renton, WA)";
// stripping the suffix makes postings for the same role in different cities
// compare equal while leaving the leading company tokens intact, so roles at
// different companies never merge.
var (
	inCityStateRe = regexp.MustCompile(`\s+in\s+[A-Za-z][A-Za-z\s.]*,\s*[A-Z]{2}(\s*-\s*.*)?$`)
	parenLocRe    = regexp.MustCompile(`\s*\([A-Za-z][A-Za-z\s.]*,\s*[A-Z]{2}\)$`)
)

const usWideSuffix = " in United States"

// Title strips trailing location annotations from a job title for clustering
// comparison. Idempotent: Title(Title(s)) == Title(s).
func Title(s string) string {
	s = inCityStateRe.ReplaceAllString(s, "")
	s = parenLocRe.ReplaceAllString(s, "")
	s = strings.TrimSuffix(s, usWideSuffix)
	return strings.TrimSpace(s)
}

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	apostropheRe = strings.NewReplacer("‘", "'", "’", "'", "`", "'")
	dashRe       = strings.NewReplacer("–", "-", "—", "-", "−", "-", "―", "-")
)

// Text converts an HTML or HTML-encoded string to plain text: unescapes
// entities, strips tags, collapses whitespace, and unifies apostrophes and
// dashes so stored descriptions compare cleanly.
func Text(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")
	s = apostropheRe.Replace(s)
	s = dashRe.Replace(s)
	return s
}
