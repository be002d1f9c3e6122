package location

import (
	"testing"

	"github.com/averyk/jobscout/internal/model"
)

func TestIsInMetro(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		title string
		want  bool
	}{
		{"Technical Writer in Bellevue, WA - Acme", true},
		{"Technical Writer in Seattle, WA", true},
		{"Writer in Federal Way, WA", true},
		{"writer in redmond, wa", true}, // case-insensitive
		{"Technical Writer in Portland, OR", false},
		{"Technical Writer in Kent, OH", false}, // metro city name, wrong state
		{"Technical Writer in Seattle", false},  // no state code
		{"Technical Writer", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := c.IsInMetro(tt.title); got != tt.want {
			t.Errorf("IsInMetro(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestIsInMetroCustomCities(t *testing.T) {
	c := NewClassifier([]string{"Tacoma"})

	if !c.IsInMetro("Writer in Tacoma, WA") {
		t.Error("expected custom city to match")
	}
	if c.IsInMetro("Writer in Seattle, WA") {
		t.Error("expected default city not to match with a custom list")
	}
}

func TestIsUSWide(t *testing.T) {
	c := NewClassifier(nil)

	if !c.IsUSWide("Technical Writer in United States") {
		t.Error("expected US-wide suffix to match")
	}
	if c.IsUSWide("Technical Writer in United States - Acme") {
		t.Error("expected non-suffix placement not to match")
	}
	if c.IsUSWide("Technical Writer") {
		t.Error("expected plain title not to match")
	}
}

func TestIsTrulyRemote(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name        string
		description string
		title       string
		want        bool
	}{
		{"remote in title short-circuits", "", "Remote Technical Writer", true},
		{"remote sensing title is not remote", "", "Remote Sensing Analyst", false},
		{"remote control title is not remote", "", "Remote Control Engineer", false},
		{"fully remote description", "This is a fully remote position.", "", true},
		{"not offer remote", "We do not offer remote work.", "", false},
		{"location remote", "Location: Remote", "", true},
		{"remote role", "This is a remote role on the docs team.", "", true},
		{"percent remote", "The team is 100% remote.", "", true},
		{"remote usa", "Remote anywhere in the USA.", "", true},
		{"usa then remote", "USA based, remote ok.", "", true},
		{"listed as remote", "The position is listed as remote.", "", true},
		{"remote if located", "Remote if located outside Washington.", "", true},
		{"not a remote position", "This is not a remote position.", "", false},
		{"remote operations", "Manage remote operations for our fleet.", "", false},
		{"empty description no title", "", "", false},
		{"onsite description", "Onsite five days a week in our office.", "", false},
		{"bare remote word in description is not enough", "Occasional remote days possible.", "", false},
		{"negative title still checks description", "This is a fully remote position.", "Remote Sensing Analyst", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsTrulyRemote(tt.description, tt.title); got != tt.want {
				t.Errorf("IsTrulyRemote(%q, %q) = %v, want %v", tt.description, tt.title, got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name        string
		title       string
		description string
		want        string
	}{
		{"metro", "Writer in Bellevue, WA", "", model.LabelSeattle},
		{"metro wins over remote", "Remote Writer in Seattle, WA", "", model.LabelSeattle},
		{"remote", "Remote Technical Writer", "", model.LabelRemote},
		{"remote from description", "Writer", "This is a fully remote position.", model.LabelRemote},
		{"us wide goes to review", "Writer in United States", "", model.LabelReview},
		{"no rule", "Technical Writer", "Onsite work.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Label(tt.title, tt.description); got != tt.want {
				t.Errorf("Label(%q, %q) = %q, want %q", tt.title, tt.description, got, tt.want)
			}
		})
	}
}
