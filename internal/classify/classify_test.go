package classify

import (
	"testing"

	"github.com/brolli/brolli/internal/catalog"
	"github.com/brolli/brolli/internal/model"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func TestClassifyFAQTopics(t *testing.T) {
	c := New(FromTopics(loadCatalog(t).Topics()))

	tests := []struct {
		query string
		want  string
	}{
		{"What's my patent risk for stablecoins?", "patent_risk_assessment"},
		{"How do you calculate risk scores?", "risk_score_explanation"},
		{"How much do patent settlements cost?", "settlement_costs"},
		{"What does US12095919B2 cover?", "us12095919b2_coverage"},
		{"What is Brolli?", "what_is_brolli"},
		{"How much does it cost?", "pricing"},
		{"Can I transfer my license?", "soulbound"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := c.Classify(tt.query); got.ID != tt.want {
				t.Errorf("Classify(%q) = %s (%.2f), want %s", tt.query, got.ID, got.Score, tt.want)
			}
		})
	}
}

func TestClassifyNoKeywordIsUnknown(t *testing.T) {
	c := New(FromTopics(loadCatalog(t).Topics()))

	for _, text := range []string{"", "hello there", "good morning"} {
		got := c.Classify(text)
		if got.ID != model.UnknownTopicID {
			t.Errorf("Classify(%q) = %s, want unknown", text, got.ID)
		}
		if got.Matched() {
			t.Errorf("Classify(%q).Matched() = true", text)
		}
	}
}

func TestClassifySingleKeywordScore(t *testing.T) {
	tests := []struct {
		keyword string
		want    float64
	}{
		{"brolli", 2},
		{"twelve chars", 2},
		{"this keyword is well over thirty-six chars", 6},
	}

	for _, tt := range tests {
		c := New([]Entry{{ID: "topic", Keywords: []string{tt.keyword}}})
		got := c.Classify("prefix " + tt.keyword + " suffix")
		if got.ID != "topic" || got.Score != tt.want {
			t.Errorf("keyword %q: got %s/%v, want topic/%v", tt.keyword, got.ID, got.Score, tt.want)
		}
	}
}

func TestClassifyTieGoesToFirstDeclared(t *testing.T) {
	c := New([]Entry{
		{ID: "first", Keywords: []string{"team"}},
		{ID: "second", Keywords: []string{"cost"}},
	})

	if got := c.Classify("team cost"); got.ID != "first" {
		t.Errorf("tie resolved to %s, want first", got.ID)
	}
}

func TestClassifySkipsEntriesWithoutKeywords(t *testing.T) {
	c := New([]Entry{
		{ID: "empty"},
		{ID: "blank", Keywords: []string{"  "}},
		{ID: "real", Keywords: []string{"price"}},
	})

	if got := c.Classify("what's the price"); got.ID != "real" {
		t.Errorf("got %s, want real", got.ID)
	}
	if got := c.Classify("   "); got.ID != model.UnknownTopicID {
		t.Errorf("blank keyword matched whitespace text: %s", got.ID)
	}
}

func TestClassifyVerticals(t *testing.T) {
	c := New(FromVerticals(loadCatalog(t).Verticals()))

	if got := c.Classify("We're tokenizing real estate"); got.ID != "rwa" {
		t.Errorf("got %s, want rwa", got.ID)
	}
}

func TestTriggerMatch(t *testing.T) {
	tr := NewTrigger(loadCatalog(t).Verticals())

	tests := []struct {
		text string
		want bool
	}{
		{"Building an NFT marketplace", true},
		{"We have zkProofs for privacy", true},
		{"Is this covered by a PATENT?", true},
		{"We deploy to mainnet next week", true},
		{"What's your IP coverage like?", true},
		{"What is Brolli?", false},
		{"How much does it cost?", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := tr.Match(tt.text); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
