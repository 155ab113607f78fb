package catalog

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/brolli/brolli/internal/model"
)

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	if len(c.FAQ.Topics) == 0 {
		t.Fatal("expected FAQ topics")
	}
	if got := c.TopicByID(model.UnknownTopicID); got.ID != model.UnknownTopicID {
		t.Errorf("unknown topic missing, got %q", got.ID)
	}
	if c.ListPrice() != 99 {
		t.Errorf("ListPrice() = %v, want 99", c.ListPrice())
	}
	if c.Snippets.PatentID != "US12095919B2" {
		t.Errorf("PatentID = %q", c.Snippets.PatentID)
	}

	wantOrder := []string{"healthcare", "payments", "rwa", "identity", "lending", "research", "dex", "nft", "gaming"}
	got := c.VerticalKeys()
	if strings.Join(got, ",") != strings.Join(wantOrder, ",") {
		t.Errorf("VerticalKeys() = %v, want %v", got, wantOrder)
	}
}

func TestTopicByIDFallsBackToUnknown(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	if got := c.TopicByID("pricing"); got.ID != "pricing" {
		t.Errorf("TopicByID(pricing) = %q", got.ID)
	}
	if got := c.TopicByID("no-such-topic"); got.ID != model.UnknownTopicID {
		t.Errorf("TopicByID(missing) = %q, want unknown", got.ID)
	}
}

func TestAllowedTopicIDsKeepsOrder(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	ids := c.AllowedTopicIDs()
	if ids[0] != c.FAQ.Topics[0].ID {
		t.Errorf("first id = %q, want %q", ids[0], c.FAQ.Topics[0].ID)
	}
	if ids[len(ids)-1] != model.UnknownTopicID {
		t.Errorf("last id = %q, want unknown", ids[len(ids)-1])
	}
}

func TestVerticalLookup(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	v, ok := c.Vertical("payments")
	if !ok {
		t.Fatal("payments vertical missing")
	}
	if v.RiskScore != 8.5 || v.RiskTier != model.TierCritical {
		t.Errorf("payments = %v/%s", v.RiskScore, v.RiskTier)
	}
	if _, ok := c.Vertical("aviation"); ok {
		t.Error("unexpected aviation vertical")
	}
}

// overlay returns the embedded data set with some files replaced
func overlay(t *testing.T, files map[string]string) fs.FS {
	t.Helper()
	m := fstest.MapFS{}
	for _, name := range []string{FAQFile, CharacterFile, VerticalsFile, SnippetsFile} {
		data, err := builtin.ReadFile("data/" + name)
		if err != nil {
			t.Fatal(err)
		}
		m[name] = &fstest.MapFile{Data: data}
	}
	for name, body := range files {
		m[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return m
}

const oneVertical = `
version: "1"
verticals:
  - key: payments
    name: Payments
    keywords: [stablecoin]
    risk_score: 8.5
    risk_tier: CRITICAL
    patent_count: 10
    settlement_range: "$150K-$750K"
    recommendation: immediate
`

func TestLoadFSRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name: "duplicate topic",
			files: map[string]string{FAQFile: `
topics:
  - {id: pricing, keywords: [price], answer: "$99"}
  - {id: pricing, keywords: [cost], answer: "$99"}
  - {id: unknown, answer: "?"}
`},
			wantErr: "duplicate topic id",
		},
		{
			name: "missing unknown",
			files: map[string]string{FAQFile: `
topics:
  - {id: pricing, keywords: [price], answer: "$99"}
`},
			wantErr: "reserved topic",
		},
		{
			name: "answer with link",
			files: map[string]string{FAQFile: `
topics:
  - {id: pricing, keywords: [price], answer: "see brolli.io for details"}
  - {id: unknown, answer: "?"}
`},
			wantErr: "contains a link",
		},
		{
			name:    "score out of range",
			files:   map[string]string{VerticalsFile: strings.Replace(oneVertical, "8.5", "10.5", 1)},
			wantErr: "outside [0,10]",
		},
		{
			name:    "unknown tier",
			files:   map[string]string{VerticalsFile: strings.Replace(oneVertical, "CRITICAL", "SEVERE", 1)},
			wantErr: "unknown risk_tier",
		},
		{
			name:    "empty keywords",
			files:   map[string]string{VerticalsFile: strings.Replace(oneVertical, "[stablecoin]", "[]", 1)},
			wantErr: "no keywords",
		},
		{
			name:    "bad settlement range",
			files:   map[string]string{VerticalsFile: strings.Replace(oneVertical, "$150K-$750K", "lots", 1)},
			wantErr: "settlement range",
		},
		{
			name:    "inconsistent recommendation",
			files:   map[string]string{VerticalsFile: strings.Replace(oneVertical, "immediate", "optional", 1)},
			wantErr: "does not match score",
		},
		{
			name:    "duplicate vertical",
			files:   map[string]string{VerticalsFile: oneVertical + strings.SplitN(oneVertical, "verticals:\n", 2)[1]},
			wantErr: "duplicate key",
		},
		{
			name:    "zero price",
			files:   map[string]string{CharacterFile: "name: x\nprogram:\n  list_price_usd: 0\n"},
			wantErr: "list_price_usd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFS(overlay(t, tt.files))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFSAcceptsOverride(t *testing.T) {
	c, err := LoadFS(overlay(t, map[string]string{VerticalsFile: oneVertical}))
	if err != nil {
		t.Fatalf("LoadFS() error: %v", err)
	}
	if keys := c.VerticalKeys(); len(keys) != 1 || keys[0] != "payments" {
		t.Errorf("VerticalKeys() = %v", keys)
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("expected error for empty catalog directory")
	}
}

func TestContainsLink(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"visit https://example.org", true},
		{"www.brolli", true},
		{"see brolli.xyz", true},
		{"The licence is $99 per year.", false},
		{"Connect a wallet on Base. Coverage renews.", false},
	}
	for _, tt := range tests {
		if got := ContainsLink(tt.in); got != tt.want {
			t.Errorf("ContainsLink(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseSettlementRange(t *testing.T) {
	tests := []struct {
		in        string
		low, high float64
		wantErr   bool
	}{
		{"$100K-$500K", 100_000, 500_000, false},
		{"$50,000-$200,000", 50_000, 200_000, false},
		{"$1.5M-$2B", 1_500_000, 2_000_000_000, false},
		{"$10-$75", 10, 75, false},
		{"$500K-$100K", 0, 0, true},
		{"$100K", 0, 0, true},
		{"$abc-$def", 0, 0, true},
		{"-", 0, 0, true},
	}
	for _, tt := range tests {
		low, high, err := ParseSettlementRange(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSettlementRange(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSettlementRange(%q) error: %v", tt.in, err)
			continue
		}
		if low != tt.low || high != tt.high {
			t.Errorf("ParseSettlementRange(%q) = %v,%v want %v,%v", tt.in, low, high, tt.low, tt.high)
		}
	}
}
