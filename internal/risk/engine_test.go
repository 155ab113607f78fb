package risk

import (
	"strings"
	"testing"

	"github.com/brolli/brolli/internal/catalog"
	"github.com/brolli/brolli/internal/model"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return NewEngine(c, nil, nil)
}

func TestAssessVerticalMatching(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		text     string
		vertical string
		score    float64
		action   Action
	}{
		{"We're building a stablecoin for remittances", "payments", 8.5, ActionRecommendImmediate},
		{"Building an NFT marketplace", "nft", 5.1, ActionConsider},
		{"healthcare data platform for patient records", "healthcare", 8.7, ActionRecommendImmediate},
		{"Our DeFi lending protocol is launching soon", "lending", 7.8, ActionRecommend},
		{"We're tokenizing real estate", "rwa", 8.2, ActionRecommendImmediate},
		{"Creating a DEX with an AMM", "dex", 6.2, ActionConsider},
		{"We have zkProofs for privacy", "identity", 8.1, ActionRecommendImmediate},
		{"Our platform stores medical records on blockchain with HIPAA compliance", "healthcare", 8.7, ActionRecommendImmediate},
		{"Building a research data provenance system for academic institutions", "research", 6.8, ActionConsider},
		{"We're creating an open science platform for peer review", "research", 6.8, ActionConsider},
		{"A play-to-earn metaverse", "gaming", 3.4, ActionLowRisk},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			res := e.Assess(tt.text)
			if res.Action != tt.action {
				t.Errorf("action = %s, want %s", res.Action, tt.action)
			}
			if res.Data == nil {
				t.Fatal("expected data payload")
			}
			if res.Data.Vertical != tt.vertical || res.Data.RiskScore != tt.score {
				t.Errorf("data = %s/%v, want %s/%v", res.Data.Vertical, res.Data.RiskScore, tt.vertical, tt.score)
			}
		})
	}
}

func TestAssessCriticalText(t *testing.T) {
	res := newEngine(t).Assess("We're building a stablecoin for remittances")

	for _, want := range []string{
		"CRITICAL PATENT RISK DETECTED",
		"Vertical: Payments & Stablecoins",
		"Risk Score: 8.5/10 (CRITICAL)",
		"Relevant Patents: 847",
		"Settlement Range: $150K-$750K",
		"Cost: $99/year",
		"ROI: 1515x-7576x vs. potential litigation",
		"• Stablecoin reserve attestation methods",
	} {
		if !strings.Contains(res.Text, want) {
			t.Errorf("text missing %q:\n%s", want, res.Text)
		}
	}
	if res.Data.Recommendation != model.RecommendImmediate {
		t.Errorf("recommendation = %s", res.Data.Recommendation)
	}
}

func TestAssessHighText(t *testing.T) {
	res := newEngine(t).Assess("lending protocol")
	if !strings.Contains(res.Text, "Cost: $99/year | ROI: 808x-3030x") {
		t.Errorf("unexpected text:\n%s", res.Text)
	}
}

func TestAssessNoMatchRequestsMoreInfo(t *testing.T) {
	res := newEngine(t).Assess("How do you calculate risk scores?")

	if res.Action != ActionRequestMoreInfo {
		t.Errorf("action = %s, want REQUEST_MORE_INFO", res.Action)
	}
	if res.Data != nil {
		t.Errorf("expected no data, got %+v", res.Data)
	}
	if !strings.Contains(res.Text, "Tell me what you're building") {
		t.Errorf("unexpected text: %s", res.Text)
	}
}

func vertical(key string, score float64, keywords ...string) model.Vertical {
	return model.Vertical{
		Key:             key,
		Name:            key,
		Keywords:        keywords,
		RiskScore:       score,
		RiskTier:        model.TierMedium,
		SettlementRange: "$100K-$500K",
		Recommendation:  model.RecommendationForScore(score),
	}
}

func customEngine(verticals ...model.Vertical) *Engine {
	c := &catalog.Catalog{
		Graph:     model.RiskGraph{Verticals: verticals},
		Character: model.Character{Program: model.Program{ListPriceUSD: 99}},
	}
	return NewEngine(c, nil, nil)
}

func TestAssessThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  Action
		rec   model.Recommendation
	}{
		{10, ActionRecommendImmediate, model.RecommendImmediate},
		{8.0, ActionRecommendImmediate, model.RecommendImmediate},
		{7.99, ActionRecommend, model.RecommendRecommended},
		{7.0, ActionRecommend, model.RecommendRecommended},
		{5.0, ActionConsider, model.RecommendConsider},
		{4.99, ActionLowRisk, model.RecommendOptional},
		{0, ActionLowRisk, model.RecommendOptional},
	}

	for _, tt := range tests {
		res := customEngine(vertical("v", tt.score, "widget")).Assess("a widget")
		if res.Action != tt.want {
			t.Errorf("score %v: action = %s, want %s", tt.score, res.Action, tt.want)
		}
		if res.Data == nil || res.Data.Recommendation != tt.rec {
			t.Errorf("score %v: data = %+v, want recommendation %s", tt.score, res.Data, tt.rec)
		}
	}
}

func TestAssessLongestKeywordsWin(t *testing.T) {
	e := customEngine(
		vertical("short", 5, "dex"),
		vertical("long", 5, "liquidity pool"),
	)
	if v, _ := e.Match("a dex liquidity pool"); v.Key != "long" {
		t.Errorf("matched %s, want long", v.Key)
	}
}

func TestAssessTieGoesToFirstDeclared(t *testing.T) {
	e := customEngine(
		vertical("first", 5, "swap"),
		vertical("second", 5, "mint"),
	)
	if v, _ := e.Match("swap and mint"); v.Key != "first" {
		t.Errorf("matched %s, want first", v.Key)
	}
}

func TestAssessBadSettlementRangeIsError(t *testing.T) {
	v := vertical("v", 9, "widget")
	v.SettlementRange = "undisclosed"

	res := customEngine(v).Assess("widget")
	if res.Action != ActionError {
		t.Errorf("action = %s, want ERROR", res.Action)
	}
	if res.Data != nil {
		t.Error("error result must not carry data")
	}
}

func TestAssessRecoversFromPanic(t *testing.T) {
	e := NewEngine(nil, nil, nil)

	res := e.Assess("stablecoin")
	if res.Action != ActionError {
		t.Errorf("action = %s, want ERROR", res.Action)
	}
	if res.Text != errorText {
		t.Errorf("text = %q", res.Text)
	}
}

func TestROI(t *testing.T) {
	low, high, err := ROI("$100K-$500K", 99)
	if err != nil {
		t.Fatal(err)
	}
	if low != 1010 || high != 5051 {
		t.Errorf("ROI = %d-%d, want 1010-5051", low, high)
	}

	if _, _, err := ROI("$100K-$500K", 0); err == nil {
		t.Error("expected error for zero price")
	}
}

func TestGroupThousands(t *testing.T) {
	tests := map[int64]string{
		0:       "0",
		999:     "999",
		1010:    "1,010",
		5051:    "5,051",
		1234567: "1,234,567",
		-4200:   "-4,200",
	}
	for in, want := range tests {
		if got := groupThousands(in); got != want {
			t.Errorf("groupThousands(%d) = %q, want %q", in, got, want)
		}
	}
}
