package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/brolli/brolli/internal/catalog"
	"github.com/brolli/brolli/internal/model"
	"github.com/brolli/brolli/internal/risk"
)

func setup(t *testing.T) (*catalog.Catalog, *Plugin) {
	t.Helper()
	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c, NewPlugin(c, risk.NewEngine(c, nil, nil))
}

func TestPluginExposesCheckPatentCoverage(t *testing.T) {
	_, p := setup(t)

	if p.Name != "brolli" {
		t.Errorf("Name = %q", p.Name)
	}
	a, ok := p.Action(CheckPatentCoverageName)
	if !ok {
		t.Fatal("CHECK_PATENT_COVERAGE missing")
	}
	if len(a.Similes) != 3 || len(a.Examples) == 0 {
		t.Errorf("action metadata incomplete: %+v", a)
	}
	if _, ok := p.Action("NOPE"); ok {
		t.Error("unexpected action")
	}
}

func TestCheckPatentCoverageValidateAndHandle(t *testing.T) {
	_, p := setup(t)
	a, _ := p.Action(CheckPatentCoverageName)

	tests := []struct {
		text     string
		vertical string
		riskVal  float64
	}{
		{"We're building a stablecoin for remittances", "payments", 8.5},
		{"Our DeFi lending protocol is launching soon", "lending", 7.8},
		{"We're tokenizing real estate", "rwa", 8.2},
		{"Building an NFT marketplace", "nft", 5.1},
		{"Creating a DEX with an AMM", "dex", 6.2},
		{"We have zkProofs for privacy", "identity", 8.1},
		{"We're building a healthcare data platform for patient records", "healthcare", 8.7},
	}

	for _, tt := range tests {
		if !a.Validate(tt.text) {
			t.Errorf("Validate(%q) = false", tt.text)
			continue
		}
		res := a.Handle(context.Background(), tt.text)
		if res.Data == nil || res.Data.Vertical != tt.vertical || res.Data.RiskScore != tt.riskVal {
			t.Errorf("Handle(%q) = %+v, want %s/%v", tt.text, res.Data, tt.vertical, tt.riskVal)
		}
	}
}

func TestResponderRoutesActionFirst(t *testing.T) {
	c, p := setup(t)
	r := NewResponder(c, p, nil)

	reply := r.Respond(context.Background(), "We're building a stablecoin for remittances")
	if reply.Source != SourceAction || reply.Action != string(risk.ActionRecommendImmediate) {
		t.Errorf("reply = %+v", reply)
	}
	if reply.Data == nil || reply.Data.Vertical != "payments" {
		t.Errorf("data = %+v", reply.Data)
	}
}

func TestResponderFallsBackToFAQ(t *testing.T) {
	c, p := setup(t)
	r := NewResponder(c, p, nil)

	reply := r.Respond(context.Background(), "How much does it cost?")
	if reply.Source != SourceFAQ || reply.TopicID != "pricing" {
		t.Fatalf("reply = %+v", reply)
	}
	if !strings.Contains(reply.Text, "$99") {
		t.Errorf("pricing answer = %q", reply.Text)
	}

	reply = r.Respond(context.Background(), "good morning")
	if reply.TopicID != model.UnknownTopicID || reply.Text == "" {
		t.Errorf("unknown reply = %+v", reply)
	}
}

func TestResponderTriggerWordWithoutVertical(t *testing.T) {
	c, p := setup(t)
	r := NewResponder(c, p, nil)

	reply := r.Respond(context.Background(), "Is my project at risk?")
	if reply.Source != SourceAction || reply.Action != string(risk.ActionRequestMoreInfo) {
		t.Errorf("reply = %+v", reply)
	}
}
