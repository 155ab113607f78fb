// Package agent wires the classifier and the risk engine into the sales
// agent's actions and rule-based replies.
package agent

import (
	"context"

	"github.com/brolli/brolli/internal/catalog"
	"github.com/brolli/brolli/internal/classify"
	"github.com/brolli/brolli/internal/risk"
)

// CheckPatentCoverageName is the action name published to agent runtimes
const CheckPatentCoverageName = "CHECK_PATENT_COVERAGE"

// ExampleTurn is one message of an action usage example
type ExampleTurn struct {
	User   string `json:"user"`
	Text   string `json:"text"`
	Action string `json:"action,omitempty"`
}

// Action is a capability the agent can run on a user message
type Action struct {
	Name        string
	Similes     []string
	Description string
	Validate    func(text string) bool
	Handle      func(ctx context.Context, text string) risk.Result
	Examples    [][]ExampleTurn
}

// Plugin groups the actions offered by Brolli
type Plugin struct {
	Name        string
	Description string
	Actions     []Action
}

// CheckPatentCoverage builds the risk-assessment action
func CheckPatentCoverage(trigger *classify.Trigger, engine *risk.Engine) Action {
	return Action{
		Name:        CheckPatentCoverageName,
		Similes:     []string{"ASSESS_PATENT_RISK", "CHECK_IP_COVERAGE", "EVALUATE_PATENT_RISK"},
		Description: "Assess blockchain patent risk using Brolli's knowledge base",
		Validate:    trigger.Match,
		Handle: func(_ context.Context, text string) risk.Result {
			return engine.Assess(text)
		},
		Examples: [][]ExampleTurn{{
			{User: "{{user1}}", Text: "We're building a stablecoin payment platform"},
			{User: "{{agent}}", Text: "Let me check the patent risk for stablecoin platforms...", Action: CheckPatentCoverageName},
		}},
	}
}

// NewPlugin creates the Brolli plugin over a loaded catalog
func NewPlugin(cat *catalog.Catalog, engine *risk.Engine) *Plugin {
	trigger := classify.NewTrigger(cat.Verticals())
	return &Plugin{
		Name:        "brolli",
		Description: "Blockchain patent risk assessment and licensing for Brolli",
		Actions:     []Action{CheckPatentCoverage(trigger, engine)},
	}
}

// Action returns the named action
func (p *Plugin) Action(name string) (Action, bool) {
	for _, a := range p.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}
