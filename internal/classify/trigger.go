package classify

import (
	"strings"

	"github.com/brolli/brolli/internal/model"
)

// TriggerWords fire the risk action even without a vertical keyword
var TriggerWords = []string{
	"building", "deploy", "launch", "mainnet", "project",
	"risk", "patent", "ip coverage", "litigation",
}

// Trigger decides whether a message should run the risk assessment
type Trigger struct {
	needles []string
}

// NewTrigger creates a trigger over every vertical keyword plus TriggerWords
func NewTrigger(verticals []model.Vertical) *Trigger {
	var needles []string
	for _, v := range verticals {
		for _, kw := range v.Keywords {
			needles = append(needles, strings.ToLower(kw))
		}
	}
	needles = append(needles, TriggerWords...)
	return &Trigger{needles: needles}
}

// Match reports whether any needle occurs in text
func (t *Trigger) Match(text string) bool {
	lower := strings.ToLower(text)
	for _, n := range t.needles {
		if n != "" && strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
