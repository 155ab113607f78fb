package agent

import (
	"context"

	"github.com/brolli/brolli/internal/catalog"
	"github.com/brolli/brolli/internal/classify"
	"github.com/brolli/brolli/internal/metrics"
	"github.com/brolli/brolli/internal/risk"
)

// Reply sources
const (
	SourceAction = "action"
	SourceFAQ    = "faq"
)

// Reply is a rule-based answer to one user message
type Reply struct {
	Source  string     `json:"source"`
	Action  string     `json:"action,omitempty"`
	TopicID string     `json:"topicId,omitempty"`
	Text    string     `json:"text"`
	Data    *risk.Data `json:"data,omitempty"`
}

// Responder answers messages without an LLM: the first action whose
// Validate passes handles the turn, otherwise the FAQ classifier routes it.
type Responder struct {
	plugin     *Plugin
	catalog    *catalog.Catalog
	classifier *classify.Classifier
	metrics    *metrics.Metrics
}

func NewResponder(cat *catalog.Catalog, plugin *Plugin, m *metrics.Metrics) *Responder {
	return &Responder{
		plugin:     plugin,
		catalog:    cat,
		classifier: classify.New(classify.FromTopics(cat.Topics())),
		metrics:    m,
	}
}

// Classify routes text to an FAQ topic
func (r *Responder) Classify(text string) classify.Result {
	res := r.classifier.Classify(text)
	r.metrics.Classified(res.ID)
	return res
}

func (r *Responder) Respond(ctx context.Context, text string) Reply {
	for _, a := range r.plugin.Actions {
		if a.Validate == nil || !a.Validate(text) {
			continue
		}
		res := a.Handle(ctx, text)
		return Reply{Source: SourceAction, Action: string(res.Action), Text: res.Text, Data: res.Data}
	}

	topic := r.catalog.TopicByID(r.Classify(text).ID)
	return Reply{Source: SourceFAQ, TopicID: topic.ID, Text: topic.Answer}
}
