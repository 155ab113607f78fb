// Package classify routes free text to FAQ topics or risk verticals by
// keyword substring matching.
package classify

import (
	"strings"

	"github.com/brolli/brolli/internal/model"
	"github.com/brolli/brolli/internal/score"
)

// MinScore is the minimal signal required to accept a match
const MinScore = 2.0

// Entry is one routable candidate
type Entry struct {
	ID       string
	Keywords []string
}

// Result is the outcome of a classification
type Result struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Matched reports whether the result is a real match rather than the fallback
func (r Result) Matched() bool {
	return r.ID != model.UnknownTopicID
}

// Classifier picks the best-scoring entry for a text
type Classifier struct {
	entries []Entry
	scorer  *score.Scorer
}

// New creates a classifier over entries. Declaration order breaks ties.
func New(entries []Entry) *Classifier {
	return &Classifier{
		entries: entries,
		scorer:  score.NewCappedScorer(),
	}
}

// FromTopics builds classifier entries from FAQ topics
func FromTopics(topics []model.Topic) []Entry {
	entries := make([]Entry, 0, len(topics))
	for _, t := range topics {
		entries = append(entries, Entry{ID: t.ID, Keywords: t.Keywords})
	}
	return entries
}

// FromVerticals builds classifier entries from risk verticals
func FromVerticals(verticals []model.Vertical) []Entry {
	entries := make([]Entry, 0, len(verticals))
	for _, v := range verticals {
		entries = append(entries, Entry{ID: v.Key, Keywords: v.Keywords})
	}
	return entries
}

// Classify returns the strictly highest scoring entry, or the unknown
// sentinel when no entry reaches MinScore.
func (c *Classifier) Classify(text string) Result {
	lower := strings.ToLower(text)
	best := Result{ID: model.UnknownTopicID}

	for _, e := range c.entries {
		if len(e.Keywords) == 0 {
			continue
		}
		s := c.scorer.ScoreNormalized(lower, e.Keywords)
		if s > best.Score {
			best = Result{ID: e.ID, Score: s}
		}
	}

	if best.Score < MinScore {
		return Result{ID: model.UnknownTopicID, Score: best.Score}
	}
	return best
}
