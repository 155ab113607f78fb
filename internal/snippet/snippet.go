// Package snippet selects the patent excerpts most relevant to a message.
package snippet

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/brolli/brolli/internal/model"
)

const (
	minTokenLen = 4
	maxTokens   = 64
)

// FallbackIDs are cited when nothing in the message matches: the abstract
// and the first claim.
var FallbackIDs = []string{"abs-001", "abs-002", "abs-003", "claim1-001"}

var separators = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize lowercases text and keeps the first 64 alphanumeric tokens of
// at least four characters.
func Tokenize(text string) []string {
	var tokens []string
	for _, t := range separators.Split(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(t) < minTokenLen {
			continue
		}
		tokens = append(tokens, t)
		if len(tokens) == maxTokens {
			break
		}
	}
	return tokens
}

// Score sums min(6, max(1, len/3)) for every token found in text
func Score(tokens []string, text string) int {
	hay := strings.ToLower(text)
	total := 0
	for _, t := range tokens {
		if strings.Contains(hay, t) {
			total += min(6, max(1, utf8.RuneCountInString(t)/3))
		}
	}
	return total
}

// Scored pairs a snippet with its relevance
type Scored struct {
	model.Snippet
	Score int `json:"score"`
}

// Select returns up to limit snippets with a positive score, best first.
// When none match, the fallback snippets are returned in library order.
func Select(lib model.SnippetLibrary, message string, limit int) []Scored {
	if limit <= 0 {
		return nil
	}
	tokens := Tokenize(message)

	scored := make([]Scored, len(lib.Snippets))
	for i, s := range lib.Snippets {
		scored[i] = Scored{Snippet: s, Score: Score(tokens, s.Text)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	var picked []Scored
	for _, s := range scored {
		if s.Score <= 0 || len(picked) == limit {
			break
		}
		picked = append(picked, s)
	}
	if len(picked) > 0 {
		return picked
	}

	fallback := make(map[string]bool, len(FallbackIDs))
	for _, id := range FallbackIDs {
		fallback[id] = true
	}
	for _, s := range scored {
		if fallback[s.ID] {
			picked = append(picked, s)
			if len(picked) == limit {
				break
			}
		}
	}
	return picked
}

// Snippets strips the scores
func Snippets(scored []Scored) []model.Snippet {
	out := make([]model.Snippet, len(scored))
	for i, s := range scored {
		out[i] = s.Snippet
	}
	return out
}
