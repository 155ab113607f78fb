// Package score implements the keyword scoring strategies used by the
// classifier and the risk engine.
//
// The classifier weighs each matched keyword by its length over six, clamped
// to [2, 6]; the risk engine sums raw keyword lengths. Fixtures for
// each are tuned against their own strategy.
package score

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Weight returns the contribution of one matched keyword
type Weight func(keyword string) float64

// CappedWeight is the classifier strategy: max(2, min(len/6, 6))
func CappedWeight(keyword string) float64 {
	n := float64(utf8.RuneCountInString(keyword))
	return math.Max(2, math.Min(n/6, 6))
}

// LengthWeight is the risk-engine strategy: the keyword length itself
func LengthWeight(keyword string) float64 {
	return float64(utf8.RuneCountInString(keyword))
}

// Scorer sums keyword weights over substring matches in a text
type Scorer struct {
	weight Weight
	trim   bool
}

// NewCappedScorer creates the classifier scorer. Keywords are lowercased
// and trimmed; empty keywords are skipped.
func NewCappedScorer() *Scorer {
	return &Scorer{weight: CappedWeight, trim: true}
}

// NewLengthScorer creates the risk-engine scorer. Keywords are lowercased
// only.
func NewLengthScorer() *Scorer {
	return &Scorer{weight: LengthWeight}
}

// Score returns the summed weight of every keyword found in text. The text
// is lowercased here; callers may pass it raw.
func (s *Scorer) Score(text string, keywords []string) float64 {
	return s.ScoreNormalized(strings.ToLower(text), keywords)
}

// ScoreNormalized is Score for text that is already lowercased
func (s *Scorer) ScoreNormalized(text string, keywords []string) float64 {
	total := 0.0
	for _, kw := range keywords {
		needle := strings.ToLower(kw)
		if s.trim {
			needle = strings.TrimSpace(needle)
			if needle == "" {
				continue
			}
		}
		if strings.Contains(text, needle) {
			total += s.weight(needle)
		}
	}
	return total
}
