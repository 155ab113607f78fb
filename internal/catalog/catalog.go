// Package catalog loads the static sales-agent knowledge base: FAQ topics,
// the agent character, the patent-risk graph and patent snippets.
//
// A Catalog is loaded once at startup and never mutated afterwards, so a
// single value can be shared by every request goroutine.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brolli/brolli/internal/model"
)

//go:embed data/*.yaml
var builtin embed.FS

// File names read from the embedded data set or from an override directory.
const (
	FAQFile       = "faq.yaml"
	CharacterFile = "character.yaml"
	VerticalsFile = "verticals.yaml"
	SnippetsFile  = "snippets.yaml"
)

// Catalog is the immutable knowledge base passed to every consumer
type Catalog struct {
	FAQ       model.FAQLibrary
	Character model.Character
	Graph     model.RiskGraph
	Snippets  model.SnippetLibrary
}

// Default loads the catalog compiled into the binary
func Default() (*Catalog, error) {
	sub, err := fs.Sub(builtin, "data")
	if err != nil {
		return nil, fmt.Errorf("open embedded catalog: %w", err)
	}
	return LoadFS(sub)
}

// Load returns the embedded catalog when dir is empty, otherwise the catalog
// stored in dir.
func Load(dir string) (*Catalog, error) {
	if dir == "" {
		return Default()
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS reads and validates the four catalog files from fsys
func LoadFS(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}

	files := []struct {
		name string
		dst  any
	}{
		{FAQFile, &c.FAQ},
		{CharacterFile, &c.Character},
		{VerticalsFile, &c.Graph},
		{SnippetsFile, &c.Snippets},
	}
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := yaml.Unmarshal(data, f.dst); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.name, err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Topics returns the FAQ topics in declaration order
func (c *Catalog) Topics() []model.Topic {
	return c.FAQ.Topics
}

// TopicByID returns the topic with the given id, falling back to the
// reserved unknown topic.
func (c *Catalog) TopicByID(id string) model.Topic {
	var unknown model.Topic
	for _, t := range c.FAQ.Topics {
		if t.ID == id {
			return t
		}
		if t.ID == model.UnknownTopicID {
			unknown = t
		}
	}
	return unknown
}

// AllowedTopicIDs lists every topic id in declaration order
func (c *Catalog) AllowedTopicIDs() []string {
	ids := make([]string, 0, len(c.FAQ.Topics))
	for _, t := range c.FAQ.Topics {
		ids = append(ids, t.ID)
	}
	return ids
}

// Verticals returns the risk verticals in declaration order
func (c *Catalog) Verticals() []model.Vertical {
	return c.Graph.Verticals
}

// Vertical looks up a vertical by key
func (c *Catalog) Vertical(key string) (model.Vertical, bool) {
	for _, v := range c.Graph.Verticals {
		if v.Key == key {
			return v, true
		}
	}
	return model.Vertical{}, false
}

// VerticalKeys lists every vertical key in declaration order
func (c *Catalog) VerticalKeys() []string {
	keys := make([]string, 0, len(c.Graph.Verticals))
	for _, v := range c.Graph.Verticals {
		keys = append(keys, v.Key)
	}
	return keys
}

// ListPrice is the licence price in USD
func (c *Catalog) ListPrice() float64 {
	return c.Character.Program.ListPriceUSD
}

var linkPattern = regexp.MustCompile(`(?i)(https?://|www\.|\b[a-z0-9-]+\.(com|io|org|net|ai|xyz|dev|app|co)\b)`)

// ContainsLink reports whether s holds a URL or a domain-like string
func ContainsLink(s string) bool {
	return linkPattern.MatchString(s)
}

// Validate checks the catalog invariants
func (c *Catalog) Validate() error {
	if err := validateTopics(c.FAQ.Topics); err != nil {
		return err
	}
	if err := validateVerticals(c.Graph.Verticals); err != nil {
		return err
	}
	if avg := c.Graph.SettlementData.AverageRange; avg != "" {
		if _, _, err := ParseSettlementRange(avg); err != nil {
			return fmt.Errorf("verticals: average_range: %w", err)
		}
	}
	if c.Character.Program.ListPriceUSD <= 0 {
		return fmt.Errorf("character: list_price_usd must be positive, got %v", c.Character.Program.ListPriceUSD)
	}
	for _, s := range c.Snippets.Snippets {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("snippets: snippet with empty id")
		}
	}
	return nil
}

func validateTopics(topics []model.Topic) error {
	seen := make(map[string]bool, len(topics))
	for _, t := range topics {
		if t.ID == "" {
			return fmt.Errorf("faq: topic with empty id")
		}
		if seen[t.ID] {
			return fmt.Errorf("faq: duplicate topic id %q", t.ID)
		}
		seen[t.ID] = true

		if ContainsLink(t.Answer) {
			return fmt.Errorf("faq: topic %q answer contains a link", t.ID)
		}
	}
	if !seen[model.UnknownTopicID] {
		return fmt.Errorf("faq: reserved topic %q is missing", model.UnknownTopicID)
	}
	return nil
}

func validateVerticals(verticals []model.Vertical) error {
	seen := make(map[string]bool, len(verticals))
	for _, v := range verticals {
		if v.Key == "" {
			return fmt.Errorf("verticals: vertical with empty key")
		}
		if seen[v.Key] {
			return fmt.Errorf("verticals: duplicate key %q", v.Key)
		}
		seen[v.Key] = true

		if len(v.Keywords) == 0 {
			return fmt.Errorf("verticals: %s has no keywords", v.Key)
		}
		for _, kw := range v.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("verticals: %s has an empty keyword", v.Key)
			}
		}
		if v.RiskScore < 0 || v.RiskScore > 10 {
			return fmt.Errorf("verticals: %s risk_score %v outside [0,10]", v.Key, v.RiskScore)
		}
		if !v.RiskTier.Valid() {
			return fmt.Errorf("verticals: %s has unknown risk_tier %q", v.Key, v.RiskTier)
		}
		if v.PatentCount < 0 {
			return fmt.Errorf("verticals: %s patent_count is negative", v.Key)
		}
		if _, _, err := ParseSettlementRange(v.SettlementRange); err != nil {
			return fmt.Errorf("verticals: %s: %w", v.Key, err)
		}
		if want := model.RecommendationForScore(v.RiskScore); v.Recommendation != want {
			return fmt.Errorf("verticals: %s recommendation %q does not match score %v (want %q)",
				v.Key, v.Recommendation, v.RiskScore, want)
		}
		for _, uc := range v.UseCases {
			if uc.Key == "" {
				return fmt.Errorf("verticals: %s has a use case with empty key", v.Key)
			}
		}
	}
	return nil
}
