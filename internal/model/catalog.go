package model

// Topic is an approved FAQ entry the sales agent may answer from
type Topic struct {
	ID       string   `yaml:"id" json:"id"`
	Title    string   `yaml:"title" json:"title"`
	Keywords []string `yaml:"keywords" json:"keywords"`
	Answer   string   `yaml:"answer" json:"answer"`
}

// UnknownTopicID is the reserved fallback topic
const UnknownTopicID = "unknown"

// FAQLibrary is the complete set of routable topics
type FAQLibrary struct {
	Version  int         `yaml:"version" json:"version"`
	Defaults FAQDefaults `yaml:"defaults" json:"defaults"`
	Topics   []Topic     `yaml:"topics" json:"topics"`
}

// FAQDefaults holds the library-wide answer policies
type FAQDefaults struct {
	Disclaimer    string `yaml:"disclaimer" json:"disclaimer"`
	NoLinksPolicy string `yaml:"no_links_policy" json:"noLinksPolicy"`
}

// RiskTier is the coarse patent-risk band of a vertical
type RiskTier string

const (
	TierLow        RiskTier = "LOW"
	TierMedium     RiskTier = "MEDIUM"
	TierMediumHigh RiskTier = "MEDIUM_HIGH"
	TierHigh       RiskTier = "HIGH"
	TierCritical   RiskTier = "CRITICAL"
)

// Valid reports whether t is one of the known tiers
func (t RiskTier) Valid() bool {
	switch t {
	case TierLow, TierMedium, TierMediumHigh, TierHigh, TierCritical:
		return true
	}
	return false
}

// Recommendation is the purchase recommendation attached to a vertical
type Recommendation string

const (
	RecommendImmediate   Recommendation = "immediate"
	RecommendRecommended Recommendation = "recommended"
	RecommendConsider    Recommendation = "consider"
	RecommendOptional    Recommendation = "optional"
)

// Score thresholds shared by the catalog validator and the risk engine.
const (
	CriticalScore = 8.0
	HighScore     = 7.0
	ModerateScore = 5.0
)

// RecommendationForScore maps a risk score onto its recommendation band
func RecommendationForScore(score float64) Recommendation {
	switch {
	case score >= CriticalScore:
		return RecommendImmediate
	case score >= HighScore:
		return RecommendRecommended
	case score >= ModerateScore:
		return RecommendConsider
	default:
		return RecommendOptional
	}
}

// Vertical is a market category with a fixed patent-risk profile
type Vertical struct {
	Key             string         `yaml:"key" json:"key"`
	Name            string         `yaml:"name" json:"name"`
	Description     string         `yaml:"description" json:"description,omitempty"`
	Keywords        []string       `yaml:"keywords" json:"keywords"`
	RiskScore       float64        `yaml:"risk_score" json:"riskScore"`
	RiskTier        RiskTier       `yaml:"risk_tier" json:"riskTier"`
	PatentCount     int            `yaml:"patent_count" json:"patentCount"`
	SettlementRange string         `yaml:"settlement_range" json:"settlementRange"`
	NotablePatents  []string       `yaml:"notable_patents" json:"notablePatents"`
	Recommendation  Recommendation `yaml:"recommendation" json:"recommendation"`
	UseCases        []UseCase      `yaml:"use_cases" json:"useCases,omitempty"`
}

// UseCase is a named application inside a vertical with its own score
type UseCase struct {
	Key         string  `yaml:"key" json:"-"`
	Name        string  `yaml:"name" json:"name"`
	RiskScore   float64 `yaml:"risk_score" json:"riskScore"`
	Description string  `yaml:"description" json:"description,omitempty"`
}

// RiskGraph is the published patent-risk knowledge base
type RiskGraph struct {
	Version        string         `yaml:"version" json:"version"`
	LastUpdated    string         `yaml:"last_updated" json:"lastUpdated"`
	SettlementData SettlementData `yaml:"settlement_data" json:"settlementData"`
	Disclaimer     string         `yaml:"disclaimer" json:"disclaimer"`
	Verticals      []Vertical     `yaml:"verticals" json:"verticals"`
}

// SettlementData summarises historical settlement outcomes
type SettlementData struct {
	AverageRange string `yaml:"average_range" json:"averageRange"`
}

// Program describes the licence sale terms
type Program struct {
	PromotionName string  `yaml:"promotion_name" json:"promotionName"`
	ListPriceUSD  float64 `yaml:"list_price_usd" json:"listPriceUsd"`
	MaxLicenses   int     `yaml:"max_licenses" json:"maxLicenses"`
	OnePerWallet  bool    `yaml:"one_per_wallet" json:"onePerWallet"`
	TeamPurchases string  `yaml:"team_purchases" json:"teamPurchases"`
	Timing        string  `yaml:"timing" json:"timing"`
}

// Positioning holds optional talking points grouped by theme
type Positioning struct {
	DirtyIP            []string `yaml:"dirty_ip"`
	UmbrellaProtection []string `yaml:"umbrella_protection"`
	PatentStrategy     []string `yaml:"patent_strategy"`
	CautionaryExamples []string `yaml:"cautionary_examples"`
}

// CanonicalLinks are reference URLs the LLM may cite
type CanonicalLinks struct {
	PatentStrategy            string `yaml:"patent_strategy"`
	BusinessProcessPatents    string `yaml:"business_process_patents"`
	BlockchainPatentLandscape string `yaml:"blockchain_patent_landscape"`
	DirtyIP                   string `yaml:"dirty_ip"`
	DeriskingPlaybook         string `yaml:"derisking_playbook"`
	IPFAQ                     string `yaml:"ip_faq"`
}

// FAQItem is a question/answer pair embedded in the system prompt
type FAQItem struct {
	Q string `yaml:"q"`
	A string `yaml:"a"`
}

// Style constrains the agent's voice
type Style struct {
	Tone []string `yaml:"tone"`
	Do   []string `yaml:"do"`
	Dont []string `yaml:"dont"`
}

// Character configures the sales agent persona
type Character struct {
	Name           string          `yaml:"name"`
	ProductName    string          `yaml:"product_name"`
	Tagline        string          `yaml:"tagline"`
	ElevatorPitch  []string        `yaml:"elevator_pitch"`
	Positioning    *Positioning    `yaml:"positioning"`
	CanonicalLinks *CanonicalLinks `yaml:"canonical_links"`
	Program        Program         `yaml:"program"`
	AcceptsPayment []string        `yaml:"accepts_payments"`
	KeyFacts       []string        `yaml:"key_facts"`
	WhatItIs       []string        `yaml:"what_it_is"`
	WhatItIsNot    []string        `yaml:"what_it_is_not"`
	FAQ            []FAQItem       `yaml:"faq"`
	Disclaimers    []string        `yaml:"disclaimers"`
	Style          Style           `yaml:"style"`
	CTA            []string        `yaml:"cta"`
}

// Snippet is a citable excerpt of the licensed patent
type Snippet struct {
	ID            string `yaml:"snippet_id" json:"snippetId"`
	PageOrSection string `yaml:"page_or_section" json:"pageOrSection"`
	Text          string `yaml:"text" json:"text"`
}

// SnippetLibrary is the full set of excerpts for one patent
type SnippetLibrary struct {
	PatentID string    `yaml:"patent_id" json:"patentId"`
	Snippets []Snippet `yaml:"snippets" json:"snippets"`
}
