package risk

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/brolli/brolli/internal/apierr"
	"github.com/brolli/brolli/internal/model"
)

// GraphAction is the purchase recommendation of a use-case assessment
type GraphAction string

const (
	GraphCriticalPurchase    GraphAction = "CRITICAL_PURCHASE"
	GraphPurchaseRecommended GraphAction = "PURCHASE_RECOMMENDED"
	GraphPurchaseAdvised     GraphAction = "PURCHASE_ADVISED"
	GraphConsider            GraphAction = "CONSIDER"
)

// Request asks for an assessment of specific use cases within a vertical
type Request struct {
	Vertical    string   `json:"vertical"`
	UseCases    []string `json:"useCases"`
	Description string   `json:"description,omitempty"`
}

// GraphResponse is the risk-graph assessment
type GraphResponse struct {
	Vertical        string          `json:"vertical"`
	RiskTier        model.RiskTier  `json:"riskTier"`
	RiskScore       float64         `json:"riskScore"`
	TotalPatents    int             `json:"totalPatents"`
	MatchedUseCases []model.UseCase `json:"matchedUseCases"`
	Recommendation  GraphAction     `json:"recommendation"`
	Justification   string          `json:"justification"`
	SettlementRange string          `json:"settlementRange"`
	LicensePrice    string          `json:"licensePrice"`
	ROI             string          `json:"roi"`
	Disclaimer      string          `json:"disclaimer"`
}

// VerticalSummary is one entry of the public vertical listing
type VerticalSummary struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	RiskTier    model.RiskTier `json:"riskTier"`
	PatentCount int            `json:"patentCount"`
	Description string         `json:"description"`
	UseCases    []string       `json:"useCases"`
}

// Listing describes every vertical available to AssessGraph
type Listing struct {
	Version            string            `json:"version"`
	LastUpdated        string            `json:"lastUpdated"`
	AvailableVerticals []VerticalSummary `json:"availableVerticals"`
	Disclaimer         string            `json:"disclaimer"`
}

// GraphRecommendation maps an averaged use-case score onto a recommendation
func GraphRecommendation(avg float64) GraphAction {
	switch {
	case avg >= 9.0:
		return GraphCriticalPurchase
	case avg >= 7.0:
		return GraphPurchaseRecommended
	case avg >= 5.0:
		return GraphPurchaseAdvised
	default:
		return GraphConsider
	}
}

// AssessGraph averages the scores of the requested use cases. Unknown use
// case keys are ignored; at least one must match.
func (e *Engine) AssessGraph(req Request) (*GraphResponse, error) {
	v, ok := e.catalog.Vertical(req.Vertical)
	if !ok {
		return nil, apierr.Validation("invalid_vertical",
			fmt.Errorf("invalid vertical, available: %s", strings.Join(e.catalog.VerticalKeys(), ", ")))
	}

	var matched []model.UseCase
	for _, key := range req.UseCases {
		for _, uc := range v.UseCases {
			if uc.Key == key {
				matched = append(matched, uc)
				break
			}
		}
	}
	if len(matched) == 0 {
		return nil, apierr.Validation("no_matching_use_cases",
			fmt.Errorf("no matching use cases found, check available use cases for this vertical"))
	}

	sum := 0.0
	names := make([]string, 0, len(matched))
	for _, uc := range matched {
		sum += uc.RiskScore
		names = append(names, uc.Name)
	}
	avg := sum / float64(len(matched))

	price := e.catalog.ListPrice()
	avgRange := e.catalog.Graph.SettlementData.AverageRange
	roiLow, roiHigh, err := ROI(avgRange, price)
	if err != nil {
		return nil, apierr.Config("risk_graph_invalid", err)
	}

	licensePrice := formatUSD(price) + "/year"
	return &GraphResponse{
		Vertical:        v.Name,
		RiskTier:        v.RiskTier,
		RiskScore:       roundScore(avg),
		TotalPatents:    v.PatentCount,
		MatchedUseCases: matched,
		Recommendation:  GraphRecommendation(avg),
		Justification: fmt.Sprintf("Your use case (%s) falls within %s vertical with %d active patents. Risk tier: %s.",
			strings.Join(names, ", "), v.Name, v.PatentCount, v.RiskTier),
		SettlementRange: avgRange,
		LicensePrice:    licensePrice,
		ROI: fmt.Sprintf("Potential savings: %s vs. %s license = %sx-%sx ROI",
			avgRange, formatUSD(price), groupThousands(roiLow), groupThousands(roiHigh)),
		Disclaimer: e.catalog.Graph.Disclaimer,
	}, nil
}

// Verticals lists the catalog verticals with their use-case keys
func (e *Engine) Verticals() Listing {
	g := e.catalog.Graph
	out := Listing{
		Version:            g.Version,
		LastUpdated:        g.LastUpdated,
		AvailableVerticals: make([]VerticalSummary, 0, len(g.Verticals)),
		Disclaimer:         g.Disclaimer,
	}
	for _, v := range g.Verticals {
		keys := make([]string, 0, len(v.UseCases))
		for _, uc := range v.UseCases {
			keys = append(keys, uc.Key)
		}
		out.AvailableVerticals = append(out.AvailableVerticals, VerticalSummary{
			ID:          v.Key,
			Name:        v.Name,
			RiskTier:    v.RiskTier,
			PatentCount: v.PatentCount,
			Description: v.Description,
			UseCases:    keys,
		})
	}
	return out
}

// roundScore rounds to one decimal from the exact binary value with ties
// away from zero, so 8.9499... shows as 8.9 and 5.25 as 5.3.
func roundScore(f float64) float64 {
	x := new(big.Float).SetPrec(128).SetFloat64(math.Abs(f))
	x.Mul(x, big.NewFloat(10))
	x.Add(x, big.NewFloat(0.5))
	n, _ := x.Int64()
	return math.Copysign(float64(n)/10, f)
}
