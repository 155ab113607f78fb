// Package risk maps a project description onto a patent-risk vertical and
// produces the sales recommendation for it.
package risk

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/brolli/brolli/internal/catalog"
	"github.com/brolli/brolli/internal/metrics"
	"github.com/brolli/brolli/internal/model"
	"github.com/brolli/brolli/internal/score"
)

// Action names the outcome of an assessment
type Action string

const (
	ActionRequestMoreInfo    Action = "REQUEST_MORE_INFO"
	ActionRecommendImmediate Action = "RECOMMEND_LICENSE_IMMEDIATE"
	ActionRecommend          Action = "RECOMMEND_LICENSE"
	ActionConsider           Action = "CONSIDER_LICENSE"
	ActionLowRisk            Action = "LOW_RISK"
	ActionError              Action = "ERROR"
)

// Data is the structured payload shared by every tiered result
type Data struct {
	Vertical       string               `json:"vertical"`
	RiskScore      float64              `json:"riskScore"`
	Recommendation model.Recommendation `json:"recommendation"`
}

// Result is the agent-facing assessment
type Result struct {
	Text   string `json:"text"`
	Action Action `json:"action"`
	Data   *Data  `json:"data,omitempty"`
}

const moreInfoText = "I can help assess your patent risk! Tell me what you're building:\n" +
	"• Stablecoin/payment system?\n" +
	"• Lending protocol?\n" +
	"• DEX/AMM?\n" +
	"• NFT platform?\n" +
	"• RWA tokenization?\n" +
	"• Identity/privacy features?"

const errorText = "Error assessing patent risk. Let me help you manually - what type of project are you building?"

// Engine scores text against the catalog verticals
type Engine struct {
	catalog *catalog.Catalog
	scorer  *score.Scorer
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewEngine creates an engine. logger and m may be nil.
func NewEngine(cat *catalog.Catalog, logger *zap.Logger, m *metrics.Metrics) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		catalog: cat,
		scorer:  score.NewLengthScorer(),
		logger:  logger,
		metrics: m,
	}
}

// Match returns the vertical with the strictly highest summed keyword
// length. Ties keep the first-declared vertical.
func (e *Engine) Match(text string) (model.Vertical, bool) {
	lower := strings.ToLower(text)

	var (
		best      model.Vertical
		bestScore float64
		found     bool
	)
	for _, v := range e.catalog.Verticals() {
		s := e.scorer.ScoreNormalized(lower, v.Keywords)
		if s > 0 && s > bestScore {
			best, bestScore, found = v, s, true
		}
	}
	return best, found
}

// Assess runs the full assessment. It never fails: internal errors and
// panics become the ERROR action.
func (e *Engine) Assess(text string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("risk assessment panicked", zap.Any("panic", r))
			res = Result{Text: errorText, Action: ActionError}
		}
		e.metrics.RiskAssessed(string(res.Action))
	}()

	v, ok := e.Match(text)
	if !ok {
		return Result{Text: moreInfoText, Action: ActionRequestMoreInfo}
	}

	res, err := e.render(v)
	if err != nil {
		e.logger.Error("risk assessment failed", zap.String("vertical", v.Key), zap.Error(err))
		return Result{Text: errorText, Action: ActionError}
	}
	return res
}

func (e *Engine) render(v model.Vertical) (Result, error) {
	price := e.catalog.ListPrice()
	if price <= 0 {
		return Result{}, fmt.Errorf("list price %v is not positive", price)
	}
	roiLow, roiHigh, err := ROI(v.SettlementRange, price)
	if err != nil {
		return Result{}, err
	}

	data := &Data{Vertical: v.Key, RiskScore: v.RiskScore, Recommendation: v.Recommendation}
	scoreText := formatNumber(v.RiskScore)
	cost := formatUSD(price)

	var b strings.Builder
	switch {
	case v.RiskScore >= model.CriticalScore:
		fmt.Fprintf(&b, "⚠️ CRITICAL PATENT RISK DETECTED\n\n")
		fmt.Fprintf(&b, "Vertical: %s\n", v.Name)
		fmt.Fprintf(&b, "Risk Score: %s/10 (%s)\n", scoreText, v.RiskTier)
		fmt.Fprintf(&b, "Relevant Patents: %d\n", v.PatentCount)
		fmt.Fprintf(&b, "Settlement Range: %s\n\n", v.SettlementRange)
		fmt.Fprintf(&b, "💰 STRONG RECOMMENDATION: Purchase Brolli License\n")
		fmt.Fprintf(&b, "Cost: %s/year\n", cost)
		fmt.Fprintf(&b, "ROI: %dx-%dx vs. potential litigation\n\n", roiLow, roiHigh)
		b.WriteString("Notable patents in this space:\n")
		for i, p := range v.NotablePatents {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("• " + p)
		}
		b.WriteString("\n\nReady to purchase? I can walk you through the checkout.")
		return Result{Text: b.String(), Action: ActionRecommendImmediate, Data: data}, nil

	case v.RiskScore >= model.HighScore:
		fmt.Fprintf(&b, "⚠️ HIGH PATENT RISK\n\n")
		fmt.Fprintf(&b, "Vertical: %s\n", v.Name)
		fmt.Fprintf(&b, "Risk Score: %s/10 (%s)\n", scoreText, v.RiskTier)
		fmt.Fprintf(&b, "Relevant Patents: %d\n", v.PatentCount)
		fmt.Fprintf(&b, "Settlement Range: %s\n\n", v.SettlementRange)
		fmt.Fprintf(&b, "💡 RECOMMENDATION: Purchase Brolli License\n")
		fmt.Fprintf(&b, "Cost: %s/year | ROI: %dx-%dx\n\n", cost, roiLow, roiHigh)
		b.WriteString("This is a cost-effective way to reduce tail risk before fundraising or mainnet launch.")
		return Result{Text: b.String(), Action: ActionRecommend, Data: data}, nil

	case v.RiskScore >= model.ModerateScore:
		fmt.Fprintf(&b, "⚠️ MODERATE PATENT RISK\n\n")
		fmt.Fprintf(&b, "Vertical: %s\n", v.Name)
		fmt.Fprintf(&b, "Risk Score: %s/10 (%s)\n", scoreText, v.RiskTier)
		fmt.Fprintf(&b, "Settlement Range: %s\n\n", v.SettlementRange)
		fmt.Fprintf(&b, "Consider: Brolli license for added protection (%s/year)\n", cost)
		b.WriteString("Many teams buy it for investor diligence even at moderate risk levels.")
		return Result{Text: b.String(), Action: ActionConsider, Data: data}, nil

	default:
		fmt.Fprintf(&b, "✅ LOW PATENT RISK\n\n")
		fmt.Fprintf(&b, "Vertical: %s\n", v.Name)
		fmt.Fprintf(&b, "Risk Score: %s/10 (%s)\n\n", scoreText, v.RiskTier)
		b.WriteString("Your project has minimal patent exposure in this area. License is optional.")
		return Result{Text: b.String(), Action: ActionLowRisk, Data: data}, nil
	}
}

// ROI divides both settlement bounds by the licence price, rounding half
// away from zero.
func ROI(settlementRange string, price float64) (low, high int64, err error) {
	if price <= 0 {
		return 0, 0, fmt.Errorf("price %v is not positive", price)
	}
	lo, hi, err := catalog.ParseSettlementRange(settlementRange)
	if err != nil {
		return 0, 0, err
	}
	return int64(math.Round(lo / price)), int64(math.Round(hi / price)), nil
}
