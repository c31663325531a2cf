package usecase

import (
	"fmt"
	"math"
	"strings"

	"StockCast/internal/domain/models"
)

// strategyParams are the per-strategy sizing constants: how much of the
// budget may be committed, how far the stop and target sit from entry,
// and the largest fraction of the budget a stop-out may cost.
type strategyParams struct {
	label          string
	description    string
	utilizationCap float64
	stopLossPct    float64
	targetPct      float64
	maxRiskPct     float64
	riskReward     string
	riskLevel      string
}

var strategyTable = map[models.PortfolioType]strategyParams{
	models.PortfolioAggressive: {
		label:          "AGGRESSIVE (Intraday)",
		description:    "Quick trades with tight risk management",
		utilizationCap: 0.90,
		stopLossPct:    0.015,
		targetPct:      0.04,
		maxRiskPct:     0.03,
		riskReward:     "1:2.5",
		riskLevel:      "HIGH",
	},
	models.PortfolioBalanced: {
		label:          "BALANCED (Swing)",
		description:    "Medium-term position with balanced risk",
		utilizationCap: 0.80,
		stopLossPct:    0.05,
		targetPct:      0.10,
		maxRiskPct:     0.05,
		riskReward:     "1:2",
		riskLevel:      "MEDIUM",
	},
	models.PortfolioLongTerm: {
		label:          "LONG-TERM (Investment)",
		description:    "Buy and hold for sustained growth",
		utilizationCap: 0.85,
		stopLossPct:    0.08,
		targetPct:      0.20,
		maxRiskPct:     0.07,
		riskReward:     "1:2.5",
		riskLevel:      "MEDIUM",
	},
}

// Strategy sizes budget-constrained positions. Pure computation: every
// plan is a function of its inputs only.
type Strategy struct{}

func NewStrategy() *Strategy { return &Strategy{} }

// CurrencyFor selects the trading currency from the symbol suffix. NSE
// and BSE listings trade in rupees; everything else defaults to dollars.
func CurrencyFor(symbol string) models.Currency {
	if strings.HasSuffix(symbol, ".NS") || strings.HasSuffix(symbol, ".BO") {
		return models.Currency{Symbol: "₹", Code: "INR", Name: "Indian Rupee"}
	}
	return models.Currency{Symbol: "$", Code: "USD", Name: "US Dollar"}
}

// CalculatePosition builds a trading plan for one (symbol, strategy,
// budget) request. Share count is the affordability cap (utilization x
// budget / price) unless the risk cap (maxRiskPct x budget / risk per
// share) is strictly tighter; when risk allows, the full utilization
// budget is spent.
func (s *Strategy) CalculatePosition(
	symbol string,
	strategyType models.PortfolioType,
	currentPrice, predictedPrice, budget, rsi float64,
	technicalSignal models.SignalAction,
) *models.TradingPlan {
	params, ok := strategyTable[strategyType]
	if !ok {
		params = strategyTable[models.PortfolioBalanced]
	}

	maxPositionSize := budget * params.utilizationCap
	stopLossPrice := currentPrice * (1 - params.stopLossPct)
	targetPrice := currentPrice * (1 + params.targetPct)
	riskPerShare := currentPrice - stopLossPrice

	maxSharesAffordable := 0
	if currentPrice > 0 {
		maxSharesAffordable = int(maxPositionSize / currentPrice)
	}
	maxSharesByRisk := maxSharesAffordable
	if riskPerShare > 0 {
		maxSharesByRisk = int(budget * params.maxRiskPct / riskPerShare)
	}

	recommendedShares := maxSharesAffordable
	if maxSharesByRisk < maxSharesAffordable {
		recommendedShares = maxSharesByRisk
	}
	positionValue := float64(recommendedShares) * currentPrice

	capitalUsedPct := 0.0
	if budget > 0 {
		capitalUsedPct = round1(positionValue / budget * 100)
	}

	plan := &models.TradingPlan{
		Strategy:          params.label,
		Description:       params.description,
		BudgetRequired:    round2(positionValue),
		RecommendedShares: recommendedShares,
		EntryPrice:        round2(currentPrice),
		StopLoss:          round2(stopLossPrice),
		TargetPrice:       round2(targetPrice),
		RiskPerShare:      round2(riskPerShare),
		PotentialLoss:     round2(float64(recommendedShares) * riskPerShare),
		PotentialProfit:   round2(float64(recommendedShares) * (targetPrice - currentPrice)),
		RiskRewardRatio:   params.riskReward,
		RiskLevel:         params.riskLevel,
		CapitalUsedPct:    capitalUsedPct,
		Currency:          CurrencyFor(symbol),
	}

	switch strategyType {
	case models.PortfolioAggressive:
		s.aggressiveTiming(plan, rsi, targetPrice, technicalSignal)
	case models.PortfolioLongTerm:
		s.longTermTiming(plan, rsi, targetPrice, technicalSignal)
	default:
		s.balancedTiming(plan, rsi, targetPrice, technicalSignal)
	}
	return plan
}

func (s *Strategy) aggressiveTiming(plan *models.TradingPlan, rsi, targetPrice float64, signal models.SignalAction) {
	switch {
	case rsi < 35:
		plan.EntryTiming = "BUY NOW - Oversold"
		plan.EntryConfidence = models.ConfidenceHigh
	case rsi < 45:
		plan.EntryTiming = "BUY TODAY - Good entry"
		plan.EntryConfidence = models.ConfidenceMedium
	case rsi > 65:
		plan.EntryTiming = "WAIT - Overbought"
		plan.EntryConfidence = models.ConfidenceLow
	default:
		plan.EntryTiming = "MONITOR - Neutral"
		plan.EntryConfidence = models.ConfidenceMedium
	}

	if signal == models.SignalBuy {
		plan.ExitTiming = fmt.Sprintf("TARGET: %.2f (4%% gain) or END OF DAY", targetPrice)
		plan.HoldingPeriod = "Intraday to 1-2 days"
	} else {
		plan.ExitTiming = "DO NOT ENTER - Wait for better signal"
		plan.HoldingPeriod = "N/A"
	}
}

func (s *Strategy) balancedTiming(plan *models.TradingPlan, rsi, targetPrice float64, signal models.SignalAction) {
	switch {
	case rsi < 40:
		plan.EntryTiming = "BUY - Good entry point"
		plan.EntryConfidence = models.ConfidenceHigh
	case rsi < 55:
		plan.EntryTiming = "CONSIDER BUYING"
		plan.EntryConfidence = models.ConfidenceMedium
	default:
		plan.EntryTiming = "WAIT - Monitor for dip"
		plan.EntryConfidence = models.ConfidenceLow
	}

	if signal == models.SignalBuy {
		plan.ExitTiming = fmt.Sprintf("TARGET: %.2f (10%% gain) in 2-4 weeks", targetPrice)
		plan.HoldingPeriod = "1-4 weeks"
	} else {
		plan.ExitTiming = "MONITOR - Wait for clearer signal"
		plan.HoldingPeriod = "2-4 weeks"
	}
}

func (s *Strategy) longTermTiming(plan *models.TradingPlan, rsi, targetPrice float64, signal models.SignalAction) {
	switch {
	case rsi < 40:
		plan.EntryTiming = "STRONG BUY - Accumulate position"
		plan.EntryConfidence = models.ConfidenceVeryHigh
	case rsi < 50:
		plan.EntryTiming = "BUY - Good long-term entry"
		plan.EntryConfidence = models.ConfidenceHigh
	case rsi < 60:
		plan.EntryTiming = "CONSIDER BUYING - Reasonable entry"
		plan.EntryConfidence = models.ConfidenceMedium
	default:
		plan.EntryTiming = "WAIT FOR PULLBACK - Currently expensive"
		plan.EntryConfidence = models.ConfidenceLow
	}

	switch signal {
	case models.SignalBuy:
		plan.ExitTiming = fmt.Sprintf("TARGET: %.2f (20%% gain) or HOLD 3-6 months", targetPrice)
		plan.HoldingPeriod = "3-6 months minimum"
	case models.SignalHold:
		plan.ExitTiming = "HOLD for long-term growth, review quarterly"
		plan.HoldingPeriod = "6-12 months"
	default:
		plan.ExitTiming = "AVOID - Wait for trend reversal"
		plan.HoldingPeriod = "N/A"
	}

	plan.StrategyNotes = []string{
		"This is a long-term investment position",
		"Don't panic on daily fluctuations",
		"Review position quarterly",
		"Consider averaging down on dips",
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
