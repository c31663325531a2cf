package usecase

import (
	"context"
	"fmt"
	"math"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	domservice "StockCast/internal/domain/service"
	applogger "StockCast/pkg/logger"
)

// Score weights and bands for the blended recommendation.
const (
	technicalWeight = 0.6
	sentimentWeight = 0.4
)

var signalBaseScore = map[models.SignalAction]float64{
	models.SignalBuy:  0.8,
	models.SignalHold: 0.5,
	models.SignalSell: 0.2,
}

var confidenceMultiplier = map[models.Confidence]float64{
	models.ConfidenceHigh:   1.0,
	models.ConfidenceMedium: 0.85,
	models.ConfidenceLow:    0.7,
}

// Advisor blends the technical signal with news sentiment into a scored
// recommendation with rule-generated growth and risk factors.
type Advisor struct {
	market    domrepo.MarketData
	predictor *Predictor
	sentiment domservice.SentimentProvider
	strategy  *Strategy
	l         *applogger.Logger
}

func NewAdvisor(market domrepo.MarketData, predictor *Predictor, sentiment domservice.SentimentProvider, strategy *Strategy) *Advisor {
	return &Advisor{
		market:    market,
		predictor: predictor,
		sentiment: sentiment,
		strategy:  strategy,
	}
}

// SetLogger injects a structured logger.
func (a *Advisor) SetLogger(l *applogger.Logger) { a.l = l }

// AnalyzeRequest carries the advisor inputs for one symbol.
type AnalyzeRequest struct {
	Symbol        string
	CompanyName   string
	Intent        string
	Quantity      int
	PortfolioType models.PortfolioType
	Budget        float64
}

// AnalyzeInvestment runs the full pipeline: quote, prediction, signal,
// sentiment, blended scoring, and (with a budget) a sized trading plan.
func (a *Advisor) AnalyzeInvestment(ctx context.Context, req AnalyzeRequest) (*models.Advice, error) {
	if !req.PortfolioType.Valid() {
		req.PortfolioType = models.PortfolioBalanced
	}

	quote, err := a.market.Quote(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}
	prediction, err := a.predictor.PredictNextDay(ctx, req.Symbol)
	if err != nil {
		return nil, err
	}
	signal, err := a.predictor.GenerateSignal(ctx, req.Symbol, req.PortfolioType)
	if err != nil {
		return nil, err
	}
	sentiment, err := a.sentiment.Sentiment(ctx, req.Symbol, req.CompanyName)
	if err != nil {
		return nil, err
	}

	analysis := a.Score(ScoreInput{
		Quote:         quote,
		Prediction:    prediction,
		Signal:        signal,
		Sentiment:     sentiment,
		Quantity:      req.Quantity,
		PortfolioType: req.PortfolioType,
	})

	advice := &models.Advice{
		Symbol:      req.Symbol,
		CompanyName: req.CompanyName,
		Quote:       quote,
		Prediction:  prediction,
		Signal:      signal,
		Sentiment:   sentiment,
		Analysis:    analysis,
	}
	if req.Budget > 0 {
		advice.TradingPlan = a.strategy.CalculatePosition(
			req.Symbol, req.PortfolioType,
			quote.Price, prediction.PredictedPrice, req.Budget,
			prediction.Features.RSI14, signal.Action,
		)
	}
	return advice, nil
}

// ScoreInput is everything the scoring rules may look at. VolumeTrend is
// optional ("increasing" enables the volume growth rule).
type ScoreInput struct {
	Quote         *models.Quote
	Prediction    *models.Prediction
	Signal        *models.Signal
	Sentiment     *models.Sentiment
	Quantity      int
	PortfolioType models.PortfolioType
	VolumeTrend   string
}

// Score blends the technical and sentiment scores 60/40 and derives the
// recommendation, factor lists, and reasoning. Pure function of its input.
func (a *Advisor) Score(in ScoreInput) *models.Analysis {
	technical := technicalScore(in.Signal.Action, in.Signal.Confidence, in.Prediction.ChangePercent)
	sentimental := sentimentScore(in.Sentiment.Score)
	combined := technicalWeight*technical + sentimentWeight*sentimental

	analysis := &models.Analysis{
		Recommendation:     recommendationFor(combined),
		Confidence:         confidenceLabel(combined),
		ConfidenceScore:    round2(combined),
		TechnicalScore:     round2(technical),
		SentimentScore:     round2(sentimental),
		GrowthFactors:      growthFactors(in),
		RiskFactors:        riskFactors(in),
		ShouldInvest:       combined > 0.5,
		PortfolioAlignment: portfolioAlignment(recommendationFor(combined), in.PortfolioType),
	}
	analysis.Reasoning = reasoning(analysis.Recommendation, in.Signal.Action, in.Sentiment.Label, in.Prediction.ChangePercent, analysis.GrowthFactors)

	if in.Quantity > 0 {
		analysis.InvestmentMetrics = investmentMetrics(in.Quantity, in.Prediction.CurrentPrice, in.Prediction.PredictedPrice)
	}
	return analysis
}

func technicalScore(action models.SignalAction, confidence models.Confidence, changePct float64) float64 {
	base, ok := signalBaseScore[action]
	if !ok {
		base = 0.5
	}
	mult, ok := confidenceMultiplier[confidence]
	if !ok {
		mult = 0.85
	}
	priceFactor := clamp(changePct/10, -0.2, 0.2)
	return clamp(base*mult+priceFactor, 0, 1)
}

func sentimentScore(raw float64) float64 {
	return clamp((raw+1)/2, 0, 1)
}

func recommendationFor(score float64) string {
	switch {
	case score >= 0.70:
		return "STRONG BUY"
	case score >= 0.55:
		return "BUY"
	case score >= 0.45:
		return "HOLD"
	case score >= 0.30:
		return "SELL"
	default:
		return "STRONG SELL"
	}
}

func confidenceLabel(score float64) models.Confidence {
	switch {
	case score >= 0.75:
		return models.ConfidenceVeryHigh
	case score >= 0.60:
		return models.ConfidenceHigh
	case score >= 0.45:
		return models.ConfidenceMedium
	case score >= 0.30:
		return models.ConfidenceLow
	default:
		return models.ConfidenceVeryLow
	}
}

// factorRule pairs a predicate with its finding template. Rules run in
// declaration order so factor lists are deterministic.
type factorRule struct {
	applies func(ScoreInput) bool
	render  func(ScoreInput) string
}

var growthRules = []factorRule{
	{
		applies: func(in ScoreInput) bool { return in.Signal.Action == models.SignalBuy },
		render:  func(ScoreInput) string { return "Technical indicators show BUY signal" },
	},
	{
		applies: func(in ScoreInput) bool { return in.Prediction.ChangePercent > 0 },
		render: func(in ScoreInput) string {
			return fmt.Sprintf("Predicted price increase of %.2f%%", math.Abs(in.Prediction.ChangePercent))
		},
	},
	{
		applies: func(in ScoreInput) bool { return in.Prediction.Features.RSI14 < 30 },
		render: func(in ScoreInput) string {
			return fmt.Sprintf("RSI at %.1f indicates oversold condition (potential bounce)", in.Prediction.Features.RSI14)
		},
	},
	{
		applies: func(in ScoreInput) bool {
			rsi := in.Prediction.Features.RSI14
			return rsi >= 40 && rsi <= 60
		},
		render: func(in ScoreInput) string {
			return fmt.Sprintf("RSI at %.1f shows balanced momentum", in.Prediction.Features.RSI14)
		},
	},
	{
		applies: func(in ScoreInput) bool { return in.Sentiment.Label == "positive" },
		render: func(in ScoreInput) string {
			return fmt.Sprintf("Positive news sentiment (%d positive articles)", in.Sentiment.PositiveCount)
		},
	},
	{
		applies: func(in ScoreInput) bool { return in.VolumeTrend == "increasing" },
		render:  func(ScoreInput) string { return "Increasing trading volume shows strong interest" },
	},
}

var riskRules = []factorRule{
	{
		applies: func(in ScoreInput) bool { return in.Signal.Action == models.SignalSell },
		render:  func(ScoreInput) string { return "Technical indicators show SELL signal" },
	},
	{
		applies: func(in ScoreInput) bool { return in.Signal.Confidence == models.ConfidenceLow },
		render:  func(ScoreInput) string { return "Low confidence in technical analysis" },
	},
	{
		applies: func(in ScoreInput) bool { return math.Abs(in.Quote.ChangePercent) > 5 },
		render: func(in ScoreInput) string {
			return fmt.Sprintf("High volatility (daily change: %.2f%%)", math.Abs(in.Quote.ChangePercent))
		},
	},
	{
		applies: func(in ScoreInput) bool { return in.Sentiment.Label == "negative" },
		render: func(in ScoreInput) string {
			return fmt.Sprintf("Negative news sentiment (%d negative articles)", in.Sentiment.NegativeCount)
		},
	},
}

func growthFactors(in ScoreInput) []string {
	factors := applyRules(growthRules, in)
	if len(factors) == 0 {
		factors = append(factors, "Limited strong growth indicators at this time")
	}
	return factors
}

func riskFactors(in ScoreInput) []string {
	factors := applyRules(riskRules, in)
	if len(factors) == 0 {
		factors = append(factors, "No major risk factors identified")
	}
	return factors
}

func applyRules(rules []factorRule, in ScoreInput) []string {
	var out []string
	for _, r := range rules {
		if r.applies(in) {
			out = append(out, r.render(in))
		}
	}
	return out
}

func reasoning(recommendation string, action models.SignalAction, sentimentLabel string, changePct float64, growth []string) string {
	parts := make([]string, 0, 4)

	switch recommendation {
	case "STRONG BUY", "BUY":
		parts = append(parts, "This stock shows positive signals for investment.")
	case "HOLD":
		parts = append(parts, "This stock shows mixed signals. Consider holding or watching closely.")
	default:
		parts = append(parts, "This stock shows concerning signals. Exercise caution.")
	}

	switch action {
	case models.SignalBuy:
		parts = append(parts, fmt.Sprintf("Technical analysis indicates a BUY opportunity with predicted upside of %.2f%%.", math.Abs(changePct)))
	case models.SignalSell:
		parts = append(parts, fmt.Sprintf("Technical analysis suggests caution with predicted movement of %.2f%%.", changePct))
	default:
		parts = append(parts, "Technical indicators suggest a neutral stance at current levels.")
	}

	switch sentimentLabel {
	case "positive":
		parts = append(parts, "Recent news sentiment is positive, suggesting favorable market perception.")
	case "negative":
		parts = append(parts, "Recent news sentiment is negative, indicating potential headwinds.")
	default:
		parts = append(parts, "News sentiment is neutral with no strong directional bias.")
	}

	if len(growth) > 1 {
		parts = append(parts, "Key growth drivers include strong technical signals and positive momentum.")
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out += " " + p
	}
	return out
}

func investmentMetrics(quantity int, currentPrice, predictedPrice float64) *models.InvestmentMetrics {
	totalInvestment := float64(quantity) * currentPrice
	predictedValue := float64(quantity) * predictedPrice
	profit := predictedValue - totalInvestment
	returnPct := 0.0
	if totalInvestment > 0 {
		returnPct = profit / totalInvestment * 100
	}
	return &models.InvestmentMetrics{
		Quantity:           quantity,
		CurrentPrice:       round2(currentPrice),
		PredictedPrice:     round2(predictedPrice),
		TotalInvestment:    round2(totalInvestment),
		PredictedValue:     round2(predictedValue),
		PredictedProfit:    round2(profit),
		PredictedReturnPct: round2(returnPct),
	}
}

func portfolioAlignment(recommendation string, portfolioType models.PortfolioType) string {
	switch portfolioType {
	case models.PortfolioAggressive:
		if recommendation == "STRONG BUY" || recommendation == "BUY" {
			return "Well aligned with aggressive strategy"
		}
		return "May not suit aggressive strategy"
	case models.PortfolioBalanced:
		if recommendation == "BUY" || recommendation == "HOLD" {
			return "Fits balanced portfolio approach"
		}
		return "Consider your balanced strategy goals"
	default:
		if recommendation == "HOLD" || containsBuy(recommendation) {
			return "Suitable for long-term holding"
		}
		return "Evaluate against long-term objectives"
	}
}

func containsBuy(recommendation string) bool {
	return recommendation == "BUY" || recommendation == "STRONG BUY"
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
