package models

import "time"

// PortfolioType is the caller's risk profile. It selects signal thresholds
// and the position-sizing strategy.
type PortfolioType string

const (
	PortfolioAggressive PortfolioType = "aggressive"
	PortfolioBalanced   PortfolioType = "balanced"
	PortfolioLongTerm   PortfolioType = "long_term"
)

// Valid reports whether p is a known portfolio type.
func (p PortfolioType) Valid() bool {
	switch p {
	case PortfolioAggressive, PortfolioBalanced, PortfolioLongTerm:
		return true
	}
	return false
}

// SignalAction is a discrete trading signal.
type SignalAction string

const (
	SignalBuy  SignalAction = "BUY"
	SignalSell SignalAction = "SELL"
	SignalHold SignalAction = "HOLD"
)

// Confidence grades how strongly a signal or entry is supported.
type Confidence string

const (
	ConfidenceVeryHigh Confidence = "VERY HIGH"
	ConfidenceHigh     Confidence = "HIGH"
	ConfidenceMedium   Confidence = "MEDIUM"
	ConfidenceLow      Confidence = "LOW"
	ConfidenceVeryLow  Confidence = "VERY LOW"
)

// FeatureSnapshot carries the indicator values behind a prediction.
type FeatureSnapshot struct {
	SMA5  float64 `json:"sma_5"`
	SMA10 float64 `json:"sma_10"`
	RSI14 float64 `json:"rsi_14"`
}

// Prediction is a next-day close forecast for one symbol. Ephemeral,
// recomputed per request.
type Prediction struct {
	Symbol         string          `json:"symbol"`
	CurrentPrice   float64         `json:"current_price"`
	PredictedPrice float64         `json:"predicted_price"`
	Change         float64         `json:"prediction_change"`
	ChangePercent  float64         `json:"prediction_change_percent"`
	Features       FeatureSnapshot `json:"features"`
}

// Signal is a buy/sell/hold recommendation derived from a Prediction and
// a portfolio-type threshold table.
type Signal struct {
	Symbol         string          `json:"symbol"`
	Action         SignalAction    `json:"signal"`
	Confidence     Confidence      `json:"confidence"`
	Reason         string          `json:"reason"`
	Timing         string          `json:"timing"`
	CurrentPrice   float64         `json:"current_price"`
	PredictedPrice float64         `json:"predicted_price"`
	ChangePercent  float64         `json:"change_percent"`
	PortfolioType  PortfolioType   `json:"portfolio_type"`
	Indicators     FeatureSnapshot `json:"technical_indicators"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// ChartPoint pairs a date with a price for charting.
type ChartPoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// ChartData is a historical close series plus a single predicted point on
// the next trading day.
type ChartData struct {
	Symbol       string       `json:"symbol"`
	Historical   []ChartPoint `json:"historical"`
	Prediction   ChartPoint   `json:"prediction"`
	CurrentPrice float64      `json:"current_price"`
}

// TrainReport summarizes one training run.
type TrainReport struct {
	Symbol            string    `json:"symbol"`
	TrainScore        float64   `json:"train_score"`
	ValidationScore   float64   `json:"validation_score"`
	TrainingSamples   int       `json:"training_samples"`
	ValidationSamples int       `json:"validation_samples"`
	TrainedAt         time.Time `json:"trained_at"`
}

// Currency identifies the trading currency inferred from the symbol suffix.
type Currency struct {
	Symbol string `json:"symbol"`
	Code   string `json:"code"`
	Name   string `json:"name"`
}

// TradingPlan is a budget-constrained position recommendation for one
// (symbol, strategy, budget) request.
type TradingPlan struct {
	Strategy          string     `json:"strategy"`
	Description       string     `json:"description"`
	BudgetRequired    float64    `json:"budget_required"`
	RecommendedShares int        `json:"recommended_shares"`
	EntryPrice        float64    `json:"entry_price"`
	StopLoss          float64    `json:"stop_loss"`
	TargetPrice       float64    `json:"target_price"`
	RiskPerShare      float64    `json:"risk_per_share"`
	PotentialLoss     float64    `json:"potential_loss"`
	PotentialProfit   float64    `json:"potential_profit"`
	RiskRewardRatio   string     `json:"risk_reward_ratio"`
	EntryTiming       string     `json:"entry_timing"`
	EntryConfidence   Confidence `json:"entry_confidence"`
	ExitTiming        string     `json:"exit_timing"`
	HoldingPeriod     string     `json:"holding_period"`
	RiskLevel         string     `json:"risk_level"`
	CapitalUsedPct    float64    `json:"capital_used_pct"`
	StrategyNotes     []string   `json:"strategy_notes,omitempty"`
	Currency          Currency   `json:"currency"`
}

// Sentiment is the aggregate news sentiment for a symbol, supplied by the
// external news-analysis collaborator.
type Sentiment struct {
	Label         string  `json:"label"` // positive, negative, neutral
	Score         float64 `json:"score"` // [-1, 1]
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	NeutralCount  int     `json:"neutral_count"`
}

// InvestmentMetrics projects an investment of a fixed share quantity.
type InvestmentMetrics struct {
	Quantity           int     `json:"quantity"`
	CurrentPrice       float64 `json:"current_price"`
	PredictedPrice     float64 `json:"predicted_price"`
	TotalInvestment    float64 `json:"total_investment"`
	PredictedValue     float64 `json:"predicted_value"`
	PredictedProfit    float64 `json:"predicted_profit"`
	PredictedReturnPct float64 `json:"predicted_return_pct"`
}

// Analysis is the Advisor's blended scoring output.
type Analysis struct {
	Recommendation     string             `json:"recommendation"`
	Confidence         Confidence         `json:"confidence"`
	ConfidenceScore    float64            `json:"confidence_score"`
	TechnicalScore     float64            `json:"technical_score"`
	SentimentScore     float64            `json:"sentiment_score"`
	GrowthFactors      []string           `json:"growth_factors"`
	RiskFactors        []string           `json:"risk_factors"`
	Reasoning          string             `json:"reasoning"`
	InvestmentMetrics  *InvestmentMetrics `json:"investment_metrics,omitempty"`
	ShouldInvest       bool               `json:"should_invest"`
	PortfolioAlignment string             `json:"portfolio_alignment"`
}

// Advice is the full investment-analysis response for one symbol.
type Advice struct {
	Symbol      string       `json:"symbol"`
	CompanyName string       `json:"company_name"`
	Quote       *Quote       `json:"quote"`
	Prediction  *Prediction  `json:"prediction"`
	Signal      *Signal      `json:"signal"`
	Sentiment   *Sentiment   `json:"news_sentiment"`
	Analysis    *Analysis    `json:"analysis"`
	TradingPlan *TradingPlan `json:"trading_plan,omitempty"`
}

// ParsedQuery is the external NL parser's reading of a free-text request.
type ParsedQuery struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Intent      string `json:"intent"`
	Quantity    int    `json:"quantity,omitempty"`
}
