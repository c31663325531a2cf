package usecase

import (
	"context"
	"math"
	"strings"
	"testing"

	"StockCast/internal/domain/models"
)

func scoreInput(action models.SignalAction, confidence models.Confidence, changePct float64, label string, sentScore float64) ScoreInput {
	pred := prediction(changePct, 45)
	return ScoreInput{
		Quote:      &models.Quote{Symbol: "AAPL", Price: pred.CurrentPrice, ChangePercent: 0.5},
		Prediction: pred,
		Signal: &models.Signal{
			Symbol:        "AAPL",
			Action:        action,
			Confidence:    confidence,
			ChangePercent: changePct,
			Indicators:    pred.Features,
		},
		Sentiment:     &models.Sentiment{Label: label, Score: sentScore, PositiveCount: 3, NegativeCount: 2},
		PortfolioType: models.PortfolioBalanced,
	}
}

func TestScoreStrongBuyScenario(t *testing.T) {
	a := NewAdvisor(nil, nil, nil, NewStrategy())
	analysis := a.Score(scoreInput(models.SignalBuy, models.ConfidenceHigh, 3.0, "positive", 0.5))

	// technical = clamp01(0.8*1.0 + 0.2) = 1.0
	// sentiment = (0.5+1)/2 = 0.75
	// combined  = 0.6 + 0.3 = 0.9
	if math.Abs(analysis.ConfidenceScore-0.9) > 1e-9 {
		t.Fatalf("combined score = %f, want 0.9", analysis.ConfidenceScore)
	}
	if analysis.Recommendation != "STRONG BUY" {
		t.Fatalf("recommendation = %s, want STRONG BUY", analysis.Recommendation)
	}
	if analysis.Confidence != models.ConfidenceVeryHigh {
		t.Fatalf("confidence = %s, want VERY HIGH", analysis.Confidence)
	}
	if !analysis.ShouldInvest {
		t.Fatal("should_invest must be true at 0.9")
	}
}

func TestTechnicalScoreClamping(t *testing.T) {
	cases := []struct {
		action     models.SignalAction
		confidence models.Confidence
		changePct  float64
		want       float64
	}{
		{models.SignalBuy, models.ConfidenceHigh, 3.0, 1.0},    // 0.8+0.2 clamped
		{models.SignalBuy, models.ConfidenceMedium, 2.0, 0.88}, // 0.68+0.2
		{models.SignalHold, models.ConfidenceMedium, 0.0, 0.425},
		{models.SignalSell, models.ConfidenceHigh, -5.0, 0.0}, // 0.2-0.2
		{models.SignalSell, models.ConfidenceLow, -30.0, 0.0}, // price factor floors at -0.2
	}
	for _, c := range cases {
		got := technicalScore(c.action, c.confidence, c.changePct)
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("%s/%s/%.1f: score %f, want %f", c.action, c.confidence, c.changePct, got, c.want)
		}
	}
}

func TestRecommendationBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.70, "STRONG BUY"},
		{0.69, "BUY"},
		{0.55, "BUY"},
		{0.54, "HOLD"},
		{0.45, "HOLD"},
		{0.44, "SELL"},
		{0.30, "SELL"},
		{0.29, "STRONG SELL"},
	}
	for _, c := range cases {
		if got := recommendationFor(c.score); got != c.want {
			t.Fatalf("recommendationFor(%.2f) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestConfidenceLabelBands(t *testing.T) {
	cases := []struct {
		score float64
		want  models.Confidence
	}{
		{0.75, models.ConfidenceVeryHigh},
		{0.60, models.ConfidenceHigh},
		{0.45, models.ConfidenceMedium},
		{0.30, models.ConfidenceLow},
		{0.29, models.ConfidenceVeryLow},
	}
	for _, c := range cases {
		if got := confidenceLabel(c.score); got != c.want {
			t.Fatalf("confidenceLabel(%.2f) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestGrowthFactorsOrderAndContent(t *testing.T) {
	a := NewAdvisor(nil, nil, nil, NewStrategy())
	in := scoreInput(models.SignalBuy, models.ConfidenceHigh, 3.0, "positive", 0.5)
	analysis := a.Score(in)

	if len(analysis.GrowthFactors) < 3 {
		t.Fatalf("expected several growth factors, got %v", analysis.GrowthFactors)
	}
	// fixed rule order: signal first, then price, then RSI, then news
	if !strings.Contains(analysis.GrowthFactors[0], "BUY signal") {
		t.Fatalf("first factor should be the BUY signal, got %q", analysis.GrowthFactors[0])
	}
	if !strings.Contains(analysis.GrowthFactors[1], "price increase") {
		t.Fatalf("second factor should be the price increase, got %q", analysis.GrowthFactors[1])
	}
	last := analysis.GrowthFactors[len(analysis.GrowthFactors)-1]
	if !strings.Contains(last, "Positive news sentiment") {
		t.Fatalf("last factor should be the news sentiment, got %q", last)
	}
}

func TestFactorPlaceholdersWhenNothingFires(t *testing.T) {
	a := NewAdvisor(nil, nil, nil, NewStrategy())
	in := scoreInput(models.SignalHold, models.ConfidenceMedium, -0.5, "neutral", 0)
	in.Prediction.Features.RSI14 = 65 // outside every growth band
	in.Signal.Indicators.RSI14 = 65
	analysis := a.Score(in)

	if len(analysis.GrowthFactors) != 1 || !strings.Contains(analysis.GrowthFactors[0], "Limited strong growth") {
		t.Fatalf("expected growth placeholder, got %v", analysis.GrowthFactors)
	}
	if len(analysis.RiskFactors) != 1 || !strings.Contains(analysis.RiskFactors[0], "No major risk") {
		t.Fatalf("expected risk placeholder, got %v", analysis.RiskFactors)
	}
}

func TestRiskFactorsVolatilityAndSentiment(t *testing.T) {
	a := NewAdvisor(nil, nil, nil, NewStrategy())
	in := scoreInput(models.SignalSell, models.ConfidenceLow, -4.0, "negative", -0.6)
	in.Quote.ChangePercent = -6.2
	analysis := a.Score(in)

	want := []string{"SELL signal", "Low confidence", "High volatility", "Negative news sentiment"}
	if len(analysis.RiskFactors) != len(want) {
		t.Fatalf("expected %d risk factors, got %v", len(want), analysis.RiskFactors)
	}
	for i, kw := range want {
		if !strings.Contains(analysis.RiskFactors[i], kw) {
			t.Fatalf("risk factor %d = %q, want to contain %q", i, analysis.RiskFactors[i], kw)
		}
	}
}

func TestInvestmentMetrics(t *testing.T) {
	m := investmentMetrics(10, 100.0, 110.0)
	if m.TotalInvestment != 1000 || m.PredictedValue != 1100 {
		t.Fatalf("unexpected values %+v", m)
	}
	if m.PredictedProfit != 100 || m.PredictedReturnPct != 10 {
		t.Fatalf("unexpected profit %+v", m)
	}

	// zero price guard
	z := investmentMetrics(10, 0, 0)
	if z.PredictedReturnPct != 0 {
		t.Fatalf("zero investment must yield 0%% return, got %f", z.PredictedReturnPct)
	}
}

func TestPortfolioAlignment(t *testing.T) {
	cases := []struct {
		recommendation string
		portfolio      models.PortfolioType
		aligned        bool
	}{
		{"STRONG BUY", models.PortfolioAggressive, true},
		{"HOLD", models.PortfolioAggressive, false},
		{"HOLD", models.PortfolioBalanced, true},
		{"STRONG SELL", models.PortfolioBalanced, false},
		{"HOLD", models.PortfolioLongTerm, true},
		{"STRONG BUY", models.PortfolioLongTerm, true},
		{"SELL", models.PortfolioLongTerm, false},
	}
	for _, c := range cases {
		got := portfolioAlignment(c.recommendation, c.portfolio)
		positive := !strings.Contains(got, "not") && !strings.Contains(got, "Consider your") && !strings.Contains(got, "Evaluate")
		if positive != c.aligned {
			t.Fatalf("%s/%s: alignment %q, want aligned=%v", c.recommendation, c.portfolio, got, c.aligned)
		}
	}
}

type staticSentiment struct {
	s *models.Sentiment
}

func (f *staticSentiment) Sentiment(context.Context, string, string) (*models.Sentiment, error) {
	return f.s, nil
}

func TestAnalyzeInvestmentEndToEnd(t *testing.T) {
	market := &fakeMarket{price: 120}
	p, _ := newTestPredictor(market)
	sent := &staticSentiment{s: &models.Sentiment{Label: "positive", Score: 0.4, PositiveCount: 4}}
	a := NewAdvisor(market, p, sent, NewStrategy())

	advice, err := a.AnalyzeInvestment(context.Background(), AnalyzeRequest{
		Symbol:        "TCS.NS",
		CompanyName:   "Tata Consultancy Services",
		Intent:        "buy",
		Quantity:      10,
		PortfolioType: models.PortfolioBalanced,
		Budget:        50000,
	})
	if err != nil {
		t.Fatalf("AnalyzeInvestment: %v", err)
	}
	if advice.Analysis == nil || advice.TradingPlan == nil {
		t.Fatal("expected analysis and trading plan")
	}
	if advice.Analysis.InvestmentMetrics == nil {
		t.Fatal("expected investment metrics for quantity request")
	}
	if advice.Analysis.InvestmentMetrics.Quantity != 10 {
		t.Fatalf("quantity = %d, want 10", advice.Analysis.InvestmentMetrics.Quantity)
	}
	if advice.TradingPlan.Currency.Code != "INR" {
		t.Fatalf("expected INR plan for .NS symbol, got %s", advice.TradingPlan.Currency.Code)
	}
	if advice.Sentiment.Label != "positive" {
		t.Fatalf("sentiment not threaded through: %+v", advice.Sentiment)
	}
}

func TestAnalyzeInvestmentWithoutBudget(t *testing.T) {
	market := &fakeMarket{price: 120}
	p, _ := newTestPredictor(market)
	sent := &staticSentiment{s: &models.Sentiment{Label: "neutral"}}
	a := NewAdvisor(market, p, sent, NewStrategy())

	advice, err := a.AnalyzeInvestment(context.Background(), AnalyzeRequest{
		Symbol:        "AAPL",
		CompanyName:   "Apple",
		PortfolioType: models.PortfolioBalanced,
	})
	if err != nil {
		t.Fatalf("AnalyzeInvestment: %v", err)
	}
	if advice.TradingPlan != nil {
		t.Fatal("no trading plan expected without a budget")
	}
	if advice.Analysis.InvestmentMetrics != nil {
		t.Fatal("no investment metrics expected without a quantity")
	}
}
