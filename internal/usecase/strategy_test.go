package usecase

import (
	"math"
	"strings"
	"testing"

	"StockCast/internal/domain/models"
)

func TestAggressivePositionTCS(t *testing.T) {
	s := NewStrategy()
	plan := s.CalculatePosition("TCS.NS", models.PortfolioAggressive, 3500.0, 3640.0, 50000.0, 45.0, models.SignalBuy)

	// affordability: floor(50000*0.90/3500) = 12
	// risk cap:      floor(50000*0.03/(3500*0.015)) = 28
	// affordability binds
	if plan.RecommendedShares != 12 {
		t.Fatalf("recommended shares = %d, want 12", plan.RecommendedShares)
	}
	if plan.CapitalUsedPct != 84.0 {
		t.Fatalf("capital used = %.1f%%, want 84.0%%", plan.CapitalUsedPct)
	}
	if plan.Strategy != "AGGRESSIVE (Intraday)" {
		t.Fatalf("unexpected strategy label %q", plan.Strategy)
	}
	if plan.Currency.Code != "INR" || plan.Currency.Symbol != "₹" {
		t.Fatalf("expected INR for .NS symbol, got %+v", plan.Currency)
	}
	if plan.StopLoss >= plan.EntryPrice || plan.EntryPrice >= plan.TargetPrice {
		t.Fatalf("price ordering violated: stop %.2f entry %.2f target %.2f", plan.StopLoss, plan.EntryPrice, plan.TargetPrice)
	}
	if plan.RiskRewardRatio != "1:2.5" {
		t.Fatalf("unexpected risk reward %q", plan.RiskRewardRatio)
	}
}

func TestAffordabilityPreferredWhenRiskAllows(t *testing.T) {
	s := NewStrategy()
	// balanced: risk cap floor(1000*0.05/5) = 10 is looser than
	// affordability floor(1000*0.80/100) = 8, so the budget is spent
	plan := s.CalculatePosition("AAPL", models.PortfolioBalanced, 100.0, 108.0, 1000.0, 45.0, models.SignalBuy)
	if plan.RecommendedShares != 8 {
		t.Fatalf("recommended shares = %d, want 8", plan.RecommendedShares)
	}

	// aggressive on a cheap stock: risk cap floor(1000*0.03/0.15) = 200,
	// affordability floor(900/10) = 90
	plan = s.CalculatePosition("AAPL", models.PortfolioAggressive, 10.0, 10.5, 1000.0, 45.0, models.SignalBuy)
	if plan.RecommendedShares != 90 {
		t.Fatalf("recommended shares = %d, want 90 (affordability preferred)", plan.RecommendedShares)
	}
}

func TestPositionInvariants(t *testing.T) {
	s := NewStrategy()
	budgets := []float64{500, 1000, 25000, 50000, 100000}
	prices := []float64{3.5, 42, 180, 3500}

	for _, strategy := range []models.PortfolioType{models.PortfolioAggressive, models.PortfolioBalanced, models.PortfolioLongTerm} {
		params := strategyTable[strategy]
		for _, budget := range budgets {
			for _, price := range prices {
				plan := s.CalculatePosition("AAPL", strategy, price, price*1.05, budget, 50, models.SignalBuy)

				shares := float64(plan.RecommendedShares)
				if shares < 0 {
					t.Fatalf("%s: negative shares", strategy)
				}
				if shares*price > budget*params.utilizationCap+1e-9 {
					t.Fatalf("%s budget %.0f price %.2f: position %.2f exceeds utilization cap", strategy, budget, price, shares*price)
				}
				riskPerShare := price * params.stopLossPct
				if shares*riskPerShare > budget*params.maxRiskPct+riskPerShare {
					t.Fatalf("%s budget %.0f price %.2f: stop-out loss %.2f exceeds risk cap", strategy, budget, price, shares*riskPerShare)
				}
				if plan.CapitalUsedPct < 0 || plan.CapitalUsedPct > 100 {
					t.Fatalf("%s: capital used %.1f%% out of range", strategy, plan.CapitalUsedPct)
				}
			}
		}
	}
}

func TestZeroBudget(t *testing.T) {
	s := NewStrategy()
	plan := s.CalculatePosition("AAPL", models.PortfolioBalanced, 100.0, 105.0, 0, 50, models.SignalHold)
	if plan.RecommendedShares != 0 {
		t.Fatalf("expected 0 shares for zero budget, got %d", plan.RecommendedShares)
	}
	if plan.CapitalUsedPct != 0 {
		t.Fatalf("expected 0%% capital used, got %.1f", plan.CapitalUsedPct)
	}
}

func TestEntryTimingBands(t *testing.T) {
	s := NewStrategy()

	cases := []struct {
		strategy   models.PortfolioType
		rsi        float64
		confidence models.Confidence
	}{
		{models.PortfolioAggressive, 30, models.ConfidenceHigh},
		{models.PortfolioAggressive, 40, models.ConfidenceMedium},
		{models.PortfolioAggressive, 70, models.ConfidenceLow},
		{models.PortfolioAggressive, 55, models.ConfidenceMedium},
		{models.PortfolioBalanced, 35, models.ConfidenceHigh},
		{models.PortfolioBalanced, 50, models.ConfidenceMedium},
		{models.PortfolioBalanced, 60, models.ConfidenceLow},
		{models.PortfolioLongTerm, 35, models.ConfidenceVeryHigh},
		{models.PortfolioLongTerm, 45, models.ConfidenceHigh},
		{models.PortfolioLongTerm, 55, models.ConfidenceMedium},
		{models.PortfolioLongTerm, 65, models.ConfidenceLow},
	}
	for _, c := range cases {
		plan := s.CalculatePosition("AAPL", c.strategy, 100, 105, 10000, c.rsi, models.SignalBuy)
		if plan.EntryConfidence != c.confidence {
			t.Fatalf("%s rsi %.0f: entry confidence %s, want %s", c.strategy, c.rsi, plan.EntryConfidence, c.confidence)
		}
	}
}

func TestExitTimingFollowsSignal(t *testing.T) {
	s := NewStrategy()

	buy := s.CalculatePosition("AAPL", models.PortfolioAggressive, 100, 105, 10000, 45, models.SignalBuy)
	if !strings.Contains(buy.ExitTiming, "TARGET") {
		t.Fatalf("BUY exit timing should name the target: %q", buy.ExitTiming)
	}
	hold := s.CalculatePosition("AAPL", models.PortfolioAggressive, 100, 105, 10000, 45, models.SignalHold)
	if hold.HoldingPeriod != "N/A" {
		t.Fatalf("non-BUY aggressive plan should not enter: %q", hold.HoldingPeriod)
	}

	ltHold := s.CalculatePosition("AAPL", models.PortfolioLongTerm, 100, 105, 10000, 45, models.SignalHold)
	if !strings.Contains(ltHold.ExitTiming, "quarterly") {
		t.Fatalf("long-term HOLD should advise quarterly review: %q", ltHold.ExitTiming)
	}
	if len(ltHold.StrategyNotes) == 0 {
		t.Fatal("long-term plan should carry strategy notes")
	}
}

func TestPotentialProfitAndLoss(t *testing.T) {
	s := NewStrategy()
	plan := s.CalculatePosition("AAPL", models.PortfolioBalanced, 100.0, 110.0, 10000.0, 45.0, models.SignalBuy)

	shares := float64(plan.RecommendedShares)
	wantProfit := shares * (plan.TargetPrice - plan.EntryPrice)
	if math.Abs(plan.PotentialProfit-wantProfit) > 0.01 {
		t.Fatalf("potential profit %.2f, want %.2f", plan.PotentialProfit, wantProfit)
	}
	wantLoss := shares * plan.RiskPerShare
	if math.Abs(plan.PotentialLoss-wantLoss) > 0.01 {
		t.Fatalf("potential loss %.2f, want %.2f", plan.PotentialLoss, wantLoss)
	}
}

func TestCurrencySelection(t *testing.T) {
	cases := map[string]string{
		"INFY.NS":     "INR",
		"RELIANCE.BO": "INR",
		"AAPL":        "USD",
		"MSFT":        "USD",
	}
	for symbol, code := range cases {
		if got := CurrencyFor(symbol).Code; got != code {
			t.Fatalf("CurrencyFor(%s) = %s, want %s", symbol, got, code)
		}
	}
}
