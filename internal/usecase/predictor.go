package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/services/features"
	"StockCast/internal/services/regression"
	applogger "StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// PredictHistoryDays is how much recent history feeds a prediction. It
// comfortably covers the indicator warm-up.
const PredictHistoryDays = 30

// signal thresholds per portfolio type, in percent predicted change.
var signalThresholds = map[models.PortfolioType]struct {
	buy  float64
	sell float64
}{
	models.PortfolioAggressive: {buy: 1.0, sell: -1.0},
	models.PortfolioBalanced:   {buy: 2.0, sell: -2.0},
	models.PortfolioLongTerm:   {buy: 3.0, sell: -3.0},
}

// Predictor produces next-day close forecasts and trading signals. It is
// stateless across requests beyond the artifact store: a missing model is
// trained on demand, then loaded like any other.
type Predictor struct {
	market    domrepo.MarketData
	artifacts domrepo.ArtifactStore
	trainer   *Trainer
	publisher domrepo.SignalPublisher
	metrics   domrepo.Metrics
	l         *applogger.Logger
}

func NewPredictor(market domrepo.MarketData, artifacts domrepo.ArtifactStore, trainer *Trainer, metrics domrepo.Metrics) *Predictor {
	return &Predictor{
		market:    market,
		artifacts: artifacts,
		trainer:   trainer,
		metrics:   metrics,
	}
}

// SetLogger injects a structured logger.
func (p *Predictor) SetLogger(l *applogger.Logger) { p.l = l }

// SetPublisher attaches an event publisher; generated signals are emitted
// to it best-effort.
func (p *Predictor) SetPublisher(pub domrepo.SignalPublisher) { p.publisher = pub }

// PredictNextDay forecasts the next-day close for the symbol, training a
// model first if none exists.
func (p *Predictor) PredictNextDay(ctx context.Context, symbol string) (*models.Prediction, error) {
	start := time.Now()

	if !p.artifacts.Exists(symbol) {
		if p.l != nil {
			p.l.Info("no model for symbol, training", applogger.String("symbol", symbol))
		}
		if _, err := p.trainer.Train(ctx, symbol); err != nil {
			return nil, fmt.Errorf("train %s: %w", symbol, err)
		}
	}

	artifact, err := p.artifacts.Load(symbol)
	if err != nil {
		return nil, err
	}
	model := &regression.Linear{Weights: artifact.Weights, Intercept: artifact.Intercept}
	scaler := &regression.Standardizer{Means: artifact.ScalerMeans, Scales: artifact.ScalerScales}

	series, err := p.market.History(ctx, symbol, PredictHistoryDays)
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordError("predict")
		}
		return nil, err
	}
	row, snapshot, err := features.Latest(series)
	if err != nil {
		return nil, err
	}
	predicted := model.Predict(scaler.TransformRow(row))

	quote, err := p.market.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	change := predicted - quote.Price
	changePct := 0.0
	if quote.Price != 0 {
		changePct = change / quote.Price * 100
	}

	if p.metrics != nil {
		p.metrics.RecordPrediction(symbol)
		p.metrics.RecordPredictedPrice(symbol, predicted)
		p.metrics.RecordLatency("predict", time.Since(start).Seconds())
	}

	return &models.Prediction{
		Symbol:         symbol,
		CurrentPrice:   quote.Price,
		PredictedPrice: predicted,
		Change:         change,
		ChangePercent:  changePct,
		Features:       snapshot,
	}, nil
}

// GenerateSignal turns a prediction into a discrete BUY/SELL/HOLD signal
// using the portfolio type's threshold pair. Confidence upgrades to HIGH
// when the predicted move exceeds 1.5x the threshold.
func (p *Predictor) GenerateSignal(ctx context.Context, symbol string, portfolioType models.PortfolioType) (*models.Signal, error) {
	if !portfolioType.Valid() {
		portfolioType = models.PortfolioBalanced
	}

	prediction, err := p.PredictNextDay(ctx, symbol)
	if err != nil {
		return nil, err
	}
	signal := composeSignal(prediction, portfolioType)

	if p.publisher != nil {
		if perr := p.publisher.PublishSignal(ctx, signal); perr != nil && p.l != nil {
			p.l.Warn("signal publish failed", applogger.String("symbol", symbol), applogger.Error(perr))
		}
	}
	return signal, nil
}

// composeSignal applies the threshold table and the RSI reason/timing
// branches to a prediction.
func composeSignal(prediction *models.Prediction, portfolioType models.PortfolioType) *models.Signal {
	th := signalThresholds[portfolioType]
	changePct := prediction.ChangePercent
	rsi := prediction.Features.RSI14

	signal := &models.Signal{
		Symbol:         prediction.Symbol,
		CurrentPrice:   prediction.CurrentPrice,
		PredictedPrice: prediction.PredictedPrice,
		ChangePercent:  changePct,
		PortfolioType:  portfolioType,
		Indicators:     prediction.Features,
		GeneratedAt:    time.Now().UTC(),
	}

	switch {
	case changePct >= th.buy:
		signal.Action = models.SignalBuy
		signal.Confidence = models.ConfidenceMedium
		if changePct > th.buy*1.5 {
			signal.Confidence = models.ConfidenceHigh
		}
		reason := fmt.Sprintf("Forecast shows %.2f%% upward movement. ", changePct)
		switch {
		case rsi < 30:
			signal.Reason = reason + "RSI indicates oversold conditions - good entry point."
			signal.Timing = "Consider buying soon"
		case rsi < 50:
			signal.Reason = reason + "RSI shows neutral momentum with upside potential."
			signal.Timing = "Good time to accumulate"
		default:
			signal.Reason = reason + "Strong bullish momentum expected."
			signal.Timing = "Consider entering position"
		}

	case changePct <= th.sell:
		signal.Action = models.SignalSell
		signal.Confidence = models.ConfidenceMedium
		if changePct < th.sell*1.5 {
			signal.Confidence = models.ConfidenceHigh
		}
		reason := fmt.Sprintf("Forecast shows %.2f%% downward movement. ", math.Abs(changePct))
		switch {
		case rsi > 70:
			signal.Reason = reason + "RSI indicates overbought conditions - consider taking profits."
			signal.Timing = "Consider selling soon"
		case rsi > 50:
			signal.Reason = reason + "RSI shows weakening momentum."
			signal.Timing = "Consider reducing position"
		default:
			signal.Reason = reason + "Bearish pressure expected."
			signal.Timing = "Consider exiting position"
		}

	default:
		signal.Action = models.SignalHold
		signal.Confidence = models.ConfidenceMedium
		reason := fmt.Sprintf("Forecast shows %.2f%% movement - within tolerance range. ", math.Abs(changePct))
		switch {
		case rsi > 70:
			signal.Reason = reason + "RSI overbought - wait for better entry."
			signal.Timing = "Wait for pullback"
		case rsi < 30:
			signal.Reason = reason + "RSI oversold - watch for reversal signal."
			signal.Timing = "Watch for entry opportunity"
		default:
			signal.Reason = reason + "Market showing consolidation pattern."
			signal.Timing = "Continue monitoring"
		}
	}
	return signal
}

// ChartData returns the recent close series with one extra point: the
// predicted close on the next trading day after the last bar.
func (p *Predictor) ChartData(ctx context.Context, symbol string, days int) (*models.ChartData, error) {
	if days <= 0 {
		days = PredictHistoryDays
	}
	series, err := p.market.History(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, domrepo.InsufficientDataError(0, 1)
	}

	prediction, err := p.PredictNextDay(ctx, symbol)
	if err != nil {
		return nil, err
	}

	historical := make([]models.ChartPoint, series.Len())
	for i, bar := range series.Bars {
		historical[i] = models.ChartPoint{Date: bar.Day.Format("2006-01-02"), Price: bar.Close}
	}
	lastDay := series.Bars[series.Len()-1].Day

	return &models.ChartData{
		Symbol:     symbol,
		Historical: historical,
		Prediction: models.ChartPoint{
			Date:  util.NextTradingDay(lastDay).Format("2006-01-02"),
			Price: prediction.PredictedPrice,
		},
		CurrentPrice: prediction.CurrentPrice,
	}, nil
}
