package features

import (
	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/services/indicators"
)

// Feature layout for the next-close model. Order is part of the artifact
// contract: persisted weights are positional.
const (
	SMAShortWindow = 5
	SMALongWindow  = 10
	RSIPeriod      = 14

	// warmupBars are reserved at the head of the series so the slow
	// indicators have real history behind them.
	warmupBars = 10

	// MinTrainingRows is the smallest usable supervised set; below this
	// training rejects the series.
	MinTrainingRows = 20
)

// Names lists the feature columns in model order.
func Names() []string {
	return []string{"close", "sma_5", "sma_10", "rsi_14"}
}

// Prepare builds the supervised training set from a close-price series:
// row i is [close, sma5, sma10, rsi14] at bar i, target is the close at
// bar i+1. A series of length L yields max(0, L-11) rows. Returns
// ErrInsufficientData when fewer than MinTrainingRows rows result.
func Prepare(series *models.PriceSeries) (X [][]float64, y []float64, err error) {
	closes := series.Closes()
	rows := len(closes) - warmupBars - 1
	if rows < MinTrainingRows {
		return nil, nil, domrepo.InsufficientDataError(len(closes), warmupBars+MinTrainingRows+1)
	}

	smaShort := indicators.SMA(closes, SMAShortWindow)
	smaLong := indicators.SMA(closes, SMALongWindow)
	rsi := indicators.RSI(closes, RSIPeriod)

	X = make([][]float64, 0, rows)
	y = make([]float64, 0, rows)
	for i := warmupBars; i < len(closes)-1; i++ {
		X = append(X, []float64{closes[i], smaShort[i], smaLong[i], rsi[i]})
		y = append(y, closes[i+1])
	}
	return X, y, nil
}

// Latest builds the single feature row for the most recent bar, together
// with the indicator snapshot exposed on predictions.
func Latest(series *models.PriceSeries) ([]float64, models.FeatureSnapshot, error) {
	closes := series.Closes()
	if len(closes) == 0 {
		return nil, models.FeatureSnapshot{}, domrepo.InsufficientDataError(0, 1)
	}

	smaShort := indicators.SMA(closes, SMAShortWindow)
	smaLong := indicators.SMA(closes, SMALongWindow)
	rsi := indicators.RSI(closes, RSIPeriod)

	last := len(closes) - 1
	snap := models.FeatureSnapshot{
		SMA5:  smaShort[last],
		SMA10: smaLong[last],
		RSI14: rsi[last],
	}
	return []float64{closes[last], smaShort[last], smaLong[last], rsi[last]}, snap, nil
}
