package repository

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
)

// MarketData supplies quotes and daily history for symbols.
type MarketData interface {
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
	History(ctx context.Context, symbol string, days int) (*models.PriceSeries, error)
}

// ArtifactStore owns the per-symbol model artifacts. Save must replace the
// previous artifact atomically: a concurrent Load observes either the old
// complete artifact or the new one, never a partial write.
type ArtifactStore interface {
	Save(symbol string, a *Artifact) error
	Load(symbol string) (*Artifact, error)
	Exists(symbol string) bool
	Delete(symbol string) error
}

// Artifact is the persisted (regression weights + standardizer) pair for
// one symbol.
type Artifact struct {
	Symbol          string    `json:"symbol"`
	FeatureNames    []string  `json:"feature_names"`
	Weights         []float64 `json:"weights"`
	Intercept       float64   `json:"intercept"`
	ScalerMeans     []float64 `json:"scaler_means"`
	ScalerScales    []float64 `json:"scaler_scales"`
	TrainScore      float64   `json:"train_score"`
	ValidationScore float64   `json:"validation_score"`
	TrainedAt       time.Time `json:"trained_at"`
}

// BarStore persists fetched daily bars as a durable cache behind the
// provider chain.
type BarStore interface {
	StoreBars(ctx context.Context, symbol string, bars []models.Bar) error
	LoadBars(ctx context.Context, symbol string, days int) ([]models.Bar, error)
	Health(ctx context.Context) error
	Close() error
}

// SignalPublisher fans generated signals out to downstream consumers.
type SignalPublisher interface {
	PublishSignal(ctx context.Context, s *models.Signal) error
	Close() error
}

// Metrics records operational counters for the forecast pipeline.
type Metrics interface {
	RecordPrediction(symbol string)
	RecordTraining(symbol string)
	RecordError(kind string)
	RecordPredictedPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
