package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/services/features"
	"StockCast/internal/services/regression"
	pkgcache "StockCast/pkg/cache"
	applogger "StockCast/pkg/logger"
)

// TrainHistoryDays is how much history a fresh model is fitted on.
const TrainHistoryDays = 90

// trainLockTTL bounds how long a distributed train lock can outlive a
// crashed trainer.
const trainLockTTL = 2 * time.Minute

// ErrTrainInProgress is returned when another trainer holds the lock for
// the same symbol.
var ErrTrainInProgress = errors.New("training already in progress")

// Trainer fits and persists the per-symbol next-close model. Concurrent
// trains for the same symbol are serialized by an in-process mutex and,
// when a cache backend is configured, a distributed lock so only one
// trainer runs per symbol per deployment.
type Trainer struct {
	market    domrepo.MarketData
	artifacts domrepo.ArtifactStore
	locks     pkgcache.Service
	metrics   domrepo.Metrics
	l         *applogger.Logger

	mu     sync.Mutex
	perSym map[string]*sync.Mutex
}

func NewTrainer(market domrepo.MarketData, artifacts domrepo.ArtifactStore, locks pkgcache.Service, metrics domrepo.Metrics) *Trainer {
	return &Trainer{
		market:    market,
		artifacts: artifacts,
		locks:     locks,
		metrics:   metrics,
		perSym:    make(map[string]*sync.Mutex),
	}
}

// SetLogger injects a structured logger.
func (t *Trainer) SetLogger(l *applogger.Logger) { t.l = l }

func (t *Trainer) symbolLock(symbol string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.perSym[symbol]
	if !ok {
		m = &sync.Mutex{}
		t.perSym[symbol] = m
	}
	return m
}

// Train fetches history for the symbol and fits a fresh model, replacing
// any previous artifact.
func (t *Trainer) Train(ctx context.Context, symbol string) (*models.TrainReport, error) {
	series, err := t.market.History(ctx, symbol, TrainHistoryDays)
	if err != nil {
		return nil, err
	}
	return t.TrainOn(ctx, symbol, series)
}

// TrainOn fits a model on an already-fetched series. The split is
// chronological 80/20 with no shuffling; the standardizer is fit on the
// training split only so validation rows never leak into its statistics.
func (t *Trainer) TrainOn(ctx context.Context, symbol string, series *models.PriceSeries) (*models.TrainReport, error) {
	lock := t.symbolLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	if t.locks != nil {
		key := "train:" + symbol
		ok, err := t.locks.TryLock(ctx, key, trainLockTTL)
		if err == nil && !ok {
			return nil, ErrTrainInProgress
		}
		if err == nil {
			defer func() {
				if uerr := t.locks.Unlock(context.WithoutCancel(ctx), key); uerr != nil && t.l != nil {
					t.l.Warn("train unlock failed", applogger.String("symbol", symbol), applogger.Error(uerr))
				}
			}()
		}
	}

	start := time.Now()

	X, y, err := features.Prepare(series)
	if err != nil {
		if t.metrics != nil {
			t.metrics.RecordError("train")
		}
		return nil, err
	}

	split := len(X) * 4 / 5
	XTrain, yTrain := X[:split], y[:split]
	XVal, yVal := X[split:], y[split:]

	scaler := regression.FitStandardizer(XTrain)
	model, err := regression.Fit(scaler.Transform(XTrain), yTrain)
	if err != nil {
		return nil, err
	}

	report := &models.TrainReport{
		Symbol:            symbol,
		TrainScore:        model.Score(scaler.Transform(XTrain), yTrain),
		ValidationScore:   model.Score(scaler.Transform(XVal), yVal),
		TrainingSamples:   len(XTrain),
		ValidationSamples: len(XVal),
		TrainedAt:         time.Now().UTC(),
	}

	artifact := &domrepo.Artifact{
		Symbol:          symbol,
		FeatureNames:    features.Names(),
		Weights:         model.Weights,
		Intercept:       model.Intercept,
		ScalerMeans:     scaler.Means,
		ScalerScales:    scaler.Scales,
		TrainScore:      report.TrainScore,
		ValidationScore: report.ValidationScore,
		TrainedAt:       report.TrainedAt,
	}
	if err := t.artifacts.Save(symbol, artifact); err != nil {
		return nil, err
	}

	if t.metrics != nil {
		t.metrics.RecordTraining(symbol)
		t.metrics.RecordLatency("train", time.Since(start).Seconds())
	}
	if t.l != nil {
		t.l.Info("model trained",
			applogger.String("symbol", symbol),
			applogger.Int("train_samples", report.TrainingSamples),
			applogger.Int("validation_samples", report.ValidationSamples),
			applogger.Any("train_r2", report.TrainScore),
			applogger.Any("validation_r2", report.ValidationScore),
		)
	}
	return report, nil
}

// Exists reports whether a trained artifact is available for the symbol.
func (t *Trainer) Exists(symbol string) bool {
	return t.artifacts.Exists(symbol)
}
