package marketdata

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	pkgcache "StockCast/pkg/cache"
	applogger "StockCast/pkg/logger"
)

// Cache TTLs mirror the upstream provider freshness: quotes go stale in
// minutes, daily history within a day.
const (
	QuoteTTL   = 15 * time.Minute
	HistoryTTL = 24 * time.Hour
)

// Cached wraps a MarketData source with a cache layer and an optional
// durable bar store. Fetched history is written through to the bar store;
// when every provider fails, the bar store is consulted before giving up.
type Cached struct {
	source domrepo.MarketData
	cache  pkgcache.Service
	bars   domrepo.BarStore
	l      *applogger.Logger
}

// NewCached creates the caching wrapper. cache and bars may each be nil.
func NewCached(source domrepo.MarketData, cache pkgcache.Service, bars domrepo.BarStore) *Cached {
	return &Cached{source: source, cache: cache, bars: bars}
}

// SetLogger injects a structured logger.
func (c *Cached) SetLogger(l *applogger.Logger) { c.l = l }

func (c *Cached) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	key := pkgcache.GenerateKey("quote", symbol)
	if c.cache != nil {
		var q models.Quote
		if err := c.cache.Get(ctx, key, &q); err == nil {
			return &q, nil
		}
	}

	q, err := c.source.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, key, q, QuoteTTL); err != nil && c.l != nil {
			c.l.Warn("quote cache set failed", applogger.String("symbol", symbol), applogger.Error(err))
		}
	}
	return q, nil
}

func (c *Cached) History(ctx context.Context, symbol string, days int) (*models.PriceSeries, error) {
	key := pkgcache.GenerateKeyWithParams("history", symbol, days)
	if c.cache != nil {
		var s models.PriceSeries
		if err := c.cache.Get(ctx, key, &s); err == nil {
			return &s, nil
		}
	}

	s, err := c.source.History(ctx, symbol, days)
	if err != nil {
		if fallback := c.loadStoredBars(ctx, symbol, days); fallback != nil {
			return fallback, nil
		}
		return nil, err
	}

	if c.cache != nil {
		if cerr := c.cache.Set(ctx, key, s, HistoryTTL); cerr != nil && c.l != nil {
			c.l.Warn("history cache set failed", applogger.String("symbol", symbol), applogger.Error(cerr))
		}
	}
	if c.bars != nil {
		if serr := c.bars.StoreBars(ctx, symbol, s.Bars); serr != nil && c.l != nil {
			c.l.Warn("bar store write failed", applogger.String("symbol", symbol), applogger.Error(serr))
		}
	}
	return s, nil
}

// loadStoredBars serves history from the durable bar store when providers
// are down, but only if it can satisfy the requested depth.
func (c *Cached) loadStoredBars(ctx context.Context, symbol string, days int) *models.PriceSeries {
	if c.bars == nil {
		return nil
	}
	bars, err := c.bars.LoadBars(ctx, symbol, days)
	if err != nil || len(bars) < days {
		return nil
	}
	if c.l != nil {
		c.l.Info("history served from bar store",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(bars)),
		)
	}
	return &models.PriceSeries{Symbol: symbol, Bars: bars, Source: "barstore"}
}

var _ domrepo.MarketData = (*Cached)(nil)
