package marketdata

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	applogger "StockCast/pkg/logger"
)

// Chain tries an ordered list of providers until one succeeds. Each
// provider call is retried with exponential backoff for transient errors;
// every attempt outcome is recorded so failures stay observable instead of
// being swallowed.
type Chain struct {
	providers  []Provider
	maxRetries uint64
	maxElapsed time.Duration
	l          *applogger.Logger
}

// NewChain creates a provider chain in the given order.
func NewChain(providers []Provider, maxRetries uint64, maxElapsed time.Duration) *Chain {
	if maxElapsed <= 0 {
		maxElapsed = 15 * time.Second
	}
	return &Chain{providers: providers, maxRetries: maxRetries, maxElapsed: maxElapsed}
}

// SetLogger injects a structured logger.
func (c *Chain) SetLogger(l *applogger.Logger) { c.l = l }

func (c *Chain) retryPolicy(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = c.maxElapsed
	var policy backoff.BackOff = bo
	if c.maxRetries > 0 {
		policy = backoff.WithMaxRetries(bo, c.maxRetries)
	}
	return backoff.WithContext(policy, ctx)
}

// QuoteAttempts fetches a quote, returning the per-provider attempt trail.
func (c *Chain) QuoteAttempts(ctx context.Context, symbol string) (*models.Quote, []Attempt, error) {
	attempts := make([]Attempt, 0, len(c.providers))
	for _, p := range c.providers {
		var q *models.Quote
		err := backoff.Retry(func() error {
			var err error
			q, err = p.Quote(ctx, symbol)
			return err
		}, c.retryPolicy(ctx))
		if err != nil {
			attempts = append(attempts, Attempt{Provider: p.Name(), Reason: err.Error()})
			if c.l != nil {
				c.l.Warn("quote provider failed",
					applogger.String("provider", p.Name()),
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			continue
		}
		attempts = append(attempts, Attempt{Provider: p.Name(), OK: true})
		return q, attempts, nil
	}
	return nil, attempts, domrepo.QuoteUnavailableError(symbol, lastReason(attempts))
}

// HistoryAttempts fetches daily history, returning the attempt trail.
func (c *Chain) HistoryAttempts(ctx context.Context, symbol string, days int) (*models.PriceSeries, []Attempt, error) {
	attempts := make([]Attempt, 0, len(c.providers))
	for _, p := range c.providers {
		var s *models.PriceSeries
		err := backoff.Retry(func() error {
			var err error
			s, err = p.History(ctx, symbol, days)
			return err
		}, c.retryPolicy(ctx))
		if err != nil {
			attempts = append(attempts, Attempt{Provider: p.Name(), Reason: err.Error()})
			if c.l != nil {
				c.l.Warn("history provider failed",
					applogger.String("provider", p.Name()),
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			continue
		}
		attempts = append(attempts, Attempt{Provider: p.Name(), OK: true})
		return s, attempts, nil
	}
	return nil, attempts, domrepo.HistoryUnavailableError(symbol, lastReason(attempts))
}

// Quote implements repository.MarketData.
func (c *Chain) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	q, _, err := c.QuoteAttempts(ctx, symbol)
	return q, err
}

// History implements repository.MarketData.
func (c *Chain) History(ctx context.Context, symbol string, days int) (*models.PriceSeries, error) {
	s, _, err := c.HistoryAttempts(ctx, symbol, days)
	return s, err
}

func lastReason(attempts []Attempt) error {
	for i := len(attempts) - 1; i >= 0; i-- {
		if !attempts[i].OK && attempts[i].Reason != "" {
			return errString(attempts[i].Reason)
		}
	}
	return nil
}

type errString string

func (e errString) Error() string { return string(e) }

var _ domrepo.MarketData = (*Chain)(nil)
