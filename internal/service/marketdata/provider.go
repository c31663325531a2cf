package marketdata

import (
	"context"

	"StockCast/internal/domain/models"
)

// Provider is a single upstream market-data source.
type Provider interface {
	Name() string
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
	History(ctx context.Context, symbol string, days int) (*models.PriceSeries, error)
}

// Attempt records the outcome of one provider call, so callers can see
// exactly which sources were tried and why they failed.
type Attempt struct {
	Provider string `json:"provider"`
	OK       bool   `json:"ok"`
	Reason   string `json:"reason,omitempty"`
}
