package marketdata

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"StockCast/internal/domain/models"
)

// Mock is a deterministic synthetic provider. It never participates in the
// chain unless market_data.allow_mock is set in the config; substituting
// fabricated prices is an explicit operator choice, not a fallback.
type Mock struct {
	now func() time.Time
}

// NewMock creates the synthetic provider.
func NewMock() *Mock {
	return &Mock{now: time.Now}
}

func (p *Mock) Name() string { return "mock" }

// basePrice derives a stable pseudo-price from the symbol name so repeated
// calls agree with each other.
func basePrice(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return 50 + float64(h.Sum32()%95000)/100
}

func (p *Mock) Quote(_ context.Context, symbol string) (*models.Quote, error) {
	base := basePrice(symbol)
	return &models.Quote{
		Symbol:        symbol,
		Price:         base,
		Change:        base * 0.004,
		ChangePercent: 0.4,
		Volume:        1_000_000,
		TradingDay:    p.now().UTC().Format("2006-01-02"),
		Source:        p.Name(),
	}, nil
}

func (p *Mock) History(_ context.Context, symbol string, days int) (*models.PriceSeries, error) {
	base := basePrice(symbol)
	end := p.now().UTC().Truncate(24 * time.Hour)
	bars := make([]models.Bar, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		// gentle deterministic wave around the base price
		phase := float64(days-1-i) * 0.35
		closePrice := base * (1 + 0.02*math.Sin(phase) + 0.0005*float64(days-1-i))
		bars = append(bars, models.Bar{
			Day:    day,
			Open:   closePrice * 0.998,
			High:   closePrice * 1.006,
			Low:    closePrice * 0.993,
			Close:  closePrice,
			Volume: 1_000_000,
		})
	}
	return &models.PriceSeries{Symbol: symbol, Bars: bars, Source: p.Name()}, nil
}

var _ Provider = (*Mock)(nil)
