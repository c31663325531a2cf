package marketdata

import (
	"context"
	"errors"
	"testing"

	"StockCast/internal/domain/models"
	pkgcache "StockCast/pkg/cache"
)

type fakeBarStore struct {
	stored map[string][]models.Bar
}

func newFakeBarStore() *fakeBarStore {
	return &fakeBarStore{stored: make(map[string][]models.Bar)}
}

func (f *fakeBarStore) StoreBars(_ context.Context, symbol string, bars []models.Bar) error {
	f.stored[symbol] = append([]models.Bar(nil), bars...)
	return nil
}

func (f *fakeBarStore) LoadBars(_ context.Context, symbol string, limit int) ([]models.Bar, error) {
	bars := f.stored[symbol]
	if len(bars) > limit {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

func (f *fakeBarStore) Health(_ context.Context) error { return nil }
func (f *fakeBarStore) Close() error                   { return nil }

func TestCachedQuoteServedFromCacheOnSecondCall(t *testing.T) {
	src := &fakeProvider{name: "src", quote: &models.Quote{Symbol: "AAPL", Price: 190, Source: "src"}}
	chain := NewChain([]Provider{src}, 0, 0)
	mem := pkgcache.NewMemoryCache()
	defer mem.Close()

	cached := NewCached(chain, mem, nil)
	for i := 0; i < 3; i++ {
		q, err := cached.Quote(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("Quote call %d: %v", i, err)
		}
		if q.Price != 190 {
			t.Fatalf("unexpected price %f", q.Price)
		}
	}
	if src.calls != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", src.calls)
	}
}

func TestCachedHistoryWritesThroughToBarStore(t *testing.T) {
	src := &fakeProvider{name: "src", history: series("AAPL", 1, 2, 3, 4)}
	chain := NewChain([]Provider{src}, 0, 0)
	bars := newFakeBarStore()

	cached := NewCached(chain, nil, bars)
	s, err := cached.History(context.Background(), "AAPL", 4)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if s.Len() != 4 {
		t.Fatalf("expected 4 bars, got %d", s.Len())
	}
	if len(bars.stored["AAPL"]) != 4 {
		t.Fatalf("expected write-through of 4 bars, got %d", len(bars.stored["AAPL"]))
	}
}

func TestCachedHistoryFallsBackToBarStore(t *testing.T) {
	src := &fakeProvider{name: "src", err: errors.New("provider down")}
	chain := NewChain([]Provider{src}, 0, 0)
	bars := newFakeBarStore()
	bars.stored["AAPL"] = series("AAPL", 5, 6, 7).Bars

	cached := NewCached(chain, nil, bars)
	s, err := cached.History(context.Background(), "AAPL", 3)
	if err != nil {
		t.Fatalf("expected bar store fallback, got error: %v", err)
	}
	if s.Source != "barstore" {
		t.Fatalf("expected barstore source, got %q", s.Source)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 bars, got %d", s.Len())
	}
}
