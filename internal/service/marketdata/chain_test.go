package marketdata

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
)

type fakeProvider struct {
	name    string
	quote   *models.Quote
	history *models.PriceSeries
	err     error
	calls   int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

func (f *fakeProvider) History(ctx context.Context, symbol string, days int) (*models.PriceSeries, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

func series(symbol string, closes ...float64) *models.PriceSeries {
	bars := make([]models.Bar, len(closes))
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = models.Bar{Day: day.AddDate(0, 0, i), Close: c}
	}
	return &models.PriceSeries{Symbol: symbol, Bars: bars, Source: "fake"}
}

func TestChainFirstProviderWins(t *testing.T) {
	first := &fakeProvider{name: "first", quote: &models.Quote{Symbol: "AAPL", Price: 190, Source: "first"}}
	second := &fakeProvider{name: "second", quote: &models.Quote{Symbol: "AAPL", Price: 1, Source: "second"}}

	chain := NewChain([]Provider{first, second}, 0, time.Second)
	q, err := chain.Quote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Source != "first" {
		t.Fatalf("expected first provider to serve, got %q", q.Source)
	}
	if second.calls != 0 {
		t.Fatalf("second provider should not have been called, got %d calls", second.calls)
	}
}

func TestChainFallsThroughOnFailure(t *testing.T) {
	first := &fakeProvider{name: "first", err: errors.New("upstream down")}
	second := &fakeProvider{name: "second", quote: &models.Quote{Symbol: "AAPL", Price: 190, Source: "second"}}

	chain := NewChain([]Provider{first, second}, 0, time.Second)
	q, attempts, err := chain.QuoteAttempts(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("QuoteAttempts: %v", err)
	}
	if q.Source != "second" {
		t.Fatalf("expected fallback provider, got %q", q.Source)
	}
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].OK || !attempts[1].OK {
		t.Fatalf("unexpected attempt trail: %+v", attempts)
	}
}

func TestChainAllProvidersFail(t *testing.T) {
	first := &fakeProvider{name: "first", err: errors.New("down")}
	second := &fakeProvider{name: "second", err: errors.New("also down")}

	chain := NewChain([]Provider{first, second}, 0, time.Second)
	_, err := chain.Quote(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if !errors.Is(err, domrepo.ErrQuoteUnavailable) {
		t.Fatalf("expected ErrQuoteUnavailable, got %v", err)
	}
}

func TestChainHistoryFallback(t *testing.T) {
	first := &fakeProvider{name: "first", err: errors.New("down")}
	second := &fakeProvider{name: "second", history: series("AAPL", 1, 2, 3)}

	chain := NewChain([]Provider{first, second}, 0, time.Second)
	s, err := chain.History(context.Background(), "AAPL", 3)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 bars, got %d", s.Len())
	}
}

func TestMockProviderDeterministic(t *testing.T) {
	m := NewMock()
	q1, err := m.Quote(context.Background(), "TCS.NS")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	q2, _ := m.Quote(context.Background(), "TCS.NS")
	if q1.Price != q2.Price {
		t.Fatalf("mock quotes should be deterministic: %f vs %f", q1.Price, q2.Price)
	}

	s, err := m.History(context.Background(), "TCS.NS", 90)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if s.Len() != 90 {
		t.Fatalf("expected 90 bars, got %d", s.Len())
	}
	for i := 1; i < s.Len(); i++ {
		if !s.Bars[i].Day.After(s.Bars[i-1].Day) {
			t.Fatalf("bars not in chronological order at index %d", i)
		}
	}
}
