package marketdata

import (
	"context"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Yahoo fetches quotes and daily series from the Yahoo Finance chart API.
type Yahoo struct {
	baseURL string
	client  *xhttp.Client
}

// NewYahoo creates a Yahoo Finance provider.
func NewYahoo(timeout time.Duration) *Yahoo {
	return &Yahoo{
		baseURL: yahooChartURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (p *Yahoo) SetBaseURL(u string) { p.baseURL = u }

func (p *Yahoo) Name() string { return "yahoo" }

type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (p *Yahoo) fetchChart(ctx context.Context, symbol, rng string) (*yahooChart, error) {
	var resp yahooChart
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/%s", p.baseURL, symbol),
		QueryParams: map[string][]string{
			"range":    {rng},
			"interval": {"1d"},
		},
		Headers: map[string]string{
			"User-Agent": "stockcast/1.0",
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart: %w", err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart: %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart: empty result for %s", symbol)
	}
	return &resp, nil
}

func (p *Yahoo) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	resp, err := p.fetchChart(ctx, symbol, "5d")
	if err != nil {
		return nil, err
	}
	res := resp.Chart.Result[0]
	price := res.Meta.RegularMarketPrice
	if price == 0 {
		return nil, fmt.Errorf("yahoo quote: no market price for %s", symbol)
	}

	prev := res.Meta.PreviousClose
	change := 0.0
	changePct := 0.0
	if prev != 0 {
		change = price - prev
		changePct = change / prev * 100
	}
	var volume int64
	if q := res.Indicators.Quote; len(q) > 0 && len(q[0].Volume) > 0 {
		volume = int64(q[0].Volume[len(q[0].Volume)-1])
	}
	tradingDay := ""
	if res.Meta.RegularMarketTime > 0 {
		tradingDay = time.Unix(res.Meta.RegularMarketTime, 0).UTC().Format("2006-01-02")
	}

	return &models.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		Volume:        volume,
		TradingDay:    tradingDay,
		Source:        p.Name(),
	}, nil
}

func (p *Yahoo) History(ctx context.Context, symbol string, days int) (*models.PriceSeries, error) {
	resp, err := p.fetchChart(ctx, symbol, rangeForDays(days))
	if err != nil {
		return nil, err
	}
	res := resp.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo history: no quote block for %s", symbol)
	}
	q := res.Indicators.Quote[0]
	if len(res.Timestamp) == 0 || len(q.Close) != len(res.Timestamp) {
		return nil, fmt.Errorf("yahoo history: malformed series for %s", symbol)
	}

	bars := make([]models.Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if q.Close[i] == 0 {
			continue // missing bar
		}
		bar := models.Bar{
			Day:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: q.Close[i],
		}
		if i < len(q.Open) {
			bar.Open = q.Open[i]
		}
		if i < len(q.High) {
			bar.High = q.High[i]
		}
		if i < len(q.Low) {
			bar.Low = q.Low[i]
		}
		if i < len(q.Volume) {
			bar.Volume = q.Volume[i]
		}
		bars = append(bars, bar)
	}
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return &models.PriceSeries{Symbol: symbol, Bars: bars, Source: p.Name()}, nil
}

func rangeForDays(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	default:
		return "1y"
	}
}

var _ Provider = (*Yahoo)(nil)
