package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

const alphaVantageURL = "https://www.alphavantage.co/query"

// AlphaVantage fetches quotes and daily series from the Alpha Vantage
// REST API.
type AlphaVantage struct {
	apiKey  string
	baseURL string
	client  *xhttp.Client
}

// NewAlphaVantage creates an Alpha Vantage provider.
func NewAlphaVantage(apiKey string, timeout time.Duration) *AlphaVantage {
	return &AlphaVantage{
		apiKey:  apiKey,
		baseURL: alphaVantageURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (p *AlphaVantage) SetBaseURL(u string) { p.baseURL = u }

func (p *AlphaVantage) Name() string { return "alphavantage" }

type avGlobalQuote struct {
	GlobalQuote struct {
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		TradingDay    string `json:"07. latest trading day"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
	Note string `json:"Note"`
}

func (p *AlphaVantage) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var resp avGlobalQuote
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL,
		QueryParams: map[string][]string{
			"function": {"GLOBAL_QUOTE"},
			"symbol":   {symbol},
			"apikey":   {p.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("alphavantage quote: %w", err)
	}
	if resp.Note != "" {
		return nil, fmt.Errorf("alphavantage quote: rate limited: %s", resp.Note)
	}
	if resp.GlobalQuote.Price == "" {
		return nil, fmt.Errorf("alphavantage quote: empty response for %s", symbol)
	}

	price, err := strconv.ParseFloat(resp.GlobalQuote.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("alphavantage quote: parse price %q: %w", resp.GlobalQuote.Price, err)
	}
	change, _ := strconv.ParseFloat(resp.GlobalQuote.Change, 64)
	changePct, _ := strconv.ParseFloat(strings.TrimSuffix(resp.GlobalQuote.ChangePercent, "%"), 64)
	volume, _ := strconv.ParseInt(resp.GlobalQuote.Volume, 10, 64)

	return &models.Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		Volume:        volume,
		TradingDay:    resp.GlobalQuote.TradingDay,
		Source:        p.Name(),
	}, nil
}

type avDailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type avDailySeries struct {
	TimeSeries map[string]avDailyBar `json:"Time Series (Daily)"`
	Note       string                `json:"Note"`
}

func (p *AlphaVantage) History(ctx context.Context, symbol string, days int) (*models.PriceSeries, error) {
	var resp avDailySeries
	err := p.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    p.baseURL,
		QueryParams: map[string][]string{
			"function":   {"TIME_SERIES_DAILY"},
			"symbol":     {symbol},
			"outputsize": {"compact"},
			"apikey":     {p.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("alphavantage history: %w", err)
	}
	if resp.Note != "" {
		return nil, fmt.Errorf("alphavantage history: rate limited: %s", resp.Note)
	}
	if len(resp.TimeSeries) == 0 {
		return nil, fmt.Errorf("alphavantage history: empty series for %s", symbol)
	}

	dates := make([]string, 0, len(resp.TimeSeries))
	for d := range resp.TimeSeries {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > days {
		dates = dates[len(dates)-days:]
	}

	bars := make([]models.Bar, 0, len(dates))
	for _, d := range dates {
		raw := resp.TimeSeries[d]
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			continue
		}
		open, _ := strconv.ParseFloat(raw.Open, 64)
		high, _ := strconv.ParseFloat(raw.High, 64)
		low, _ := strconv.ParseFloat(raw.Low, 64)
		closePrice, err := strconv.ParseFloat(raw.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("alphavantage history: parse close %q: %w", raw.Close, err)
		}
		volume, _ := strconv.ParseFloat(raw.Volume, 64)
		bars = append(bars, models.Bar{
			Day: day, Open: open, High: high, Low: low, Close: closePrice, Volume: volume,
		})
	}
	return &models.PriceSeries{Symbol: symbol, Bars: bars, Source: p.Name()}, nil
}

var _ Provider = (*AlphaVantage)(nil)
