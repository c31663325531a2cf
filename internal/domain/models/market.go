package models

import "time"

// Quote is a point-in-time snapshot of a traded symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	TradingDay    string  `json:"latest_trading_day"`
	Source        string  `json:"source"`
}

// Bar represents one daily OHLCV record.
type Bar struct {
	Day    time.Time `json:"day"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is a chronologically ordered daily price history for one symbol.
// It is immutable once fetched; callers own it for the duration of a request.
type PriceSeries struct {
	Symbol string `json:"symbol"`
	Bars   []Bar  `json:"bars"`
	Source string `json:"source"`
}

// Closes returns the close prices in chronological order.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Dates returns bar days formatted as YYYY-MM-DD.
func (s *PriceSeries) Dates() []string {
	out := make([]string, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Day.Format("2006-01-02")
	}
	return out
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }
