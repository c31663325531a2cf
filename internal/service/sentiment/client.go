// Package sentiment talks to the external news-sentiment service over HTTP.
package sentiment

import (
	"context"
	"net/http"
	"time"

	"StockCast/internal/domain/models"
	domservice "StockCast/internal/domain/service"
	xhttp "StockCast/pkg/http"
	applogger "StockCast/pkg/logger"
)

// Client fetches aggregate news sentiment for a symbol. When the upstream is
// unreachable and fallback is enabled, it serves a neutral zero-score result
// instead of failing the whole analysis.
type Client struct {
	baseURL         string
	client          *xhttp.Client
	neutralFallback bool
	l               *applogger.Logger
}

type Option func(*Client)

// WithNeutralFallback makes upstream failures degrade to a neutral sentiment.
func WithNeutralFallback(enabled bool) Option {
	return func(c *Client) { c.neutralFallback = enabled }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client = xhttp.NewClient(xhttp.WithTimeout(d)) }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(10 * time.Second)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger injects a structured logger.
func (c *Client) SetLogger(l *applogger.Logger) { c.l = l }

type sentimentResponse struct {
	Label         string  `json:"label"`
	Score         float64 `json:"score"`
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
	NeutralCount  int     `json:"neutral_count"`
}

func (c *Client) Sentiment(ctx context.Context, symbol, companyName string) (*models.Sentiment, error) {
	var resp sentimentResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: http.MethodGet,
		URL:    c.baseURL + "/sentiment",
		QueryParams: map[string][]string{
			"symbol":  {symbol},
			"company": {companyName},
		},
	}, &resp)
	if err != nil {
		if !c.neutralFallback {
			return nil, err
		}
		if c.l != nil {
			c.l.Warn("sentiment service unavailable, using neutral fallback",
				applogger.String("symbol", symbol), applogger.Error(err))
		}
		return Neutral(), nil
	}

	return &models.Sentiment{
		Label:         resp.Label,
		Score:         resp.Score,
		PositiveCount: resp.PositiveCount,
		NegativeCount: resp.NegativeCount,
		NeutralCount:  resp.NeutralCount,
	}, nil
}

// Neutral is the zero-information sentiment used when no news data exists.
func Neutral() *models.Sentiment {
	return &models.Sentiment{Label: "neutral", Score: 0}
}

var _ domservice.SentimentProvider = (*Client)(nil)
