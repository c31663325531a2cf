// Package nlquery talks to the external natural-language query parser.
package nlquery

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"StockCast/internal/domain/models"
	domservice "StockCast/internal/domain/service"
	xhttp "StockCast/pkg/http"
)

// Client parses free-text investment questions into structured queries.
type Client struct {
	baseURL string
	client  *xhttp.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type parseResponse struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Intent      string `json:"intent"`
	Quantity    int    `json:"quantity"`
}

func (c *Client) Parse(ctx context.Context, text string) (*models.ParsedQuery, error) {
	var resp parseResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: http.MethodPost,
		URL:    c.baseURL + "/parse",
		Body:   map[string]string{"text": text},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("parse query: %w", err)
	}
	if strings.TrimSpace(resp.Symbol) == "" {
		return nil, fmt.Errorf("parse query: no symbol recognized in %q", text)
	}

	return &models.ParsedQuery{
		Symbol:      strings.ToUpper(resp.Symbol),
		CompanyName: resp.CompanyName,
		Intent:      resp.Intent,
		Quantity:    resp.Quantity,
	}, nil
}

var _ domservice.QueryParser = (*Client)(nil)
