package service

import (
	"context"

	"StockCast/internal/domain/models"
)

// SentimentProvider aggregates news sentiment for a symbol.
type SentimentProvider interface {
	Sentiment(ctx context.Context, symbol, companyName string) (*models.Sentiment, error)
}

// QueryParser turns a free-text user request into a structured query.
type QueryParser interface {
	Parse(ctx context.Context, text string) (*models.ParsedQuery, error)
}
