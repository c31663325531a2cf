package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	pkgch "StockCast/pkg/clickhouse"
	applogger "StockCast/pkg/logger"
)

const barsTable = "stockcast.daily_bars"

// CHBarStore implements BarStore backed by ClickHouse. It acts as a durable
// second-level cache behind the market-data provider chain.
type CHBarStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client) *CHBarStore {
	return &CHBarStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHBarStore) StoreBars(ctx context.Context, symbol string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	start := time.Now()

	values := make([]string, 0, len(bars))
	args := make([]interface{}, 0, len(bars)*7)
	for _, b := range bars {
		if b.Day.IsZero() {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, symbol, b.Day, b.Open, b.High, b.Low, b.Close, b.Volume)
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf("INSERT INTO %s (symbol, day, open, high, low, close, volume) VALUES %s",
		barsTable, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_bars error",
				applogger.String("symbol", symbol),
				applogger.Int("rows", len(values)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store bars: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse store_bars ok",
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(values)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHBarStore) LoadBars(ctx context.Context, symbol string, days int) ([]models.Bar, error) {
	start := time.Now()
	const qtpl = `
        SELECT day, max(open), max(high), min(low), argMax(close, day), max(volume)
        FROM %s
        WHERE symbol = ?
        GROUP BY day
        ORDER BY day DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, barsTable)
	rows, err := s.db.QueryContext(ctx, q, symbol, days)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse load_bars query error",
				applogger.String("symbol", symbol),
				applogger.Int("limit", days),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("load bars: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.Bar, 0, days)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Day, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse load_bars scan error",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		tmp = append(tmp, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to chronological order
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Info("clickhouse load_bars ok",
			applogger.String("symbol", symbol),
			applogger.Int("limit", days),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

func (s *CHBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHBarStore) Close() error {
	return nil // connection pool is managed by pkg/clickhouse
}

var _ domrepo.BarStore = (*CHBarStore)(nil)
