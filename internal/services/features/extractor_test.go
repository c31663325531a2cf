package features

import (
	"errors"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
)

func seriesOfLen(n int) *models.PriceSeries {
	bars := make([]models.Bar, n)
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.Bar{Day: day.AddDate(0, 0, i), Close: 100 + float64(i%9)}
	}
	return &models.PriceSeries{Symbol: "TEST", Bars: bars}
}

func TestPrepareRowCount(t *testing.T) {
	cases := []struct {
		length int
		rows   int
		ok     bool
	}{
		{30, 19, false}, // one short of the minimum
		{31, 20, true},
		{90, 79, true},
	}
	for _, tc := range cases {
		X, y, err := Prepare(seriesOfLen(tc.length))
		if !tc.ok {
			if !errors.Is(err, domrepo.ErrInsufficientData) {
				t.Fatalf("len %d: expected ErrInsufficientData, got %v", tc.length, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("len %d: unexpected error %v", tc.length, err)
		}
		if len(X) != tc.rows || len(y) != tc.rows {
			t.Fatalf("len %d: got %d/%d rows, want %d", tc.length, len(X), len(y), tc.rows)
		}
	}
}

func TestPrepareTargetIsNextClose(t *testing.T) {
	s := seriesOfLen(40)
	X, y, err := Prepare(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closes := s.Closes()
	for i := range X {
		if X[i][0] != closes[10+i] {
			t.Fatalf("row %d: close feature %v, want %v", i, X[i][0], closes[10+i])
		}
		if y[i] != closes[10+i+1] {
			t.Fatalf("row %d: target %v, want %v", i, y[i], closes[10+i+1])
		}
		if len(X[i]) != len(Names()) {
			t.Fatalf("row %d: width %d, want %d", i, len(X[i]), len(Names()))
		}
	}
}

func TestLatestMatchesLastRow(t *testing.T) {
	s := seriesOfLen(40)
	row, snap, err := Latest(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	closes := s.Closes()
	if row[0] != closes[len(closes)-1] {
		t.Fatalf("close feature %v, want %v", row[0], closes[len(closes)-1])
	}
	if row[1] != snap.SMA5 || row[2] != snap.SMA10 || row[3] != snap.RSI14 {
		t.Fatalf("snapshot %+v does not match row %v", snap, row)
	}
}

func TestLatestEmptySeries(t *testing.T) {
	_, _, err := Latest(&models.PriceSeries{Symbol: "TEST"})
	if !errors.Is(err, domrepo.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}
