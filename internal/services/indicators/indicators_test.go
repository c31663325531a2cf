package indicators

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMAConstantSeries(t *testing.T) {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 123.45
	}
	for _, window := range []int{1, 5, 10, 14} {
		out := SMA(prices, window)
		if len(out) != len(prices) {
			t.Fatalf("window %d: got len %d, want %d", window, len(out), len(prices))
		}
		for i, v := range out {
			if !almostEqual(v, 123.45) {
				t.Fatalf("window %d idx %d: got %v, want 123.45", window, i, v)
			}
		}
	}
}

func TestSMAExpandingWindow(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	out := SMA(prices, 3)
	want := []float64{1, 1.5, 2, 3, 4}
	for i := range want {
		if !almostEqual(out[i], want[i]) {
			t.Fatalf("idx %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestRSIFirstValueNeutral(t *testing.T) {
	out := RSI([]float64{100, 101, 102}, 14)
	if out[0] != 50 {
		t.Fatalf("first value: got %v, want 50", out[0])
	}
}

func TestRSIMonotonicIncrease(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	out := RSI(prices, 14)
	for i, v := range out {
		if v < 0 || v > 100 {
			t.Fatalf("idx %d: RSI %v out of [0,100]", i, v)
		}
	}
	// losses are zero everywhere past the first delta
	for i := 1; i < len(out); i++ {
		if out[i] != 100 {
			t.Fatalf("idx %d: got %v, want 100 for monotonic gains", i, out[i])
		}
	}
}

func TestRSIMonotonicDecrease(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 - float64(i)
	}
	out := RSI(prices, 14)
	for i := 1; i < len(out); i++ {
		if out[i] < 0 || out[i] > 100 {
			t.Fatalf("idx %d: RSI %v out of [0,100]", i, out[i])
		}
		if out[i] != 0 {
			t.Fatalf("idx %d: got %v, want 0 for monotonic losses", i, out[i])
		}
	}
}

func TestRSIFlatSeriesNeutral(t *testing.T) {
	prices := []float64{50, 50, 50, 50, 50}
	out := RSI(prices, 14)
	for i, v := range out {
		if v != 50 {
			t.Fatalf("idx %d: got %v, want 50 for flat series", i, v)
		}
	}
}

func TestRSISameLengthAsInput(t *testing.T) {
	for _, n := range []int{0, 1, 2, 15, 100} {
		prices := make([]float64, n)
		for i := range prices {
			prices[i] = float64(i%7) + 10
		}
		if got := len(RSI(prices, 14)); got != n {
			t.Fatalf("len %d: got %d", n, got)
		}
	}
}
