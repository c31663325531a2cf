package regression

import (
	"math"
	"testing"
)

func TestFitRecoversLinearRelation(t *testing.T) {
	// y = 3 + 2*x1 - 0.5*x2, exact fit expected
	X := [][]float64{
		{1, 2}, {2, 1}, {3, 5}, {4, 2}, {5, 9}, {6, 4}, {7, 7}, {8, 1},
	}
	y := make([]float64, len(X))
	for i, row := range X {
		y[i] = 3 + 2*row[0] - 0.5*row[1]
	}

	m, err := Fit(X, y)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if math.Abs(m.Intercept-3) > 1e-6 {
		t.Fatalf("intercept %v, want 3", m.Intercept)
	}
	if math.Abs(m.Weights[0]-2) > 1e-6 || math.Abs(m.Weights[1]+0.5) > 1e-6 {
		t.Fatalf("weights %v, want [2 -0.5]", m.Weights)
	}
	if r2 := m.Score(X, y); math.Abs(r2-1) > 1e-9 {
		t.Fatalf("R² %v, want 1", r2)
	}
}

func TestFitConstantFeatures(t *testing.T) {
	// collinear/constant column: ridge keeps the system solvable
	X := [][]float64{{1, 7}, {2, 7}, {3, 7}, {4, 7}, {5, 7}}
	y := []float64{2, 4, 6, 8, 10}
	m, err := Fit(X, y)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	for i, row := range X {
		if math.Abs(m.Predict(row)-y[i]) > 1e-4 {
			t.Fatalf("row %d: predicted %v, want %v", i, m.Predict(row), y[i])
		}
	}
}

func TestFitDimensionMismatch(t *testing.T) {
	if _, err := Fit([][]float64{{1}}, []float64{1, 2}); err == nil {
		t.Fatal("expected error on length mismatch")
	}
	if _, err := Fit(nil, nil); err == nil {
		t.Fatal("expected error on empty input")
	}
}

func TestStandardizerZeroMeanUnitVariance(t *testing.T) {
	X := [][]float64{{1, 100}, {2, 200}, {3, 300}, {4, 400}}
	s := FitStandardizer(X)
	Z := s.Transform(X)

	for j := 0; j < 2; j++ {
		var mean, variance float64
		for _, row := range Z {
			mean += row[j]
		}
		mean /= float64(len(Z))
		for _, row := range Z {
			d := row[j] - mean
			variance += d * d
		}
		variance /= float64(len(Z))
		if math.Abs(mean) > 1e-9 {
			t.Fatalf("col %d: mean %v, want 0", j, mean)
		}
		if math.Abs(variance-1) > 1e-9 {
			t.Fatalf("col %d: variance %v, want 1", j, variance)
		}
	}
}

func TestStandardizerConstantColumn(t *testing.T) {
	X := [][]float64{{5}, {5}, {5}}
	s := FitStandardizer(X)
	if s.Scales[0] != 1 {
		t.Fatalf("scale %v, want fallback 1", s.Scales[0])
	}
	if got := s.TransformRow([]float64{5})[0]; got != 0 {
		t.Fatalf("transform %v, want 0", got)
	}
}

func TestStandardizerFitIgnoresOtherRows(t *testing.T) {
	// fitting on the train split only: statistics must not depend on
	// rows the standardizer never saw
	train := [][]float64{{1}, {2}, {3}, {4}}
	s1 := FitStandardizer(train)
	s2 := FitStandardizer(train)
	s2.TransformRow([]float64{1e9}) // applying to unseen data changes nothing
	if s1.Means[0] != s2.Means[0] || s1.Scales[0] != s2.Scales[0] {
		t.Fatalf("statistics changed: %+v vs %+v", s1, s2)
	}
}
