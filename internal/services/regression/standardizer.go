package regression

import "math"

// Standardizer is a per-feature linear transform (subtract mean, divide by
// standard deviation) fit on training data only and applied identically at
// inference time.
type Standardizer struct {
	Means  []float64
	Scales []float64
}

// FitStandardizer computes per-column mean and population standard
// deviation over X. Columns with zero variance get scale 1 so transformed
// values stay finite.
func FitStandardizer(X [][]float64) *Standardizer {
	if len(X) == 0 {
		return &Standardizer{}
	}
	cols := len(X[0])
	means := make([]float64, cols)
	scales := make([]float64, cols)
	n := float64(len(X))

	for _, row := range X {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= n
	}
	for _, row := range X {
		for j, v := range row {
			d := v - means[j]
			scales[j] += d * d
		}
	}
	for j := range scales {
		scales[j] = math.Sqrt(scales[j] / n)
		if scales[j] == 0 {
			scales[j] = 1
		}
	}
	return &Standardizer{Means: means, Scales: scales}
}

// Transform returns a standardized copy of X.
func (s *Standardizer) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		out[i] = s.TransformRow(row)
	}
	return out
}

// TransformRow standardizes a single feature row.
func (s *Standardizer) TransformRow(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = (v - s.Means[j]) / s.Scales[j]
	}
	return out
}
