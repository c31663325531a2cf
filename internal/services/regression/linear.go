package regression

import (
	"fmt"
	"math"
)

// Linear is an ordinary least-squares regression model.
type Linear struct {
	Weights   []float64
	Intercept float64
}

// Fit solves the OLS normal equations for X (n rows, p features) and y.
// An intercept column is added internally; the system is solved with
// Gaussian elimination and partial pivoting. A tiny ridge term keeps the
// system solvable when features are collinear (constant series).
func Fit(X [][]float64, y []float64) (*Linear, error) {
	n := len(X)
	if n == 0 || n != len(y) {
		return nil, fmt.Errorf("regression: need matching non-empty X (%d) and y (%d)", n, len(y))
	}
	p := len(X[0]) + 1 // +1 intercept

	// Build A = XᵀX and b = Xᵀy over the augmented design matrix.
	a := make([][]float64, p)
	for i := range a {
		a[i] = make([]float64, p)
	}
	b := make([]float64, p)
	row := make([]float64, p)
	for i := 0; i < n; i++ {
		row[0] = 1
		copy(row[1:], X[i])
		for j := 0; j < p; j++ {
			for k := j; k < p; k++ {
				a[j][k] += row[j] * row[k]
			}
			b[j] += row[j] * y[i]
		}
	}
	for j := 0; j < p; j++ {
		for k := 0; k < j; k++ {
			a[j][k] = a[k][j]
		}
		a[j][j] += 1e-10 // ridge against singular XᵀX
	}

	w, err := solve(a, b)
	if err != nil {
		return nil, err
	}
	return &Linear{Intercept: w[0], Weights: w[1:]}, nil
}

// Predict evaluates the model on a single feature row.
func (m *Linear) Predict(row []float64) float64 {
	out := m.Intercept
	for j, w := range m.Weights {
		out += w * row[j]
	}
	return out
}

// Score returns the coefficient of determination R² on (X, y).
// A constant target yields 1 when predictions are exact, else 0.
func (m *Linear) Score(X [][]float64, y []float64) float64 {
	if len(X) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range y {
		mean += v
	}
	mean /= float64(len(y))

	var ssRes, ssTot float64
	for i, row := range X {
		d := y[i] - m.Predict(row)
		ssRes += d * d
		t := y[i] - mean
		ssTot += t * t
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// solve performs Gaussian elimination with partial pivoting on a copy of
// the inputs.
func solve(a [][]float64, b []float64) ([]float64, error) {
	p := len(a)
	m := make([][]float64, p)
	for i := range m {
		m[i] = append(append([]float64(nil), a[i]...), b[i])
	}

	for col := 0; col < p; col++ {
		pivot := col
		for r := col + 1; r < p; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-14 {
			return nil, fmt.Errorf("regression: singular system at column %d", col)
		}
		m[col], m[pivot] = m[pivot], m[col]

		for r := col + 1; r < p; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c <= p; c++ {
				m[r][c] -= f * m[col][c]
			}
		}
	}

	out := make([]float64, p)
	for r := p - 1; r >= 0; r-- {
		sum := m[r][p]
		for c := r + 1; c < p; c++ {
			sum -= m[r][c] * out[c]
		}
		out[r] = sum / m[r][r]
	}
	return out, nil
}
