package indicators

// SMA computes a simple moving average over a trailing window. Near the
// start of the series the window expands (mean of everything seen so far),
// so the output has the same length as the input with no undefined values.
func SMA(prices []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		n := window
		if i+1 < window {
			n = i + 1
		} else if i >= window {
			sum -= prices[i-window]
		}
		out[i] = sum / float64(n)
	}
	return out
}

// RSI computes the Relative Strength Index over the given period, smoothing
// gains and losses with the same expanding-window moving average as SMA.
//
// Division-by-zero policy: the first value (no prior delta) is neutral 50;
// when the average loss is zero and the average gain is positive RSI is 100;
// when both averages are zero RSI is 50.
func RSI(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if len(prices) == 0 {
		return out
	}
	if period < 1 {
		period = 1
	}

	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	avgGain := SMA(gains, period)
	avgLoss := SMA(losses, period)

	out[0] = 50
	for i := 1; i < len(prices); i++ {
		switch {
		case avgLoss[i] == 0 && avgGain[i] == 0:
			out[i] = 50
		case avgLoss[i] == 0:
			out[i] = 100
		default:
			rs := avgGain[i] / avgLoss[i]
			out[i] = 100 - 100/(1+rs)
		}
	}
	return out
}
