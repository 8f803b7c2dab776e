package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes a series of per-frame values.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	P95    float64
}

// Summarize computes descriptive statistics. An empty series yields the zero Summary.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	sorted := append([]float64(nil), xs...)
	floats.Argsort(sorted, make([]int, len(sorted)))

	s := Summary{
		N:    len(xs),
		Mean: stat.Mean(xs, nil),
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		P95:  stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	if math.IsNaN(s.StdDev) {
		s.StdDev = 0
	}
	return s
}
