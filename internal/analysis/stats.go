package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ColumnStats holds first/second moments and skew of one column.
type ColumnStats struct {
	Count int
	Mean  float64
	Std   float64
	Skew  float64
}

// Describe computes count, mean, sample standard deviation and adjusted
// Fisher-Pearson skewness. Std is 0 for a single value; Skew is NaN below
// three values and 0 when every value is equal. NaN or infinite inputs
// propagate into the result rather than being skipped.
func Describe(vals []float64) ColumnStats {
	s := ColumnStats{Count: len(vals), Skew: math.NaN()}
	switch len(vals) {
	case 0:
		s.Mean = math.NaN()
		s.Std = math.NaN()
		return s
	case 1:
		s.Mean = vals[0]
		if math.IsNaN(vals[0]) || math.IsInf(vals[0], 0) {
			s.Std = math.NaN()
		}
		return s
	}
	s.Mean = stat.Mean(vals, nil)
	s.Std = stat.StdDev(vals, nil)
	if len(vals) >= 3 {
		if s.Std == 0 {
			s.Skew = 0
		} else {
			s.Skew = stat.Skew(vals, nil)
		}
	}
	return s
}
