package timeseries

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 5.0, Mean([]float64{5}))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-12)
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{7}))

	// Sample std dev of {2, 4, 4, 4, 5, 5, 7, 9} with n-1 denominator.
	got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, math.Sqrt(32.0/7.0), got, 1e-12)

	assert.Equal(t, 0.0, StdDev([]float64{3, 3, 3, 3}))
}

func TestQuantile(t *testing.T) {
	values := []float64{4, 1, 3, 2}

	assert.Equal(t, 1.0, Quantile(values, 0))
	assert.Equal(t, 4.0, Quantile(values, 1))
	assert.InDelta(t, 2.5, Quantile(values, 0.5), 1e-12)
	assert.InDelta(t, 1.75, Quantile(values, 0.25), 1e-12)
	assert.InDelta(t, 3.25, Quantile(values, 0.75), 1e-12)

	// Input order must not matter and the input must stay untouched.
	assert.Equal(t, []float64{4, 1, 3, 2}, values)

	assert.Equal(t, 0.0, Quantile(nil, 0.5))
}

func TestSkewness(t *testing.T) {
	assert.Equal(t, 0.0, Skewness([]float64{1, 2}))
	assert.Equal(t, 0.0, Skewness([]float64{5, 5, 5, 5}))

	// Symmetric data has zero skewness.
	assert.InDelta(t, 0.0, Skewness([]float64{1, 2, 3, 4, 5}), 1e-12)

	// A long right tail is positively skewed.
	assert.Greater(t, Skewness([]float64{1, 1, 1, 1, 1, 1, 1, 10}), 1.0)

	// A long left tail is negatively skewed.
	assert.Less(t, Skewness([]float64{10, 10, 10, 10, 10, 10, 10, 1}), -1.0)
}

func TestMAPE(t *testing.T) {
	assert.InDelta(t, 0.0, MAPE([]float64{10, 20}, []float64{10, 20}), 1e-12)

	// |10-12|/10 = 0.2, |20-18|/20 = 0.1 -> mean 0.15.
	assert.InDelta(t, 0.15, MAPE([]float64{10, 20}, []float64{12, 18}), 1e-12)

	// Zero actuals are skipped, not divided by.
	assert.InDelta(t, 0.2, MAPE([]float64{0, 10}, []float64{99, 12}), 1e-12)
}

func TestMAPEInfinite(t *testing.T) {
	assert.True(t, math.IsInf(MAPE(nil, nil), 1))
	assert.True(t, math.IsInf(MAPE([]float64{1, 2}, []float64{1}), 1))
	assert.True(t, math.IsInf(MAPE([]float64{0, 0, 0}, []float64{1, 2, 3}), 1))
}
