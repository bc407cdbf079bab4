package forecaster

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/domain"
	"github.com/stocksight/trendwise/internal/timeseries"
)

func TestFitTrendFlatSeries(t *testing.T) {
	cfg := config.DefaultForecast()
	train := flatSeries(60, 10)

	model, err := fitTrend(train, cfg)
	require.NoError(t, err)
	assert.Equal(t, domain.KindTrend, model.Kind)
	require.NotNil(t, model.Trend)

	// A flat series is fit exactly with a zero-penalty solution, so the
	// residual spread collapses.
	assert.InDelta(t, 0, model.Trend.Sigma, 1e-6)

	mean, lower, upper := model.Trend.Predict(train.FutureDates(5))
	for i := range mean {
		assert.InDelta(t, 10, mean[i], 1e-6)
		assert.InDelta(t, mean[i], lower[i], 1e-5)
		assert.InDelta(t, mean[i], upper[i], 1e-5)
	}
}

func TestFitTrendRecoversLinearTrend(t *testing.T) {
	cfg := config.DefaultForecast()

	values := make([]float64, 150)
	for i := range values {
		values[i] = 2 + 0.5*float64(i)
	}
	train := dailySeries(values...)

	model, err := fitTrend(train, cfg)
	require.NoError(t, err)

	mean, _, _ := model.Trend.Predict(train.FutureDates(3))
	for i, want := range []float64{77, 77.5, 78} {
		assert.InDelta(t, want, mean[i], 1e-4)
	}
}

func TestFitTrendTooShort(t *testing.T) {
	_, err := fitTrend(flatSeries(13, 5), config.DefaultForecast())
	assert.Error(t, err)
}

func TestFitTrendWeeklySeriesSkipsSeasonality(t *testing.T) {
	cfg := config.DefaultForecast()

	values := make([]float64, 20)
	s := &timeseries.Series{Interval: timeseries.Weekly}
	for i := range values {
		s.Dates = append(s.Dates, day(7*i))
		s.Values = append(s.Values, 5)
	}

	model, err := fitTrend(s, cfg)
	require.NoError(t, err)
	assert.False(t, model.Trend.Weekly)

	// 2 base terms plus no changepoints (20/30 == 0) and no weekday terms.
	assert.Len(t, model.Trend.Theta, 2)
}

func TestPredictIntervalWidth(t *testing.T) {
	p := &TrendParams{
		Theta:    []float64{10, 0},
		Weekly:   false,
		Origin:   day(0),
		Span:     99,
		Sigma:    2,
		Z:        1.2816,
		Interval: timeseries.Daily,
	}

	mean, lower, upper := p.Predict([]time.Time{day(100)})
	assert.InDelta(t, 10, mean[0], 1e-12)
	assert.InDelta(t, 10-1.2816*2, lower[0], 1e-12)
	assert.InDelta(t, 10+1.2816*2, upper[0], 1e-12)
}

func TestSolveLinearSystem(t *testing.T) {
	a := [][]float64{
		{2, 1},
		{1, 3},
	}
	b := []float64{5, 10}

	x, err := solveLinearSystem(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1, x[0], 1e-12)
	assert.InDelta(t, 3, x[1], 1e-12)
}

func TestSolveLinearSystemNeedsPivoting(t *testing.T) {
	// Zero on the diagonal forces a row swap.
	a := [][]float64{
		{0, 1},
		{1, 0},
	}
	b := []float64{2, 3}

	x, err := solveLinearSystem(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 3, x[0], 1e-12)
	assert.InDelta(t, 2, x[1], 1e-12)
}

func TestSolveLinearSystemSingular(t *testing.T) {
	a := [][]float64{
		{1, 2},
		{2, 4},
	}
	_, err := solveLinearSystem(a, []float64{1, 2})
	assert.Error(t, err)
}

func TestZScore(t *testing.T) {
	assert.InDelta(t, 1.2816, zScore(0.8), 1e-12)
	assert.InDelta(t, 1.6449, zScore(0.90), 1e-12)
	assert.InDelta(t, 1.96, zScore(0.95), 1e-12)
	assert.InDelta(t, 2.5758, zScore(0.99), 1e-12)
}

func TestFeatureRowHinges(t *testing.T) {
	p := &TrendParams{Changepoints: []float64{0.25, 0.5}, Weekly: false}

	row := p.featureRow(0.75, day(0))
	require.Len(t, row, 4)
	assert.Equal(t, 1.0, row[0])
	assert.Equal(t, 0.75, row[1])
	assert.InDelta(t, 0.5, row[2], 1e-12)
	assert.InDelta(t, 0.25, row[3], 1e-12)

	// Before the first changepoint both hinges are inactive.
	row = p.featureRow(0.1, day(0))
	assert.Equal(t, 0.0, row[2])
	assert.Equal(t, 0.0, row[3])
}

func TestFeatureRowWeekdayDummies(t *testing.T) {
	p := &TrendParams{Weekly: true}

	// 2024-01-01 is a Monday.
	row := p.featureRow(0, day(0))
	require.Len(t, row, 8)
	assert.Equal(t, 1.0, row[2+int(time.Monday)])

	// Saturday is the reference weekday: no dummy set.
	sat := day(5)
	require.Equal(t, time.Saturday, sat.Weekday())
	row = p.featureRow(0, sat)
	for i := 2; i < len(row); i++ {
		assert.Equal(t, 0.0, row[i])
	}
}

func TestFitTrendSigmaReflectsNoise(t *testing.T) {
	cfg := config.DefaultForecast()

	// Alternating offsets around a flat level leave residuals the fit
	// cannot absorb once the ridge keeps coefficients small.
	values := make([]float64, 90)
	for i := range values {
		values[i] = 50
		if i%2 == 0 {
			values[i] += 5
		} else {
			values[i] -= 5
		}
	}

	model, err := fitTrend(dailySeries(values...), cfg)
	require.NoError(t, err)
	assert.Greater(t, model.Trend.Sigma, 1.0)
	assert.Less(t, math.Abs(model.Trend.Sigma), 10.0)
}
