package forecaster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/domain"
	"github.com/stocksight/trendwise/internal/timeseries"
)

func TestForecastNilModel(t *testing.T) {
	var m *Model
	_, err := m.Forecast(flatSeries(10, 1), 30)
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestForecastEmptySeries(t *testing.T) {
	m := &Model{Kind: domain.KindNaive, Level: 5}

	_, err := m.Forecast(nil, 30)
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = m.Forecast(dailySeries(), 30)
	assert.ErrorIs(t, err, ErrEmptySeries)
}

func TestForecastTrendWithoutParams(t *testing.T) {
	m := &Model{Kind: domain.KindTrend}
	_, err := m.Forecast(flatSeries(10, 1), 30)
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestForecastFallbackUsesTrailingWindow(t *testing.T) {
	// The fitted level is deliberately ignored: the fallback path
	// extrapolates from the trailing observed window instead.
	m := &Model{Kind: domain.KindNaive, Level: 999}

	result, err := m.Forecast(flatSeries(60, 10), 30)
	require.NoError(t, err)

	assert.InDelta(t, 300, result.PointForecast, 1e-9)
	assert.InDelta(t, 300, result.LowerBound, 1e-9)
	assert.InDelta(t, 300, result.UpperBound, 1e-9)
}

func TestForecastFallbackSpread(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		if i%2 == 0 {
			values[i] = 5
		} else {
			values[i] = 15
		}
	}
	s := dailySeries(values...)
	m := &Model{Kind: domain.KindMovingAverage, Level: 10}

	result, err := m.Forecast(s, 30)
	require.NoError(t, err)

	point := 10.0 * 30
	spread := 1.96 * timeseries.StdDev(s.Tail(30)) * math.Sqrt(30)
	assert.InDelta(t, point, result.PointForecast, 1e-9)
	assert.InDelta(t, point-spread, result.LowerBound, 1e-9)
	assert.InDelta(t, point+spread, result.UpperBound, 1e-9)
}

func TestForecastFallbackShortHistory(t *testing.T) {
	// Fewer observed points than the horizon: the whole series is the
	// trailing window.
	m := &Model{Kind: domain.KindNaive}

	result, err := m.Forecast(flatSeries(5, 2), 30)
	require.NoError(t, err)
	assert.InDelta(t, 60, result.PointForecast, 1e-9)
}

func TestForecastTrendSumsHorizon(t *testing.T) {
	cfg := config.DefaultForecast()

	values := make([]float64, 150)
	for i := range values {
		values[i] = 2 + 0.5*float64(i)
	}
	s := dailySeries(values...)

	model, err := fitTrend(s, cfg)
	require.NoError(t, err)

	result, err := model.Forecast(s, 30)
	require.NoError(t, err)

	// Sum of 2 + 0.5*i for i in [150, 179].
	assert.InDelta(t, 2527.5, result.PointForecast, 1e-3)
	assert.InDelta(t, result.PointForecast, result.LowerBound, 1e-2)
	assert.InDelta(t, result.PointForecast, result.UpperBound, 1e-2)
}

func TestForecastPointClampedNonNegative(t *testing.T) {
	// A steep downward trend can push the horizon sum below zero; the
	// point forecast clamps at zero while the bounds stay raw.
	cfg := config.DefaultForecast()

	values := make([]float64, 100)
	for i := range values {
		values[i] = math.Max(0, 99-2*float64(i))
	}
	s := dailySeries(values...)

	p := &TrendParams{
		Theta:    []float64{99, -198},
		Weekly:   false,
		Origin:   s.Dates[0],
		Span:     99,
		Sigma:    0,
		Z:        zScore(cfg.IntervalWidth),
		Interval: timeseries.Daily,
	}
	m := &Model{Kind: domain.KindTrend, Trend: p}

	result, err := m.Forecast(s, 30)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.PointForecast)
	assert.Less(t, result.LowerBound, 0.0)
}
