package forecaster

import (
	"fmt"
	"math"

	"github.com/stocksight/trendwise/internal/domain"
	"github.com/stocksight/trendwise/internal/timeseries"
)

// fitExpSmoothing fits single-parameter exponential smoothing, picking the
// smoothing coefficient that minimizes the one-step-ahead squared error over
// the training window. The fitted level is broadcast across any forecast
// horizon.
func fitExpSmoothing(train *timeseries.Series) (*Model, error) {
	y := train.Values
	if len(y) < 2 {
		return nil, fmt.Errorf("exponential smoothing requires at least 2 points, got %d", len(y))
	}

	// Integer-indexed grid; accumulating 0.05 in a float loop variable
	// drifts past the upper bound and drops the last candidate.
	bestAlpha, bestSSE := 0.0, math.Inf(1)
	for step := 1; step <= 19; step++ {
		alpha := float64(step) * 0.05
		level := y[0]
		sse := 0.0
		for i := 1; i < len(y); i++ {
			err := y[i] - level
			sse += err * err
			level += alpha * err
		}
		if sse < bestSSE {
			bestAlpha, bestSSE = alpha, sse
		}
	}

	level := y[0]
	for i := 1; i < len(y); i++ {
		level += bestAlpha * (y[i] - level)
	}

	return &Model{Kind: domain.KindExpSmoothing, Level: level}, nil
}

// fitMovingAverage takes the mean of the trailing window of the training
// series as the flat forecast value.
func fitMovingAverage(train *timeseries.Series, window int) (*Model, error) {
	if train.Len() < window {
		return nil, fmt.Errorf("moving average requires at least %d points, got %d", window, train.Len())
	}
	return &Model{
		Kind:  domain.KindMovingAverage,
		Level: timeseries.Mean(train.Tail(window)),
	}, nil
}

// fitNaive uses the final observed training value as the flat forecast.
func fitNaive(train *timeseries.Series) (*Model, error) {
	if train.Len() == 0 {
		return nil, fmt.Errorf("naive forecast requires a non-empty training series")
	}
	return &Model{
		Kind:  domain.KindNaive,
		Level: train.Values[train.Len()-1],
	}, nil
}

// validationForecast broadcasts the fitted level across the validation
// window. All fallback kinds predict a constant.
func (m *Model) validationForecast(n int) []float64 {
	forecast := make([]float64, n)
	for i := range forecast {
		forecast[i] = m.Level
	}
	return forecast
}
