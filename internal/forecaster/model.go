package forecaster

import (
	"math"

	"github.com/stocksight/trendwise/internal/domain"
	"github.com/stocksight/trendwise/internal/timeseries"
)

// fallbackZ is the interval multiplier the fallback forecast path uses for
// its trailing-window spread.
const fallbackZ = 1.96

// Model is the tagged forecaster variant selected at training time. Fallback
// kinds carry only the fitted scalar; the primary kind carries the full
// trend parameters.
type Model struct {
	Kind  domain.ModelKind `json:"kind"`
	Level float64          `json:"level,omitempty"`
	Trend *TrendParams     `json:"trend,omitempty"`
}

// Forecast produces the horizon-aggregated forecast for this model over the
// given regularized series.
//
// The primary path predicts the next horizon periods and sums the per-period
// means and interval bounds. Summing per-period bounds overstates the
// aggregate width; that is the accepted trade-off here, kept cheap and
// uniform across SKUs.
//
// The fallback path ignores the fitted scalar and extrapolates from the
// trailing horizon window of observed points.
func (m *Model) Forecast(series *timeseries.Series, horizon int) (domain.ForecastResult, error) {
	if m == nil {
		return domain.ForecastResult{}, ErrNoModel
	}
	if series == nil || series.Len() == 0 {
		return domain.ForecastResult{}, ErrEmptySeries
	}

	if m.Kind == domain.KindTrend {
		if m.Trend == nil {
			return domain.ForecastResult{}, ErrNoModel
		}
		mean, lower, upper := m.Trend.Predict(series.FutureDates(horizon))
		return domain.ForecastResult{
			PointForecast: math.Max(0, sum(mean)),
			LowerBound:    sum(lower),
			UpperBound:    sum(upper),
		}, nil
	}

	trailing := series.Tail(horizon)
	point := timeseries.Mean(trailing) * float64(horizon)
	spread := fallbackZ * timeseries.StdDev(trailing) * math.Sqrt(float64(horizon))
	return domain.ForecastResult{
		PointForecast: math.Max(0, point),
		LowerBound:    math.Max(0, point-spread),
		UpperBound:    point + spread,
	}, nil
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
