package forecaster

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/domain"
	"github.com/stocksight/trendwise/internal/timeseries"
)

// TrendParams holds the fitted parameters of the primary forecaster: an
// additive piecewise-linear trend with weekly seasonality, estimated by
// penalized least squares. Weekly seasonality is fit for daily series and
// disabled for weekly series, where it has no meaning.
type TrendParams struct {
	// Theta is the coefficient vector: intercept, base slope, one slope
	// delta per changepoint, then six weekday effects when Weekly is set.
	Theta        []float64           `json:"theta"`
	Changepoints []float64           `json:"changepoints"`
	Weekly       bool                `json:"weekly"`
	Origin       time.Time           `json:"origin"`
	Span         float64             `json:"span"`
	Sigma        float64             `json:"sigma"`
	Z            float64             `json:"z"`
	Interval     timeseries.Interval `json:"interval"`
}

const (
	minTrendPoints = 14
	maxChangepoints = 25
)

// fitTrend fits the primary forecaster on the training series. Changepoint
// and seasonality prior scales act as inverse ridge penalties: a small
// changepoint prior keeps the trend stiff, a large seasonality prior lets
// the weekly pattern follow the data.
func fitTrend(train *timeseries.Series, cfg config.ForecastConfig) (*Model, error) {
	n := train.Len()
	if n < minTrendPoints {
		return nil, fmt.Errorf("trend fit requires at least %d points, got %d", minTrendPoints, n)
	}

	weekly := train.Interval == timeseries.Daily
	span := float64(n - 1)

	// Changepoints are spread uniformly over the first 80% of the series.
	k := n / 30
	if k > maxChangepoints {
		k = maxChangepoints
	}
	changepoints := make([]float64, k)
	for j := 0; j < k; j++ {
		changepoints[j] = 0.8 * float64(j+1) / float64(k+1)
	}

	params := &TrendParams{
		Changepoints: changepoints,
		Weekly:       weekly,
		Origin:       train.Dates[0],
		Span:         span,
		Interval:     train.Interval,
		Z:            zScore(cfg.IntervalWidth),
	}

	p := 2 + k
	if weekly {
		p += 6
	}

	// Build the design matrix row by row and accumulate the normal
	// equations XᵀX and Xᵀy directly.
	xtx := make([][]float64, p)
	for i := range xtx {
		xtx[i] = make([]float64, p)
	}
	xty := make([]float64, p)

	for i := 0; i < n; i++ {
		row := params.featureRow(float64(i)/span, train.Dates[i])
		y := train.Values[i]
		for a := 0; a < p; a++ {
			xty[a] += row[a] * y
			for b := 0; b < p; b++ {
				xtx[a][b] += row[a] * row[b]
			}
		}
	}

	// Ridge penalties: none on intercept and base slope, 1/prior on the
	// slope deltas and the weekday effects.
	if cfg.ChangepointPriorScale > 0 {
		lambda := 1.0 / cfg.ChangepointPriorScale
		for j := 0; j < k; j++ {
			xtx[2+j][2+j] += lambda
		}
	}
	if weekly && cfg.SeasonalityPriorScale > 0 {
		lambda := 1.0 / cfg.SeasonalityPriorScale
		for j := 2 + k; j < p; j++ {
			xtx[j][j] += lambda
		}
	}

	theta, err := solveLinearSystem(xtx, xty)
	if err != nil {
		return nil, fmt.Errorf("trend fit: %w", err)
	}
	params.Theta = theta

	// Residual spread drives the per-period uncertainty interval.
	residuals := make([]float64, n)
	for i := 0; i < n; i++ {
		row := params.featureRow(float64(i)/span, train.Dates[i])
		residuals[i] = train.Values[i] - dot(row, theta)
	}
	params.Sigma = timeseries.StdDev(residuals)

	return &Model{Kind: domain.KindTrend, Trend: params}, nil
}

// Predict evaluates the fitted model at the given dates, returning per-period
// means and interval bounds.
func (p *TrendParams) Predict(dates []time.Time) (mean, lower, upper []float64) {
	mean = make([]float64, len(dates))
	lower = make([]float64, len(dates))
	upper = make([]float64, len(dates))

	intervalDays := float64(p.Interval.Days())
	for i, d := range dates {
		periods := math.Round(d.Sub(p.Origin).Hours()/24) / intervalDays
		t := periods / p.Span
		row := p.featureRow(t, d)
		yhat := dot(row, p.Theta)
		mean[i] = yhat
		lower[i] = yhat - p.Z*p.Sigma
		upper[i] = yhat + p.Z*p.Sigma
	}
	return mean, lower, upper
}

// featureRow builds a design-matrix row for normalized time t. The hinge
// terms max(0, t-s) keep growing past t=1, which is what extrapolates the
// trend over the forecast horizon.
func (p *TrendParams) featureRow(t float64, date time.Time) []float64 {
	k := len(p.Changepoints)
	size := 2 + k
	if p.Weekly {
		size += 6
	}

	row := make([]float64, size)
	row[0] = 1
	row[1] = t
	for j, s := range p.Changepoints {
		if t > s {
			row[2+j] = t - s
		}
	}
	if p.Weekly {
		// Saturday is the reference weekday.
		if wd := int(date.Weekday()); wd < 6 {
			row[2+k+wd] = 1
		}
	}
	return row
}

// solveLinearSystem solves Ax=b by Gaussian elimination with partial
// pivoting. A is modified in place.
func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, errors.New("singular system")
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	x := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * x[c]
		}
		x[r] = sum / a[r][r]
	}
	return x, nil
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// zScore maps an interval width to the matching normal quantile. 80% is the
// default interval width.
func zScore(intervalWidth float64) float64 {
	switch {
	case intervalWidth >= 0.99:
		return 2.5758
	case intervalWidth >= 0.95:
		return 1.96
	case intervalWidth >= 0.90:
		return 1.6449
	default:
		return 1.2816
	}
}
