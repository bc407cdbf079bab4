package forecaster

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/domain"
	"github.com/stocksight/trendwise/internal/timeseries"
)

// Regularize normalizes raw sales records into complete, outlier-capped
// per-SKU series:
//
//  1. Validate the schema across the whole input.
//  2. Sort by date and merge duplicate (date, sku) pairs additively.
//  3. Detect the sampling interval (most frequent gap; 1d daily, 7d weekly,
//     anything else daily).
//  4. Reindex onto a gap-free date axis, filling missing slots with 0.
//  5. Cap IQR outliers to the nearest bound (never drop).
//  6. Apply log1p to the whole series when skewness exceeds the threshold,
//     marking the series as log-space.
func Regularize(records []domain.SalesRecord, cfg config.ForecastConfig) (map[string]*timeseries.Series, error) {
	if err := validateSchema(records); err != nil {
		return nil, err
	}

	bySKU := make(map[string][]domain.SalesRecord)
	for _, rec := range records {
		bySKU[rec.SKU] = append(bySKU[rec.SKU], rec)
	}

	out := make(map[string]*timeseries.Series, len(bySKU))
	for sku, recs := range bySKU {
		series := buildSeries(recs, cfg)
		capOutliers(series.Values, cfg.IQRMultiplier)

		if timeseries.Skewness(series.Values) > cfg.SkewThreshold {
			for i, v := range series.Values {
				series.Values[i] = math.Log1p(v)
			}
			series.LogSpace = true
			log.Debug().Str("sku", sku).Msg("series log1p-transformed due to skew")
		}

		out[sku] = series
	}

	return out, nil
}

func validateSchema(records []domain.SalesRecord) error {
	for i, rec := range records {
		switch {
		case rec.Date.IsZero():
			return &SchemaError{Reason: fmt.Sprintf("record %d: missing date", i)}
		case rec.SKU == "":
			return &SchemaError{Reason: fmt.Sprintf("record %d: missing sku", i)}
		case rec.SalesQty < 0:
			return &SchemaError{Reason: fmt.Sprintf("record %d: negative sales_qty", i)}
		}
	}
	return nil
}

// buildSeries sorts, merges and reindexes the records of one SKU onto a
// complete date axis spanning [min date, max date].
func buildSeries(recs []domain.SalesRecord, cfg config.ForecastConfig) *timeseries.Series {
	merged := make(map[time.Time]float64)
	for _, rec := range recs {
		merged[midnightUTC(rec.Date)] += rec.SalesQty
	}

	dates := make([]time.Time, 0, len(merged))
	for d := range merged {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	interval := timeseries.DetectInterval(dates)

	series := &timeseries.Series{Interval: interval}
	last := dates[len(dates)-1]
	for cur := dates[0]; !cur.After(last); cur = interval.Next(cur) {
		series.Dates = append(series.Dates, cur)
		series.Values = append(series.Values, merged[cur])
	}

	return series
}

// capOutliers caps values outside [Q1-mult*IQR, Q3+mult*IQR] in place.
// Capping an already-capped series is a no-op.
func capOutliers(values []float64, multiplier float64) {
	if len(values) == 0 {
		return
	}
	q1 := timeseries.Quantile(values, 0.25)
	q3 := timeseries.Quantile(values, 0.75)
	iqr := q3 - q1
	lower := q1 - multiplier*iqr
	upper := q3 + multiplier*iqr

	for i, v := range values {
		if v < lower {
			values[i] = lower
		} else if v > upper {
			values[i] = upper
		}
	}
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
