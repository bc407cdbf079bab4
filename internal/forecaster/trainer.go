package forecaster

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/domain"
	"github.com/stocksight/trendwise/internal/timeseries"
)

// Metadata describes a trained (or failed) model for one SKU.
type Metadata struct {
	SKU             string           `json:"sku"`
	Kind            domain.ModelKind `json:"model_kind"`
	ValidationError domain.Metric    `json:"validation_error"`
	TrainedAt       time.Time        `json:"trained_at"`
	InputPoints     int              `json:"input_points"`
}

// TrainedModel pairs a model with its metadata. Model is nil when every
// candidate fit failed for the SKU; such entries are unusable at prediction
// time.
type TrainedModel struct {
	Model *Model   `json:"model"`
	Meta  Metadata `json:"meta"`
}

// Bundle is the full trained model set keyed by SKU.
type Bundle map[string]TrainedModel

// Trainer fits candidate forecasters per SKU and selects the best by
// validation error.
type Trainer struct {
	cfg config.ForecastConfig
}

func NewTrainer(cfg config.ForecastConfig) *Trainer {
	return &Trainer{cfg: cfg}
}

// Train fits models for every SKU with sufficient history. SKUs below the
// minimum point count are skipped with a diagnostic. SKUs are independent,
// so training runs on a bounded worker pool; results merge keyed by SKU, so
// the outcome does not depend on completion order.
func (t *Trainer) Train(ctx context.Context, series map[string]*timeseries.Series) Bundle {
	bundle := make(Bundle, len(series))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	workers := t.cfg.TrainWorkers
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for sku, s := range series {
		if min := t.minPoints(s.Interval); s.Len() < min {
			log.Warn().
				Str("sku", sku).
				Int("points", s.Len()).
				Int("required", min).
				Msg("insufficient history, skipping SKU")
			continue
		}

		sku, s := sku, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trained := t.trainOne(sku, s)
			mu.Lock()
			bundle[sku] = trained
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("training interrupted")
	}

	return bundle
}

func (t *Trainer) minPoints(interval timeseries.Interval) int {
	if interval == timeseries.Weekly {
		return t.cfg.MinWeeklyPoints
	}
	return t.cfg.MinDailyPoints
}

// candidate is the outcome of one fit attempt. A failed fit is represented
// as a nil model with infinite error, never as control flow.
type candidate struct {
	model *Model
	mape  float64
}

func (t *Trainer) trainOne(sku string, s *timeseries.Series) TrainedModel {
	trainLen := s.Len() - t.cfg.ValidationPeriods
	if trainLen < 0 {
		trainLen = 0
	}
	train := s.Head(trainLen)
	valDates := s.Dates[trainLen:]
	valActual := s.Values[trainLen:]

	primary := t.fitPrimary(sku, train, valDates, valActual)
	fallback := t.fitFallbacks(sku, train, valActual)

	selected := candidate{mape: math.Inf(1)}
	switch {
	case primary.model != nil && primary.mape <= t.cfg.MAPEThreshold:
		selected = primary
	case fallback.model != nil:
		selected = fallback
	}

	meta := Metadata{
		SKU:             sku,
		ValidationError: domain.Metric(selected.mape),
		TrainedAt:       time.Now().UTC(),
		InputPoints:     s.Len(),
	}
	if selected.model != nil {
		meta.Kind = selected.model.Kind
		log.Info().
			Str("sku", sku).
			Str("model", string(meta.Kind)).
			Float64("mape", selected.mape).
			Msg("model selected")
	} else {
		log.Warn().Str("sku", sku).Msg("no candidate produced a usable model")
	}

	return TrainedModel{Model: selected.model, Meta: meta}
}

func (t *Trainer) fitPrimary(sku string, train *timeseries.Series, valDates []time.Time, valActual []float64) candidate {
	model, err := fitTrend(train, t.cfg)
	if err != nil {
		log.Warn().Err(err).Str("sku", sku).Msg("primary fit failed")
		return candidate{mape: math.Inf(1)}
	}
	mean, _, _ := model.Trend.Predict(valDates)
	return candidate{model: model, mape: timeseries.MAPE(valActual, mean)}
}

// fitFallbacks tries the three cheap forecasters in priority order and keeps
// only the best performer. Ties keep the earlier candidate.
func (t *Trainer) fitFallbacks(sku string, train *timeseries.Series, valActual []float64) candidate {
	fits := []func() (*Model, error){
		func() (*Model, error) { return fitExpSmoothing(train) },
		func() (*Model, error) { return fitMovingAverage(train, t.cfg.MovingAverageWindow) },
		func() (*Model, error) { return fitNaive(train) },
	}

	best := candidate{mape: math.Inf(1)}
	for _, fit := range fits {
		model, err := fit()
		if err != nil {
			log.Debug().Err(err).Str("sku", sku).Msg("fallback fit failed")
			continue
		}
		mape := timeseries.MAPE(valActual, model.validationForecast(len(valActual)))
		if mape < best.mape {
			best = candidate{model: model, mape: mape}
		}
	}
	return best
}
