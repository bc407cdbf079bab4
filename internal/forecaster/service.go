package forecaster

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/domain"
	"github.com/stocksight/trendwise/internal/timeseries"
)

// Store persists trained model bundles keyed by SKU. The format is opaque to
// the service.
type Store interface {
	Load(ctx context.Context) (Bundle, error)
	Save(ctx context.Context, bundle Bundle) error
}

// PredictionCache holds recently computed recommendation sets. Implementations
// may be a real cache or a noop.
type PredictionCache interface {
	Get(ctx context.Context, key string) ([]domain.RecommendationRecord, bool, error)
	Set(ctx context.Context, key string, records []domain.RecommendationRecord) error
}

// Service is the public forecasting surface: Train and Predict. The trained
// bundle is explicit state loaded from the injected Store at construction
// and replaced wholesale by each training run.
type Service struct {
	cfg     config.ForecastConfig
	store   Store
	cache   PredictionCache
	trainer *Trainer
	rec     Recommender

	mu     sync.RWMutex
	bundle Bundle
}

func NewService(ctx context.Context, cfg config.ForecastConfig, store Store, cache PredictionCache) *Service {
	s := &Service{
		cfg:     cfg,
		store:   store,
		cache:   cache,
		trainer: NewTrainer(cfg),
		rec:     NewRecommender(cfg),
		bundle:  make(Bundle),
	}

	// A failed load means starting from scratch, nothing worse.
	bundle, err := store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("could not load persisted models, starting with an empty set")
	} else if len(bundle) > 0 {
		s.bundle = bundle
		log.Info().Int("models", len(bundle)).Msg("loaded persisted models")
	}

	return s
}

// Train regularizes the sales history, fits and selects a model per SKU, and
// persists the resulting bundle in one bulk save.
func (s *Service) Train(ctx context.Context, sales []domain.SalesRecord) (map[string]domain.TrainResult, error) {
	series, err := Regularize(sales, s.cfg)
	if err != nil {
		return nil, err
	}

	bundle := s.trainer.Train(ctx, series)

	s.mu.Lock()
	s.bundle = bundle
	s.mu.Unlock()

	if err := s.store.Save(ctx, bundle); err != nil {
		log.Warn().Err(err).Msg("could not persist trained models")
	}

	results := make(map[string]domain.TrainResult, len(bundle))
	for sku, trained := range bundle {
		results[sku] = domain.TrainResult{
			ModelKind:       trained.Meta.Kind,
			ValidationError: trained.Meta.ValidationError,
		}
	}
	return results, nil
}

// Predict forecasts demand for each inventory record and attaches a stocking
// recommendation. Inventory SKUs without a usable model or series are
// skipped, never fatal. Trains first when no models are loaded.
func (s *Service) Predict(ctx context.Context, sales []domain.SalesRecord, inventory []domain.InventoryRecord, leadTimeDays int) ([]domain.RecommendationRecord, error) {
	if leadTimeDays <= 0 {
		leadTimeDays = s.cfg.DefaultLeadTimeDays
	}

	s.mu.RLock()
	empty := len(s.bundle) == 0
	s.mu.RUnlock()
	if empty {
		log.Info().Msg("no trained models loaded, training first")
		if _, err := s.Train(ctx, sales); err != nil {
			return nil, fmt.Errorf("auto-train failed: %w", err)
		}
	}

	series, err := Regularize(sales, s.cfg)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	bundle := s.bundle
	s.mu.RUnlock()

	cacheKey := predictionKey(inventory, leadTimeDays, series)
	if s.cache != nil {
		if cached, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
			return cached, nil
		} else if err != nil {
			log.Warn().Err(err).Msg("prediction cache get failed")
		}
	}

	records := make([]domain.RecommendationRecord, 0, len(inventory))
	for _, inv := range inventory {
		trained, ok := bundle[inv.SKU]
		if !ok || trained.Model == nil {
			log.Warn().Str("sku", inv.SKU).Msg("no usable model, skipping")
			continue
		}

		skuSeries, ok := series[inv.SKU]
		if !ok || skuSeries.Len() == 0 {
			log.Warn().Str("sku", inv.SKU).Msg("no sales history, skipping")
			continue
		}
		if skuSeries.LogSpace {
			log.Warn().Str("sku", inv.SKU).Msg("series is log1p-transformed; forecast stays in log space")
		}

		forecast, err := trained.Model.Forecast(skuSeries, s.cfg.Horizon)
		if err != nil {
			if !errors.Is(err, ErrNoModel) && !errors.Is(err, ErrEmptySeries) {
				log.Warn().Err(err).Str("sku", inv.SKU).Msg("forecast failed, skipping")
			}
			continue
		}

		records = append(records, s.rec.Recommend(
			inv.SKU,
			forecast,
			trained.Meta.Kind,
			inv.CurrentStock,
			timeseries.StdDev(skuSeries.Values),
			leadTimeDays,
		))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, records); err != nil {
			log.Warn().Err(err).Msg("prediction cache set failed")
		}
	}

	return records, nil
}

// predictionKey fingerprints the inputs that determine a prediction: the
// inventory positions, the lead time, and each series' end date.
func predictionKey(inventory []domain.InventoryRecord, leadTimeDays int, series map[string]*timeseries.Series) string {
	parts := make([]string, 0, len(inventory)+1)
	for _, inv := range inventory {
		end := ""
		if s, ok := series[inv.SKU]; ok && s.Len() > 0 {
			end = s.LastDate().Format("2006-01-02")
		}
		parts = append(parts, inv.SKU+":"+strconv.FormatFloat(inv.CurrentStock, 'g', -1, 64)+":"+end)
	}
	sort.Strings(parts)
	parts = append(parts, "lead="+strconv.Itoa(leadTimeDays))

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return "prediction:" + hex.EncodeToString(sum[:])
}
