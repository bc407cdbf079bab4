package forecaster

import (
	"math"

	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/domain"
)

// Recommender turns a forecast and the current stock position into a
// discrete stocking action.
type Recommender struct {
	cfg config.ForecastConfig
}

func NewRecommender(cfg config.ForecastConfig) Recommender {
	return Recommender{cfg: cfg}
}

// SafetyStock sizes the buffer above the point forecast that absorbs demand
// variability over the replenishment lead time. demandStdDev is computed
// over the full regularized series, not the validation window.
func (r Recommender) SafetyStock(demandStdDev float64, leadTimeDays int) float64 {
	return math.Max(0, r.cfg.ServiceLevelZ*demandStdDev*math.Sqrt(float64(leadTimeDays)))
}

// Recommend builds the per-SKU recommendation record. The decision rule is
// evaluated in order: stock covering forecast plus safety stock means
// Reduce/Hold, stock covering the bare forecast means Maintain, anything
// less means Increase.
func (r Recommender) Recommend(sku string, forecast domain.ForecastResult, kind domain.ModelKind, currentStock, demandStdDev float64, leadTimeDays int) domain.RecommendationRecord {
	safetyStock := r.SafetyStock(demandStdDev, leadTimeDays)

	var action domain.Action
	switch {
	case currentStock >= forecast.PointForecast+safetyStock:
		action = domain.ActionReduceHold
	case currentStock >= forecast.PointForecast:
		action = domain.ActionMaintain
	default:
		action = domain.ActionIncrease
	}

	return domain.RecommendationRecord{
		SKU:             sku,
		PointForecast:   forecast.PointForecast,
		LowerBound:      forecast.LowerBound,
		UpperBound:      forecast.UpperBound,
		ConfidenceScore: ConfidenceScore(forecast),
		ModelKind:       kind,
		CurrentStock:    currentStock,
		SafetyStock:     safetyStock,
		Action:          action,
	}
}

// ConfidenceScore shrinks toward 0 as the interval widens relative to the
// point forecast. Not clamped to [0, 1]; presentation layers clamp if they
// need to.
func ConfidenceScore(f domain.ForecastResult) float64 {
	return 1 - (f.UpperBound-f.LowerBound)/math.Max(1, f.PointForecast)
}
