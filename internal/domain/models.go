package domain

import "time"

// SalesRecord is a single raw sales observation for one SKU on one date.
// Multiple records sharing (date, sku) are merged additively during
// preprocessing.
type SalesRecord struct {
	Date     time.Time `json:"date"`
	SKU      string    `json:"sku"`
	SalesQty float64   `json:"sales_qty"`
}

// InventoryRecord holds the current stock position for a SKU. Display-only
// fields carried by inventory files are ignored by the core.
type InventoryRecord struct {
	SKU          string  `json:"sku"`
	CurrentStock float64 `json:"current_stock"`
}

// ModelKind identifies which forecaster produced a model.
type ModelKind string

const (
	KindTrend         ModelKind = "trend"
	KindExpSmoothing  ModelKind = "exp_smoothing"
	KindMovingAverage ModelKind = "moving_average"
	KindNaive         ModelKind = "naive"
)

// Action is the discrete stocking recommendation.
type Action string

const (
	ActionIncrease   Action = "Increase"
	ActionMaintain   Action = "Maintain"
	ActionReduceHold Action = "Reduce/Hold"
)

// ForecastResult is the horizon-aggregated forecast for one SKU.
// UpperBound >= PointForecast >= LowerBound is not guaranteed by the
// fallback interval formula; callers wanting that invariant must clamp.
type ForecastResult struct {
	PointForecast float64 `json:"point_forecast"`
	LowerBound    float64 `json:"lower_bound"`
	UpperBound    float64 `json:"upper_bound"`
}

// RecommendationRecord is the per-SKU output of a prediction call.
// Created fresh per call, never mutated after construction.
type RecommendationRecord struct {
	SKU             string    `json:"sku"`
	PointForecast   float64   `json:"point_forecast"`
	LowerBound      float64   `json:"lower_bound"`
	UpperBound      float64   `json:"upper_bound"`
	ConfidenceScore float64   `json:"confidence_score"`
	ModelKind       ModelKind `json:"model_kind"`
	CurrentStock    float64   `json:"current_stock"`
	SafetyStock     float64   `json:"safety_stock"`
	Action          Action    `json:"action"`
}

// TrainResult summarizes the outcome of training for one SKU.
type TrainResult struct {
	ModelKind       ModelKind `json:"model_kind"`
	ValidationError Metric    `json:"validation_error"`
}
