package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/stocksight/trendwise/internal/domain"
	"github.com/stocksight/trendwise/internal/forecaster"
)

type ForecastHandler struct {
	service *forecaster.Service
}

func NewForecastHandler(service *forecaster.Service) *ForecastHandler {
	return &ForecastHandler{service: service}
}

type salesRow struct {
	Date     string  `json:"date" binding:"required"`
	SKU      string  `json:"sku" binding:"required"`
	SalesQty float64 `json:"sales_qty"`
}

type inventoryRow struct {
	SKU          string  `json:"sku" binding:"required"`
	CurrentStock float64 `json:"current_stock"`
}

type trainRequest struct {
	Sales []salesRow `json:"sales" binding:"required"`
}

type predictRequest struct {
	Sales        []salesRow     `json:"sales" binding:"required"`
	Inventory    []inventoryRow `json:"inventory" binding:"required"`
	LeadTimeDays int            `json:"lead_time_days"`
}

// Train fits models for every SKU in the posted sales history.
func (h *ForecastHandler) Train(c *gin.Context) {
	var req trainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sales, err := parseSales(req.Sales)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.service.Train(c.Request.Context(), sales)
	if err != nil {
		var schemaErr *forecaster.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": schemaErr.Error()})
			return
		}
		log.Error().Err(err).Msg("training failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "training failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Predict returns one recommendation per inventory SKU with a usable model.
func (h *ForecastHandler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sales, err := parseSales(req.Sales)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inventory := make([]domain.InventoryRecord, len(req.Inventory))
	for i, row := range req.Inventory {
		inventory[i] = domain.InventoryRecord{SKU: row.SKU, CurrentStock: row.CurrentStock}
	}

	records, err := h.service.Predict(c.Request.Context(), sales, inventory, req.LeadTimeDays)
	if err != nil {
		var schemaErr *forecaster.SchemaError
		if errors.As(err, &schemaErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": schemaErr.Error()})
			return
		}
		log.Error().Err(err).Msg("prediction failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "prediction failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recommendations": records})
}

func parseSales(rows []salesRow) ([]domain.SalesRecord, error) {
	sales := make([]domain.SalesRecord, len(rows))
	for i, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, &forecaster.SchemaError{Reason: "invalid date " + row.Date}
		}
		sales[i] = domain.SalesRecord{Date: date, SKU: row.SKU, SalesQty: row.SalesQty}
	}
	return sales, nil
}
