// Package ingest loads sales and inventory files into plain records and
// writes recommendation output. The core never touches files directly.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stocksight/trendwise/internal/domain"
	"github.com/stocksight/trendwise/internal/forecaster"
)

const dateLayout = "2006-01-02"

// LoadSales reads a sales CSV with columns date, sku, sales_qty.
func LoadSales(path string) ([]domain.SalesRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sales file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read sales header: %w", err)
	}

	cols := indexColumns(header)
	dateIdx, ok := cols["date"]
	if !ok {
		return nil, &forecaster.SchemaError{Reason: "sales file missing date column"}
	}
	skuIdx, ok := cols["sku"]
	if !ok {
		return nil, &forecaster.SchemaError{Reason: "sales file missing sku column"}
	}
	qtyIdx, ok := cols["sales_qty"]
	if !ok {
		return nil, &forecaster.SchemaError{Reason: "sales file missing sales_qty column"}
	}

	var records []domain.SalesRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read sales row %d: %w", line, err)
		}

		date, err := time.Parse(dateLayout, strings.TrimSpace(row[dateIdx]))
		if err != nil {
			return nil, fmt.Errorf("sales row %d: invalid date %q: %w", line, row[dateIdx], err)
		}
		qty, err := strconv.ParseFloat(strings.TrimSpace(row[qtyIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("sales row %d: invalid sales_qty %q: %w", line, row[qtyIdx], err)
		}

		records = append(records, domain.SalesRecord{
			Date:     date,
			SKU:      strings.TrimSpace(row[skuIdx]),
			SalesQty: qty,
		})
	}
	return records, nil
}

// LoadInventory reads an inventory CSV. Only sku and current_stock are used;
// display-only columns are ignored.
func LoadInventory(path string) ([]domain.InventoryRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read inventory header: %w", err)
	}

	cols := indexColumns(header)
	skuIdx, ok := cols["sku"]
	if !ok {
		return nil, &forecaster.SchemaError{Reason: "inventory file missing sku column"}
	}
	stockIdx, ok := cols["current_stock"]
	if !ok {
		// Inventory exports commonly label the column "Current Stock".
		stockIdx, ok = cols["current stock"]
	}
	if !ok {
		return nil, &forecaster.SchemaError{Reason: "inventory file missing current_stock column"}
	}

	var records []domain.InventoryRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read inventory row %d: %w", line, err)
		}

		stock, err := strconv.ParseFloat(strings.TrimSpace(row[stockIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("inventory row %d: invalid current_stock %q: %w", line, row[stockIdx], err)
		}

		records = append(records, domain.InventoryRecord{
			SKU:          strings.TrimSpace(row[skuIdx]),
			CurrentStock: stock,
		})
	}
	return records, nil
}

// WriteRecommendations writes recommendation records as CSV.
func WriteRecommendations(w io.Writer, records []domain.RecommendationRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{
		"sku", "point_forecast", "lower_bound", "upper_bound",
		"confidence_score", "model_kind", "current_stock", "safety_stock", "action",
	}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.SKU,
			formatFloat(rec.PointForecast),
			formatFloat(rec.LowerBound),
			formatFloat(rec.UpperBound),
			formatFloat(rec.ConfidenceScore),
			string(rec.ModelKind),
			formatFloat(rec.CurrentStock),
			formatFloat(rec.SafetyStock),
			string(rec.Action),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", rec.SKU, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
