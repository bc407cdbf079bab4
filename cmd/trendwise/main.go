package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/stocksight/trendwise/internal/cache"
	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/forecaster"
	"github.com/stocksight/trendwise/internal/ingest"
	"github.com/stocksight/trendwise/internal/persistence"
	"github.com/stocksight/trendwise/pkg/logger"
)

func newSalesFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "sales",
		Usage:    "Path to the sales CSV (date, sku, sales_qty)",
		Required: true,
		EnvVars:  []string{"SALES_FILE"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	app := &cli.App{
		Name:  "trendwise",
		Usage: "Demand forecasting and stock recommendations per SKU",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "train",
				Usage:  "Train forecasting models from a sales history CSV",
				Flags:  []cli.Flag{newSalesFlag()},
				Action: runTrain,
			},
			{
				Name:  "predict",
				Usage: "Forecast demand and emit stock recommendations",
				Flags: []cli.Flag{
					newSalesFlag(),
					&cli.StringFlag{
						Name:     "inventory",
						Usage:    "Path to the inventory CSV (sku, current_stock)",
						Required: true,
						EnvVars:  []string{"INVENTORY_FILE"},
					},
					&cli.IntFlag{
						Name:  "lead-time",
						Usage: "Replenishment lead time in days",
						Value: 0,
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Write recommendations CSV to this path (default stdout)",
					},
				},
				Action: runPredict,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

func newService(c *cli.Context) (*forecaster.Service, error) {
	cfg := config.Load()

	store, err := persistence.NewStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("build model store: %w", err)
	}

	predCache, err := cache.NewPredictionCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("prediction cache unavailable, continuing without")
		predCache = cache.NewNoopPredictionCache()
	}

	return forecaster.NewService(c.Context, cfg.Forecast, store, predCache), nil
}

func runTrain(c *cli.Context) error {
	sales, err := ingest.LoadSales(c.String("sales"))
	if err != nil {
		return err
	}

	service, err := newService(c)
	if err != nil {
		return err
	}

	results, err := service.Train(c.Context, sales)
	if err != nil {
		return err
	}

	for sku, res := range results {
		log.Info().
			Str("sku", sku).
			Str("model", string(res.ModelKind)).
			Float64("validation_error", float64(res.ValidationError)).
			Msg("trained")
	}
	log.Info().Int("skus", len(results)).Msg("training complete")
	return nil
}

func runPredict(c *cli.Context) error {
	sales, err := ingest.LoadSales(c.String("sales"))
	if err != nil {
		return err
	}
	inventory, err := ingest.LoadInventory(c.String("inventory"))
	if err != nil {
		return err
	}

	service, err := newService(c)
	if err != nil {
		return err
	}

	records, err := service.Predict(c.Context, sales, inventory, c.Int("lead-time"))
	if err != nil {
		return err
	}

	out := os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := ingest.WriteRecommendations(out, records); err != nil {
		return err
	}

	log.Info().Int("recommendations", len(records)).Msg("prediction complete")
	return nil
}
