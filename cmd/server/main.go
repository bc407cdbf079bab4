package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/stocksight/trendwise/internal/api"
	"github.com/stocksight/trendwise/internal/cache"
	"github.com/stocksight/trendwise/internal/config"
	"github.com/stocksight/trendwise/internal/forecaster"
	"github.com/stocksight/trendwise/internal/persistence"
	"github.com/stocksight/trendwise/pkg/logger"
)

func main() {
	cfg := config.Load()

	if cfg.Server.Mode == "debug" {
		logger.SetLevel("debug")
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := persistence.NewStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build model store")
	}

	predCache, err := cache.NewPredictionCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("Prediction cache unavailable, continuing without")
		predCache = cache.NewNoopPredictionCache()
	}

	service := forecaster.NewService(context.Background(), cfg.Forecast, store, predCache)

	router := api.NewRouter(service, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
