package config

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Forecast ForecastConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled              bool
	RedisURL             string
	RedisHost            string
	RedisPort            string
	RedisPassword        string
	RedisDB              int
	PredictionTTLSeconds int
}

// StorageConfig selects where trained model bundles are persisted.
// Backend is one of "file", "postgres" or "s3".
type StorageConfig struct {
	Backend    string
	ModelPath  string
	S3Endpoint string
	S3Access   string
	S3Secret   string
	S3Bucket   string
	S3UseSSL   bool
}

// ForecastConfig holds the forecasting tunables.
type ForecastConfig struct {
	MinDailyPoints        int
	MinWeeklyPoints       int
	Horizon               int
	ValidationPeriods     int
	MAPEThreshold         float64
	IQRMultiplier         float64
	SkewThreshold         float64
	MovingAverageWindow   int
	ChangepointPriorScale float64
	SeasonalityPriorScale float64
	IntervalWidth         float64
	ServiceLevelZ         float64
	DefaultLeadTimeDays   int
	TrainWorkers          int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 30)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "trendwise")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_PREDICTION_TTL_SECONDS", 300)
		viper.SetDefault("STORAGE_BACKEND", "file")
		viper.SetDefault("MODEL_PATH", "./data/models/trendwise.json")
		viper.SetDefault("S3_ENDPOINT", "")
		viper.SetDefault("S3_ACCESS_KEY", "")
		viper.SetDefault("S3_SECRET_KEY", "")
		viper.SetDefault("S3_BUCKET", "trendwise-models")
		viper.SetDefault("S3_USE_SSL", true)
		viper.SetDefault("FORECAST_MIN_DAILY_POINTS", 90)
		viper.SetDefault("FORECAST_MIN_WEEKLY_POINTS", 12)
		viper.SetDefault("FORECAST_HORIZON", 30)
		viper.SetDefault("FORECAST_VALIDATION_PERIODS", 30)
		viper.SetDefault("FORECAST_MAPE_THRESHOLD", 0.3)
		viper.SetDefault("FORECAST_IQR_MULTIPLIER", 1.5)
		viper.SetDefault("FORECAST_SKEW_THRESHOLD", 1.0)
		viper.SetDefault("FORECAST_MA_WINDOW", 7)
		viper.SetDefault("FORECAST_CHANGEPOINT_PRIOR_SCALE", 0.05)
		viper.SetDefault("FORECAST_SEASONALITY_PRIOR_SCALE", 10.0)
		viper.SetDefault("FORECAST_INTERVAL_WIDTH", 0.8)
		viper.SetDefault("FORECAST_SERVICE_LEVEL_Z", 1.28)
		viper.SetDefault("FORECAST_DEFAULT_LEAD_TIME_DAYS", 7)
		viper.SetDefault("FORECAST_TRAIN_WORKERS", 4)

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("MODEL_PATH"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:              viper.GetBool("CACHE_ENABLED"),
				RedisURL:             viper.GetString("REDIS_URL"),
				RedisHost:            viper.GetString("REDIS_HOST"),
				RedisPort:            viper.GetString("REDIS_PORT"),
				RedisPassword:        viper.GetString("REDIS_PASSWORD"),
				RedisDB:              viper.GetInt("REDIS_DB"),
				PredictionTTLSeconds: viper.GetInt("CACHE_PREDICTION_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Backend:    viper.GetString("STORAGE_BACKEND"),
				ModelPath:  viper.GetString("MODEL_PATH"),
				S3Endpoint: viper.GetString("S3_ENDPOINT"),
				S3Access:   viper.GetString("S3_ACCESS_KEY"),
				S3Secret:   viper.GetString("S3_SECRET_KEY"),
				S3Bucket:   viper.GetString("S3_BUCKET"),
				S3UseSSL:   viper.GetBool("S3_USE_SSL"),
			},
			Forecast: ForecastConfig{
				MinDailyPoints:        viper.GetInt("FORECAST_MIN_DAILY_POINTS"),
				MinWeeklyPoints:       viper.GetInt("FORECAST_MIN_WEEKLY_POINTS"),
				Horizon:               viper.GetInt("FORECAST_HORIZON"),
				ValidationPeriods:     viper.GetInt("FORECAST_VALIDATION_PERIODS"),
				MAPEThreshold:         viper.GetFloat64("FORECAST_MAPE_THRESHOLD"),
				IQRMultiplier:         viper.GetFloat64("FORECAST_IQR_MULTIPLIER"),
				SkewThreshold:         viper.GetFloat64("FORECAST_SKEW_THRESHOLD"),
				MovingAverageWindow:   viper.GetInt("FORECAST_MA_WINDOW"),
				ChangepointPriorScale: viper.GetFloat64("FORECAST_CHANGEPOINT_PRIOR_SCALE"),
				SeasonalityPriorScale: viper.GetFloat64("FORECAST_SEASONALITY_PRIOR_SCALE"),
				IntervalWidth:         viper.GetFloat64("FORECAST_INTERVAL_WIDTH"),
				ServiceLevelZ:         viper.GetFloat64("FORECAST_SERVICE_LEVEL_Z"),
				DefaultLeadTimeDays:   viper.GetInt("FORECAST_DEFAULT_LEAD_TIME_DAYS"),
				TrainWorkers:          viper.GetInt("FORECAST_TRAIN_WORKERS"),
			},
		}
	})

	return instance
}

// DefaultForecast returns the forecasting tunables without touching the
// environment. Used by tests and library callers.
func DefaultForecast() ForecastConfig {
	return ForecastConfig{
		MinDailyPoints:        90,
		MinWeeklyPoints:       12,
		Horizon:               30,
		ValidationPeriods:     30,
		MAPEThreshold:         0.3,
		IQRMultiplier:         1.5,
		SkewThreshold:         1.0,
		MovingAverageWindow:   7,
		ChangepointPriorScale: 0.05,
		SeasonalityPriorScale: 10.0,
		IntervalWidth:         0.8,
		ServiceLevelZ:         1.28,
		DefaultLeadTimeDays:   7,
		TrainWorkers:          4,
	}
}

func ensureDir(path string) {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
