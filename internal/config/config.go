package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	DBSource      string `mapstructure:"DB_SOURCE"`

	ScoreTableSource string `mapstructure:"SCORE_TABLE_SOURCE"`
	ScoreTablePath   string `mapstructure:"SCORE_TABLE_PATH"`

	ModelDir           string `mapstructure:"MODEL_DIR"`
	ModelName          string `mapstructure:"MODEL_NAME"`
	ModelChunkCount    int    `mapstructure:"MODEL_CHUNK_COUNT"`
	ModelChunkExt      string `mapstructure:"MODEL_CHUNK_EXT"`
	ModelReferenceYear int    `mapstructure:"MODEL_REFERENCE_YEAR"`

	DefaultTown       string `mapstructure:"DEFAULT_TOWN"`
	AllowWardFallback bool   `mapstructure:"ALLOW_WARD_FALLBACK"`

	RankingWorkers  int           `mapstructure:"RANKING_WORKERS"`
	RankingCacheTTL time.Duration `mapstructure:"RANKING_CACHE_TTL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("DB_SOURCE", "")
	v.SetDefault("SCORE_TABLE_SOURCE", SourceFile)
	v.SetDefault("SCORE_TABLE_PATH", "artifacts/town_mapping.json")
	v.SetDefault("MODEL_DIR", "artifacts")
	v.SetDefault("MODEL_NAME", "tokyo_price_v1")
	v.SetDefault("MODEL_CHUNK_COUNT", 4)
	v.SetDefault("MODEL_CHUNK_EXT", "bin")
	v.SetDefault("MODEL_REFERENCE_YEAR", 2026)
	v.SetDefault("DEFAULT_TOWN", "西新宿")
	v.SetDefault("ALLOW_WARD_FALLBACK", false)
	v.SetDefault("RANKING_WORKERS", 0)
	v.SetDefault("RANKING_CACHE_TTL", 10*time.Minute)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// LoadConfig reads app.env from path and lets environment variables override it.
// A missing file is not an error; defaults and the environment still apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	setDefaults(v)
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: failed to read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}

	if err = config.Validate(); err != nil {
		return config, fmt.Errorf("config: invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks the values a process cannot start without.
func (c Config) Validate() error {
	switch c.ScoreTableSource {
	case SourceFile:
		if c.ScoreTablePath == "" {
			return fmt.Errorf("SCORE_TABLE_PATH is required when SCORE_TABLE_SOURCE=%s", SourceFile)
		}
	case SourcePostgres:
		if c.DBSource == "" {
			return fmt.Errorf("DB_SOURCE is required when SCORE_TABLE_SOURCE=%s", SourcePostgres)
		}
	default:
		return fmt.Errorf("unknown SCORE_TABLE_SOURCE %q", c.ScoreTableSource)
	}

	if c.ModelName == "" {
		return fmt.Errorf("MODEL_NAME is required")
	}
	if c.ModelChunkCount < 1 {
		return fmt.Errorf("MODEL_CHUNK_COUNT must be at least 1, got %d", c.ModelChunkCount)
	}
	if c.ModelReferenceYear < 1900 {
		return fmt.Errorf("MODEL_REFERENCE_YEAR must be 1900 or later, got %d", c.ModelReferenceYear)
	}
	if c.RankingWorkers < 0 {
		return fmt.Errorf("RANKING_WORKERS must not be negative")
	}
	return nil
}
