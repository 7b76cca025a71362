package config

import (
	"os"
	"strconv"
	"unicode/utf8"

	"colstats/internal"
	"colstats/internal/errors"
)

// DefaultColumn is the column analyzed when none is requested
const DefaultColumn = "Amount Received"

// ErrNegativeSampleSize rejects a negative inference sample size
var ErrNegativeSampleSize = errors.ConfigInvalid("infer schema length must not be negative")

// Config represents the complete application configuration
type Config struct {
	Data   DataConfig
	Server ServerConfig
	Log    LogConfig
}

// DataConfig holds data loading and computation settings
type DataConfig struct {
	DefaultColumn     string
	InferSchemaLength int // data rows sampled for type inference, 0 = all rows
	Delimiter         rune
	Strategy          string // "lazy" or "eager"
	Sheet             string // xlsx sheet, empty = first sheet
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port              string
	GinMode           string
	DataDir           string
	MaxConcurrentJobs int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level internal.LogLevel
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dataConfig, err := loadDataConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load data configuration")
	}
	config.Data = *dataConfig

	config.Server = *loadServerConfig()
	config.Log = LogConfig{
		Level: internal.ParseLogLevel(os.Getenv("LOG_LEVEL"), internal.LogLevelWarn),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Data: DataConfig{
			DefaultColumn:     DefaultColumn,
			InferSchemaLength: 100,
			Delimiter:         ',',
			Strategy:          "lazy",
		},
		Server: ServerConfig{
			Port:              "8080",
			GinMode:           "release",
			DataDir:           ".",
			MaxConcurrentJobs: 4,
		},
		Log: LogConfig{Level: internal.LogLevelWarn},
	}
}

func loadDataConfig() (*DataConfig, error) {
	delimiter, err := ParseDelimiter(getEnvOrDefault("COLSTATS_DELIMITER", ","))
	if err != nil {
		return nil, err
	}

	return &DataConfig{
		DefaultColumn:     getEnvOrDefault("COLSTATS_DEFAULT_COLUMN", DefaultColumn),
		InferSchemaLength: getEnvIntOrDefault("COLSTATS_INFER_SCHEMA_LENGTH", 100),
		Delimiter:         delimiter,
		Strategy:          getEnvOrDefault("COLSTATS_STRATEGY", "lazy"),
		Sheet:             getEnvOrDefault("COLSTATS_SHEET", ""),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:              getEnvOrDefault("PORT", "8080"),
		GinMode:           getEnvOrDefault("GIN_MODE", "release"),
		DataDir:           getEnvOrDefault("COLSTATS_DATA_DIR", "."),
		MaxConcurrentJobs: getEnvIntOrDefault("COLSTATS_MAX_CONCURRENT_JOBS", 4),
	}
}

// ParseDelimiter accepts a single-character delimiter, with "\t" and "tab" for tabs
func ParseDelimiter(value string) (rune, error) {
	switch value {
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, errors.ConfigInvalid("delimiter must be a single character, got " + strconv.Quote(value))
	}
	r, _ := utf8.DecodeRuneInString(value)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, errors.ConfigInvalid("delimiter " + strconv.Quote(value) + " is not allowed")
	}
	return r, nil
}

func validateConfig(config *Config) error {
	if config.Data.DefaultColumn == "" {
		return errors.ConfigInvalid("default column name is required")
	}
	if config.Data.InferSchemaLength < 0 {
		return ErrNegativeSampleSize
	}
	if config.Data.Strategy != "lazy" && config.Data.Strategy != "eager" {
		return errors.ConfigInvalid("strategy must be lazy or eager, got " + strconv.Quote(config.Data.Strategy))
	}
	if config.Server.MaxConcurrentJobs < 1 {
		return errors.ConfigInvalid("max concurrent jobs must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
