package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"heartrisk/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Model   ModelConfig
	Dataset DatasetConfig
	UI      UIConfig
	Log     LogConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// ModelConfig selects the classifier artifact. URL wins over Path when set.
type ModelConfig struct {
	Path    string
	URL     string
	Token   string
	Timeout time.Duration
}

// DatasetConfig selects the EDA dataset source. DSN wins over Path when set.
type DatasetConfig struct {
	Path  string
	Sheet string
	DSN   string
	Table string
}

// UIConfig holds presentation settings
type UIConfig struct {
	DefaultProfile string
	EDAEnabled     bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:  *loadServerConfig(),
		Dataset: *loadDatasetConfig(),
		UI:      *loadUIConfig(),
		Log:     LogConfig{Level: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO"))},
	}

	modelConfig, err := loadModelConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load model configuration")
	}
	config.Model = *modelConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "debug"),
		CORSOrigins:     getEnvListOrDefault("CORS_ORIGINS", []string{"*"}),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

func loadModelConfig() (*ModelConfig, error) {
	timeout, err := getEnvDuration("MODEL_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	return &ModelConfig{
		Path:    getEnvOrDefault("MODEL_PATH", "random_forest_model.json"),
		URL:     strings.TrimRight(os.Getenv("MODEL_URL"), "/"),
		Token:   os.Getenv("MODEL_TOKEN"),
		Timeout: timeout,
	}, nil
}

func loadDatasetConfig() *DatasetConfig {
	return &DatasetConfig{
		Path:  getEnvOrDefault("DATASET_PATH", "heart_statlog_cleveland_hungary_final.csv"),
		Sheet: os.Getenv("DATASET_SHEET"),
		DSN:   os.Getenv("DATASET_DSN"),
		Table: getEnvOrDefault("DATASET_TABLE", "heart"),
	}
}

func loadUIConfig() *UIConfig {
	return &UIConfig{
		DefaultProfile: strings.ToLower(getEnvOrDefault("DEFAULT_PROFILE", "sidebar")),
		EDAEnabled:     getEnvBoolOrDefault("EDA_ENABLED", true),
	}
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("PORT must be numeric, got %q", config.Server.Port))
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE must be debug, release or test, got %q", config.Server.GinMode))
	}
	if config.Model.URL == "" && config.Model.Path == "" {
		return errors.ConfigInvalid("MODEL_PATH or MODEL_URL is required")
	}
	if config.Model.Timeout <= 0 {
		return errors.ConfigInvalid("MODEL_TIMEOUT must be positive")
	}
	switch config.Log.Level {
	case "ERROR", "WARN", "INFO", "DEBUG", "TRACE":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("LOG_LEVEL %q is not a known level", config.Log.Level))
	}
	return nil
}

// UseRemoteModel reports whether the remote scorer is configured.
func (c *Config) UseRemoteModel() bool {
	return c.Model.URL != ""
}

// UsePostgresDataset reports whether the dataset comes from Postgres.
func (c *Config) UsePostgresDataset() bool {
	return c.Dataset.DSN != ""
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvDuration is strict: a malformed value is a config error, not a silent default.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s: %v", key, err))
	}
	return duration, nil
}
