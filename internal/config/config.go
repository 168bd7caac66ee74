// Package config loads the cache's runtime configuration from a YAML file
// (overridable by APP_-prefixed environment variables, via spf13/viper) and
// sets up the process-wide zerolog logger.
package config

import (
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds every setting recognized by the cache construction boundary
// (spec.md §6) plus the ambient concerns around it: logging, the optional
// metrics HTTP server, and optional Sentry error reporting.
type Config struct {
	Cache struct {
		MemoryLimitMB    int    `mapstructure:"memory_limit_mb"`
		Mode             string `mapstructure:"mode"`
		SerializeLimitMB int    `mapstructure:"serialize_limit_mb"`
		Group            string `mapstructure:"group"`
	} `mapstructure:"cache"`

	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Address string `mapstructure:"address"`
		Port    int    `mapstructure:"port"`
	} `mapstructure:"metrics"`

	Sentry struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"sentry"`

	LogLevel string `mapstructure:"log_level"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	level := zerolog.InfoLevel
	if cfg.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", cfg.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}
	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Sentry client, error reporting disabled")
		}
	}

	logger.Info().Str("level", level.String()).Msg("Logging configured")
	globalConfig = cfg
	logger.Info().Msg("Configuration loaded successfully")
}

// LoadConfig reads config.yaml from the working directory or ./config, with
// APP_-prefixed environment variables taking precedence over file values.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("cache.memory_limit_mb", 64)
	viper.SetDefault("cache.mode", "LRU")
	viper.SetDefault("cache.serialize_limit_mb", 0)
	viper.SetDefault("cache.group", "default")
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.address", "localhost")
	viper.SetDefault("metrics.port", 9090)

	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("sentry.dsn", "SENTRY_DSN")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetConfig returns the configuration loaded at package initialization.
func GetConfig() *Config {
	return globalConfig
}

// GetLogger returns the process-wide structured logger.
func GetLogger() zerolog.Logger {
	return logger
}
