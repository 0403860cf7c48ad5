package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env          string
	LogLevel     string
	Port         uint16
	DatabaseUrl  string // Empty runs the engine over FixturesPath
	FixturesPath string
	DefaultUF    string // Destination for clients registered without an address
	Events       EventsConfig
	Metrics      MetricsConfig
	Sentry       SentryConfig
}

// EventsConfig holds the NATS connection used to announce finished
// calculations. An empty URL disables publishing.
type EventsConfig struct {
	NatsURL string
	Subject string
}

type MetricsConfig struct {
	Namespace string
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string
	Enabled          bool
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	return loadConfig(viper.New())
}

// loadConfig reads the process environment through v.
func loadConfig(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", 3000)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("FIXTURES_PATH", "./fixtures/fiscal.yaml")
	v.SetDefault("DEFAULT_UF", "SP")
	v.SetDefault("NATS_URL", "")
	v.SetDefault("NATS_SUBJECT", "fiscal.calculo.concluido")
	v.SetDefault("METRICS_NAMESPACE", "fiscal")
	v.SetDefault("SENTRY_DSN", "")
	v.SetDefault("SENTRY_ENABLED", false) // Disabled by default for development
	v.SetDefault("SENTRY_ENVIRONMENT", "development")
	v.SetDefault("SENTRY_RELEASE", "")
	v.SetDefault("SENTRY_SAMPLE_RATE", 1.0)
	v.SetDefault("SENTRY_TRACES_SAMPLE_RATE", 0.0)

	port := v.GetInt("PORT")
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", port)
	}

	cfg := &Config{
		Env:          v.GetString("ENV"),
		LogLevel:     v.GetString("LOG_LEVEL"),
		Port:         uint16(port),
		DatabaseUrl:  v.GetString("DATABASE_URL"),
		FixturesPath: v.GetString("FIXTURES_PATH"),
		DefaultUF:    strings.ToUpper(v.GetString("DEFAULT_UF")),
		Events: EventsConfig{
			NatsURL: v.GetString("NATS_URL"),
			Subject: v.GetString("NATS_SUBJECT"),
		},
		Metrics: MetricsConfig{
			Namespace: v.GetString("METRICS_NAMESPACE"),
		},
		Sentry: SentryConfig{
			DSN:              v.GetString("SENTRY_DSN"),
			Enabled:          v.GetBool("SENTRY_ENABLED"),
			Environment:      v.GetString("SENTRY_ENVIRONMENT"),
			Release:          v.GetString("SENTRY_RELEASE"),
			SampleRate:       v.GetFloat64("SENTRY_SAMPLE_RATE"),
			TracesSampleRate: v.GetFloat64("SENTRY_TRACES_SAMPLE_RATE"),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if len(cfg.DefaultUF) != 2 {
		return nil, fmt.Errorf("DEFAULT_UF must be a two-letter state code, got %q", cfg.DefaultUF)
	}

	if cfg.DatabaseUrl == "" && cfg.FixturesPath == "" {
		return nil, fmt.Errorf("either DATABASE_URL or FIXTURES_PATH must be set")
	}

	// Fixtures are for local work only
	if cfg.Env == "prod" && cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set in production environment")
	}

	return cfg, nil
}
