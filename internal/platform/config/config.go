package config

import (
	"log/slog"
	"strings"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Sequence backends.
const (
	SequenceBackendPostgres = "postgres"
	SequenceBackendRedis    = "redis"
	SequenceBackendMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	JWTIssuer     string

	SequenceBackend string
	SequenceCeiling int64

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimit          string
	CORSAllowedOrigins []string
	MetricsEnabled     bool

	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("SEQUENCE_BACKEND", SequenceBackendPostgres)
	v.SetDefault("SEQUENCE_CEILING", domain.DefaultSequenceCeiling)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "")
	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		DatabaseURL:    v.GetString("PGSQL_URL"),
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		RateLimit:      v.GetString("RATE_LIMIT"),
		MetricsEnabled: v.GetBool("METRICS_ENABLED"),

		PosthogAPIKey:   v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint: v.GetString("POSTHOG_ENDPOINT"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Warn("PORT environment variable not set", slog.String("default", cfg.Port))
	}
	if v.GetString("JWT_SECRET") == "a-very-secret-key-should-be-longer-and-random" {
		slog.Warn("JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.SequenceBackend = strings.ToLower(strings.TrimSpace(v.GetString("SEQUENCE_BACKEND")))
	switch cfg.SequenceBackend {
	case SequenceBackendPostgres, SequenceBackendRedis, SequenceBackendMemory:
	default:
		slog.Warn("Invalid value for SEQUENCE_BACKEND", slog.String("value", cfg.SequenceBackend), slog.String("default", SequenceBackendPostgres))
		cfg.SequenceBackend = SequenceBackendPostgres
	}

	cfg.SequenceCeiling = v.GetInt64("SEQUENCE_CEILING")
	if cfg.SequenceCeiling <= 0 {
		slog.Warn("Invalid value for SEQUENCE_CEILING", slog.String("value", v.GetString("SEQUENCE_CEILING")), slog.Int64("default", domain.DefaultSequenceCeiling))
		cfg.SequenceCeiling = domain.DefaultSequenceCeiling
	}

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.DatabaseURL == "" && cfg.SequenceBackend != SequenceBackendMemory {
		slog.Warn("PGSQL_URL environment variable not set.")
	}
	return cfg
}
