package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file in the working directory. A missing file is
	// fine; a malformed one is not.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables with POSTFLOW_ prefix override file values,
	// e.g. POSTFLOW_GENERATION_PROXY_ENDPOINT.
	v.SetEnvPrefix("POSTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration against its struct tags.
// It is exported so tests and alternative entry points can validate
// configurations they construct by hand.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// setDefaults registers default values so that a minimal environment can
// still produce a runnable configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	// Secrets and URLs default to empty so viper knows the keys exist and
	// binds their environment variables during Unmarshal.
	v.SetDefault("database.url", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("generation.backend", "proxy")
	v.SetDefault("generation.proxy_endpoint", "")
	v.SetDefault("generation.gemini_api_key", "")
	v.SetDefault("generation.model_name", "gemini-2.0-flash")
	v.SetDefault("generation.max_retries", 5)
	v.SetDefault("generation.initial_backoff_ms", 1000)
	v.SetDefault("generation.backoff_ceiling_ms", 30000)
	v.SetDefault("generation.min_call_interval_ms", 1000)
	v.SetDefault("generation.cache_ttl_minutes", 30)
	v.SetDefault("generation.cache_max_entries", 512)
	v.SetDefault("generation.request_timeout_seconds", 60)
}
