package config_test

import (
	"testing"

	"github.com/olustayhired/postflow/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a configuration that passes validation, for tests to
// mutate one field at a time.
func validConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:     8080,
			LogLevel: "info",
		},
		Auth: config.AuthConfig{
			JWTSecret:            "0123456789abcdef0123456789abcdef",
			TokenLifetimeMinutes: 60,
		},
		Generation: config.GenerationConfig{
			Backend:               "proxy",
			ProxyEndpoint:         "https://example.com/functions/generate",
			ModelName:             "gemini-2.0-flash",
			MaxRetries:            5,
			InitialBackoffMs:      1000,
			BackoffCeilingMs:      30000,
			MinCallIntervalMs:     1000,
			CacheTTLMinutes:       30,
			CacheMaxEntries:       512,
			RequestTimeoutSeconds: 60,
		},
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("POSTFLOW_SERVER_PORT", "9090")
	t.Setenv("POSTFLOW_SERVER_LOG_LEVEL", "debug")
	t.Setenv("POSTFLOW_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("POSTFLOW_GENERATION_PROXY_ENDPOINT", "https://example.com/functions/generate")

	cfg, err := config.Load()
	require.NoError(t, err, "Load should succeed with a complete environment")

	assert.Equal(t, 9090, cfg.Server.Port, "env var should override the default port")
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "proxy", cfg.Generation.Backend, "backend should default to proxy")
	assert.Equal(t, 5, cfg.Generation.MaxRetries)
	assert.Equal(t, 1000, cfg.Generation.InitialBackoffMs)
	assert.Equal(t, 30, cfg.Generation.CacheTTLMinutes)
}

func TestLoadRejectsMissingProxyEndpoint(t *testing.T) {
	t.Setenv("POSTFLOW_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("POSTFLOW_GENERATION_BACKEND", "proxy")
	t.Setenv("POSTFLOW_GENERATION_PROXY_ENDPOINT", "")

	_, err := config.Load()
	require.Error(t, err, "a proxy backend without an endpoint must fail at load time")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(cfg *config.Config) {},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			mutate:  func(cfg *config.Config) { cfg.Server.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "short jwt secret",
			mutate:  func(cfg *config.Config) { cfg.Auth.JWTSecret = "too-short" },
			wantErr: true,
		},
		{
			name:    "unknown backend",
			mutate:  func(cfg *config.Config) { cfg.Generation.Backend = "local" },
			wantErr: true,
		},
		{
			name: "gemini backend requires key",
			mutate: func(cfg *config.Config) {
				cfg.Generation.Backend = "gemini"
				cfg.Generation.GeminiAPIKey = ""
			},
			wantErr: true,
		},
		{
			name: "gemini backend with key is valid",
			mutate: func(cfg *config.Config) {
				cfg.Generation.Backend = "gemini"
				cfg.Generation.GeminiAPIKey = "test-key"
				cfg.Generation.ProxyEndpoint = ""
			},
			wantErr: false,
		},
		{
			name:    "zero max retries",
			mutate:  func(cfg *config.Config) { cfg.Generation.MaxRetries = 0 },
			wantErr: true,
		},
		{
			name:    "database url optional",
			mutate:  func(cfg *config.Config) { cfg.Database.URL = "" },
			wantErr: false,
		},
		{
			name:    "malformed database url",
			mutate:  func(cfg *config.Config) { cfg.Database.URL = "not a url" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := config.Validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
