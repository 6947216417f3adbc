package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// The URL is optional: without it the server runs with the generation
// audit log disabled.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// GenerationConfig contains all settings for the generation client and its
// transport backend.
type GenerationConfig struct {
	// Backend selects the transport implementation: "proxy" sends requests
	// through the credential-holding proxy endpoint, "gemini" calls the
	// Gemini API directly with a server-held key. There is no fallback
	// between the two; a misconfigured backend fails at startup.
	Backend string `mapstructure:"backend" validate:"required,oneof=proxy gemini"`

	// ProxyEndpoint is the URL of the generation proxy. Required when
	// Backend is "proxy".
	ProxyEndpoint string `mapstructure:"proxy_endpoint" validate:"required_if=Backend proxy,omitempty,url"`

	// GeminiAPIKey is the provider key. Required when Backend is "gemini".
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required_if=Backend gemini"`

	// ModelName identifies the generative model requested from the backend.
	ModelName string `mapstructure:"model_name" validate:"required"`

	// MaxRetries is the total number of transport attempts for one request.
	MaxRetries int `mapstructure:"max_retries" validate:"required,gt=0"`

	// InitialBackoffMs is the delay before the first retry, in milliseconds.
	InitialBackoffMs int `mapstructure:"initial_backoff_ms" validate:"required,gt=0"`

	// BackoffCeilingMs caps the backoff delay, in milliseconds.
	BackoffCeilingMs int `mapstructure:"backoff_ceiling_ms" validate:"required,gt=0"`

	// MinCallIntervalMs is the minimum spacing between outbound transport
	// calls, in milliseconds.
	MinCallIntervalMs int `mapstructure:"min_call_interval_ms" validate:"required,gt=0"`

	// CacheTTLMinutes is the freshness window for cached responses.
	CacheTTLMinutes int `mapstructure:"cache_ttl_minutes" validate:"required,gt=0"`

	// CacheMaxEntries bounds the response cache size.
	CacheMaxEntries int `mapstructure:"cache_max_entries" validate:"required,gt=0"`

	// RequestTimeoutSeconds bounds a single transport call.
	RequestTimeoutSeconds int `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
}
