package generation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"
	"unicode/utf8"

	"github.com/olustayhired/postflow/internal/generation/prompt"
	"github.com/olustayhired/postflow/internal/platform/logger"
	"golang.org/x/time/rate"
)

// Default retry and pacing parameters, used when the config leaves them
// zero.
const (
	DefaultMaxRetries      = 5
	DefaultInitialBackoff  = 1000 * time.Millisecond
	DefaultBackoffCeiling  = 30000 * time.Millisecond
	DefaultMinCallInterval = 1000 * time.Millisecond
	DefaultCacheTTL        = 30 * time.Minute
	DefaultCacheMaxEntries = 512
)

// cacheHintLength is how much of the prompt prefix is forwarded to the
// backend as an advisory request identifier.
const cacheHintLength = 50

// ClientConfig carries the tunable parameters for a Client.
type ClientConfig struct {
	// MaxRetries is the total number of transport attempts per request.
	MaxRetries int

	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration

	// BackoffCeiling caps the backoff delay.
	BackoffCeiling time.Duration

	// MinCallInterval is the minimum spacing between outbound transport
	// calls, enforced across all requests on this client.
	MinCallInterval time.Duration

	// CacheTTL is the freshness window for cached responses.
	CacheTTL time.Duration

	// CacheMaxEntries bounds the response cache.
	CacheMaxEntries int
}

// withDefaults fills zero fields with the package defaults.
func (cfg ClientConfig) withDefaults() ClientConfig {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}
	if cfg.BackoffCeiling == 0 {
		cfg.BackoffCeiling = DefaultBackoffCeiling
	}
	if cfg.MinCallInterval == 0 {
		cfg.MinCallInterval = DefaultMinCallInterval
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.CacheMaxEntries == 0 {
		cfg.CacheMaxEntries = DefaultCacheMaxEntries
	}
	return cfg
}

// Client turns content requests into generated text while protecting the
// downstream quota-limited API: identical requests inside the cache TTL are
// served from memory, outbound calls are paced to a minimum spacing, and
// transient failures are retried with exponential backoff and jitter.
//
// Construct with NewClient; the zero value is not usable. Safe for
// concurrent use.
type Client struct {
	transport Transport
	cache     *ResponseCache
	limiter   *rate.Limiter
	prompts   *prompt.Builder
	logger    *slog.Logger

	maxRetries     int
	initialBackoff time.Duration
	backoffCeiling time.Duration

	// jitter and sleep are seams for tests; production uses rand.Float64
	// and a context-aware timer sleep.
	jitter func() float64
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewClient creates a generation client over the given transport.
// A nil logger falls back to slog.Default.
func NewClient(transport Transport, cfg ClientConfig, log *slog.Logger) (*Client, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: transport cannot be nil", ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}

	cfg = cfg.withDefaults()
	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("%w: max retries must be at least 1, got %d", ErrInvalidConfig, cfg.MaxRetries)
	}
	if cfg.InitialBackoff <= 0 || cfg.BackoffCeiling <= 0 || cfg.MinCallInterval <= 0 {
		return nil, fmt.Errorf("%w: backoff and pacing intervals must be positive", ErrInvalidConfig)
	}

	cache, err := NewResponseCache(cfg.CacheMaxEntries, cfg.CacheTTL)
	if err != nil {
		return nil, err
	}

	return &Client{
		transport:      transport,
		cache:          cache,
		limiter:        rate.NewLimiter(rate.Every(cfg.MinCallInterval), 1),
		prompts:        prompt.NewBuilder(rand.New(rand.NewSource(time.Now().UnixNano()))),
		logger:         log.With(slog.String("component", "generation_client")),
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		backoffCeiling: cfg.BackoffCeiling,
		jitter:         rand.Float64,
		sleep:          sleepContext,
	}, nil
}

// Generate resolves a caller-built prompt. The prompt itself keys the
// cache, so repeating the exact prompt inside the TTL window is served
// from memory.
func (c *Client) Generate(ctx context.Context, promptText string) (*Response, error) {
	return c.resolve(ctx, prompt.KeyForContent(promptText), promptText)
}

// GenerateHookPost builds a short-form post opened with a randomly drawn
// hook archetype and tone, shaped by the platform formatting rules.
func (c *Client) GenerateHookPost(ctx context.Context, req Request) (*Response, error) {
	promptText, key := c.prompts.HookPost(promptInput(req))
	return c.resolve(ctx, key, promptText)
}

// GenerateLinkedInPost builds a long-form LinkedIn post with a minimum
// length framing and LinkedIn formatting rules.
func (c *Client) GenerateLinkedInPost(ctx context.Context, req Request) (*Response, error) {
	promptText, key := c.prompts.LinkedInPost(promptInput(req))
	return c.resolve(ctx, key, promptText)
}

// RewriteForLinkedIn reworks an existing post for LinkedIn. The cache key
// covers only the source content: rewriting the same post inside the TTL
// yields the cached rewrite regardless of the length budget.
func (c *Client) RewriteForLinkedIn(ctx context.Context, content string, targetLength int) (*Response, error) {
	promptText, key := c.prompts.Rewrite(content, targetLength)
	return c.resolve(ctx, key, promptText)
}

// promptInput maps a Request onto the prompt package's input type.
func promptInput(req Request) prompt.Input {
	return prompt.Input{
		Theme:          req.Theme,
		Topic:          req.Topic,
		TargetAudience: req.TargetAudience,
		SourceContent:  req.SourceContent,
		TargetLength:   req.TargetLength,
		ExcludeTones:   req.ExcludeTones,
	}
}

// resolve serves the key from the cache when fresh, otherwise drives the
// prompt through the paced, retrying transport call and records the
// resolution. Soft failures are cached like successes: the TTL bounds how
// long a provider-reported failure is replayed.
func (c *Client) resolve(ctx context.Context, key, promptText string) (*Response, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	if cached, ok := c.cache.Get(key); ok {
		log.DebugContext(ctx, "generation served from cache",
			slog.String("cache_key", key))
		cached.CacheHit = true
		cached.Attempts = 0
		return cached, nil
	}

	response, err := c.callWithRetry(ctx, promptText, log)
	if err != nil {
		return nil, err
	}

	c.cache.Put(key, response)
	return response, nil
}

// callWithRetry performs up to maxRetries paced transport calls for one
// request, sleeping the current backoff delay between retryable failures.
// The delay doubles after each sleep, gains up to 20% multiplicative
// jitter, and is clamped to the ceiling. Non-retryable errors propagate
// immediately with no sleep.
func (c *Client) callWithRetry(ctx context.Context, promptText string, log *slog.Logger) (*Response, error) {
	delay := c.initialBackoff
	hint := cacheHint(promptText)

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("generation cancelled while pacing: %w", err)
		}

		response, err := c.transport.Generate(ctx, promptText, hint)
		if err == nil {
			response.Attempts = attempt + 1
			if response.Failed() {
				log.WarnContext(ctx, "generation completed with provider-reported failure",
					slog.String("provider_error", response.Err),
					slog.Int("attempt", attempt+1))
			} else {
				log.InfoContext(ctx, "generation succeeded",
					slog.Int("attempt", attempt+1),
					slog.Int("text_length", len(response.Text)))
			}
			return response, nil
		}

		if !isRetryable(err) {
			log.WarnContext(ctx, "generation failed with non-retryable error",
				slog.String("error", err.Error()),
				slog.Int("attempt", attempt+1))
			return nil, fmt.Errorf("generation failed: %w", err)
		}

		log.WarnContext(ctx, "generation call failed, will retry",
			slog.String("error", err.Error()),
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", c.maxRetries),
			slog.Duration("backoff", delay))

		if attempt == c.maxRetries-1 {
			break
		}

		if err := c.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("generation cancelled during backoff: %w", err)
		}

		delay *= 2
		delay = time.Duration(float64(delay) * (1 + c.jitter()*0.2))
		if delay > c.backoffCeiling {
			delay = c.backoffCeiling
		}
	}

	log.ErrorContext(ctx, "generation retries exhausted",
		slog.Int("attempts", c.maxRetries))
	return nil, ErrRetriesExhausted
}

// cacheHint returns the prompt prefix forwarded to the backend, trimmed
// on a rune boundary so the hint stays valid UTF-8.
func cacheHint(promptText string) string {
	if len(promptText) <= cacheHintLength {
		return promptText
	}
	cut := cacheHintLength
	for cut > 0 && !utf8.RuneStart(promptText[cut]) {
		cut--
	}
	return promptText[:cut]
}

// sleepContext waits for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
