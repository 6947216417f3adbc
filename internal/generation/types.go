package generation

import (
	"context"
	"encoding/json"
)

// Request carries the content parameters for one generation.
// SourceContent should be non-empty for the generation to be meaningful;
// an empty value still executes but the model has nothing to work from.
type Request struct {
	// Theme is the campaign theme the post belongs to.
	Theme string

	// Topic is the specific subject of the post.
	Topic string

	// TargetAudience describes who the post should speak to.
	TargetAudience string

	// SourceContent is the raw material the post is generated from.
	SourceContent string

	// TargetLength is the character budget stated in the instruction text.
	// It is advisory: the model owns compliance and the client performs no
	// post-hoc length check.
	TargetLength int

	// ExcludeTones lists tone names the random draw must avoid. If the
	// exclusion covers the entire catalog the draw falls back to the full
	// catalog rather than failing.
	ExcludeTones []string
}

// Response is the outcome of a generation call that completed.
//
// Err set means the provider reported a failure: Text is empty and the
// caller must treat the result as a failed generation even though no Go
// error was returned. This is the "soft" failure channel; connection-level
// failures and retry exhaustion surface as Go errors instead.
type Response struct {
	// Text is the generated content.
	Text string `json:"text"`

	// Err carries a provider-reported failure message, if any.
	Err string `json:"error,omitempty"`

	// SafetyRatings is the provider's safety annotation, passed through
	// opaquely.
	SafetyRatings json.RawMessage `json:"safety_ratings,omitempty"`

	// CacheHit reports whether this response was served from the cache.
	CacheHit bool `json:"cache_hit"`

	// Attempts is the number of transport calls this resolution took.
	// Zero for cache hits.
	Attempts int `json:"attempts"`
}

// Failed reports whether the response carries a provider-reported failure.
func (r *Response) Failed() bool {
	return r.Err != ""
}

// Transport performs the actual call to the generative backend.
//
// Implementations return provider-reported failures (bad request, safety
// block, malformed body) as a Response with Err set rather than a Go
// error; Go errors are reserved for failures of the call itself
// (connection errors, quota and availability statuses) and determine
// whether the client retries.
type Transport interface {
	// Generate sends the prompt to the backend. cacheHint is a short,
	// advisory request identifier derived from the prompt prefix.
	Generate(ctx context.Context, prompt string, cacheHint string) (*Response, error)
}
