// Package gemini talks to the Gemini API directly, without the relay
// service in between. It implements the same transport contract as the
// proxy backend: rate limit violations and connectivity problems come
// back as errors so the caller can retry, while content-level refusals
// are reported inside the response itself.
package gemini
