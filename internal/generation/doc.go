// Package generation provides the client for producing social-media post
// text through an external generative-text API. It abstracts the details of
// the transport (credential-holding proxy or direct Gemini), allowing the
// application to generate and rewrite posts without coupling to a specific
// external service.
//
// The client layers three protections around every transport call:
//
//  1. A bounded, TTL-keyed response cache so identical requests inside the
//     freshness window never reach the transport twice.
//  2. A pacing limiter that enforces a minimum spacing between outbound
//     calls, owned by the single internal call path so no call site can
//     bypass it.
//  3. A retry controller that classifies failures and drives exponential
//     backoff with jitter for transient ones (quota and availability
//     errors, connection failures).
//
// Failures reach callers on two deliberate channels: provider-reported
// failures come back as data (Response.Err set, empty text) and are never
// converted to Go errors, while connection-level failures and an exhausted
// retry budget come back as Go errors. See the Transport interface and
// Client for the contract.
package generation
