// Package llmproxy implements the generation transport that calls the
// credential-holding proxy endpoint. The proxy owns the real provider key;
// this client never sees it. Provider-reported failures come back as data,
// quota and availability statuses and connection failures come back as
// retryable errors, matching the generation.Transport contract.
package llmproxy
