package generation

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Common errors returned by the generation package.
var (
	// ErrInvalidConfig is returned when the client or transport
	// configuration is invalid. Detected at construction, never per call.
	ErrInvalidConfig = errors.New("invalid generation configuration")

	// ErrTransientFailure marks temporary errors that might resolve on
	// retry: quota (429) and availability (503) statuses and network-level
	// failures.
	ErrTransientFailure = errors.New("transient generation failure")

	// ErrRetriesExhausted is returned when the retry budget is spent
	// without a successful call. The message tells callers how long to
	// back off before trying again.
	ErrRetriesExhausted = errors.New(
		"generation retries exhausted, the service is rate limited; wait about 5 minutes before trying again",
	)
)

// TransientError is a transport failure eligible for retry. Status holds
// the HTTP status that classified it, when one exists (0 for pure network
// failures).
type TransientError struct {
	Status int
	Err    error
}

func (e *TransientError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transient failure (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("transient failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return ErrTransientFailure
}

// isRetryable classifies an error from the transport. Structured transient
// errors and network-level failures retry; so does any error whose message
// carries a quota or availability status, covering transports that only
// surface the status as text.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var transient *TransientError
	if errors.As(err, &transient) {
		return true
	}
	if errors.Is(err, ErrTransientFailure) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "503") || strings.Contains(msg, "429")
}
