package auth

import "errors"

// Sentinel errors returned by token validation. Callers classify with
// errors.Is; the raw jwt library errors never leave this package.
var (
	// ErrInvalidToken covers malformed tokens and signature mismatches.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken is returned once the token's expiry has passed.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid is returned while the nbf claim is still in the future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")
)
