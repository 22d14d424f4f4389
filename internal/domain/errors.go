package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var ErrNotFound = errors.New("not found")

// Verification outcomes surfaced to callers as client errors.
var (
	ErrAlreadyVerified = errors.New("email is already verified")

	// ErrInvalidCode covers a wrong code, a code never issued, one already consumed,
	// one superseded by a newer issuance and one past its expiry.
	ErrInvalidCode = errors.New("verification code is invalid or has expired")
)
