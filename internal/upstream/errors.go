package upstream

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationRequired means the provider rejected or refused to mint
	// an identity credential. Surfaced after the single refresh retry failed.
	ErrAuthenticationRequired = errors.New("upstream: authentication required")

	// ErrAttestationFailed means the integrity service rejected or refused to
	// mint an attestation credential.
	ErrAttestationFailed = errors.New("upstream: attestation failed")

	// ErrTokenExpired means the provider minted a credential that was already
	// expired on arrival.
	ErrTokenExpired = errors.New("upstream: token expired")

	// ErrInvalidURL means the request URL could not be built.
	ErrInvalidURL = errors.New("upstream: invalid request URL")
)

// StatusError is a non-2xx response other than 401/403 (those map onto the
// auth/attestation sentinels after the retry budget is spent).
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream: unexpected status %d", e.Code)
}

// EncodeError is a request body that could not be serialized. No network
// attempt was made.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return "upstream: encode request body: " + e.Err.Error() }
func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError is a 2xx response whose body did not match the caller's shape.
// Distinct from StatusError so callers can tell "the server answered but the
// payload didn't match" from "the server rejected the request".
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "upstream: decode response body: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// TransportError wraps a failure to obtain any HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "upstream: transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }
