// Package common defines shared sentinel errors used across the
// authentication core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Input validation failed; wrapping errors carry the exact rule that
	// was violated so callers can show actionable feedback.
	ErrValidation = errors.New("validation error")

	// Too many recent failures for the identifier. The message deliberately
	// says nothing about the underlying cause.
	ErrRateLimited = errors.New("too many attempts, please try again later")

	// Duplicate email or username on registration. Wrapping errors name
	// the conflicting field.
	ErrConflict = errors.New("already exists")

	// Any login or session failure. One generic message regardless of root
	// cause, so account existence cannot be probed.
	ErrAuthentication = errors.New("invalid credentials")

	// Token failed decoding, signature or expiry checks. A single kind for
	// all three so the failure mode is not observable.
	ErrInvalidToken = errors.New("invalid token")

	// Unexpected persistence or infrastructure fault. Details are logged
	// and audited, never surfaced.
	ErrInternal = errors.New("internal error")
)
