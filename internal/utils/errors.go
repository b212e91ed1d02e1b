package utils

import "errors"

// Sentinel errors shared between repositories and services.
var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrProviderExists   = errors.New("provider profile already exists for this user and kind")

	// ErrBookingStateChanged and ErrProviderStateChanged mean a guarded write
	// did not match because a concurrent operation moved the record on first.
	ErrBookingStateChanged  = errors.New("booking state changed concurrently")
	ErrProviderStateChanged = errors.New("provider state changed concurrently")

	// ErrLockNotAcquired means the per-provider assignment lock was held by
	// another request; callers should retry.
	ErrLockNotAcquired = errors.New("could not acquire provider lock")
)
