package utils

import "time"

// Application Constants
const (
	AppName    = "SerendibGo"
	AppVersion = "2.0.0"

	// Default values
	DefaultTimeZone = "Asia/Colombo"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Availability policy bounds
	MinBookingsPerDay     = 1
	MaxBookingsPerDayCap  = 10
	MinAdvanceBookingDays = 1
	MaxAdvanceBookingDays = 365

	// Assignment locking
	AssignmentLockTTL       = 10 * time.Second
	AssignmentLockRetries   = 3
	AssignmentLockRetryWait = 100 * time.Millisecond

	// Booking references
	BookingReferencePrefix = "BK"

	// Response status values
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error message strings used by the response helpers
const (
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrValidationFailed = "validation failed"
)

// Reason codes surfaced by the assignment endpoints. Availability and
// conflict codes come straight from the availability package results; these
// cover the remaining outcomes.
const (
	ReasonNotEligible      = "NOT_ELIGIBLE"
	ReasonOutOfServiceArea = "OUT_OF_SERVICE_AREA"
	ReasonAlreadyAssigned  = "ALREADY_ASSIGNED"
	ReasonNotAssignable    = "BOOKING_NOT_ASSIGNABLE"
	ReasonRetry            = "RETRY"
)
