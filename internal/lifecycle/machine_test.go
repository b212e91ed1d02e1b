package lifecycle

import (
	"errors"
	"testing"

	"serendibgo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionAllowed(t *testing.T) {
	next, err := Transition(ProviderTransitions, "pending", "active")
	require.NoError(t, err)
	assert.Equal(t, "active", next)
}

func TestTransitionRejected(t *testing.T) {
	_, err := Transition(ProviderTransitions, "pending", "blacklisted")
	require.Error(t, err)

	var invalid *InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "pending", invalid.From)
	assert.Equal(t, "blacklisted", invalid.To)
	assert.Equal(t, "invalid status transition from pending to blacklisted", err.Error())
}

func TestTransitionUnknownState(t *testing.T) {
	_, err := Transition(ProviderTransitions, "bogus", "active")
	assert.Error(t, err)
}

func TestProviderBlacklistedProbationExit(t *testing.T) {
	// blacklisted may only move to inactive
	next, err := TransitionProviderStatus(models.ProviderStatusBlacklisted, models.ProviderStatusInactive)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderStatusInactive, next)

	for _, target := range []models.ProviderStatus{
		models.ProviderStatusPending,
		models.ProviderStatusActive,
		models.ProviderStatusSuspended,
	} {
		_, err := TransitionProviderStatus(models.ProviderStatusBlacklisted, target)
		assert.Error(t, err, "blacklisted -> %s must be rejected", target)
	}
}

func TestProviderSuspendedRecovers(t *testing.T) {
	next, err := TransitionProviderStatus(models.ProviderStatusSuspended, models.ProviderStatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderStatusActive, next)
}

func TestBookingHappyPath(t *testing.T) {
	path := []models.BookingStatus{
		models.BookingStatusConfirmed,
		models.BookingStatusInProgress,
		models.BookingStatusCompleted,
	}

	current := models.BookingStatusScheduled
	for _, requested := range path {
		next, err := TransitionBookingStatus(current, requested)
		require.NoError(t, err, "%s -> %s", current, requested)
		current = next
	}
	assert.Equal(t, models.BookingStatusCompleted, current)
}

func TestBookingSkippingConfirmationRejected(t *testing.T) {
	_, err := TransitionBookingStatus(models.BookingStatusScheduled, models.BookingStatusInProgress)
	require.Error(t, err)

	var invalid *InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "scheduled", invalid.From)
	assert.Equal(t, "in_progress", invalid.To)
}

func TestBookingDelayedPath(t *testing.T) {
	next, err := TransitionBookingStatus(models.BookingStatusConfirmed, models.BookingStatusDelayed)
	require.NoError(t, err)

	next, err = TransitionBookingStatus(next, models.BookingStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, next)
}

func TestBookingTerminalStates(t *testing.T) {
	terminal := []models.BookingStatus{
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
		models.BookingStatusNoShow,
	}
	all := []models.BookingStatus{
		models.BookingStatusScheduled,
		models.BookingStatusConfirmed,
		models.BookingStatusInProgress,
		models.BookingStatusCompleted,
		models.BookingStatusCancelled,
		models.BookingStatusDelayed,
		models.BookingStatusNoShow,
	}

	for _, from := range terminal {
		for _, to := range all {
			_, err := TransitionBookingStatus(from, to)
			assert.Error(t, err, "%s -> %s must be rejected", from, to)
		}
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(BookingTransitions, "scheduled", "confirmed"))
	assert.False(t, CanTransition(BookingTransitions, "scheduled", "completed"))
}

func TestAllowedFromReturnsCopy(t *testing.T) {
	allowed := AllowedFrom(ProviderTransitions, "pending")
	require.Equal(t, []string{"active", "suspended", "inactive"}, allowed)

	allowed[0] = "mutated"
	assert.Equal(t, []string{"active", "suspended", "inactive"}, AllowedFrom(ProviderTransitions, "pending"))
}

func TestAllowedFromTerminal(t *testing.T) {
	assert.Empty(t, AllowedFrom(BookingTransitions, "completed"))
	assert.Empty(t, AllowedFrom(BookingTransitions, "no_show"))
}
