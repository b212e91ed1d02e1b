package lifecycle

import (
	"serendibgo/internal/models"
)

// ProviderTransitions is the authoritative provider lifecycle table.
// blacklisted is terminal except for the single probation exit to inactive;
// that recovery path is deliberate.
var ProviderTransitions = TransitionTable{
	string(models.ProviderStatusPending): {
		string(models.ProviderStatusActive),
		string(models.ProviderStatusSuspended),
		string(models.ProviderStatusInactive),
	},
	string(models.ProviderStatusActive): {
		string(models.ProviderStatusSuspended),
		string(models.ProviderStatusInactive),
		string(models.ProviderStatusBlacklisted),
	},
	string(models.ProviderStatusSuspended): {
		string(models.ProviderStatusActive),
		string(models.ProviderStatusInactive),
		string(models.ProviderStatusBlacklisted),
	},
	string(models.ProviderStatusInactive): {
		string(models.ProviderStatusActive),
		string(models.ProviderStatusSuspended),
	},
	string(models.ProviderStatusBlacklisted): {
		string(models.ProviderStatusInactive),
	},
}

// BookingTransitions is the authoritative booking lifecycle table.
// completed, cancelled and no_show are terminal.
var BookingTransitions = TransitionTable{
	string(models.BookingStatusScheduled): {
		string(models.BookingStatusConfirmed),
		string(models.BookingStatusCancelled),
	},
	string(models.BookingStatusConfirmed): {
		string(models.BookingStatusInProgress),
		string(models.BookingStatusCancelled),
		string(models.BookingStatusDelayed),
	},
	string(models.BookingStatusDelayed): {
		string(models.BookingStatusInProgress),
		string(models.BookingStatusCancelled),
	},
	string(models.BookingStatusInProgress): {
		string(models.BookingStatusCompleted),
		string(models.BookingStatusCancelled),
	},
	string(models.BookingStatusCompleted): {},
	string(models.BookingStatusCancelled): {},
	string(models.BookingStatusNoShow):    {},
}

// TransitionProviderStatus validates a provider status change.
func TransitionProviderStatus(current, requested models.ProviderStatus) (models.ProviderStatus, error) {
	next, err := Transition(ProviderTransitions, string(current), string(requested))
	if err != nil {
		return "", err
	}
	return models.ProviderStatus(next), nil
}

// TransitionBookingStatus validates a booking status change.
func TransitionBookingStatus(current, requested models.BookingStatus) (models.BookingStatus, error) {
	next, err := Transition(BookingTransitions, string(current), string(requested))
	if err != nil {
		return "", err
	}
	return models.BookingStatus(next), nil
}
