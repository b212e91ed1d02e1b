package availability

import (
	"serendibgo/internal/models"
)

// ConflictResult is the outcome of checking a proposed window against a
// provider's existing bookings.
type ConflictResult string

const (
	ConflictNone               ConflictResult = "NO_CONFLICT"
	ConflictOverlappingBooking ConflictResult = "OVERLAPPING_BOOKING"
	ConflictDayFull            ConflictResult = "DAY_FULL"
)

// CheckConflict reports whether a proposed window collides with the
// provider's existing bookings. Only bookings in active states (scheduled,
// confirmed, in_progress) count; terminal bookings do not occupy the
// calendar. Windows are half-open, so touching endpoints do not conflict.
// The per-day cap counts active bookings whose window touches the proposed
// start date.
func CheckConflict(policy models.AvailabilityPolicy, window models.BookingWindow, existing []*models.Booking) ConflictResult {
	dayCount := 0
	for _, b := range existing {
		if !b.IsActive() {
			continue
		}
		if b.Window.Overlaps(window) {
			return ConflictOverlappingBooking
		}
		if b.Window.TouchesDate(window.Start) {
			dayCount++
		}
	}

	if policy.MaxBookingsPerDay > 0 && dayCount >= policy.MaxBookingsPerDay {
		return ConflictDayFull
	}

	return ConflictNone
}
