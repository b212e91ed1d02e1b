package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingStatusScheduled  BookingStatus = "scheduled"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusDelayed    BookingStatus = "delayed"
	BookingStatusNoShow     BookingStatus = "no_show"
)

// ActiveBookingStatuses are the states that occupy a provider's calendar for
// conflict and per-day cap checks.
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusScheduled,
	BookingStatusConfirmed,
	BookingStatusInProgress,
}

// BookingWindow is a half-open [Start, End) time range; touching endpoints do
// not overlap.
type BookingWindow struct {
	Start time.Time `json:"start" bson:"start" validate:"required"`
	End   time.Time `json:"end" bson:"end" validate:"required"`
}

// Overlaps reports half-open interval overlap with another window.
func (w BookingWindow) Overlaps(other BookingWindow) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// TouchesDate reports whether any part of the window falls on the calendar
// date of day (in day's location).
func (w BookingWindow) TouchesDate(day time.Time) bool {
	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	return w.Start.Before(dayEnd) && dayStart.Before(w.End)
}

type BookingLocation struct {
	City     string `json:"city" bson:"city"`
	District string `json:"district" bson:"district"`
}

type Booking struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	BookingReference string              `json:"booking_reference" bson:"booking_reference"`
	RequesterID      primitive.ObjectID  `json:"requester_id" bson:"requester_id" validate:"required"`
	ProviderID       *primitive.ObjectID `json:"provider_id" bson:"provider_id"`
	ProviderKind     ProviderKind        `json:"provider_kind" bson:"provider_kind" validate:"required"`
	Status           BookingStatus       `json:"status" bson:"status" default:"scheduled"`
	Window           BookingWindow       `json:"window" bson:"window" validate:"required"`
	Location         *BookingLocation    `json:"location" bson:"location"`
	Notes            string              `json:"notes,omitempty" bson:"notes,omitempty"`
	StatusHistory    []StatusChange      `json:"status_history" bson:"status_history"`
	CreatedAt        time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" bson:"updated_at"`
}

// IsTerminal reports whether the booking is in a state that admits no
// further transitions.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// IsActive reports whether the booking occupies the provider's calendar.
func (b *Booking) IsActive() bool {
	for _, s := range ActiveBookingStatuses {
		if b.Status == s {
			return true
		}
	}
	return false
}
