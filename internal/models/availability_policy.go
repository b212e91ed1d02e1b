package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AvailabilityPolicy is the set of rules attached to a provider profile that
// governs when it may be booked. Times of day use the "HH:MM" wire format.
type AvailabilityPolicy struct {
	WorkingDays        []string      `json:"working_days" bson:"working_days"`
	WorkingHours       WorkingHours  `json:"working_hours" bson:"working_hours"`
	BlockedDates       []BlockedDate `json:"blocked_dates" bson:"blocked_dates"`
	MaxBookingsPerDay  int           `json:"max_bookings_per_day" bson:"max_bookings_per_day" default:"3"`
	AdvanceBookingDays int           `json:"advance_booking_days" bson:"advance_booking_days" default:"30"`
}

type WorkingHours struct {
	Start string `json:"start" bson:"start" default:"09:00"`
	End   string `json:"end" bson:"end" default:"17:00"`
}

type BlockedDate struct {
	Date   time.Time `json:"date" bson:"date"`
	Reason string    `json:"reason,omitempty" bson:"reason,omitempty"`
}

// DefaultAvailabilityPolicy mirrors the defaults a freshly registered
// provider starts with.
func DefaultAvailabilityPolicy() AvailabilityPolicy {
	return AvailabilityPolicy{
		WorkingDays: []string{
			"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
		},
		WorkingHours:       WorkingHours{Start: "09:00", End: "17:00"},
		BlockedDates:       []BlockedDate{},
		MaxBookingsPerDay:  3,
		AdvanceBookingDays: 30,
	}
}

// WorksOn reports whether the given weekday is a working day.
func (p *AvailabilityPolicy) WorksOn(day time.Weekday) bool {
	name := strings.ToLower(day.String())
	for _, d := range p.WorkingDays {
		if strings.ToLower(d) == name {
			return true
		}
	}
	return false
}

// IsBlocked reports whether the calendar date of t appears in BlockedDates.
func (p *AvailabilityPolicy) IsBlocked(t time.Time) bool {
	y, m, d := t.Date()
	for _, b := range p.BlockedDates {
		by, bm, bd := b.Date.Date()
		if by == y && bm == m && bd == d {
			return true
		}
	}
	return false
}

// MinutesOfDay parses an "HH:MM" time-of-day into minutes since midnight.
func MinutesOfDay(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return h*60 + m, nil
}
