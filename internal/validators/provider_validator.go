package validators

import (
	"time"

	"serendibgo/internal/models"
)

type ProviderRegistrationRequest struct {
	OwnerUserID  string                     `json:"owner_user_id" validate:"required,object_id"`
	Kind         string                     `json:"kind" validate:"required,oneof=guide driver vehicle"`
	DisplayName  string                     `json:"display_name" validate:"required,min=2,max=100"`
	Policy       *AvailabilityPolicyRequest `json:"availability_policy" validate:"omitempty"`
	ServiceAreas []ServiceAreaRequest       `json:"service_areas" validate:"omitempty,max=20,dive"`
}

type AvailabilityPolicyRequest struct {
	WorkingDays        []string             `json:"working_days" validate:"required,min=1,max=7,dive,weekday_name"`
	WorkingHours       WorkingHoursRequest  `json:"working_hours" validate:"required"`
	BlockedDates       []BlockedDateRequest `json:"blocked_dates" validate:"omitempty,max=100,dive"`
	MaxBookingsPerDay  int                  `json:"max_bookings_per_day" validate:"required,min=1,max=10"`
	AdvanceBookingDays int                  `json:"advance_booking_days" validate:"min=0,max=365"`
}

type WorkingHoursRequest struct {
	Start string `json:"start" validate:"required,business_hours"`
	End   string `json:"end" validate:"required,business_hours"`
}

type BlockedDateRequest struct {
	Date   time.Time `json:"date" validate:"required"`
	Reason string    `json:"reason" validate:"omitempty,max=200"`
}

type ServiceAreaRequest struct {
	City     string  `json:"city" validate:"required,min=2,max=100"`
	District string  `json:"district" validate:"omitempty,max=100"`
	RadiusKM float64 `json:"radius_km" validate:"omitempty,min=0,max=500"`
	Active   bool    `json:"active"`
}

type ProviderStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending active suspended inactive blacklisted"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
	Notes  string `json:"notes" validate:"omitempty,max=1000"`
}

type VerificationUpdateRequest struct {
	Identity            bool `json:"identity"`
	License             bool `json:"license"`
	BackgroundCheck     bool `json:"background_check"`
	Insurance           bool `json:"insurance"`
	VehicleOrCredential bool `json:"vehicle_or_credential"`
}

func ValidateProviderRegistration(req *ProviderRegistrationRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateAvailabilityPolicyRequest(req *AvailabilityPolicyRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateProviderStatusUpdate(req *ProviderStatusUpdateRequest) ValidationErrors {
	return ValidateStruct(req)
}

// ToPolicy converts a validated request into the model. Structural
// invariants beyond field shape (start before end, unique blocked dates) are
// enforced by the service layer.
func (r *AvailabilityPolicyRequest) ToPolicy() models.AvailabilityPolicy {
	policy := models.AvailabilityPolicy{
		WorkingDays: r.WorkingDays,
		WorkingHours: models.WorkingHours{
			Start: r.WorkingHours.Start,
			End:   r.WorkingHours.End,
		},
		MaxBookingsPerDay:  r.MaxBookingsPerDay,
		AdvanceBookingDays: r.AdvanceBookingDays,
	}
	for _, b := range r.BlockedDates {
		policy.BlockedDates = append(policy.BlockedDates, models.BlockedDate{
			Date:   b.Date,
			Reason: b.Reason,
		})
	}
	return policy
}

func (r *VerificationUpdateRequest) ToVerification() models.Verification {
	return models.Verification{
		Identity:            r.Identity,
		License:             r.License,
		BackgroundCheck:     r.BackgroundCheck,
		Insurance:           r.Insurance,
		VehicleOrCredential: r.VehicleOrCredential,
	}
}
