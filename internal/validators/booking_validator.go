package validators

import (
	"time"
)

type BookingCreateRequest struct {
	ProviderKind string    `json:"provider_kind" validate:"required,oneof=guide driver vehicle"`
	Start        time.Time `json:"start" validate:"required"`
	End          time.Time `json:"end" validate:"required"`
	City         string    `json:"city" validate:"omitempty,min=2,max=100"`
	District     string    `json:"district" validate:"omitempty,max=100"`
	Notes        string    `json:"notes" validate:"omitempty,max=1000"`
}

type BookingStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed in_progress completed cancelled delayed no_show"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
	Notes  string `json:"notes" validate:"omitempty,max=1000"`
}

type AssignProviderRequest struct {
	ProviderID string `json:"provider_id" validate:"required,object_id"`
}

type AvailabilityQueryRequest struct {
	Start time.Time `form:"start" validate:"required"`
	End   time.Time `form:"end" validate:"required"`
}

func ValidateBookingCreate(req *BookingCreateRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if !req.Start.IsZero() && !req.End.IsZero() && !req.Start.Before(req.End) {
		errors = append(errors, ValidationError{
			Field:   "start",
			Tag:     "window",
			Message: "Window start must be before end",
		})
	}

	return errors
}

func ValidateBookingStatusUpdate(req *BookingStatusUpdateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateAvailabilityQuery(req *AvailabilityQueryRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if !req.Start.IsZero() && !req.End.IsZero() && !req.Start.Before(req.End) {
		errors = append(errors, ValidationError{
			Field:   "start",
			Tag:     "window",
			Message: "Window start must be before end",
		})
	}

	return errors
}
