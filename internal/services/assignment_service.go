package services

import (
	"context"

	"serendibgo/internal/availability"
	"serendibgo/internal/models"
	"serendibgo/internal/repositories/interfaces"
	"serendibgo/internal/utils"
	"serendibgo/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AvailabilityDecision is the combined answer to "can this provider be
// booked for this window": the policy evaluation plus the conflict check.
type AvailabilityDecision struct {
	Result    availability.Result         `json:"result"`
	Conflict  availability.ConflictResult `json:"conflict"`
	Available bool                        `json:"available"`
}

// AssignmentOutcome reports an assignment attempt. A failure always carries
// one specific reason code, never a generic error, so operator tooling can
// present an actionable message.
type AssignmentOutcome struct {
	Assigned   bool            `json:"assigned"`
	ReasonCode string          `json:"reason_code,omitempty"`
	Unmet      []string        `json:"unmet_conditions,omitempty"`
	Booking    *models.Booking `json:"booking,omitempty"`
}

type AssignmentService interface {
	// CheckAvailability answers the read-only availability query for a
	// provider and window.
	CheckAvailability(ctx context.Context, providerID primitive.ObjectID, window models.BookingWindow) (*AvailabilityDecision, error)

	// Assign runs the full gate (availability, conflicts, eligibility,
	// service area) under the provider's lock and commits the assignment.
	// All checks pass or nothing is written.
	Assign(ctx context.Context, bookingID, providerID, actorID primitive.ObjectID) (*AssignmentOutcome, error)
}

type assignmentService struct {
	bookingRepo  interfaces.BookingRepository
	providerRepo interfaces.ProviderRepository
	locker       ProviderLocker
	clock        Clock
	logger       *logger.Logger
}

func NewAssignmentService(
	bookingRepo interfaces.BookingRepository,
	providerRepo interfaces.ProviderRepository,
	locker ProviderLocker,
	clock Clock,
	log *logger.Logger,
) AssignmentService {
	return &assignmentService{
		bookingRepo:  bookingRepo,
		providerRepo: providerRepo,
		locker:       locker,
		clock:        clock,
		logger:       log,
	}
}

func (s *assignmentService) CheckAvailability(ctx context.Context, providerID primitive.ObjectID, window models.BookingWindow) (*AvailabilityDecision, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	decision := &AvailabilityDecision{
		Result:   availability.Evaluate(provider.Policy, window, s.clock.Now()),
		Conflict: availability.ConflictNone,
	}
	if decision.Result != availability.ResultAvailable {
		return decision, nil
	}

	existing, err := s.bookingRepo.GetActiveByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	decision.Conflict = availability.CheckConflict(provider.Policy, window, existing)
	decision.Available = decision.Conflict == availability.ConflictNone

	return decision, nil
}

func (s *assignmentService) Assign(ctx context.Context, bookingID, providerID, actorID primitive.ObjectID) (*AssignmentOutcome, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	// Re-running a completed assignment is a no-op success, not an error and
	// not a second history entry.
	if booking.Status == models.BookingStatusConfirmed && booking.ProviderID != nil && *booking.ProviderID == providerID {
		return &AssignmentOutcome{
			Assigned:   true,
			ReasonCode: utils.ReasonAlreadyAssigned,
			Booking:    booking,
		}, nil
	}

	if booking.Status != models.BookingStatusScheduled {
		// Confirmed with another provider reads as already assigned; any
		// other status (cancelled, completed, ...) is simply not assignable.
		reason := utils.ReasonNotAssignable
		if booking.Status == models.BookingStatusConfirmed {
			reason = utils.ReasonAlreadyAssigned
		}
		return &AssignmentOutcome{
			Assigned:   false,
			ReasonCode: reason,
			Booking:    booking,
		}, nil
	}

	// Serialize against concurrent assigns for the same provider; the checks
	// and the commit below must see one consistent snapshot.
	release, err := s.locker.Lock(ctx, providerID)
	if err != nil {
		if err == utils.ErrLockNotAcquired {
			return &AssignmentOutcome{Assigned: false, ReasonCode: utils.ReasonRetry}, nil
		}
		return nil, err
	}
	defer release()

	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	if result := availability.Evaluate(provider.Policy, booking.Window, s.clock.Now()); result != availability.ResultAvailable {
		return &AssignmentOutcome{Assigned: false, ReasonCode: string(result)}, nil
	}

	existing, err := s.bookingRepo.GetActiveByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if conflict := availability.CheckConflict(provider.Policy, booking.Window, existing); conflict != availability.ConflictNone {
		return &AssignmentOutcome{Assigned: false, ReasonCode: string(conflict)}, nil
	}

	if unmet := availability.Explain(provider); len(unmet) > 0 {
		return &AssignmentOutcome{
			Assigned:   false,
			ReasonCode: utils.ReasonNotEligible,
			Unmet:      unmet,
		}, nil
	}

	if booking.Location != nil && !provider.CoversLocation(booking.Location.City, booking.Location.District) {
		return &AssignmentOutcome{Assigned: false, ReasonCode: utils.ReasonOutOfServiceArea}, nil
	}

	entry := models.StatusChange{
		Status:    string(models.BookingStatusConfirmed),
		Timestamp: s.clock.Now(),
		UpdatedBy: actorID,
		Reason:    "provider assigned",
	}
	err = s.bookingRepo.AssignProvider(ctx, bookingID, providerID,
		models.BookingStatusScheduled, models.BookingStatusConfirmed, entry)
	if err != nil {
		if err == utils.ErrBookingStateChanged {
			// A racing request won the compare-and-set; this one lost cleanly.
			return &AssignmentOutcome{Assigned: false, ReasonCode: utils.ReasonRetry}, nil
		}
		return nil, err
	}

	booking.ProviderID = &providerID
	booking.Status = models.BookingStatusConfirmed
	booking.StatusHistory = append(booking.StatusHistory, entry)

	s.logger.WithBookingID(bookingID).WithProviderID(providerID).WithField("actor", actorID.Hex()).Info("Provider assigned to booking")

	return &AssignmentOutcome{Assigned: true, Booking: booking}, nil
}
