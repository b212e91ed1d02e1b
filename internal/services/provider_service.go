package services

import (
	"context"
	"fmt"

	"serendibgo/internal/availability"
	"serendibgo/internal/lifecycle"
	"serendibgo/internal/models"
	"serendibgo/internal/repositories/interfaces"
	"serendibgo/internal/utils"
	"serendibgo/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProviderService interface {
	// Profile management
	RegisterProvider(ctx context.Context, provider *models.ProviderProfile) error
	GetProvider(ctx context.Context, id primitive.ObjectID) (*models.ProviderProfile, error)
	ListProviders(ctx context.Context, filter interfaces.ProviderFilter, params *utils.PaginationParams) ([]*models.ProviderProfile, int64, error)

	// Status lifecycle
	UpdateStatus(ctx context.Context, id primitive.ObjectID, requested models.ProviderStatus, actorID primitive.ObjectID, reason, notes string) (*models.ProviderProfile, error)
	GetStatusHistory(ctx context.Context, id primitive.ObjectID) ([]models.StatusChange, error)

	// Policy and verification
	UpdateAvailabilityPolicy(ctx context.Context, id primitive.ObjectID, policy models.AvailabilityPolicy) error
	UpdateVerification(ctx context.Context, id primitive.ObjectID, verification models.Verification, actorID primitive.ObjectID) error

	// Assignment eligibility
	ExplainEligibility(ctx context.Context, id primitive.ObjectID) (bool, []string, error)
	ListAssignable(ctx context.Context, kind models.ProviderKind, city, district string, params *utils.PaginationParams) ([]*models.ProviderProfile, error)
}

type providerService struct {
	providerRepo interfaces.ProviderRepository
	clock        Clock
	logger       *logger.Logger
}

func NewProviderService(providerRepo interfaces.ProviderRepository, clock Clock, log *logger.Logger) ProviderService {
	return &providerService{
		providerRepo: providerRepo,
		clock:        clock,
		logger:       log,
	}
}

func (s *providerService) RegisterProvider(ctx context.Context, provider *models.ProviderProfile) error {
	provider.Status = models.ProviderStatusPending
	provider.StatusHistory = []models.StatusChange{}
	if len(provider.Policy.WorkingDays) == 0 {
		provider.Policy = models.DefaultAvailabilityPolicy()
	}
	if err := ValidateAvailabilityPolicy(&provider.Policy); err != nil {
		return err
	}

	if err := s.providerRepo.Create(ctx, provider); err != nil {
		return err
	}

	s.logger.WithProviderID(provider.ID).WithFields(map[string]interface{}{
		"kind":  provider.Kind,
		"owner": provider.OwnerUserID.Hex(),
	}).Info("Provider registered")

	return nil
}

func (s *providerService) GetProvider(ctx context.Context, id primitive.ObjectID) (*models.ProviderProfile, error) {
	return s.providerRepo.GetByID(ctx, id)
}

func (s *providerService) ListProviders(ctx context.Context, filter interfaces.ProviderFilter, params *utils.PaginationParams) ([]*models.ProviderProfile, int64, error) {
	return s.providerRepo.List(ctx, filter, params)
}

func (s *providerService) UpdateStatus(ctx context.Context, id primitive.ObjectID, requested models.ProviderStatus, actorID primitive.ObjectID, reason, notes string) (*models.ProviderProfile, error) {
	provider, err := s.providerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := lifecycle.TransitionProviderStatus(provider.Status, requested)
	if err != nil {
		// The transition table is public; an illegal request is a caller bug
		// worth noting, but not an error condition for us.
		s.logger.WithProviderID(id).WithFields(map[string]interface{}{
			"from": provider.Status,
			"to":   requested,
		}).Warn("Rejected provider status transition")
		return nil, err
	}

	entry := models.StatusChange{
		Status:    string(next),
		Timestamp: s.clock.Now(),
		UpdatedBy: actorID,
		Reason:    reason,
		Notes:     notes,
	}
	if err := s.providerRepo.UpdateStatus(ctx, id, provider.Status, next, entry); err != nil {
		return nil, err
	}

	provider.Status = next
	provider.StatusHistory = append(provider.StatusHistory, entry)

	s.logger.WithProviderID(id).WithFields(map[string]interface{}{
		"status": next,
		"actor":  actorID.Hex(),
	}).Info("Provider status updated")

	return provider, nil
}

func (s *providerService) GetStatusHistory(ctx context.Context, id primitive.ObjectID) ([]models.StatusChange, error) {
	return s.providerRepo.GetStatusHistory(ctx, id)
}

func (s *providerService) UpdateAvailabilityPolicy(ctx context.Context, id primitive.ObjectID, policy models.AvailabilityPolicy) error {
	if err := ValidateAvailabilityPolicy(&policy); err != nil {
		return err
	}
	return s.providerRepo.UpdateAvailabilityPolicy(ctx, id, policy)
}

func (s *providerService) UpdateVerification(ctx context.Context, id primitive.ObjectID, verification models.Verification, actorID primitive.ObjectID) error {
	now := s.clock.Now()
	verification.VerifiedAt = &now
	verification.VerifiedBy = &actorID

	if err := s.providerRepo.UpdateVerification(ctx, id, verification); err != nil {
		return err
	}

	s.logger.WithProviderID(id).WithField("actor", actorID.Hex()).Info("Provider verification updated")

	return nil
}

func (s *providerService) ExplainEligibility(ctx context.Context, id primitive.ObjectID) (bool, []string, error) {
	provider, err := s.providerRepo.GetByID(ctx, id)
	if err != nil {
		return false, nil, err
	}

	unmet := availability.Explain(provider)
	return len(unmet) == 0, unmet, nil
}

func (s *providerService) ListAssignable(ctx context.Context, kind models.ProviderKind, city, district string, params *utils.PaginationParams) ([]*models.ProviderProfile, error) {
	filter := interfaces.ProviderFilter{
		Kind:   kind,
		Status: models.ProviderStatusActive,
		City:   city,
	}

	candidates, _, err := s.providerRepo.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}

	assignable := make([]*models.ProviderProfile, 0, len(candidates))
	for _, p := range candidates {
		if !availability.IsAssignable(p) {
			continue
		}
		if city != "" && !p.CoversLocation(city, district) {
			continue
		}
		assignable = append(assignable, p)
	}

	return assignable, nil
}

// ValidateAvailabilityPolicy enforces the policy invariants: working hours
// are well-formed with start before end, blocked dates are unique, and caps
// stay inside their bounds.
func ValidateAvailabilityPolicy(policy *models.AvailabilityPolicy) error {
	start, err := models.MinutesOfDay(policy.WorkingHours.Start)
	if err != nil {
		return fmt.Errorf("invalid working hours start: %w", err)
	}
	end, err := models.MinutesOfDay(policy.WorkingHours.End)
	if err != nil {
		return fmt.Errorf("invalid working hours end: %w", err)
	}
	if start >= end {
		return fmt.Errorf("working hours start %s must be before end %s", policy.WorkingHours.Start, policy.WorkingHours.End)
	}

	seen := make(map[string]bool, len(policy.BlockedDates))
	for _, b := range policy.BlockedDates {
		day := b.Date.Format("2006-01-02")
		if seen[day] {
			return fmt.Errorf("duplicate blocked date %s", day)
		}
		seen[day] = true
	}

	if policy.MaxBookingsPerDay < utils.MinBookingsPerDay || policy.MaxBookingsPerDay > utils.MaxBookingsPerDayCap {
		return fmt.Errorf("max bookings per day must be between %d and %d", utils.MinBookingsPerDay, utils.MaxBookingsPerDayCap)
	}
	if policy.AdvanceBookingDays < 0 || policy.AdvanceBookingDays > utils.MaxAdvanceBookingDays {
		return fmt.Errorf("advance booking days must be between 0 and %d", utils.MaxAdvanceBookingDays)
	}

	return nil
}
