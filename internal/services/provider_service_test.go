package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"serendibgo/internal/lifecycle"
	"serendibgo/internal/models"
	"serendibgo/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProviderFixture(t *testing.T) (ProviderService, *fakeProviderRepo, *stubClock) {
	t.Helper()
	repo := newFakeProviderRepo()
	clock := &stubClock{now: fixedNow}
	return NewProviderService(repo, clock, testLogger(t)), repo, clock
}

func TestRegisterProviderStartsPending(t *testing.T) {
	service, _, _ := newProviderFixture(t)

	provider := &models.ProviderProfile{
		OwnerUserID: primitive.NewObjectID(),
		Kind:        models.ProviderKindGuide,
		DisplayName: "Kandy Hills Guide",
		Status:      models.ProviderStatusActive, // ignored
	}
	require.NoError(t, service.RegisterProvider(context.Background(), provider))

	assert.Equal(t, models.ProviderStatusPending, provider.Status)
	assert.Empty(t, provider.StatusHistory)
	assert.Equal(t, models.DefaultAvailabilityPolicy(), provider.Policy)
}

func TestRegisterProviderKeepsSubmittedPolicy(t *testing.T) {
	service, _, _ := newProviderFixture(t)

	policy := models.AvailabilityPolicy{
		WorkingDays:        []string{"monday", "wednesday"},
		WorkingHours:       models.WorkingHours{Start: "08:00", End: "14:00"},
		MaxBookingsPerDay:  2,
		AdvanceBookingDays: 14,
	}
	provider := &models.ProviderProfile{
		OwnerUserID: primitive.NewObjectID(),
		Kind:        models.ProviderKindDriver,
		Policy:      policy,
	}
	require.NoError(t, service.RegisterProvider(context.Background(), provider))
	assert.Equal(t, policy, provider.Policy)
}

func TestRegisterProviderRejectsInvalidPolicy(t *testing.T) {
	service, _, _ := newProviderFixture(t)

	provider := &models.ProviderProfile{
		OwnerUserID: primitive.NewObjectID(),
		Kind:        models.ProviderKindDriver,
		Policy: models.AvailabilityPolicy{
			WorkingDays:        []string{"monday"},
			WorkingHours:       models.WorkingHours{Start: "17:00", End: "09:00"},
			MaxBookingsPerDay:  3,
			AdvanceBookingDays: 30,
		},
	}
	assert.Error(t, service.RegisterProvider(context.Background(), provider))
}

func TestRegisterProviderOnePerOwnerAndKind(t *testing.T) {
	service, _, _ := newProviderFixture(t)
	owner := primitive.NewObjectID()

	first := &models.ProviderProfile{OwnerUserID: owner, Kind: models.ProviderKindGuide}
	require.NoError(t, service.RegisterProvider(context.Background(), first))

	duplicate := &models.ProviderProfile{OwnerUserID: owner, Kind: models.ProviderKindGuide}
	err := service.RegisterProvider(context.Background(), duplicate)
	assert.ErrorIs(t, err, utils.ErrProviderExists)

	// A different kind for the same owner is fine.
	other := &models.ProviderProfile{OwnerUserID: owner, Kind: models.ProviderKindDriver}
	assert.NoError(t, service.RegisterProvider(context.Background(), other))
}

func TestUpdateStatusAppendsOneHistoryEntry(t *testing.T) {
	service, repo, _ := newProviderFixture(t)
	actor := primitive.NewObjectID()

	provider := repo.put(&models.ProviderProfile{
		Kind:   models.ProviderKindGuide,
		Status: models.ProviderStatusPending,
	})

	updated, err := service.UpdateStatus(context.Background(), provider.ID,
		models.ProviderStatusActive, actor, "documents verified", "")
	require.NoError(t, err)
	assert.Equal(t, models.ProviderStatusActive, updated.Status)

	history, err := service.GetStatusHistory(context.Background(), provider.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "active", history[0].Status)
	assert.Equal(t, actor, history[0].UpdatedBy)
	assert.Equal(t, "documents verified", history[0].Reason)
	assert.Equal(t, fixedNow, history[0].Timestamp)
}

func TestUpdateStatusRejectedTransitionHasNoSideEffect(t *testing.T) {
	service, repo, _ := newProviderFixture(t)

	provider := repo.put(&models.ProviderProfile{
		Kind:   models.ProviderKindGuide,
		Status: models.ProviderStatusPending,
	})

	_, err := service.UpdateStatus(context.Background(), provider.ID,
		models.ProviderStatusBlacklisted, primitive.NewObjectID(), "", "")
	require.Error(t, err)

	var invalid *lifecycle.InvalidTransitionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "pending", invalid.From)
	assert.Equal(t, "blacklisted", invalid.To)

	stored, err := repo.GetByID(context.Background(), provider.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderStatusPending, stored.Status)
	assert.Empty(t, stored.StatusHistory)
}

func TestUpdateStatusHistoryAccumulatesInOrder(t *testing.T) {
	service, repo, clock := newProviderFixture(t)
	actor := primitive.NewObjectID()

	provider := repo.put(&models.ProviderProfile{
		Kind:   models.ProviderKindDriver,
		Status: models.ProviderStatusPending,
	})

	steps := []models.ProviderStatus{
		models.ProviderStatusActive,
		models.ProviderStatusSuspended,
		models.ProviderStatusActive,
	}
	for i, step := range steps {
		clock.now = fixedNow.Add(time.Duration(i) * time.Hour)
		_, err := service.UpdateStatus(context.Background(), provider.ID, step, actor, "", "")
		require.NoError(t, err)
	}

	history, err := service.GetStatusHistory(context.Background(), provider.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "active", history[0].Status)
	assert.Equal(t, "suspended", history[1].Status)
	assert.Equal(t, "active", history[2].Status)
	assert.True(t, history[0].Timestamp.Before(history[1].Timestamp))
	assert.True(t, history[1].Timestamp.Before(history[2].Timestamp))
}

// staleProviderRepo reports a fixed status from GetByID regardless of what
// the store holds, standing in for a read that raced a concurrent writer.
type staleProviderRepo struct {
	*fakeProviderRepo
	staleStatus models.ProviderStatus
}

func (r *staleProviderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ProviderProfile, error) {
	provider, err := r.fakeProviderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	provider.Status = r.staleStatus
	return provider, nil
}

func TestUpdateStatusStaleReadCannotPersist(t *testing.T) {
	repo := newFakeProviderRepo()
	provider := repo.put(&models.ProviderProfile{
		Kind:   models.ProviderKindGuide,
		Status: models.ProviderStatusInactive,
	})

	stale := &staleProviderRepo{fakeProviderRepo: repo, staleStatus: models.ProviderStatusActive}
	service := NewProviderService(stale, &stubClock{now: fixedNow}, testLogger(t))

	// active -> blacklisted passes the transition table, but the store has
	// already moved on to inactive, so the guarded write must not land.
	_, err := service.UpdateStatus(context.Background(), provider.ID,
		models.ProviderStatusBlacklisted, primitive.NewObjectID(), "fraud report", "")
	assert.ErrorIs(t, err, utils.ErrProviderStateChanged)

	stored, err := repo.GetByID(context.Background(), provider.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProviderStatusInactive, stored.Status)
	assert.Empty(t, stored.StatusHistory)
}

func TestUpdateStatusConcurrentRequestsKeepHistoryLegal(t *testing.T) {
	for i := 0; i < 25; i++ {
		service, repo, _ := newProviderFixture(t)
		provider := repo.put(&models.ProviderProfile{
			Kind:   models.ProviderKindGuide,
			Status: models.ProviderStatusActive,
		})

		requests := []models.ProviderStatus{
			models.ProviderStatusInactive,
			models.ProviderStatusBlacklisted,
		}
		errs := make(chan error, len(requests))
		var wg sync.WaitGroup
		for _, requested := range requests {
			wg.Add(1)
			go func(requested models.ProviderStatus) {
				defer wg.Done()
				_, err := service.UpdateStatus(context.Background(), provider.ID,
					requested, primitive.NewObjectID(), "", "")
				errs <- err
			}(requested)
		}
		wg.Wait()
		close(errs)

		// A loser either saw the fresh status and was rejected by the table,
		// or saw the stale one and lost the guarded write.
		for err := range errs {
			if err == nil {
				continue
			}
			var invalid *lifecycle.InvalidTransitionError
			if !errors.As(err, &invalid) {
				assert.ErrorIs(t, err, utils.ErrProviderStateChanged)
			}
		}

		// Whatever the interleaving, every persisted step must be a legal
		// transition from its predecessor.
		history, err := repo.GetStatusHistory(context.Background(), provider.ID)
		require.NoError(t, err)
		from := models.ProviderStatusActive
		for _, entry := range history {
			to := models.ProviderStatus(entry.Status)
			_, err := lifecycle.TransitionProviderStatus(from, to)
			assert.NoError(t, err, "history holds illegal transition %s -> %s", from, to)
			from = to
		}
	}
}

func TestUpdateVerificationStampsActor(t *testing.T) {
	service, repo, _ := newProviderFixture(t)
	actor := primitive.NewObjectID()

	provider := repo.put(&models.ProviderProfile{
		Kind:   models.ProviderKindGuide,
		Status: models.ProviderStatusPending,
	})

	err := service.UpdateVerification(context.Background(), provider.ID,
		models.Verification{Identity: true, BackgroundCheck: true}, actor)
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), provider.ID)
	require.NoError(t, err)
	assert.True(t, stored.Verification.Identity)
	require.NotNil(t, stored.Verification.VerifiedBy)
	assert.Equal(t, actor, *stored.Verification.VerifiedBy)
	require.NotNil(t, stored.Verification.VerifiedAt)
	assert.Equal(t, fixedNow, *stored.Verification.VerifiedAt)
}

func TestExplainEligibility(t *testing.T) {
	service, repo, _ := newProviderFixture(t)

	provider := repo.put(&models.ProviderProfile{
		Kind:   models.ProviderKindGuide,
		Status: models.ProviderStatusPending,
	})

	eligible, unmet, err := service.ExplainEligibility(context.Background(), provider.ID)
	require.NoError(t, err)
	assert.False(t, eligible)
	assert.Contains(t, unmet, "status:pending")
}

func TestListAssignableFiltersUnverified(t *testing.T) {
	service, repo, _ := newProviderFixture(t)

	verified := repo.put(&models.ProviderProfile{
		Kind:   models.ProviderKindGuide,
		Status: models.ProviderStatusActive,
		Verification: models.Verification{
			Identity:            true,
			BackgroundCheck:     true,
			VehicleOrCredential: true,
		},
	})
	repo.put(&models.ProviderProfile{
		Kind:   models.ProviderKindGuide,
		Status: models.ProviderStatusActive,
	})

	assignable, err := service.ListAssignable(context.Background(),
		models.ProviderKindGuide, "", "", utils.NewPaginationParams())
	require.NoError(t, err)
	require.Len(t, assignable, 1)
	assert.Equal(t, verified.ID, assignable[0].ID)
}

func TestListAssignableFiltersByServiceArea(t *testing.T) {
	service, repo, _ := newProviderFixture(t)

	kandy := repo.put(&models.ProviderProfile{
		Kind:   models.ProviderKindGuide,
		Status: models.ProviderStatusActive,
		Verification: models.Verification{
			Identity:            true,
			BackgroundCheck:     true,
			VehicleOrCredential: true,
		},
		ServiceAreas: []models.ServiceArea{{City: "Kandy", Active: true}},
	})
	repo.put(&models.ProviderProfile{
		Kind:   models.ProviderKindGuide,
		Status: models.ProviderStatusActive,
		Verification: models.Verification{
			Identity:            true,
			BackgroundCheck:     true,
			VehicleOrCredential: true,
		},
		ServiceAreas: []models.ServiceArea{{City: "Galle", Active: true}},
	})

	assignable, err := service.ListAssignable(context.Background(),
		models.ProviderKindGuide, "Kandy", "", utils.NewPaginationParams())
	require.NoError(t, err)
	require.Len(t, assignable, 1)
	assert.Equal(t, kandy.ID, assignable[0].ID)
}

func TestValidateAvailabilityPolicy(t *testing.T) {
	valid := models.DefaultAvailabilityPolicy()
	assert.NoError(t, ValidateAvailabilityPolicy(&valid))

	inverted := models.DefaultAvailabilityPolicy()
	inverted.WorkingHours = models.WorkingHours{Start: "17:00", End: "09:00"}
	assert.Error(t, ValidateAvailabilityPolicy(&inverted))

	duplicate := models.DefaultAvailabilityPolicy()
	day := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	duplicate.BlockedDates = []models.BlockedDate{{Date: day}, {Date: day.Add(2 * time.Hour)}}
	assert.Error(t, ValidateAvailabilityPolicy(&duplicate))

	overCap := models.DefaultAvailabilityPolicy()
	overCap.MaxBookingsPerDay = utils.MaxBookingsPerDayCap + 1
	assert.Error(t, ValidateAvailabilityPolicy(&overCap))

	negative := models.DefaultAvailabilityPolicy()
	negative.AdvanceBookingDays = -1
	assert.Error(t, ValidateAvailabilityPolicy(&negative))
}
