package interfaces

import (
	"context"

	"serendibgo/internal/models"
	"serendibgo/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProviderFilter struct {
	Kind   models.ProviderKind
	Status models.ProviderStatus
	City   string
}

type ProviderRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, provider *models.ProviderProfile) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ProviderProfile, error)
	GetByOwnerAndKind(ctx context.Context, ownerUserID primitive.ObjectID, kind models.ProviderKind) (*models.ProviderProfile, error)
	List(ctx context.Context, filter ProviderFilter, params *utils.PaginationParams) ([]*models.ProviderProfile, int64, error)

	// Status lifecycle; the status update and the history append happen in a
	// single document write, guarded so the update only lands if the provider
	// is still in expectedStatus (racing updates resolve to one winner).
	UpdateStatus(ctx context.Context, id primitive.ObjectID, expectedStatus, newStatus models.ProviderStatus, entry models.StatusChange) error
	GetStatusHistory(ctx context.Context, id primitive.ObjectID) ([]models.StatusChange, error)

	// Policy and verification
	UpdateAvailabilityPolicy(ctx context.Context, id primitive.ObjectID, policy models.AvailabilityPolicy) error
	UpdateVerification(ctx context.Context, id primitive.ObjectID, verification models.Verification) error
}
