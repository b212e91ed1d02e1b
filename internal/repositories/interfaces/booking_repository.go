package interfaces

import (
	"context"

	"serendibgo/internal/models"
	"serendibgo/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error)
	GetByProvider(ctx context.Context, providerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error)

	// GetActiveByProvider returns the provider's bookings in calendar-
	// occupying states (scheduled, confirmed, in_progress), for conflict
	// checks.
	GetActiveByProvider(ctx context.Context, providerID primitive.ObjectID) ([]*models.Booking, error)

	// Status lifecycle; status update and history append are one write,
	// guarded on the expected current status like AssignProvider below.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, expectedStatus, newStatus models.BookingStatus, entry models.StatusChange) error
	GetStatusHistory(ctx context.Context, id primitive.ObjectID) ([]models.StatusChange, error)

	// AssignProvider sets provider_id and the new status and appends the
	// history entry in a single document write, guarded so the update only
	// lands if the booking is still in expectedStatus (all-or-nothing for
	// racing assigns).
	AssignProvider(ctx context.Context, id primitive.ObjectID, providerID primitive.ObjectID, expectedStatus, newStatus models.BookingStatus, entry models.StatusChange) error
}
