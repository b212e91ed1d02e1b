package mongodb

import (
	"context"
	"fmt"
	"time"

	"serendibgo/internal/models"
	"serendibgo/internal/repositories/interfaces"
	"serendibgo/internal/services"
	"serendibgo/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type bookingRepository struct {
	collection *mongo.Collection

	cache services.CacheService
}

func NewBookingRepository(db *mongo.Database, cache services.CacheService) interfaces.BookingRepository {
	return &bookingRepository{
		collection: db.Collection("bookings"),
		cache:      cache,
	}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	if booking.BookingReference == "" {
		booking.BookingReference = utils.GenerateBookingReference()
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	_, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	r.cacheBooking(ctx, booking)

	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	if booking := r.getBookingFromCache(ctx, id.Hex()); booking != nil {
		return booking, nil
	}

	var booking models.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	r.cacheBooking(ctx, &booking)

	return &booking, nil
}

func (r *bookingRepository) GetByProvider(ctx context.Context, providerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	query := bson.M{"provider_id": providerID}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	cursor, err := r.collection.Find(ctx, query, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, 0, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, total, nil
}

func (r *bookingRepository) GetActiveByProvider(ctx context.Context, providerID primitive.ObjectID) ([]*models.Booking, error) {
	query := bson.M{
		"provider_id": providerID,
		"status":      bson.M{"$in": models.ActiveBookingStatuses},
	}

	opts := options.Find().SetSort(bson.D{{Key: "window.start", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get active bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode active bookings: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, expectedStatus, newStatus models.BookingStatus, entry models.StatusChange) error {
	// Compare-and-set on the expected status, same as AssignProvider: a
	// transition validated against a stale read must not land.
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": expectedStatus},
		bson.M{
			"$set":  bson.M{"status": newStatus, "updated_at": time.Now()},
			"$push": bson.M{"status_history": entry},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.ErrBookingStateChanged
	}

	r.invalidateBookingCache(ctx, id.Hex())

	return nil
}

func (r *bookingRepository) GetStatusHistory(ctx context.Context, id primitive.ObjectID) ([]models.StatusChange, error) {
	opts := options.FindOne().SetProjection(bson.M{"status_history": 1})

	var doc struct {
		StatusHistory []models.StatusChange `bson:"status_history"`
	}
	err := r.collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking status history: %w", err)
	}

	return doc.StatusHistory, nil
}

func (r *bookingRepository) AssignProvider(ctx context.Context, id primitive.ObjectID, providerID primitive.ObjectID, expectedStatus, newStatus models.BookingStatus, entry models.StatusChange) error {
	// The status guard in the filter makes the assignment a compare-and-set:
	// a racing assign that already moved the booking on will not match.
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": expectedStatus},
		bson.M{
			"$set": bson.M{
				"provider_id": providerID,
				"status":      newStatus,
				"updated_at":  time.Now(),
			},
			"$push": bson.M{"status_history": entry},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to assign provider: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.ErrBookingStateChanged
	}

	r.invalidateBookingCache(ctx, id.Hex())

	return nil
}

// Cache helpers. Bookings mutate more often than providers, so the TTL is
// short; every guarded write invalidates.
func (r *bookingRepository) cacheBooking(ctx context.Context, booking *models.Booking) {
	if r.cache == nil {
		return
	}
	key := fmt.Sprintf("booking_%s", booking.ID.Hex())
	r.cache.Set(ctx, key, booking, 10*time.Minute)
}

func (r *bookingRepository) getBookingFromCache(ctx context.Context, id string) *models.Booking {
	if r.cache == nil {
		return nil
	}
	var booking models.Booking
	if err := r.cache.Get(ctx, fmt.Sprintf("booking_%s", id), &booking); err != nil {
		return nil
	}
	return &booking
}

func (r *bookingRepository) invalidateBookingCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, fmt.Sprintf("booking_%s", id))
}
