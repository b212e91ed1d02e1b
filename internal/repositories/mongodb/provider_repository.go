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

type providerRepository struct {
	collection *mongo.Collection

	cache services.CacheService
}

func NewProviderRepository(db *mongo.Database, cache services.CacheService) interfaces.ProviderRepository {
	return &providerRepository{
		collection: db.Collection("providers"),
		cache:      cache,
	}
}

func (r *providerRepository) Create(ctx context.Context, provider *models.ProviderProfile) error {
	// One profile per (owner, kind)
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"owner_user_id": provider.OwnerUserID,
		"kind":          provider.Kind,
	})
	if err != nil {
		return fmt.Errorf("failed to check existing provider: %w", err)
	}
	if count > 0 {
		return utils.ErrProviderExists
	}

	provider.ID = primitive.NewObjectID()
	provider.CreatedAt = time.Now()
	provider.UpdatedAt = provider.CreatedAt

	_, err = r.collection.InsertOne(ctx, provider)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	r.cacheProvider(ctx, provider)

	return nil
}

func (r *providerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ProviderProfile, error) {
	if provider := r.getProviderFromCache(ctx, id.Hex()); provider != nil {
		return provider, nil
	}

	var provider models.ProviderProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&provider)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}

	r.cacheProvider(ctx, &provider)

	return &provider, nil
}

func (r *providerRepository) GetByOwnerAndKind(ctx context.Context, ownerUserID primitive.ObjectID, kind models.ProviderKind) (*models.ProviderProfile, error) {
	var provider models.ProviderProfile
	err := r.collection.FindOne(ctx, bson.M{
		"owner_user_id": ownerUserID,
		"kind":          kind,
	}).Decode(&provider)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to get provider by owner: %w", err)
	}

	return &provider, nil
}

func (r *providerRepository) List(ctx context.Context, filter interfaces.ProviderFilter, params *utils.PaginationParams) ([]*models.ProviderProfile, int64, error) {
	query := bson.M{}
	if filter.Kind != "" {
		query["kind"] = filter.Kind
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.City != "" {
		// An absent or empty area list means the provider serves anywhere.
		query["$or"] = []bson.M{
			{"service_areas": nil},
			{"service_areas": bson.M{"$size": 0}},
			{"service_areas": bson.M{"$elemMatch": bson.M{"city": filter.City, "active": true}}},
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count providers: %w", err)
	}

	opts := params.GetSortOptions()
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list providers: %w", err)
	}
	defer cursor.Close(ctx)

	var providers []*models.ProviderProfile
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, 0, fmt.Errorf("failed to decode providers: %w", err)
	}

	return providers, total, nil
}

func (r *providerRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, expectedStatus, newStatus models.ProviderStatus, entry models.StatusChange) error {
	// The status guard makes the write a compare-and-set: a racing update
	// that already moved the provider past expectedStatus will not match, so
	// the transition validated against a stale read cannot be persisted.
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": expectedStatus},
		bson.M{
			"$set":  bson.M{"status": newStatus, "updated_at": time.Now()},
			"$push": bson.M{"status_history": entry},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to update provider status: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.ErrProviderStateChanged
	}

	r.invalidateProviderCache(ctx, id.Hex())

	return nil
}

func (r *providerRepository) GetStatusHistory(ctx context.Context, id primitive.ObjectID) ([]models.StatusChange, error) {
	opts := options.FindOne().SetProjection(bson.M{"status_history": 1})

	var doc struct {
		StatusHistory []models.StatusChange `bson:"status_history"`
	}
	err := r.collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to get provider status history: %w", err)
	}

	return doc.StatusHistory, nil
}

func (r *providerRepository) UpdateAvailabilityPolicy(ctx context.Context, id primitive.ObjectID, policy models.AvailabilityPolicy) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"availability_policy": policy, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update availability policy: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.ErrProviderNotFound
	}

	r.invalidateProviderCache(ctx, id.Hex())

	return nil
}

func (r *providerRepository) UpdateVerification(ctx context.Context, id primitive.ObjectID, verification models.Verification) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"verification": verification, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update verification: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.ErrProviderNotFound
	}

	r.invalidateProviderCache(ctx, id.Hex())

	return nil
}

// Cache helpers
func (r *providerRepository) cacheProvider(ctx context.Context, provider *models.ProviderProfile) {
	if r.cache == nil {
		return
	}
	key := fmt.Sprintf("provider_%s", provider.ID.Hex())
	r.cache.Set(ctx, key, provider, 30*time.Minute)
}

func (r *providerRepository) getProviderFromCache(ctx context.Context, id string) *models.ProviderProfile {
	if r.cache == nil {
		return nil
	}
	var provider models.ProviderProfile
	if err := r.cache.Get(ctx, fmt.Sprintf("provider_%s", id), &provider); err != nil {
		return nil
	}
	return &provider
}

func (r *providerRepository) invalidateProviderCache(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, fmt.Sprintf("provider_%s", id))
}
