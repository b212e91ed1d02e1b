package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"serendibgo/internal/models"
	"serendibgo/internal/repositories/interfaces"
	"serendibgo/internal/utils"
	"serendibgo/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubClock returns a fixed instant so history timestamps are predictable.
type stubClock struct {
	now time.Time
}

func (c *stubClock) Now() time.Time { return c.now }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text"})
	require.NoError(t, err)
	return log
}

var errCacheMiss = errors.New("cache miss")

// memCache is an in-memory CacheService. SetNX is atomic under the mutex, so
// the provider locker behaves the same way it does on Redis.
type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return errCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.items, key)
	}
	return nil
}

func (c *memCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok, nil
}

func (c *memCache) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; ok {
		return false, nil
	}
	c.items[key] = data
	return true, nil
}

func (c *memCache) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	return 0, nil
}

// fakeProviderRepo is an in-memory ProviderRepository. UpdateStatus performs
// the same compare-and-set the Mongo implementation does, atomically under
// the mutex.
type fakeProviderRepo struct {
	mu        sync.Mutex
	providers map[primitive.ObjectID]*models.ProviderProfile
}

func newFakeProviderRepo() *fakeProviderRepo {
	return &fakeProviderRepo{providers: make(map[primitive.ObjectID]*models.ProviderProfile)}
}

func (r *fakeProviderRepo) put(p *models.ProviderProfile) *models.ProviderProfile {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	r.providers[p.ID] = p
	return p
}

func (r *fakeProviderRepo) Create(ctx context.Context, provider *models.ProviderProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.providers {
		if existing.OwnerUserID == provider.OwnerUserID && existing.Kind == provider.Kind {
			return utils.ErrProviderExists
		}
	}
	if provider.ID.IsZero() {
		provider.ID = primitive.NewObjectID()
	}
	provider.CreatedAt = time.Now()
	provider.UpdatedAt = provider.CreatedAt
	r.providers[provider.ID] = provider
	return nil
}

func (r *fakeProviderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ProviderProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	provider, ok := r.providers[id]
	if !ok {
		return nil, utils.ErrProviderNotFound
	}
	clone := *provider
	clone.StatusHistory = append([]models.StatusChange(nil), provider.StatusHistory...)
	return &clone, nil
}

func (r *fakeProviderRepo) GetByOwnerAndKind(ctx context.Context, ownerUserID primitive.ObjectID, kind models.ProviderKind) (*models.ProviderProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.providers {
		if p.OwnerUserID == ownerUserID && p.Kind == kind {
			return p, nil
		}
	}
	return nil, utils.ErrProviderNotFound
}

func (r *fakeProviderRepo) List(ctx context.Context, filter interfaces.ProviderFilter, params *utils.PaginationParams) ([]*models.ProviderProfile, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.ProviderProfile
	for _, p := range r.providers {
		if filter.Kind != "" && p.Kind != filter.Kind {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProviderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, expectedStatus, newStatus models.ProviderStatus, entry models.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	provider, ok := r.providers[id]
	if !ok {
		return utils.ErrProviderNotFound
	}
	if provider.Status != expectedStatus {
		return utils.ErrProviderStateChanged
	}
	provider.Status = newStatus
	provider.StatusHistory = append(provider.StatusHistory, entry)
	provider.UpdatedAt = entry.Timestamp
	return nil
}

func (r *fakeProviderRepo) GetStatusHistory(ctx context.Context, id primitive.ObjectID) ([]models.StatusChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	provider, ok := r.providers[id]
	if !ok {
		return nil, utils.ErrProviderNotFound
	}
	return append([]models.StatusChange(nil), provider.StatusHistory...), nil
}

func (r *fakeProviderRepo) UpdateAvailabilityPolicy(ctx context.Context, id primitive.ObjectID, policy models.AvailabilityPolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	provider, ok := r.providers[id]
	if !ok {
		return utils.ErrProviderNotFound
	}
	provider.Policy = policy
	return nil
}

func (r *fakeProviderRepo) UpdateVerification(ctx context.Context, id primitive.ObjectID, verification models.Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	provider, ok := r.providers[id]
	if !ok {
		return utils.ErrProviderNotFound
	}
	provider.Verification = verification
	return nil
}

// fakeBookingRepo is an in-memory BookingRepository. UpdateStatus and
// AssignProvider perform the same compare-and-set the Mongo implementation
// does, atomically under the mutex, so racing writes resolve to one winner.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[primitive.ObjectID]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[primitive.ObjectID]*models.Booking)}
}

func (r *fakeBookingRepo) put(b *models.Booking) *models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	r.bookings[b.ID] = b
	return b
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}
	if booking.BookingReference == "" {
		booking.BookingReference = utils.GenerateBookingReference()
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	r.bookings[booking.ID] = booking
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, utils.ErrBookingNotFound
	}
	clone := *booking
	clone.StatusHistory = append([]models.StatusChange(nil), booking.StatusHistory...)
	return &clone, nil
}

func (r *fakeBookingRepo) GetByProvider(ctx context.Context, providerID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, b := range r.bookings {
		if b.ProviderID != nil && *b.ProviderID == providerID {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) GetActiveByProvider(ctx context.Context, providerID primitive.ObjectID) ([]*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Booking
	for _, b := range r.bookings {
		if b.ProviderID != nil && *b.ProviderID == providerID && b.IsActive() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, expectedStatus, newStatus models.BookingStatus, entry models.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return utils.ErrBookingNotFound
	}
	if booking.Status != expectedStatus {
		return utils.ErrBookingStateChanged
	}
	booking.Status = newStatus
	booking.StatusHistory = append(booking.StatusHistory, entry)
	booking.UpdatedAt = entry.Timestamp
	return nil
}

func (r *fakeBookingRepo) GetStatusHistory(ctx context.Context, id primitive.ObjectID) ([]models.StatusChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return nil, utils.ErrBookingNotFound
	}
	return append([]models.StatusChange(nil), booking.StatusHistory...), nil
}

func (r *fakeBookingRepo) AssignProvider(ctx context.Context, id primitive.ObjectID, providerID primitive.ObjectID, expectedStatus, newStatus models.BookingStatus, entry models.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking, ok := r.bookings[id]
	if !ok {
		return utils.ErrBookingNotFound
	}
	if booking.Status != expectedStatus {
		return utils.ErrBookingStateChanged
	}
	booking.ProviderID = &providerID
	booking.Status = newStatus
	booking.StatusHistory = append(booking.StatusHistory, entry)
	booking.UpdatedAt = entry.Timestamp
	return nil
}
