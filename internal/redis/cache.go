package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore caches the available-rides view in Redis.
//
// The snapshot is a short-lived copy of the PENDING ride list that driver
// polling loops hammer on a fixed interval. Every ride mutation invalidates
// it, so a poll never returns a ride that was already claimed more than one
// cache window ago; the accept path itself never trusts the cache.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

const (
	// AvailableRidesTTL bounds how stale a cached snapshot can get even
	// if an invalidation is lost.
	AvailableRidesTTL = 5 * time.Second

	availableRidesKey = "cache:rides:available"
)

// CachedRide is the wire form of a ride in the available-rides snapshot.
type CachedRide struct {
	ID             string    `json:"id"`
	RiderID        string    `json:"rider_id"`
	PickupLocation string    `json:"pickup_location"`
	DropLocation   string    `json:"drop_location"`
	Fare           int64     `json:"fare"`
	CreatedAt      time.Time `json:"created_at"`
}

// GetAvailableRides retrieves the cached snapshot. Returns (nil, false, nil)
// on a cache miss.
func (s *CacheStore) GetAvailableRides(ctx context.Context) ([]CachedRide, bool, error) {
	data, err := s.client.Get(ctx, availableRidesKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}

	var rides []CachedRide
	if err := json.Unmarshal(data, &rides); err != nil {
		return nil, false, err
	}
	return rides, true, nil
}

// SetAvailableRides stores a snapshot of the PENDING ride list.
func (s *CacheStore) SetAvailableRides(ctx context.Context, rides []CachedRide) error {
	data, err := json.Marshal(rides)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, availableRidesKey, data, AvailableRidesTTL).Err()
}

// InvalidateAvailableRides drops the snapshot after any ride mutation.
func (s *CacheStore) InvalidateAvailableRides(ctx context.Context) error {
	return s.client.Del(ctx, availableRidesKey).Err()
}
