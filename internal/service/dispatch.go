package service

import (
	"context"

	"dispatch/internal/domain"
	"dispatch/internal/redis"
	"dispatch/internal/repository"
)

// DispatchService derives the read-side views that rider and driver polling
// clients consume. Every query is a single consistent read of the ledger's
// current state; there are no side effects on ride records.
type DispatchService struct {
	rideRepo   repository.RideRepository
	cacheStore redis.CacheStoreInterface // optional, nil disables caching
}

// NewDispatchService creates a new DispatchService.
func NewDispatchService(rideRepo repository.RideRepository, cacheStore redis.CacheStoreInterface) *DispatchService {
	return &DispatchService{
		rideRepo:   rideRepo,
		cacheStore: cacheStore,
	}
}

// AvailableRides returns all PENDING rides in creation order. Driver
// clients poll this; a short-TTL cached snapshot absorbs the poll load.
func (s *DispatchService) AvailableRides(ctx context.Context) ([]*domain.Ride, error) {
	if s.cacheStore != nil {
		cached, hit, err := s.cacheStore.GetAvailableRides(ctx)
		if err == nil && hit {
			return cachedToRides(cached), nil
		}
	}

	rides, err := s.rideRepo.ListByStatus(ctx, domain.RideStatusPending)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetAvailableRides(ctx, ridesToCached(rides))
	}
	return rides, nil
}

// ActiveRideForRider returns the rider's PENDING or ACCEPTED ride, or nil.
// Unique by the one-open-ride-per-rider invariant.
func (s *DispatchService) ActiveRideForRider(ctx context.Context, riderID string) (*domain.Ride, error) {
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}
	return s.rideRepo.GetOpenByRiderID(ctx, riderID)
}

// ActiveRideForDriver returns the driver's ACCEPTED ride, or nil.
// Unique by the one-active-ride-per-driver invariant.
func (s *DispatchService) ActiveRideForDriver(ctx context.Context, driverID string) (*domain.Ride, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}
	return s.rideRepo.GetActiveByDriverID(ctx, driverID)
}

func ridesToCached(rides []*domain.Ride) []redis.CachedRide {
	cached := make([]redis.CachedRide, len(rides))
	for i, r := range rides {
		cached[i] = redis.CachedRide{
			ID:             r.ID,
			RiderID:        r.RiderID,
			PickupLocation: r.PickupLocation,
			DropLocation:   r.DropLocation,
			Fare:           r.Fare,
			CreatedAt:      r.CreatedAt,
		}
	}
	return cached
}

func cachedToRides(cached []redis.CachedRide) []*domain.Ride {
	rides := make([]*domain.Ride, len(cached))
	for i, c := range cached {
		rides[i] = &domain.Ride{
			ID:             c.ID,
			RiderID:        c.RiderID,
			PickupLocation: c.PickupLocation,
			DropLocation:   c.DropLocation,
			Status:         domain.RideStatusPending,
			Fare:           c.Fare,
			CreatedAt:      c.CreatedAt,
		}
	}
	return rides
}
