package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"dispatch/internal/domain"
	"dispatch/internal/redis"
	"dispatch/internal/repository"
)

// rideLockTTL bounds how long a crashed accept can hold a ride lock.
const rideLockTTL = 10 * time.Second

// LedgerService owns the canonical ride records and their lifecycle.
// All mutations go through here; other components only read.
type LedgerService struct {
	rideRepo   repository.RideRepository
	userRepo   repository.UserRepository
	fare       *FareService
	lockStore  redis.LockStoreInterface  // optional, nil disables ride locking
	cacheStore redis.CacheStoreInterface // optional, nil disables cache invalidation
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	rideRepo repository.RideRepository,
	userRepo repository.UserRepository,
	fare *FareService,
	lockStore redis.LockStoreInterface,
	cacheStore redis.CacheStoreInterface,
) *LedgerService {
	return &LedgerService{
		rideRepo:   rideRepo,
		userRepo:   userRepo,
		fare:       fare,
		lockStore:  lockStore,
		cacheStore: cacheStore,
	}
}

// CreateRideRequest contains the parameters for booking a ride.
type CreateRideRequest struct {
	RiderID        string
	PickupLocation string
	DropLocation   string
	QuotedFare     int64 // previewed estimate; used only when quotes are binding
}

// CreateRide books a new ride in PENDING state. The fare is fixed here and
// never recomputed. A rider with an open ride cannot book another.
func (s *LedgerService) CreateRide(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if req.RiderID == "" {
		return nil, ErrInvalidRiderID
	}
	if req.PickupLocation == "" || req.DropLocation == "" {
		return nil, ErrInvalidLocation
	}

	if _, err := resolveRole(ctx, s.userRepo, req.RiderID, domain.RoleRider, ErrUnknownRider, ErrNotARider); err != nil {
		return nil, err
	}

	open, err := s.rideRepo.GetOpenByRiderID(ctx, req.RiderID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, ErrRiderHasOpenRide
	}

	fare := req.QuotedFare
	if !s.fare.HonorQuotes() || fare <= 0 {
		fare, err = s.fare.Estimate(req.PickupLocation, req.DropLocation)
		if err != nil {
			return nil, err
		}
	}

	ride := &domain.Ride{
		ID:             uuid.New().String(),
		RiderID:        req.RiderID,
		PickupLocation: req.PickupLocation,
		DropLocation:   req.DropLocation,
		Status:         domain.RideStatusPending,
		Fare:           fare,
		CreatedAt:      time.Now(),
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	s.invalidateAvailable(ctx)
	return ride, nil
}

// AcceptRide claims a PENDING ride for a driver. Of N concurrent accepts on
// the same ride exactly one succeeds; the rest get ErrRideNoLongerAvailable.
func (s *LedgerService) AcceptRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	if _, err := resolveRole(ctx, s.userRepo, driverID, domain.RoleDriver, ErrDriverNotFound, ErrNotADriver); err != nil {
		return nil, err
	}

	active, err := s.rideRepo.GetActiveByDriverID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrDriverHasActiveRide
	}

	// Shed contending drivers before the store-level check-and-set. A held
	// lock means another accept is in flight; its outcome decides the ride,
	// so the contender is already too late.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireRideLock(ctx, rideID, rideLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrRideNoLongerAvailable
		}
		defer func() {
			_ = s.lockStore.ReleaseRideLock(ctx, rideID)
		}()
	}

	claimed, err := s.rideRepo.Claim(ctx, rideID, driverID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Distinguish a ride that never existed from one already taken.
		if _, err := s.rideRepo.GetByID(ctx, rideID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRideNotFound
			}
			return nil, err
		}
		return nil, ErrRideNoLongerAvailable
	}

	s.invalidateAvailable(ctx)
	return s.rideRepo.GetByID(ctx, rideID)
}

// CompleteRide moves an ACCEPTED ride to COMPLETED. Only the assigned
// driver may complete it.
func (s *LedgerService) CompleteRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.DriverID != driverID {
		return nil, ErrNotAuthorized
	}
	if ride.Status != domain.RideStatusAccepted {
		return nil, ErrInvalidTransition
	}

	done, err := s.rideRepo.Complete(ctx, rideID, driverID)
	if err != nil {
		return nil, err
	}
	if !done {
		// The pre-read passed but the guarded write did not: the ride
		// moved underneath us.
		return nil, ErrInvalidTransition
	}

	s.invalidateAvailable(ctx)
	return s.rideRepo.GetByID(ctx, rideID)
}

// CancelRide cancels a PENDING ride. Only the booking rider may cancel, and
// only before a driver claims it.
func (s *LedgerService) CancelRide(ctx context.Context, rideID, riderID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	if riderID == "" {
		return nil, ErrInvalidRiderID
	}

	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.RiderID != riderID {
		return nil, ErrNotAuthorized
	}
	if ride.Status != domain.RideStatusPending {
		return nil, ErrInvalidTransition
	}

	cancelled, err := s.rideRepo.Cancel(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !cancelled {
		return nil, ErrInvalidTransition
	}

	s.invalidateAvailable(ctx)
	return s.rideRepo.GetByID(ctx, rideID)
}

// GetRide retrieves a ride by ID.
func (s *LedgerService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.getRide(ctx, rideID)
}

// ListRides retrieves all rides in creation order.
func (s *LedgerService) ListRides(ctx context.Context) ([]*domain.Ride, error) {
	return s.rideRepo.GetAll(ctx)
}

func (s *LedgerService) getRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}
	return ride, nil
}

func (s *LedgerService) invalidateAvailable(ctx context.Context) {
	if s.cacheStore == nil {
		return
	}
	_ = s.cacheStore.InvalidateAvailableRides(ctx)
}
