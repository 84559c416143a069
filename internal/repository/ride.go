package repository

import (
	"context"

	"dispatch/internal/domain"
)

// RideRepository defines the persistence operations for rides.
//
// The conditional transition methods (Claim, Complete, Cancel) are
// check-and-set operations: the status comparison and the write happen as
// one atomic unit against the store, and the boolean result reports whether
// the transition actually took place. Callers must not pre-read the status
// and assume it still holds.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetAll retrieves all rides.
	GetAll(ctx context.Context) ([]*domain.Ride, error)

	// ListByStatus retrieves all rides with the given status in creation
	// order (oldest first).
	ListByStatus(ctx context.Context, status domain.RideStatus) ([]*domain.Ride, error)

	// GetOpenByRiderID retrieves the rider's ride in PENDING or ACCEPTED.
	// Returns nil if the rider has no open ride.
	GetOpenByRiderID(ctx context.Context, riderID string) (*domain.Ride, error)

	// GetActiveByDriverID retrieves the driver's ACCEPTED ride.
	// Returns nil if the driver has no active ride.
	GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Ride, error)

	// Claim atomically transitions a PENDING ride to ACCEPTED and assigns
	// the driver. Returns false if the ride does not exist or is no longer
	// PENDING.
	Claim(ctx context.Context, rideID, driverID string) (bool, error)

	// Complete atomically transitions an ACCEPTED ride to COMPLETED,
	// guarded on the assigned driver. Returns false if the ride is not
	// ACCEPTED or the driver does not match.
	Complete(ctx context.Context, rideID, driverID string) (bool, error)

	// Cancel atomically transitions a PENDING ride to CANCELLED.
	// Returns false if the ride is not PENDING.
	Cancel(ctx context.Context, rideID string) (bool, error)
}
