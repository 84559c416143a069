package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

const rideColumns = `id, rider_id, driver_id, pickup_location, drop_location, status, fare, created_at`

// RideRepository implements repository.RideRepository using PostgreSQL.
//
// The lifecycle transitions are single conditional UPDATE statements, so
// the status check and the write are one atomic unit at the row level.
// Two drivers racing on the same PENDING ride hit the same row; the row
// lock serializes them and the loser's WHERE clause no longer matches.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var driverID sql.NullString
	if ride.DriverID != "" {
		driverID = sql.NullString{String: ride.DriverID, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RiderID,
		driverID,
		ride.PickupLocation,
		ride.DropLocation,
		ride.Status,
		ride.Fare,
		ride.CreatedAt,
	)
	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return ride, err
}

// GetAll retrieves all rides in creation order.
func (r *RideRepository) GetAll(ctx context.Context) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides ORDER BY created_at`
	return r.list(ctx, query)
}

// ListByStatus retrieves rides with the given status, oldest first.
func (r *RideRepository) ListByStatus(ctx context.Context, status domain.RideStatus) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE status = $1 ORDER BY created_at`
	return r.list(ctx, query, status)
}

// GetOpenByRiderID retrieves the rider's PENDING or ACCEPTED ride, if any.
func (r *RideRepository) GetOpenByRiderID(ctx context.Context, riderID string) (*domain.Ride, error) {
	query := `
		SELECT ` + rideColumns + ` FROM rides
		WHERE rider_id = $1 AND status IN ($2, $3)
		LIMIT 1
	`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, riderID, domain.RideStatusPending, domain.RideStatusAccepted))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ride, err
}

// GetActiveByDriverID retrieves the driver's ACCEPTED ride, if any.
func (r *RideRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Ride, error) {
	query := `
		SELECT ` + rideColumns + ` FROM rides
		WHERE driver_id = $1 AND status = $2
		LIMIT 1
	`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, driverID, domain.RideStatusAccepted))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return ride, err
}

// Claim atomically transitions a PENDING ride to ACCEPTED.
func (r *RideRepository) Claim(ctx context.Context, rideID, driverID string) (bool, error) {
	query := `
		UPDATE rides SET status = $1, driver_id = $2
		WHERE id = $3 AND status = $4
	`
	return r.transition(ctx, query, domain.RideStatusAccepted, driverID, rideID, domain.RideStatusPending)
}

// Complete atomically transitions an ACCEPTED ride to COMPLETED, guarded on
// the assigned driver.
func (r *RideRepository) Complete(ctx context.Context, rideID, driverID string) (bool, error) {
	query := `
		UPDATE rides SET status = $1
		WHERE id = $2 AND status = $3 AND driver_id = $4
	`
	return r.transition(ctx, query, domain.RideStatusCompleted, rideID, domain.RideStatusAccepted, driverID)
}

// Cancel atomically transitions a PENDING ride to CANCELLED.
func (r *RideRepository) Cancel(ctx context.Context, rideID string) (bool, error) {
	query := `
		UPDATE rides SET status = $1
		WHERE id = $2 AND status = $3
	`
	return r.transition(ctx, query, domain.RideStatusCancelled, rideID, domain.RideStatusPending)
}

func (r *RideRepository) transition(ctx context.Context, query string, args ...any) (bool, error) {
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *RideRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID sql.NullString

	err := row.Scan(
		&ride.ID,
		&ride.RiderID,
		&driverID,
		&ride.PickupLocation,
		&ride.DropLocation,
		&ride.Status,
		&ride.Fare,
		&ride.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		ride.DriverID = driverID.String
	}
	return &ride, nil
}
