package domain

import "time"

// RideStatus represents the current lifecycle state of a ride.
//
// Transitions are monotonic: PENDING -> ACCEPTED -> COMPLETED.
// A PENDING ride may instead move to CANCELLED; no other transition
// into or out of CANCELLED exists.
type RideStatus string

const (
	RideStatusPending   RideStatus = "PENDING"
	RideStatusAccepted  RideStatus = "ACCEPTED"
	RideStatusCompleted RideStatus = "COMPLETED"
	RideStatusCancelled RideStatus = "CANCELLED"
)

// Open reports whether the status counts as an open ride for a rider.
func (s RideStatus) Open() bool {
	return s == RideStatusPending || s == RideStatusAccepted
}

// Ride represents a single transport request from pickup to drop.
type Ride struct {
	ID             string
	RiderID        string
	DriverID       string // empty until the ride is accepted, immutable after
	PickupLocation string
	DropLocation   string
	Status         RideStatus
	Fare           int64 // integer currency units, fixed at creation
	CreatedAt      time.Time
}
