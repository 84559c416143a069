package service

import "errors"

var (
	// ErrUnknownRider is returned when a booking references a rider that
	// does not exist.
	ErrUnknownRider = errors.New("rider not found")

	// ErrDriverNotFound is returned when an accept references a driver
	// that does not exist.
	ErrDriverNotFound = errors.New("driver not found")

	// ErrRideNotFound is returned when a ride ID does not resolve.
	ErrRideNotFound = errors.New("ride not found")

	// ErrRideNoLongerAvailable is returned to a driver who loses the race
	// for a PENDING ride. This is the expected outcome under concurrent
	// accepts, not a fault; the caller should pick another ride.
	ErrRideNoLongerAvailable = errors.New("ride is no longer available")

	// ErrNotAuthorized is returned when the caller is not the party
	// assigned to the ride.
	ErrNotAuthorized = errors.New("not authorized for this ride")

	// ErrInvalidTransition is returned when an operation would violate
	// the monotonic ride lifecycle.
	ErrInvalidTransition = errors.New("invalid ride state transition")

	// ErrRiderHasOpenRide is returned when a rider books while already
	// holding a PENDING or ACCEPTED ride.
	ErrRiderHasOpenRide = errors.New("rider already has an open ride")

	// ErrDriverHasActiveRide is returned when a driver accepts while
	// already holding an ACCEPTED ride.
	ErrDriverHasActiveRide = errors.New("driver already has an active ride")

	// ErrNotARider is returned when the booking user is not a RIDER.
	ErrNotARider = errors.New("user is not a rider")

	// ErrNotADriver is returned when the accepting user is not a DRIVER.
	ErrNotADriver = errors.New("user is not a driver")

	// ErrInvalidName is returned when a registration name is empty.
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidPhone is returned when a registration phone is empty.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInvalidRole is returned when a registration role is not RIDER or
	// DRIVER.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidRiderID is returned when a rider ID is empty.
	ErrInvalidRiderID = errors.New("invalid rider id")

	// ErrInvalidDriverID is returned when a driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidRideID is returned when a ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrInvalidLocation is returned when pickup or drop is empty.
	ErrInvalidLocation = errors.New("pickup and drop locations are required")
)
