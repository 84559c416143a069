package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"dispatch/internal/domain"
	"dispatch/internal/service"
)

// ──────────────────────────────────────────────
// CREATE
// ──────────────────────────────────────────────

func TestCreateRide_StartsPendingWithFare(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)

	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	if ride.Status != domain.RideStatusPending {
		t.Errorf("expected status PENDING, got %s", ride.Status)
	}
	if ride.DriverID != "" {
		t.Errorf("expected no driver on a fresh ride, got %s", ride.DriverID)
	}
	if ride.Fare <= 0 {
		t.Errorf("expected a positive fare, got %d", ride.Fare)
	}
	if ride.CreatedAt.IsZero() {
		t.Error("expected a creation timestamp")
	}
}

func TestCreateRide_UnknownRider(t *testing.T) {
	f := newFixture()

	_, err := f.ledger.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:        "no-such-rider",
		PickupLocation: "Park",
		DropLocation:   "Square",
	})
	if !errors.Is(err, service.ErrUnknownRider) {
		t.Errorf("expected ErrUnknownRider, got %v", err)
	}
}

func TestCreateRide_RejectsDriverAsRider(t *testing.T) {
	f := newFixture()
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)

	_, err := f.ledger.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:        driver.ID,
		PickupLocation: "Park",
		DropLocation:   "Square",
	})
	if !errors.Is(err, service.ErrNotARider) {
		t.Errorf("expected ErrNotARider, got %v", err)
	}
}

func TestCreateRide_ValidatesInput(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)

	testCases := []struct {
		name string
		req  service.CreateRideRequest
		want error
	}{
		{"empty rider", service.CreateRideRequest{PickupLocation: "A", DropLocation: "B"}, service.ErrInvalidRiderID},
		{"empty pickup", service.CreateRideRequest{RiderID: rider.ID, DropLocation: "B"}, service.ErrInvalidLocation},
		{"empty drop", service.CreateRideRequest{RiderID: rider.ID, PickupLocation: "A"}, service.ErrInvalidLocation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.CreateRide(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateRide_OneOpenRidePerRider(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)

	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	// Blocked while PENDING.
	_, err := f.ledger.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:        rider.ID,
		PickupLocation: "Mall",
		DropLocation:   "Station",
	})
	if !errors.Is(err, service.ErrRiderHasOpenRide) {
		t.Errorf("expected ErrRiderHasOpenRide while PENDING, got %v", err)
	}

	// Still blocked while ACCEPTED.
	f.mustAccept(t, ride.ID, driver.ID)
	_, err = f.ledger.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:        rider.ID,
		PickupLocation: "Mall",
		DropLocation:   "Station",
	})
	if !errors.Is(err, service.ErrRiderHasOpenRide) {
		t.Errorf("expected ErrRiderHasOpenRide while ACCEPTED, got %v", err)
	}

	// Free again once COMPLETED.
	if _, err := f.ledger.CompleteRide(context.Background(), ride.ID, driver.ID); err != nil {
		t.Fatalf("failed to complete ride: %v", err)
	}
	if _, err := f.ledger.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:        rider.ID,
		PickupLocation: "Mall",
		DropLocation:   "Station",
	}); err != nil {
		t.Errorf("expected booking to succeed after completion, got %v", err)
	}
}

// ──────────────────────────────────────────────
// ACCEPT
// ──────────────────────────────────────────────

func TestAcceptRide_AssignsDriver(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	accepted := f.mustAccept(t, ride.ID, driver.ID)

	if accepted.Status != domain.RideStatusAccepted {
		t.Errorf("expected status ACCEPTED, got %s", accepted.Status)
	}
	if accepted.DriverID != driver.ID {
		t.Errorf("expected driver %s, got %s", driver.ID, accepted.DriverID)
	}
	if accepted.Fare != ride.Fare {
		t.Errorf("fare changed on accept: %d -> %d", ride.Fare, accepted.Fare)
	}
}

func TestAcceptRide_RideNotFound(t *testing.T) {
	f := newFixture()
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)

	_, err := f.ledger.AcceptRide(context.Background(), "no-such-ride", driver.ID)
	if !errors.Is(err, service.ErrRideNotFound) {
		t.Errorf("expected ErrRideNotFound, got %v", err)
	}
}

func TestAcceptRide_DriverNotFound(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	_, err := f.ledger.AcceptRide(context.Background(), ride.ID, "no-such-driver")
	if !errors.Is(err, service.ErrDriverNotFound) {
		t.Errorf("expected ErrDriverNotFound, got %v", err)
	}
}

func TestAcceptRide_RejectsRiderAsDriver(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	_, err := f.ledger.AcceptRide(context.Background(), ride.ID, rider.ID)
	if !errors.Is(err, service.ErrNotADriver) {
		t.Errorf("expected ErrNotADriver, got %v", err)
	}
}

func TestAcceptRide_AlreadyTaken(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	bob := f.mustRegister(t, "Bob", "222", domain.RoleDriver)
	carl := f.mustRegister(t, "Carl", "333", domain.RoleDriver)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	f.mustAccept(t, ride.ID, bob.ID)

	_, err := f.ledger.AcceptRide(context.Background(), ride.ID, carl.ID)
	if !errors.Is(err, service.ErrRideNoLongerAvailable) {
		t.Errorf("expected ErrRideNoLongerAvailable, got %v", err)
	}

	// The losing attempt must not have disturbed the assignment.
	stored := f.rideRepo.GetRide(ride.ID)
	if stored.DriverID != bob.ID || stored.Status != domain.RideStatusAccepted {
		t.Errorf("losing accept corrupted the ride: %+v", stored)
	}
}

func TestAcceptRide_OneActiveRidePerDriver(t *testing.T) {
	f := newFixture()
	alice := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	dana := f.mustRegister(t, "Dana", "444", domain.RoleRider)
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)

	first := f.mustCreateRide(t, alice.ID, "Park", "Square")
	second := f.mustCreateRide(t, dana.ID, "Mall", "Station")

	f.mustAccept(t, first.ID, driver.ID)

	_, err := f.ledger.AcceptRide(context.Background(), second.ID, driver.ID)
	if !errors.Is(err, service.ErrDriverHasActiveRide) {
		t.Errorf("expected ErrDriverHasActiveRide, got %v", err)
	}

	// Completing the first ride frees the driver.
	if _, err := f.ledger.CompleteRide(context.Background(), first.ID, driver.ID); err != nil {
		t.Fatalf("failed to complete ride: %v", err)
	}
	if _, err := f.ledger.AcceptRide(context.Background(), second.ID, driver.ID); err != nil {
		t.Errorf("expected accept to succeed after completion, got %v", err)
	}
}

func TestAcceptRide_ExactlyOneWinnerUnderContention(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	const drivers = 32
	driverIDs := make([]string, drivers)
	for i := range driverIDs {
		driverIDs[i] = f.mustRegister(t, fmt.Sprintf("Driver %d", i), fmt.Sprintf("900%04d", i), domain.RoleDriver).ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := make(map[string]bool)
	losses := 0

	start := make(chan struct{})
	for _, driverID := range driverIDs {
		wg.Add(1)
		go func(driverID string) {
			defer wg.Done()
			<-start

			accepted, err := f.ledger.AcceptRide(context.Background(), ride.ID, driverID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners[accepted.DriverID] = true
			case errors.Is(err, service.ErrRideNoLongerAvailable):
				losses++
			default:
				t.Errorf("unexpected error from losing accept: %v", err)
			}
		}(driverID)
	}

	close(start)
	wg.Wait()

	if len(winners) != 1 {
		t.Fatalf("expected exactly one winner, got %d", len(winners))
	}
	if losses != drivers-1 {
		t.Errorf("expected %d ErrRideNoLongerAvailable results, got %d", drivers-1, losses)
	}

	stored := f.rideRepo.GetRide(ride.ID)
	if stored.Status != domain.RideStatusAccepted {
		t.Errorf("expected the ride to end ACCEPTED, got %s", stored.Status)
	}
	if !winners[stored.DriverID] {
		t.Errorf("stored driver %s is not the reported winner", stored.DriverID)
	}
}

// ──────────────────────────────────────────────
// COMPLETE
// ──────────────────────────────────────────────

func TestCompleteRide_ByAssignedDriver(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")
	f.mustAccept(t, ride.ID, driver.ID)

	completed, err := f.ledger.CompleteRide(context.Background(), ride.ID, driver.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completed.Status != domain.RideStatusCompleted {
		t.Errorf("expected status COMPLETED, got %s", completed.Status)
	}
}

func TestCompleteRide_RideNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.ledger.CompleteRide(context.Background(), "no-such-ride", "any-driver")
	if !errors.Is(err, service.ErrRideNotFound) {
		t.Errorf("expected ErrRideNotFound, got %v", err)
	}
}

func TestCompleteRide_OnlyAssignedDriver(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	bob := f.mustRegister(t, "Bob", "222", domain.RoleDriver)
	carl := f.mustRegister(t, "Carl", "333", domain.RoleDriver)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")
	f.mustAccept(t, ride.ID, bob.ID)

	_, err := f.ledger.CompleteRide(context.Background(), ride.ID, carl.ID)
	if !errors.Is(err, service.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}

	// The rejection must not have moved the ride.
	if got := f.rideRepo.GetRide(ride.ID).Status; got != domain.RideStatusAccepted {
		t.Errorf("expected ride to stay ACCEPTED, got %s", got)
	}
}

func TestCompleteRide_PendingRide(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	// No driver assigned yet, so the caller cannot match it.
	_, err := f.ledger.CompleteRide(context.Background(), ride.ID, driver.ID)
	if !errors.Is(err, service.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestCompleteRide_AlreadyCompleted(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")
	f.mustAccept(t, ride.ID, driver.ID)

	if _, err := f.ledger.CompleteRide(context.Background(), ride.ID, driver.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.ledger.CompleteRide(context.Background(), ride.ID, driver.ID)
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

// ──────────────────────────────────────────────
// CANCEL
// ──────────────────────────────────────────────

func TestCancelRide_ByBookingRider(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	cancelled, err := f.ledger.CancelRide(context.Background(), ride.ID, rider.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != domain.RideStatusCancelled {
		t.Errorf("expected status CANCELLED, got %s", cancelled.Status)
	}

	// Cancelling frees the rider to book again.
	if _, err := f.ledger.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:        rider.ID,
		PickupLocation: "Mall",
		DropLocation:   "Station",
	}); err != nil {
		t.Errorf("expected booking to succeed after cancel, got %v", err)
	}
}

func TestCancelRide_OnlyBookingRider(t *testing.T) {
	f := newFixture()
	alice := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	dana := f.mustRegister(t, "Dana", "444", domain.RoleRider)
	ride := f.mustCreateRide(t, alice.ID, "Park", "Square")

	_, err := f.ledger.CancelRide(context.Background(), ride.ID, dana.ID)
	if !errors.Is(err, service.ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestCancelRide_NotAfterAccept(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")
	f.mustAccept(t, ride.ID, driver.ID)

	_, err := f.ledger.CancelRide(context.Background(), ride.ID, rider.ID)
	if !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

// ──────────────────────────────────────────────
// LIFECYCLE MONOTONICITY
// ──────────────────────────────────────────────

func TestLifecycle_NoRegression(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)
	late := f.mustRegister(t, "Carl", "333", domain.RoleDriver)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	f.mustAccept(t, ride.ID, driver.ID)
	if _, err := f.ledger.CompleteRide(context.Background(), ride.ID, driver.ID); err != nil {
		t.Fatalf("failed to complete ride: %v", err)
	}

	// Nothing may move a COMPLETED ride.
	if _, err := f.ledger.AcceptRide(context.Background(), ride.ID, late.ID); !errors.Is(err, service.ErrRideNoLongerAvailable) {
		t.Errorf("accept on COMPLETED: expected ErrRideNoLongerAvailable, got %v", err)
	}
	if _, err := f.ledger.CancelRide(context.Background(), ride.ID, rider.ID); !errors.Is(err, service.ErrInvalidTransition) {
		t.Errorf("cancel on COMPLETED: expected ErrInvalidTransition, got %v", err)
	}
	if got := f.rideRepo.GetRide(ride.ID).Status; got != domain.RideStatusCompleted {
		t.Errorf("ride regressed from COMPLETED to %s", got)
	}
}
