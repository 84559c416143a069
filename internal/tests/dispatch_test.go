package tests

import (
	"context"
	"testing"

	"dispatch/internal/domain"
)

func TestAvailableRides_PendingOnlyInCreationOrder(t *testing.T) {
	f := newFixture()
	alice := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	dana := f.mustRegister(t, "Dana", "444", domain.RoleRider)
	eve := f.mustRegister(t, "Eve", "555", domain.RoleRider)
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)

	first := f.mustCreateRide(t, alice.ID, "Park", "Square")
	second := f.mustCreateRide(t, dana.ID, "Mall", "Station")
	third := f.mustCreateRide(t, eve.ID, "Pier", "Museum")

	// Claiming the middle ride removes it from the pool without
	// reordering the survivors.
	f.mustAccept(t, second.ID, driver.ID)

	available, err := f.dispatch.AvailableRides(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(available) != 2 {
		t.Fatalf("expected 2 available rides, got %d", len(available))
	}
	if available[0].ID != first.ID || available[1].ID != third.ID {
		t.Errorf("expected [%s %s], got [%s %s]", first.ID, third.ID, available[0].ID, available[1].ID)
	}
	for _, r := range available {
		if r.Status != domain.RideStatusPending {
			t.Errorf("non-PENDING ride %s in available pool", r.ID)
		}
	}
}

func TestAvailableRides_CacheInvalidatedByMutations(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)
	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	// First read fills the cache.
	available, err := f.dispatch.AvailableRides(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(available) != 1 || available[0].ID != ride.ID {
		t.Fatalf("expected the pending ride in the pool, got %v", available)
	}

	// The accept must invalidate the snapshot; a poll after the claim may
	// not see the ride as available.
	f.mustAccept(t, ride.ID, driver.ID)

	available, err = f.dispatch.AvailableRides(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(available) != 0 {
		t.Errorf("claimed ride still reported as available: %v", available)
	}
}

func TestActiveRideForRider_TracksLifecycle(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)
	ctx := context.Background()

	// No ride yet.
	active, err := f.dispatch.ActiveRideForRider(ctx, rider.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active ride, got %+v", active)
	}

	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	// PENDING counts as active for the rider.
	active, err = f.dispatch.ActiveRideForRider(ctx, rider.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active == nil || active.ID != ride.ID || active.Status != domain.RideStatusPending {
		t.Fatalf("expected PENDING ride %s, got %+v", ride.ID, active)
	}

	// So does ACCEPTED, now carrying the driver.
	f.mustAccept(t, ride.ID, driver.ID)
	active, err = f.dispatch.ActiveRideForRider(ctx, rider.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active == nil || active.Status != domain.RideStatusAccepted || active.DriverID != driver.ID {
		t.Fatalf("expected ACCEPTED ride with driver %s, got %+v", driver.ID, active)
	}

	// COMPLETED is no longer active.
	if _, err := f.ledger.CompleteRide(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("failed to complete ride: %v", err)
	}
	active, err = f.dispatch.ActiveRideForRider(ctx, rider.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active != nil {
		t.Errorf("expected no active ride after completion, got %+v", active)
	}
}

func TestActiveRideForDriver_AcceptedOnly(t *testing.T) {
	f := newFixture()
	rider := f.mustRegister(t, "Alice", "111", domain.RoleRider)
	driver := f.mustRegister(t, "Bob", "222", domain.RoleDriver)
	ctx := context.Background()

	ride := f.mustCreateRide(t, rider.ID, "Park", "Square")

	// A PENDING ride belongs to no driver.
	active, err := f.dispatch.ActiveRideForDriver(ctx, driver.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active != nil {
		t.Fatalf("expected no active ride before accept, got %+v", active)
	}

	f.mustAccept(t, ride.ID, driver.ID)
	active, err = f.dispatch.ActiveRideForDriver(ctx, driver.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active == nil || active.ID != ride.ID {
		t.Fatalf("expected active ride %s, got %+v", ride.ID, active)
	}

	if _, err := f.ledger.CompleteRide(ctx, ride.ID, driver.ID); err != nil {
		t.Fatalf("failed to complete ride: %v", err)
	}
	active, err = f.dispatch.ActiveRideForDriver(ctx, driver.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active != nil {
		t.Errorf("expected no active ride after completion, got %+v", active)
	}
}
