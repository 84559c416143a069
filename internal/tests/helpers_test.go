package tests

import (
	"context"
	"testing"

	"dispatch/internal/domain"
	"dispatch/internal/service"
)

// fixture wires the core services against the in-memory mocks.
type fixture struct {
	userRepo *MockUserRepository
	rideRepo *MockRideRepository
	locks    *MockLockStore
	cache    *MockCacheStore

	directory *service.DirectoryService
	fare      *service.FareService
	ledger    *service.LedgerService
	dispatch  *service.DispatchService
}

func newFixture() *fixture {
	return newFixtureWithFare(service.DefaultFareConfig())
}

func newFixtureWithFare(cfg service.FareConfig) *fixture {
	f := &fixture{
		userRepo: NewMockUserRepository(),
		rideRepo: NewMockRideRepository(),
		locks:    NewMockLockStore(),
		cache:    NewMockCacheStore(),
	}
	f.directory = service.NewDirectoryService(f.userRepo)
	f.fare = service.NewFareService(cfg)
	f.ledger = service.NewLedgerService(f.rideRepo, f.userRepo, f.fare, f.locks, f.cache)
	f.dispatch = service.NewDispatchService(f.rideRepo, f.cache)
	return f
}

func (f *fixture) mustRegister(t *testing.T, name, phone string, role domain.Role) *domain.User {
	t.Helper()
	user, err := f.directory.Register(context.Background(), name, phone, role)
	if err != nil {
		t.Fatalf("failed to register %s: %v", name, err)
	}
	return user
}

func (f *fixture) mustCreateRide(t *testing.T, riderID, pickup, drop string) *domain.Ride {
	t.Helper()
	ride, err := f.ledger.CreateRide(context.Background(), service.CreateRideRequest{
		RiderID:        riderID,
		PickupLocation: pickup,
		DropLocation:   drop,
	})
	if err != nil {
		t.Fatalf("failed to create ride: %v", err)
	}
	return ride
}

func (f *fixture) mustAccept(t *testing.T, rideID, driverID string) *domain.Ride {
	t.Helper()
	ride, err := f.ledger.AcceptRide(context.Background(), rideID, driverID)
	if err != nil {
		t.Fatalf("failed to accept ride: %v", err)
	}
	return ride
}
