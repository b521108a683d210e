package commands_test

import (
	"context"
	"testing"
	"time"

	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/domain/events"
	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVehicleRepository struct{ mock.Mock }

func (m *MockVehicleRepository) Add(ctx context.Context, aggregate *vehicle.Vehicle) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockVehicleRepository) Update(ctx context.Context, aggregate *vehicle.Vehicle) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockVehicleRepository) Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vehicle.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetAwaitingRelease(ctx context.Context) ([]*vehicle.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vehicle.Vehicle), args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

type MockVehicleUoW struct{ mock.Mock }

func (m *MockVehicleUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVehicleUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVehicleUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVehicleUoW) VehicleRepository() ports.VehicleRepository {
	args := m.Called()
	return args.Get(0).(ports.VehicleRepository)
}

type MockVehicleUoWFactory struct{ mock.Mock }

func (m *MockVehicleUoWFactory) Create() commands.VehicleUoW {
	args := m.Called()
	return args.Get(0).(commands.VehicleUoW)
}

type MockDeliveryUoW struct{ mock.Mock }

func (m *MockDeliveryUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDeliveryUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryUoW)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) VehicleRepository() ports.VehicleRepository {
	args := m.Called()
	return args.Get(0).(ports.VehicleRepository)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

// stubAuthGuard returns preconfigured decisions; commands only care about
// allow or deny, not how the guard decided.
type stubAuthGuard struct {
	dispatchErr error
	vehicleErr  error
	locationErr error
	deliveryErr error
}

func (s *stubAuthGuard) AuthorizeDispatch(_ kernel.Principal) error { return s.dispatchErr }

func (s *stubAuthGuard) AuthorizeVehicle(_ kernel.Principal, _ *vehicle.Vehicle) error {
	return s.vehicleErr
}

func (s *stubAuthGuard) AuthorizeVehicleLocation(_ kernel.Principal, _ *vehicle.Vehicle) error {
	return s.locationErr
}

func (s *stubAuthGuard) AuthorizeDelivery(_ kernel.Principal, _ *delivery.Delivery) error {
	return s.deliveryErr
}

// stubPublisher records published events and lock acquisitions so tests can
// assert on ordering without a real bus.
type stubPublisher struct {
	published  []events.Event
	lockedKeys [][]string
}

func (s *stubPublisher) Publish(event events.Event) {
	s.published = append(s.published, event)
}

func (s *stubPublisher) LockEntities(keys ...string) func() {
	s.lockedKeys = append(s.lockedKeys, keys)
	return func() {}
}

func mustPrincipal(t *testing.T, role kernel.Role) kernel.Principal {
	t.Helper()
	principal, err := kernel.NewPrincipal(kernel.NewUUID(), role)
	require.NoError(t, err)
	return principal
}

func mustPoint(t *testing.T) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(-74.0060, 40.7128)
	require.NoError(t, err)
	return point
}

func mustAvailableVehicle(t *testing.T, driverID kernel.UUID) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.NewVehicle(
		kernel.NewUUID(), "VH-1001", vehicle.KindVan, 800,
		mustPoint(t), driverID, time.Now().UTC(),
	)
	require.NoError(t, err)
	return v
}

func mustRestoredVehicle(
	t *testing.T,
	status vehicle.Status,
	driverID kernel.UUID,
	deliveryID *kernel.UUID,
	version int64,
) *vehicle.Vehicle {
	t.Helper()
	v, err := vehicle.RestoreVehicle(
		kernel.NewUUID(), "VH-1001", vehicle.KindVan, 800,
		status, mustPoint(t), driverID, deliveryID,
		time.Now().UTC().Add(-time.Minute), true, version,
	)
	require.NoError(t, err)
	return v
}

func mustWaypoint(t *testing.T, address string) delivery.Waypoint {
	t.Helper()
	waypoint, err := delivery.NewWaypoint(address, mustPoint(t))
	require.NoError(t, err)
	return waypoint
}

func mustCustomer(t *testing.T) delivery.Customer {
	t.Helper()
	customer, err := delivery.NewCustomer("Dana Reyes", "+1-555-0142", "dana@example.com")
	require.NoError(t, err)
	return customer
}

func mustRestoredDelivery(
	t *testing.T,
	status delivery.Status,
	vehicleID kernel.UUID,
	driverID kernel.UUID,
	version int64,
) *delivery.Delivery {
	t.Helper()
	now := time.Now().UTC()
	d, err := delivery.RestoreDelivery(
		kernel.NewUUID(), "TRK-2001", status, delivery.PriorityHigh,
		mustWaypoint(t, "10 Pickup St"), mustWaypoint(t, "20 Dropoff Ave"),
		mustCustomer(t), vehicleID, driverID,
		now.Add(time.Hour), now.Add(2*time.Hour),
		nil, nil, nil, "", now.Add(-time.Hour), version,
	)
	require.NoError(t, err)
	return d
}
