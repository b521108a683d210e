package vehiclerepo_test

import (
	"context"
	"testing"
	"time"

	"fleet/internal/adapters/out/postgres/deliveryrepo"
	"fleet/internal/adapters/out/postgres/vehiclerepo"
	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// VehicleRepositoryIntegrationTestSuite verifies vehicle persistence against
// a real PostgreSQL instance, including the compare-and-swap semantics that
// the command handlers depend on.
type VehicleRepositoryIntegrationTestSuite struct {
	suite.Suite
	container          *postgres.PostgresContainer
	db                 *gorm.DB
	vehicleRepository  *vehiclerepo.GormVehicleRepository
	deliveryRepository *deliveryrepo.GormDeliveryRepository
}

func (suite *VehicleRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&vehiclerepo.VehicleDTO{},
		&deliveryrepo.DeliveryDTO{},
	))

	suite.vehicleRepository = vehiclerepo.NewGormVehicleRepository(db)
	suite.deliveryRepository = deliveryrepo.NewGormDeliveryRepository(db)
}

func (suite *VehicleRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *VehicleRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE vehicles, deliveries CASCADE").Error)
}

func (suite *VehicleRepositoryIntegrationTestSuite) newVehicle(externalCode string) *vehicle.Vehicle {
	location, err := kernel.NewGeoPoint(-74.0060, 40.7128)
	suite.Require().NoError(err)

	v, err := vehicle.NewVehicle(
		kernel.NewUUID(), externalCode, vehicle.KindVan, 800,
		location, kernel.NewUUID(), time.Now().UTC(),
	)
	suite.Require().NoError(err)
	return v
}

func (suite *VehicleRepositoryIntegrationTestSuite) newDelivery(
	v *vehicle.Vehicle,
	trackingNumber string,
) *delivery.Delivery {
	location, err := kernel.NewGeoPoint(-73.9857, 40.7484)
	suite.Require().NoError(err)
	pickup, err := delivery.NewWaypoint("10 Pickup St", location)
	suite.Require().NoError(err)
	dropoff, err := delivery.NewWaypoint("20 Dropoff Ave", location)
	suite.Require().NoError(err)
	customer, err := delivery.NewCustomer("Dana Reyes", "+1-555-0142", "dana@example.com")
	suite.Require().NoError(err)

	now := time.Now().UTC()
	d, err := delivery.NewDelivery(
		kernel.NewUUID(), trackingNumber, delivery.PriorityHigh,
		pickup, dropoff, customer, v.ID(), v.DriverID(),
		now.Add(time.Hour), now.Add(2*time.Hour), "", now,
	)
	suite.Require().NoError(err)
	return d
}

func (suite *VehicleRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	original := suite.newVehicle("VH-1001")

	suite.Require().NoError(suite.vehicleRepository.Add(ctx, original))

	loaded, err := suite.vehicleRepository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), loaded.ID())
	suite.Equal("VH-1001", loaded.ExternalCode())
	suite.Equal(vehicle.KindVan, loaded.Kind())
	suite.Equal(800, loaded.Capacity())
	suite.Equal(vehicle.StatusAvailable, loaded.Status())
	suite.Equal(original.DriverID(), loaded.DriverID())
	suite.Nil(loaded.CurrentDeliveryID())
	suite.True(loaded.IsActive())
	suite.Equal(int64(1), loaded.PersistedVersion())
	equal, err := loaded.Location().IsEqual(original.Location())
	suite.Require().NoError(err)
	suite.True(equal)
}

func (suite *VehicleRepositoryIntegrationTestSuite) TestAdd_DuplicateExternalCode() {
	ctx := context.Background()
	suite.Require().NoError(suite.vehicleRepository.Add(ctx, suite.newVehicle("VH-1001")))

	err := suite.vehicleRepository.Add(ctx, suite.newVehicle("VH-1001"))
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *VehicleRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.vehicleRepository.Get(context.Background(), kernel.NewUUID())
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *VehicleRepositoryIntegrationTestSuite) TestUpdate_PersistsMutation() {
	ctx := context.Background()
	original := suite.newVehicle("VH-1001")
	suite.Require().NoError(suite.vehicleRepository.Add(ctx, original))

	loaded, err := suite.vehicleRepository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	target, err := kernel.NewGeoPoint(-73.9857, 40.7484)
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.MoveTo(target, time.Now().UTC()))

	suite.Require().NoError(suite.vehicleRepository.Update(ctx, loaded))

	reloaded, err := suite.vehicleRepository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	equal, err := reloaded.Location().IsEqual(target)
	suite.Require().NoError(err)
	suite.True(equal)
	suite.Equal(int64(2), reloaded.PersistedVersion())
}

func (suite *VehicleRepositoryIntegrationTestSuite) TestUpdate_StaleVersionConflicts() {
	ctx := context.Background()
	original := suite.newVehicle("VH-1001")
	suite.Require().NoError(suite.vehicleRepository.Add(ctx, original))

	first, err := suite.vehicleRepository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	second, err := suite.vehicleRepository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	target, err := kernel.NewGeoPoint(-73.9857, 40.7484)
	suite.Require().NoError(err)

	suite.Require().NoError(first.MoveTo(target, time.Now().UTC()))
	suite.Require().NoError(suite.vehicleRepository.Update(ctx, first))

	suite.Require().NoError(second.MoveTo(target, time.Now().UTC()))
	err = suite.vehicleRepository.Update(ctx, second)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrVersionConflict)
}

func (suite *VehicleRepositoryIntegrationTestSuite) TestUpdate_MissingVehicle() {
	ctx := context.Background()
	ghost := suite.newVehicle("VH-9999")

	err := suite.vehicleRepository.Update(ctx, ghost)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *VehicleRepositoryIntegrationTestSuite) TestGetAwaitingRelease() {
	ctx := context.Background()
	now := time.Now().UTC()

	// Vehicle bound to a delivery that was marked delivered.
	orphan := suite.newVehicle("VH-1001")
	orphanDelivery := suite.newDelivery(orphan, "TRK-0001")
	suite.Require().NoError(orphan.AssignDelivery(orphanDelivery.ID(), now))
	suite.Require().NoError(orphanDelivery.TransitionTo(delivery.StatusDelivered, now))
	suite.Require().NoError(suite.vehicleRepository.Add(ctx, orphan))
	suite.Require().NoError(suite.deliveryRepository.Add(ctx, orphanDelivery))

	// Vehicle bound to a delivery still in flight.
	busy := suite.newVehicle("VH-1002")
	busyDelivery := suite.newDelivery(busy, "TRK-0002")
	suite.Require().NoError(busy.AssignDelivery(busyDelivery.ID(), now))
	suite.Require().NoError(suite.vehicleRepository.Add(ctx, busy))
	suite.Require().NoError(suite.deliveryRepository.Add(ctx, busyDelivery))

	// Vehicle with nothing bound.
	idle := suite.newVehicle("VH-1003")
	suite.Require().NoError(suite.vehicleRepository.Add(ctx, idle))

	candidates, err := suite.vehicleRepository.GetAwaitingRelease(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 1)
	suite.Equal(orphan.ID(), candidates[0].ID())
}

func TestVehicleRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(VehicleRepositoryIntegrationTestSuite))
}
