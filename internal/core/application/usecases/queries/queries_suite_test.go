package queries_test

import (
	"context"
	"time"

	"fleet/internal/adapters/out/postgres/deliveryrepo"
	"fleet/internal/adapters/out/postgres/vehiclerepo"
	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// PostgresQueryTestSuite provides a PostgreSQL container plus write-side
// repositories for seeding data, shared by the query handler suites below.
// Handlers under test read the same tables the repositories write, so the
// seeds go through the real aggregates instead of hand-built rows.
type PostgresQueryTestSuite struct {
	suite.Suite
	container          *postgres.PostgresContainer
	db                 *gorm.DB
	vehicleRepository  *vehiclerepo.GormVehicleRepository
	deliveryRepository *deliveryrepo.GormDeliveryRepository
}

func (suite *PostgresQueryTestSuite) SetupSuite() {
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

func (suite *PostgresQueryTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PostgresQueryTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE vehicles, deliveries CASCADE").Error)
}

// seedVehicle persists a fresh available vehicle at the given coordinates and
// returns the stored aggregate.
func (suite *PostgresQueryTestSuite) seedVehicle(
	externalCode string,
	kind vehicle.Kind,
	longitude float64,
	latitude float64,
) *vehicle.Vehicle {
	location, err := kernel.NewGeoPoint(longitude, latitude)
	suite.Require().NoError(err)

	v, err := vehicle.NewVehicle(
		kernel.NewUUID(), externalCode, kind, 800,
		location, kernel.NewUUID(), time.Now().UTC(),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.vehicleRepository.Add(context.Background(), v))
	return v
}

// seedDelivery persists a pending delivery assigned to the given vehicle and
// binds the vehicle to it, mirroring what the create delivery use case does.
func (suite *PostgresQueryTestSuite) seedDelivery(
	v *vehicle.Vehicle,
	trackingNumber string,
) *delivery.Delivery {
	ctx := context.Background()

	pickupLocation, err := kernel.NewGeoPoint(-73.9857, 40.7484)
	suite.Require().NoError(err)
	dropoffLocation, err := kernel.NewGeoPoint(-73.9680, 40.7851)
	suite.Require().NoError(err)
	pickup, err := delivery.NewWaypoint("10 Pickup St", pickupLocation)
	suite.Require().NoError(err)
	dropoff, err := delivery.NewWaypoint("20 Dropoff Ave", dropoffLocation)
	suite.Require().NoError(err)
	customer, err := delivery.NewCustomer("Dana Reyes", "+1-555-0142", "dana@example.com")
	suite.Require().NoError(err)

	now := time.Now().UTC()
	d, err := delivery.NewDelivery(
		kernel.NewUUID(), trackingNumber, delivery.PriorityHigh,
		pickup, dropoff, customer, v.ID(), v.DriverID(),
		now.Add(time.Hour), now.Add(2*time.Hour), "handle with care", now,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.deliveryRepository.Add(ctx, d))

	bound, err := suite.vehicleRepository.Get(ctx, v.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(bound.AssignDelivery(d.ID(), time.Now().UTC()))
	suite.Require().NoError(suite.vehicleRepository.Update(ctx, bound))

	return d
}

// advanceDelivery reloads a delivery and walks it to the target status.
func (suite *PostgresQueryTestSuite) advanceDelivery(
	id kernel.UUID,
	target delivery.Status,
) *delivery.Delivery {
	ctx := context.Background()

	d, err := suite.deliveryRepository.Get(ctx, id)
	suite.Require().NoError(err)
	suite.Require().NoError(d.TransitionTo(target, time.Now().UTC()))
	suite.Require().NoError(suite.deliveryRepository.Update(ctx, d))
	return d
}

// deactivateVehicle reloads a vehicle and retires it from the fleet.
func (suite *PostgresQueryTestSuite) deactivateVehicle(id kernel.UUID) {
	ctx := context.Background()

	v, err := suite.vehicleRepository.Get(ctx, id)
	suite.Require().NoError(err)
	suite.Require().NoError(v.Deactivate(time.Now().UTC()))
	suite.Require().NoError(suite.vehicleRepository.Update(ctx, v))
}
