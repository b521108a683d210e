package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleet/internal/adapters/out/postgres"
	"fleet/internal/adapters/out/postgres/deliveryrepo"
	"fleet/internal/adapters/out/postgres/vehiclerepo"
	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/core/domain/services"
	"fleet/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite verifies that the unit of work keeps the
// coordinator's two-entity commits atomic.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *pgcontainer.PostgresContainer
	db        *gorm.DB
	factory   *postgres.GormUnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:15-alpine",
		pgcontainer.WithDatabase("testdb"),
		pgcontainer.WithUsername("testuser"),
		pgcontainer.WithPassword("testpass"),
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

	suite.factory = postgres.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE vehicles, deliveries CASCADE").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) seedVehicle() *vehicle.Vehicle {
	location, err := kernel.NewGeoPoint(-74.0060, 40.7128)
	suite.Require().NoError(err)
	v, err := vehicle.NewVehicle(
		kernel.NewUUID(), "VH-1001", vehicle.KindVan, 800,
		location, kernel.NewUUID(), time.Now().UTC(),
	)
	suite.Require().NoError(err)
	suite.Require().NoError(vehiclerepo.NewGormVehicleRepository(suite.db).Add(context.Background(), v))
	return v
}

func (suite *UnitOfWorkIntegrationTestSuite) buildDelivery(v *vehicle.Vehicle) *delivery.Delivery {
	return suite.buildDeliveryWithTracking(v, "TRK-2001")
}

func (suite *UnitOfWorkIntegrationTestSuite) buildDeliveryWithTracking(
	v *vehicle.Vehicle,
	trackingNumber string,
) *delivery.Delivery {
	point, err := kernel.NewGeoPoint(-73.9857, 40.7484)
	suite.Require().NoError(err)
	pickup, err := delivery.NewWaypoint("10 Pickup St", point)
	suite.Require().NoError(err)
	dropoff, err := delivery.NewWaypoint("20 Dropoff Ave", point)
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

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_PersistsBothEntities() {
	ctx := context.Background()
	seeded := suite.seedVehicle()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	target, err := uow.VehicleRepository().Get(ctx, seeded.ID())
	suite.Require().NoError(err)

	newDelivery := suite.buildDelivery(target)
	coordinator := services.NewAssignmentCoordinator()
	suite.Require().NoError(coordinator.Bind(newDelivery, target, time.Now().UTC()))

	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, newDelivery))
	suite.Require().NoError(uow.VehicleRepository().Update(ctx, target))
	suite.Require().NoError(uow.Commit(ctx))

	loadedVehicle, err := vehiclerepo.NewGormVehicleRepository(suite.db).Get(ctx, seeded.ID())
	suite.Require().NoError(err)
	suite.Equal(vehicle.StatusAssigned, loadedVehicle.Status())
	suite.Require().NotNil(loadedVehicle.CurrentDeliveryID())
	suite.Equal(newDelivery.ID(), *loadedVehicle.CurrentDeliveryID())

	loadedDelivery, err := deliveryrepo.NewGormDeliveryRepository(suite.db).Get(ctx, newDelivery.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.StatusPending, loadedDelivery.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_DiscardsBothEntities() {
	ctx := context.Background()
	seeded := suite.seedVehicle()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	target, err := uow.VehicleRepository().Get(ctx, seeded.ID())
	suite.Require().NoError(err)

	newDelivery := suite.buildDelivery(target)
	coordinator := services.NewAssignmentCoordinator()
	suite.Require().NoError(coordinator.Bind(newDelivery, target, time.Now().UTC()))

	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, newDelivery))
	suite.Require().NoError(uow.VehicleRepository().Update(ctx, target))
	suite.Require().NoError(uow.Rollback(ctx))

	loadedVehicle, err := vehiclerepo.NewGormVehicleRepository(suite.db).Get(ctx, seeded.ID())
	suite.Require().NoError(err)
	suite.Equal(vehicle.StatusAvailable, loadedVehicle.Status())
	suite.Nil(loadedVehicle.CurrentDeliveryID())

	_, err = deliveryrepo.NewGormDeliveryRepository(suite.db).Get(ctx, newDelivery.ID())
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentBind_ExactlyOneWins() {
	ctx := context.Background()
	seeded := suite.seedVehicle()

	first := suite.buildDeliveryWithTracking(seeded, "TRK-3001")
	second := suite.buildDeliveryWithTracking(seeded, "TRK-3002")

	attempt := func(newDelivery *delivery.Delivery) error {
		uow := suite.factory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}
		defer func() {
			_ = uow.Rollback(ctx)
		}()

		target, err := uow.VehicleRepository().Get(ctx, seeded.ID())
		if err != nil {
			return err
		}

		coordinator := services.NewAssignmentCoordinator()
		if err = coordinator.Bind(newDelivery, target, time.Now().UTC()); err != nil {
			return err
		}
		if err = uow.DeliveryRepository().Add(ctx, newDelivery); err != nil {
			return err
		}
		if err = uow.VehicleRepository().Update(ctx, target); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}

	start := make(chan struct{})
	results := make(chan error, 2)
	for _, d := range []*delivery.Delivery{first, second} {
		go func(d *delivery.Delivery) {
			<-start
			results <- attempt(d)
		}(d)
	}
	close(start)

	successes := 0
	var losers []error
	for i := 0; i < 2; i++ {
		if err := <-results; err == nil {
			successes++
		} else {
			losers = append(losers, err)
		}
	}

	suite.Equal(1, successes)
	suite.Require().Len(losers, 1)
	// The loser hits the CAS on the vehicle row or, when it reads after the
	// winner's commit, the availability check in the coordinator.
	suite.True(
		errors.Is(losers[0], errs.ErrVersionConflict) ||
			errors.Is(losers[0], errs.ErrVehicleUnavailable),
		"unexpected loser error: %v", losers[0],
	)

	loadedVehicle, err := vehiclerepo.NewGormVehicleRepository(suite.db).Get(ctx, seeded.ID())
	suite.Require().NoError(err)
	suite.Equal(vehicle.StatusAssigned, loadedVehicle.Status())
	suite.Require().NotNil(loadedVehicle.CurrentDeliveryID())

	var committed int64
	suite.Require().NoError(suite.db.Table("deliveries").Count(&committed).Error)
	suite.Equal(int64(1), committed)

	winner, err := deliveryrepo.NewGormDeliveryRepository(suite.db).Get(ctx, *loadedVehicle.CurrentDeliveryID())
	suite.Require().NoError(err)
	suite.Equal(delivery.StatusPending, winner.Status())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommit_WithoutBegin() {
	uow := suite.factory.Create()
	suite.Require().ErrorIs(uow.Commit(context.Background()), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollback_WithoutBegin() {
	uow := suite.factory.Create()
	suite.Require().ErrorIs(uow.Rollback(context.Background()), gorm.ErrInvalidTransaction)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
