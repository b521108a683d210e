package queries_test

import (
	"context"
	"testing"

	"fleet/internal/core/application/usecases/queries"
	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/vehicle"

	"github.com/stretchr/testify/suite"
)

type GetDeliveriesQueryHandlerTestSuite struct {
	PostgresQueryTestSuite
	handler queries.GetDeliveriesQueryHandler
}

func (suite *GetDeliveriesQueryHandlerTestSuite) SetupSuite() {
	suite.PostgresQueryTestSuite.SetupSuite()
	suite.handler = queries.NewGetDeliveriesQueryHandler(suite.db)
}

func (suite *GetDeliveriesQueryHandlerTestSuite) TestHandle_EmptyDatabase_ReturnsEmptySlice() {
	query, err := queries.NewGetDeliveriesQuery(delivery.StatusUnknown)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.NotNil(result)
	suite.Empty(result)
}

func (suite *GetDeliveriesQueryHandlerTestSuite) TestHandle_ReturnsDeliveriesWithVehicleCode() {
	van := suite.seedVehicle("VH-1001", vehicle.KindVan, -74.0060, 40.7128)
	seeded := suite.seedDelivery(van, "TRK-2001")

	query, err := queries.NewGetDeliveriesQuery(delivery.StatusUnknown)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)

	row := result[0]
	suite.Equal(seeded.ID(), row.ID)
	suite.Equal("TRK-2001", row.TrackingNumber)
	suite.Equal("pending", row.Status)
	suite.Equal("high", row.Priority)
	suite.Equal("10 Pickup St", row.PickupAddress)
	suite.Equal("20 Dropoff Ave", row.DropoffAddress)
	suite.Equal("Dana Reyes", row.CustomerName)
	suite.Equal(van.ID(), row.AssignedVehicleID)
	suite.Equal("VH-1001", row.VehicleExternalCode)
	suite.Equal(van.DriverID(), row.AssignedDriverID)
}

func (suite *GetDeliveriesQueryHandlerTestSuite) TestHandle_StatusFilterNarrowsTheList() {
	first := suite.seedVehicle("VH-1001", vehicle.KindVan, -74.0060, 40.7128)
	suite.seedDelivery(first, "TRK-2001")

	second := suite.seedVehicle("VH-2002", vehicle.KindCar, -73.9857, 40.7484)
	moving := suite.seedDelivery(second, "TRK-2002")
	suite.advanceDelivery(moving.ID(), delivery.StatusPickedUp)

	query, err := queries.NewGetDeliveriesQuery(delivery.StatusPickedUp)
	suite.Require().NoError(err)

	result, err := suite.handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(moving.ID(), result[0].ID)
	suite.Equal("picked-up", result[0].Status)
}

func (suite *GetDeliveriesQueryHandlerTestSuite) TestHandle_InvalidQuery_ReturnsError() {
	result, err := suite.handler.Handle(context.Background(), queries.GetDeliveriesQuery{})

	suite.Require().ErrorIs(err, queries.ErrGetDeliveriesQueryIsNotConstructed)
	suite.Nil(result)
}

func TestGetDeliveriesQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetDeliveriesQueryHandlerTestSuite))
}
