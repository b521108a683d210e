// Package http exposes the dispatch engine over a REST surface plus a
// websocket event feed. Handlers translate between the wire DTOs and the
// command/query layer; all domain decisions stay behind the use cases.
package http

import (
	"net/http"
	"strconv"

	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/application/usecases/queries"
	"fleet/internal/core/domain/model/delivery"
	"fleet/internal/core/domain/model/kernel"
	"fleet/internal/core/domain/model/vehicle"
	"fleet/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server wires the HTTP routes to the command and query handlers.
type Server struct {
	createVehicleHandler         commands.CreateVehicleCommandHandler
	createDeliveryHandler        commands.CreateDeliveryCommandHandler
	updateDeliveryStatusHandler  commands.UpdateDeliveryStatusCommandHandler
	attachProofHandler           commands.AttachProofCommandHandler
	updateVehicleStatusHandler   commands.UpdateVehicleStatusCommandHandler
	updateVehicleLocationHandler commands.UpdateVehicleLocationCommandHandler
	deactivateVehicleHandler     commands.DeactivateVehicleCommandHandler

	getVehiclesHandler        queries.GetVehiclesQueryHandler
	getDeliveriesHandler      queries.GetDeliveriesQueryHandler
	getDeliveryByIDHandler    queries.GetDeliveryByIDQueryHandler
	getNearestVehiclesHandler queries.GetNearestVehiclesQueryHandler

	eventFeed *EventFeed
}

// NewServer creates the HTTP server over the given use case handlers.
func NewServer(
	createVehicleHandler commands.CreateVehicleCommandHandler,
	createDeliveryHandler commands.CreateDeliveryCommandHandler,
	updateDeliveryStatusHandler commands.UpdateDeliveryStatusCommandHandler,
	attachProofHandler commands.AttachProofCommandHandler,
	updateVehicleStatusHandler commands.UpdateVehicleStatusCommandHandler,
	updateVehicleLocationHandler commands.UpdateVehicleLocationCommandHandler,
	deactivateVehicleHandler commands.DeactivateVehicleCommandHandler,
	getVehiclesHandler queries.GetVehiclesQueryHandler,
	getDeliveriesHandler queries.GetDeliveriesQueryHandler,
	getDeliveryByIDHandler queries.GetDeliveryByIDQueryHandler,
	getNearestVehiclesHandler queries.GetNearestVehiclesQueryHandler,
	eventFeed *EventFeed,
) *Server {
	return &Server{
		createVehicleHandler:         createVehicleHandler,
		createDeliveryHandler:        createDeliveryHandler,
		updateDeliveryStatusHandler:  updateDeliveryStatusHandler,
		attachProofHandler:           attachProofHandler,
		updateVehicleStatusHandler:   updateVehicleStatusHandler,
		updateVehicleLocationHandler: updateVehicleLocationHandler,
		deactivateVehicleHandler:     deactivateVehicleHandler,
		getVehiclesHandler:           getVehiclesHandler,
		getDeliveriesHandler:         getDeliveriesHandler,
		getDeliveryByIDHandler:       getDeliveryByIDHandler,
		getNearestVehiclesHandler:    getNearestVehiclesHandler,
		eventFeed:                    eventFeed,
	}
}

// RegisterRoutes mounts the API under /api/v1 with the given auth
// middleware; /health stays open.
func (s *Server) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/health", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1", auth)

	api.POST("/vehicles", s.CreateVehicle)
	api.GET("/vehicles", s.GetVehicles)
	api.GET("/vehicles/nearest", s.GetNearestVehicles)
	api.PATCH("/vehicles/:id/status", s.UpdateVehicleStatus)
	api.PATCH("/vehicles/:id/location", s.UpdateVehicleLocation)
	api.DELETE("/vehicles/:id", s.DeactivateVehicle)

	api.POST("/deliveries", s.CreateDelivery)
	api.GET("/deliveries", s.GetDeliveries)
	api.GET("/deliveries/:id", s.GetDeliveryByID)
	api.PATCH("/deliveries/:id/status", s.UpdateDeliveryStatus)
	api.POST("/deliveries/:id/proof", s.AttachProof)

	api.GET("/events", s.eventFeed.Serve)
}

// CreateVehicle handles POST /api/v1/vehicles.
func (s *Server) CreateVehicle(ctx echo.Context) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return writeError(ctx, errs.NewNotAuthorizedError("create vehicle"))
	}

	var request CreateVehicleRequest
	if err := ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	kind, err := vehicle.KindFromString(request.Kind)
	if err != nil {
		return writeError(ctx, err)
	}
	location, err := kernel.NewGeoPoint(request.Longitude, request.Latitude)
	if err != nil {
		return writeError(ctx, err)
	}
	driverID, err := kernel.UUIDFromString(request.DriverID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCreateVehicleCommand(
		principal, kernel.NewUUID(), request.ExternalCode,
		kind, request.Capacity, location, driverID,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	created, err := s.createVehicleHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, vehicleToResponse(created))
}

// GetVehicles handles GET /api/v1/vehicles. Status and kind filters come as
// optional query parameters.
func (s *Server) GetVehicles(ctx echo.Context) error {
	status := vehicle.StatusUnknown
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, err := vehicle.StatusFromString(raw)
		if err != nil {
			return writeError(ctx, err)
		}
		status = parsed
	}

	kind := vehicle.KindUnknown
	if raw := ctx.QueryParam("kind"); raw != "" {
		parsed, err := vehicle.KindFromString(raw)
		if err != nil {
			return writeError(ctx, err)
		}
		kind = parsed
	}

	query, err := queries.NewGetVehiclesQuery(status, kind)
	if err != nil {
		return writeError(ctx, err)
	}

	rows, err := s.getVehiclesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]VehicleListItem, len(rows))
	for i, row := range rows {
		response[i] = vehicleRowToItem(row)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetNearestVehicles handles GET /api/v1/vehicles/nearest.
// Required parameters: longitude, latitude. Optional: limit (default 5),
// status, kind.
func (s *Server) GetNearestVehicles(ctx echo.Context) error {
	longitude, err := strconv.ParseFloat(ctx.QueryParam("longitude"), 64)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("longitude", err))
	}
	latitude, err := strconv.ParseFloat(ctx.QueryParam("latitude"), 64)
	if err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("latitude", err))
	}
	origin, err := kernel.NewGeoPoint(longitude, latitude)
	if err != nil {
		return writeError(ctx, err)
	}

	limit := 5
	if raw := ctx.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("limit", err))
		}
	}

	status := vehicle.StatusUnknown
	if raw := ctx.QueryParam("status"); raw != "" {
		status, err = vehicle.StatusFromString(raw)
		if err != nil {
			return writeError(ctx, err)
		}
	}
	kind := vehicle.KindUnknown
	if raw := ctx.QueryParam("kind"); raw != "" {
		kind, err = vehicle.KindFromString(raw)
		if err != nil {
			return writeError(ctx, err)
		}
	}

	query, err := queries.NewGetNearestVehiclesQuery(origin, limit, status, kind)
	if err != nil {
		return writeError(ctx, err)
	}

	rows, err := s.getNearestVehiclesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]NearestVehicleItem, len(rows))
	for i, row := range rows {
		response[i] = nearestRowToItem(row)
	}
	return ctx.JSON(http.StatusOK, response)
}

// UpdateVehicleStatus handles PATCH /api/v1/vehicles/:id/status.
func (s *Server) UpdateVehicleStatus(ctx echo.Context) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return writeError(ctx, errs.NewNotAuthorizedError("update vehicle status"))
	}

	vehicleID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var request UpdateStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}
	target, err := vehicle.StatusFromString(request.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateVehicleStatusCommand(
		principal, vehicleID, target, request.ExpectedVersion)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.updateVehicleStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, vehicleToResponse(updated))
}

// UpdateVehicleLocation handles PATCH /api/v1/vehicles/:id/location.
func (s *Server) UpdateVehicleLocation(ctx echo.Context) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return writeError(ctx, errs.NewNotAuthorizedError("update vehicle location"))
	}

	vehicleID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var request UpdateLocationRequest
	if err = ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}
	location, err := kernel.NewGeoPoint(request.Longitude, request.Latitude)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateVehicleLocationCommand(principal, vehicleID, location)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.updateVehicleLocationHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, vehicleToResponse(updated))
}

// DeactivateVehicle handles DELETE /api/v1/vehicles/:id.
func (s *Server) DeactivateVehicle(ctx echo.Context) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return writeError(ctx, errs.NewNotAuthorizedError("deactivate vehicle"))
	}

	vehicleID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewDeactivateVehicleCommand(principal, vehicleID)
	if err != nil {
		return writeError(ctx, err)
	}

	if _, err = s.deactivateVehicleHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CreateDelivery handles POST /api/v1/deliveries.
func (s *Server) CreateDelivery(ctx echo.Context) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return writeError(ctx, errs.NewNotAuthorizedError("create delivery"))
	}

	var request CreateDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	priority, err := delivery.PriorityFromString(request.Priority)
	if err != nil {
		return writeError(ctx, err)
	}
	pickup, err := waypointFromRequest(request.Pickup)
	if err != nil {
		return writeError(ctx, err)
	}
	dropoff, err := waypointFromRequest(request.Dropoff)
	if err != nil {
		return writeError(ctx, err)
	}
	customer, err := delivery.NewCustomer(
		request.Customer.Name, request.Customer.Phone, request.Customer.Email)
	if err != nil {
		return writeError(ctx, err)
	}
	vehicleID, err := kernel.UUIDFromString(request.VehicleID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCreateDeliveryCommand(
		principal, kernel.NewUUID(), request.TrackingNumber, priority,
		pickup, dropoff, customer, vehicleID,
		request.EstimatedPickupTime, request.EstimatedDeliveryTime, request.Notes,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	created, err := s.createDeliveryHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, deliveryToResponse(created))
}

// GetDeliveries handles GET /api/v1/deliveries with an optional status
// query parameter.
func (s *Server) GetDeliveries(ctx echo.Context) error {
	status := delivery.StatusUnknown
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, err := delivery.StatusFromString(raw)
		if err != nil {
			return writeError(ctx, err)
		}
		status = parsed
	}

	query, err := queries.NewGetDeliveriesQuery(status)
	if err != nil {
		return writeError(ctx, err)
	}

	rows, err := s.getDeliveriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]DeliveryListItem, len(rows))
	for i, row := range rows {
		response[i] = deliveryRowToItem(row)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetDeliveryByID handles GET /api/v1/deliveries/:id.
func (s *Server) GetDeliveryByID(ctx echo.Context) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return writeError(ctx, errs.NewNotAuthorizedError("read delivery"))
	}

	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	query, err := queries.NewGetDeliveryByIDQuery(principal, deliveryID)
	if err != nil {
		return writeError(ctx, err)
	}

	row, err := s.getDeliveryByIDHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, deliveryRowToDetail(row))
}

// UpdateDeliveryStatus handles PATCH /api/v1/deliveries/:id/status.
func (s *Server) UpdateDeliveryStatus(ctx echo.Context) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return writeError(ctx, errs.NewNotAuthorizedError("update delivery status"))
	}

	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var request UpdateStatusRequest
	if err = ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}
	target, err := delivery.StatusFromString(request.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateDeliveryStatusCommand(
		principal, deliveryID, target, request.ExpectedVersion)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.updateDeliveryStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, deliveryToResponse(updated))
}

// AttachProof handles POST /api/v1/deliveries/:id/proof.
func (s *Server) AttachProof(ctx echo.Context) error {
	principal, ok := currentPrincipal(ctx)
	if !ok {
		return writeError(ctx, errs.NewNotAuthorizedError("attach proof"))
	}

	deliveryID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return writeError(ctx, err)
	}

	var request AttachProofRequest
	if err = ctx.Bind(&request); err != nil {
		return writeError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	cmd, err := commands.NewAttachProofCommand(
		principal, deliveryID, request.Photo, request.Signature, request.ExpectedVersion)
	if err != nil {
		return writeError(ctx, err)
	}

	updated, err := s.attachProofHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, deliveryToResponse(updated))
}

func waypointFromRequest(request WaypointRequest) (delivery.Waypoint, error) {
	location, err := kernel.NewGeoPoint(request.Longitude, request.Latitude)
	if err != nil {
		return delivery.Waypoint{}, err
	}
	return delivery.NewWaypoint(request.Address, location)
}
