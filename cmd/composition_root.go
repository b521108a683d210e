package cmd

import (
	"fleet/internal/adapters/out/authz"
	"fleet/internal/adapters/out/postgres"
	"fleet/internal/core/application/usecases/commands"
	"fleet/internal/core/application/usecases/queries"
	"fleet/internal/core/domain/services"
	"fleet/internal/core/ports"
	"fleet/internal/pkg/eventbus"

	"log/slog"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	bus         *eventbus.Bus
	guard       ports.AuthorizationGuard
	coordinator services.AssignmentCoordinator
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	guard, err := authz.NewCasbinAuthorizationGuard()
	if err != nil {
		return CompositionRoot{}, err
	}

	bufferSize := configs.EventBufferSize
	if bufferSize <= 0 {
		bufferSize = eventbus.DefaultBufferSize
	}

	return CompositionRoot{
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		bus:         eventbus.NewBus(bufferSize, logger),
		guard:       guard,
		coordinator: services.NewAssignmentCoordinator(),
	}, nil
}

// EventBus exposes the feed so the websocket adapter can subscribe and the
// shutdown path can close it.
func (c *CompositionRoot) EventBus() *eventbus.Bus {
	return c.bus
}

func (c *CompositionRoot) CreateCreateVehicleCommandHandler() commands.CreateVehicleCommandHandler {
	var f commands.VehicleUoWFactory = FuncVehicleUoWFactory(func() commands.VehicleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateVehicleCommandHandler(f, c.guard)
}

func (c *CompositionRoot) CreateUpdateVehicleStatusCommandHandler() commands.UpdateVehicleStatusCommandHandler {
	var f commands.VehicleUoWFactory = FuncVehicleUoWFactory(func() commands.VehicleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateVehicleStatusCommandHandler(f, c.guard, c.bus)
}

func (c *CompositionRoot) CreateUpdateVehicleLocationCommandHandler() commands.UpdateVehicleLocationCommandHandler {
	var f commands.VehicleUoWFactory = FuncVehicleUoWFactory(func() commands.VehicleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateVehicleLocationCommandHandler(f, c.guard, c.bus)
}

func (c *CompositionRoot) CreateDeactivateVehicleCommandHandler() commands.DeactivateVehicleCommandHandler {
	var f commands.VehicleUoWFactory = FuncVehicleUoWFactory(func() commands.VehicleUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDeactivateVehicleCommandHandler(f, c.guard, c.bus)
}

func (c *CompositionRoot) CreateCreateDeliveryCommandHandler() commands.CreateDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateDeliveryCommandHandler(f, c.guard, c.bus, c.coordinator)
}

func (c *CompositionRoot) CreateUpdateDeliveryStatusCommandHandler() commands.UpdateDeliveryStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateDeliveryStatusCommandHandler(f, c.guard, c.bus, c.coordinator)
}

func (c *CompositionRoot) CreateAttachProofCommandHandler() commands.AttachProofCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAttachProofCommandHandler(f, c.guard, c.bus)
}

func (c *CompositionRoot) CreateReleaseOrphanedVehiclesCommandHandler() *commands.ReleaseOrphanedVehiclesCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	handler := commands.NewReleaseOrphanedVehiclesCommandHandler(f, c.bus)
	return &handler
}

func (c *CompositionRoot) CreateGetVehiclesQueryHandler() queries.GetVehiclesQueryHandler {
	return queries.NewGetVehiclesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveriesQueryHandler() queries.GetDeliveriesQueryHandler {
	return queries.NewGetDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryByIDQueryHandler() queries.GetDeliveryByIDQueryHandler {
	return queries.NewGetDeliveryByIDQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetNearestVehiclesQueryHandler() queries.GetNearestVehiclesQueryHandler {
	return queries.NewGetNearestVehiclesQueryHandler(c.gormDB)
}

type FuncVehicleUoWFactory func() commands.VehicleUoW

func (f FuncVehicleUoWFactory) Create() commands.VehicleUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
