package cmd

import (
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config      Config
	gormDB      *gorm.DB
	uowFactory  postgres.GormUnitOfWorkFactory
	catalog     ports.StoreCatalog
	publisher   ports.OrderEventPublisher
	idempotency ports.IdempotencyStore
	tariff      services.Tariff
	planner     services.RoutePlanner
}

func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	publisher ports.OrderEventPublisher,
	idempotency ports.IdempotencyStore,
) (CompositionRoot, error) {
	planner, err := services.NewRoutePlanner(services.PlannerConfig{
		RouteCapacity:   config.RouteCapacity,
		ClusterRadiusKm: config.ClusterRadiusKm,
		DeadlineSpread:  config.RouteDeadlineSpread,
	})
	if err != nil {
		return CompositionRoot{}, err
	}

	return CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog:     catalogrepo.NewGormStoreCatalog(gormDB),
		publisher:   publisher,
		idempotency: idempotency,
		tariff:      services.DefaultTariff(),
		planner:     planner,
	}, nil
}

func (c *CompositionRoot) Config() Config {
	return c.config
}

func (c *CompositionRoot) IdempotencyStore() ports.IdempotencyStore {
	return c.idempotency
}

func (c *CompositionRoot) CreateCheckoutCommandHandler() commands.CheckoutCommandHandler {
	var f commands.OrderStockUoWFactory = FuncOrderStockUoWFactory(func() commands.OrderStockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCheckoutCommandHandler(
		f, c.catalog, c.tariff, c.publisher, c.config.ReservationTTL, c.config.DeliverySLA)
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	var f commands.OrderStockUoWFactory = FuncOrderStockUoWFactory(func() commands.OrderStockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmPaymentCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderStockUoWFactory = FuncOrderStockUoWFactory(func() commands.OrderStockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateExpireReservationsCommandHandler() commands.ExpireReservationsCommandHandler {
	var f commands.OrderStockUoWFactory = FuncOrderStockUoWFactory(func() commands.OrderStockUoW {
		return c.uowFactory.Create()
	})
	return commands.NewExpireReservationsCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateAssignRoutesCommandHandler() commands.AssignRoutesCommandHandler {
	var f commands.OrderRouteUoWFactory = FuncOrderRouteUoWFactory(func() commands.OrderRouteUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignRoutesCommandHandler(f, c.planner)
}

func (c *CompositionRoot) CreateAcceptRouteCommandHandler() commands.AcceptRouteCommandHandler {
	var f commands.RouteUoWFactory = FuncRouteUoWFactory(func() commands.RouteUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAcceptRouteCommandHandler(f)
}

func (c *CompositionRoot) CreateReportProgressCommandHandler() commands.ReportProgressCommandHandler {
	var f commands.OrderRouteUoWFactory = FuncOrderRouteUoWFactory(func() commands.OrderRouteUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReportProgressCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateGetAssignableRoutesQueryHandler() queries.GetAssignableRoutesQueryHandler {
	return queries.NewGetAssignableRoutesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierSummaryQueryHandler() queries.GetCourierSummaryQueryHandler {
	return queries.NewGetCourierSummaryQueryHandler(c.gormDB)
}

type FuncOrderStockUoWFactory func() commands.OrderStockUoW

func (f FuncOrderStockUoWFactory) Create() commands.OrderStockUoW {
	return f()
}

type FuncOrderRouteUoWFactory func() commands.OrderRouteUoW

func (f FuncOrderRouteUoWFactory) Create() commands.OrderRouteUoW {
	return f()
}

type FuncRouteUoWFactory func() commands.RouteUoW

func (f FuncRouteUoWFactory) Create() commands.RouteUoW {
	return f()
}
