package cmd

import (
	"log/slog"

	httpadapter "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers. All construction
// happens here so the rest of the application stays free of wiring concerns.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	producer   *kafka.Producer
	logger     *slog.Logger
}

// NewCompositionRoot assembles the application object graph from its
// externally managed resources: the database handle, the Kafka producer and
// the process logger.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	producer *kafka.Producer,
	logger *slog.Logger,
) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		producer:   producer,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	var f commands.OrderUoWFactory = OrderUoWFactoryFunc(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPlaceOrderCommandHandler(f, c.producer)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	var f commands.UoWFactory = UoWFactoryFunc(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewTransitionOrderCommandHandler(f, c.producer, c.producer, c.config.ReturnWindow)
}

func (c *CompositionRoot) CreateAssignPartnerCommandHandler() commands.AssignPartnerCommandHandler {
	var f commands.UoWFactory = UoWFactoryFunc(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewAssignPartnerCommandHandler(f, c.producer)
}

func (c *CompositionRoot) CreateReassignPartnerCommandHandler() commands.ReassignPartnerCommandHandler {
	var f commands.UoWFactory = UoWFactoryFunc(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewReassignPartnerCommandHandler(f)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	var f commands.UoWFactory = UoWFactoryFunc(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewConfirmDeliveryCommandHandler(f, c.producer, c.producer)
}

func (c *CompositionRoot) CreateFailDeliveryCommandHandler() commands.FailDeliveryCommandHandler {
	var f commands.UoWFactory = UoWFactoryFunc(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewFailDeliveryCommandHandler(f, c.producer, c.producer)
}

func (c *CompositionRoot) CreateCreatePartnerCommandHandler() commands.CreatePartnerCommandHandler {
	var f commands.PartnerUoWFactory = PartnerUoWFactoryFunc(func() commands.PartnerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreatePartnerCommandHandler(f)
}

func (c *CompositionRoot) CreateSetPartnerStatusCommandHandler() commands.SetPartnerStatusCommandHandler {
	var f commands.PartnerUoWFactory = PartnerUoWFactoryFunc(func() commands.PartnerUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetPartnerStatusCommandHandler(f)
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() commands.DispatchOrderCommandHandler {
	var f commands.UoWFactory = UoWFactoryFunc(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchOrderCommandHandler(f, c.producer)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderTimelineQueryHandler() queries.GetOrderTimelineQueryHandler {
	return queries.NewGetOrderTimelineQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAllPartnersQueryHandler() queries.GetAllPartnersQueryHandler {
	return queries.NewGetAllPartnersQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the REST adapter over every command and query
// handler.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreatePlaceOrderCommandHandler(),
		c.CreateTransitionOrderCommandHandler(),
		c.CreateAssignPartnerCommandHandler(),
		c.CreateReassignPartnerCommandHandler(),
		c.CreateConfirmDeliveryCommandHandler(),
		c.CreateFailDeliveryCommandHandler(),
		c.CreateCreatePartnerCommandHandler(),
		c.CreateSetPartnerStatusCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetActiveOrdersQueryHandler(),
		c.CreateGetOrderTimelineQueryHandler(),
		c.CreateGetAllPartnersQueryHandler(),
		c.logger,
	)
}

// CreateJobManager assembles the background jobs over the dispatch handler.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateDispatchOrderCommandHandler(),
		c.config.DispatchInterval,
		c.logger,
	)
}

// The factory funcs below satisfy the scoped factory interfaces in commands
// with closures over the shared GormUnitOfWorkFactory.

type OrderUoWFactoryFunc func() commands.OrderUoW

func (f OrderUoWFactoryFunc) Create() commands.OrderUoW {
	return f()
}

type PartnerUoWFactoryFunc func() commands.PartnerUoW

func (f PartnerUoWFactoryFunc) Create() commands.PartnerUoW {
	return f()
}

type UoWFactoryFunc func() commands.UoW

func (f UoWFactoryFunc) Create() commands.UoW {
	return f()
}
