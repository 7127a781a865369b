package cmd

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	publisher  commands.OrderEventPublisher
	logger     *slog.Logger
}

func NewCompositionRoot(
	gormDB *gorm.DB,
	publisher commands.OrderEventPublisher,
	logger *slog.Logger,
) CompositionRoot {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:  publisher,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCheckoutCommandHandler() commands.CheckoutCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewCheckoutCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateClaimOrderCommandHandler() commands.ClaimOrderCommandHandler {
	return commands.NewClaimOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateMarkPickedUpCommandHandler() commands.MarkPickedUpCommandHandler {
	return commands.NewMarkPickedUpCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateVerifyDeliveryCommandHandler() commands.VerifyDeliveryCommandHandler {
	return commands.NewVerifyDeliveryCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetVendorOrdersQueryHandler() queries.GetVendorOrdersQueryHandler {
	return queries.NewGetVendorOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetStaleOrdersQueryHandler() queries.GetStaleOrdersQueryHandler {
	return queries.NewGetStaleOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager(staleOrderThreshold time.Duration) *jobs.JobManager {
	return jobs.NewJobManager(c.CreateGetStaleOrdersQueryHandler(), staleOrderThreshold, c.logger)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

// noopPublisher is used when no Kafka broker is configured.
type noopPublisher struct{}

func (noopPublisher) PublishOrderStatusChanged(_ context.Context, _ *order.Order) error {
	return nil
}
