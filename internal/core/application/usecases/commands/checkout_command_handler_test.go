package commands_test

import (
	"context"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Add(ctx context.Context, p *product.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Get(ctx context.Context, id kernel.UUID) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) Reserve(ctx context.Context, id kernel.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) Release(ctx context.Context, id kernel.UUID, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
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

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ProductRepository() ports.ProductRepository {
	args := m.Called()
	return args.Get(0).(ports.ProductRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

func makeCatalogProduct(
	t *testing.T, vendorID kernel.UUID, name string, price int64, stock int,
) *product.Product {
	t.Helper()

	p, err := product.NewProduct(kernel.NewUUID(), vendorID, name, price, stock)
	require.NoError(t, err)
	return p
}

func TestCheckoutCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	vendorID := kernel.NewUUID()
	headphones := makeCatalogProduct(t, vendorID, "Aura Headphones", 29900, 10)
	watch := makeCatalogProduct(t, vendorID, "Aura Smartwatch", 19900, 5)

	cmd, err := commands.NewCheckoutCommand(customerID, []commands.CheckoutItem{
		{ProductID: headphones.ID(), Quantity: 1},
		{ProductID: watch.ID(), Quantity: 2},
	}, "12 Harbor Lane")
	require.NoError(t, err)

	productRepo := new(MockProductRepository)
	productRepo.On("Get", mock.Anything, headphones.ID()).Return(headphones, nil).Once()
	productRepo.On("Get", mock.Anything, watch.ID()).Return(watch, nil).Once()
	productRepo.On("Reserve", mock.Anything, headphones.ID(), 1).Return(nil).Once()
	productRepo.On("Reserve", mock.Anything, watch.ID(), 2).Return(nil).Once()

	orderRepo := new(MockOrderRepository)
	orderRepo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ProductRepository").Return(productRepo)
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	publisher := new(MockOrderEventPublisher)
	publisher.On("PublishOrderStatusChanged", mock.Anything, mock.AnythingOfType("*order.Order")).
		Return(nil).Once()

	h := commands.NewCheckoutCommandHandler(factory, publisher)
	created, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, created.Customer().IsEqual(customerID))
	assert.True(t, created.Vendor().IsEqual(vendorID))
	assert.Equal(t, int64(29900+2*19900), created.TotalAmount())
	assert.Len(t, created.Code().String(), kernel.DeliveryCodeLength)
	require.Len(t, created.Lines(), 2)
	assert.Equal(t, "Aura Headphones", created.Lines()[0].Name())

	productRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCheckoutCommandHandler_Handle_InsufficientStockReleasesReservedLines(t *testing.T) {
	ctx := t.Context()
	vendorID := kernel.NewUUID()
	first := makeCatalogProduct(t, vendorID, "Aura Headphones", 29900, 10)
	second := makeCatalogProduct(t, vendorID, "Aura Smartwatch", 19900, 1)

	cmd, err := commands.NewCheckoutCommand(kernel.NewUUID(), []commands.CheckoutItem{
		{ProductID: first.ID(), Quantity: 1},
		{ProductID: second.ID(), Quantity: 3},
	}, "12 Harbor Lane")
	require.NoError(t, err)

	// Reservation walks the lines in product ID order; whichever line fails,
	// every line reserved before it must be released again.
	firstWins := first.ID().String() < second.ID().String()

	productRepo := new(MockProductRepository)
	productRepo.On("Get", mock.Anything, first.ID()).Return(first, nil).Once()
	productRepo.On("Get", mock.Anything, second.ID()).Return(second, nil).Once()
	if firstWins {
		mock.InOrder(
			productRepo.On("Reserve", mock.Anything, first.ID(), 1).Return(nil).Once(),
			productRepo.On("Reserve", mock.Anything, second.ID(), 3).
				Return(product.ErrInsufficientStock).Once(),
			productRepo.On("Release", mock.Anything, first.ID(), 1).Return(nil).Once(),
		)
	} else {
		productRepo.On("Reserve", mock.Anything, second.ID(), 3).
			Return(product.ErrInsufficientStock).Once()
	}

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ProductRepository").Return(productRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCheckoutCommandHandler(factory, new(MockOrderEventPublisher))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, product.ErrInsufficientStock)
	productRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCheckoutCommandHandler_Handle_MultiVendorCartTouchesNoStock(t *testing.T) {
	ctx := t.Context()
	first := makeCatalogProduct(t, kernel.NewUUID(), "Aura Headphones", 29900, 10)
	second := makeCatalogProduct(t, kernel.NewUUID(), "Rival Speaker", 9900, 10)

	cmd, err := commands.NewCheckoutCommand(kernel.NewUUID(), []commands.CheckoutItem{
		{ProductID: first.ID(), Quantity: 1},
		{ProductID: second.ID(), Quantity: 1},
	}, "12 Harbor Lane")
	require.NoError(t, err)

	productRepo := new(MockProductRepository)
	productRepo.On("Get", mock.Anything, first.ID()).Return(first, nil).Once()
	productRepo.On("Get", mock.Anything, second.ID()).Return(second, nil).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ProductRepository").Return(productRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCheckoutCommandHandler(factory, new(MockOrderEventPublisher))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, services.ErrMultiVendorCart)
	productRepo.AssertExpectations(t)
	productRepo.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutCommandHandler_Handle_ProductNotFound(t *testing.T) {
	ctx := t.Context()
	productID := kernel.NewUUID()

	cmd, err := commands.NewCheckoutCommand(kernel.NewUUID(), []commands.CheckoutItem{
		{ProductID: productID, Quantity: 1},
	}, "12 Harbor Lane")
	require.NoError(t, err)

	productRepo := new(MockProductRepository)
	productRepo.On("Get", mock.Anything, productID).
		Return(nil, errs.NewObjectNotFoundError("product", productID)).Once()

	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ProductRepository").Return(productRepo)
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCheckoutCommandHandler(factory, new(MockOrderEventPublisher))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestCheckoutCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	cmd := commands.CheckoutCommand{} // not constructed properly
	h := commands.NewCheckoutCommandHandler(new(MockUoWFactory), new(MockOrderEventPublisher))
	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
}
