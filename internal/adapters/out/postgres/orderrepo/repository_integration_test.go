package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
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

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderLineDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders CASCADE").Error)
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE order_lines").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	line1, err := order.NewLine(kernel.NewUUID(), "Aura Headphones", 29900, 1)
	suite.Require().NoError(err)
	line2, err := order.NewLine(kernel.NewUUID(), "Aura Smartwatch", 19900, 2)
	suite.Require().NoError(err)

	code, err := kernel.DeliveryCodeFromString("4821")
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		[]order.Line{line1, line2},
		"12 Harbor Lane",
		code,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.True(restored.ID().IsEqual(testOrder.ID()))
	suite.True(restored.Customer().IsEqual(testOrder.Customer()))
	suite.True(restored.Vendor().IsEqual(testOrder.Vendor()))
	suite.Equal(order.Paid, restored.Status())
	suite.Nil(restored.Rider())
	suite.Equal(testOrder.TotalAmount(), restored.TotalAmount())
	suite.Equal("12 Harbor Lane", restored.DeliveryAddress())
	suite.Equal("4821", restored.Code().String())

	// Lines come back in cart order with their snapshot values intact.
	suite.Require().Len(restored.Lines(), 2)
	suite.Equal("Aura Headphones", restored.Lines()[0].Name())
	suite.Equal(int64(29900), restored.Lines()[0].UnitPrice())
	suite.Equal("Aura Smartwatch", restored.Lines()[1].Name())
	suite.Equal(2, restored.Lines()[1].Quantity())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NotFound() {
	ctx := context.Background()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateInStatus_PersistsClaim() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	riderID := kernel.NewUUID()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.Claim(riderID))
	suite.Require().NoError(suite.repository.UpdateInStatus(ctx, testOrder, order.Paid))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, restored.Status())
	suite.Require().NotNil(restored.Rider())
	suite.True(restored.Rider().IsEqual(riderID))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateInStatus_GuardMissReturnsConflict() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// First rider wins the claim.
	winner := suite.loadOrder(testOrder.ID())
	suite.Require().NoError(winner.Claim(kernel.NewUUID()))
	suite.Require().NoError(suite.repository.UpdateInStatus(ctx, winner, order.Paid))

	// Second rider read the same paid order; its guarded write must miss.
	loser := testOrder
	suite.Require().NoError(loser.Claim(kernel.NewUUID()))
	err := suite.repository.UpdateInStatus(ctx, loser, order.Paid)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, errs.ErrConflict)

	// The winner's rider is still on the row.
	restored := suite.loadOrder(testOrder.ID())
	suite.Require().NotNil(restored.Rider())
	suite.True(restored.Rider().IsEqual(*winner.Rider()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateInStatus_FullLifecycle() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	riderID := kernel.NewUUID()

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.Claim(riderID))
	suite.Require().NoError(suite.repository.UpdateInStatus(ctx, testOrder, order.Paid))

	suite.Require().NoError(testOrder.MarkPickedUp(riderID))
	suite.Require().NoError(suite.repository.UpdateInStatus(ctx, testOrder, order.Assigned))

	suite.Require().NoError(testOrder.VerifyDelivery(riderID, "4821"))
	suite.Require().NoError(suite.repository.UpdateInStatus(ctx, testOrder, order.PickedUp))

	restored := suite.loadOrder(testOrder.ID())
	suite.Equal(order.Delivered, restored.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) loadOrder(id kernel.UUID) *order.Order {
	o, err := suite.repository.Get(context.Background(), id)
	suite.Require().NoError(err)
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
