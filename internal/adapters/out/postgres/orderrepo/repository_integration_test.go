package orderrepo_test

import (
	"context"
	"strings"
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

// MockAggregateTracker stands in for the unit of work's tracker so the tests
// can assert which aggregates each write registers.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositorySuite exercises GormOrderRepository against a disposable
// PostgreSQL container: one container per suite, truncated tables and a fresh
// tracker per test.
type OrderRepositorySuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func TestOrderRepositorySuite(t *testing.T) {
	suite.Run(t, new(OrderRepositorySuite))
}

func (s *OrderRepositorySuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("fulfillment_test"),
		postgres.WithUsername("fulfillment"),
		postgres.WithPassword("fulfillment"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.ItemDTO{}))
}

func (s *OrderRepositorySuite) SetupTest() {
	s.Require().NoError(s.db.Exec("TRUNCATE TABLE orders, order_items").Error)

	s.tracker = new(MockAggregateTracker)
	s.repository = orderrepo.NewGormOrderRepository(s.db, s.tracker)
}

func (s *OrderRepositorySuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *OrderRepositorySuite) TestAddPersistsOrderAndItems() {
	ctx := context.Background()

	placed := s.placedOrder()
	s.tracker.On("TrackAggregate", placed.ID(), placed).Once()

	s.Require().NoError(s.repository.Add(ctx, placed))

	s.Equal(int64(1), s.rowCount(&orderrepo.OrderDTO{}))
	s.Equal(int64(len(placed.Items())), s.rowCount(&orderrepo.ItemDTO{}))
	s.tracker.AssertExpectations(s.T())
}

func (s *OrderRepositorySuite) TestAddRejectsUnconstructedAggregate() {
	ctx := context.Background()

	// A zero-value order never went through a factory method.
	err := s.repository.Add(ctx, &order.Order{})
	s.Require().Error(err)
	s.Contains(err.Error(), "constructor")

	s.Equal(int64(0), s.rowCount(&orderrepo.OrderDTO{}), "nothing may be written for a rejected aggregate")
	s.tracker.AssertExpectations(s.T())
}

func (s *OrderRepositorySuite) TestGetRoundTripsTheAggregate() {
	ctx := context.Background()

	placed := s.placedOrder()
	s.tracker.On("TrackAggregate", placed.ID(), placed).Once()
	s.Require().NoError(s.repository.Add(ctx, placed))

	got, err := s.repository.Get(ctx, placed.ID())
	s.Require().NoError(err)

	s.True(got.ID().IsEqual(placed.ID()))
	s.Equal(placed.Number(), got.Number())
	s.Equal(order.Placed, got.Status())
	s.Equal(order.PaymentModeOnline, got.PaymentMode())
	s.Equal(order.PaymentStatusPaid, got.PaymentStatus())
	s.Equal(placed.DeliveryOTP(), got.DeliveryOTP())
	s.Nil(got.Partner())
	s.Equal(1, got.Version())

	// Line items come back with the price that was locked at placement.
	s.Require().Len(got.Items(), len(placed.Items()))
	for i, restored := range got.Items() {
		want := placed.Items()[i]
		s.True(restored.IsEqual(want))
		s.Equal(want.Name(), restored.Name())
		s.Equal(want.UnitPrice().Amount(), restored.UnitPrice().Amount())
		s.Equal(want.Quantity(), restored.Quantity())
	}

	s.tracker.AssertExpectations(s.T())
}

func (s *OrderRepositorySuite) TestGetUnknownIDReportsNotFound() {
	got, err := s.repository.Get(context.Background(), kernel.NewUUID())

	s.Nil(got)
	var notFound *errs.ObjectNotFoundError
	s.Require().ErrorAs(err, &notFound)
	s.tracker.AssertExpectations(s.T())
}

func (s *OrderRepositorySuite) TestUpdatePersistsLifecycleChanges() {
	now := time.Now().UTC()
	partnerID := kernel.NewUUID()

	testCases := []struct {
		name   string
		setup  func() *order.Order
		mutate func(*order.Order)
		verify func(*order.Order)
	}{
		{
			name: "vendor confirms a placed order",
			setup: func() *order.Order {
				return s.placedOrder()
			},
			mutate: func(o *order.Order) {
				changed, err := o.TransitionTo(order.Confirmed, order.RoleVendor, now)
				s.Require().NoError(err)
				s.True(changed)
			},
			verify: func(o *order.Order) {
				s.Equal(order.Confirmed, o.Status())
				s.NotNil(o.Timestamps().ConfirmedAt)
			},
		},
		{
			name: "packed order goes out for delivery",
			setup: func() *order.Order {
				return s.restoredOrder(order.Packed, nil, now.Add(-time.Hour))
			},
			mutate: func(o *order.Order) {
				s.Require().NoError(o.AssignPartner(partnerID, now))
			},
			verify: func(o *order.Order) {
				s.Equal(order.OutForDelivery, o.Status())
				s.Require().NotNil(o.Partner())
				s.True(o.Partner().IsEqual(partnerID))
				s.NotNil(o.Timestamps().OutForDeliveryAt)
			},
		},
		{
			name: "delivery confirmed at the doorstep",
			setup: func() *order.Order {
				return s.restoredOrder(order.OutForDelivery, &partnerID, now.Add(-time.Hour))
			},
			mutate: func(o *order.Order) {
				changed, err := o.ConfirmDelivery(o.DeliveryOTP(), nil, now)
				s.Require().NoError(err)
				s.True(changed)
			},
			verify: func(o *order.Order) {
				s.Equal(order.Delivered, o.Status())
				s.NotNil(o.Timestamps().DeliveredAt)
			},
		},
		{
			name: "delivery fails at the doorstep",
			setup: func() *order.Order {
				return s.restoredOrder(order.OutForDelivery, &partnerID, now.Add(-time.Hour))
			},
			mutate: func(o *order.Order) {
				changed, err := o.FailDelivery(order.FailureCustomerNotAvailable, "rang twice", now)
				s.Require().NoError(err)
				s.True(changed)
			},
			verify: func(o *order.Order) {
				s.Equal(order.Cancelled, o.Status())
				s.Equal(order.FailureCustomerNotAvailable, o.FailureReason())
				s.Equal("customer_not_available: rang twice", o.CancellationReason())
				s.NotNil(o.Timestamps().CancelledAt)
			},
		},
	}

	ctx := context.Background()
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			o := tc.setup()
			s.tracker.On("TrackAggregate", o.ID(), o).Twice()

			s.Require().NoError(s.repository.Add(ctx, o))

			tc.mutate(o)
			s.Require().NoError(s.repository.Update(ctx, o))

			got, err := s.repository.Get(ctx, o.ID())
			s.Require().NoError(err)
			tc.verify(got)
			s.Equal(2, got.Version(), "every update advances the version")

			s.tracker.AssertExpectations(s.T())
		})
	}
}

func (s *OrderRepositorySuite) TestUpdateUnknownOrderHitsTheVersionGuard() {
	// The guarded write matches no row, so it is indistinguishable from a
	// stale version and rejected the same way.
	err := s.repository.Update(context.Background(), s.placedOrder())
	s.Require().ErrorIs(err, errs.ErrVersionIsInvalid)
	s.tracker.AssertExpectations(s.T())
}

func (s *OrderRepositorySuite) TestUpdateStaleVersionRejected() {
	ctx := context.Background()
	now := time.Now().UTC()

	placed := s.placedOrder()
	s.tracker.On("TrackAggregate", placed.ID(), placed).Twice()

	s.Require().NoError(s.repository.Add(ctx, placed))

	// First update advances the stored version to 2.
	changed, err := placed.TransitionTo(order.Confirmed, order.RoleVendor, now)
	s.Require().NoError(err)
	s.True(changed)
	s.Require().NoError(s.repository.Update(ctx, placed))

	// The in-memory aggregate still carries the version it was created with,
	// so the second write is stale.
	_, err = placed.TransitionTo(order.Picked, order.RoleVendor, now)
	s.Require().NoError(err)
	err = s.repository.Update(ctx, placed)
	s.Require().ErrorIs(err, errs.ErrVersionIsInvalid)

	// The first update's state is what persists.
	got, err := s.repository.Get(ctx, placed.ID())
	s.Require().NoError(err)
	s.Equal(order.Confirmed, got.Status())
	s.Equal(2, got.Version())

	s.tracker.AssertExpectations(s.T())
}

func (s *OrderRepositorySuite) TestPackedQueueIsOldestFirst() {
	ctx := context.Background()
	base := time.Now().UTC().Add(-2 * time.Hour)

	s.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(4)

	waitingLongest := s.restoredOrder(order.Packed, nil, base)
	waitingLess := s.restoredOrder(order.Packed, nil, base.Add(30*time.Minute))
	justPlaced := s.placedOrder()
	partnerID := kernel.NewUUID()
	onTheRoad := s.restoredOrder(order.OutForDelivery, &partnerID, base)

	for _, o := range []*order.Order{waitingLess, waitingLongest, justPlaced, onTheRoad} {
		s.Require().NoError(s.repository.Add(ctx, o))
	}

	next, err := s.repository.GetFirstInPackedStatus(ctx)
	s.Require().NoError(err)

	s.Equal(order.Packed, next.Status())
	s.True(next.ID().IsEqual(waitingLongest.ID()), "dispatch order is FIFO by packed_at")

	s.tracker.AssertExpectations(s.T())
}

func (s *OrderRepositorySuite) TestPackedQueueEmptyReportsNotFound() {
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	// Orders exist, but none of them sit in the dispatch queue.
	s.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(2)
	s.Require().NoError(s.repository.Add(ctx, s.placedOrder()))
	s.Require().NoError(s.repository.Add(ctx, s.restoredOrder(order.Confirmed, nil, base)))

	next, err := s.repository.GetFirstInPackedStatus(ctx)

	s.Nil(next)
	var notFound *errs.ObjectNotFoundError
	s.Require().ErrorAs(err, &notFound)
	s.tracker.AssertExpectations(s.T())
}

func (s *OrderRepositorySuite) TestFailureMessages() {
	testCases := []struct {
		name      string
		operation func() error
		expected  string
	}{
		{
			name: "get with a zero-value id",
			operation: func() error {
				_, err := s.repository.Get(context.Background(), kernel.UUID{})
				return err
			},
			expected: "required",
		},
		{
			name: "get an unknown order",
			operation: func() error {
				_, err := s.repository.Get(context.Background(), kernel.NewUUID())
				return err
			},
			expected: "not found",
		},
		{
			name: "update an unknown order",
			operation: func() error {
				return s.repository.Update(context.Background(), s.placedOrder())
			},
			expected: "version is invalid",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.operation()
			s.Require().Error(err)
			s.Contains(strings.ToLower(err.Error()), tc.expected)
			s.tracker.AssertExpectations(s.T())
		})
	}
}

func (s *OrderRepositorySuite) TestConcurrentReadsSeeTheSameOrder() {
	ctx := context.Background()

	placed := s.placedOrder()
	s.tracker.On("TrackAggregate", placed.ID(), placed).Once()
	s.Require().NoError(s.repository.Add(ctx, placed))

	type readResult struct {
		got *order.Order
		err error
	}
	results := make(chan readResult, 3)
	for range 3 {
		go func() {
			got, err := s.repository.Get(ctx, placed.ID())
			results <- readResult{got: got, err: err}
		}()
	}

	for range 3 {
		res := <-results
		s.Require().NoError(res.err)
		s.True(res.got.ID().IsEqual(placed.ID()))
	}

	s.tracker.AssertExpectations(s.T())
}

// placedOrder builds a single-item order straight out of placement, paid
// online.
func (s *OrderRepositorySuite) placedOrder() *order.Order {
	placedAt := time.Now().UTC()
	number, err := order.NewOrderNumber(placedAt)
	s.Require().NoError(err)
	otp, err := order.GenerateOTP()
	s.Require().NoError(err)
	price, err := kernel.NewMoney(9900, "INR")
	s.Require().NoError(err)
	item, err := order.NewItem(kernel.NewUUID(), "Basmati Rice 1kg", price, 1, false)
	s.Require().NoError(err)

	placed, err := order.NewOrder(
		kernel.NewUUID(), number, order.PaymentModeOnline, otp, []*order.Item{item}, placedAt)
	s.Require().NoError(err)
	return placed
}

// restoredOrder rebuilds an order as if loaded mid-lifecycle: sitting in the
// given status with every earlier stage stamped five minutes apart.
func (s *OrderRepositorySuite) restoredOrder(
	status order.Status, partnerID *kernel.UUID, placedAt time.Time,
) *order.Order {
	number, err := order.NewOrderNumber(placedAt)
	s.Require().NoError(err)
	otp, err := order.GenerateOTP()
	s.Require().NoError(err)
	price, err := kernel.NewMoney(9900, "INR")
	s.Require().NoError(err)
	item, err := order.NewItem(kernel.NewUUID(), "Basmati Rice 1kg", price, 1, false)
	s.Require().NoError(err)

	stamps := order.Timestamps{PlacedAt: placedAt}
	mark := placedAt
	next := func() *time.Time {
		mark = mark.Add(5 * time.Minute)
		stamp := mark
		return &stamp
	}

	switch status {
	case order.Delivered:
		stamps.ConfirmedAt, stamps.PickedAt, stamps.PackedAt = next(), next(), next()
		stamps.OutForDeliveryAt, stamps.DeliveredAt = next(), next()
	case order.OutForDelivery:
		stamps.ConfirmedAt, stamps.PickedAt, stamps.PackedAt = next(), next(), next()
		stamps.OutForDeliveryAt = next()
	case order.Packed:
		stamps.ConfirmedAt, stamps.PickedAt, stamps.PackedAt = next(), next(), next()
	case order.Picked:
		stamps.ConfirmedAt, stamps.PickedAt = next(), next()
	case order.Confirmed:
		stamps.ConfirmedAt = next()
	}

	restored, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:            kernel.NewUUID(),
		Number:        number,
		Status:        status,
		PaymentMode:   order.PaymentModeOnline,
		PaymentStatus: order.PaymentStatusPaid,
		PartnerID:     partnerID,
		DeliveryOTP:   otp,
		Items:         []*order.Item{item},
		Timestamps:    stamps,
		Version:       1,
	})
	s.Require().NoError(err)
	return restored
}

// rowCount counts the rows behind the given GORM model.
func (s *OrderRepositorySuite) rowCount(model any) int64 {
	var count int64
	s.Require().NoError(s.db.Model(model).Count(&count).Error)
	return count
}
