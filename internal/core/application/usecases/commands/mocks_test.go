package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Shared mocks for the command handler tests. Every handler works against the
// same port surface, so the repositories, units of work and collaborator
// ports are mocked once here.

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetFirstInPackedStatus(ctx context.Context) (*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockPartnerRepository struct{ mock.Mock }

func (m *MockPartnerRepository) Add(ctx context.Context, p *partner.DeliveryPartner) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartnerRepository) Update(ctx context.Context, p *partner.DeliveryPartner) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.DeliveryPartner), args.Error(1)
}

func (m *MockPartnerRepository) GetAllAvailable(ctx context.Context) ([]*partner.DeliveryPartner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.DeliveryPartner), args.Error(1)
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

func (m *MockUoW) PartnerRepository() ports.PartnerRepository {
	args := m.Called()
	return args.Get(0).(ports.PartnerRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPartnerUoWFactory struct{ mock.Mock }

func (m *MockPartnerUoWFactory) Create() commands.PartnerUoW {
	args := m.Called()
	return args.Get(0).(commands.PartnerUoW)
}

type MockStatusNotifier struct{ mock.Mock }

func (m *MockStatusNotifier) NotifyStatusChanged(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockStockReleaser struct{ mock.Mock }

func (m *MockStockReleaser) ReleaseStock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

// Shared fixtures.

const testOTP = "482913"

var testTime = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// testLines builds a priced two-line placement request.
func testLines(t *testing.T) []commands.OrderLine {
	t.Helper()

	return []commands.OrderLine{
		{
			ItemID:         kernel.NewUUID(),
			Name:           "Basmati Rice 5kg",
			UnitPriceMinor: 4550,
			Currency:       "INR",
			Quantity:       1,
			ReturnEligible: false,
		},
		{
			ItemID:         kernel.NewUUID(),
			Name:           "Bluetooth Speaker",
			UnitPriceMinor: 12999,
			Currency:       "INR",
			Quantity:       2,
			ReturnEligible: true,
		},
	}
}

// testItems builds the domain items backing test orders.
func testItems(t *testing.T) []*order.Item {
	t.Helper()

	price, err := kernel.NewMoney(4550, "INR")
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), "Basmati Rice 5kg", price, 1, false)
	require.NoError(t, err)

	return []*order.Item{item}
}

// testOrder builds a fresh online order in Placed status.
func testOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(
		kernel.NewUUID(), "QC-20240315-000001", order.PaymentModeOnline, testOTP, testItems(t), testTime,
	)
	require.NoError(t, err)
	return o
}

// testCODOrder builds a fresh cash-on-delivery order in Placed status.
func testCODOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(
		kernel.NewUUID(), "QC-20240315-000002", order.PaymentModeCashOnDelivery, testOTP, testItems(t), testTime,
	)
	require.NoError(t, err)
	return o
}

// advanceOrder walks an order along the vendor happy path to the given status.
// Packed is the furthest it goes; later statuses need a partner and belong to
// the individual tests.
func advanceOrder(t *testing.T, o *order.Order, status order.Status) {
	t.Helper()

	for _, step := range []order.Status{order.Confirmed, order.Picked, order.Packed} {
		if o.Status() == status {
			return
		}
		_, err := o.TransitionTo(step, order.RoleVendor, testTime.Add(time.Minute))
		require.NoError(t, err)
	}
	require.Equal(t, status, o.Status())
}

// outForDeliveryOrder builds an order carried by the given partner.
func outForDeliveryOrder(t *testing.T, o *order.Order, partnerID kernel.UUID) {
	t.Helper()

	advanceOrder(t, o, order.Packed)
	require.NoError(t, o.AssignPartner(partnerID, testTime.Add(10*time.Minute)))
}

// testPartner builds a fresh partner, active and available.
func testPartner(t *testing.T) *partner.DeliveryPartner {
	t.Helper()

	p, err := partner.NewDeliveryPartner(kernel.NewUUID(), "Ravi Kumar", "+919876543210")
	require.NoError(t, err)
	return p
}

// busyPartner builds a partner already carrying a delivery.
func busyPartner(t *testing.T) *partner.DeliveryPartner {
	t.Helper()

	p := testPartner(t)
	require.NoError(t, p.MarkBusy())
	return p
}
