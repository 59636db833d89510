package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testReturnWindow = 48 * time.Hour

// deliveredOrder rehydrates an order delivered at the given instant, the way
// the repository would return it.
func deliveredOrder(t *testing.T, deliveredAt time.Time) *order.Order {
	t.Helper()

	partnerID := kernel.NewUUID()
	placedAt := deliveredAt.Add(-2 * time.Hour)

	o, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:            kernel.NewUUID(),
		Number:        "QC-20240315-000042",
		Status:        order.Delivered,
		PaymentMode:   order.PaymentModeOnline,
		PaymentStatus: order.PaymentStatusPaid,
		PartnerID:     &partnerID,
		DeliveryOTP:   testOTP,
		Items:         testItems(t),
		Timestamps: order.Timestamps{
			PlacedAt:    placedAt,
			DeliveredAt: &deliveredAt,
		},
		Version: 6,
	})
	require.NoError(t, err)
	return o
}

func TestTransitionOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t)
	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), "confirmed", "vendor", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockStatusNotifier)
	releaser := new(MockStockReleaser)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		notifier.On("NotifyStatusChanged", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, notifier, releaser, testReturnWindow)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	notifier.AssertExpectations(t)

	updated := orderRepo.Calls[1].Arguments[1].(*order.Order)
	assert.Equal(t, order.Confirmed, updated.Status())
	releaser.AssertNotCalled(t, "ReleaseStock")
}

func TestTransitionOrderCommandHandler_Handle_ReapplyIsNoOp(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t)
	advanceOrder(t, aggregate, order.Confirmed)

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), "confirmed", "vendor", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockStatusNotifier)
	releaser := new(MockStockReleaser)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, notifier, releaser, testReturnWindow)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "NotifyStatusChanged", mock.Anything, mock.Anything)
}

func TestTransitionOrderCommandHandler_Handle_Forbidden(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t)
	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), "confirmed", "buyer", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockStatusNotifier)
	releaser := new(MockStockReleaser)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, notifier, releaser, testReturnWindow)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrForbidden)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTransitionOrderCommandHandler_Handle_AlreadyTerminal(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t)
	_, err := aggregate.Cancel(order.RoleVendor, "out of stock", testTime)
	require.NoError(t, err)

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), "confirmed", "admin", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockStatusNotifier)
	releaser := new(MockStockReleaser)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, notifier, releaser, testReturnWindow)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrAlreadyTerminal)
}

func TestTransitionOrderCommandHandler_Handle_CancelReleasesStock(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t)
	advanceOrder(t, aggregate, order.Picked)

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), "cancelled", "vendor", "stock damaged")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockStatusNotifier)
	releaser := new(MockStockReleaser)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		notifier.On("NotifyStatusChanged", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		releaser.On("ReleaseStock", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, notifier, releaser, testReturnWindow)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	releaser.AssertExpectations(t)

	updated := orderRepo.Calls[1].Arguments[1].(*order.Order)
	assert.Equal(t, order.Cancelled, updated.Status())
	assert.Equal(t, "stock damaged", updated.CancellationReason())
}

func TestTransitionOrderCommandHandler_Handle_MidFlightCancelFreesPartner(t *testing.T) {
	ctx := t.Context()
	carrier := busyPartner(t)
	aggregate := testOrder(t)
	outForDeliveryOrder(t, aggregate, carrier.ID())

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), "cancelled", "admin", "vendor closed")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	partnerRepo := new(MockPartnerRepository)
	uow := new(MockUoW)
	notifier := new(MockStatusNotifier)
	releaser := new(MockStockReleaser)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("PartnerRepository").Return(partnerRepo).Once(),
		partnerRepo.On("Get", ctx, carrier.ID()).Return(carrier, nil).Once(),
		partnerRepo.On("Update", ctx, mock.AnythingOfType("*partner.DeliveryPartner")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		notifier.On("NotifyStatusChanged", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		releaser.On("ReleaseStock", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, notifier, releaser, testReturnWindow)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	partnerRepo.AssertExpectations(t)
	assert.True(t, carrier.IsAvailable(), "partner must be freed when the delivery is cancelled")
}

func TestTransitionOrderCommandHandler_Handle_VersionConflictSameTarget(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t)

	winner := testOrder(t)
	advanceOrder(t, winner, order.Confirmed)

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), "confirmed", "vendor", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockStatusNotifier)
	releaser := new(MockStockReleaser)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).
			Return(errs.NewVersionIsInvalidError("version")).
			Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(winner, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, notifier, releaser, testReturnWindow)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err, "losing the race to the same status is a success")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	notifier.AssertNotCalled(t, "NotifyStatusChanged", mock.Anything, mock.Anything)
}

func TestTransitionOrderCommandHandler_Handle_VersionConflictDifferentTarget(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t)

	winner := testOrder(t)
	_, err := winner.Cancel(order.RoleVendor, "out of stock", testTime)
	require.NoError(t, err)

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), "confirmed", "vendor", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockStatusNotifier)
	releaser := new(MockStockReleaser)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).
			Return(errs.NewVersionIsInvalidError("version")).
			Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(winner, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, notifier, releaser, testReturnWindow)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrInvalidTransition)
}

func TestTransitionOrderCommandHandler_Handle_ReturnWithinWindow(t *testing.T) {
	ctx := t.Context()
	aggregate := deliveredOrder(t, time.Now().UTC().Add(-2*time.Hour))

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), "returned", "admin", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockStatusNotifier)
	releaser := new(MockStockReleaser)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		notifier.On("NotifyStatusChanged", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, notifier, releaser, testReturnWindow)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	updated := orderRepo.Calls[1].Arguments[1].(*order.Order)
	assert.Equal(t, order.Returned, updated.Status())
	require.NotNil(t, updated.Timestamps().ReturnedAt)
}

func TestTransitionOrderCommandHandler_Handle_ReturnWindowExpired(t *testing.T) {
	ctx := t.Context()
	aggregate := deliveredOrder(t, time.Now().UTC().Add(-testReturnWindow-time.Hour))

	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), "returned", "admin", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockStatusNotifier)
	releaser := new(MockStockReleaser)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, notifier, releaser, testReturnWindow)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrPreconditionFailed)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	assert.Equal(t, order.Delivered, aggregate.Status())
}

func TestTransitionOrderCommandHandler_Handle_GetError(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	cmd, err := commands.NewTransitionOrderCommand(orderID, "confirmed", "vendor", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockStatusNotifier)
	releaser := new(MockStockReleaser)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("orderID", orderID)).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, notifier, releaser, testReturnWindow)
	err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestTransitionOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t)
	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), "confirmed", "vendor", "")
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	notifier := new(MockStatusNotifier)
	releaser := new(MockStockReleaser)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewTransitionOrderCommandHandler(factory, notifier, releaser, testReturnWindow)
	err = handler.Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
	notifier.AssertNotCalled(t, "NotifyStatusChanged", mock.Anything, mock.Anything)
}
