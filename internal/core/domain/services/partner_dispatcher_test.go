package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dispatchTime = time.Date(2024, 3, 15, 11, 0, 0, 0, time.UTC)

func TestPartnerDispatcher_Dispatch(t *testing.T) {
	t.Run("should assign the first available partner and move the order out for delivery", func(t *testing.T) {
		testOrder := packedOrder(t)

		busy := newTestPartner(t, "Busy")
		require.NoError(t, busy.MarkBusy())
		free := newTestPartner(t, "Free")
		alsoFree := newTestPartner(t, "AlsoFree")

		dispatcher := services.NewPartnerDispatcher()

		result, err := dispatcher.Dispatch(testOrder, []*partner.DeliveryPartner{busy, free, alsoFree}, dispatchTime)

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.True(t, result.IsEqual(free), "should skip the busy partner")
		assert.False(t, result.IsAvailable(), "assigned partner must be marked busy")

		assert.Equal(t, order.OutForDelivery, testOrder.Status())
		require.NotNil(t, testOrder.Partner())
		assert.True(t, testOrder.Partner().IsEqual(free.ID()))
		require.NotNil(t, testOrder.Timestamps().OutForDeliveryAt)
		assert.Equal(t, dispatchTime, *testOrder.Timestamps().OutForDeliveryAt)
	})

	t.Run("should skip deactivated partners", func(t *testing.T) {
		testOrder := packedOrder(t)

		suspended := newTestPartner(t, "Suspended")
		suspended.SetActive(false)
		active := newTestPartner(t, "Active")

		dispatcher := services.NewPartnerDispatcher()

		result, err := dispatcher.Dispatch(testOrder, []*partner.DeliveryPartner{suspended, active}, dispatchTime)

		require.NoError(t, err)
		assert.True(t, result.IsEqual(active))
	})

	t.Run("should return error when no partners provided", func(t *testing.T) {
		testOrder := packedOrder(t)
		dispatcher := services.NewPartnerDispatcher()

		result, err := dispatcher.Dispatch(testOrder, nil, dispatchTime)

		require.Error(t, err)
		assert.Nil(t, result)
		require.ErrorIs(t, err, services.ErrNoAvailablePartner)
		assert.Equal(t, order.Packed, testOrder.Status()) // Should remain unchanged
	})

	t.Run("should return error when every partner is busy", func(t *testing.T) {
		testOrder := packedOrder(t)

		p1 := newTestPartner(t, "P1")
		require.NoError(t, p1.MarkBusy())
		p2 := newTestPartner(t, "P2")
		require.NoError(t, p2.MarkBusy())

		dispatcher := services.NewPartnerDispatcher()

		result, err := dispatcher.Dispatch(testOrder, []*partner.DeliveryPartner{p1, p2}, dispatchTime)

		require.Error(t, err)
		assert.Nil(t, result)
		require.ErrorIs(t, err, services.ErrNoAvailablePartner)
		assert.Equal(t, order.Packed, testOrder.Status()) // Should remain unchanged
	})

	t.Run("should return error when the order is not packed", func(t *testing.T) {
		testOrder := placedTestOrder(t)
		free := newTestPartner(t, "Free")

		dispatcher := services.NewPartnerDispatcher()

		result, err := dispatcher.Dispatch(testOrder, []*partner.DeliveryPartner{free}, dispatchTime)

		require.Error(t, err)
		assert.Nil(t, result)
		require.ErrorIs(t, err, order.ErrOrderNotPacked)
		assert.True(t, free.IsAvailable(), "no partner should be marked busy")
		assert.Equal(t, order.Placed, testOrder.Status()) // Should remain unchanged
	})

	t.Run("should return error when order is invalid", func(t *testing.T) {
		var invalidOrder *order.Order
		free := newTestPartner(t, "Free")

		dispatcher := services.NewPartnerDispatcher()

		result, err := dispatcher.Dispatch(invalidOrder, []*partner.DeliveryPartner{free}, dispatchTime)

		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, order.ErrOrderIsNotConstructed, err)
	})

	t.Run("should return error when the partner slice contains an invalid partner", func(t *testing.T) {
		testOrder := packedOrder(t)

		var invalidPartner partner.DeliveryPartner
		valid := newTestPartner(t, "Valid")

		dispatcher := services.NewPartnerDispatcher()

		result, err := dispatcher.Dispatch(testOrder, []*partner.DeliveryPartner{&invalidPartner, valid}, dispatchTime)

		require.Error(t, err)
		assert.Nil(t, result)
		require.ErrorIs(t, err, partner.ErrPartnerIsNotConstructed)
		assert.Equal(t, order.Packed, testOrder.Status()) // Should remain unchanged
	})
}

// placedTestOrder builds a freshly placed order.
func placedTestOrder(t *testing.T) *order.Order {
	t.Helper()

	price, err := kernel.NewMoney(4550, "INR")
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), "Basmati Rice 5kg", price, 1, false)
	require.NoError(t, err)

	placedAt := dispatchTime.Add(-time.Hour)
	number, err := order.NewOrderNumber(placedAt)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), number, order.PaymentModeOnline, "482913",
		[]*order.Item{item}, placedAt)
	require.NoError(t, err)
	return o
}

// packedOrder builds an order carried along the happy path to packed.
func packedOrder(t *testing.T) *order.Order {
	t.Helper()

	o := placedTestOrder(t)
	for _, step := range []order.Status{order.Confirmed, order.Picked, order.Packed} {
		_, err := o.TransitionTo(step, order.RoleVendor, dispatchTime.Add(-30*time.Minute))
		require.NoError(t, err)
	}
	return o
}

func newTestPartner(t *testing.T, name string) *partner.DeliveryPartner {
	t.Helper()
	p, err := partner.NewDeliveryPartner(kernel.NewUUID(), name, "+919876543210")
	require.NoError(t, err)
	return p
}
