package kafka_test

import (
	"encoding/json"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatusChangedEvent_FreshOrder_UsesPlacementTime(t *testing.T) {
	placedAt := time.Date(2025, 8, 15, 10, 30, 0, 0, time.UTC)
	aggregate := newPlacedOrder(t, placedAt)

	event := kafka.NewStatusChangedEvent(aggregate)

	assert.Equal(t, aggregate.ID().String(), event.OrderID)
	assert.Equal(t, aggregate.Number(), event.OrderNumber)
	assert.Equal(t, "placed", event.Status)
	assert.Equal(t, placedAt, event.OccurredAt)
}

func TestNewStatusChangedEvent_DeliveredOrder_UsesDeliveryTime(t *testing.T) {
	placedAt := time.Date(2025, 8, 15, 10, 30, 0, 0, time.UTC)
	deliveredAt := placedAt.Add(45 * time.Minute)
	aggregate := restoreDeliveredOrder(t, placedAt, deliveredAt)

	event := kafka.NewStatusChangedEvent(aggregate)

	assert.Equal(t, "delivered", event.Status)
	assert.Equal(t, deliveredAt, event.OccurredAt)
}

func TestNewStockReleaseEvent_CarriesAllLines(t *testing.T) {
	placedAt := time.Date(2025, 8, 15, 10, 30, 0, 0, time.UTC)
	aggregate := newPlacedOrder(t, placedAt)

	_, err := aggregate.Cancel(order.RoleBuyer, "ordered twice", placedAt.Add(time.Minute))
	require.NoError(t, err)

	event := kafka.NewStockReleaseEvent(aggregate)

	assert.Equal(t, aggregate.ID().String(), event.OrderID)
	require.Len(t, event.Items, 2)

	quantitiesByID := make(map[string]int)
	for _, line := range event.Items {
		quantitiesByID[line.ItemID] = line.Quantity
	}
	for _, item := range aggregate.Items() {
		assert.Equal(t, item.Quantity(), quantitiesByID[item.ID().String()])
	}

	assert.Equal(t, *aggregate.Timestamps().CancelledAt, event.OccurredAt)
}

func TestStatusChangedEvent_WireShape(t *testing.T) {
	placedAt := time.Date(2025, 8, 15, 10, 30, 0, 0, time.UTC)
	event := kafka.NewStatusChangedEvent(newPlacedOrder(t, placedAt))

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))

	assert.Contains(t, payload, "order_id")
	assert.Contains(t, payload, "order_number")
	assert.Contains(t, payload, "status")
	assert.Contains(t, payload, "occurred_at")
	assert.Equal(t, "placed", payload["status"])
}

func TestStockReleaseEvent_WireShape(t *testing.T) {
	placedAt := time.Date(2025, 8, 15, 10, 30, 0, 0, time.UTC)
	event := kafka.NewStockReleaseEvent(newPlacedOrder(t, placedAt))

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))

	assert.Contains(t, payload, "order_id")
	assert.Contains(t, payload, "order_number")
	assert.Contains(t, payload, "items")
	assert.Contains(t, payload, "occurred_at")

	lines, ok := payload["items"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 2)
	first, ok := lines[0].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, first, "item_id")
	assert.Contains(t, first, "quantity")
}

func newPlacedOrder(t *testing.T, placedAt time.Time) *order.Order {
	t.Helper()

	number, err := order.NewOrderNumber(placedAt)
	require.NoError(t, err)
	otp, err := order.GenerateOTP()
	require.NoError(t, err)

	milkPrice, err := kernel.NewMoney(3200, "INR")
	require.NoError(t, err)
	milk, err := order.NewItem(kernel.NewUUID(), "Toned Milk 1L", milkPrice, 2, false)
	require.NoError(t, err)

	honeyPrice, err := kernel.NewMoney(21500, "INR")
	require.NoError(t, err)
	honey, err := order.NewItem(kernel.NewUUID(), "Wild Honey 350g", honeyPrice, 1, true)
	require.NoError(t, err)

	aggregate, err := order.NewOrder(
		kernel.NewUUID(), number, order.PaymentModeOnline, otp,
		[]*order.Item{milk, honey}, placedAt,
	)
	require.NoError(t, err)
	return aggregate
}

func restoreDeliveredOrder(t *testing.T, placedAt, deliveredAt time.Time) *order.Order {
	t.Helper()

	number, err := order.NewOrderNumber(placedAt)
	require.NoError(t, err)
	otp, err := order.GenerateOTP()
	require.NoError(t, err)
	price, err := kernel.NewMoney(9900, "INR")
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), "Basmati Rice 1kg", price, 1, false)
	require.NoError(t, err)

	confirmedAt := placedAt.Add(5 * time.Minute)
	pickedAt := placedAt.Add(10 * time.Minute)
	packedAt := placedAt.Add(15 * time.Minute)
	outForDeliveryAt := placedAt.Add(20 * time.Minute)

	aggregate, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:            kernel.NewUUID(),
		Number:        number,
		Status:        order.Delivered,
		PaymentMode:   order.PaymentModeOnline,
		PaymentStatus: order.PaymentStatusPaid,
		DeliveryOTP:   otp,
		Items:         []*order.Item{item},
		Timestamps: order.Timestamps{
			PlacedAt:         placedAt,
			ConfirmedAt:      &confirmedAt,
			PickedAt:         &pickedAt,
			PackedAt:         &packedAt,
			OutForDeliveryAt: &outForDeliveryAt,
			DeliveredAt:      &deliveredAt,
		},
		Version: 1,
	})
	require.NoError(t, err)
	return aggregate
}
