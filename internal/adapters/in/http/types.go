package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
)

// PlaceOrderItemRequest is one line of an order placement request. Prices
// arrive in the currency's minor units, already locked by the checkout.
type PlaceOrderItemRequest struct {
	ItemID         string `json:"item_id"`
	Name           string `json:"name"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	Currency       string `json:"currency"`
	Quantity       int    `json:"quantity"`
	ReturnEligible bool   `json:"return_eligible"`
}

// PlaceOrderRequest is the body of POST /api/v1/orders.
type PlaceOrderRequest struct {
	PaymentMode string                  `json:"payment_mode"`
	Items       []PlaceOrderItemRequest `json:"items"`
}

// TransitionOrderRequest is the body of POST /api/v1/orders/:orderID/transition.
type TransitionOrderRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// AssignmentRequest is the body of the assignment and reassignment calls.
type AssignmentRequest struct {
	PartnerID string `json:"partner_id"`
}

// ConfirmDeliveryRequest is the body of POST /api/v1/orders/:orderID/delivery/confirm.
// CODCollected is required for cash-on-delivery orders and ignored otherwise.
type ConfirmDeliveryRequest struct {
	OTP          string `json:"otp"`
	CODCollected *bool  `json:"cod_collected"`
}

// FailDeliveryRequest is the body of POST /api/v1/orders/:orderID/delivery/fail.
type FailDeliveryRequest struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// NewPartnerRequest is the body of POST /api/v1/partners.
type NewPartnerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// PartnerStatusRequest is the body of PATCH /api/v1/partners/:partnerID/status.
// Nil flags are left untouched.
type PartnerStatusRequest struct {
	Active    *bool `json:"active"`
	Available *bool `json:"available"`
}

// PlacedOrderResponse is returned to the buyer right after placement. It is
// the one place the API hands out the delivery confirmation code: the buyer
// reads it out to the partner at the door.
type PlacedOrderResponse struct {
	ID          string `json:"id"`
	Number      string `json:"number,omitempty"`
	Status      string `json:"status,omitempty"`
	DeliveryOTP string `json:"delivery_otp,omitempty"`
}

// ActiveOrderResponse is one row of the active-orders dashboard feed.
type ActiveOrderResponse struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	PartnerID *string   `json:"partner_id"`
	PlacedAt  time.Time `json:"placed_at"`
}

// OrderItemResponse is one order line in the full order read model.
type OrderItemResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	UnitPriceMinor int64  `json:"unit_price_minor"`
	Currency       string `json:"currency"`
	Quantity       int    `json:"quantity"`
	ReturnEligible bool   `json:"return_eligible"`
}

// OrderResponse is the full order read model. DeliveryOTP is populated only
// on buyer reads; timestamps the order has not reached are omitted.
type OrderResponse struct {
	ID                 string              `json:"id"`
	Number             string              `json:"number"`
	Status             string              `json:"status"`
	PaymentMode        string              `json:"payment_mode"`
	PaymentStatus      string              `json:"payment_status"`
	PartnerID          *string             `json:"partner_id"`
	DeliveryOTP        string              `json:"delivery_otp,omitempty"`
	CancellationReason string              `json:"cancellation_reason,omitempty"`
	FailureReason      string              `json:"failure_reason,omitempty"`
	Items              []OrderItemResponse `json:"items"`

	PlacedAt         time.Time  `json:"placed_at"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	PickedAt         *time.Time `json:"picked_at,omitempty"`
	PackedAt         *time.Time `json:"packed_at,omitempty"`
	OutForDeliveryAt *time.Time `json:"out_for_delivery_at,omitempty"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	ReturnedAt       *time.Time `json:"returned_at,omitempty"`
}

// TimelineStepResponse is one entry of the order progress view.
type TimelineStepResponse struct {
	Status    string     `json:"status"`
	Label     string     `json:"label"`
	State     string     `json:"state"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

// TimelineResponse is the body of GET /api/v1/orders/:orderID/timeline.
type TimelineResponse struct {
	OrderID string                 `json:"order_id"`
	Number  string                 `json:"number"`
	Steps   []TimelineStepResponse `json:"steps"`
}

// PartnerResponse is one row of the delivery partner directory listing.
type PartnerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Active    bool   `json:"active"`
	Available bool   `json:"available"`
}

// CreatedPartnerResponse is the body returned after partner registration.
type CreatedPartnerResponse struct {
	ID string `json:"id"`
}

func toActiveOrderResponse(result queries.GetActiveOrdersQueryResponse) ActiveOrderResponse {
	response := ActiveOrderResponse{
		ID:       result.ID.String(),
		Number:   result.Number,
		Status:   result.Status,
		PlacedAt: result.PlacedAt,
	}

	if result.PartnerID != nil {
		partnerID := result.PartnerID.String()
		response.PartnerID = &partnerID
	}

	return response
}

func toOrderResponse(result *queries.GetOrderQueryResponse) OrderResponse {
	items := make([]OrderItemResponse, len(result.Items))
	for i, item := range result.Items {
		items[i] = OrderItemResponse{
			ID:             item.ID.String(),
			Name:           item.Name,
			UnitPriceMinor: item.Price.Amount(),
			Currency:       item.Price.Currency(),
			Quantity:       item.Quantity,
			ReturnEligible: item.ReturnEligible,
		}
	}

	response := OrderResponse{
		ID:                 result.ID.String(),
		Number:             result.Number,
		Status:             result.Status,
		PaymentMode:        result.PaymentMode,
		PaymentStatus:      result.PaymentStatus,
		DeliveryOTP:        result.DeliveryOTP,
		CancellationReason: result.CancellationReason,
		FailureReason:      result.FailureReason,
		Items:              items,
		PlacedAt:           result.PlacedAt,
		ConfirmedAt:        result.ConfirmedAt,
		PickedAt:           result.PickedAt,
		PackedAt:           result.PackedAt,
		OutForDeliveryAt:   result.OutForDeliveryAt,
		DeliveredAt:        result.DeliveredAt,
		CancelledAt:        result.CancelledAt,
		ReturnedAt:         result.ReturnedAt,
	}

	if result.PartnerID != nil {
		partnerID := result.PartnerID.String()
		response.PartnerID = &partnerID
	}

	return response
}

func toTimelineResponse(result *queries.GetOrderTimelineQueryResponse) TimelineResponse {
	steps := make([]TimelineStepResponse, len(result.Steps))
	for i, step := range result.Steps {
		steps[i] = TimelineStepResponse{
			Status:    step.Status.String(),
			Label:     step.Label,
			State:     string(step.State),
			Timestamp: step.Timestamp,
			Reason:    step.Reason,
		}
	}

	return TimelineResponse{
		OrderID: result.OrderID.String(),
		Number:  result.Number,
		Steps:   steps,
	}
}
