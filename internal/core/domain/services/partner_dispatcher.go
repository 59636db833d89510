package services

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
)

// ErrNoAvailablePartner is returned when no delivery partner can take the
// order: either none were provided, or every candidate is deactivated or
// already carrying a delivery.
var ErrNoAvailablePartner = errors.New("no available delivery partner")

// PartnerDispatcher is a domain service responsible for binding a packed
// order to a delivery partner and progressing it to out_for_delivery.
//
// Key responsibilities:
//   - Validating the order is ready for assignment
//   - Selecting an available partner from the candidates
//   - Keeping the partner's availability and the order's assignment in step
//
// Business rules:
//   - Only packed orders can be dispatched
//   - Only partners who are active and available are considered
//   - The chosen partner is marked busy and the order moves to
//     out_for_delivery as one unit; the caller persists both inside a
//     single transaction
//
// Example usage:
//
//	dispatcher := services.NewPartnerDispatcher()
//
//	assigned, err := dispatcher.Dispatch(packedOrder, partners, time.Now())
//	if errors.Is(err, services.ErrNoAvailablePartner) {
//	    // Nobody can take the order right now
//	    return
//	}
//	if err != nil {
//	    return err
//	}
//	// packedOrder is now out for delivery with assigned as its partner
type PartnerDispatcher struct{}

// NewPartnerDispatcher creates a new PartnerDispatcher instance.
func NewPartnerDispatcher() PartnerDispatcher {
	return PartnerDispatcher{}
}

// Dispatch selects an available partner for the order and executes the
// assignment workflow.
//
// Parameters:
//   - o: The order to dispatch (must be valid and packed)
//   - partners: Candidate delivery partners to consider
//   - now: The time recorded on the out_for_delivery transition
//
// Returns:
//   - *partner.DeliveryPartner: The partner now carrying the order
//   - error: ErrNoAvailablePartner if no candidate can take the order,
//     order.ErrOrderNotPacked if the order is not ready, or validation errors
func (d PartnerDispatcher) Dispatch(
	o *order.Order,
	partners []*partner.DeliveryPartner,
	now time.Time,
) (*partner.DeliveryPartner, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	if o.Status() != order.Packed {
		return nil, fmt.Errorf("%w: status is %s", order.ErrOrderNotPacked, o.Status())
	}

	candidate, err := d.findAvailablePartner(partners)
	if err != nil {
		return nil, err
	}

	if err = candidate.MarkBusy(); err != nil {
		return nil, err
	}

	if err = o.AssignPartner(candidate.ID(), now); err != nil {
		return nil, err
	}

	return candidate, nil
}

// findAvailablePartner returns the first candidate who can accept a delivery.
// Candidates are considered in the order given.
func (d PartnerDispatcher) findAvailablePartner(
	partners []*partner.DeliveryPartner,
) (*partner.DeliveryPartner, error) {
	for _, p := range partners {
		if err := p.Validate(); err != nil {
			return nil, err
		}

		if p.CanAcceptDelivery() {
			return p, nil
		}
	}

	return nil, ErrNoAvailablePartner
}
