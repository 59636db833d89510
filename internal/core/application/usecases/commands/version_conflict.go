package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// resolveVersionConflict settles a rejected compare-and-swap write by
// re-reading the order and applying the idempotent-transition rule: if a
// concurrent writer already moved the order to the status we were after, the
// command succeeded from the caller's point of view and resolves to nil.
// Any other concurrent outcome is a lost race and surfaces as
// order.ErrInvalidTransition.
//
// Callers return the result without committing; the surrounding transaction
// holds no wanted changes once the CAS write was rejected.
func resolveVersionConflict(
	ctx context.Context,
	repo ports.OrderRepository,
	id kernel.UUID,
	target order.Status,
) error {
	fresh, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if fresh.Status() == target {
		return nil
	}

	return fmt.Errorf("%w: a concurrent update moved the order to %s",
		order.ErrInvalidTransition, fresh.Status())
}
