// Package commands holds the write side of the fulfillment application layer.
// Each command is a validated value constructed through its New* function, and
// each handler runs one business operation inside a unit of work: begin,
// mutate the aggregates, commit.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// The unit-of-work contracts below are deliberately narrower than
// ports.UnitOfWork: a handler states which aggregates it touches, and the
// composition root hands it a factory scoped to exactly those.
type (
	// TxManager is the transaction lifecycle shared by every unit flavor.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory exposes the order repository bound to the unit's transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// PartnerRepoFactory exposes the delivery partner repository bound to the unit's transaction.
	PartnerRepoFactory interface {
		PartnerRepository() ports.PartnerRepository
	}

	// OrderUoW is the unit of work for commands that touch only order
	// aggregates, such as placement and status transitions.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory hands out order-scoped units of work.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// PartnerUoW is the unit of work for commands that touch only delivery
	// partner aggregates, such as registration and flag changes.
	PartnerUoW interface {
		TxManager
		PartnerRepoFactory
	}

	// PartnerUoWFactory hands out partner-scoped units of work.
	PartnerUoWFactory interface {
		Create() PartnerUoW
	}

	// UoW is the unit of work for commands that move both aggregates in one
	// transaction: assignment, reassignment, delivery confirmation, and
	// failed-delivery reporting all pair an order change with a partner
	// release or hold.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orders := uow.OrderRepository()
	//   partners := uow.PartnerRepository()
	//   // ... load the order, hold or release the partner
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		PartnerRepoFactory
		OrderRepoFactory
	}

	// UoWFactory hands out cross-aggregate units of work.
	UoWFactory interface {
		Create() UoW
	}
)
