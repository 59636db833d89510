package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per command so concurrent
// handlers never share transaction state.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork scopes repository writes to one database transaction. The
// lifecycle is explicit: the command handler calls Begin, does its work
// through the bound repositories, and settles with Commit or Rollback.
type UnitOfWork interface {
	// Begin opens a transaction. Calling it on a unit whose transaction is
	// already open is a no-op.
	Begin(ctx context.Context) error

	// Commit settles the open transaction. Fails when none is open.
	Commit(ctx context.Context) error

	// Rollback discards the open transaction. Fails when none is open.
	Rollback(ctx context.Context) error

	// OrderRepository returns an order repository bound to this unit's
	// transaction once Begin has run.
	OrderRepository() OrderRepository

	// PartnerRepository returns a partner repository bound to this unit's
	// transaction once Begin has run.
	PartnerRepository() PartnerRepository
}
