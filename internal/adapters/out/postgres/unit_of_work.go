// Package postgres implements the persistence ports on GORM: a transactional
// unit of work plus the order and delivery partner repositories beneath it.
//
// Command handlers drive the lifecycle explicitly: Create a unit of work per
// command, Begin, write through the repositories it hands out, then Commit or
// Rollback. Assignment and delivery-outcome commands rely on this to move an
// order and a partner in one atomic step.
package postgres

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/partnerrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// TrackedAggregate is one aggregate written during a unit of work, recorded
// so callers can process everything the transaction touched after commit.
type TrackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory hands a fresh GormUnitOfWork to every command so
// concurrent commands never share transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory wraps the process-wide database handle. The
// handle itself is never used for writes directly; every write goes through
// a unit of work created here.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns an unstarted unit of work over the factory's database.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork binds the order and partner repositories to one database
// transaction. Repositories obtained before Begin operate on the bare
// connection; after Begin they share the transaction until Commit or
// Rollback closes it.
type GormUnitOfWork struct {
	db      *gorm.DB
	tx      *gorm.DB
	tracked []TrackedAggregate
}

// Begin opens the transaction. Calling Begin again while a transaction is
// open is a no-op rather than a nested transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	uow.tx = tx
	return nil
}

// Commit makes the transaction's writes permanent and closes it. Committing
// without an open transaction reports gorm.ErrInvalidTransaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction's writes and closes it. Rolling back
// without an open transaction reports gorm.ErrInvalidTransaction; handlers
// that rollback unconditionally in a defer ignore that result.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns the order repository bound to the open transaction,
// or to the bare connection when no transaction is open (reads only).
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// PartnerRepository returns the delivery partner repository, bound the same
// way as OrderRepository.
func (uow *GormUnitOfWork) PartnerRepository() ports.PartnerRepository {
	return partnerrepo.NewGormPartnerRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// TrackAggregate records an aggregate the repositories wrote. Repositories
// call this on every Add and Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.tracked = append(uow.tracked, TrackedAggregate{ID: id, Aggregate: aggregate})
}

// TrackedAggregates lists everything written through this unit of work, in
// write order. Meaningful after Commit; a rolled-back unit still reports the
// writes that were attempted.
func (uow *GormUnitOfWork) TrackedAggregates() []TrackedAggregate {
	return uow.tracked
}
