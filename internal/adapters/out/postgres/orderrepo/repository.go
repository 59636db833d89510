package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// aggregateTracker receives every aggregate this repository writes so the
// owning unit of work can report the batch after commit.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormOrderRepository persists order aggregates through GORM. Reads hydrate
// the whole aggregate, line items included; writes register the aggregate
// with the unit of work's tracker.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormOrderRepository binds the repository to a connection (or an open
// transaction) and to the tracker of the owning unit of work.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a freshly placed order together with its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes an order back under an optimistic lock. The row is touched
// only while the stored version still matches the one the aggregate was
// loaded with, and the version advances by one in the same statement. A
// rejected write surfaces as a version error so the caller can re-read and
// decide whether the concurrent outcome already satisfies it.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	loadedVersion := dto.Version
	dto.Version = loadedVersion + 1

	// Line items are immutable after placement; only the order row is written.
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Omit("Items").
		Where("id = ? AND version = ?", dto.ID, loadedVersion).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("order version")
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get loads one order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return r.findOne(ctx, id.String(), func(q *gorm.DB, dto *OrderDTO) error {
		return q.First(dto, "id = ?", id.Bytes()).Error
	})
}

// GetFirstInPackedStatus loads the order that has been waiting for a delivery
// partner the longest: the packed order with the oldest packed_at.
func (r *GormOrderRepository) GetFirstInPackedStatus(ctx context.Context) (*order.Order, error) {
	return r.findOne(ctx, "first in packed status", func(q *gorm.DB, dto *OrderDTO) error {
		return q.Order("packed_at").First(dto, "status = ?", order.Packed.String()).Error
	})
}

// findOne runs a single-row query with line items preloaded and maps the hit
// back to the domain. A miss is reported as an object-not-found error carrying
// the given lookup description.
func (r *GormOrderRepository) findOne(
	ctx context.Context,
	lookup string,
	query func(q *gorm.DB, dto *OrderDTO) error,
) (*order.Order, error) {
	var dto OrderDTO
	if err := query(r.db.WithContext(ctx).Preload("Items"), &dto); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", lookup)
		}
		return nil, err
	}

	return toDomain(dto)
}
