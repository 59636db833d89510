package partnerrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// aggregateTracker receives every aggregate this repository writes so the
// owning unit of work can report the batch after commit.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormPartnerRepository persists delivery partner aggregates through GORM.
// The partner row is flat, so reads need no preloading; writes register the
// aggregate with the unit of work's tracker.
type GormPartnerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// NewGormPartnerRepository binds the repository to a connection (or an open
// transaction) and to the tracker of the owning unit of work.
func NewGormPartnerRepository(db *gorm.DB, tracker aggregateTracker) *GormPartnerRepository {
	return &GormPartnerRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a newly registered delivery partner.
func (r *GormPartnerRepository) Add(ctx context.Context, aggregate *partner.DeliveryPartner) error {
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

// Update writes a delivery partner back to its row.
func (r *GormPartnerRepository) Update(ctx context.Context, aggregate *partner.DeliveryPartner) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	// Save writes every column, so the activation and availability flags can
	// transition back to false.
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get loads one delivery partner by ID.
func (r *GormPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.DeliveryPartner, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PartnerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("partner", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable loads every partner eligible to take a delivery right now:
// active and not currently carrying an order. Deactivated partners stay out
// of the result even when their availability flag is still set.
//
// Example:
//
//	candidates, err := repo.GetAllAvailable(ctx)
//	if err != nil {
//		return fmt.Errorf("failed to get available partners: %w", err)
//	}
//	for _, p := range candidates {
//		fmt.Printf("Available partner: %s\n", p.Name())
//	}
func (r *GormPartnerRepository) GetAllAvailable(ctx context.Context) ([]*partner.DeliveryPartner, error) {
	var dtos []PartnerDTO
	if err := r.db.WithContext(ctx).
		Find(&dtos, "active = ? AND available = ?", true, true).Error; err != nil {
		return nil, err
	}

	partners := make([]*partner.DeliveryPartner, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}

	return partners, nil
}
