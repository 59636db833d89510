// Package partnerrepo persists the delivery partner aggregate. PartnerDTO
// gives the row shape, the repository gives the access paths, and the mapping
// functions translate between rows and the domain aggregate.
package partnerrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// PartnerDTO is the row shape of a delivery partner. The activation and
// availability flags are stored as plain booleans; the dispatch candidate
// query filters on both.
type PartnerDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Phone     string    `gorm:"type:varchar(32);not null"`
	Active    bool      `gorm:"not null"`
	Available bool      `gorm:"not null"`
}

// TableName pins the table to "partners".
func (PartnerDTO) TableName() string {
	return "partners"
}

// fromDomain flattens the aggregate into its row shape.
func fromDomain(partner *partner.DeliveryPartner) PartnerDTO {
	return PartnerDTO{
		ID:        partner.ID().Bytes(),
		Name:      partner.Name(),
		Phone:     partner.Phone(),
		Active:    partner.IsActive(),
		Available: partner.IsAvailable(),
	}
}

// toDomain rebuilds the aggregate from a row through RestoreDeliveryPartner,
// which re-validates the name and phone the row carries.
func toDomain(dto PartnerDTO) (*partner.DeliveryPartner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return partner.RestoreDeliveryPartner(id, dto.Name, dto.Phone, dto.Active, dto.Available)
}
