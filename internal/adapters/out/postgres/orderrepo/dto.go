// Package orderrepo persists the order aggregate. OrderDTO and ItemDTO give
// the relational shape, the repository gives the access paths, and the
// mapping functions translate between rows and the domain aggregate.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row shape of an order, indexed for the two hot lookups:
// status (the dispatch queue) and partner assignment. Statuses, payment
// fields and failure reasons are stored under their canonical string names so
// that reporting queries stay readable without a lookup table.
type OrderDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number             string     `gorm:"type:varchar(32);not null;uniqueIndex"`
	Status             string     `gorm:"type:varchar(32);not null;index"`
	PaymentMode        string     `gorm:"type:varchar(32);not null"`
	PaymentStatus      string     `gorm:"type:varchar(32);not null"`
	PartnerID          *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryOTP        string     `gorm:"type:varchar(16);not null"`
	CancellationReason string     `gorm:"type:text"`
	FailureReason      string     `gorm:"type:varchar(64)"`
	Items              []ItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PlacedAt           time.Time  `gorm:"not null"`
	ConfirmedAt        *time.Time
	PickedAt           *time.Time
	PackedAt           *time.Time `gorm:"index"`
	OutForDeliveryAt   *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	ReturnedAt         *time.Time
	Version            int `gorm:"not null"`
}

// TableName pins the table to "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is the row shape of one order line. It links to the owning order
// via foreign key, and its primary key is composite because the same catalog
// item may appear on many orders.
type ItemDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Name           string    `gorm:"type:varchar(255);not null"`
	PriceAmount    int64     `gorm:"not null"`
	PriceCurrency  string    `gorm:"type:varchar(3);not null"`
	Quantity       int       `gorm:"type:int;not null"`
	ReturnEligible bool      `gorm:"not null"`
}

// TableName pins the table to "order_items".
func (ItemDTO) TableName() string {
	return "order_items"
}

// fromDomain flattens the aggregate into its row shape: item lines, optional
// partner reference and the full set of lifecycle timestamps included.
func fromDomain(order *order.Order) OrderDTO {
	orderID := order.ID().Bytes()

	var partnerID *uuid.UUID
	if id := order.Partner(); id != nil {
		raw := id.Bytes()
		partnerID = &raw
	}

	items := make([]ItemDTO, 0, len(order.Items()))
	for _, item := range order.Items() {
		items = append(items, ItemDTO{
			ID:             item.ID().Bytes(),
			OrderID:        orderID,
			Name:           item.Name(),
			PriceAmount:    item.UnitPrice().Amount(),
			PriceCurrency:  item.UnitPrice().Currency(),
			Quantity:       item.Quantity(),
			ReturnEligible: item.ReturnEligible(),
		})
	}

	stamps := order.Timestamps()

	return OrderDTO{
		ID:                 orderID,
		Number:             order.Number(),
		Status:             order.Status().String(),
		PaymentMode:        order.PaymentMode().String(),
		PaymentStatus:      order.PaymentStatus().String(),
		PartnerID:          partnerID,
		DeliveryOTP:        order.DeliveryOTP(),
		CancellationReason: order.CancellationReason(),
		FailureReason:      order.FailureReason().String(),
		Items:              items,
		PlacedAt:           stamps.PlacedAt,
		ConfirmedAt:        stamps.ConfirmedAt,
		PickedAt:           stamps.PickedAt,
		PackedAt:           stamps.PackedAt,
		OutForDeliveryAt:   stamps.OutForDeliveryAt,
		DeliveredAt:        stamps.DeliveredAt,
		CancelledAt:        stamps.CancelledAt,
		ReturnedAt:         stamps.ReturnedAt,
		Version:            order.Version(),
	}
}

// toDomain rebuilds the aggregate from a row through RestoreOrder, which
// re-validates everything the row carries.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.PartnerID != nil {
		pID, partnerErr := kernel.UUIDFromBytes((*dto.PartnerID)[:])
		if partnerErr != nil {
			return nil, partnerErr
		}

		partnerID = &pID
	}

	status, err := order.NormalizeStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	paymentMode, err := order.ParsePaymentMode(dto.PaymentMode)
	if err != nil {
		return nil, err
	}

	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		item, itemErr := itemToDomain(itemDto)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:            id,
		Number:        dto.Number,
		Status:        status,
		PaymentMode:   paymentMode,
		PaymentStatus: paymentStatus,
		PartnerID:     partnerID,
		DeliveryOTP:   dto.DeliveryOTP,
		Items:         items,
		Timestamps: order.Timestamps{
			PlacedAt:         dto.PlacedAt,
			ConfirmedAt:      dto.ConfirmedAt,
			PickedAt:         dto.PickedAt,
			PackedAt:         dto.PackedAt,
			OutForDeliveryAt: dto.OutForDeliveryAt,
			DeliveredAt:      dto.DeliveredAt,
			CancelledAt:      dto.CancelledAt,
			ReturnedAt:       dto.ReturnedAt,
		},
		CancellationReason: dto.CancellationReason,
		FailureReason:      order.FailureReason(dto.FailureReason),
		Version:            dto.Version,
	})
}

// itemToDomain converts a line item DTO to a domain entity.
// Rebuilds the locked unit price from its stored amount and currency.
func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	unitPrice, err := kernel.NewMoney(dto.PriceAmount, dto.PriceCurrency)
	if err != nil {
		return nil, err
	}

	return order.NewItem(id, dto.Name, unitPrice, dto.Quantity, dto.ReturnEligible)
}
