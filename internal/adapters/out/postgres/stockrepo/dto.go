// Package stockrepo persists stock levels and reservation aggregates.
// Stock adjustments take a row lock on the product's stock level, so
// concurrent checkouts of the same product serialize instead of overselling.
package stockrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/stock"

	"github.com/google/uuid"
)

// StockLevelDTO represents the available quantity of one product.
type StockLevelDTO struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Available int
}

// TableName specifies the database table name for stock levels.
func (StockLevelDTO) TableName() string {
	return "stock_levels"
}

// ReservationDTO represents the database structure for persisting
// reservation aggregates. The sweep scans by status and expiry, hence the
// composite index.
type ReservationDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	ProductID uuid.UUID `gorm:"type:uuid"`
	Quantity  int
	Status    int       `gorm:"index:idx_reservations_sweep"`
	ExpiresAt time.Time `gorm:"index:idx_reservations_sweep"`
	CreatedAt time.Time
}

// TableName specifies the database table name for reservations.
func (ReservationDTO) TableName() string {
	return "reservations"
}

func fromDomain(aggregate *stock.Reservation) ReservationDTO {
	return ReservationDTO{
		ID:        aggregate.ID().Bytes(),
		OrderID:   aggregate.OrderID().Bytes(),
		ProductID: aggregate.ProductID().Bytes(),
		Quantity:  aggregate.Quantity(),
		Status:    int(aggregate.Status()),
		ExpiresAt: aggregate.ExpiresAt(),
		CreatedAt: aggregate.CreatedAt(),
	}
}

func toDomain(dto ReservationDTO) (*stock.Reservation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return nil, err
	}

	return stock.RestoreReservation(
		id, orderID, productID, dto.Quantity,
		stock.ReservationStatus(dto.Status), dto.CreatedAt, dto.ExpiresAt)
}
