package stockrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/stock"
	"marketplace/internal/core/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements StockRepository using GORM.
type GormStockRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormStockRepository creates a new GORM stock repository.
func NewGormStockRepository(db *gorm.DB, tracker aggregateTracker) *GormStockRepository {
	return &GormStockRepository{
		db:      db,
		tracker: tracker,
	}
}

// Reserve atomically decrements available stock and persists the holds.
// Each product's stock row is locked before the check, so two checkouts
// racing for the last unit serialize and the slower one fails.
func (r *GormStockRepository) Reserve(
	ctx context.Context, reservations []*stock.Reservation,
) error {
	for _, reservation := range reservations {
		if err := reservation.Validate(); err != nil {
			return err
		}
	}

	for _, reservation := range reservations {
		if err := r.decrement(ctx, reservation); err != nil {
			return err
		}

		dto := fromDomain(reservation)
		if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
			return err
		}
		r.tracker.TrackAggregate(reservation.ID(), reservation)
	}

	return nil
}

// Update saves an existing reservation to the database.
func (r *GormStockRepository) Update(ctx context.Context, aggregate *stock.Reservation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&ReservationDTO{}).Where("id = ?", dto.ID).
		Select("status").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetByOrder retrieves all reservations held for an order.
func (r *GormStockRepository) GetByOrder(
	ctx context.Context, orderID kernel.UUID,
) ([]*stock.Reservation, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ReservationDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetExpired retrieves held reservations whose expiry instant has passed,
// oldest first, up to limit. Rows are locked and already-locked rows are
// skipped, so overlapping sweep runs divide the backlog instead of blocking.
func (r *GormStockRepository) GetExpired(
	ctx context.Context, now time.Time, limit int,
) ([]*stock.Reservation, error) {
	var dtos []ReservationDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ? AND expires_at < ?", int(stock.ReservationHeld), now).
		Order("expires_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// Restock atomically adds the reservation's quantity back to available stock.
func (r *GormStockRepository) Restock(ctx context.Context, aggregate *stock.Reservation) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&StockLevelDTO{}).
		Where("product_id = ?", aggregate.ProductID().Bytes()).
		UpdateColumn("available", gorm.Expr("available + ?", aggregate.Quantity()))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// decrement locks the product's stock row, checks coverage, and subtracts
// the held quantity.
func (r *GormStockRepository) decrement(ctx context.Context, reservation *stock.Reservation) error {
	productID := reservation.ProductID().Bytes()

	var level StockLevelDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&level, "product_id = ?", productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: product %s has no stock record",
				ports.ErrInsufficientStock, productID)
		}
		return err
	}

	if level.Available < reservation.Quantity() {
		return fmt.Errorf("%w: product %s has %d, want %d",
			ports.ErrInsufficientStock, productID,
			level.Available, reservation.Quantity())
	}

	return r.db.WithContext(ctx).Model(&StockLevelDTO{}).
		Where("product_id = ?", productID).
		UpdateColumn("available", gorm.Expr("available - ?", reservation.Quantity())).Error
}

func toDomainSlice(dtos []ReservationDTO) ([]*stock.Reservation, error) {
	reservations := make([]*stock.Reservation, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, aggregate)
	}
	return reservations, nil
}
