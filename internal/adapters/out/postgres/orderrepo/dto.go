// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Status and route assignment are indexed: the planner scans the ready pool
// by status and the analytics join goes through route_id.
type OrderDTO struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BuyerID              *uuid.UUID `gorm:"type:uuid;index"`
	RouteID              *uuid.UUID `gorm:"type:uuid;index"`
	PickupLat            float64
	PickupLng            float64
	DeliveryLat          float64
	DeliveryLng          float64
	ShippingPrice        float64
	DistanceKm           float64
	Status               int `gorm:"index"`
	CreatedAt            time.Time
	ReservationExpiresAt time.Time
	DeliveryDeadline     time.Time
	PaidAt               *time.Time
	PickedUpAt           *time.Time
	DeliveredAt          *time.Time

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one order line. Price and size are frozen copies
// of the catalog values at checkout time.
type OrderItemDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	ProductID uuid.UUID `gorm:"type:uuid"`
	StoreID   uuid.UUID `gorm:"type:uuid"`
	Quantity  int
	UnitPrice float64
	Size      int
}

// TableName specifies the database table name for order line entities.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var buyerID *uuid.UUID
	if id := aggregate.BuyerID(); id != nil {
		raw := id.Bytes()
		buyerID = &raw
	}
	var routeID *uuid.UUID
	if id := aggregate.RouteID(); id != nil {
		raw := id.Bytes()
		routeID = &raw
	}

	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			ProductID: item.ProductID().Bytes(),
			StoreID:   item.StoreID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
			Size:      int(item.Size()),
		})
	}

	return OrderDTO{
		ID:                   aggregate.ID().Bytes(),
		BuyerID:              buyerID,
		RouteID:              routeID,
		PickupLat:            aggregate.Pickup().Lat(),
		PickupLng:            aggregate.Pickup().Lng(),
		DeliveryLat:          aggregate.Delivery().Lat(),
		DeliveryLng:          aggregate.Delivery().Lng(),
		ShippingPrice:        aggregate.ShippingPrice(),
		DistanceKm:           aggregate.DistanceKm(),
		Status:               int(aggregate.Status()),
		CreatedAt:            aggregate.CreatedAt(),
		ReservationExpiresAt: aggregate.ReservationExpiresAt(),
		DeliveryDeadline:     aggregate.DeliveryDeadline(),
		PaidAt:               aggregate.PaidAt(),
		PickedUpAt:           aggregate.PickedUpAt(),
		DeliveredAt:          aggregate.DeliveredAt(),
		Items:                items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var buyerID *kernel.UUID
	if dto.BuyerID != nil {
		bID, buyerErr := kernel.UUIDFromBytes((*dto.BuyerID)[:])
		if buyerErr != nil {
			return nil, buyerErr
		}
		buyerID = &bID
	}
	var routeID *kernel.UUID
	if dto.RouteID != nil {
		rID, routeErr := kernel.UUIDFromBytes((*dto.RouteID)[:])
		if routeErr != nil {
			return nil, routeErr
		}
		routeID = &rID
	}

	pickup, err := kernel.NewGeoPoint(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return nil, err
	}
	delivery, err := kernel.NewGeoPoint(dto.DeliveryLat, dto.DeliveryLng)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:                   id,
		BuyerID:              buyerID,
		Items:                items,
		Pickup:               pickup,
		Delivery:             delivery,
		ShippingPrice:        dto.ShippingPrice,
		DistanceKm:           dto.DistanceKm,
		CreatedAt:            dto.CreatedAt,
		ReservationExpiresAt: dto.ReservationExpiresAt,
		DeliveryDeadline:     dto.DeliveryDeadline,
		PaidAt:               dto.PaidAt,
		PickedUpAt:           dto.PickedUpAt,
		DeliveredAt:          dto.DeliveredAt,
		Status:               order.Status(dto.Status),
		RouteID:              routeID,
	})
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}
	storeID, err := kernel.UUIDFromBytes(dto.StoreID[:])
	if err != nil {
		return order.Item{}, err
	}
	return order.NewItem(productID, storeID, dto.Quantity, dto.UnitPrice, kernel.ParcelSize(dto.Size))
}
