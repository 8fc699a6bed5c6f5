// Package routerepo provides data transfer objects and mapping functions for
// route persistence. Routes and their stops map to two tables joined by the
// route id.
package routerepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// RouteDTO represents the database structure for persisting route aggregates.
type RouteDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CourierID         *uuid.UUID `gorm:"type:uuid;index"`
	Capacity          int
	DeadlineSpreadSec int64
	Status            int `gorm:"index"`
	CreatedAt         time.Time
	CompletedAt       *time.Time

	Stops []RouteStopDTO `gorm:"foreignKey:RouteID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for route entities.
func (RouteDTO) TableName() string {
	return "routes"
}

// RouteStopDTO represents one stop of a route. An order appears on at most
// one route, enforced by the unique index.
type RouteStopDTO struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	RouteID  uuid.UUID `gorm:"type:uuid;index"`
	OrderID  uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Weight   int
	Deadline time.Time
}

// TableName specifies the database table name for route stop entities.
func (RouteStopDTO) TableName() string {
	return "route_stops"
}

func fromDomain(aggregate *route.Route) RouteDTO {
	var courierID *uuid.UUID
	if id := aggregate.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	stops := make([]RouteStopDTO, 0, len(aggregate.Stops()))
	for _, stop := range aggregate.Stops() {
		stops = append(stops, RouteStopDTO{
			RouteID:  aggregate.ID().Bytes(),
			OrderID:  stop.OrderID.Bytes(),
			Weight:   stop.Weight,
			Deadline: stop.Deadline,
		})
	}

	return RouteDTO{
		ID:                aggregate.ID().Bytes(),
		CourierID:         courierID,
		Capacity:          aggregate.Capacity(),
		DeadlineSpreadSec: int64(aggregate.DeadlineSpread().Seconds()),
		Status:            int(aggregate.Status()),
		CreatedAt:         aggregate.CreatedAt(),
		CompletedAt:       aggregate.CompletedAt(),
		Stops:             stops,
	}
}

func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	stops := make([]route.Stop, 0, len(dto.Stops))
	for _, stopDTO := range dto.Stops {
		orderID, stopErr := kernel.UUIDFromBytes(stopDTO.OrderID[:])
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, route.Stop{
			OrderID:  orderID,
			Weight:   stopDTO.Weight,
			Deadline: stopDTO.Deadline,
		})
	}

	return route.RestoreRoute(route.RestoreRouteParams{
		ID:             id,
		CourierID:      courierID,
		Capacity:       dto.Capacity,
		DeadlineSpread: time.Duration(dto.DeadlineSpreadSec) * time.Second,
		Stops:          stops,
		Status:         route.Status(dto.Status),
		CreatedAt:      dto.CreatedAt,
		CompletedAt:    dto.CompletedAt,
	})
}
