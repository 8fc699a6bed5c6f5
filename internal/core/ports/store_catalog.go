package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
)

// Product is the catalog's view of one sellable item: where it is picked up,
// what it costs, and its parcel size class.
type Product struct {
	ProductID kernel.UUID
	StoreID   kernel.UUID
	UnitPrice float64
	Size      kernel.ParcelSize
	Pickup    kernel.GeoPoint
}

// StoreCatalog resolves product identifiers against the marketplace catalog.
// The catalog is owned by another service; only the read path is needed here.
type StoreCatalog interface {
	// GetProducts resolves the given product identifiers. A product missing
	// from the catalog fails the call with errs.ErrObjectNotFound.
	GetProducts(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]Product, error)
}
