// Package catalogrepo reads the product catalog replica maintained by the
// catalog service. Fulfillment only needs the read path: price, size class,
// and the store's pickup coordinate, frozen onto the order at checkout.
package catalogrepo

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductDTO represents one row of the catalog replica.
type ProductDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StoreID   uuid.UUID `gorm:"type:uuid;index"`
	UnitPrice float64
	Size      int
	PickupLat float64
	PickupLng float64
}

// TableName specifies the database table name for catalog products.
func (ProductDTO) TableName() string {
	return "products"
}

// GormStoreCatalog implements ports.StoreCatalog over the catalog replica.
type GormStoreCatalog struct {
	db *gorm.DB
}

// NewGormStoreCatalog creates a catalog reader over the given connection.
func NewGormStoreCatalog(db *gorm.DB) *GormStoreCatalog {
	return &GormStoreCatalog{db: db}
}

// GetProducts resolves the given product identifiers. Fails with
// errs.ErrObjectNotFound when any id is missing from the replica.
func (c *GormStoreCatalog) GetProducts(
	ctx context.Context, ids []kernel.UUID,
) (map[kernel.UUID]ports.Product, error) {
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []ProductDTO
	if err := c.db.WithContext(ctx).Find(&dtos, "id IN ?", raw).Error; err != nil {
		return nil, err
	}

	products := make(map[kernel.UUID]ports.Product, len(dtos))
	for _, dto := range dtos {
		product, err := toProduct(dto)
		if err != nil {
			return nil, err
		}
		products[product.ProductID] = product
	}

	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, errs.NewObjectNotFoundError("product", id.String())
		}
	}
	return products, nil
}

func toProduct(dto ProductDTO) (ports.Product, error) {
	productID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Product{}, err
	}
	storeID, err := kernel.UUIDFromBytes(dto.StoreID[:])
	if err != nil {
		return ports.Product{}, err
	}
	pickup, err := kernel.NewGeoPoint(dto.PickupLat, dto.PickupLng)
	if err != nil {
		return ports.Product{}, err
	}

	return ports.Product{
		ProductID: productID,
		StoreID:   storeID,
		UnitPrice: dto.UnitPrice,
		Size:      kernel.ParcelSize(dto.Size),
		Pickup:    pickup,
	}, nil
}
