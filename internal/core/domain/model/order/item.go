package order

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item was not created through NewItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one order line: a quantity of a single product sold by a single
// store, priced at checkout time and classified into a parcel size tier.
// Item is an immutable value object.
type Item struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	storeID   kernel.UUID
	quantity  int
	unitPrice float64
	size      kernel.ParcelSize

	guard guard.ConstructorGuard
}

// NewItem creates an order line with validation.
// Quantity must be positive, unit price non-negative, and the parcel size a
// defined class.
func NewItem(
	productID kernel.UUID,
	storeID kernel.UUID,
	quantity int,
	unitPrice float64,
	size kernel.ParcelSize,
) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setStoreID(storeID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
		item.setSize(size),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the Item was created through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ProductID returns the product reference.
func (i Item) ProductID() kernel.UUID {
	return i.productID
}

// StoreID returns the selling store reference.
func (i Item) StoreID() kernel.UUID {
	return i.storeID
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the per-unit price frozen at checkout.
func (i Item) UnitPrice() float64 {
	return i.unitPrice
}

// Size returns the item's parcel size class.
func (i Item) Size() kernel.ParcelSize {
	return i.size
}

// LineTotal returns quantity times unit price.
func (i Item) LineTotal() float64 {
	return float64(i.quantity) * i.unitPrice
}

// MaxItemSize returns the largest parcel size class among the items.
// The order as a whole is classified by its bulkiest item.
func MaxItemSize(items []Item) (kernel.ParcelSize, error) {
	sizes := make([]kernel.ParcelSize, 0, len(items))
	for _, item := range items {
		sizes = append(sizes, item.Size())
	}
	return kernel.MaxParcelSize(sizes)
}

func (i *Item) setProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.productID = id
	return nil
}

func (i *Item) setStoreID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.storeID = id
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(unitPrice float64) error {
	if unitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit price",
			fmt.Errorf("%f is negative", unitPrice))
	}
	i.unitPrice = unitPrice
	return nil
}

func (i *Item) setSize(size kernel.ParcelSize) error {
	if err := size.Validate(); err != nil {
		return err
	}
	i.size = size
	return nil
}
