package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrCheckoutCommandIsNotConstructed = errors.New(
		"CheckoutCommand must be created via NewCheckoutCommand constructor",
	)
	ErrBasketIsEmpty = errors.New("basket must contain at least one item")
)

// BasketItem is one line of the buyer's basket: a product reference and a
// quantity. Price, size, and pickup location are resolved from the catalog
// by the handler, never trusted from the client.
type BasketItem struct {
	ProductID kernel.UUID
	Quantity  int
}

// CheckoutCommand represents a buyer submitting a basket for fulfillment:
// reserve the stock, price the delivery, and open the order for payment.
type CheckoutCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	buyerID  *kernel.UUID
	items    []BasketItem
	delivery kernel.GeoPoint

	guard guard.ConstructorGuard
}

// NewCheckoutCommand creates a checkout command. buyerID may be nil for
// guest checkout. The basket must be non-empty with positive quantities and
// the delivery point must be a constructed coordinate.
func NewCheckoutCommand(
	orderID kernel.UUID,
	buyerID *kernel.UUID,
	items []BasketItem,
	delivery kernel.GeoPoint,
) (CheckoutCommand, error) {
	checkoutCommand := CheckoutCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		checkoutCommand.setOrderID(orderID),
		checkoutCommand.setBuyerID(buyerID),
		checkoutCommand.setItems(items),
		checkoutCommand.setDelivery(delivery),
	); err != nil {
		return CheckoutCommand{}, err
	}

	return checkoutCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CheckoutCommand) Validate() error {
	return c.guard.Validate(ErrCheckoutCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will carry.
func (c CheckoutCommand) OrderID() kernel.UUID {
	return c.orderID
}

// BuyerID returns the buyer, or nil for guest checkout.
func (c CheckoutCommand) BuyerID() *kernel.UUID {
	return c.buyerID
}

// Items returns the basket lines.
func (c CheckoutCommand) Items() []BasketItem {
	return c.items
}

// Delivery returns the drop-off coordinate.
func (c CheckoutCommand) Delivery() kernel.GeoPoint {
	return c.delivery
}

func (c *CheckoutCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CheckoutCommand) setBuyerID(buyerID *kernel.UUID) error {
	if buyerID != nil {
		if err := buyerID.Validate(); err != nil {
			return err
		}
	}

	c.buyerID = buyerID
	return nil
}

func (c *CheckoutCommand) setItems(items []BasketItem) error {
	if len(items) == 0 {
		return ErrBasketIsEmpty
	}

	for _, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return err
		}
		if item.Quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("quantity",
				fmt.Errorf("%d is not greater than 0", item.Quantity))
		}
	}

	c.items = items
	return nil
}

func (c *CheckoutCommand) setDelivery(delivery kernel.GeoPoint) error {
	if err := delivery.Validate(); err != nil {
		return err
	}

	c.delivery = delivery
	return nil
}
