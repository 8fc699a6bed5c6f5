package services

import (
	"errors"
	"fmt"
	"math"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	// ErrTariffIsNotConstructed is returned when a Tariff was not created via NewTariff.
	ErrTariffIsNotConstructed = errors.New("Tariff must be created via NewTariff constructor")

	// ErrMissingLocation is returned when a shipping price cannot be computed
	// because a pickup or delivery coordinate is absent or invalid. Pricing
	// never defaults a missing location to zero distance: that would
	// systematically undercharge, so the checkout must fail instead.
	ErrMissingLocation = errors.New("pickup or delivery location is missing")
)

// Quote is the result of pricing one order's delivery: the great-circle
// distance between pickup and delivery, and the shipping price derived from
// it. Both values are frozen onto the order at creation.
type Quote struct {
	DistanceKm    float64
	ShippingPrice float64
}

// Tariff is the shipping price table: a base price and a per-kilometer rate
// for every parcel size class.
//
// price(distance, size) = basePrice[size] + distance × perKmRate[size],
// rounded to 2 decimals. Both components increase strictly with size, so the
// price is monotonically non-decreasing in distance and in size tier, and
// price(0, size) equals the base price exactly.
type Tariff struct { //nolint:recvcheck //using for validation
	basePrice map[kernel.ParcelSize]float64
	perKmRate map[kernel.ParcelSize]float64

	guard guard.ConstructorGuard
}

// NewTariff creates a tariff from per-size base prices and per-km rates.
// Every size class must be present with a positive base price and a positive
// rate, and both tables must increase strictly with the size tier.
func NewTariff(
	basePrice map[kernel.ParcelSize]float64,
	perKmRate map[kernel.ParcelSize]float64,
) (Tariff, error) {
	t := Tariff{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		validatePriceTable("base price", basePrice),
		validatePriceTable("per km rate", perKmRate),
	); err != nil {
		return Tariff{}, err
	}

	t.basePrice = basePrice
	t.perKmRate = perKmRate
	return t, nil
}

// DefaultTariff returns the standard marketplace price table.
func DefaultTariff() Tariff {
	tariff, err := NewTariff(
		map[kernel.ParcelSize]float64{
			kernel.SizeSmall:      3,
			kernel.SizeMedium:     5,
			kernel.SizeLarge:      8,
			kernel.SizeExtraLarge: 12,
		},
		map[kernel.ParcelSize]float64{
			kernel.SizeSmall:      0.5,
			kernel.SizeMedium:     1.0,
			kernel.SizeLarge:      1.5,
			kernel.SizeExtraLarge: 2.5,
		},
	)
	if err != nil {
		// Static tables above satisfy the constructor's invariants.
		panic(err)
	}
	return tariff
}

// Validate ensures the Tariff was created through NewTariff.
func (t Tariff) Validate() error {
	return t.guard.Validate(ErrTariffIsNotConstructed)
}

// Price computes the shipping price for a distance and size class, rounded to
// currency-minor-unit precision (2 decimals). A distance of 0 yields the base
// price exactly.
func (t Tariff) Price(distanceKm float64, size kernel.ParcelSize) (float64, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}

	if err := size.Validate(); err != nil {
		return 0, err
	}

	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return 0, errs.NewValueIsInvalidErrorWithCause("distance",
			fmt.Errorf("%f is not a valid distance", distanceKm))
	}

	return round2(t.basePrice[size] + distanceKm*t.perKmRate[size]), nil
}

// Quote computes the frozen distance and shipping price for an order.
// Fails with ErrMissingLocation when either coordinate is absent or invalid.
func (t Tariff) Quote(pickup, delivery kernel.GeoPoint, size kernel.ParcelSize) (Quote, error) {
	if err := t.Validate(); err != nil {
		return Quote{}, err
	}

	if err := errors.Join(pickup.Validate(), delivery.Validate()); err != nil {
		return Quote{}, fmt.Errorf("%w: %w", ErrMissingLocation, err)
	}

	distanceKm, err := pickup.DistanceTo(delivery)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %w", ErrMissingLocation, err)
	}

	price, err := t.Price(distanceKm, size)
	if err != nil {
		return Quote{}, err
	}

	return Quote{DistanceKm: distanceKm, ShippingPrice: price}, nil
}

func validatePriceTable(name string, table map[kernel.ParcelSize]float64) error {
	sizes := []kernel.ParcelSize{
		kernel.SizeSmall, kernel.SizeMedium, kernel.SizeLarge, kernel.SizeExtraLarge,
	}

	previous := 0.0
	for _, size := range sizes {
		value, ok := table[size]
		if !ok {
			return errs.NewValueIsRequiredErrorWithCause(name,
				fmt.Errorf("no entry for size %s", size))
		}
		if value <= previous {
			return errs.NewValueIsInvalidErrorWithCause(name,
				fmt.Errorf("%f for size %s does not increase with size tier", value, size))
		}
		previous = value
	}

	return nil
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
