package kernel

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// ParcelSize is the ordinal classification of a parcel's bulk.
// It drives both the shipping price tier and how much of a courier vehicle's
// capacity an order consumes. Larger values strictly mean bulkier parcels, so
// ordering comparisons between sizes are meaningful.
type ParcelSize int

const (
	// SizeUnknown represents an invalid or undefined size.
	// This value (0) helps catch uninitialized ParcelSize values.
	SizeUnknown ParcelSize = iota

	// SizeSmall fits in a delivery bag.
	SizeSmall

	// SizeMedium fits on a scooter rack.
	SizeMedium

	// SizeLarge requires a car trunk.
	SizeLarge

	// SizeExtraLarge requires a van.
	SizeExtraLarge
)

func getSizeStrings() map[ParcelSize]string {
	return map[ParcelSize]string{
		SizeUnknown:    "unknown",
		SizeSmall:      "small",
		SizeMedium:     "medium",
		SizeLarge:      "large",
		SizeExtraLarge: "extra_large",
	}
}

// ParcelSizeFromString parses the wire representation of a size class.
func ParcelSizeFromString(s string) (ParcelSize, error) {
	for size, str := range getSizeStrings() {
		if str == s && size != SizeUnknown {
			return size, nil
		}
	}
	return SizeUnknown, errs.NewValueIsInvalidErrorWithCause("parcel size",
		fmt.Errorf("%q is not a valid parcel size", s))
}

// Validate checks that the size is one of the defined classes.
func (s ParcelSize) Validate() error {
	if s < SizeSmall || s > SizeExtraLarge {
		return errs.NewValueIsInvalidErrorWithCause("parcel size",
			fmt.Errorf("%d is not a valid parcel size", s))
	}
	return nil
}

// String returns the wire name of the size class.
func (s ParcelSize) String() string {
	if str, ok := getSizeStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Weight returns the route-capacity units this size consumes.
// Weights grow with size so a route's load reflects vehicle space, not item count.
func (s ParcelSize) Weight() int {
	return int(s)
}

// MaxParcelSize returns the largest size class among the given sizes.
// An order is classified by its bulkiest item because the vehicle must
// accommodate the largest single parcel, not an average. Returns an error for
// an empty list or any invalid member.
func MaxParcelSize(sizes []ParcelSize) (ParcelSize, error) {
	if len(sizes) == 0 {
		return SizeUnknown, errs.NewValueIsRequiredError("sizes")
	}

	maxSize := SizeUnknown
	for _, s := range sizes {
		if err := s.Validate(); err != nil {
			return SizeUnknown, err
		}
		if s > maxSize {
			maxSize = s
		}
	}

	return maxSize, nil
}
