// Package kernel contains the shared value objects of the fulfillment domain:
// validated identifiers, geographic points with great-circle distance, and the
// ordinal parcel size classification that drives both shipping price tiers and
// route capacity accounting.
//
// All value objects in this package are immutable and constructor-validated.
// Their zero values are invalid and fail Validate, which is how missing data
// (for example an absent delivery location) is detected instead of silently
// defaulted.
package kernel
