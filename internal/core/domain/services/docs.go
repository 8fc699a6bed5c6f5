// Package services contains stateless domain services that operate across
// aggregates: the shipping price calculator (distance + size tariff) and the
// route planner that bundles ready orders into bounded-capacity courier
// routes under deadline constraints.
package services
