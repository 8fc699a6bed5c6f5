// Package ports defines the boundary contracts of the fulfillment core:
// repositories over aggregates, the unit of work binding them to one
// transaction, the store catalog, stock accounting, event publishing, and
// checkout idempotency. Adapters under internal/adapters implement them.
package ports
