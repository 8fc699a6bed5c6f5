// Package order contains the Order aggregate: one checkout's worth of items
// destined for one delivery, with a frozen shipping price, a reservation
// expiry, a delivery deadline, and a closed status state machine covering the
// lifecycle from creation through delivery or cancellation.
package order
