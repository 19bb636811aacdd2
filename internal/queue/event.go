// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names for booking lifecycle events.  Both queues are durable;
// the notification consumer drains them into the notification log.
const (
	BookingPaidQueue      = "booking.paid"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingEvent is published when a booking reaches a terminal state:
// PAID after payment confirmation, or CANCELLED after a release or
// hold expiry.  It contains enough information for downstream
// consumers to notify the customer without querying the primary
// database.
type BookingEvent struct {
	BookingID   uint64   `json:"booking_id"`
	UserID      uint64   `json:"user_id"`
	ShowID      uint64   `json:"show_id"`
	Status      string   `json:"status"`
	AmountCents uint32   `json:"amount_cents"`
	SeatIDs     []uint64 `json:"seat_ids"`
	OccurredAt  string   `json:"occurred_at"`
}
