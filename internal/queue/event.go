// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds carried on the rental.events queue.
const (
	EventRentalCreated  = "rental.created"
	EventRentalReturned = "rental.returned"
)

// RentalEvent is published when a rental is opened or closed. It carries
// enough information for downstream consumers to log, notify, or feed
// analytics without querying the primary database.
type RentalEvent struct {
	Event       string `json:"event"`
	RentalID    uint64 `json:"rental_id"`
	CustomerID  uint64 `json:"customer_id"`
	FilmID      uint64 `json:"film_id,omitempty"`
	FilmTitle   string `json:"film_title,omitempty"`
	InventoryID uint64 `json:"inventory_id,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}
