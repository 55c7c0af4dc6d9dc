package app

import "time"

// DeliveryJob carries everything the gateway needs to render a ticket
// card and email it to the attendee.
type DeliveryJob struct {
	TicketID string
	Name     string
	Event    string
	Payload  string
	Email    string
}

// DeliveryReceipt acknowledges that a job was handed to the gateway.
// Accepted is false when the gateway had to drop the job (full queue,
// shutting down); the ticket itself stays valid either way.
type DeliveryReceipt struct {
	ID         string
	EnqueuedAt time.Time
	Accepted   bool
}

// DeliveryGateway renders and delivers minted tickets, best effort.
// Deliver must not block the mint path and must never surface rendering
// or delivery failures back to the caller.
type DeliveryGateway interface {
	Deliver(job DeliveryJob) DeliveryReceipt
}
