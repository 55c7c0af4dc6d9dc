package domain

import "time"

// Ticket represents one attendee's right to enter one event once.
type Ticket struct {
	// TicketID is the short public identifier printed on the pass.
	// The database row id stays internal to the storage layer.
	TicketID  string
	Name      string
	Email     string
	Event     string
	Phone     string
	Used      bool
	ScannedAt *time.Time
	CreatedAt time.Time
}

// ClaimOutcome is the result of an atomic claim attempt against the store.
type ClaimOutcome struct {
	// Claimed is true when this call performed the unclaimed→claimed
	// transition. When false the ticket was already used and Ticket
	// carries the state from the first successful claim.
	Claimed bool
	Ticket  Ticket
}

// RejectionReason classifies why a scan was turned away.
type RejectionReason string

const (
	// RejectionAlreadyUsed means the ticket exists but was claimed before.
	RejectionAlreadyUsed RejectionReason = "already_used"
	// RejectionUnknown covers malformed payloads and unknown ticket ids.
	// It deliberately carries no attendee detail.
	RejectionUnknown RejectionReason = "unknown"
)

// VerificationOutcome is what the gate operator sees for one scan.
type VerificationOutcome struct {
	Admitted bool
	Reason   RejectionReason

	Name      string
	Event     string
	TicketID  string
	ScannedAt *time.Time
}
