package app

import (
	"crypto/rand"
	"fmt"
)

const (
	ticketIDLength   = 8
	ticketIDAlphabet = "ABCDEFGHIJKLMNPQRSTUVWXYZ0123456789"
)

// newTicketID returns a short human-typeable identifier. Uniqueness is
// guaranteed by the store's constraint, not by this generator; collisions
// surface as domain.ErrDuplicateTicket and the caller retries with a
// fresh id.
func newTicketID() (string, error) {
	buf := make([]byte, ticketIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = ticketIDAlphabet[int(b)%len(ticketIDAlphabet)]
	}
	return string(buf), nil
}
