package domain

import "errors"

var (
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrDuplicateTicket = errors.New("ticket id already exists")
	ErrNameRequired    = errors.New("name must have at least 2 characters")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrEventRequired   = errors.New("event name required")
	ErrEventHasColon   = errors.New("event name must not contain ':'")
	ErrInvalidPhone    = errors.New("phone must have at least 10 characters")
)
