// Package payload encodes and decodes the text embedded in the scannable
// QR code. The format is fixed: three colon-delimited fields with a literal
// TICKET prefix. Anything that does not match exactly is rejected before
// storage is ever consulted, so wrong-type or corrupted scans fail fast.
package payload

import (
	"errors"
	"strings"
)

const (
	prefix    = "TICKET"
	delimiter = ":"
)

var (
	// ErrMalformedPayload means the scanned text is not a ticket payload.
	ErrMalformedPayload = errors.New("malformed ticket payload")
	// ErrUnencodableField means a field contains the delimiter and would
	// make the payload ambiguous to decode.
	ErrUnencodableField = errors.New("field contains payload delimiter")
)

// Encode builds the scannable payload for a ticket. Both fields must be
// non-empty and free of the delimiter; the decoder splits on it into
// exactly three parts, so an embedded ':' cannot be round-tripped.
func Encode(ticketID, eventName string) (string, error) {
	if ticketID == "" || eventName == "" {
		return "", ErrUnencodableField
	}
	if strings.Contains(ticketID, delimiter) || strings.Contains(eventName, delimiter) {
		return "", ErrUnencodableField
	}
	return prefix + delimiter + ticketID + delimiter + eventName, nil
}

// Decode parses a raw scan back into its ticket id and event name.
func Decode(raw string) (ticketID, eventName string, err error) {
	if !strings.HasPrefix(raw, prefix+delimiter) {
		return "", "", ErrMalformedPayload
	}
	parts := strings.Split(raw, delimiter)
	if len(parts) != 3 {
		return "", "", ErrMalformedPayload
	}
	if parts[1] == "" || parts[2] == "" {
		return "", "", ErrMalformedPayload
	}
	return parts[1], parts[2], nil
}
