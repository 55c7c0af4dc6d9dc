package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/xkernalwebdev/xkernel-ticket/internal/domain"
)

// TicketVerifier is the minimal interface needed to verify a scan.
type TicketVerifier interface {
	Verify(ctx context.Context, rawScan string) (domain.VerificationOutcome, error)
}

type verifyRequest struct {
	TicketData string `json:"ticket_data"`
}

type verifyResponse struct {
	Valid     bool       `json:"valid"`
	Message   string     `json:"message"`
	Name      string     `json:"name,omitempty"`
	Event     string     `json:"event,omitempty"`
	TicketID  string     `json:"ticket_id,omitempty"`
	ScannedAt *time.Time `json:"scanned_at,omitempty"`
}

// HandleVerify returns the HTTP handler the gate scanner posts scans to.
// An unknown or malformed scan gets a minimal response on purpose: the
// endpoint must not leak which ticket ids exist.
func HandleVerify(svc TicketVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req verifyRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		outcome, err := svc.Verify(r.Context(), req.TicketData)
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		switch {
		case outcome.Admitted:
			writeJSON(w, http.StatusOK, verifyResponse{
				Valid:    true,
				Message:  "Valid Ticket - Welcome!",
				Name:     outcome.Name,
				Event:    outcome.Event,
				TicketID: outcome.TicketID,
			})
		case outcome.Reason == domain.RejectionAlreadyUsed:
			writeJSON(w, http.StatusBadRequest, verifyResponse{
				Valid:     false,
				Message:   "Already Used",
				Name:      outcome.Name,
				Event:     outcome.Event,
				TicketID:  outcome.TicketID,
				ScannedAt: outcome.ScannedAt,
			})
		default:
			writeJSON(w, http.StatusBadRequest, verifyResponse{
				Valid:   false,
				Message: "Invalid Ticket",
			})
		}
	}
}
