package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/xkernalwebdev/xkernel-ticket/internal/app"
	"github.com/xkernalwebdev/xkernel-ticket/internal/domain"
)

// TicketMinter is the minimal interface needed to mint one ticket.
type TicketMinter interface {
	Mint(ctx context.Context, in app.MintInput) (app.MintResult, error)
}

// TicketLister is the minimal interface needed for the ticket listing.
type TicketLister interface {
	ListTickets(ctx context.Context) ([]domain.Ticket, error)
}

type createTicketRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Event string `json:"event"`
	Phone string `json:"phone"`
}

type ticketResponse struct {
	TicketID  string     `json:"ticket_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Event     string     `json:"event"`
	Phone     string     `json:"phone,omitempty"`
	Used      bool       `json:"used"`
	ScannedAt *time.Time `json:"scanned_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type createTicketResponse struct {
	ticketResponse
	Payload         string `json:"payload"`
	DeliveryQueued  bool   `json:"delivery_queued"`
	DeliveryReceipt string `json:"delivery_receipt"`
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	return ticketResponse{
		TicketID:  t.TicketID,
		Name:      t.Name,
		Email:     t.Email,
		Event:     t.Event,
		Phone:     t.Phone,
		Used:      t.Used,
		ScannedAt: t.ScannedAt,
		CreatedAt: t.CreatedAt,
	}
}

// HandleTickets dispatches the /tickets resource: POST mints a ticket,
// GET lists all tickets.
func HandleTickets(minter TicketMinter, lister TicketLister) http.HandlerFunc {
	create := HandleCreateTicket(minter)
	list := HandleListTickets(lister)
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			create(w, r)
		case http.MethodGet:
			list(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		}
	}
}

// HandleCreateTicket returns an HTTP handler for minting one ticket.
func HandleCreateTicket(svc TicketMinter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		var req createTicketRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.Mint(r.Context(), app.MintInput{
			Name:  req.Name,
			Email: req.Email,
			Event: req.Event,
			Phone: req.Phone,
		})
		if err != nil {
			writeMintError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, createTicketResponse{
			ticketResponse:  toTicketResponse(res.Ticket),
			Payload:         res.Payload,
			DeliveryQueued:  res.Receipt.Accepted,
			DeliveryReceipt: res.Receipt.ID,
		})
	}
}

// HandleListTickets returns an HTTP handler for the attendance listing,
// most recent ticket first.
func HandleListTickets(svc TicketLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		tickets, err := svc.ListTickets(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := make([]ticketResponse, 0, len(tickets))
		for _, t := range tickets {
			resp = append(resp, toTicketResponse(t))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeMintError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		writeError(w, http.StatusBadRequest, codeNameRequired, err.Error())
	case errors.Is(err, domain.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, codeInvalidEmail, err.Error())
	case errors.Is(err, domain.ErrEventRequired):
		writeError(w, http.StatusBadRequest, codeEventNameRequired, err.Error())
	case errors.Is(err, domain.ErrEventHasColon):
		writeError(w, http.StatusBadRequest, codeEventNameInvalid, err.Error())
	case errors.Is(err, domain.ErrInvalidPhone):
		writeError(w, http.StatusBadRequest, codeInvalidPhone, err.Error())
	case errors.Is(err, domain.ErrDuplicateTicket):
		writeError(w, http.StatusConflict, codeDuplicateTicket, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}
