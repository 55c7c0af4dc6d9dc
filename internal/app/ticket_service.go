package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/xkernalwebdev/xkernel-ticket/internal/clock"
	"github.com/xkernalwebdev/xkernel-ticket/internal/domain"
	"github.com/xkernalwebdev/xkernel-ticket/internal/payload"
)

type TicketRepository interface {
	Insert(ctx context.Context, ticket domain.Ticket) error
	FindByID(ctx context.Context, ticketID string) (domain.Ticket, error)
	Claim(ctx context.Context, ticketID string, at time.Time) (domain.ClaimOutcome, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
}

type TicketService struct {
	repo         TicketRepository
	gateway      DeliveryGateway
	clock        clock.Clock
	mintAttempts int
}

const defaultMintAttempts = 3

func NewTicketService(repo TicketRepository, gateway DeliveryGateway, clk clock.Clock, opts ...TicketServiceOption) *TicketService {
	svc := &TicketService{
		repo:         repo,
		gateway:      gateway,
		clock:        clk,
		mintAttempts: defaultMintAttempts,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type TicketServiceOption func(*TicketService)

// WithMintAttempts overrides how often Mint retries id collisions.
func WithMintAttempts(n int) TicketServiceOption {
	return func(s *TicketService) {
		if n > 0 {
			s.mintAttempts = n
		}
	}
}

type MintInput struct {
	Name  string
	Email string
	Event string
	Phone string
}

func (in MintInput) validate() error {
	if len(strings.TrimSpace(in.Name)) < 2 {
		return domain.ErrNameRequired
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		return domain.ErrInvalidEmail
	}
	event := strings.TrimSpace(in.Event)
	if event == "" {
		return domain.ErrEventRequired
	}
	// The payload format splits on ':'; an event name carrying one could
	// never be decoded back.
	if strings.Contains(event, ":") {
		return domain.ErrEventHasColon
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" && len(phone) < 10 {
		return domain.ErrInvalidPhone
	}
	return nil
}

type MintResult struct {
	Ticket  domain.Ticket
	Payload string
	Receipt DeliveryReceipt
}

// Mint creates one ticket: validate, generate an id, persist, encode the
// scannable payload and hand the rendering/delivery job to the gateway.
// The gateway hand-off is fire-and-forget; once the insert committed the
// ticket is valid no matter what happens to the email.
func (s *TicketService) Mint(ctx context.Context, in MintInput) (MintResult, error) {
	if err := in.validate(); err != nil {
		return MintResult{}, err
	}

	now := s.clock.Now()
	ticket := domain.Ticket{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Event:     strings.TrimSpace(in.Event),
		Phone:     strings.TrimSpace(in.Phone),
		Used:      false,
		ScannedAt: nil,
		CreatedAt: now,
	}

	for attempt := 1; ; attempt++ {
		id, err := newTicketID()
		if err != nil {
			return MintResult{}, fmt.Errorf("generate ticket id: %w", err)
		}
		ticket.TicketID = id

		err = s.repo.Insert(ctx, ticket)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrDuplicateTicket) && attempt < s.mintAttempts {
			continue
		}
		return MintResult{}, err
	}

	raw, err := payload.Encode(ticket.TicketID, ticket.Event)
	if err != nil {
		// validate() rejects delimiters up front, so this indicates a bug
		// in the generator or validation, not bad caller input.
		return MintResult{}, fmt.Errorf("encode payload for %s: %w", ticket.TicketID, err)
	}

	receipt := s.gateway.Deliver(DeliveryJob{
		TicketID: ticket.TicketID,
		Name:     ticket.Name,
		Event:    ticket.Event,
		Payload:  raw,
		Email:    ticket.Email,
	})

	return MintResult{Ticket: ticket, Payload: raw, Receipt: receipt}, nil
}

// RowOutcome reports the fate of one row of a bulk mint.
type RowOutcome struct {
	Row      int
	TicketID string
	Payload  string
	Err      error
}

// MintBatch mints one ticket per row. Rows fail independently; a bad row
// is reported in its outcome and the remaining rows still run.
func (s *TicketService) MintBatch(ctx context.Context, rows []MintInput) []RowOutcome {
	outcomes := make([]RowOutcome, 0, len(rows))
	for i, row := range rows {
		out := RowOutcome{Row: i + 1}
		res, err := s.Mint(ctx, row)
		if err != nil {
			out.Err = err
		} else {
			out.TicketID = res.Ticket.TicketID
			out.Payload = res.Payload
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// Verify decodes a raw scan and attempts the atomic claim. Malformed
// payloads and unknown ids both come back as an anonymous rejection so
// the scanning UI cannot be used to probe which ids exist.
func (s *TicketService) Verify(ctx context.Context, rawScan string) (domain.VerificationOutcome, error) {
	ticketID, _, err := payload.Decode(rawScan)
	if err != nil {
		return domain.VerificationOutcome{Reason: domain.RejectionUnknown}, nil
	}

	outcome, err := s.repo.Claim(ctx, ticketID, s.clock.Now())
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			return domain.VerificationOutcome{Reason: domain.RejectionUnknown}, nil
		}
		return domain.VerificationOutcome{}, err
	}

	t := outcome.Ticket
	if !outcome.Claimed {
		return domain.VerificationOutcome{
			Reason:    domain.RejectionAlreadyUsed,
			Name:      t.Name,
			Event:     t.Event,
			TicketID:  t.TicketID,
			ScannedAt: t.ScannedAt,
		}, nil
	}
	return domain.VerificationOutcome{
		Admitted: true,
		Name:     t.Name,
		Event:    t.Event,
		TicketID: t.TicketID,
	}, nil
}

// ListTickets returns every ticket, most recent first.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.repo.ListAll(ctx)
}

// ExportAttendance writes the attendance report as CSV. The internal row
// key never leaves the storage layer, so the export is simply every
// ticket attribute.
func (s *TicketService) ExportAttendance(ctx context.Context, w io.Writer) error {
	tickets, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ticket_id", "name", "email", "event", "phone", "used", "scanned_at", "created_at"}); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, t := range tickets {
		scannedAt := ""
		if t.ScannedAt != nil {
			scannedAt = t.ScannedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			t.TicketID,
			t.Name,
			t.Email,
			t.Event,
			t.Phone,
			fmt.Sprintf("%t", t.Used),
			scannedAt,
			t.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
