package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xkernalwebdev/xkernel-ticket/internal/domain"
)

type TicketRepository struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

const ticketColumns = `ticket_id, attendee_name, attendee_email, event_name, phone, used, scanned_at, created_at`

func (r *TicketRepository) Insert(ctx context.Context, ticket domain.Ticket) error {
	const stmt = `
INSERT INTO tickets (ticket_id, attendee_name, attendee_email, event_name, phone, used, scanned_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.exec(ctx, stmt,
		ticket.TicketID,
		ticket.Name,
		ticket.Email,
		ticket.Event,
		ticket.Phone,
		ticket.Used,
		ticket.ScannedAt,
		ticket.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTicket
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) FindByID(ctx context.Context, ticketID string) (domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_id = $1`

	t, err := scanTicket(r.queryRow(ctx, query, ticketID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Ticket{}, domain.ErrTicketNotFound
		}
		return domain.Ticket{}, fmt.Errorf("find ticket: %w", err)
	}
	return t, nil
}

// Claim performs the unclaimed→claimed transition as one conditional
// UPDATE. Of any number of concurrent claims for the same ticket exactly
// one matches `used = FALSE`; the rest fall through to the read that
// reports the state left by the winner. The fallback read runs in the
// same transaction as the update.
func (r *TicketRepository) Claim(ctx context.Context, ticketID string, at time.Time) (domain.ClaimOutcome, error) {
	var outcome domain.ClaimOutcome

	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		stmt := `
UPDATE tickets
SET used = TRUE, scanned_at = $2
WHERE ticket_id = $1 AND used = FALSE
RETURNING ` + ticketColumns

		t, err := scanTicket(r.queryRow(txCtx, stmt, ticketID, at))
		if err == nil {
			outcome = domain.ClaimOutcome{Claimed: true, Ticket: t}
			return nil
		}
		if err != pgx.ErrNoRows {
			return fmt.Errorf("claim ticket: %w", err)
		}

		query := `SELECT ` + ticketColumns + ` FROM tickets WHERE ticket_id = $1`
		t, err = scanTicket(r.queryRow(txCtx, query, ticketID))
		if err != nil {
			if err == pgx.ErrNoRows {
				return domain.ErrTicketNotFound
			}
			return fmt.Errorf("read claimed ticket: %w", err)
		}
		outcome = domain.ClaimOutcome{Claimed: false, Ticket: t}
		return nil
	})
	if err != nil {
		return domain.ClaimOutcome{}, err
	}
	return outcome, nil
}

func (r *TicketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets ORDER BY id DESC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

func scanTicket(row pgx.Row) (domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(&t.TicketID, &t.Name, &t.Email, &t.Event, &t.Phone, &t.Used, &t.ScannedAt, &t.CreatedAt)
	if err != nil {
		return domain.Ticket{}, err
	}
	return t, nil
}

func (r *TicketRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *TicketRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *TicketRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
