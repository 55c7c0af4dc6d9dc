package delivery

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xkernalwebdev/xkernel-ticket/internal/app"
	gomail "gopkg.in/gomail.v2"
)

// SMTPConfig configures the outbound mail sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Issuer   string
}

// SMTPSender emails the rendered ticket card as a PNG attachment.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	issuer string
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		issuer: cfg.Issuer,
	}
}

func (s *SMTPSender) Send(ctx context.Context, job app.DeliveryJob, card []byte) error {
	// gomail has no context support; at least honor cancellation that
	// happened while the job sat in the queue.
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", job.Email)
	m.SetHeader("Subject", fmt.Sprintf("Your %s Ticket for %s - ID: %s", s.issuer, job.Event, job.TicketID))
	m.SetBody("text/plain", fmt.Sprintf(`Dear %s,

Your event ticket is attached.

Ticket ID: %s
Event: %s

Please show this at entry.

Regards,
%s Team
`, job.Name, job.TicketID, job.Event, s.issuer))

	m.Attach(fmt.Sprintf("%s_ticket.png", job.TicketID), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(card)
		return err
	}))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", job.Email, err)
	}
	return nil
}

// LogSender stands in for SMTP when mail is not configured. Tickets are
// still minted and rendered; the send is recorded in the log only.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, job app.DeliveryJob, card []byte) error {
	s.logger.Info("mail disabled, skipping send",
		"ticket_id", job.TicketID, "email", job.Email, "card_bytes", len(card))
	return nil
}
