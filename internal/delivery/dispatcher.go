// Package delivery implements the rendering/email gateway behind
// app.DeliveryGateway. Jobs run on a small in-process worker pool so the
// mint path never waits on image encoding or SMTP; failures are logged
// and the ticket stays valid regardless.
package delivery

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xkernalwebdev/xkernel-ticket/internal/app"
)

// Renderer produces the ticket card PNG for a job.
type Renderer interface {
	Render(job app.DeliveryJob) ([]byte, error)
}

// Sender delivers a rendered ticket card to the attendee.
type Sender interface {
	Send(ctx context.Context, job app.DeliveryJob, card []byte) error
}

type queuedJob struct {
	receipt app.DeliveryReceipt
	job     app.DeliveryJob
}

// Dispatcher is a bounded worker pool implementing app.DeliveryGateway.
// Deliver never blocks: when the queue is full the job is dropped with a
// warning and the receipt comes back unaccepted.
type Dispatcher struct {
	renderer    Renderer
	sender      Sender
	logger      *slog.Logger
	sendTimeout time.Duration

	jobs chan queuedJob
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

const (
	defaultWorkers     = 2
	defaultQueueSize   = 64
	defaultSendTimeout = 30 * time.Second
)

type Option func(*dispatcherConfig)

type dispatcherConfig struct {
	workers     int
	queueSize   int
	sendTimeout time.Duration
}

// WithWorkers sets the number of delivery workers.
func WithWorkers(n int) Option {
	return func(c *dispatcherConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithQueueSize sets the job queue capacity.
func WithQueueSize(n int) Option {
	return func(c *dispatcherConfig) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithSendTimeout bounds how long a single send attempt may take.
func WithSendTimeout(d time.Duration) Option {
	return func(c *dispatcherConfig) {
		if d > 0 {
			c.sendTimeout = d
		}
	}
}

func NewDispatcher(renderer Renderer, sender Sender, logger *slog.Logger, opts ...Option) *Dispatcher {
	cfg := dispatcherConfig{
		workers:     defaultWorkers,
		queueSize:   defaultQueueSize,
		sendTimeout: defaultSendTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dispatcher{
		renderer:    renderer,
		sender:      sender,
		logger:      logger,
		sendTimeout: cfg.sendTimeout,
		jobs:        make(chan queuedJob, cfg.queueSize),
	}
	for i := 0; i < cfg.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Dispatcher) Deliver(job app.DeliveryJob) app.DeliveryReceipt {
	receipt := app.DeliveryReceipt{
		ID:         uuid.NewString(),
		EnqueuedAt: time.Now().UTC(),
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		d.logger.Warn("delivery dropped, dispatcher closed",
			"receipt_id", receipt.ID, "ticket_id", job.TicketID)
		return receipt
	}

	queued := queuedJob{receipt: receipt, job: job}
	queued.receipt.Accepted = true

	select {
	case d.jobs <- queued:
		receipt.Accepted = true
	default:
		d.logger.Warn("delivery dropped, queue full",
			"receipt_id", receipt.ID, "ticket_id", job.TicketID)
	}
	return receipt
}

// Close stops accepting jobs and waits for queued deliveries to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for queued := range d.jobs {
		d.process(queued)
	}
}

func (d *Dispatcher) process(queued queuedJob) {
	log := d.logger.With("receipt_id", queued.receipt.ID, "ticket_id", queued.job.TicketID)

	card, err := d.renderer.Render(queued.job)
	if err != nil {
		log.Error("render ticket card", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, queued.job, card); err != nil {
		log.Error("send ticket", "err", err, "email", queued.job.Email)
		return
	}
	log.Info("ticket delivered", "email", queued.job.Email)
}
