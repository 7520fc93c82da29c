package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/pkg/e"
)

// Queue hands out pending notification jobs, blocking up to timeout.
type Queue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (domain.NotificationJob, error)
}

// Dispatcher consumes notification jobs from the queue and runs the fanout.
// It lives on its own goroutine, fully decoupled from the request path:
// the HTTP handler that caused a job only ever enqueues and returns.
type Dispatcher struct {
	logger     *slog.Logger
	queue      Queue
	fanout     *Fanout
	popTimeout time.Duration
}

func NewDispatcher(logger *slog.Logger, queue Queue, fanout *Fanout, popTimeout time.Duration) *Dispatcher {
	if popTimeout <= 0 {
		popTimeout = 5 * time.Second
	}
	return &Dispatcher{
		logger:     logger,
		queue:      queue,
		fanout:     fanout,
		popTimeout: popTimeout,
	}
}

func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("notification dispatcher started")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("notification dispatcher stopped", slog.String("reason", ctx.Err().Error()))
			return
		default:
		}

		job, err := d.queue.Dequeue(ctx, d.popTimeout)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			d.logger.Error("dequeue failed", slog.Any("error", err))
			time.Sleep(500 * time.Millisecond)
			continue
		}

		// An in-flight batch survives shutdown signals and request
		// timeouts: once picked up, it runs to completion.
		d.fanout.Dispatch(context.WithoutCancel(ctx), job)
	}
}
