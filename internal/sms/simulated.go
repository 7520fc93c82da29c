package sms

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Simulated stands in for the real provider when SMS is disabled or the
// credentials are missing. It formats and "delivers" every message so the
// rest of the system keeps functioning, tagging the results so they can
// never be mistaken for real sends.
type Simulated struct {
	logger *slog.Logger
	seq    atomic.Uint64
}

func NewSimulated(logger *slog.Logger) *Simulated {
	return &Simulated{logger: logger}
}

func (s *Simulated) Send(ctx context.Context, to, body string) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}

	id := fmt.Sprintf("SIM%08d", s.seq.Add(1))
	s.logger.Info("simulated sms send",
		slog.String("to", to),
		slog.String("sid", id),
		slog.Int("body_len", len(body)),
	)
	return SendResult{ID: id, Status: "delivered", Simulated: true}, nil
}
