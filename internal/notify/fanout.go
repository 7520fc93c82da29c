// Package notify turns a zone lifecycle event into best-effort mass SMS
// delivery. Each recipient is attempted independently on a bounded worker
// pool; a single bad number or provider error never aborts the batch.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/internal/observability"
	"github.com/Dibyajyoti630/RedZone/internal/sms"
	"github.com/Dibyajyoti630/RedZone/pkg/phone"
)

type Fanout struct {
	logger        *slog.Logger
	provider      sms.Provider
	metrics       *observability.Metrics
	workers       int
	countryPrefix string
}

func NewFanout(
	logger *slog.Logger,
	provider sms.Provider,
	metrics *observability.Metrics,
	workers int,
	countryPrefix string,
) *Fanout {
	if workers < 1 {
		workers = 1
	}
	return &Fanout{
		logger:        logger,
		provider:      provider,
		metrics:       metrics,
		workers:       workers,
		countryPrefix: countryPrefix,
	}
}

// Dispatch delivers the job's message to every recipient and reports
// per-recipient outcomes. It never returns an error: failures are isolated
// into the result and surfaced only through logs and metrics.
func (f *Fanout) Dispatch(ctx context.Context, job domain.NotificationJob) domain.NotificationResult {
	start := time.Now()
	body := FormatMessage(job.Variant, job.Zone)
	recipients := dedupe(job.Recipients)

	f.logger.Info("fanout batch start",
		slog.String("zone_id", job.Zone.ID.String()),
		slog.String("variant", string(job.Variant)),
		slog.Int("recipients", len(recipients)),
	)

	if len(recipients) == 0 {
		return domain.NotificationResult{}
	}

	jobs := make(chan string)
	results := make(chan domain.RecipientResult, len(recipients))

	workers := f.workers
	if workers > len(recipients) {
		workers = len(recipients)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for to := range jobs {
				results <- f.sendOne(ctx, to, body)
			}
		}()
	}

	for _, to := range recipients {
		jobs <- to
	}
	close(jobs)
	wg.Wait()
	close(results)

	res := domain.NotificationResult{
		Attempted:    len(recipients),
		PerRecipient: make([]domain.RecipientResult, 0, len(recipients)),
	}
	for r := range results {
		if r.Outcome == domain.OutcomeSent {
			res.Succeeded++
		}
		f.metrics.SMSSends.WithLabelValues(string(job.Variant), outcomeLabel(r)).Inc()
		res.PerRecipient = append(res.PerRecipient, r)
	}

	f.metrics.FanoutBatches.Inc()
	f.metrics.FanoutSize.Observe(float64(res.Attempted))
	f.metrics.FanoutLatency.Observe(time.Since(start).Seconds())

	if res.Succeeded < res.Attempted {
		f.logger.Warn("fanout batch finished with failures",
			slog.String("zone_id", job.Zone.ID.String()),
			slog.String("variant", string(job.Variant)),
			slog.Int("attempted", res.Attempted),
			slog.Int("succeeded", res.Succeeded),
		)
	} else {
		f.logger.Info("fanout batch finished",
			slog.String("zone_id", job.Zone.ID.String()),
			slog.String("variant", string(job.Variant)),
			slog.Int("attempted", res.Attempted),
			slog.Int("succeeded", res.Succeeded),
		)
	}

	return res
}

func (f *Fanout) sendOne(ctx context.Context, to, body string) domain.RecipientResult {
	canonical, err := phone.Normalize(to, f.countryPrefix)
	if err != nil {
		f.logger.Warn("recipient skipped: bad phone", slog.String("phone", to), slog.Any("error", err))
		return domain.RecipientResult{Phone: to, Outcome: domain.OutcomeFailed, Error: err.Error()}
	}

	sent, err := f.provider.Send(ctx, canonical, body)
	if err != nil {
		f.logger.Warn("send failed", slog.String("phone", canonical), slog.Any("error", err))
		return domain.RecipientResult{Phone: canonical, Outcome: domain.OutcomeFailed, Error: err.Error()}
	}

	return domain.RecipientResult{
		Phone:             canonical,
		Outcome:           domain.OutcomeSent,
		ProviderMessageID: sent.ID,
		Simulated:         sent.Simulated,
	}
}

// dedupe keeps the first occurrence of each phone: within one job a
// recipient gets at most one message.
func dedupe(phones []string) []string {
	seen := make(map[string]struct{}, len(phones))
	out := make([]string, 0, len(phones))
	for _, p := range phones {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func outcomeLabel(r domain.RecipientResult) string {
	switch {
	case r.Outcome == domain.OutcomeFailed:
		return "failed"
	case r.Simulated:
		return "simulated"
	default:
		return "sent"
	}
}
