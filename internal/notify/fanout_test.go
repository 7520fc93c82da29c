package notify_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/internal/notify"
	"github.com/Dibyajyoti630/RedZone/internal/observability"
	"github.com/Dibyajyoti630/RedZone/internal/sms"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeProvider fails for the phones in failOn and tracks peak concurrency.
type fakeProvider struct {
	mu         sync.Mutex
	failOn     map[string]bool
	delay      time.Duration
	sent       []string
	inFlight   int
	maxInFlight int
}

func (p *fakeProvider) Send(ctx context.Context, to, body string) (sms.SendResult, error) {
	p.mu.Lock()
	p.inFlight++
	if p.inFlight > p.maxInFlight {
		p.maxInFlight = p.inFlight
	}
	p.mu.Unlock()

	if p.delay > 0 {
		time.Sleep(p.delay)
	}

	p.mu.Lock()
	p.inFlight--
	fail := p.failOn[to]
	if !fail {
		p.sent = append(p.sent, to)
	}
	p.mu.Unlock()

	if fail {
		return sms.SendResult{}, fmt.Errorf("provider rejected %s", to)
	}
	return sms.SendResult{ID: "SM123", Status: "queued"}, nil
}

func job(recipients ...string) domain.NotificationJob {
	return domain.NotificationJob{
		Zone: domain.ZoneSnapshot{
			ID:       uuid.New(),
			Title:    "Downed Power Lines",
			Location: "Electric Avenue",
			Severity: domain.SeverityHigh,
			Status:   domain.ZoneApproved,
		},
		Recipients: recipients,
		Variant:    domain.VariantApproved,
		EnqueuedAt: time.Now().UTC(),
	}
}

func TestDispatch_SingleFailureIsIsolated(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{failOn: map[string]bool{"+912": true}}
	f := notify.NewFanout(testLogger(), provider, observability.NewMetricsForTesting(), 3, "+91")

	res := f.Dispatch(context.Background(), job("+911", "+912", "+913"))

	assert.Equal(t, 3, res.Attempted)
	assert.Equal(t, 2, res.Succeeded)
	require.Len(t, res.PerRecipient, 3)

	byPhone := map[string]domain.RecipientResult{}
	for _, r := range res.PerRecipient {
		byPhone[r.Phone] = r
	}
	assert.Equal(t, domain.OutcomeFailed, byPhone["+912"].Outcome)
	assert.Equal(t, domain.OutcomeSent, byPhone["+911"].Outcome)
	assert.Equal(t, domain.OutcomeSent, byPhone["+913"].Outcome)
}

func TestDispatch_MalformedNumberDoesNotReachProvider(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	f := notify.NewFanout(testLogger(), provider, observability.NewMetricsForTesting(), 2, "+91")

	res := f.Dispatch(context.Background(), job("not-a-phone", "9876543210"))

	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, []string{"+919876543210"}, provider.sent)
}

func TestDispatch_DedupesWithinJob(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	f := notify.NewFanout(testLogger(), provider, observability.NewMetricsForTesting(), 4, "+91")

	res := f.Dispatch(context.Background(), job("+911234", "+911234", "+911234"))

	assert.Equal(t, 1, res.Attempted)
	assert.Equal(t, 1, res.Succeeded)
	assert.Len(t, provider.sent, 1)
}

func TestDispatch_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{delay: 20 * time.Millisecond}
	f := notify.NewFanout(testLogger(), provider, observability.NewMetricsForTesting(), 2, "+91")

	recipients := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		recipients = append(recipients, fmt.Sprintf("+9198765432%02d", i))
	}

	res := f.Dispatch(context.Background(), job(recipients...))

	assert.Equal(t, 10, res.Attempted)
	assert.Equal(t, 10, res.Succeeded)
	assert.LessOrEqual(t, provider.maxInFlight, 2)
}

func TestDispatch_EmptyRecipientList(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{}
	f := notify.NewFanout(testLogger(), provider, observability.NewMetricsForTesting(), 2, "+91")

	res := f.Dispatch(context.Background(), job())

	assert.Equal(t, 0, res.Attempted)
	assert.Equal(t, 0, res.Succeeded)
	assert.Empty(t, provider.sent)
}

func TestDispatch_SimulatedProviderTagsResults(t *testing.T) {
	t.Parallel()

	f := notify.NewFanout(testLogger(), sms.NewSimulated(testLogger()), observability.NewMetricsForTesting(), 2, "+91")

	res := f.Dispatch(context.Background(), job("+911", "+912"))

	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 2, res.Succeeded)
	for _, r := range res.PerRecipient {
		assert.True(t, r.Simulated)
		assert.Contains(t, r.ProviderMessageID, "SIM")
	}
}
