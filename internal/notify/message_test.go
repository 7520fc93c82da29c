package notify_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/internal/notify"
)

func snapshot() domain.ZoneSnapshot {
	return domain.ZoneSnapshot{
		ID:       uuid.New(),
		Title:    "Flooded Street",
		Location: "Riverside Avenue",
		Severity: domain.SeverityMedium,
		Status:   domain.ZoneApproved,
	}
}

func TestFormatMessage_Approved(t *testing.T) {
	t.Parallel()

	got := notify.FormatMessage(domain.VariantApproved, snapshot())
	assert.Equal(t,
		`ALERT: RedZone "Flooded Street" at Riverside Avenue has been verified and approved. Severity: MEDIUM. Please exercise caution in this area.`,
		got)
}

func TestFormatMessage_Created(t *testing.T) {
	t.Parallel()

	s := snapshot()
	s.Status = domain.ZonePending
	got := notify.FormatMessage(domain.VariantCreated, s)
	assert.Equal(t,
		`ALERT: New RedZone "Flooded Street" has been reported at Riverside Avenue. Severity: MEDIUM. Please exercise caution in this area.`,
		got)
}

func TestFormatMessage_CreatedAlreadyApproved(t *testing.T) {
	t.Parallel()

	got := notify.FormatMessage(domain.VariantCreated, snapshot())
	assert.Contains(t, got, "has been verified and approved")
}

func TestFormatMessage_Safe(t *testing.T) {
	t.Parallel()

	got := notify.FormatMessage(domain.VariantSafe, snapshot())
	assert.Equal(t,
		`SAFETY UPDATE: The area "Flooded Street" at Riverside Avenue is now marked as SAFE by authorities. You can resume normal activities in this area.`,
		got)
}

func TestFormatMessage_Reporter(t *testing.T) {
	t.Parallel()

	got := notify.FormatMessage(domain.VariantReporter, snapshot())
	assert.Contains(t, got, `Your RedZone report "Flooded Street" at Riverside Avenue has been approved`)
}

func TestFormatMessage_MissingSeverityDefaultsHigh(t *testing.T) {
	t.Parallel()

	s := snapshot()
	s.Severity = ""
	got := notify.FormatMessage(domain.VariantApproved, s)
	assert.Contains(t, got, "Severity: HIGH.")
}
