package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageVariant string

const (
	VariantCreated  MessageVariant = "created"
	VariantApproved MessageVariant = "approved"
	VariantSafe     MessageVariant = "safe"
	VariantReporter MessageVariant = "reporter"
)

type SendOutcome string

const (
	OutcomeSent   SendOutcome = "sent"
	OutcomeFailed SendOutcome = "failed"
)

// ZoneSnapshot freezes the fields a notification message needs at the
// moment of dispatch, so later edits to the zone cannot change the text.
type ZoneSnapshot struct {
	ID       uuid.UUID  `json:"id"`
	Title    string     `json:"title"`
	Location string     `json:"location"`
	Severity Severity   `json:"severity"`
	Status   ZoneStatus `json:"status"`
}

// NotificationJob is ephemeral: built at dispatch time, dropped after the
// results are logged. There is no retry queue across restarts.
type NotificationJob struct {
	Zone       ZoneSnapshot   `json:"zone"`
	Recipients []string       `json:"recipients"`
	Variant    MessageVariant `json:"variant"`
	EnqueuedAt time.Time      `json:"enqueued_at"`
}

type RecipientResult struct {
	Phone             string      `json:"phone"`
	Outcome           SendOutcome `json:"outcome"`
	ProviderMessageID string      `json:"provider_message_id,omitempty"`
	Simulated         bool        `json:"simulated,omitempty"`
	Error             string      `json:"error,omitempty"`
}

type NotificationResult struct {
	Attempted    int               `json:"attempted"`
	Succeeded    int               `json:"succeeded"`
	PerRecipient []RecipientResult `json:"per_recipient"`
}
