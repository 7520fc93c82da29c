package domain

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type ZoneStatus string

const (
	ZonePending  ZoneStatus = "pending"
	ZoneApproved ZoneStatus = "approved"
	ZoneRejected ZoneStatus = "rejected"
	ZoneSafe     ZoneStatus = "safe"
)

type Coordinates struct {
	Lat float64 `json:"lat" validate:"lat"`
	Lng float64 `json:"lng" validate:"lng"`
}

// UserRef is a typed reference to a user: always an id, optionally an
// expanded display name when the query path joined it in.
type UserRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

type Zone struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Landmark    string       `json:"landmark,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Severity    Severity     `json:"severity"`
	Status      ZoneStatus   `json:"status"`
	ReportedBy  UserRef      `json:"reported_by"`
	ReviewedBy  *UserRef     `json:"reviewed_by,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	ReviewedAt  *time.Time   `json:"reviewed_at,omitempty"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type CreateZoneRequest struct {
	Title       string       `json:"title" validate:"required,max=100"`
	Description string       `json:"description" validate:"required,max=500"`
	Location    string       `json:"location" validate:"required"`
	Landmark    string       `json:"landmark" validate:"omitempty,max=100"`
	Severity    Severity     `json:"severity" validate:"required,oneof=low medium high"`
	Coordinates *Coordinates `json:"coordinates" validate:"omitempty"`

	// Approved asks for direct approval at creation time. Honored only
	// when the caller holds moderator privilege.
	Approved bool `json:"approved"`
}

type ZoneListResponse struct {
	Zones []*Zone `json:"zones"`
	Total int64   `json:"total"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

// TransitionEvent is emitted by the lifecycle after a successful status
// change. Callers forward approved/safe events to the notification fanout.
type TransitionEvent struct {
	Zone     *Zone
	Previous ZoneStatus
	New      ZoneStatus
}

// StatusUpdate is a conditional status write: it applies only while the
// zone still holds Expected, so racing transitions get exactly one winner.
type StatusUpdate struct {
	ZoneID     uuid.UUID
	Expected   ZoneStatus
	Target     ZoneStatus
	ReviewedBy *uuid.UUID
	ReviewedAt *time.Time
	UpdatedAt  time.Time
}
