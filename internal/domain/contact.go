package domain

import (
	"time"

	"github.com/google/uuid"
)

type ContactStatus string

const (
	ContactActive         ContactStatus = "active"
	ContactPendingRemoval ContactStatus = "pending_removal"
)

// Contact is one notification target per user. Phone is stored in
// canonical dialable form.
type Contact struct {
	UserID    uuid.UUID     `json:"user_id"`
	Name      string        `json:"name"`
	Phone     string        `json:"phone"`
	Email     string        `json:"email"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type UpsertContactRequest struct {
	Name  string `json:"name" validate:"omitempty,max=100"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

type ContactResponse struct {
	Exists  bool     `json:"exists"`
	Contact *Contact `json:"contact,omitempty"`
}
