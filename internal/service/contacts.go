package service

import (
	"context"
	"log/slog"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/pkg/e"
	"github.com/Dibyajyoti630/RedZone/pkg/phone"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type contactService struct {
	contacts      ContactRepository
	logger        *slog.Logger
	clock         clockwork.Clock
	countryPrefix string
}

func NewContactService(contacts ContactRepository, logger *slog.Logger, clock clockwork.Clock, countryPrefix string) ContactService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &contactService{
		contacts:      contacts,
		logger:        logger,
		clock:         clock,
		countryPrefix: countryPrefix,
	}
}

func (s *contactService) Upsert(ctx context.Context, actor domain.Identity, req domain.UpsertContactRequest) (*domain.Contact, error) {
	canonical, err := phone.Normalize(req.Phone, s.countryPrefix)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	contact := &domain.Contact{
		UserID:    actor.UserID,
		Name:      req.Name,
		Phone:     canonical,
		Email:     req.Email,
		Status:    domain.ContactActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.contacts.Upsert(ctx, contact); err != nil {
		return nil, err
	}

	s.logger.Info("contact registered", slog.String("user_id", actor.UserID.String()))

	// Upsert leaves an existing row's status alone; re-read so the caller
	// sees the stored state, not the candidate we built.
	return s.contacts.FindByUser(ctx, actor.UserID)
}

func (s *contactService) Me(ctx context.Context, actor domain.Identity) (*domain.Contact, error) {
	return s.contacts.FindByUser(ctx, actor.UserID)
}

func (s *contactService) RequestRemoval(ctx context.Context, actor domain.Identity) (*domain.Contact, error) {
	if err := s.contacts.SetStatus(ctx, actor.UserID, domain.ContactPendingRemoval); err != nil {
		return nil, err
	}
	s.logger.Info("contact removal requested", slog.String("user_id", actor.UserID.String()))
	return s.contacts.FindByUser(ctx, actor.UserID)
}

func (s *contactService) DeleteMine(ctx context.Context, actor domain.Identity) error {
	return s.contacts.DeleteByUser(ctx, actor.UserID)
}

func (s *contactService) List(ctx context.Context, actor domain.Identity) ([]*domain.Contact, error) {
	if !actor.Role.CanModerate() {
		return nil, e.ErrForbidden
	}
	return s.contacts.List(ctx)
}

func (s *contactService) Delete(ctx context.Context, actor domain.Identity, userID uuid.UUID) error {
	if !actor.Role.CanModerate() {
		return e.ErrForbidden
	}
	if err := s.contacts.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("contact removed by moderator",
		slog.String("user_id", userID.String()),
		slog.String("actor", actor.UserID.String()),
	)
	return nil
}
