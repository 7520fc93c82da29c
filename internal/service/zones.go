package service

import (
	"context"
	"log/slog"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/pkg/e"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type zoneService struct {
	zones    ZoneRepository
	contacts ContactRepository
	queue    NotifyQueue
	cache    ZoneCache
	logger   *slog.Logger
	clock    clockwork.Clock
}

func NewZoneService(
	zones ZoneRepository,
	contacts ContactRepository,
	queue NotifyQueue,
	cache ZoneCache,
	logger *slog.Logger,
	clock clockwork.Clock,
) ZoneService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &zoneService{
		zones:    zones,
		contacts: contacts,
		queue:    queue,
		cache:    cache,
		logger:   logger,
		clock:    clock,
	}
}

func (s *zoneService) Report(ctx context.Context, actor domain.Identity, req domain.CreateZoneRequest) (*domain.Zone, error) {
	now := s.clock.Now().UTC()
	zone := &domain.Zone{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Landmark:    req.Landmark,
		Coordinates: req.Coordinates,
		Severity:    req.Severity,
		Status:      domain.ZonePending,
		ReportedBy:  domain.UserRef{ID: actor.UserID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Moderators may publish immediately; the approved flag is ignored
	// for everyone else rather than rejected.
	if req.Approved && actor.Role.CanModerate() {
		zone.Status = domain.ZoneApproved
		reviewer := actor.UserID
		zone.ReviewedBy = &domain.UserRef{ID: reviewer}
		zone.ReviewedAt = &now
	}

	if err := s.zones.Create(ctx, zone); err != nil {
		return nil, err
	}

	s.logger.Info("zone reported",
		slog.String("zone_id", zone.ID.String()),
		slog.String("status", string(zone.Status)),
		slog.String("severity", string(zone.Severity)),
	)

	if zone.Status == domain.ZoneApproved {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Error("zone cache invalidate failed", slog.Any("error", err))
		}
		s.broadcastCreated(ctx, zone)
	}

	return zone, nil
}

func (s *zoneService) broadcastCreated(ctx context.Context, zone *domain.Zone) {
	phones, err := s.contacts.ListPhones(ctx)
	if err != nil {
		s.logger.Error("list contact phones failed", slog.Any("error", err))
		return
	}
	if len(phones) == 0 {
		return
	}

	job := domain.NotificationJob{
		Zone:       Snapshot(zone),
		Recipients: phones,
		Variant:    domain.VariantCreated,
		EnqueuedAt: s.clock.Now().UTC(),
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Error("enqueue notification failed",
			slog.String("variant", string(job.Variant)),
			slog.Any("error", err),
		)
	}
}

func (s *zoneService) Get(ctx context.Context, id uuid.UUID) (*domain.Zone, error) {
	return s.zones.Get(ctx, id)
}

func (s *zoneService) Recent(ctx context.Context, limit int) ([]*domain.Zone, error) {
	return s.zones.Recent(ctx, limit)
}

func (s *zoneService) List(ctx context.Context, actor domain.Identity, page, limit int) ([]*domain.Zone, int64, error) {
	if !actor.Role.CanModerate() {
		return nil, 0, e.ErrForbidden
	}
	return s.zones.List(ctx, page, limit)
}
