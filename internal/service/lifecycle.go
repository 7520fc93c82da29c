package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/internal/observability"
	"github.com/Dibyajyoti630/RedZone/pkg/e"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// transitionSources is the whole state machine: for each reachable target,
// the single status a zone must currently hold. Anything else is invalid.
var transitionSources = map[domain.ZoneStatus]domain.ZoneStatus{
	domain.ZoneApproved: domain.ZonePending,
	domain.ZoneRejected: domain.ZonePending,
	domain.ZoneSafe:     domain.ZoneApproved,
}

type moderationService struct {
	zones    ZoneRepository
	contacts ContactRepository
	queue    NotifyQueue
	cache    ZoneCache
	metrics  *observability.Metrics
	logger   *slog.Logger
	clock    clockwork.Clock
}

func NewModerationService(
	zones ZoneRepository,
	contacts ContactRepository,
	queue NotifyQueue,
	cache ZoneCache,
	metrics *observability.Metrics,
	logger *slog.Logger,
	clock clockwork.Clock,
) ModerationService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &moderationService{
		zones:    zones,
		contacts: contacts,
		queue:    queue,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		clock:    clock,
	}
}

func (s *moderationService) Transition(ctx context.Context, zoneID uuid.UUID, target domain.ZoneStatus, actor domain.Identity) (*domain.Zone, error) {
	// Privilege before existence: a non-moderator probing random ids must
	// not learn which of them exist.
	if !actor.Role.CanModerate() {
		return nil, e.ErrForbidden
	}

	expected, ok := transitionSources[target]
	if !ok {
		return nil, e.ErrInvalidTransition
	}

	zone, err := s.zones.Get(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	if zone.Status != expected {
		return nil, e.ErrInvalidTransition
	}

	now := s.clock.Now().UTC()
	upd := domain.StatusUpdate{
		ZoneID:    zoneID,
		Expected:  expected,
		Target:    target,
		UpdatedAt: now,
	}
	if target == domain.ZoneApproved || target == domain.ZoneRejected {
		reviewer := actor.UserID
		upd.ReviewedBy = &reviewer
		upd.ReviewedAt = &now
	}

	swapped, err := s.zones.UpdateStatus(ctx, upd)
	if err != nil {
		return nil, err
	}
	if !swapped {
		// Lost a race or the zone vanished; re-read to tell which.
		if _, getErr := s.zones.Get(ctx, zoneID); getErr != nil {
			return nil, getErr
		}
		return nil, e.ErrInvalidTransition
	}

	previous := zone.Status
	zone.Status = target
	zone.UpdatedAt = now
	if upd.ReviewedBy != nil {
		zone.ReviewedBy = &domain.UserRef{ID: *upd.ReviewedBy}
		zone.ReviewedAt = upd.ReviewedAt
	}

	s.metrics.Transitions.WithLabelValues(string(target)).Inc()
	s.logger.Info("zone transition",
		slog.String("zone_id", zoneID.String()),
		slog.String("from", string(previous)),
		slog.String("to", string(target)),
		slog.String("actor", actor.UserID.String()),
	)

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Error("zone cache invalidate failed", slog.Any("error", err))
	}

	s.notifyFor(ctx, zone, target)

	return zone, nil
}

// notifyFor enqueues the SMS jobs a transition implies. Queue failures are
// logged and swallowed: the status change has already committed.
func (s *moderationService) notifyFor(ctx context.Context, zone *domain.Zone, target domain.ZoneStatus) {
	var variant domain.MessageVariant
	switch target {
	case domain.ZoneApproved:
		variant = domain.VariantApproved
	case domain.ZoneSafe:
		variant = domain.VariantSafe
	default:
		return
	}

	phones, err := s.contacts.ListPhones(ctx)
	if err != nil {
		s.logger.Error("list contact phones failed", slog.Any("error", err))
		phones = nil
	}

	snap := Snapshot(zone)
	if len(phones) > 0 {
		s.enqueue(ctx, domain.NotificationJob{
			Zone:       snap,
			Recipients: phones,
			Variant:    variant,
			EnqueuedAt: s.clock.Now().UTC(),
		})
	}

	if target != domain.ZoneApproved {
		return
	}

	// The reporter gets a personal confirmation on top of the broadcast,
	// but only if they registered a contact.
	reporter, err := s.contacts.FindByUser(ctx, zone.ReportedBy.ID)
	if err != nil {
		if !errors.Is(err, e.ErrNotFound) {
			s.logger.Error("find reporter contact failed", slog.Any("error", err))
		}
		return
	}
	s.enqueue(ctx, domain.NotificationJob{
		Zone:       snap,
		Recipients: []string{reporter.Phone},
		Variant:    domain.VariantReporter,
		EnqueuedAt: s.clock.Now().UTC(),
	})
}

func (s *moderationService) enqueue(ctx context.Context, job domain.NotificationJob) {
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Error("enqueue notification failed",
			slog.String("variant", string(job.Variant)),
			slog.Int("recipients", len(job.Recipients)),
			slog.Any("error", err),
		)
	}
}

// Snapshot freezes the message-relevant zone fields for a queued job.
func Snapshot(zone *domain.Zone) domain.ZoneSnapshot {
	return domain.ZoneSnapshot{
		ID:       zone.ID,
		Title:    zone.Title,
		Location: zone.Location,
		Severity: zone.Severity,
		Status:   zone.Status,
	}
}
