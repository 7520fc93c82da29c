package service

import (
	"context"
	"time"

	"github.com/Dibyajyoti630/RedZone/internal/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type ZoneService interface {
	Report(ctx context.Context, actor domain.Identity, req domain.CreateZoneRequest) (*domain.Zone, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Zone, error)
	Recent(ctx context.Context, limit int) ([]*domain.Zone, error)
	List(ctx context.Context, actor domain.Identity, page, limit int) ([]*domain.Zone, int64, error)
}

// ModerationService drives the zone state machine. Transition is the only
// way a zone changes status after creation.
type ModerationService interface {
	Transition(ctx context.Context, zoneID uuid.UUID, target domain.ZoneStatus, actor domain.Identity) (*domain.Zone, error)
}

type ContactService interface {
	Upsert(ctx context.Context, actor domain.Identity, req domain.UpsertContactRequest) (*domain.Contact, error)
	Me(ctx context.Context, actor domain.Identity) (*domain.Contact, error)
	RequestRemoval(ctx context.Context, actor domain.Identity) (*domain.Contact, error)
	DeleteMine(ctx context.Context, actor domain.Identity) error
	List(ctx context.Context, actor domain.Identity) ([]*domain.Contact, error)
	Delete(ctx context.Context, actor domain.Identity, userID uuid.UUID) error
}

type ProximityService interface {
	Check(ctx context.Context, req domain.ProximityCheckRequest) (domain.ProximityCheckResponse, error)
}

type ZoneRepository interface {
	Create(ctx context.Context, zone *domain.Zone) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Zone, error)
	Recent(ctx context.Context, limit int) ([]*domain.Zone, error)
	List(ctx context.Context, page, limit int) ([]*domain.Zone, int64, error)
	ListApprovedWithCoords(ctx context.Context) ([]*domain.Zone, error)
	UpdateStatus(ctx context.Context, upd domain.StatusUpdate) (bool, error)
}

type ContactRepository interface {
	Upsert(ctx context.Context, contact *domain.Contact) error
	FindByUser(ctx context.Context, userID uuid.UUID) (*domain.Contact, error)
	List(ctx context.Context) ([]*domain.Contact, error)
	ListPhones(ctx context.Context) ([]string, error)
	SetStatus(ctx context.Context, userID uuid.UUID, status domain.ContactStatus) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type NotifyQueue interface {
	Enqueue(ctx context.Context, job domain.NotificationJob) error
}

type ZoneCache interface {
	GetActive(ctx context.Context) ([]*domain.Zone, error)
	SetActive(ctx context.Context, zones []*domain.Zone, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type Service struct {
	ZoneService       ZoneService
	ModerationService ModerationService
	ContactService    ContactService
	ProximityService  ProximityService
}

func NewService(
	zoneService ZoneService,
	moderationService ModerationService,
	contactService ContactService,
	proximityService ProximityService,
) *Service {
	return &Service{
		ZoneService:       zoneService,
		ModerationService: moderationService,
		ContactService:    contactService,
		ProximityService:  proximityService,
	}
}
