package postgres

import (
	"context"

	"github.com/Dibyajyoti630/RedZone/internal/domain"

	"github.com/google/uuid"
)

type ZoneRepository interface {
	Create(ctx context.Context, zone *domain.Zone) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Zone, error)
	Recent(ctx context.Context, limit int) ([]*domain.Zone, error)
	List(ctx context.Context, page, limit int) ([]*domain.Zone, int64, error)
	ListApprovedWithCoords(ctx context.Context) ([]*domain.Zone, error)

	// UpdateStatus applies the transition only when the row still holds
	// the expected status (compare-and-set on status): concurrent
	// conflicting transitions resolve to exactly one winner.
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

func (p *Postgres) Zones() ZoneRepository       { return p.Zone }
func (p *Postgres) Contacts() ContactRepository { return p.Contact }
