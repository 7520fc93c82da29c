package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/internal/service"
	"github.com/Dibyajyoti630/RedZone/pkg/e"

	mock_service "github.com/Dibyajyoti630/RedZone/internal/service/mocks"
)

type zonesFixture struct {
	zones    *mock_service.MockZoneRepository
	contacts *mock_service.MockContactRepository
	queue    *mock_service.MockNotifyQueue
	cache    *mock_service.MockZoneCache
	svc      service.ZoneService
}

func newZonesFixture(ctrl *gomock.Controller) *zonesFixture {
	f := &zonesFixture{
		zones:    mock_service.NewMockZoneRepository(ctrl),
		contacts: mock_service.NewMockContactRepository(ctrl),
		queue:    mock_service.NewMockNotifyQueue(ctrl),
		cache:    mock_service.NewMockZoneCache(ctrl),
	}
	f.svc = service.NewZoneService(
		f.zones, f.contacts, f.queue, f.cache,
		discardLogger(),
		clockwork.NewFakeClockAt(frozenAt),
	)
	return f
}

func createReq() domain.CreateZoneRequest {
	return domain.CreateZoneRequest{
		Title:       "Gas Leak",
		Description: "Strong smell near the market",
		Location:    "Sector 12",
		Landmark:    "Opposite the bus depot",
		Severity:    domain.SeverityHigh,
		Coordinates: &domain.Coordinates{Lat: 28.6139, Lng: 77.2090},
	}
}

func TestZones_Report_DefaultsToPending(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor := domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}

	f := newZonesFixture(ctrl)
	var stored *domain.Zone
	f.zones.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, z *domain.Zone) error {
			stored = z
			return nil
		})
	// pending zones broadcast nothing and touch no cache

	got, err := f.svc.Report(context.Background(), actor, createReq())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.ID == uuid.Nil {
		t.Fatalf("id not generated")
	}
	if got.Status != domain.ZonePending {
		t.Fatalf("expected pending, got %q", got.Status)
	}
	if got.ReportedBy.ID != actor.UserID {
		t.Fatalf("reporter not stamped")
	}
	if got.ReviewedBy != nil || got.ReviewedAt != nil {
		t.Fatalf("pending zone must carry no review trail")
	}
	if stored == nil || stored.Title != "Gas Leak" || stored.Coordinates == nil {
		t.Fatalf("zone fields lost on the way to the repo: %+v", stored)
	}
	if !stored.CreatedAt.Equal(frozenAt) || !stored.UpdatedAt.Equal(frozenAt) {
		t.Fatalf("timestamps not taken from the clock")
	}
}

func TestZones_Report_ModeratorDirectApproval(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	actor := moderator()
	req := createReq()
	req.Approved = true

	f := newZonesFixture(ctrl)
	f.zones.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	f.cache.EXPECT().Invalidate(gomock.Any()).Return(nil)
	f.contacts.EXPECT().ListPhones(gomock.Any()).Return([]string{"+919876543210"}, nil)
	f.queue.EXPECT().
		Enqueue(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, job domain.NotificationJob) error {
			if job.Variant != domain.VariantCreated {
				t.Fatalf("expected created variant, got %q", job.Variant)
			}
			if job.Zone.Status != domain.ZoneApproved {
				t.Fatalf("snapshot must carry approved status")
			}
			return nil
		})

	got, err := f.svc.Report(context.Background(), actor, req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != domain.ZoneApproved {
		t.Fatalf("expected approved, got %q", got.Status)
	}
	if got.ReviewedBy == nil || got.ReviewedBy.ID != actor.UserID {
		t.Fatalf("direct approval must stamp the creating moderator")
	}
	if got.ReviewedAt == nil || !got.ReviewedAt.Equal(frozenAt) {
		t.Fatalf("review time not stamped")
	}
}

func TestZones_Report_ApprovedFlagIgnoredForUsers(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := createReq()
	req.Approved = true

	f := newZonesFixture(ctrl)
	f.zones.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	got, err := f.svc.Report(context.Background(),
		domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}, req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Status != domain.ZonePending {
		t.Fatalf("approved flag from a regular user must be ignored, got %q", got.Status)
	}
}

func TestZones_Report_RepoError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newZonesFixture(ctrl)
	f.zones.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("pg down"))

	_, err := f.svc.Report(context.Background(),
		domain.Identity{UserID: uuid.New()}, createReq())
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestZones_List_RequiresModerator(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newZonesFixture(ctrl)

	_, _, err := f.svc.List(context.Background(),
		domain.Identity{UserID: uuid.New(), Role: domain.RoleUser}, 1, 20)
	if !errors.Is(err, e.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestZones_List_Moderator(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newZonesFixture(ctrl)
	f.zones.EXPECT().List(gomock.Any(), 2, 10).Return([]*domain.Zone{{}}, int64(11), nil)

	zones, total, err := f.svc.List(context.Background(), moderator(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(zones) != 1 || total != 11 {
		t.Fatalf("unexpected page: %d items, total %d", len(zones), total)
	}
}
