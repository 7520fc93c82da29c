package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/internal/observability"
	"github.com/Dibyajyoti630/RedZone/internal/service"
	"github.com/Dibyajyoti630/RedZone/pkg/e"

	mock_service "github.com/Dibyajyoti630/RedZone/internal/service/mocks"
)

func newProximityFixture(ctrl *gomock.Controller) (*mock_service.MockZoneRepository, *mock_service.MockZoneCache, service.ProximityService) {
	zones := mock_service.NewMockZoneRepository(ctrl)
	cache := mock_service.NewMockZoneCache(ctrl)
	svc := service.NewProximityService(zones, cache, observability.NewMetricsForTesting(), discardLogger())
	return zones, cache, svc
}

func approvedZoneAt(lat, lng float64, sev domain.Severity) *domain.Zone {
	return &domain.Zone{
		ID:          uuid.New(),
		Title:       "Chemical Spill",
		Status:      domain.ZoneApproved,
		Severity:    sev,
		Coordinates: &domain.Coordinates{Lat: lat, Lng: lng},
	}
}

func TestProximity_CacheHit(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	zones, cache, svc := newProximityFixture(ctrl)
	cache.EXPECT().GetActive(gomock.Any()).
		Return([]*domain.Zone{approvedZoneAt(28.6139, 77.2090, domain.SeverityHigh)}, nil)
	_ = zones // repo must stay untouched on a hit

	resp, err := svc.Check(context.Background(), domain.ProximityCheckRequest{Lat: 28.6139, Lng: 77.2090})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if resp.Tier != domain.TierDanger {
		t.Fatalf("expected danger on top of a high zone, got %q", resp.Tier)
	}
	if resp.DistanceKM == nil || *resp.DistanceKM > 0.001 {
		t.Fatalf("distance should be ~0, got %v", resp.DistanceKM)
	}
	if resp.NearestZone == nil {
		t.Fatalf("nearest zone missing")
	}
}

func TestProximity_CacheMiss_FillsFromPostgres(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	active := []*domain.Zone{approvedZoneAt(28.62, 77.21, domain.SeverityMedium)}

	zones, cache, svc := newProximityFixture(ctrl)
	cache.EXPECT().GetActive(gomock.Any()).Return(nil, nil)
	zones.EXPECT().ListApprovedWithCoords(gomock.Any()).Return(active, nil)
	cache.EXPECT().SetActive(gomock.Any(), active, gomock.Any()).Return(nil)

	resp, err := svc.Check(context.Background(), domain.ProximityCheckRequest{Lat: 28.6139, Lng: 77.2090})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// ~0.7km from a medium zone sits in the warning ring
	if resp.Tier != domain.TierWarning {
		t.Fatalf("expected warning, got %q", resp.Tier)
	}
}

func TestProximity_RedisDown_DegradesToPostgres(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	zones, cache, svc := newProximityFixture(ctrl)
	cache.EXPECT().GetActive(gomock.Any()).Return(nil, errors.New("connection refused"))
	zones.EXPECT().ListApprovedWithCoords(gomock.Any()).Return([]*domain.Zone{}, nil)
	cache.EXPECT().SetActive(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	resp, err := svc.Check(context.Background(), domain.ProximityCheckRequest{Lat: 10, Lng: 10})
	if err != nil {
		t.Fatalf("check must survive a dead cache: %v", err)
	}
	if resp.Tier != domain.TierSafe {
		t.Fatalf("expected safe with no zones, got %q", resp.Tier)
	}
	if resp.DistanceKM != nil || resp.NearestZone != nil {
		t.Fatalf("safe with no zones must carry no nearest fields")
	}
}

func TestProximity_InvalidCoordinates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	_, _, svc := newProximityFixture(ctrl)

	for _, req := range []domain.ProximityCheckRequest{
		{Lat: 91, Lng: 0},
		{Lat: -91, Lng: 0},
		{Lat: 0, Lng: 181},
		{Lat: 0, Lng: -181},
	} {
		if _, err := svc.Check(context.Background(), req); !errors.Is(err, e.ErrInvalidCoordinates) {
			t.Fatalf("lat=%v lng=%v: expected ErrInvalidCoordinates, got %v", req.Lat, req.Lng, err)
		}
	}
}
