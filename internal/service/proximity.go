package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
	"github.com/Dibyajyoti630/RedZone/internal/geo"
	"github.com/Dibyajyoti630/RedZone/internal/observability"
	"github.com/Dibyajyoti630/RedZone/pkg/e"
)

const activeZonesTTL = 60 * time.Second

type proximityService struct {
	zones   ZoneRepository
	cache   ZoneCache
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewProximityService(zones ZoneRepository, cache ZoneCache, metrics *observability.Metrics, logger *slog.Logger) ProximityService {
	return &proximityService{
		zones:   zones,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *proximityService) Check(ctx context.Context, req domain.ProximityCheckRequest) (domain.ProximityCheckResponse, error) {
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		return domain.ProximityCheckResponse{}, e.ErrInvalidCoordinates
	}

	zones, err := s.activeZones(ctx)
	if err != nil {
		return domain.ProximityCheckResponse{}, err
	}

	ev := geo.Evaluate(domain.Point{Lat: req.Lat, Lng: req.Lng}, zones)
	s.metrics.ProximityChecks.WithLabelValues(string(ev.Tier)).Inc()

	resp := domain.ProximityCheckResponse{Tier: ev.Tier}
	if ev.Nearest != nil {
		d := ev.DistanceKM
		resp.DistanceKM = &d
		resp.NearestZone = ev.Nearest
	}
	return resp, nil
}

// activeZones serves from cache when possible; a redis failure degrades to
// a direct Postgres read instead of failing the check.
func (s *proximityService) activeZones(ctx context.Context) ([]*domain.Zone, error) {
	cached, err := s.cache.GetActive(ctx)
	if err != nil {
		s.logger.Error("zone cache read failed", slog.Any("error", err))
	} else if cached != nil {
		return cached, nil
	}

	zones, err := s.zones.ListApprovedWithCoords(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetActive(ctx, zones, activeZonesTTL); err != nil {
		s.logger.Error("zone cache write failed", slog.Any("error", err))
	}
	return zones, nil
}
