// Package geo classifies a live coordinate against the set of approved
// zones into a coarse risk tier. Stateless: every call reflects only the
// zone set passed in.
package geo

import (
	"math"

	"github.com/Dibyajyoti630/RedZone/internal/domain"
)

const (
	earthRadiusKM = 6371.0

	dangerRadiusKM  = 0.5
	warningRadiusKM = 2.0
)

type Evaluation struct {
	Tier       domain.RiskTier
	Nearest    *domain.Zone
	DistanceKM float64
}

// Evaluate finds the nearest zone with coordinates and maps its distance
// and severity to a tier. Zones without coordinates never contribute;
// with no candidates the result is safe and Nearest stays nil.
func Evaluate(point domain.Point, zones []*domain.Zone) Evaluation {
	var nearest *domain.Zone
	minDist := math.MaxFloat64

	for _, z := range zones {
		if z == nil || z.Coordinates == nil {
			continue
		}
		d := Haversine(point.Lat, point.Lng, z.Coordinates.Lat, z.Coordinates.Lng)
		if d < minDist {
			minDist = d
			nearest = z
		}
	}

	if nearest == nil {
		return Evaluation{Tier: domain.TierSafe}
	}

	return Evaluation{
		Tier:       tierFor(minDist, nearest.Severity),
		Nearest:    nearest,
		DistanceKM: minDist,
	}
}

func tierFor(distanceKM float64, severity domain.Severity) domain.RiskTier {
	switch {
	case distanceKM < dangerRadiusKM && severity == domain.SeverityHigh:
		return domain.TierDanger
	case distanceKM < warningRadiusKM:
		return domain.TierWarning
	default:
		return domain.TierSafe
	}
}

// Haversine returns the great-circle distance in kilometers between two
// lat/lng points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLon := deg2rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
