package domain

type RiskTier string

const (
	TierSafe    RiskTier = "safe"
	TierWarning RiskTier = "warning"
	TierDanger  RiskTier = "danger"
)

type Point struct {
	Lat float64 `json:"lat" validate:"lat"`
	Lng float64 `json:"lng" validate:"lng"`
}

type ProximityCheckRequest struct {
	Lat float64 `json:"lat" validate:"lat"`
	Lng float64 `json:"lng" validate:"lng"`
}

type ProximityCheckResponse struct {
	Tier        RiskTier `json:"tier"`
	DistanceKM  *float64 `json:"distance_km,omitempty"`
	NearestZone *Zone    `json:"nearest_zone,omitempty"`
}
