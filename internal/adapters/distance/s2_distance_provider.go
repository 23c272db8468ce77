package distance

import (
	"context"
	"fmt"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/ports"

	"github.com/golang/geo/s2"
)

// Mean Earth radius in metres.
const EarthRadiusMeters = 6371e3

// Great-circle distance on a spherical Earth, computed with s2.
type S2DistanceProvider struct{}

func NewS2DistanceProvider() *S2DistanceProvider { return &S2DistanceProvider{} }

func (S2DistanceProvider) GetDistance(ctx context.Context, origin, destination domain.Coordinates) (ports.DistanceResult, error) {
	if !origin.Valid() || !destination.Valid() {
		return ports.DistanceResult{}, fmt.Errorf("get distance: %w", domain.ErrInvalidFormat)
	}

	a := s2.LatLngFromDegrees(origin.Lat, origin.Lng)
	b := s2.LatLngFromDegrees(destination.Lat, destination.Lng)

	return ports.DistanceResult{
		DistanceMeters: a.Distance(b).Radians() * EarthRadiusMeters,
	}, nil
}
