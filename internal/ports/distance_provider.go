package ports

import (
	"context"
	"geo-photo-game/internal/domain"
)

// Distance between two points.
type DistanceResult struct {
	DistanceMeters float64
}

// Contract for measuring the distance between a guess and the true photo location.
type DistanceProvider interface {
	GetDistance(ctx context.Context, origin, destination domain.Coordinates) (DistanceResult, error)
}
