package distance

import (
	"context"
	"fmt"
	"geo-photo-game/internal/domain"
	"geo-photo-game/internal/ports"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   float64
}

type MockDistanceProvider struct {
	m map[[2]domain.Coordinates]ports.DistanceResult
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[[2]domain.Coordinates]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[[2]domain.Coordinates{p.From, p.To}] = ports.DistanceResult{DistanceMeters: p.Meters}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination domain.Coordinates) (ports.DistanceResult, error) {
	r, ok := p.m[[2]domain.Coordinates{origin, destination}]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %v -> %v", origin, destination)
	}

	return r, nil
}
